package timeline

import "errors"

var (
	ErrInvalidAnimation = errors.New("invalid animation")
	ErrInvalidSession   = errors.New("invalid session")
)
