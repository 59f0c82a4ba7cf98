package playback

import "errors"

// ErrInvalidArgument is returned for non-finite times and durations.
// The call is logged and skipped without any state change.
var ErrInvalidArgument = errors.New("invalid argument")
