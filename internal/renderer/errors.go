package renderer

import "github.com/ivlev/mockvideo/internal/timeline"

// ErrInvalidAnimation is returned for animations that cannot be interpolated
var ErrInvalidAnimation = timeline.ErrInvalidAnimation
