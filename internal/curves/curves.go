// Package curves holds the interpolation primitives shared by the renderer.
package curves

import (
	"strings"

	"github.com/fogleman/ease"

	"github.com/ivlev/mockvideo/internal/timeline"
)

// Func maps a normalized time t in [0,1] onto a progress value.
// Every curve returns 0 at t=0 and 1 at t=1.
type Func func(t float64) float64

var named = map[string]Func{
	"":             ease.Linear,
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
}

// Lookup returns the curve registered under name
func Lookup(name string) (Func, bool) {
	f, ok := named[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Apply runs t through the named curve, unknown names are linear
func Apply(name string, t float64) float64 {
	if f, ok := Lookup(name); ok {
		return f(t)
	}
	return t
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 interpolates every axis independently
func LerpVec3(a, b timeline.Vec3, t float64) timeline.Vec3 {
	return timeline.Vec3{
		X: Lerp(a.X, b.X, t),
		Y: Lerp(a.Y, b.Y, t),
		Z: Lerp(a.Z, b.Z, t),
	}
}
