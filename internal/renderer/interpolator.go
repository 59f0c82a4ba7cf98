package renderer

import (
	"fmt"

	"github.com/ivlev/mockvideo/internal/curves"
	"github.com/ivlev/mockvideo/internal/timeline"
)

// Transform is the interpolated pose of a phone at a specific moment
type Transform struct {
	Position timeline.Vec3
	Rotation timeline.Vec3
	Opacity  float64
}

// Interpolate calculates the transform of an animation at an animation-local time
func Interpolate(anim timeline.Animation, localTime float64) (Transform, error) {
	if timeline.IsNil(anim) {
		return Transform{}, fmt.Errorf("%w: nil animation", ErrInvalidAnimation)
	}
	switch a := anim.(type) {
	case *timeline.KeyframedAnimation:
		return InterpolateKeyframes(a.Keyframes, localTime)
	case *timeline.RangeAnimation:
		return interpolateRange(a, localTime), nil
	default:
		return Transform{}, fmt.Errorf("%w: unsupported animation type %T", ErrInvalidAnimation, anim)
	}
}

// InterpolateKeyframes calculates the transform at localTime by interpolating between keyframes.
// Keyframes must be sorted by time.
func InterpolateKeyframes(keyframes []timeline.Keyframe, localTime float64) (Transform, error) {
	if len(keyframes) == 0 {
		return Transform{}, fmt.Errorf("%w: no keyframes", ErrInvalidAnimation)
	}

	// If before first keyframe, use first keyframe
	first := keyframes[0]
	if localTime <= first.Time {
		return fromKeyframe(first), nil
	}

	// If after last keyframe, use last keyframe
	last := keyframes[len(keyframes)-1]
	if localTime >= last.Time {
		return fromKeyframe(last), nil
	}

	// Find surrounding keyframes
	for i := 0; i < len(keyframes)-1; i++ {
		kf1 := keyframes[i]
		kf2 := keyframes[i+1]
		if localTime >= kf1.Time && localTime <= kf2.Time {
			span := kf2.Time - kf1.Time
			t := 0.0
			if span > 0 {
				t = (localTime - kf1.Time) / span
			}
			t = curves.Apply(kf1.Ease, t)

			return Transform{
				Position: curves.LerpVec3(kf1.Position, kf2.Position, t),
				Rotation: curves.LerpVec3(kf1.Rotation, kf2.Rotation, t),
				Opacity:  curves.Lerp(kf1.Opacity, kf2.Opacity, t),
			}, nil
		}
	}

	// Unsorted keyframes leave no enclosing pair
	return Transform{}, fmt.Errorf("%w: keyframes are not sorted by time", ErrInvalidAnimation)
}

// interpolateRange moves from the start pose to the end pose over the animation length
func interpolateRange(a *timeline.RangeAnimation, localTime float64) Transform {
	length := a.End - a.Start
	t := 0.0
	if length > 0 {
		t = localTime / length
	}
	if t < 0 {
		t = 0
	}
	if t > 1 || (length <= 0 && localTime > 0) {
		t = 1
	}

	return Transform{
		Position: curves.LerpVec3(a.PosStart, a.PosEnd, t),
		Rotation: curves.LerpVec3(a.RotStart, a.RotEnd, t),
		Opacity:  1,
	}
}

func fromKeyframe(kf timeline.Keyframe) Transform {
	return Transform{
		Position: kf.Position,
		Rotation: kf.Rotation,
		Opacity:  kf.Opacity,
	}
}
