package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/ivlev/mockvideo/internal/timeline"
)

func testKeyframes() []timeline.Keyframe {
	return []timeline.Keyframe{
		{Time: 0.0, Position: timeline.Vec3{X: 0, Y: 0, Z: 0}, Rotation: timeline.Vec3{X: 0, Y: 0, Z: 0}, Opacity: 1.0},
		{Time: 2.0, Position: timeline.Vec3{X: 10, Y: 0, Z: 0}, Rotation: timeline.Vec3{X: 0, Y: 90, Z: 0}, Opacity: 0.5},
		{Time: 4.0, Position: timeline.Vec3{X: 10, Y: 20, Z: -4}, Rotation: timeline.Vec3{X: 45, Y: 90, Z: 0}, Opacity: 0.0},
	}
}

func TestInterpolateKeyframes(t *testing.T) {
	keyframes := testKeyframes()

	tests := []struct {
		time     float64
		expected timeline.Vec3
	}{
		{-1.0, timeline.Vec3{X: 0, Y: 0, Z: 0}},   // Before first keyframe
		{0.0, timeline.Vec3{X: 0, Y: 0, Z: 0}},    // First keyframe
		{1.0, timeline.Vec3{X: 5, Y: 0, Z: 0}},    // Midpoint between first and second
		{2.0, timeline.Vec3{X: 10, Y: 0, Z: 0}},   // Second keyframe
		{3.0, timeline.Vec3{X: 10, Y: 10, Z: -2}}, // Midpoint between second and third
		{4.0, timeline.Vec3{X: 10, Y: 20, Z: -4}}, // Third keyframe
		{5.0, timeline.Vec3{X: 10, Y: 20, Z: -4}}, // After last keyframe
	}

	for _, tt := range tests {
		state, err := InterpolateKeyframes(keyframes, tt.time)
		if err != nil {
			t.Fatalf("At time %.1f: unexpected error %v", tt.time, err)
		}
		if state.Position != tt.expected {
			t.Errorf("At time %.1f: expected position %+v, got %+v", tt.time, tt.expected, state.Position)
		}
	}
}

func TestInterpolateExactKeyframeValues(t *testing.T) {
	keyframes := testKeyframes()

	for i, kf := range keyframes {
		state, err := InterpolateKeyframes(keyframes, kf.Time)
		if err != nil {
			t.Fatalf("Keyframe %d: unexpected error %v", i, err)
		}
		if state.Position != kf.Position || state.Rotation != kf.Rotation || state.Opacity != kf.Opacity {
			t.Errorf("Keyframe %d: expected %+v, got %+v", i, kf, state)
		}
	}
}

func TestInterpolateLinearity(t *testing.T) {
	keyframes := testKeyframes()
	kf1, kf2 := keyframes[1], keyframes[2]

	a, _ := InterpolateKeyframes(keyframes, kf1.Time)
	b, _ := InterpolateKeyframes(keyframes, kf2.Time)

	for _, local := range []float64{2.25, 2.5, 3.1, 3.99} {
		tt := (local - kf1.Time) / (kf2.Time - kf1.Time)
		mid, err := InterpolateKeyframes(keyframes, local)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}

		want := []float64{
			a.Position.X + (b.Position.X-a.Position.X)*tt,
			a.Position.Y + (b.Position.Y-a.Position.Y)*tt,
			a.Position.Z + (b.Position.Z-a.Position.Z)*tt,
			a.Rotation.X + (b.Rotation.X-a.Rotation.X)*tt,
			a.Rotation.Y + (b.Rotation.Y-a.Rotation.Y)*tt,
		}
		got := []float64{mid.Position.X, mid.Position.Y, mid.Position.Z, mid.Rotation.X, mid.Rotation.Y}
		for i := range want {
			if abs(want[i]-got[i]) > 1e-9 {
				t.Errorf("At %.2f axis %d: expected %f, got %f", local, i, want[i], got[i])
			}
		}
	}
}

func TestInterpolateSingleKeyframe(t *testing.T) {
	keyframes := []timeline.Keyframe{{Time: 1.5, Position: timeline.Vec3{X: 3, Y: 2, Z: 1}, Opacity: 0.7}}

	for _, local := range []float64{-10, 0, 1.5, 2, 100} {
		state, err := InterpolateKeyframes(keyframes, local)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if state.Position != keyframes[0].Position || state.Opacity != 0.7 {
			t.Errorf("At %.1f: expected the only keyframe, got %+v", local, state)
		}
	}
}

func TestInterpolateZeroSpan(t *testing.T) {
	keyframes := []timeline.Keyframe{
		{Time: 0, Position: timeline.Vec3{X: 0}},
		{Time: 1, Position: timeline.Vec3{X: 1}},
		{Time: 1, Position: timeline.Vec3{X: 50}},
		{Time: 2, Position: timeline.Vec3{X: 2}},
	}

	state, err := InterpolateKeyframes(keyframes, 1)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if state.Position.X != 1 {
		t.Errorf("Expected first matching pair to win at a duplicated time, got %+v", state.Position)
	}
}

func TestInterpolateEmptyKeyframes(t *testing.T) {
	_, err := Interpolate(&timeline.KeyframedAnimation{ID: "empty"}, 1)
	if !errors.Is(err, ErrInvalidAnimation) {
		t.Errorf("Expected ErrInvalidAnimation, got %v", err)
	}

	_, err = Interpolate(nil, 1)
	if !errors.Is(err, ErrInvalidAnimation) {
		t.Errorf("Expected ErrInvalidAnimation for nil animation, got %v", err)
	}
}

func TestInterpolateEasedSegment(t *testing.T) {
	keyframes := []timeline.Keyframe{
		{Time: 0, Position: timeline.Vec3{X: 0}, Ease: "in-quad"},
		{Time: 2, Position: timeline.Vec3{X: 10}},
	}

	state, _ := InterpolateKeyframes(keyframes, 1)
	if abs(state.Position.X-2.5) > 1e-9 {
		t.Errorf("Expected eased position 2.5, got %f", state.Position.X)
	}

	end, _ := InterpolateKeyframes(keyframes, 2)
	if end.Position.X != 10 {
		t.Errorf("Expected exact keyframe value at boundary, got %f", end.Position.X)
	}
}

func TestInterpolateRange(t *testing.T) {
	anim := &timeline.RangeAnimation{
		Start:    2,
		End:      6,
		PosStart: timeline.Vec3{X: 0},
		PosEnd:   timeline.Vec3{X: 8},
		RotStart: timeline.Vec3{Z: 0},
		RotEnd:   timeline.Vec3{Z: 180},
	}

	tests := []struct {
		local float64
		x, rz float64
	}{
		{-1, 0, 0},
		{0, 0, 0},
		{1, 2, 45},
		{2, 4, 90},
		{4, 8, 180},
		{9, 8, 180},
	}

	for _, tt := range tests {
		state, err := Interpolate(anim, tt.local)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if state.Position.X != tt.x || state.Rotation.Z != tt.rz || state.Opacity != 1 {
			t.Errorf("At %.1f: expected x=%.1f rz=%.1f, got %+v", tt.local, tt.x, tt.rz, state)
		}
	}

	point := &timeline.RangeAnimation{Start: 3, End: 3, PosStart: timeline.Vec3{Y: 1}, PosEnd: timeline.Vec3{Y: 2}}
	before, _ := Interpolate(point, 0)
	after, _ := Interpolate(point, 0.5)
	if before.Position.Y != 1 || after.Position.Y != 2 {
		t.Errorf("Zero-length range: expected 1 then 2, got %f and %f", before.Position.Y, after.Position.Y)
	}
}

func abs(x float64) float64 {
	return math.Abs(x)
}
