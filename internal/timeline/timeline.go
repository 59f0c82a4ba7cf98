package timeline

// Vec3 is a numeric triple used for both position and rotation
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Keyframe is the exact transform state at one animation-local instant.
// Time is the animation-local offset in seconds and Opacity is expected in
// [0,1]. Ease names the curve of the segment starting at this keyframe,
// empty means linear.
type Keyframe struct {
	ID       string  `yaml:"id"`
	Time     float64 `yaml:"time"`
	Position Vec3    `yaml:"position"`
	Rotation Vec3    `yaml:"rotation"`
	Opacity  float64 `yaml:"opacity"`
	Ease     string  `yaml:"ease,omitempty"`
}

// Animation is a bounded interval of a track carrying a transform change.
// It is implemented by *KeyframedAnimation and *RangeAnimation only.
type Animation interface {
	AnimationID() string
	AnimationName() string
	// Bounds returns the track-global interval in seconds
	Bounds() (start, end float64)

	animation()
}

// IsNil reports whether a is nil or a nil pointer of one of the variants
func IsNil(a Animation) bool {
	switch v := a.(type) {
	case nil:
		return true
	case *KeyframedAnimation:
		return v == nil
	case *RangeAnimation:
		return v == nil
	}
	return false
}

// KeyframedAnimation interpolates an ordered keyframe sequence
type KeyframedAnimation struct {
	ID        string
	Name      string
	Start     float64
	End       float64
	Keyframes []Keyframe
}

func (a *KeyframedAnimation) AnimationID() string        { return a.ID }
func (a *KeyframedAnimation) AnimationName() string      { return a.Name }
func (a *KeyframedAnimation) Bounds() (float64, float64) { return a.Start, a.End }
func (a *KeyframedAnimation) animation()                 {}

// RangeAnimation moves linearly from a start to an end pose over [Start, End]
type RangeAnimation struct {
	ID       string
	Name     string
	Start    float64
	End      float64
	PosStart Vec3
	PosEnd   Vec3
	RotStart Vec3
	RotEnd   Vec3
}

func (a *RangeAnimation) AnimationID() string        { return a.ID }
func (a *RangeAnimation) AnimationName() string      { return a.Name }
func (a *RangeAnimation) Bounds() (float64, float64) { return a.Start, a.End }
func (a *RangeAnimation) animation()                 {}

// Track is one timeline lane per target phone
type Track struct {
	ID         string
	PhoneName  string
	Animations []Animation
}

// Session is the set of tracks an editor hands to the playback core.
// EndTime is the content length in seconds, 0 when unknown.
type Session struct {
	Version string  `yaml:"version"`
	EndTime float64 `yaml:"endTime,omitempty"`
	Tracks  []Track `yaml:"tracks"`
}
