package timeline

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	KindKeyframed = "keyframed"
	KindRange     = "range"
)

// animationDoc is the on-disk shape of both animation variants
type animationDoc struct {
	Kind      string     `yaml:"kind"`
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Start     float64    `yaml:"start"`
	End       float64    `yaml:"end"`
	Keyframes []Keyframe `yaml:"keyframes,omitempty"`
	PosStart  *Vec3      `yaml:"posStart,omitempty"`
	PosEnd    *Vec3      `yaml:"posEnd,omitempty"`
	RotStart  *Vec3      `yaml:"rotStart,omitempty"`
	RotEnd    *Vec3      `yaml:"rotEnd,omitempty"`
}

type trackDoc struct {
	ID         string         `yaml:"id"`
	PhoneName  string         `yaml:"phoneName"`
	Animations []animationDoc `yaml:"animations"`
}

func (d animationDoc) hasRange() bool {
	return d.PosStart != nil || d.PosEnd != nil || d.RotStart != nil || d.RotEnd != nil
}

func (d animationDoc) decode() (Animation, error) {
	kind := d.Kind
	if kind == "" {
		kind = KindKeyframed
		if len(d.Keyframes) == 0 && d.hasRange() {
			kind = KindRange
		}
	}

	switch kind {
	case KindKeyframed:
		if d.hasRange() {
			return nil, fmt.Errorf("%w: animation %q mixes keyframes with start/end poses", ErrInvalidAnimation, d.ID)
		}
		return &KeyframedAnimation{
			ID:        d.ID,
			Name:      d.Name,
			Start:     d.Start,
			End:       d.End,
			Keyframes: d.Keyframes,
		}, nil
	case KindRange:
		if len(d.Keyframes) > 0 {
			return nil, fmt.Errorf("%w: range animation %q has keyframes", ErrInvalidAnimation, d.ID)
		}
		a := &RangeAnimation{ID: d.ID, Name: d.Name, Start: d.Start, End: d.End}
		if d.PosStart != nil {
			a.PosStart = *d.PosStart
		}
		if d.PosEnd != nil {
			a.PosEnd = *d.PosEnd
		}
		if d.RotStart != nil {
			a.RotStart = *d.RotStart
		}
		if d.RotEnd != nil {
			a.RotEnd = *d.RotEnd
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: unknown animation kind %q", ErrInvalidAnimation, d.Kind)
	}
}

func encodeAnimation(a Animation) (animationDoc, error) {
	if IsNil(a) {
		return animationDoc{}, fmt.Errorf("%w: nil animation", ErrInvalidAnimation)
	}
	switch v := a.(type) {
	case *KeyframedAnimation:
		return animationDoc{
			Kind:      KindKeyframed,
			ID:        v.ID,
			Name:      v.Name,
			Start:     v.Start,
			End:       v.End,
			Keyframes: v.Keyframes,
		}, nil
	case *RangeAnimation:
		posStart, posEnd, rotStart, rotEnd := v.PosStart, v.PosEnd, v.RotStart, v.RotEnd
		return animationDoc{
			Kind:     KindRange,
			ID:       v.ID,
			Name:     v.Name,
			Start:    v.Start,
			End:      v.End,
			PosStart: &posStart,
			PosEnd:   &posEnd,
			RotStart: &rotStart,
			RotEnd:   &rotEnd,
		}, nil
	default:
		return animationDoc{}, fmt.Errorf("%w: unsupported animation type %T", ErrInvalidAnimation, a)
	}
}

// UnmarshalYAML decodes animations by their kind discriminator
func (t *Track) UnmarshalYAML(value *yaml.Node) error {
	var doc trackDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}

	t.ID = doc.ID
	t.PhoneName = doc.PhoneName
	t.Animations = make([]Animation, 0, len(doc.Animations))
	for _, ad := range doc.Animations {
		a, err := ad.decode()
		if err != nil {
			return fmt.Errorf("track %q: %w", doc.ID, err)
		}
		t.Animations = append(t.Animations, a)
	}
	return nil
}

// MarshalYAML encodes animations with an explicit kind
func (t Track) MarshalYAML() (interface{}, error) {
	doc := trackDoc{ID: t.ID, PhoneName: t.PhoneName}
	for _, a := range t.Animations {
		ad, err := encodeAnimation(a)
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", t.ID, err)
		}
		doc.Animations = append(doc.Animations, ad)
	}
	return doc, nil
}

// WriteSession writes a session to a YAML file
func WriteSession(session *Session, path string) error {
	data, err := yaml.Marshal(session)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadSession reads a session from a YAML file, normalizes and validates it
func ReadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	session.Normalize()
	if err := session.Validate(); err != nil {
		return nil, err
	}

	return &session, nil
}

// Normalize fills in missing IDs and orders keyframes by time.
// Equal times keep their file order.
func (s *Session) Normalize() {
	if s.Version == "" {
		s.Version = "1.0"
	}
	for i := range s.Tracks {
		tr := &s.Tracks[i]
		if tr.ID == "" {
			tr.ID = uuid.NewString()
		}
		for _, a := range tr.Animations {
			if IsNil(a) {
				continue
			}
			switch v := a.(type) {
			case *KeyframedAnimation:
				if v.ID == "" {
					v.ID = uuid.NewString()
				}
				for j := range v.Keyframes {
					if v.Keyframes[j].ID == "" {
						v.Keyframes[j].ID = uuid.NewString()
					}
				}
				sort.SliceStable(v.Keyframes, func(i, j int) bool {
					return v.Keyframes[i].Time < v.Keyframes[j].Time
				})
			case *RangeAnimation:
				if v.ID == "" {
					v.ID = uuid.NewString()
				}
			}
		}
	}
}

// Validate reports every animation whose start is after its end or that
// cannot be interpolated
func (s *Session) Validate() error {
	var errs error
	if s.EndTime < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: negative end time %.3f", ErrInvalidSession, s.EndTime))
	}
	for _, tr := range s.Tracks {
		for _, a := range tr.Animations {
			if err := ValidateAnimation(a); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("track %q: %w", tr.ID, err))
			}
		}
	}
	return errs
}

// ValidateAnimation checks the invariants of a single animation
func ValidateAnimation(a Animation) error {
	if IsNil(a) {
		return fmt.Errorf("%w: nil animation", ErrInvalidAnimation)
	}
	start, end := a.Bounds()
	if start > end {
		return fmt.Errorf("%w: %q starts at %.3fs after its end %.3fs", ErrInvalidAnimation, a.AnimationID(), start, end)
	}
	if kf, ok := a.(*KeyframedAnimation); ok && len(kf.Keyframes) == 0 {
		return fmt.Errorf("%w: %q has no keyframes", ErrInvalidAnimation, a.AnimationID())
	}
	return nil
}

// EndOfContent returns the configured end time or, when unknown, the
// latest animation end across all tracks
func (s *Session) EndOfContent() float64 {
	if s.EndTime > 0 {
		return s.EndTime
	}
	end := 0.0
	for _, tr := range s.Tracks {
		for _, a := range tr.Animations {
			if IsNil(a) {
				continue
			}
			if _, e := a.Bounds(); e > end {
				end = e
			}
		}
	}
	return end
}
