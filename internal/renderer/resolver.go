package renderer

import (
	"math"

	"go.uber.org/zap"

	"github.com/ivlev/mockvideo/internal/store"
	"github.com/ivlev/mockvideo/internal/timeline"
)

// TrackSource supplies the tracks to resolve against.
// The returned slice must not change during a resolve call.
type TrackSource interface {
	Tracks() []timeline.Track
}

// StaticTracks is a TrackSource over a fixed set of tracks
type StaticTracks []timeline.Track

func (s StaticTracks) Tracks() []timeline.Track { return s }

// Selection is the animation nearest to a playhead
type Selection struct {
	Track     *timeline.Track
	Animation timeline.Animation
	Distance  float64
	LocalTime float64
}

// distance is 0 inside [start, end], otherwise the gap to the nearest edge
func distance(anim timeline.Animation, playhead float64) float64 {
	start, end := anim.Bounds()
	if playhead < start {
		return start - playhead
	}
	if playhead > end {
		return playhead - end
	}
	return 0
}

// SelectAnimation finds the animation whose interval is closest to the playhead.
// Ties keep the first animation in track order. Nil animations are skipped.
func SelectAnimation(tracks []timeline.Track, playhead float64) (Selection, bool) {
	var best Selection
	found := false
	for i := range tracks {
		for _, anim := range tracks[i].Animations {
			if timeline.IsNil(anim) {
				continue
			}
			d := distance(anim, playhead)
			if !found || d < best.Distance {
				best = Selection{Track: &tracks[i], Animation: anim, Distance: d}
				found = true
			}
		}
	}
	if !found {
		return Selection{}, false
	}

	start, _ := best.Animation.Bounds()
	best.LocalTime = playhead - start
	return best, true
}

// ResolveTransform interpolates the nearest animation at the playhead.
// ok is false when no track holds any animation.
func ResolveTransform(tracks []timeline.Track, playhead float64) (tr Transform, ok bool, err error) {
	sel, found := SelectAnimation(tracks, playhead)
	if !found {
		return Transform{}, false, nil
	}
	tr, err = Interpolate(sel.Animation, sel.LocalTime)
	if err != nil {
		return Transform{}, false, err
	}
	return tr, true, nil
}

// Sinks receive the resolved transform
type Sinks struct {
	Position *store.Value[timeline.Vec3]
	Rotation *store.Value[timeline.Vec3]
	Opacity  *store.Value[float64]
}

// NewSinks creates sinks holding the identity pose
func NewSinks() Sinks {
	return Sinks{
		Position: store.NewValue(timeline.Vec3{}),
		Rotation: store.NewValue(timeline.Vec3{}),
		Opacity:  store.NewValue(1.0),
	}
}

// Resolver republishes the transform of the nearest animation for every playhead update
type Resolver struct {
	source TrackSource
	sinks  Sinks
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(source TrackSource, sinks Sinks, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		source: source,
		sinks:  sinks,
		logger: logger.With(zap.String("component", "resolver")),
	}
}

// Sinks returns the stores the resolver publishes to
func (r *Resolver) Sinks() Sinks {
	return r.sinks
}

// Update resolves the transform at playhead and publishes it.
// Sinks are left untouched when there is nothing to resolve or the animation is invalid.
func (r *Resolver) Update(playhead float64) bool {
	if math.IsNaN(playhead) || math.IsInf(playhead, 0) {
		r.logger.Warn("ignoring non-finite playhead", zap.Float64("playhead", playhead))
		return false
	}

	tr, ok, err := ResolveTransform(r.source.Tracks(), playhead)
	if err != nil {
		r.logger.Error("cannot interpolate animation", zap.Float64("playhead", playhead), zap.Error(err))
		return false
	}
	if !ok {
		r.logger.Debug("no animations to resolve", zap.Float64("playhead", playhead))
		return false
	}

	r.sinks.Position.Set(tr.Position)
	r.sinks.Rotation.Set(tr.Rotation)
	r.sinks.Opacity.Set(tr.Opacity)
	return true
}

// Follow runs Update on every playhead publication until the returned function is called
func (r *Resolver) Follow(playhead *store.Value[float64]) (unsubscribe func()) {
	return playhead.Subscribe(func(t float64) {
		r.Update(t)
	})
}
