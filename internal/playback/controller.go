// Package playback keeps a logical playhead, a play/pause state and an
// external video element consistent.
//
// The playhead is driven by a synthesized frame clock: while playing, every
// display frame that arrives at least one frame interval after the previous
// one advances a frame counter, and the playhead is republished as
// frame * frameDuration. The video element only follows the playhead; its
// own clock is never read back.
package playback

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/mockvideo/internal/config"
	"github.com/ivlev/mockvideo/internal/store"
)

// seekNudge is published just before a seek to the current playhead so that
// observers reacting only to changes still see the seek
const seekNudge = 0.001

// Settings is a read-only view of the editor settings
type Settings interface {
	Get() config.Settings
}

// Option configures a Controller
type Option func(*Controller)

// WithVideo attaches an element at construction
func WithVideo(el VideoElement) Option {
	return func(c *Controller) { c.video = el }
}

// WithLogger sets the logger, the default discards output
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock replaces time.Now for timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithFrameSource makes Play start a frame loop over a fresh source from
// newSource. Without it Tick must be driven by the caller.
func WithFrameSource(newSource func() FrameSource) Option {
	return func(c *Controller) { c.newFrames = newSource }
}

// WithEndTime sets the initial content length in seconds
func WithEndTime(seconds float64) Option {
	return func(c *Controller) { c.state.EndTime = seconds }
}

// Controller is the playback state machine. All methods are safe for
// concurrent use. Store publications are queued while the state lock is held
// and delivered after it is released, in the order they were made.
// Subscribers may read the controller but must not call its mutating
// methods synchronously.
type Controller struct {
	mu sync.Mutex
	// deliver serialises the delivery of queued publications
	deliver sync.Mutex
	outbox  []func()

	state     State
	settings  Settings
	video     VideoElement
	now       func() time.Time
	newFrames func() FrameSource
	logger    *zap.Logger

	playhead *store.Value[float64]
	playing  *store.Value[bool]
	endTime  *store.Value[float64]

	position    float64
	frame       int
	lastFrameAt time.Time
	loop        *Loop
}

// NewController creates a paused controller with the playhead at 0
func NewController(settings Settings, opts ...Option) *Controller {
	c := &Controller{
		state:    NewState(10),
		settings: settings,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	if c.settings == nil {
		c.settings = store.NewValue(config.DefaultSettings())
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "playback"))

	c.playhead = store.NewValue(0.0)
	c.playing = store.NewValue(false)
	c.endTime = store.NewValue(c.state.EndTime)

	if c.video != nil {
		c.attachLocked(c.video)
	}
	return c
}

// PlayheadStore publishes every playhead change
func (c *Controller) PlayheadStore() *store.Value[float64] { return c.playhead }

// PlayingStore publishes play/pause transitions
func (c *Controller) PlayingStore() *store.Value[bool] { return c.playing }

// EndTimeStore publishes content length changes
func (c *Controller) EndTimeStore() *store.Value[float64] { return c.endTime }

// Playhead returns the published playhead in seconds
func (c *Controller) Playhead() float64 { return c.playhead.Get() }

// IsPlaying reports the published play state
func (c *Controller) IsPlaying() bool { return c.playing.Get() }

// State returns a copy of the playback state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Frame returns the current frame counter
func (c *Controller) Frame() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// SetPlayheadPosition seeks the logical playhead and mirrors it onto the video element
func (c *Controller) SetPlayheadPosition(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		c.logger.Warn("playhead position must be set", zap.Float64("time", seconds))
		return fmt.Errorf("%w: playhead position %v", ErrInvalidArgument, seconds)
	}

	c.mu.Lock()
	defer c.unlock()
	c.seekLocked(seconds)
	return nil
}

func (c *Controller) seekLocked(seconds float64) {
	c.frame = c.frameAt(seconds)
	if seconds == c.position {
		c.publishPlayheadLocked(seconds - seekNudge)
	}
	c.publishPlayheadLocked(seconds)

	if c.video != nil {
		c.video.SetCurrentTime(seconds)
	}
	c.logger.Debug("seek", zap.Float64("time", seconds), zap.Int("frame", c.frame))
}

// Play starts playback. It does not move the playhead itself.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.unlock()
	c.playLocked()
}

func (c *Controller) playLocked() {
	c.state.Play(c.now())
	c.publishLocked(func() { c.playing.Set(true) })
	c.lastFrameAt = time.Time{}

	if c.video != nil {
		c.video.Play()
	}
	if c.newFrames != nil && c.loop == nil {
		c.startLoopLocked(context.Background(), c.newFrames())
	}
	c.logger.Debug("play", zap.Float64("playhead", c.position))
}

// Pause halts playback and the frame loop
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.unlock()
	c.pauseLocked()
}

func (c *Controller) pauseLocked() {
	c.state.Pause(c.now())
	c.publishLocked(func() { c.playing.Set(false) })
	c.stopLoopLocked()

	if c.video != nil {
		c.video.Pause()
	}
	c.logger.Debug("pause", zap.Float64("playhead", c.position))
}

// Toggle pauses when playing and plays otherwise
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.unlock()
	if c.state.IsPlaying() {
		c.pauseLocked()
	} else {
		c.playLocked()
	}
}

// Reset seeks to the start
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.unlock()
	c.seekLocked(0)
}

// PlaybackEnded restarts from 0 when looping is enabled and pauses otherwise
func (c *Controller) PlaybackEnded() {
	c.mu.Lock()
	defer c.unlock()
	c.playbackEndedLocked()
}

func (c *Controller) playbackEndedLocked() {
	if c.settings.Get().VideoLoop {
		c.logger.Debug("playback ended, looping")
		c.seekLocked(0)
		return
	}
	c.logger.Debug("playback ended")
	c.pauseLocked()
}

// SetEndTime changes the content length. A playhead past the new end is moved onto it.
func (c *Controller) SetEndTime(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		c.logger.Warn("invalid end time", zap.Float64("end", seconds))
		return fmt.Errorf("%w: end time %v", ErrInvalidArgument, seconds)
	}

	c.mu.Lock()
	defer c.unlock()
	c.state.EndTime = seconds
	c.publishLocked(func() { c.endTime.Set(seconds) })
	if c.position > seconds {
		c.seekLocked(seconds)
	}
	return nil
}

// AttachVideo makes el follow the playhead and play state
func (c *Controller) AttachVideo(el VideoElement) {
	c.mu.Lock()
	defer c.unlock()
	c.attachLocked(el)
}

func (c *Controller) attachLocked(el VideoElement) {
	c.video = el
	if el == nil {
		return
	}
	if cfg, ok := el.(Configurable); ok {
		cfg.Configure(attachOptions)
	}
	el.SetCurrentTime(c.position)

	if c.state.IsPlaying() {
		el.Play()
		if c.newFrames != nil && c.loop == nil {
			c.startLoopLocked(context.Background(), c.newFrames())
		}
	} else {
		el.Pause()
	}
}

// DetachVideo drops the element and stops the frame loop.
// The logical state is kept and a later AttachVideo resumes it.
func (c *Controller) DetachVideo() {
	c.mu.Lock()
	defer c.unlock()
	c.video = nil
	c.stopLoopLocked()
}

// Tick advances the frame clock for a display frame at now.
// It reports whether the playhead was republished.
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	defer c.unlock()
	return c.tickLocked(now)
}

func (c *Controller) tickLocked(now time.Time) bool {
	if !c.state.IsPlaying() {
		return false
	}

	// The first frame after play only samples the clock
	if c.lastFrameAt.IsZero() {
		c.lastFrameAt = now
		return false
	}

	settings := c.settings.Get()
	interval := settings.FrameInterval()
	if interval <= 0 || now.Sub(c.lastFrameAt) < interval {
		return false
	}
	c.lastFrameAt = now

	c.frame++
	ended := false
	if c.frame > c.totalFrames(settings) {
		c.frame = 0
		ended = true
	}

	seconds := float64(c.frame) * settings.FrameDuration()
	c.publishPlayheadLocked(seconds)
	if c.video != nil {
		c.video.SetCurrentTime(seconds)
	}

	if ended {
		c.playbackEndedLocked()
	}
	return true
}

func (c *Controller) publishPlayheadLocked(seconds float64) {
	c.position = seconds
	c.publishLocked(func() { c.playhead.Set(seconds) })
}

func (c *Controller) publishLocked(fn func()) {
	c.outbox = append(c.outbox, fn)
}

// unlock releases mu and delivers every queued publication
func (c *Controller) unlock() {
	c.mu.Unlock()

	c.deliver.Lock()
	defer c.deliver.Unlock()
	for {
		c.mu.Lock()
		batch := c.outbox
		c.outbox = nil
		c.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn()
		}
	}
}

func (c *Controller) frameAt(seconds float64) int {
	return int(math.Round(seconds * float64(c.settings.Get().FPS)))
}

func (c *Controller) totalFrames(settings config.Settings) int {
	return int(math.Round(c.state.EndTime * float64(settings.FPS)))
}

// Close stops the frame loop and waits for it to exit
func (c *Controller) Close() {
	c.mu.Lock()
	l := c.loop
	c.stopLoopLocked()
	c.mu.Unlock()

	if l != nil {
		<-l.Done()
	}
}
