package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/mockvideo/internal/config"
	"github.com/ivlev/mockvideo/internal/playback"
	"github.com/ivlev/mockvideo/internal/renderer"
	"github.com/ivlev/mockvideo/internal/store"
	"github.com/ivlev/mockvideo/internal/system"
	"github.com/ivlev/mockvideo/internal/timeline"
	"github.com/ivlev/mockvideo/internal/video"
)

// Report is a snapshot of an editor session. Updates counts position
// changes published since the editor was created.
type Report struct {
	Playhead  float64
	Frame     int
	Playing   bool
	EndTime   float64
	Position  timeline.Vec3
	Rotation  timeline.Vec3
	Opacity   float64
	Updates   int64
	Elapsed   time.Duration
	VideoTime float64
}

// Option configures an Editor
type Option func(*Editor)

// WithLogger sets the logger, the default discards output
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) { e.logger = logger }
}

// WithMediaDuration sets the probed length of the attached video
func WithMediaDuration(seconds float64) Option {
	return func(e *Editor) { e.mediaDuration = seconds }
}

// WithFrameSource replaces the display refresh ticker
func WithFrameSource(newSource func() playback.FrameSource) Option {
	return func(e *Editor) { e.newFrames = newSource }
}

// WithElement attaches el instead of a simulated element
func WithElement(el playback.VideoElement) Option {
	return func(e *Editor) { e.element = el }
}

// Editor wires a session, the playback controller, the resolver and an
// optional video element into one headless editor
type Editor struct {
	cfg     config.Config
	session *timeline.Session
	logger  *zap.Logger

	mediaDuration float64
	newFrames     func() playback.FrameSource
	element       playback.VideoElement

	settings   *store.Value[config.Settings]
	controller *playback.Controller
	resolver   *renderer.Resolver
	unfollow   func()
	updates    atomic.Int64
}

// NewEditor creates a paused editor for session
func NewEditor(cfg config.Config, session *timeline.Session, opts ...Option) (*Editor, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: no session", timeline.ErrInvalidSession)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Editor{
		cfg:     cfg,
		session: session,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.newFrames == nil {
		refresh := cfg.Refresh
		e.newFrames = func() playback.FrameSource { return playback.NewDisplayFrames(refresh) }
	}

	end := contentEnd(cfg, session, e.mediaDuration)
	if e.element == nil && cfg.VideoPath != "" {
		e.element = video.NewSimulatedElement(end)
	}

	e.settings = store.NewValue(cfg.Settings)
	ctrlOpts := []playback.Option{
		playback.WithLogger(e.logger),
		playback.WithEndTime(end),
		playback.WithFrameSource(e.newFrames),
	}
	if e.element != nil {
		ctrlOpts = append(ctrlOpts, playback.WithVideo(e.element))
	}
	e.controller = playback.NewController(e.settings, ctrlOpts...)

	e.resolver = renderer.NewResolver(renderer.StaticTracks(session.Tracks), renderer.NewSinks(), e.logger)
	primed := false
	e.resolver.Sinks().Position.Subscribe(func(timeline.Vec3) {
		if primed {
			e.updates.Add(1)
		}
	})
	primed = true
	e.unfollow = e.resolver.Follow(e.controller.PlayheadStore())

	return e, nil
}

// contentEnd picks the playable length: probed media first, then the
// session, then the configuration
func contentEnd(cfg config.Config, session *timeline.Session, mediaDuration float64) float64 {
	if mediaDuration > 0 {
		return mediaDuration
	}
	if end := session.EndOfContent(); end > 0 {
		return end
	}
	return cfg.EndTime
}

// Controller returns the playback controller
func (e *Editor) Controller() *playback.Controller { return e.controller }

// Resolver returns the transform resolver
func (e *Editor) Resolver() *renderer.Resolver { return e.resolver }

// Settings returns the live editor settings
func (e *Editor) Settings() *store.Value[config.Settings] { return e.settings }

// Run applies the configured seeks, starts playback when autoplay is set and
// reports transforms until ctx ends, the run duration elapses or playback
// stops on its own.
func (e *Editor) Run(ctx context.Context) (Report, error) {
	start := time.Now()

	if e.cfg.RunFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.RunFor)
		defer cancel()
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	for _, t := range e.cfg.Seeks {
		if err := e.controller.SetPlayheadPosition(t); err != nil {
			return e.report(start), err
		}
	}

	// Остановка воспроизведения (конец без зацикливания или пауза) завершает сессию
	var wasPlaying atomic.Bool
	unsubscribe := e.controller.PlayingStore().Subscribe(func(playing bool) {
		if playing {
			wasPlaying.Store(true)
			return
		}
		if wasPlaying.Load() {
			stop()
		}
	})
	defer unsubscribe()

	e.logger.Info("сессия запущена",
		zap.Int("tracks", len(e.session.Tracks)),
		zap.Float64("endTime", e.controller.State().EndTime),
		zap.Int("fps", e.settings.Get().FPS),
		zap.Bool("loop", e.settings.Get().VideoLoop),
		zap.Bool("video", e.element != nil),
	)

	if e.cfg.Autoplay {
		e.controller.Play()
	}

	g, gctx := errgroup.WithContext(ctx)

	if e.cfg.ReportEvery > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(e.cfg.ReportEvery)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					e.logReport("кадр", e.report(start))
				}
			}
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		e.controller.Close()
		return nil
	})

	err := g.Wait()

	report := e.report(start)
	e.logReport("сессия завершена", report)

	if u, uerr := system.ProcessUsage(context.Background()); uerr == nil {
		e.logger.Info("ресурсы процесса",
			zap.Float64("cpu", u.CPUPercent),
			zap.Uint64("rss", u.RSSBytes),
			zap.Int32("threads", u.Threads),
		)
	} else {
		e.logger.Debug("не удалось получить ресурсы процесса", zap.Error(uerr))
	}
	return report, err
}

// Close detaches the resolver and stops playback
func (e *Editor) Close() {
	if e.unfollow != nil {
		e.unfollow()
		e.unfollow = nil
	}
	e.controller.Close()
}

// Report returns the current snapshot
func (e *Editor) Report() Report {
	return e.report(time.Time{})
}

func (e *Editor) report(start time.Time) Report {
	sinks := e.resolver.Sinks()
	r := Report{
		Playhead: e.controller.Playhead(),
		Frame:    e.controller.Frame(),
		Playing:  e.controller.IsPlaying(),
		EndTime:  e.controller.State().EndTime,
		Position: sinks.Position.Get(),
		Rotation: sinks.Rotation.Get(),
		Opacity:  sinks.Opacity.Get(),
		Updates:  e.updates.Load(),
	}
	if !start.IsZero() {
		r.Elapsed = time.Since(start)
	}
	if e.element != nil {
		r.VideoTime = e.element.CurrentTime()
	}
	return r
}

func (e *Editor) logReport(msg string, r Report) {
	e.logger.Info(msg,
		zap.Float64("playhead", r.Playhead),
		zap.Int("frame", r.Frame),
		zap.Bool("playing", r.Playing),
		zap.Float64("x", r.Position.X),
		zap.Float64("y", r.Position.Y),
		zap.Float64("z", r.Position.Z),
		zap.Float64("rx", r.Rotation.X),
		zap.Float64("ry", r.Rotation.Y),
		zap.Float64("rz", r.Rotation.Z),
		zap.Float64("opacity", r.Opacity),
		zap.Int64("updates", r.Updates),
		zap.Duration("elapsed", r.Elapsed),
	)
}
