package playback

import (
	"context"
	"time"
)

// FrameSource delivers one timestamp per display refresh
type FrameSource interface {
	Frames() <-chan time.Time
	Stop()
}

type displayFrames struct {
	ticker *time.Ticker
}

// NewDisplayFrames emits a frame every refresh interval
func NewDisplayFrames(refresh time.Duration) FrameSource {
	return &displayFrames{ticker: time.NewTicker(refresh)}
}

func (d *displayFrames) Frames() <-chan time.Time { return d.ticker.C }
func (d *displayFrames) Stop()                    { d.ticker.Stop() }

// Loop is the handle of a running frame loop
type Loop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the loop and waits for it to exit. No tick runs after Stop
// returns. It must not be called from a controller subscriber.
func (l *Loop) Stop() {
	l.cancel()
	<-l.done
}

// Done is closed once the loop goroutine has exited
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// StartLoop runs Tick for every frame of frames until ctx ends, the loop is
// stopped, or the controller is paused or detached from its element.
// Starting a loop replaces the previous one.
func (c *Controller) StartLoop(ctx context.Context, frames FrameSource) *Loop {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLoopLocked(ctx, frames)
}

func (c *Controller) startLoopLocked(ctx context.Context, frames FrameSource) *Loop {
	if c.loop != nil {
		c.loop.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	l := &Loop{cancel: cancel, done: make(chan struct{})}
	c.loop = l

	go func() {
		defer close(l.done)
		defer func() {
			c.mu.Lock()
			if c.loop == l {
				c.loop = nil
			}
			c.mu.Unlock()
		}()
		defer frames.Stop()
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case now, ok := <-frames.Frames():
				if !ok {
					return
				}
				if !c.loopTick(l, now) {
					return
				}
			}
		}
	}()

	return l
}

// loopTick reports whether the loop should wait for another frame
func (c *Controller) loopTick(l *Loop, now time.Time) bool {
	c.mu.Lock()
	defer c.unlock()

	if c.loop != l || !c.state.IsPlaying() {
		return false
	}
	c.tickLocked(now)
	return c.loop == l && c.state.IsPlaying()
}

func (c *Controller) stopLoopLocked() {
	if c.loop != nil {
		c.loop.cancel()
		c.loop = nil
	}
}
