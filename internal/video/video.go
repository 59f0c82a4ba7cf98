// Package video provides video elements the playback controller can drive
// without a browser, and media probing through ffprobe.
package video

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ivlev/mockvideo/internal/playback"
)

// SimulatedElement is a headless video element. While playing, its own
// clock runs from the last seek position at wall-clock speed and stops at
// the media duration.
type SimulatedElement struct {
	mu sync.Mutex

	duration float64
	now      func() time.Time

	position  float64
	playingAt time.Time
	paused    bool
	opts      playback.ElementOptions

	seeks int
}

// NewSimulatedElement creates a paused element for media of the given length
// in seconds. A zero duration means unbounded.
func NewSimulatedElement(duration float64) *SimulatedElement {
	return &SimulatedElement{
		duration: duration,
		now:      time.Now,
		paused:   true,
	}
}

// WithClock replaces time.Now and returns e
func (e *SimulatedElement) WithClock(now func() time.Time) *SimulatedElement {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
	return e
}

// Configure stores opts and starts playing when Autoplay is set
func (e *SimulatedElement) Configure(opts playback.ElementOptions) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = opts
	if opts.Autoplay && e.paused {
		e.playLocked()
	}
}

// Options returns the options of the last Configure call
func (e *SimulatedElement) Options() playback.ElementOptions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// Play starts the clock, an ended element restarts from 0
func (e *SimulatedElement) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.paused {
		return
	}
	if e.endedLocked() {
		e.position = 0
	}
	e.playLocked()
}

func (e *SimulatedElement) playLocked() {
	e.paused = false
	e.playingAt = e.now()
}

// Pause freezes the clock at the current position
func (e *SimulatedElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.paused {
		return
	}
	e.position = e.currentLocked()
	e.paused = true
}

// CurrentTime returns the element position in seconds
func (e *SimulatedElement) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

// SetCurrentTime seeks, clamping to [0, duration]
func (e *SimulatedElement) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = e.clampLocked(seconds)
	e.playingAt = e.now()
	e.seeks++
}

// Paused reports whether the clock is stopped
func (e *SimulatedElement) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Ended reports whether the position reached the media duration
func (e *SimulatedElement) Ended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.endedLocked()
}

// Seeks counts SetCurrentTime calls
func (e *SimulatedElement) Seeks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seeks
}

// Duration returns the media length in seconds
func (e *SimulatedElement) Duration() float64 {
	return e.duration
}

func (e *SimulatedElement) currentLocked() float64 {
	if e.paused {
		return e.position
	}
	elapsed := e.now().Sub(e.playingAt).Seconds()
	return e.clampLocked(e.position + elapsed)
}

func (e *SimulatedElement) endedLocked() bool {
	return e.duration > 0 && e.currentLocked() >= e.duration
}

func (e *SimulatedElement) clampLocked(seconds float64) float64 {
	if seconds < 0 {
		return 0
	}
	if e.duration > 0 && seconds > e.duration {
		return e.duration
	}
	return seconds
}

// ProbeDuration returns the container duration of the media file at path
// in seconds, as reported by ffprobe
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe error: %v, output: %s", err, strings.TrimSpace(string(out)))
	}
	return parseDuration(out)
}

func parseDuration(out []byte) (float64, error) {
	text := strings.TrimSpace(string(out))
	duration, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned %q: %w", text, err)
	}
	if duration < 0 {
		return 0, fmt.Errorf("ffprobe returned negative duration %v", duration)
	}
	return duration, nil
}

var (
	_ playback.VideoElement = (*SimulatedElement)(nil)
	_ playback.Configurable = (*SimulatedElement)(nil)
)
