package playback

import "time"

// Status is the play/pause state of a session
type Status int

const (
	Paused Status = iota
	Playing
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	default:
		return "paused"
	}
}

// State is the pure playback state machine. It knows nothing about video
// elements or observers.
type State struct {
	Status        Status
	PlayStartedAt *time.Time
	PausedAt      *time.Time
	EndTime       float64
}

// NewState creates a paused state for content of the given length
func NewState(endTime float64) State {
	return State{Status: Paused, EndTime: endTime}
}

func (s *State) IsPlaying() bool {
	return s.Status == Playing
}

// Play records the start timestamp and reports whether the status changed
func (s *State) Play(now time.Time) bool {
	changed := s.Status != Playing
	s.Status = Playing
	s.PlayStartedAt = &now
	return changed
}

// Pause records the pause timestamp and reports whether the status changed
func (s *State) Pause(now time.Time) bool {
	changed := s.Status != Paused
	s.Status = Paused
	s.PausedAt = &now
	return changed
}
