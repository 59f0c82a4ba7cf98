package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTransitions(t *testing.T) {
	s := NewState(10)
	assert.Equal(t, Paused, s.Status)
	assert.False(t, s.IsPlaying())
	assert.Nil(t, s.PlayStartedAt)
	assert.Nil(t, s.PausedAt)
	assert.Equal(t, 10.0, s.EndTime)

	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, s.Play(t0))
	assert.True(t, s.IsPlaying())
	require.NotNil(t, s.PlayStartedAt)
	assert.Equal(t, t0, *s.PlayStartedAt)

	t1 := t0.Add(time.Second)
	assert.False(t, s.Play(t1))
	assert.Equal(t, t1, *s.PlayStartedAt)

	t2 := t1.Add(time.Second)
	assert.True(t, s.Pause(t2))
	assert.False(t, s.IsPlaying())
	require.NotNil(t, s.PausedAt)
	assert.Equal(t, t2, *s.PausedAt)
	assert.False(t, s.Pause(t2))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "playing", Playing.String())
}
