package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/mockvideo/internal/timeline"
)

func TestParseSeeks(t *testing.T) {
	seeks, err := parseSeeks("1, 2.5,,10")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 10}, seeks)

	seeks, err = parseSeeks("")
	require.NoError(t, err)
	assert.Empty(t, seeks)

	_, err = parseSeeks("1,abc")
	assert.Error(t, err)
}

func TestResolveVideo(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("x"), 0644))

	got, err := resolveVideo(clip)
	require.NoError(t, err)
	assert.Equal(t, clip, got)

	got, err = resolveVideo(dir)
	require.NoError(t, err)
	assert.Equal(t, clip, got)

	_, err = resolveVideo(filepath.Join(dir, "missing.mp4"))
	assert.Error(t, err)
}

func TestSaveSession(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	session := &timeline.Session{
		Tracks: []timeline.Track{{
			PhoneName: "Pixel",
			Animations: []timeline.Animation{
				&timeline.RangeAnimation{Start: 1, End: 3, PosEnd: timeline.Vec3{X: 4}},
			},
		}},
	}
	session.Normalize()

	path, err := saveSession(session, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	latest, err := timeline.FindLatestSession(dir)
	require.NoError(t, err)
	assert.Equal(t, path, latest)

	loaded, err := timeline.ReadSession(path)
	require.NoError(t, err)
	require.Len(t, loaded.Tracks, 1)
	assert.Equal(t, session.Tracks[0].ID, loaded.Tracks[0].ID)
	require.Len(t, loaded.Tracks[0].Animations, 1)
	assert.Equal(t, 4.0, loaded.Tracks[0].Animations[0].(*timeline.RangeAnimation).PosEnd.X)
}
