package config

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/gesture-particles/internal/gesture"
	"github.com/iburimskiy/gesture-particles/internal/particles"
	"github.com/iburimskiy/gesture-particles/internal/shape"
)

func TestDefaultsMatchTunings(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, gesture.DefaultTuning(), s.GestureTuning())
	assert.Equal(t, particles.DefaultTuning(), s.MotionTuning())
	assert.Equal(t, ParticleCount, s.Particles.Count)
	assert.Equal(t, DefaultListenAddr, s.Listen)
	assert.Equal(t, 150*time.Millisecond, s.ChimeDuration())

	styles, err := s.Styles()
	require.NoError(t, err)
	assert.Equal(t, particles.DefaultStyles(), styles)
	assert.Equal(t, "#ff3366", s.Shapes["heart"].Color)
}

func TestDecodeOverrides(t *testing.T) {
	s := Default()
	err := Decode([]byte(`
listen = "0.0.0.0:9000"

[gesture]
rotation_gain = 1.5

[motion]
idle_spin = 0.0

[particles]
count = 2000

[shapes.star]
label = "Ngoi sao"

[shapes.planet]
color = "#112233"

[chime]
enabled = false
`), &s)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", s.Listen)
	assert.Equal(t, 1.5, s.Gesture.RotationGain)
	assert.Equal(t, 0.15, s.Gesture.ThumbSpread)
	assert.Equal(t, 0.0, s.Motion.IdleSpin)
	assert.Equal(t, 0.92, s.Motion.Decay)
	assert.Equal(t, 2000, s.Particles.Count)
	assert.False(t, s.Chime.Enabled)

	styles, err := s.Styles()
	require.NoError(t, err)
	assert.Equal(t, "Ngoi sao", styles[shape.Star].Label)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}, styles[shape.Star].Color)
	assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}, styles[shape.Planet].Color)
	assert.Equal(t, "Heart", styles[shape.Heart].Label)
}

func TestDecodeRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"Unknown shape", "[shapes.moon]\nlabel = \"Moon\"\n"},
		{"Bad color", "[shapes.star]\ncolor = \"yellow\"\n"},
		{"Zero count", "[particles]\ncount = 0\n"},
		{"Decay too high", "[motion]\ndecay = 1.0\n"},
		{"Smoothing zero", "[motion]\nsmoothing = -0.1\n"},
		{"Pinch range", "[gesture]\npinch_range = -1.0\n"},
		{"Thumb spread zero", "[gesture]\nthumb_spread = 0.0\n"},
		{"Syntax", "[gesture\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			assert.Error(t, Decode([]byte(tt.toml), &s))
		})
	}
}

func TestDecodeExplicitZeroOverrides(t *testing.T) {
	s := Default()
	require.NoError(t, Decode([]byte("[motion]\nidle_spin = 0.0\n"), &s))
	assert.Equal(t, 0.0, s.Motion.IdleSpin)
	assert.Equal(t, Default().Motion.Decay, s.Motion.Decay)
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "missing.toml"), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	_, err = Load(filepath.Join(dir, "missing.toml"), false)
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[particles]\ncount = -3\n"), 0o644))
	_, err = Load(path, true)
	assert.ErrorContains(t, err, "bad.toml")
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gestures.toml")
	require.NoError(t, os.WriteFile(path, []byte("[motion]\nidle_spin = 0.01\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan Settings, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(s Settings) { changes <- s })
	}()

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[motion]\nidle_spin = 0.02\n"), 0o644))

	// The truncate and the write may arrive as separate events; wait for the
	// one carrying the new content.
	timeout := time.After(3 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case s := <-changes:
			reloaded = s.Motion.IdleSpin == 0.02
		case <-timeout:
			t.Fatal("no reload after write")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
