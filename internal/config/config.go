package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/iburimskiy/gesture-particles/internal/gesture"
	"github.com/iburimskiy/gesture-particles/internal/particles"
	"github.com/iburimskiy/gesture-particles/internal/shape"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640

	ParticleCount = 8000
	FrameRingSize = 64
	TrailFrames   = 24

	// Button dimensions
	ButtonWidth  = 140
	ButtonHeight = 32
	ButtonX      = 20
	ButtonY      = 56

	// Hand preview panel
	PreviewWidth  = 192
	PreviewHeight = 144
	PreviewMargin = 16

	// Camera and point material
	CameraDistance = 12.0
	FieldOfView    = 75.0
	NearPlane      = 0.1
	FarPlane       = 1000.0
	PointSize      = 0.06
	PointOpacity   = 0.8

	DefaultListenAddr = "127.0.0.1:8765"
	DefaultConfigFile = "gestures.toml"
)

// ShapeStyle is the file form of a shape's label and color.
type ShapeStyle struct {
	Label string `toml:"label"`
	Color string `toml:"color"`
}

// Settings is the tuning file. Keys absent from the file keep their
// defaults; keys present override them, zero included.
type Settings struct {
	Gesture struct {
		RotationGain float64 `toml:"rotation_gain"`
		ThumbSpread  float64 `toml:"thumb_spread"`
		PinchMin     float64 `toml:"pinch_min"`
		PinchRange   float64 `toml:"pinch_range"`
	} `toml:"gesture"`

	Motion struct {
		Smoothing float64 `toml:"smoothing"`
		Decay     float64 `toml:"decay"`
		IdleSpin  float64 `toml:"idle_spin"`
	} `toml:"motion"`

	Particles struct {
		// Count only applies at startup.
		Count int `toml:"count"`
	} `toml:"particles"`

	Shapes map[string]ShapeStyle `toml:"shapes"`

	Chime struct {
		Enabled    bool    `toml:"enabled"`
		SoundFile  string  `toml:"sound_file"`
		DurationMS int     `toml:"duration_ms"`
		Volume     float64 `toml:"volume"`
	} `toml:"chime"`

	Listen string `toml:"listen"`
}

// Default returns the stock settings.
func Default() Settings {
	var s Settings
	g := gesture.DefaultTuning()
	s.Gesture.RotationGain = g.RotationGain
	s.Gesture.ThumbSpread = g.ThumbSpread
	s.Gesture.PinchMin = g.PinchMin
	s.Gesture.PinchRange = g.PinchRange

	m := particles.DefaultTuning()
	s.Motion.Smoothing = m.Smoothing
	s.Motion.Decay = m.Decay
	s.Motion.IdleSpin = m.IdleSpin

	s.Particles.Count = ParticleCount
	s.Shapes = map[string]ShapeStyle{}
	for k, st := range particles.DefaultStyles() {
		s.Shapes[k.String()] = ShapeStyle{Label: st.Label, Color: colorHex(st.Color)}
	}
	s.Chime.Enabled = true
	s.Chime.DurationMS = 150
	s.Chime.Volume = 0.3
	s.Listen = DefaultListenAddr
	return s
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, err
	}
	if err := Decode(data, &s); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode applies TOML data on top of s and validates the result.
func Decode(data []byte, s *Settings) error {
	defaults := s.Shapes
	s.Shapes = nil
	if err := toml.Unmarshal(data, s); err != nil {
		return err
	}
	merged := map[string]ShapeStyle{}
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range s.Shapes {
		if _, err := shape.ParseKind(k); err != nil {
			return err
		}
		d := merged[k]
		if v.Label != "" {
			d.Label = v.Label
		}
		if v.Color != "" {
			d.Color = v.Color
		}
		merged[k] = d
	}
	s.Shapes = merged
	return s.Validate()
}

// Validate checks ranges that would break the animation.
func (s Settings) Validate() error {
	switch {
	case s.Particles.Count <= 0:
		return fmt.Errorf("particles.count must be positive, got %d", s.Particles.Count)
	case s.Gesture.ThumbSpread <= 0:
		return fmt.Errorf("gesture.thumb_spread must be positive, got %v", s.Gesture.ThumbSpread)
	case s.Gesture.PinchRange <= 0:
		return fmt.Errorf("gesture.pinch_range must be positive, got %v", s.Gesture.PinchRange)
	case s.Motion.Smoothing <= 0 || s.Motion.Smoothing > 1:
		return fmt.Errorf("motion.smoothing must be in (0,1], got %v", s.Motion.Smoothing)
	case s.Motion.Decay < 0 || s.Motion.Decay >= 1:
		return fmt.Errorf("motion.decay must be in [0,1), got %v", s.Motion.Decay)
	}
	if _, err := s.Styles(); err != nil {
		return err
	}
	return nil
}

func (s Settings) GestureTuning() gesture.Tuning {
	return gesture.Tuning{
		RotationGain: s.Gesture.RotationGain,
		ThumbSpread:  s.Gesture.ThumbSpread,
		PinchMin:     s.Gesture.PinchMin,
		PinchRange:   s.Gesture.PinchRange,
	}
}

func (s Settings) MotionTuning() particles.Tuning {
	return particles.Tuning{
		Smoothing: s.Motion.Smoothing,
		Decay:     s.Motion.Decay,
		IdleSpin:  s.Motion.IdleSpin,
	}
}

// Styles converts the shape table, parsing "#rrggbb" colors.
func (s Settings) Styles() (map[shape.Kind]particles.Style, error) {
	out := particles.DefaultStyles()
	for name, st := range s.Shapes {
		k, err := shape.ParseKind(name)
		if err != nil {
			return nil, err
		}
		style := out[k]
		if st.Label != "" {
			style.Label = st.Label
		}
		if st.Color != "" {
			c, err := colorful.Hex(st.Color)
			if err != nil {
				return nil, fmt.Errorf("shapes.%s.color: %w", name, err)
			}
			r, g, b := c.RGB255()
			style.Color = color.RGBA{R: r, G: g, B: b, A: 0xff}
		}
		out[k] = style
	}
	return out, nil
}

func (s Settings) ChimeDuration() time.Duration {
	return time.Duration(s.Chime.DurationMS) * time.Millisecond
}

func colorHex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
