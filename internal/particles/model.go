// Package particles owns the animated particle cloud: the current shape, the
// gesture state driving it and the per-tick integration.
package particles

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/gesture-particles/internal/gesture"
	"github.com/iburimskiy/gesture-particles/internal/shape"
)

// Style is how a shape is presented.
type Style struct {
	Label string
	Color color.RGBA
}

// DefaultStyles returns the stock label and color per shape.
func DefaultStyles() map[shape.Kind]Style {
	return map[shape.Kind]Style{
		shape.Star:   {Label: "Star", Color: color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}},
		shape.Heart:  {Label: "Heart", Color: color.RGBA{R: 0xff, G: 0x33, B: 0x66, A: 0xff}},
		shape.Planet: {Label: "Planet", Color: color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}},
	}
}

// Options configures a Model. Zero tunings, styles and rand take the
// defaults.
type Options struct {
	Count   int
	Initial shape.Kind
	Styles  map[shape.Kind]Style
	Gesture gesture.Tuning
	Motion  Tuning
	Rand    *rand.Rand
}

// Model is the whole animation state. It is not safe for concurrent use;
// the game loop owns it and feeds it hand frames and ticks.
type Model struct {
	count  int
	rng    *rand.Rand
	styles map[shape.Kind]Style

	interp  gesture.Interpreter
	tuning  Tuning
	gesture gesture.State
	motion  Motion

	shape shape.Kind
	style Style
	cloud shape.Cloud

	regenerations int
	lastReading   gesture.Reading
}

// NewModel builds a model showing opts.Initial.
func NewModel(opts Options) (*Model, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("particle count must be positive, got %d", opts.Count)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Styles == nil {
		opts.Styles = DefaultStyles()
	}
	if opts.Gesture == (gesture.Tuning{}) {
		opts.Gesture = gesture.DefaultTuning()
	}
	if opts.Motion == (Tuning{}) {
		opts.Motion = DefaultTuning()
	}
	m := &Model{
		count:   opts.Count,
		rng:     opts.Rand,
		styles:  opts.Styles,
		interp:  gesture.Interpreter{Tuning: opts.Gesture},
		tuning:  opts.Motion,
		gesture: gesture.NewState(),
	}
	if err := m.transition(opts.Initial); err != nil {
		return nil, err
	}
	return m, nil
}

// OnHandFrame folds one detector result into the model. h is nil when no
// hand was found. It reports whether the shape changed.
func (m *Model) OnHandFrame(h *gesture.Hand) bool {
	st, r := m.interp.Interpret(m.gesture, h)
	m.gesture = st
	if h == nil {
		return false
	}
	m.lastReading = r
	if !r.Classified || r.Shape == m.shape {
		return false
	}
	if err := m.transition(r.Shape); err != nil {
		slog.Warn("shape transition failed", "shape", r.Shape, "err", err)
		return false
	}
	return true
}

// transition regenerates the cloud and swaps shape, style and cloud together.
func (m *Model) transition(k shape.Kind) error {
	cloud, err := shape.Generate(k, m.count, m.rng)
	if err != nil {
		return err
	}
	style, ok := m.styles[k]
	if !ok {
		style = DefaultStyles()[k]
	}
	m.shape, m.style, m.cloud = k, style, cloud
	m.regenerations++
	slog.Debug("shape regenerated", "shape", k, "count", cloud.Len())
	return nil
}

// Tick advances the animation by one render frame.
func (m *Model) Tick() {
	m.motion, m.gesture.RotationVelocity = Step(m.motion, m.gesture.RotationVelocity, m.gesture.Expansion, m.tuning)
}

// Positions writes every particle's current position into dst, growing it
// when needed, and returns it.
func (m *Model) Positions(dst []mgl64.Vec3) []mgl64.Vec3 {
	if cap(dst) < m.count {
		dst = make([]mgl64.Vec3, m.count)
	}
	dst = dst[:m.count]
	s := m.motion.SmoothedExpansion
	for i, t := range m.cloud.Targets {
		dst[i] = t.Add(m.cloud.Directions[i].Mul(s))
	}
	return dst
}

// SetTuning replaces the interpreter and animation constants. The particle
// count is fixed for the model's lifetime and is not part of it.
func (m *Model) SetTuning(g gesture.Tuning, t Tuning, styles map[shape.Kind]Style) {
	m.interp.Tuning = g
	m.tuning = t
	if styles != nil {
		m.styles = styles
		if s, ok := styles[m.shape]; ok {
			m.style = s
		}
	}
}

func (m *Model) Shape() shape.Kind            { return m.shape }
func (m *Model) Style() Style                 { return m.style }
func (m *Model) Count() int                   { return m.count }
func (m *Model) Cloud() shape.Cloud           { return m.cloud }
func (m *Model) Motion() Motion               { return m.motion }
func (m *Model) Gesture() gesture.State       { return m.gesture }
func (m *Model) LastReading() gesture.Reading { return m.lastReading }

// Regenerations counts how many clouds have been generated, including the
// initial one.
func (m *Model) Regenerations() int { return m.regenerations }
