package gesture

import "github.com/iburimskiy/gesture-particles/internal/shape"

// Tuning holds the interpreter thresholds and gains.
type Tuning struct {
	RotationGain float64 // rotation velocity added per unit of palm travel
	ThumbSpread  float64 // thumb-to-palm distance above which the thumb is open
	PinchMin     float64 // pinch distance at which expansion starts
	PinchRange   float64 // pinch distance span mapped onto [0,1]
}

// DefaultTuning returns the stock interpreter settings.
func DefaultTuning() Tuning {
	return Tuning{
		RotationGain: 0.8,
		ThumbSpread:  0.15,
		PinchMin:     0.08,
		PinchRange:   0.25,
	}
}

// State is the gesture state carried between hand frames.
type State struct {
	LastHandX        float64
	RotationVelocity float64
	Expansion        float64
}

// NewState returns the state before any hand has been seen, with the palm
// assumed centred.
func NewState() State {
	return State{LastHandX: 0.5}
}

// Reading is the outcome of interpreting one frame.
type Reading struct {
	Fingers    Fingers
	Shape      shape.Kind
	Classified bool
}

// Interpreter applies Tuning to hand frames.
type Interpreter struct {
	Tuning Tuning
}

// Interpret folds one hand frame into st. A nil hand means nothing was
// detected and returns st untouched.
func (in Interpreter) Interpret(st State, h *Hand) (State, Reading) {
	if h == nil {
		return st, Reading{}
	}

	x := h.PalmX()
	st.RotationVelocity += (x - st.LastHandX) * in.Tuning.RotationGain
	st.LastHandX = x

	f := ReadFingers(h, in.Tuning.ThumbSpread)
	k, ok := Classify(f)

	st.Expansion = Expansion(h.PinchDistance(), in.Tuning.PinchMin, in.Tuning.PinchRange)
	return st, Reading{Fingers: f, Shape: k, Classified: ok}
}

// Expansion maps a pinch distance onto [0,1] with quadratic easing.
func Expansion(d, pinchMin, pinchRange float64) float64 {
	if pinchRange <= 0 {
		return 0
	}
	v := clamp01((d - pinchMin) / pinchRange)
	return v * v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
