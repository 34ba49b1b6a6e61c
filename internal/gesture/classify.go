package gesture

import (
	"math"

	"github.com/iburimskiy/gesture-particles/internal/shape"
)

// Fingers records which fingers read as extended.
type Fingers struct {
	Thumb  bool
	Index  bool
	Middle bool
	Pinky  bool
}

// fingerOpen reports whether the fingertip sits above the joint two
// landmarks below it.
func fingerOpen(h *Hand, tip int) bool {
	return h[tip].Y < h[tip-2].Y
}

// ReadFingers classifies each finger as open or closed. The thumb counts as
// open once its tip is more than thumbSpread away from the palm horizontally.
func ReadFingers(h *Hand, thumbSpread float64) Fingers {
	return Fingers{
		Thumb:  math.Abs(h[ThumbTip].X-h[PalmReference].X) > thumbSpread,
		Index:  fingerOpen(h, IndexTip),
		Middle: fingerOpen(h, MiddleTip),
		Pinky:  fingerOpen(h, PinkyTip),
	}
}

type rule struct {
	fingers Fingers
	shape   shape.Kind
}

// rules is evaluated in order; the first exact match wins.
var rules = []rule{
	{Fingers{Thumb: true, Pinky: true}, shape.Star},
	{Fingers{Thumb: true, Index: true}, shape.Heart},
	{Fingers{Thumb: true, Index: true, Middle: true}, shape.Planet},
}

// Classify maps finger states to a shape. Combinations outside the rule table
// report false and must leave the current shape alone.
func Classify(f Fingers) (shape.Kind, bool) {
	for _, r := range rules {
		if r.fingers == f {
			return r.shape, true
		}
	}
	return 0, false
}

// PoseFor returns the finger states that select k.
func PoseFor(k shape.Kind) (Fingers, bool) {
	for _, r := range rules {
		if r.shape == k {
			return r.fingers, true
		}
	}
	return Fingers{}, false
}
