package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/gesture-particles/internal/gesture"
	"github.com/iburimskiy/gesture-particles/internal/shape"
)

const (
	maxPinch  = 0.4
	pinchStep = 0.02
)

// syntheticHand stands in for a detector: the mouse moves the palm, the wheel
// opens and closes the pinch, and number keys pick a hand pose.
type syntheticHand struct {
	fingers gesture.Fingers
	pinch   float64
}

func newSyntheticHand() *syntheticHand {
	f, _ := gesture.PoseFor(shape.Star)
	return &syntheticHand{fingers: f}
}

var poseKeys = map[ebiten.Key]shape.Kind{
	ebiten.Key1: shape.Star,
	ebiten.Key2: shape.Heart,
	ebiten.Key3: shape.Planet,
}

// read samples keyboard and mouse and returns the resulting hand.
func (s *syntheticHand) read(screenWidth int) gesture.Hand {
	for key, k := range poseKeys {
		if inpututil.IsKeyJustPressed(key) {
			s.selectShape(k)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) {
		s.fingers = gesture.Fingers{}
	}
	_, wheel := ebiten.Wheel()
	s.adjustPinch(wheel)

	mx, _ := ebiten.CursorPosition()
	return s.hand(float64(mx) / float64(screenWidth))
}

func (s *syntheticHand) selectShape(k shape.Kind) {
	if f, ok := gesture.PoseFor(k); ok {
		s.fingers = f
	}
}

func (s *syntheticHand) adjustPinch(wheel float64) {
	s.pinch = clamp01((s.pinch+wheel*pinchStep)/maxPinch) * maxPinch
}

func (s *syntheticHand) hand(palmX float64) gesture.Hand {
	return gesture.Pose(s.fingers, clamp01(palmX), s.pinch)
}
