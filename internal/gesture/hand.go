// Package gesture turns hand landmark snapshots into shape selections,
// rotation and expansion.
package gesture

import "math"

// Landmark is a normalized keypoint: X and Y in [0,1] image space with Y
// growing downward, Z relative depth.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LandmarkCount is the number of keypoints per detected hand.
const LandmarkCount = 21

// Keypoint indices used by the interpreter.
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexTip  = 8
	MiddleMCP = 9
	MiddleTip = 12
	RingTip   = 16
	PinkyTip  = 20

	// PalmReference anchors horizontal motion and the thumb test.
	PalmReference = MiddleMCP
)

// Hand is one detected hand.
type Hand [LandmarkCount]Landmark

// Bones lists landmark pairs forming the hand skeleton, for drawing.
var Bones = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4},
	{0, 5}, {5, 6}, {6, 7}, {7, 8},
	{5, 9}, {9, 10}, {10, 11}, {11, 12},
	{9, 13}, {13, 14}, {14, 15}, {15, 16},
	{13, 17}, {0, 17}, {17, 18}, {18, 19}, {19, 20},
}

// PinchDistance is the 2D distance between thumb and index fingertips.
func (h *Hand) PinchDistance() float64 {
	a, b := h[ThumbTip], h[IndexTip]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PalmX is the horizontal position of the palm reference point.
func (h *Hand) PalmX() float64 {
	return h[PalmReference].X
}
