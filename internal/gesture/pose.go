package gesture

// Pose synthesizes a hand whose fingers read as f, whose palm reference sits
// at palmX and whose thumb and index tips are pinch apart. It drives the
// mouse-controlled hand and stands in for a detector in tests.
func Pose(f Fingers, palmX, pinch float64) Hand {
	var h Hand

	// Palm: wrist below, knuckles in a row.
	h[Wrist] = Landmark{X: palmX, Y: 0.85}
	knuckles := []int{5, 9, 13, 17}
	for n, idx := range knuckles {
		h[idx] = Landmark{X: palmX + 0.06*float64(n-1), Y: 0.6}
	}

	finger := func(mcp int, open bool) {
		x := h[mcp].X
		h[mcp+1] = Landmark{X: x, Y: 0.5}
		if open {
			h[mcp+2] = Landmark{X: x, Y: 0.4}
			h[mcp+3] = Landmark{X: x, Y: 0.3}
		} else {
			h[mcp+2] = Landmark{X: x, Y: 0.55}
			h[mcp+3] = Landmark{X: x, Y: 0.58}
		}
	}
	finger(5, f.Index)
	finger(9, f.Middle)
	finger(13, false)
	finger(17, f.Pinky)

	thumbX := palmX - 0.05
	if f.Thumb {
		thumbX = palmX - 0.25
	}
	h[1] = Landmark{X: palmX - 0.04, Y: 0.78}
	h[2] = Landmark{X: (palmX + thumbX) / 2, Y: 0.7}
	h[3] = Landmark{X: thumbX, Y: 0.65}

	// Only the thumb's x and the index tip's y take part in finger reading,
	// so the pinch is laid out horizontally between them.
	h[ThumbTip] = Landmark{X: thumbX, Y: h[IndexTip].Y}
	h[IndexTip].X = thumbX + pinch
	return h
}
