package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/gesture-particles/internal/config"
	"github.com/iburimskiy/gesture-particles/internal/gesture"
)

const dotSize = 4

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.model.Style()

	// Shape label with a swatch in the particle color
	vector.DrawFilledRect(screen, 12, 14, 12, 12, st.Color, false)
	ebitenutil.DebugPrintAt(screen, "Shape: "+st.Label, 30, 12)

	g.drawExpansionBar(screen)

	status := "Source: " + g.source
	if g.useSynth {
		status = "Source: mouse (1/2/3 pose, 0 fist, wheel pinch)"
	}
	if g.paused {
		status += " | Paused"
	}
	if g.recorder != nil {
		status += " | REC " + formatDuration(time.Since(g.recordStarted))
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 32)

	help := "Space: pause  M: mouse hand  R: record  Esc/Q: quit"
	ebitenutil.DebugPrintAt(screen, help, 12, config.WindowHeight-20)
}

func (g *Game) drawExpansionBar(screen *ebiten.Image) {
	const (
		barX      = 200
		barY      = 14
		barWidth  = 160
		barHeight = 10
	)
	gs := g.model.Gesture()
	smoothed := clamp01(g.model.Motion().SmoothedExpansion)

	vector.DrawFilledRect(screen, barX, barY, barWidth, barHeight, color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	vector.DrawFilledRect(screen, barX, barY, float32(smoothed*barWidth), barHeight, g.model.Style().Color, false)
	// Instantaneous target
	tx := float32(barX + clamp01(gs.Expansion)*barWidth)
	vector.StrokeLine(screen, tx, barY-2, tx, barY+barHeight+2, 2, color.White, false)
	vector.StrokeRect(screen, barX, barY, barWidth, barHeight, 1, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Expansion %.2f", smoothed), barX+barWidth+8, barY-2)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	// Button background
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}

	vector.DrawFilledRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, 2, borderColor, false)

	text := "Open Recording"
	textWidth := len(text) * 6 // debug font glyph width
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

// drawPreview sketches the latest hand in a corner panel, with the recent
// palm path trailing behind it.
func (g *Game) drawPreview(screen *ebiten.Image) {
	const (
		w = config.PreviewWidth
		h = config.PreviewHeight
		x = config.WindowWidth - w - config.PreviewMargin
		y = config.PreviewMargin
	)
	vector.DrawFilledRect(screen, x, y, w, h, color.RGBA{R: 10, G: 12, B: 20, A: 200}, false)
	vector.StrokeRect(screen, x, y, w, h, 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	toPanel := func(l gesture.Landmark) (float32, float32) {
		return float32(x + clamp01(l.X)*w), float32(y + clamp01(l.Y)*h)
	}

	trail := g.tap.Snapshot(config.TrailFrames)
	for i, f := range trail {
		if f.Hand == nil {
			continue
		}
		px, py := toPanel(f.Hand[gesture.PalmReference])
		alpha := uint8(40 + 160*i/len(trail))
		vector.DrawFilledCircle(screen, px, py, 2, color.RGBA{R: alpha, G: alpha, B: alpha, A: alpha}, false)
	}

	last, ok := g.tap.Last()
	if !ok || last.Hand == nil {
		ebitenutil.DebugPrintAt(screen, "no hand", x+8, y+8)
		return
	}
	hand := last.Hand
	for _, b := range gesture.Bones {
		x1, y1 := toPanel(hand[b[0]])
		x2, y2 := toPanel(hand[b[1]])
		vector.StrokeLine(screen, x1, y1, x2, y2, 1, color.RGBA{R: 200, G: 200, B: 200, A: 180}, false)
	}
	for i, l := range hand {
		px, py := toPanel(l)
		r, gv, b := hsvToRgb(fingerHue(i), 0.8, 0.95)
		vector.DrawFilledCircle(screen, px, py, 2.5, color.RGBA{R: r, G: gv, B: b, A: 255}, false)
	}

	f := g.model.LastReading().Fingers
	ebitenutil.DebugPrintAt(screen, fingerSummary(f), x+8, y+h-18)
}

func fingerSummary(f gesture.Fingers) string {
	mark := func(open bool) string {
		if open {
			return "o"
		}
		return "-"
	}
	return fmt.Sprintf("T%s I%s M%s P%s", mark(f.Thumb), mark(f.Index), mark(f.Middle), mark(f.Pinky))
}
