// Package game runs the ebiten window: it feeds landmark frames into the
// particle model, ticks it and draws the cloud.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/gesture-particles/internal/chime"
	"github.com/iburimskiy/gesture-particles/internal/config"
	"github.com/iburimskiy/gesture-particles/internal/landmarks"
	"github.com/iburimskiy/gesture-particles/internal/particles"
)

// Options wires a Game to its collaborators.
type Options struct {
	Context context.Context
	Model   *particles.Model
	Tap     *landmarks.Tap
	Chime   *chime.Chime // nil when muted

	// Reloads delivers settings edited while running.
	Reloads <-chan config.Settings

	Replay     landmarks.ReplayOptions
	ReplayPath string // recording played once the game is built, if set
	RecordPath string // file written when recording is toggled on
	Source     string // shown in the HUD, e.g. the listen address
	Synthetic  bool
}

type Game struct {
	ctx   context.Context
	model *particles.Model
	tap   *landmarks.Tap
	chime *chime.Chime

	reloads    <-chan config.Settings
	replayOpts landmarks.ReplayOptions
	source     string

	// frames
	seq       uint64
	synthetic *syntheticHand
	useSynth  bool

	// replay of the startup recording or one chosen from the dialog
	cancelReplay context.CancelFunc
	replayErrs   chan error

	// recording
	recordPath    string
	recorder      *landmarks.Recorder
	recordStarted time.Time

	// viz
	cam       camera
	positions []mgl64.Vec3
	dot       *ebiten.Image
	dotOp     ebiten.DrawImageOptions

	// button state
	buttonHovered bool
	buttonPressed bool

	// state
	paused  bool
	lastErr error
}

func New(opts Options) *Game {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	g := &Game{
		ctx:        opts.Context,
		model:      opts.Model,
		tap:        opts.Tap,
		chime:      opts.Chime,
		reloads:    opts.Reloads,
		replayOpts: opts.Replay,
		source:     opts.Source,
		synthetic:  newSyntheticHand(),
		useSynth:   opts.Synthetic,
		replayErrs: make(chan error, 1),
		recordPath: opts.RecordPath,
		cam:        newCamera(config.WindowWidth, config.WindowHeight),
	}
	g.seq = g.tap.Written()
	if opts.ReplayPath != "" {
		g.startReplay(opts.ReplayPath)
	}
	return g
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		g.stopRecording()
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.stopRecording()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.useSynth = !g.useSynth
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.toggleRecording()
	}

	// Handle button interactions
	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			if err := g.openRecordingDialog(); err != nil {
				g.lastErr = err
			}
		}
		g.buttonPressed = false
	}

	g.applyReloads()
	g.collectReplayErrors()

	if g.useSynth {
		h := g.synthetic.read(config.WindowWidth)
		g.tap.Push(landmarks.Frame{Hand: &h, At: time.Now()})
	}
	g.consumeFrames()

	if !g.paused {
		g.model.Tick()
	}
	g.positions = g.model.Positions(g.positions)
	return nil
}

// consumeFrames feeds every frame pushed since the last Update to the model.
func (g *Game) consumeFrames() {
	frames, seq := g.tap.Since(g.seq)
	g.seq = seq
	for _, f := range frames {
		if g.model.OnHandFrame(f.Hand) {
			st := g.model.Style()
			slog.Info("shape changed", "shape", g.model.Shape(), "label", st.Label)
			g.chime.Play(g.model.Shape())
		}
		if g.recorder != nil {
			if err := g.recorder.Record(f); err != nil {
				g.lastErr = err
				g.stopRecording()
			}
		}
	}
}

func (g *Game) applyReloads() {
	for {
		select {
		case s := <-g.reloads:
			styles, err := s.Styles()
			if err != nil {
				g.lastErr = err
				continue
			}
			g.model.SetTuning(s.GestureTuning(), s.MotionTuning(), styles)
		default:
			return
		}
	}
}

func (g *Game) collectReplayErrors() {
	select {
	case err := <-g.replayErrs:
		if err != nil && !errors.Is(err, context.Canceled) {
			g.lastErr = err
		}
	default:
	}
}

func (g *Game) openRecordingDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Landmark Recording"),
		zenity.FileFilters{{
			Name:     "Landmark recordings",
			Patterns: []string{"*.jsonl", "*.json"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	g.startReplay(filename)
	return nil
}

// startReplay plays path into the tap, stopping any replay already running.
func (g *Game) startReplay(path string) {
	if g.cancelReplay != nil {
		g.cancelReplay()
	}
	ctx, cancel := context.WithCancel(g.ctx)
	g.cancelReplay = cancel
	g.source = "replay " + path
	g.lastErr = nil
	go func() {
		err := landmarks.ReplayFile(ctx, path, g.tap, g.replayOpts)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("replay failed", "path", path, "err", err)
		}
		select {
		case g.replayErrs <- err:
		default:
		}
	}()
}

func (g *Game) toggleRecording() {
	if g.recorder != nil {
		g.stopRecording()
		return
	}
	path := g.recordPath
	if path == "" {
		path = fmt.Sprintf("landmarks-%s.jsonl", time.Now().Format("20060102-150405"))
	}
	rec, err := landmarks.CreateRecorder(path)
	if err != nil {
		g.lastErr = err
		return
	}
	g.recorder = rec
	g.recordStarted = time.Now()
	slog.Info("recording landmarks", "path", path)
}

func (g *Game) stopRecording() {
	if g.recorder == nil {
		return
	}
	n := g.recorder.Count()
	if err := g.recorder.Close(); err != nil {
		g.lastErr = err
	}
	g.recorder = nil
	slog.Info("recording stopped", "frames", n)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	g.drawParticles(screen)
	g.drawPreview(screen)
	g.drawButton(screen)
	g.drawHUD(screen)
}

func (g *Game) drawParticles(screen *ebiten.Image) {
	if g.dot == nil {
		g.dot = ebiten.NewImage(dotSize, dotSize)
		g.dot.Fill(color.White)
	}

	op := &g.dotOp
	op.ColorScale.Reset()
	op.ColorScale.ScaleWithColor(g.model.Style().Color)
	op.ColorScale.ScaleAlpha(config.PointOpacity)
	op.Blend = ebiten.BlendLighter

	mvp := g.cam.transform(g.model.Motion().Rotation)
	for _, p := range g.positions {
		x, y, size, ok := g.cam.project(mvp, p, config.PointSize)
		if !ok {
			continue
		}
		op.GeoM.Reset()
		op.GeoM.Scale(size/dotSize, size/dotSize)
		op.GeoM.Translate(x-size/2, y-size/2)
		screen.DrawImage(g.dot, op)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Close stops background replay and flushes any recording.
func (g *Game) Close() {
	if g.cancelReplay != nil {
		g.cancelReplay()
	}
	g.stopRecording()
}
