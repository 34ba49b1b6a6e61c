package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/gesture-particles/internal/chime"
	"github.com/iburimskiy/gesture-particles/internal/config"
	"github.com/iburimskiy/gesture-particles/internal/game"
	"github.com/iburimskiy/gesture-particles/internal/landmarks"
	"github.com/iburimskiy/gesture-particles/internal/particles"
	"github.com/iburimskiy/gesture-particles/internal/shape"
)

type flags struct {
	configPath string
	listen     string
	replay     string
	loop       bool
	speed      float64
	record     string
	count      int
	seed       uint64
	initial    string
	mute       bool
	synthetic  bool
	logLevel   string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", config.DefaultConfigFile, "tuning file (TOML), reloaded on change")
	flag.StringVar(&f.listen, "listen", "", "landmark WebSocket address (default from config, \"off\" to disable)")
	flag.StringVar(&f.replay, "replay", "", "replay a landmark recording (.jsonl) at startup")
	flag.BoolVar(&f.loop, "loop", false, "loop the replayed recording")
	flag.Float64Var(&f.speed, "speed", 1, "replay speed factor")
	flag.StringVar(&f.record, "record", "", "file written when recording is toggled with R")
	flag.IntVar(&f.count, "count", 0, "particle count (overrides config)")
	flag.Uint64Var(&f.seed, "seed", 0, "random seed for particle placement (0 picks one)")
	flag.StringVar(&f.initial, "shape", "star", "initial shape: star, heart or planet")
	flag.BoolVar(&f.mute, "mute", false, "disable the shape-change chime")
	flag.BoolVar(&f.synthetic, "synthetic", false, "start with the mouse-driven hand enabled")
	flag.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()
	return f
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func run(f flags) error {
	if err := setupLogging(f.logLevel); err != nil {
		return err
	}

	settings, err := config.Load(f.configPath, f.configPath == config.DefaultConfigFile)
	if err != nil {
		return err
	}
	if f.count > 0 {
		settings.Particles.Count = f.count
	}
	if f.listen != "" {
		settings.Listen = f.listen
	}
	styles, err := settings.Styles()
	if err != nil {
		return err
	}
	initial, err := shape.ParseKind(f.initial)
	if err != nil {
		return err
	}

	seed := f.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	model, err := particles.NewModel(particles.Options{
		Count:   settings.Particles.Count,
		Initial: initial,
		Styles:  styles,
		Gesture: settings.GestureTuning(),
		Motion:  settings.MotionTuning(),
		Rand:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	})
	if err != nil {
		return err
	}
	slog.Info("particles ready", "count", model.Count(), "shape", model.Shape(), "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tap := landmarks.NewTap(config.FrameRingSize)
	source := "none"

	if settings.Listen != "" && settings.Listen != "off" {
		srv := landmarks.NewServer(settings.Listen, tap)
		source = "ws://" + settings.Listen + landmarks.Path
		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				slog.Error("landmark server stopped", "err", err)
			}
		}()
	}

	reloads := make(chan config.Settings, 1)
	if _, err := os.Stat(f.configPath); err == nil {
		go func() {
			err := config.Watch(ctx, f.configPath, func(s config.Settings) {
				select {
				case reloads <- s:
				default:
					// Drop a pending reload in favour of the newest one.
					select {
					case <-reloads:
					default:
					}
					reloads <- s
				}
			})
			if err != nil {
				slog.Error("config watch stopped", "err", err)
			}
		}()
	}

	var cue *chime.Chime
	if !f.mute && settings.Chime.Enabled {
		cue, err = chime.New(chime.Options{
			SoundFile: settings.Chime.SoundFile,
			Duration:  settings.ChimeDuration(),
			Volume:    settings.Chime.Volume,
		})
		if err != nil {
			slog.Warn("chime disabled", "err", err)
		}
	}

	g := game.New(game.Options{
		Context:    ctx,
		Model:      model,
		Tap:        tap,
		Chime:      cue,
		Reloads:    reloads,
		Replay:     landmarks.ReplayOptions{Speed: f.speed, Loop: f.loop},
		ReplayPath: f.replay,
		RecordPath: f.record,
		Source:     source,
		Synthetic:  f.synthetic,
	})
	defer g.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Gesture Particles - show a hand to the detector, M: mouse hand, Esc/Q: quit")

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func main() {
	if err := run(parseFlags()); err != nil {
		slog.Error("gesture-particles failed", "err", err)
		os.Exit(1)
	}
}
