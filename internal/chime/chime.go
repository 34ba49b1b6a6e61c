// Package chime plays a short audio cue whenever the particle shape changes.
package chime

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/gesture-particles/internal/shape"
)

const SampleRate beep.SampleRate = 44100

// Options configures the cue.
type Options struct {
	// SoundFile replaces the synthesized tone when set (.wav, .mp3 or .flac).
	SoundFile string
	Duration  time.Duration
	Volume    float64 // peak amplitude in [0,1]
}

// Pitches are the tone frequencies in Hz per shape.
var Pitches = map[shape.Kind]float64{
	shape.Star:   880,
	shape.Heart:  660,
	shape.Planet: 440,
}

// Chime renders cues and hands them to the speaker.
type Chime struct {
	opts  Options
	sound *beep.Buffer
	play  func(beep.Streamer)
}

// New loads the optional sound file and opens the audio device.
func New(opts Options) (*Chime, error) {
	c, err := build(opts)
	if err != nil {
		return nil, err
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	c.play = func(s beep.Streamer) { speaker.Play(s) }
	return c, nil
}

func build(opts Options) (*Chime, error) {
	if opts.Duration <= 0 {
		opts.Duration = 150 * time.Millisecond
	}
	if opts.Volume <= 0 || opts.Volume > 1 {
		opts.Volume = 0.3
	}
	c := &Chime{opts: opts}
	if opts.SoundFile != "" {
		buf, err := loadSound(opts.SoundFile)
		if err != nil {
			return nil, err
		}
		c.sound = buf
	}
	return c, nil
}

// Streamer returns the cue for k.
func (c *Chime) Streamer(k shape.Kind) beep.Streamer {
	if c.sound != nil {
		return c.sound.Streamer(0, c.sound.Len())
	}
	return Tone(SampleRate, Pitches[k], c.opts.Duration, c.opts.Volume)
}

// Play starts the cue for k without waiting for it to finish.
func (c *Chime) Play(k shape.Kind) {
	if c == nil || c.play == nil {
		return
	}
	c.play(c.Streamer(k))
}

// Tone is a sine wave at freq that fades out linearly over d.
func Tone(sr beep.SampleRate, freq float64, d time.Duration, volume float64) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for n = 0; n < len(samples) && pos < total; n++ {
			env := 1 - float64(pos)/float64(total)
			v := volume * env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[n][0] = v
			samples[n][1] = v
			pos++
		}
		return n, true
	})
}

func loadSound(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	// Decode based on extension
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, errors.New("unsupported sound file type: " + ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	slog.Info("loaded chime sound", "path", path, "samples", buf.Len())
	return buf, nil
}
