package landmarks

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// defaultSpacing separates frames whose recording carries no timestamps.
const defaultSpacing = time.Second / 30

// ReplayOptions controls playback of a recording.
type ReplayOptions struct {
	Speed float64 // playback rate, 1 is real time
	Loop  bool
}

type recordedFrame struct {
	frame  Frame
	offset time.Duration
}

// readRecording parses a JSON-lines recording. Blank lines are skipped.
func readRecording(r io.Reader) ([]recordedFrame, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxMessageSize)

	var (
		out  []recordedFrame
		prev time.Duration
		line int
	)
	for sc.Scan() {
		line++
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}
		m, hand, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		offset := time.Duration(m.T * float64(time.Millisecond))
		if m.T == 0 && len(out) > 0 {
			offset = prev + defaultSpacing
		}
		if offset < prev {
			offset = prev
		}
		prev = offset
		out = append(out, recordedFrame{frame: Frame{Hand: hand}, offset: offset})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return out, nil
}

// Replay pushes the frames of a recording into tap with their recorded
// spacing. It returns when the recording ends, or when ctx is cancelled if
// opts.Loop is set.
func Replay(ctx context.Context, r io.Reader, tap *Tap, opts ReplayOptions) error {
	frames, err := readRecording(r)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return nil
	}
	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for pass := 1; ; pass++ {
		var last time.Duration
		for _, rf := range frames {
			if wait := time.Duration(float64(rf.offset-last) / speed); wait > 0 {
				timer.Reset(wait)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-timer.C:
				}
			} else if err := ctx.Err(); err != nil {
				return err
			}
			last = rf.offset
			f := rf.frame
			f.At = time.Now()
			tap.Push(f)
		}
		if !opts.Loop {
			return nil
		}
		slog.Debug("recording looped", "pass", pass, "frames", len(frames))
		// Keep the loop seam at the usual frame spacing.
		timer.Reset(time.Duration(float64(defaultSpacing) / speed))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// ReplayFile opens path and replays it.
func ReplayFile(ctx context.Context, path string, tap *Tap, opts ReplayOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	slog.Info("replaying recording", "path", path, "speed", opts.Speed, "loop", opts.Loop)
	return Replay(ctx, f, tap, opts)
}
