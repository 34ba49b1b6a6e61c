// Package landmarks carries hand landmark frames from an external detector
// into the game loop.
package landmarks

import (
	"sync"
	"time"

	"github.com/iburimskiy/gesture-particles/internal/gesture"
)

// Frame is one detector result. Hand is nil when no hand was found.
type Frame struct {
	Hand *gesture.Hand
	At   time.Time
}

// Tap records the last N frames into a ring buffer so the game loop can pick
// them up at its own cadence. Frames the reader falls behind on are
// overwritten and never delivered.
type Tap struct {
	buffer    []Frame
	nextIndex int
	written   uint64
	mu        sync.RWMutex
}

func NewTap(ringSize int) *Tap {
	if ringSize < 1 {
		ringSize = 1
	}
	return &Tap{
		buffer: make([]Frame, ringSize),
	}
}

// Push appends f, overwriting the oldest frame once the ring is full.
func (t *Tap) Push(f Frame) {
	t.mu.Lock()
	t.buffer[t.nextIndex] = f
	t.nextIndex++
	if t.nextIndex >= len(t.buffer) {
		t.nextIndex = 0
	}
	t.written++
	t.mu.Unlock()
}

// Written is the total number of frames pushed so far.
func (t *Tap) Written() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.written
}

// Since returns the frames pushed after sequence number seq that are still in
// the ring, oldest first, along with the sequence number to pass next time.
func (t *Tap) Since(seq uint64) ([]Frame, uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if seq >= t.written {
		return nil, t.written
	}
	return t.lastLocked(int(min(t.written-seq, uint64(len(t.buffer))))), t.written
}

// Snapshot returns up to the last n frames, most recent last.
func (t *Tap) Snapshot(n int) []Frame {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	if uint64(n) > t.written {
		n = int(t.written)
	}
	return t.lastLocked(n)
}

// Last returns the most recent frame, if any.
func (t *Tap) Last() (Frame, bool) {
	frames := t.Snapshot(1)
	if len(frames) == 0 {
		return Frame{}, false
	}
	return frames[0], true
}

func (t *Tap) lastLocked(n int) []Frame {
	if n <= 0 {
		return nil
	}
	out := make([]Frame, 0, n)
	// Walk backwards from nextIndex - 1
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	for i := 0; i < n; i++ {
		out = append(out, t.buffer[idx])
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}
	// reverse to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
