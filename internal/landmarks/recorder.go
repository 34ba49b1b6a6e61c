package landmarks

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// Recorder writes frames as JSON lines that Replay can play back.
type Recorder struct {
	w      *bufio.Writer
	closer io.Closer
	start  time.Time
	count  int
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: bufio.NewWriter(w)}
}

// CreateRecorder truncates or creates the file at path.
func CreateRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r := NewRecorder(f)
	r.closer = f
	return r, nil
}

// Record appends f. Timestamps are relative to the first recorded frame.
func (r *Recorder) Record(f Frame) error {
	if r.count == 0 {
		r.start = f.At
	}
	data, err := Encode(f, f.At.Sub(r.start))
	if err != nil {
		return err
	}
	if _, err := r.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	r.count++
	return nil
}

// Count is the number of frames recorded.
func (r *Recorder) Count() int { return r.count }

// Close flushes buffered frames and closes the underlying file, if any.
func (r *Recorder) Close() error {
	err := r.w.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
