package landmarks

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/gesture-particles/internal/gesture"
	"github.com/iburimskiy/gesture-particles/internal/shape"
)

func poseFor(t *testing.T, k shape.Kind, palmX float64) *gesture.Hand {
	t.Helper()
	f, ok := gesture.PoseFor(k)
	require.True(t, ok)
	h := gesture.Pose(f, palmX, 0.1)
	return &h
}

func messageFor(t *testing.T, h *gesture.Hand, ms float64) []byte {
	t.Helper()
	m := Message{T: ms, MultiHandLandmarks: [][]gesture.Landmark{}}
	if h != nil {
		m.MultiHandLandmarks = append(m.MultiHandLandmarks, h[:])
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	return data
}

func TestTapOrderAndOverwrite(t *testing.T) {
	tap := NewTap(4)
	frames, seq := tap.Since(0)
	assert.Empty(t, frames)
	assert.Equal(t, uint64(0), seq)
	_, ok := tap.Last()
	assert.False(t, ok)

	base := time.Unix(100, 0)
	for i := 0; i < 3; i++ {
		tap.Push(Frame{At: base.Add(time.Duration(i) * time.Second)})
	}
	frames, seq = tap.Since(0)
	require.Len(t, frames, 3)
	assert.Equal(t, uint64(3), seq)
	for i, f := range frames {
		assert.Equal(t, base.Add(time.Duration(i)*time.Second), f.At)
	}

	// Six more frames overflow the ring; the reader only sees the newest four.
	for i := 3; i < 9; i++ {
		tap.Push(Frame{At: base.Add(time.Duration(i) * time.Second)})
	}
	frames, seq = tap.Since(seq)
	require.Len(t, frames, 4)
	assert.Equal(t, uint64(9), seq)
	assert.Equal(t, base.Add(5*time.Second), frames[0].At)
	assert.Equal(t, base.Add(8*time.Second), frames[3].At)

	frames, _ = tap.Since(seq)
	assert.Empty(t, frames)

	last, ok := tap.Last()
	require.True(t, ok)
	assert.Equal(t, base.Add(8*time.Second), last.At)
	assert.Len(t, tap.Snapshot(10), 4)
	assert.Equal(t, uint64(9), tap.Written())
}

func TestDecode(t *testing.T) {
	h := poseFor(t, shape.Heart, 0.4)
	_, got, err := Decode(messageFor(t, h, 12))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *h, *got)

	_, got, err = Decode(messageFor(t, nil, 0))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, _, err = Decode([]byte(`{"multiHandLandmarks":[[{"x":0.1,"y":0.2}]]}`))
	assert.ErrorIs(t, err, ErrLandmarkCount)

	_, _, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestRecorderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	start := time.Unix(50, 0)
	require.NoError(t, rec.Record(Frame{Hand: poseFor(t, shape.Star, 0.3), At: start}))
	require.NoError(t, rec.Record(Frame{At: start.Add(40 * time.Millisecond)}))
	require.NoError(t, rec.Record(Frame{Hand: poseFor(t, shape.Planet, 0.6), At: start.Add(100 * time.Millisecond)}))
	require.NoError(t, rec.Close())
	assert.Equal(t, 3, rec.Count())

	frames, err := readRecording(&buf)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.NotNil(t, frames[0].frame.Hand)
	assert.Nil(t, frames[1].frame.Hand)
	assert.Equal(t, 40*time.Millisecond, frames[1].offset)
	assert.Equal(t, 100*time.Millisecond, frames[2].offset)
	assert.Equal(t, *poseFor(t, shape.Planet, 0.6), *frames[2].frame.Hand)
}

func TestReadRecordingWithoutTimestamps(t *testing.T) {
	h := poseFor(t, shape.Star, 0.5)
	input := string(messageFor(t, h, 0)) + "\n\n" + string(messageFor(t, h, 0)) + "\n"
	frames, err := readRecording(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, time.Duration(0), frames[0].offset)
	assert.Equal(t, defaultSpacing, frames[1].offset)
}

func TestReadRecordingBadLine(t *testing.T) {
	_, err := readRecording(strings.NewReader("{\"multiHandLandmarks\":[]}\n{\"multiHandLandmarks\":[[]]}\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLandmarkCount)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReplay(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 5; i++ {
		buf.Write(messageFor(t, poseFor(t, shape.Heart, 0.1*float64(i+1)), float64(i*20)))
		buf.WriteByte('\n')
	}

	tap := NewTap(16)
	err := Replay(context.Background(), bytes.NewReader(buf.Bytes()), tap, ReplayOptions{Speed: 100})
	require.NoError(t, err)

	frames, _ := tap.Since(0)
	require.Len(t, frames, 5)
	for i, f := range frames {
		require.NotNil(t, f.Hand)
		assert.InDelta(t, 0.1*float64(i+1), f.Hand.PalmX(), 1e-12)
		assert.False(t, f.At.IsZero())
	}
}

func TestReplayLoopStopsOnCancel(t *testing.T) {
	data := string(messageFor(t, poseFor(t, shape.Star, 0.5), 0)) + "\n"
	tap := NewTap(8)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Replay(ctx, strings.NewReader(data), tap, ReplayOptions{Speed: 10, Loop: true})
	}()

	assert.Eventually(t, func() bool { return tap.Written() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("replay did not stop after cancel")
	}
}

func TestServerPushesFrames(t *testing.T) {
	tap := NewTap(8)
	s := NewServer("127.0.0.1:0", tap)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	h := poseFor(t, shape.Planet, 0.25)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, messageFor(t, h, 0)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"multiHandLandmarks":[[{"x":1}]]}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, messageFor(t, nil, 0)))

	assert.Eventually(t, func() bool { return tap.Written() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return s.Rejected() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, s.Clients())

	frames, _ := tap.Since(0)
	require.Len(t, frames, 2)
	require.NotNil(t, frames[0].Hand)
	assert.Equal(t, *h, *frames[0].Hand)
	assert.Nil(t, frames[1].Hand)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "frames=2")
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", NewTap(1))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
