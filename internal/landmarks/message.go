package landmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iburimskiy/gesture-particles/internal/gesture"
)

// ErrLandmarkCount is returned for a hand that does not carry exactly
// gesture.LandmarkCount keypoints.
var ErrLandmarkCount = errors.New("unexpected landmark count")

// Message is the wire form of a frame. It mirrors the results object of
// MediaPipe Hands so a browser page can forward it unchanged.
type Message struct {
	// T is the capture time in milliseconds. Only recordings need it.
	T                  float64              `json:"t,omitempty"`
	MultiHandLandmarks [][]gesture.Landmark `json:"multiHandLandmarks"`
}

// Decode parses one message. Only the first hand is used; an empty hand list
// yields a nil hand.
func Decode(data []byte) (Message, *gesture.Hand, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, nil, fmt.Errorf("decode landmarks: %w", err)
	}
	if len(m.MultiHandLandmarks) == 0 {
		return m, nil, nil
	}
	first := m.MultiHandLandmarks[0]
	if len(first) != gesture.LandmarkCount {
		return m, nil, fmt.Errorf("%w: got %d, want %d", ErrLandmarkCount, len(first), gesture.LandmarkCount)
	}
	var h gesture.Hand
	copy(h[:], first)
	return m, &h, nil
}

// Encode renders f as a message stamped with elapsed since the recording
// started.
func Encode(f Frame, elapsed time.Duration) ([]byte, error) {
	m := Message{
		T:                  float64(elapsed) / float64(time.Millisecond),
		MultiHandLandmarks: [][]gesture.Landmark{},
	}
	if f.Hand != nil {
		m.MultiHandLandmarks = append(m.MultiHandLandmarks, f.Hand[:])
	}
	return json.Marshal(m)
}
