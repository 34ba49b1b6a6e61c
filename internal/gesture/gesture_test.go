package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/gesture-particles/internal/shape"
)

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name    string
		fingers Fingers
		want    shape.Kind
		ok      bool
	}{
		{"Star", Fingers{Thumb: true, Pinky: true}, shape.Star, true},
		{"Heart", Fingers{Thumb: true, Index: true}, shape.Heart, true},
		{"Planet", Fingers{Thumb: true, Index: true, Middle: true}, shape.Planet, true},
		{"All open", Fingers{Thumb: true, Index: true, Middle: true, Pinky: true}, 0, false},
		{"All closed", Fingers{}, 0, false},
		{"Thumb only", Fingers{Thumb: true}, 0, false},
		{"Star without thumb", Fingers{Pinky: true}, 0, false},
		{"Planet without thumb", Fingers{Index: true, Middle: true}, 0, false},
		{"Middle and pinky", Fingers{Thumb: true, Middle: true, Pinky: true}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := Classify(tt.fingers)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, k)
			}
		})
	}
}

func TestClassifyExhaustive(t *testing.T) {
	matches := 0
	for mask := 0; mask < 16; mask++ {
		f := Fingers{
			Thumb:  mask&1 != 0,
			Index:  mask&2 != 0,
			Middle: mask&4 != 0,
			Pinky:  mask&8 != 0,
		}
		if _, ok := Classify(f); ok {
			matches++
		}
	}
	assert.Equal(t, 3, matches)
}

func TestPoseReadsBack(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		f := Fingers{
			Thumb:  mask&1 != 0,
			Index:  mask&2 != 0,
			Middle: mask&4 != 0,
			Pinky:  mask&8 != 0,
		}
		h := Pose(f, 0.5, 0.12)
		assert.Equal(t, f, ReadFingers(&h, 0.15), "mask %d", mask)
		assert.InDelta(t, 0.12, h.PinchDistance(), 1e-12)
		assert.InDelta(t, 0.5, h.PalmX(), 1e-12)
	}
}

func TestPoseFor(t *testing.T) {
	for _, k := range shape.Kinds {
		f, ok := PoseFor(k)
		require.True(t, ok)
		got, ok := Classify(f)
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
}

func TestExpansion(t *testing.T) {
	tests := []struct {
		name string
		d    float64
		want float64
	}{
		{"Below threshold", 0.02, 0},
		{"At threshold", 0.08, 0},
		{"Halfway", 0.08 + 0.125, 0.25},
		{"Full", 0.33, 1},
		{"Beyond", 0.9, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Expansion(tt.d, 0.08, 0.25), 1e-12)
		})
	}
	assert.Equal(t, 0.0, Expansion(0.5, 0.08, 0))
}

func TestInterpretNoHand(t *testing.T) {
	in := Interpreter{Tuning: DefaultTuning()}
	st := State{LastHandX: 0.3, RotationVelocity: 0.1, Expansion: 0.4}
	got, r := in.Interpret(st, nil)
	assert.Equal(t, st, got)
	assert.False(t, r.Classified)
}

func TestInterpretRotationAndExpansion(t *testing.T) {
	in := Interpreter{Tuning: DefaultTuning()}
	st := NewState()

	f, _ := PoseFor(shape.Heart)
	h := Pose(f, 0.7, 0.08+0.25)
	st, r := in.Interpret(st, &h)
	require.True(t, r.Classified)
	assert.Equal(t, shape.Heart, r.Shape)
	assert.InDelta(t, (0.7-0.5)*0.8, st.RotationVelocity, 1e-12)
	assert.InDelta(t, 0.7, st.LastHandX, 1e-12)
	assert.InDelta(t, 1.0, st.Expansion, 1e-9)

	// Moving back accumulates on top of the existing velocity.
	h = Pose(f, 0.6, 0.0)
	st, _ = in.Interpret(st, &h)
	assert.InDelta(t, (0.2-0.1)*0.8, st.RotationVelocity, 1e-12)
	assert.Equal(t, 0.0, st.Expansion)
}
