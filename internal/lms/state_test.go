package lms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestDefaultPredictIsZero covers spec scenario S6: the default LMS state
// predicts zero before any sample has been observed.
func TestDefaultPredictIsZero(t *testing.T) {
	s := Default()
	if got := s.Predict(); got != 0 {
		t.Errorf("Predict() on default state = %d, want 0", got)
	}
}

// TestPredictFold checks Predict against the scalar fold it's specified as:
// (Σ history[i]*weights[i]) >> 13, for arbitrary 16-bit-representable
// history and weights.
func TestPredictFold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var s State
		for i := 0; i < 4; i++ {
			s.History[i] = int32(rapid.Int32Range(-32768, 32767).Draw(t, "history"))
			s.Weights[i] = int32(rapid.Int32Range(-32768, 32767).Draw(t, "weights"))
		}

		var want int64
		for i := 0; i < 4; i++ {
			want += int64(s.History[i]) * int64(s.Weights[i])
		}
		want >>= 13

		assert.Equal(t, int32(want), s.Predict())
	})
}

// TestUpdateSignsOnPreShiftHistory checks that the weight delta's sign is
// driven by the history value from before the shift, not after.
func TestUpdateSignsOnPreShiftHistory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var s State
		for i := 0; i < 4; i++ {
			s.History[i] = int32(rapid.Int32Range(-32768, 32767).Draw(t, "history"))
			s.Weights[i] = int32(rapid.Int32Range(-32768, 32767).Draw(t, "weights"))
		}
		preHistory := s.History
		sample := int16(rapid.IntRange(-32768, 32767).Draw(t, "sample"))
		residual := rapid.Int32Range(-(1 << 17), 1<<17).Draw(t, "residual")

		preWeights := s.Weights
		s.Update(sample, residual)

		delta := residual >> 4
		for i := 0; i < 4; i++ {
			want := preWeights[i] + delta
			if preHistory[i] < 0 {
				want = preWeights[i] - delta
			}
			assert.Equal(t, want, s.Weights[i])
		}
		assert.Equal(t, sample, int16(s.History[3]))
		assert.Equal(t, preHistory[1], s.History[0])
		assert.Equal(t, preHistory[2], s.History[1])
		assert.Equal(t, preHistory[3], s.History[2])
	})
}
