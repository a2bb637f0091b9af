// Package lms implements the per-channel least-mean-squares predictor used
// by the QOA codec, in scalar and 16-lane batched form.
package lms

// State is a per-channel adaptive predictor: four historical reconstructed
// samples and four adaptive weights.
type State struct {
	History [4]int32
	Weights [4]int32
}

// Default returns the LMS state a channel starts in at the beginning of a
// stream.
func Default() State {
	return State{
		History: [4]int32{0, 0, 0, 0},
		Weights: [4]int32{0, 0, -(1 << 13), 1 << 14},
	}
}

// Predict returns the predicted next sample from the current state:
// (Σ history[i]*weights[i]) >> 13, computed in 64-bit intermediate
// arithmetic so the four products cannot overflow a 32-bit accumulator.
func (s *State) Predict() int32 {
	var sum int64
	for i := 0; i < 4; i++ {
		sum += int64(s.History[i]) * int64(s.Weights[i])
	}
	return int32(sum >> 13)
}

// Update adjusts the weights by the dequantized residual and shifts sample
// into history. The pre-update history values (not the post-shift ones)
// drive the sign of each weight's delta.
func (s *State) Update(sample int16, residual int32) {
	delta := residual >> 4
	for i := 0; i < 4; i++ {
		if s.History[i] < 0 {
			s.Weights[i] -= delta
		} else {
			s.Weights[i] += delta
		}
	}
	s.History[0] = s.History[1]
	s.History[1] = s.History[2]
	s.History[2] = s.History[3]
	s.History[3] = int32(sample)
}
