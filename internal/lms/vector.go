package lms

// Lanes is the number of scale-factor candidates the vector scaler
// evaluates concurrently, one lane per candidate.
const Lanes = 16

// StateVector holds Lanes independent predictor states evolving in
// lock-step, one per candidate scale factor. It is a plain batched
// emulation of the reference codec's SIMD form: Go has no portable SIMD
// surface without cgo or assembly, so each "lane" is simply an element of
// an array walked in a loop. Semantics per lane are identical to State.
type StateVector [Lanes]State

// NewStateVector seeds every lane with the same starting state.
func NewStateVector(start State) StateVector {
	var v StateVector
	for i := range v {
		v[i] = start
	}
	return v
}

// Predict returns the per-lane prediction.
func (v *StateVector) Predict() [Lanes]int32 {
	var out [Lanes]int32
	for i := range v {
		out[i] = v[i].Predict()
	}
	return out
}

// Update advances every lane with its own (sample, residual) pair.
func (v *StateVector) Update(samples [Lanes]int16, residuals [Lanes]int32) {
	for i := range v {
		v[i].Update(samples[i], residuals[i])
	}
}

// Collapse returns the state of a single lane, discarding the rest. Called
// once the vector scaler has picked the winning scale factor.
func (v *StateVector) Collapse(lane int) State {
	return v[lane]
}
