package scale

import (
	"github.com/mewkiz/qoa/internal/lms"
	"github.com/mewkiz/qoa/internal/qoatab"
)

// VectorScaler evaluates all sixteen scale factors as one 16-lane batch per
// sample rather than one scale factor at a time, then selects the
// minimum-error lane. It is a pure-Go emulation of the reference codec's
// SIMD scaler (Go has no portable SIMD surface without cgo or assembly) and
// is not a correctness dependency: LinearScaler is the oracle, and this
// type must reproduce its output bit-exactly on every input.
type VectorScaler struct{}

var _ Scaler = VectorScaler{}

// Scale implements Scaler.
func (VectorScaler) Scale(samples []int16, st *lms.State, chn, channelCount int) uint64 {
	n := windowLen(samples, chn, channelCount)

	vec := lms.NewStateVector(*st)
	var cumErr [lms.Lanes]int64
	var slice [lms.Lanes]uint64
	for sf := 0; sf < lms.Lanes; sf++ {
		slice[sf] = uint64(sf)
	}

	idx := chn
	for i := 0; i < n; i++ {
		sample := samples[idx]
		predicted := vec.Predict()

		var reconst [lms.Lanes]int16
		var dequant [lms.Lanes]int32
		for sf := 0; sf < lms.Lanes; sf++ {
			residual := int32(sample) - predicted[sf]
			scaled := qoatab.Div(residual, sf)
			q := qoatab.Quantize(scaled)
			dq := qoatab.DequantTable[sf][q]
			re := qoatab.ClampSample(predicted[sf] + dq)

			diff := int64(sample) - int64(re)
			cumErr[sf] += diff * diff

			reconst[sf] = re
			dequant[sf] = dq
			slice[sf] = slice[sf]<<3 | uint64(q)
		}

		vec.Update(reconst, dequant)
		idx += channelCount
	}

	bestLane := 0
	for sf := 1; sf < lms.Lanes; sf++ {
		if cumErr[sf] < cumErr[bestLane] {
			bestLane = sf
		}
	}

	*st = vec.Collapse(bestLane)
	return slice[bestLane] << uint((qoatab.SliceLen-n)*3)
}
