package scale

import (
	"github.com/mewkiz/qoa/internal/lms"
	"github.com/mewkiz/qoa/internal/qoatab"
)

// LinearScaler is the reference-compatible scaler: it evaluates the sixteen
// candidate scale factors one after another, picking the one with the
// lowest cumulative squared error. Ties go to the lowest scale-factor index
// since candidates are evaluated in ascending order and only a strictly
// smaller error replaces the current best.
type LinearScaler struct{}

var _ Scaler = LinearScaler{}

// windowLen returns the number of samples in the strided channel window
// starting at chn, capped at qoatab.SliceLen.
func windowLen(samples []int16, chn, channelCount int) int {
	n := 0
	for idx := chn; idx < len(samples) && n < qoatab.SliceLen; idx += channelCount {
		n++
	}
	return n
}

// Scale implements Scaler.
func (LinearScaler) Scale(samples []int16, st *lms.State, chn, channelCount int) uint64 {
	n := windowLen(samples, chn, channelCount)

	bestErr := int64(-1)
	var bestSlice uint64
	bestLMS := *st

	for sf := 0; sf < 16; sf++ {
		cand := *st
		slice := uint64(sf)
		var cumErr int64
		idx := chn
		for i := 0; i < n; i++ {
			sample := samples[idx]
			predicted := cand.Predict()
			residual := int32(sample) - predicted
			scaled := qoatab.Div(residual, sf)
			q := qoatab.Quantize(scaled)
			dq := qoatab.DequantTable[sf][q]
			reconst := qoatab.ClampSample(predicted + dq)

			diff := int64(sample) - int64(reconst)
			cumErr += diff * diff

			cand.Update(reconst, dq)
			slice = slice<<3 | uint64(q)
			idx += channelCount
		}
		if bestErr < 0 || cumErr < bestErr {
			bestErr = cumErr
			bestSlice = slice
			bestLMS = cand
		}
	}

	*st = bestLMS
	return bestSlice << uint((qoatab.SliceLen-n)*3)
}
