// Package scale implements the per-slice scale-factor search: brute-forcing
// the sixteen candidate quantizations of a 20-sample window and picking the
// one that minimizes squared reconstruction error.
package scale

import "github.com/mewkiz/qoa/internal/lms"

// Scaler compresses one channel's slice-width window of samples into a
// packed slice word, advancing the channel's LMS state in place.
//
// samples is the interleaved buffer holding one slice row of all channels;
// chn and channelCount locate this channel's strided window within it, and
// at most qoatab.SliceLen samples of the window are used. The window may
// hold fewer than qoatab.SliceLen samples for the last slice of a frame, in which case the returned word is left-shifted so the used
// residuals occupy the high bits.
type Scaler interface {
	Scale(samples []int16, st *lms.State, chn, channelCount int) uint64
}
