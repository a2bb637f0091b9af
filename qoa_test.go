package qoa_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/mewkiz/qoa"
	"github.com/mewkiz/qoa/frame"
	"github.com/mewkiz/qoa/pcm"
	"github.com/stretchr/testify/assert"
)

func TestSingleChannelSilenceRoundTrip(t *testing.T) {
	const n = 5120
	samples := make([]int16, n)
	src := pcm.NewMemorySource(1, 44100, samples)

	var buf bytes.Buffer
	enc, err := qoa.NewFixedEncoder(&buf, n, 44100, 1)
	assert.NoError(t, err)
	assert.NoError(t, enc.Encode(src))
	assert.NoError(t, enc.Close())

	dec, err := qoa.NewDecoder(&buf)
	assert.NoError(t, err)
	sink := &pcm.MemorySink{}
	assert.NoError(t, dec.Decode(sink))

	assert.Equal(t, uint32(44100), sink.Rate)
	assert.Equal(t, uint8(1), sink.Channels)
	assert.Len(t, sink.Data[0], n)
	for _, s := range sink.Data[0] {
		assert.LessOrEqual(t, int(s), 1)
		assert.GreaterOrEqual(t, int(s), -1)
	}
}

func sineSamples(channels int, n int, rate float64) []int16 {
	samples := make([]int16, n*channels)
	for i := 0; i < n; i++ {
		v := int16(10000 * math.Sin(2*math.Pi*440*float64(i)/rate))
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = v
		}
	}
	return samples
}

func psnr(want, got []int16) float64 {
	var sumSq float64
	for i := range want {
		d := float64(want[i]) - float64(got[i])
		sumSq += d * d
	}
	mse := sumSq / float64(len(want))
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(32767*32767/mse)
}

func TestTwoChannelSineRoundTripPSNR(t *testing.T) {
	const n = 5120
	samples := sineSamples(2, n, 48000)
	src := pcm.NewMemorySource(2, 48000, samples)

	var buf bytes.Buffer
	enc, err := qoa.NewFixedEncoder(&buf, n, 48000, 2)
	assert.NoError(t, err)
	assert.NoError(t, enc.Encode(src))
	assert.NoError(t, enc.Close())

	dec, err := qoa.NewDecoder(&buf)
	assert.NoError(t, err)
	sink := &pcm.MemorySink{}
	assert.NoError(t, dec.Decode(sink))

	for chn := 0; chn < 2; chn++ {
		want := make([]int16, n)
		for i := 0; i < n; i++ {
			want[i] = samples[i*2+chn]
		}
		got := sink.Data[chn]
		assert.Len(t, got, n)
		assert.Greater(t, psnr(want, got), 30.0)
	}
}

func TestDecoderRejectsBadMagic(t *testing.T) {
	r := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	_, err := qoa.NewDecoder(r)
	var magicErr *frame.UnknownMagicError
	if !errors.As(err, &magicErr) {
		t.Fatalf("NewDecoder error = %v, want *frame.UnknownMagicError", err)
	}
	assert.Equal(t, [4]byte{0, 0, 0, 0}, magicErr.Bytes)
}

func TestStreamingEncodeShortFinalSliceIsZeroPadded(t *testing.T) {
	const n = 95 // 4 full slices + a 15-sample short slice
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(i * 7)
	}
	src := pcm.NewMemorySource(1, 44100, samples)

	var buf bytes.Buffer
	enc, err := qoa.NewStreamingEncoder(&buf)
	assert.NoError(t, err)
	assert.NoError(t, enc.Encode(src))
	assert.NoError(t, enc.Close())

	raw := buf.Bytes()
	wr := frame.NewWordReader(bytes.NewReader(raw))
	fh, err := frame.UnpackFileHeader(wr)
	assert.NoError(t, err)
	assert.True(t, fh.Streaming())

	h, err := frame.UnpackHeader(wr)
	assert.NoError(t, err)
	assert.Equal(t, uint16(n), h.SampleCount)
	assert.Equal(t, 5, h.SliceCount())

	_, err = frame.UnpackLMS(wr) // the single channel's history+weights prelude
	assert.NoError(t, err)

	var lastSlice frame.Slice
	for row := 0; row < h.SliceCount(); row++ {
		lastSlice, err = frame.ReadSlice(wr)
		assert.NoError(t, err)
	}
	for i := 15; i < frame.SliceLen; i++ {
		assert.Equal(t, uint8(0), lastSlice.Resid[i], "padding residual %d must be zero", i)
	}

	dec, err := qoa.NewDecoder(bytes.NewReader(raw))
	assert.NoError(t, err)
	sink := &pcm.MemorySink{}
	assert.NoError(t, dec.Decode(sink))
	assert.Len(t, sink.Data[0], n)
}

func TestFixedEncodePadsUnderdeliveredSource(t *testing.T) {
	const declared = 1000
	const delivered = 800
	samples := make([]int16, delivered)
	for i := range samples {
		samples[i] = int16(i)
	}
	src := pcm.NewMemorySource(1, 44100, samples)

	var buf bytes.Buffer
	enc, err := qoa.NewFixedEncoder(&buf, declared, 44100, 1)
	assert.NoError(t, err)
	assert.NoError(t, enc.Encode(src))
	assert.NoError(t, enc.Close())

	dec, err := qoa.NewDecoder(&buf)
	assert.NoError(t, err)
	sink := &pcm.MemorySink{}
	assert.NoError(t, dec.Decode(sink))
	assert.Len(t, sink.Data[0], declared)
}

func TestFixedEncodeRejectsSurplus(t *testing.T) {
	samples := make([]int16, 2000)
	src := pcm.NewMemorySource(1, 44100, samples)

	var buf bytes.Buffer
	enc, err := qoa.NewFixedEncoder(&buf, 1000, 44100, 1)
	assert.NoError(t, err)
	err = enc.Encode(src)
	var descErr *qoa.InvalidDescriptorError
	if !errors.As(err, &descErr) {
		t.Fatalf("Encode error = %v, want *InvalidDescriptorError", err)
	}
}

// TestFixedEncodeRejectsUnalignedSurplus covers an overrun that doesn't
// land on a slice-width boundary: the surplus samples are left buffered
// rather than consumed inside Encode's slice-draining loop, so Close must
// still catch them.
func TestFixedEncodeRejectsUnalignedSurplus(t *testing.T) {
	samples := make([]int16, 1003)
	src := pcm.NewMemorySource(1, 44100, samples)

	var buf bytes.Buffer
	enc, err := qoa.NewFixedEncoder(&buf, 1000, 44100, 1)
	assert.NoError(t, err)
	assert.NoError(t, enc.Encode(src))

	err = enc.Close()
	var descErr *qoa.InvalidDescriptorError
	if !errors.As(err, &descErr) {
		t.Fatalf("Close error = %v, want *InvalidDescriptorError", err)
	}
}

func TestEncodeOnClosedEncoderFails(t *testing.T) {
	var buf bytes.Buffer
	enc, err := qoa.NewStreamingEncoder(&buf)
	assert.NoError(t, err)
	assert.NoError(t, enc.Close())
	assert.ErrorIs(t, enc.Close(), qoa.ErrClosed)

	src := pcm.NewMemorySource(1, 44100, []int16{1, 2, 3})
	assert.ErrorIs(t, enc.Encode(src), qoa.ErrClosed)
}
