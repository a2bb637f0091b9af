package qoa

import (
	"fmt"
	"io"

	"github.com/mewkiz/qoa/frame"
	"github.com/mewkiz/qoa/internal/lms"
	"github.com/mewkiz/qoa/internal/qoatab"
	"github.com/mewkiz/qoa/pcm"
)

// Decoder unpacks a QOA byte stream into channel-interleaved PCM, frame by
// frame.
type Decoder struct {
	wr            *frame.WordReader
	streaming     bool
	declaredCount uint32
	totalRead     uint32
	descKnown     bool
	rate          uint32
	channels      uint8
	lms           []lms.State
	closed        bool
}

// NewDecoder reads the file header from r and returns a ready Decoder. It
// returns a *frame.UnknownMagicError if the stream does not open with the
// QOA signature.
func NewDecoder(r io.Reader) (*Decoder, error) {
	wr := frame.NewWordReader(r)
	fh, err := frame.UnpackFileHeader(wr)
	if err != nil {
		return nil, err
	}
	return &Decoder{wr: wr, streaming: fh.Streaming(), declaredCount: fh.SampleCount}, nil
}

func (d *Decoder) ensureChannels(n uint8) {
	if int(n) <= len(d.lms) {
		return
	}
	grown := make([]lms.State, n)
	copy(grown, d.lms)
	for i := len(d.lms); i < int(n); i++ {
		grown[i] = lms.Default()
	}
	d.lms = grown
}

// Decode reads frames until the declared sample count is exhausted (fixed
// mode) or the stream ends cleanly at a frame boundary (streaming mode),
// writing reconstructed PCM to sink.
func (d *Decoder) Decode(sink pcm.Sink) error {
	if d.closed {
		return ErrClosed
	}
	for d.streaming || d.totalRead < d.declaredCount {
		h, err := frame.UnpackHeader(d.wr)
		if err != nil {
			if err == io.EOF {
				if d.streaming {
					break
				}
				return &EOFError{Declared: d.declaredCount, Read: d.totalRead}
			}
			return err
		}

		if d.descKnown {
			if h.SampleRate != d.rate || h.ChannelCount != d.channels {
				return &DescriptorChangeError{Rate: h.SampleRate, Channels: h.ChannelCount}
			}
		} else {
			d.rate = h.SampleRate
			d.channels = h.ChannelCount
			d.descKnown = true
		}
		d.ensureChannels(h.ChannelCount)

		for chn := 0; chn < int(h.ChannelCount); chn++ {
			st, err := frame.UnpackLMS(d.wr)
			if err != nil {
				return err
			}
			d.lms[chn] = st
		}

		if err := sink.SetDescriptor(h.SampleRate, h.ChannelCount); err != nil {
			return &SinkWriteError{Kind: "descriptor", Err: err}
		}

		row := make([]int16, qoatab.SliceLen)
		remaining := int(h.SampleCount)
		for i := 0; i < h.SliceCount(); i++ {
			width := qoatab.SliceLen
			if remaining < width {
				width = remaining
			}
			for chn := 0; chn < int(h.ChannelCount); chn++ {
				sl, err := frame.ReadSlice(d.wr)
				if err != nil {
					return err
				}
				st := &d.lms[chn]
				for i := 0; i < width; i++ {
					predicted := st.Predict()
					dq := qoatab.DequantTable[sl.Quant][sl.Resid[i]]
					reconst := qoatab.ClampSample(predicted + dq)
					st.Update(reconst, dq)
					row[i] = reconst
				}
				if err := sink.Write(row[:width], uint8(chn)); err != nil {
					return &SinkWriteError{Kind: fmt.Sprintf("pcm channel %d", chn), Err: err}
				}
			}
			remaining -= width
		}
		d.totalRead += uint32(h.SampleCount)
	}

	if err := sink.Flush(); err != nil {
		return &SinkWriteError{Kind: "flush", Err: err}
	}
	return nil
}

// Close marks the decoder closed. A second call returns ErrClosed.
func (d *Decoder) Close() error {
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	return nil
}
