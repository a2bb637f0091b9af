package qoa

import (
	"fmt"
	"io"

	"github.com/mewkiz/qoa/frame"
	"github.com/mewkiz/qoa/internal/lms"
	"github.com/mewkiz/qoa/internal/qoatab"
	"github.com/mewkiz/qoa/internal/scale"
	"github.com/mewkiz/qoa/pcm"
)

// openFrame accumulates one frame's worth of slice words. The per-channel
// LMS state the frame's header prelude advertises is snapshotted at
// openFrame creation; the live lms.State slice in Encoder keeps mutating
// underneath as slices are scaled.
type openFrame struct {
	prelude     []lms.State
	words       []uint64
	sampleCount int
}

// Encoder packs channel-interleaved PCM samples into a QOA byte stream. An
// Encoder is constructed in fixed mode (sample count known up front) or
// streaming mode (sample count unknown, channel count and rate inferred
// from the first source read); see NewFixedEncoder and NewStreamingEncoder.
type Encoder struct {
	ww            *frame.WordWriter
	fixed         bool
	declaredCount uint32
	rate          uint32
	channels      uint8
	channelsKnown bool
	lms           []lms.State
	scaler        scale.Scaler
	buf           []int16
	frame         *openFrame
	totalWritten  uint32
	closed        bool
}

// Option configures an Encoder at construction time.
type Option func(*Encoder)

// WithScaler overrides the default LinearScaler. VectorScaler is provided
// as a bit-exact, 16-lane batched alternative; see internal/scale.
func WithScaler(s scale.Scaler) Option {
	return func(e *Encoder) { e.scaler = s }
}

// NewFixedEncoder constructs an encoder that declares sampleCount samples
// per channel up front. A source that underdelivers is padded with silence
// on Close; a source that overdelivers is a usage error.
func NewFixedEncoder(w io.Writer, sampleCount, sampleRate uint32, channelCount uint8, opts ...Option) (*Encoder, error) {
	d := StreamDescriptor{SampleCount: u32ptr(sampleCount), SampleRate: u32ptr(sampleRate), ChannelCount: u8ptr(channelCount)}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ww := frame.NewWordWriter(w)
	if err := (frame.FileHeader{SampleCount: sampleCount}).Pack(ww); err != nil {
		return nil, &SinkWriteError{Kind: "file header", Err: err}
	}
	e := &Encoder{
		ww:            ww,
		fixed:         true,
		declaredCount: sampleCount,
		rate:          sampleRate,
		channels:      channelCount,
		channelsKnown: true,
		lms:           newLMSVector(channelCount),
		scaler:        scale.LinearScaler{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewStreamingEncoder constructs an encoder of unknown length. Its rate and
// channel count are inferred from the first call to Encode.
func NewStreamingEncoder(w io.Writer, opts ...Option) (*Encoder, error) {
	ww := frame.NewWordWriter(w)
	if err := (frame.FileHeader{SampleCount: 0}).Pack(ww); err != nil {
		return nil, &SinkWriteError{Kind: "file header", Err: err}
	}
	e := &Encoder{ww: ww, scaler: scale.LinearScaler{}}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func newLMSVector(n uint8) []lms.State {
	states := make([]lms.State, n)
	for i := range states {
		states[i] = lms.Default()
	}
	return states
}

// Encode reads src to exhaustion, emitting full frames as they fill and
// buffering any partial tail for a later Encode or Close call.
func (e *Encoder) Encode(src pcm.Source) error {
	if e.closed {
		return ErrClosed
	}
	if !e.channelsKnown {
		chn, rate := src.ChannelCount(), src.SampleRate()
		if chn == 0 || rate == 0 {
			return &InvalidDescriptorError{Reason: "streaming encoder requires a source that reports channel count and sample rate"}
		}
		e.channels = chn
		e.rate = rate
		e.channelsKnown = true
		e.lms = newLMSVector(chn)
	} else {
		if chn := src.ChannelCount(); chn != 0 && chn != e.channels {
			return ErrInvalidDescriptorChange
		}
		if rate := src.SampleRate(); rate != 0 && rate != e.rate {
			return ErrInvalidDescriptorChange
		}
	}

	tmp := make([]int16, 4096*int(e.channels))
	for {
		n, err := src.Read(tmp)
		if err != nil {
			return &SourceReadError{Err: err}
		}
		if n == 0 {
			return nil
		}
		if err := e.ingest(tmp[:n]); err != nil {
			return err
		}
	}
}

// ingest appends samples to the pending buffer and drains every complete
// slice-width row, opening and flushing frames as their sample budget
// (FrameLen, or the declared fixed count) is reached.
func (e *Encoder) ingest(samples []int16) error {
	e.buf = append(e.buf, samples...)
	sliceWidth := int(e.channels) * qoatab.SliceLen

	for len(e.buf) >= sliceWidth {
		if e.fixed {
			committed := e.totalWritten
			if e.frame != nil {
				committed += uint32(e.frame.sampleCount)
			}
			if committed >= e.declaredCount {
				return &InvalidDescriptorError{Reason: "source delivered more samples than the declared fixed sample count"}
			}
		}
		if e.frame == nil {
			e.openFrame()
		}
		row := e.buf[:sliceWidth]
		e.buf = e.buf[sliceWidth:]
		e.appendSliceRow(row, qoatab.SliceLen)

		full := e.frame.sampleCount >= qoatab.FrameLen
		declaredDone := e.fixed && e.totalWritten+uint32(e.frame.sampleCount) >= e.declaredCount
		if full || declaredDone {
			if err := e.flushFrame(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Encoder) openFrame() {
	e.frame = &openFrame{prelude: append([]lms.State(nil), e.lms...)}
}

// appendSliceRow scales one strided window of row per channel into the open
// frame's word buffer. n is the number of samples per channel the window
// covers (SliceLen for a full row, fewer for the trailing short slice).
func (e *Encoder) appendSliceRow(row []int16, n int) {
	for chn := 0; chn < int(e.channels); chn++ {
		word := e.scaler.Scale(row, &e.lms[chn], chn, int(e.channels))
		e.frame.words = append(e.frame.words, word)
	}
	e.frame.sampleCount += n
}

func (e *Encoder) flushFrame() error {
	f := e.frame
	h := frame.NewHeader(e.channels, e.rate, uint16(f.sampleCount))
	if err := h.Pack(e.ww); err != nil {
		return &SinkWriteError{Kind: "frame header", Err: err}
	}
	for i, st := range f.prelude {
		if err := frame.PackLMS(e.ww, st); err != nil {
			return &SinkWriteError{Kind: fmt.Sprintf("lms prelude channel %d", i), Err: err}
		}
	}
	for i, w := range f.words {
		if err := e.ww.WriteWord(w); err != nil {
			return &SinkWriteError{Kind: fmt.Sprintf("slice word %d", i), Err: err}
		}
	}
	e.totalWritten += uint32(f.sampleCount)
	e.frame = nil
	return nil
}

// Close drains any buffered partial slice as a short, left-shifted final
// slice, pads a fixed-mode shortfall with silence, flushes the final open
// frame, and releases the encoder. A second call returns ErrClosed.
func (e *Encoder) Close() error {
	if e.closed {
		return ErrClosed
	}
	defer func() { e.closed = true }()

	if e.fixed {
		committed := e.totalWritten + uint32(len(e.buf)/int(e.channels))
		if e.frame != nil {
			committed += uint32(e.frame.sampleCount)
		}
		switch {
		case committed > e.declaredCount:
			return &InvalidDescriptorError{Reason: "source delivered more samples than the declared fixed sample count"}
		case committed < e.declaredCount:
			deficit := e.declaredCount - committed
			pad := make([]int16, int(deficit)*int(e.channels))
			if err := e.ingest(pad); err != nil {
				return err
			}
		}
	}

	if len(e.buf) > 0 {
		if e.frame == nil {
			e.openFrame()
		}
		e.appendSliceRow(e.buf, len(e.buf)/int(e.channels))
		e.buf = nil
	}
	if e.frame != nil {
		if err := e.flushFrame(); err != nil {
			return err
		}
	}
	return nil
}
