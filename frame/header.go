package frame

import (
	"fmt"
)

// Magic is the big-endian file signature "qoaf".
const Magic uint32 = 0x716f6166

// FileHeader is the 8-byte file header that opens a QOA stream.
//
// File header format (pseudo code):
//
//	type FILE_HEADER struct {
//	   magic        uint32 // "qoaf"
//	   sample_count uint32 // per channel; 0 means streaming mode
//	}
type FileHeader struct {
	// SampleCount is the total number of samples per channel declared at
	// encode time, or 0 for streaming mode (length unknown up front).
	SampleCount uint32
}

// Streaming reports whether the header declares streaming mode.
func (h FileHeader) Streaming() bool {
	return h.SampleCount == 0
}

// Pack writes the file header as one 64-bit word.
func (h FileHeader) Pack(ww *WordWriter) error {
	word := uint64(Magic)<<32 | uint64(h.SampleCount)
	return ww.WriteWord(word)
}

// UnpackFileHeader reads and validates the file header. It returns
// UnknownMagicError if the first four bytes are not "qoaf".
func UnpackFileHeader(wr *WordReader) (FileHeader, error) {
	word, err := wr.ReadWord()
	if err != nil {
		return FileHeader{}, err
	}
	magic := uint32(word >> 32)
	if magic != Magic {
		var b [4]byte
		b[0] = byte(magic >> 24)
		b[1] = byte(magic >> 16)
		b[2] = byte(magic >> 8)
		b[3] = byte(magic)
		return FileHeader{}, &UnknownMagicError{Bytes: b}
	}
	return FileHeader{SampleCount: uint32(word)}, nil
}

// UnknownMagicError reports that a decoded stream did not start with the
// QOA file signature.
type UnknownMagicError struct {
	Bytes [4]byte
}

func (e *UnknownMagicError) Error() string {
	return fmt.Sprintf("frame: unknown magic bytes %v; want \"qoaf\"", e.Bytes)
}

// Header is a frame header: it precedes a frame's LMS prelude and slice
// data and describes the frame's channel count, sample rate, and sample
// count.
//
// Frame header format (pseudo code):
//
//	type FRAME_HEADER struct {
//	   channel_count uint8
//	   sample_rate   uint24
//	   sample_count  uint16 // samples in this frame, <= 5120
//	   size          uint16 // declared frame byte size; informational
//	}
type Header struct {
	// ChannelCount is the number of interleaved channels in this frame.
	ChannelCount uint8
	// SampleRate is the sample rate in Hz, constrained to 24 bits.
	SampleRate uint32
	// SampleCount is the number of samples per channel in this frame,
	// at most qoatab.FrameLen (5120).
	SampleCount uint16
	// Size is the declared frame byte size: 24*channels + 8*slices*channels.
	// Decoders MAY verify it but are not required to.
	Size uint16
}

// SliceCount returns ceil(SampleCount/20), the number of slice rows in this
// frame.
func (h Header) SliceCount() int {
	const sliceLen = 20
	return (int(h.SampleCount) + sliceLen - 1) / sliceLen
}

// Pack writes the frame header as one 64-bit word.
//
//	bits 63..56: channel count
//	bits 55..32: sample rate (24 bits)
//	bits 31..16: sample count
//	bits 15..0:  size
func (h Header) Pack(ww *WordWriter) error {
	word := uint64(h.ChannelCount)<<56 |
		(uint64(h.SampleRate)&0xFFFFFF)<<32 |
		uint64(h.SampleCount)<<16 |
		uint64(h.Size)
	return ww.WriteWord(word)
}

// UnpackHeader reads a frame header.
func UnpackHeader(wr *WordReader) (Header, error) {
	word, err := wr.ReadWord()
	if err != nil {
		return Header{}, err
	}
	return Header{
		ChannelCount: uint8(word >> 56),
		SampleRate:   uint32(word>>32) & 0xFFFFFF,
		SampleCount:  uint16(word >> 16),
		Size:         uint16(word),
	}, nil
}

// NewHeader computes a frame header for channelCount channels at sampleRate
// Hz holding sampleCount samples per channel.
func NewHeader(channelCount uint8, sampleRate uint32, sampleCount uint16) Header {
	h := Header{
		ChannelCount: channelCount,
		SampleRate:   sampleRate,
		SampleCount:  sampleCount,
	}
	slices := uint16(h.SliceCount())
	h.Size = 24*uint16(channelCount) + 8*slices*uint16(channelCount)
	return h
}
