package pcm

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVSource adapts a 16-bit PCM WAV file to Source. It is an external
// collaborator of the core codec: the codec itself never imports a
// container format, this type exists purely to feed it.
type WAVSource struct {
	dec      *wav.Decoder
	buf      *audio.IntBuffer
	channels uint8
	rate     uint32
}

// NewWAVSource opens a WAV PCM source over r. It returns an error if the
// file is not a valid WAV stream or is not 16-bit PCM.
func NewWAVSource(r io.ReadSeeker) (*WAVSource, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("pcm: not a valid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("pcm: seeking to PCM data: %w", err)
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("pcm: unsupported WAV bit depth %d; only 16-bit PCM is supported", dec.BitDepth)
	}

	const samplesPerRead = 4096
	nchannels := int(dec.NumChans)
	return &WAVSource{
		dec: dec,
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: nchannels,
				SampleRate:  int(dec.SampleRate),
			},
			Data:           make([]int, samplesPerRead*nchannels),
			SourceBitDepth: 16,
		},
		channels: uint8(nchannels),
		rate:     dec.SampleRate,
	}, nil
}

// ChannelCount implements Source.
func (s *WAVSource) ChannelCount() uint8 { return s.channels }

// SampleRate implements Source.
func (s *WAVSource) SampleRate() uint32 { return s.rate }

// SampleCount implements Source. The WAV decoder only exposes EOF, not a
// frame count ahead of time, so this always reports 0 (unknown); callers
// encode such sources in streaming mode.
func (s *WAVSource) SampleCount() int { return 0 }

// Read implements Source.
func (s *WAVSource) Read(dst []int16) (int, error) {
	if s.dec.EOF() {
		return 0, nil
	}
	if len(s.buf.Data) > len(dst) {
		s.buf.Data = s.buf.Data[:len(dst)]
	}
	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil {
		return 0, fmt.Errorf("pcm: reading WAV PCM buffer: %w", err)
	}
	for i := 0; i < n; i++ {
		dst[i] = int16(s.buf.Data[i])
	}
	return n, nil
}
