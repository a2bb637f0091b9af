package pcm

import "fmt"

// MemorySource is an in-memory channel-interleaved PCM source, primarily
// useful for tests and small command-line conversions.
type MemorySource struct {
	channels uint8
	rate     uint32
	samples  []int16 // interleaved
	pos      int
}

// NewMemorySource wraps an interleaved sample buffer as a Source.
// sampleCount is reported as len(samples)/channels.
func NewMemorySource(channels uint8, rate uint32, samples []int16) *MemorySource {
	return &MemorySource{channels: channels, rate: rate, samples: samples}
}

// ChannelCount implements Source.
func (s *MemorySource) ChannelCount() uint8 { return s.channels }

// SampleRate implements Source.
func (s *MemorySource) SampleRate() uint32 { return s.rate }

// SampleCount implements Source.
func (s *MemorySource) SampleCount() int {
	if s.channels == 0 {
		return 0
	}
	return len(s.samples) / int(s.channels)
}

// Read implements Source.
func (s *MemorySource) Read(buf []int16) (int, error) {
	n := copy(buf, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

// MemorySink collects decoded samples into one slice per channel, for
// tests and round-trip verification.
type MemorySink struct {
	Rate     uint32
	Channels uint8
	Data     [][]int16 // Data[chn] holds channel chn's samples in order
}

// SetDescriptor implements Sink. Once set, rate and channel count must stay
// constant for the lifetime of the sink.
func (s *MemorySink) SetDescriptor(rate uint32, channels uint8) error {
	if s.Channels == 0 {
		s.Rate = rate
		s.Channels = channels
		s.Data = make([][]int16, channels)
		return nil
	}
	if rate != s.Rate || channels != s.Channels {
		return fmt.Errorf("pcm: descriptor change rejected: have (rate=%d, channels=%d), got (rate=%d, channels=%d)", s.Rate, s.Channels, rate, channels)
	}
	return nil
}

// Write implements Sink.
func (s *MemorySink) Write(buf []int16, chn uint8) error {
	if int(chn) >= len(s.Data) {
		return fmt.Errorf("pcm: channel index %d out of range for %d channels", chn, len(s.Data))
	}
	s.Data[chn] = append(s.Data[chn], buf...)
	return nil
}

// Flush implements Sink.
func (s *MemorySink) Flush() error { return nil }

// Interleaved returns the sink's channel data interleaved into one slice,
// for comparing against a MemorySource's input.
func (s *MemorySink) Interleaved() []int16 {
	if len(s.Data) == 0 {
		return nil
	}
	n := len(s.Data[0])
	out := make([]int16, 0, n*len(s.Data))
	for i := 0; i < n; i++ {
		for chn := range s.Data {
			out = append(out, s.Data[chn][i])
		}
	}
	return out
}
