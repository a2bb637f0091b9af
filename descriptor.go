// Package qoa implements the core of a QOA (Quite OK Audio) codec: a
// lossy, fixed-bitrate compressor built on a per-channel LMS predictor, a
// brute-force per-slice scale-factor search, and a bit-packed frame/slice
// wire format. The core is bit-exact compatible with the reference C
// codec. PCM ingest/output, CLI handling and benchmarking live outside
// this package; see the pcm subpackage and cmd/qoaenc.
package qoa

// StreamDescriptor carries a stream's (sample count, sample rate, channel
// count), any of which may be unknown (nil) depending on context: an
// encoder constructed in streaming mode starts with none of them known and
// infers rate/channels from the first source read; sample count stays
// unknown (streaming) for the life of the stream.
type StreamDescriptor struct {
	SampleCount  *uint32
	SampleRate   *uint32
	ChannelCount *uint8
}

// Validate checks the constraints spec.md places on a descriptor's present
// fields: sample rate in [1, 2^24), sample count >= 1 (0 means streaming
// and is therefore not a valid *declared* count), channel count in
// [1, 255].
func (d StreamDescriptor) Validate() error {
	if d.SampleRate != nil {
		if *d.SampleRate == 0 || *d.SampleRate >= 1<<24 {
			return &InvalidDescriptorError{Reason: "sample rate must be in [1, 2^24)"}
		}
	}
	if d.SampleCount != nil && *d.SampleCount == 0 {
		return &InvalidDescriptorError{Reason: "fixed-mode sample count must be >= 1"}
	}
	if d.ChannelCount != nil && *d.ChannelCount == 0 {
		return &InvalidDescriptorError{Reason: "channel count must be >= 1"}
	}
	return nil
}

func u32ptr(v uint32) *uint32 { return &v }
func u8ptr(v uint8) *uint8    { return &v }
