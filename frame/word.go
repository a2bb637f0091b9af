// Package frame implements the bit-packed wire layout of a QOA stream: the
// file header, per-frame header, per-channel LMS prelude, and slice words.
// All multi-byte fields are big-endian; sub-byte fields (the 4-bit scale
// factor, 3-bit residuals, 24-bit sample rate) are packed within 64-bit
// words.
package frame

import (
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// WordSize is the width, in bits, of a QOA wire word.
const WordSize = 64

// WordWriter writes the abstract 64-bit big-endian word stream that the
// file header, frame header, LMS prelude and slice data are serialized
// into.
type WordWriter struct {
	bw *bitio.Writer
}

// NewWordWriter returns a word writer over w.
func NewWordWriter(w io.Writer) *WordWriter {
	return &WordWriter{bw: bitio.NewWriter(w)}
}

// WriteWord writes a full 64-bit word.
func (ww *WordWriter) WriteWord(v uint64) error {
	if err := ww.bw.WriteBits(v, WordSize); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// WriteBits writes the n lowest bits of v. The header, LMS and slice codecs
// in this package do not use it: they pack their sub-word fields into a
// uint64 by shifting and write whole words with WriteWord.
func (ww *WordWriter) WriteBits(v uint64, n uint8) error {
	if err := ww.bw.WriteBits(v, n); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// Close flushes any cached, not yet byte-aligned bits. QOA's wire format is
// always whole-word aligned, so this is a no-op past the first call in
// practice, but mirrors the teacher's bit writer lifecycle.
func (ww *WordWriter) Close() error {
	if _, err := ww.bw.Align(); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// WordReader reads the abstract 64-bit big-endian word stream.
type WordReader struct {
	br *bitio.Reader
}

// NewWordReader returns a word reader over r.
func NewWordReader(r io.Reader) *WordReader {
	return &WordReader{br: bitio.NewReader(r)}
}

// ReadWord reads a full 64-bit word. io.EOF is returned unwrapped so
// callers can distinguish a clean stream boundary from a corrupt read.
func (wr *WordReader) ReadWord() (uint64, error) {
	v, err := wr.br.ReadBits(WordSize)
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, errutil.Err(err)
	}
	return v, nil
}

// ReadBits reads the n lowest bits of the next field.
func (wr *WordReader) ReadBits(n uint8) (uint64, error) {
	v, err := wr.br.ReadBits(n)
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, errutil.Err(err)
	}
	return v, nil
}
