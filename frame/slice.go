package frame

// SliceLen is the number of samples covered by one packed slice word.
const SliceLen = 20

// Slice is the compressed unit for SliceLen consecutive samples of one
// channel: a 4-bit scale factor index and SliceLen 3-bit quantized residual
// indices.
type Slice struct {
	Quant uint8
	Resid [SliceLen]uint8
}

// PackSlice packs quant and resid into one 64-bit word: quant occupies bits
// 63..60, resid[0] bits 59..57, ..., resid[19] bits 2..0.
func PackSlice(quant uint8, resid [SliceLen]uint8) uint64 {
	word := uint64(quant&0xF) << 60
	for i, r := range resid {
		word |= uint64(r&0x7) << uint(57-3*i)
	}
	return word
}

// UnpackSlice reverses PackSlice.
func UnpackSlice(word uint64) Slice {
	var s Slice
	s.Quant = uint8(word>>60) & 0xF
	for i := range s.Resid {
		s.Resid[i] = uint8(word>>uint(57-3*i)) & 0x7
	}
	return s
}

// WriteSlice writes a packed slice word.
func WriteSlice(ww *WordWriter, quant uint8, resid [SliceLen]uint8) error {
	return ww.WriteWord(PackSlice(quant, resid))
}

// ReadSlice reads and unpacks one slice word.
func ReadSlice(wr *WordReader) (Slice, error) {
	word, err := wr.ReadWord()
	if err != nil {
		return Slice{}, err
	}
	return UnpackSlice(word), nil
}
