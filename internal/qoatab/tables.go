// Package qoatab holds the fixed lookup tables and fixed-point arithmetic
// primitives shared by the QOA encoder and decoder.
package qoatab

// Magic is the 4-byte file signature, big-endian "qoaf".
const Magic uint32 = 0x716f6166

// SliceLen is the number of samples packed into a single slice word.
const SliceLen = 20

// FrameLen is the maximum number of samples per channel in a single frame:
// 256 slices of 20 samples.
const FrameLen = SliceLen * 256

// QuantTable maps a clamped scaled residual (offset by +8, so index 0..16)
// to a 3-bit quantized residual index.
var QuantTable = [17]uint8{
	7, 7, 7, 5, 5, 3, 3, 1,
	0,
	0, 2, 2, 4, 4, 6, 6, 6,
}

// SFTable holds the 16 scale factors, SFTable[i] = round((i+1)^2.75).
var SFTable = [16]int32{
	1, 7, 21, 45, 84, 138, 211, 304, 421, 562, 731, 928, 1157, 1419, 1715, 2048,
}

// RecipTable holds fixed-point reciprocals of SFTable, (1<<16)/SFTable[i]
// rounded up, precomputed to avoid division in the scaler's hot loop.
var RecipTable = [16]int32{
	65536, 9363, 3121, 1457, 781, 475, 311, 216, 156, 117, 90, 71, 57, 47, 39, 32,
}

// DequantTable holds, for each scale factor (row) and 3-bit quantized index
// (column), the signed residual value to add back onto the predicted sample.
var DequantTable = [16][8]int32{
	{1, -1, 3, -3, 5, -5, 7, -7},
	{5, -5, 18, -18, 32, -32, 49, -49},
	{16, -16, 53, -53, 95, -95, 147, -147},
	{34, -34, 113, -113, 203, -203, 315, -315},
	{63, -63, 210, -210, 378, -378, 588, -588},
	{104, -104, 345, -345, 621, -621, 966, -966},
	{158, -158, 528, -528, 950, -950, 1477, -1477},
	{228, -228, 760, -760, 1368, -1368, 2128, -2128},
	{316, -316, 1053, -1053, 1895, -1895, 2947, -2947},
	{422, -422, 1405, -1405, 2529, -2529, 3934, -3934},
	{548, -548, 1828, -1828, 3290, -3290, 5117, -5117},
	{696, -696, 2320, -2320, 4176, -4176, 6496, -6496},
	{868, -868, 2893, -2893, 5207, -5207, 8099, -8099},
	{1064, -1064, 3548, -3548, 6386, -6386, 9933, -9933},
	{1286, -1286, 4288, -4288, 7718, -7718, 12005, -12005},
	{1536, -1536, 5120, -5120, 9216, -9216, 14336, -14336},
}

// Div computes the reference codec's rounding divide of v by the scale
// factor at index sf: round-half-away-from-zero with a sign-preserving
// correction, computed in 64-bit intermediate arithmetic so that
// v*RecipTable[sf] cannot overflow a 32-bit product for any 16-bit-derived
// residual.
func Div(v int32, sf int) int32 {
	recip := int64(RecipTable[sf])
	n := (int64(v)*recip + (1 << 15)) >> 16
	n += int64(sign(v)) - int64(sign(int32(n)))
	return int32(n)
}

// sign returns -1, 0 or 1 according to the sign of x.
func sign(x int32) int32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Quantize clamps a scaled residual to [-8, 8] and returns the 3-bit
// quantized index via QuantTable.
func Quantize(scaled int32) uint8 {
	clamped := scaled
	if clamped < -8 {
		clamped = -8
	}
	if clamped > 8 {
		clamped = 8
	}
	return QuantTable[clamped+8]
}

// ClampSample clamps v to the signed 16-bit sample range.
func ClampSample(v int32) int16 {
	if v < -32768 {
		return -32768
	}
	if v > 32767 {
		return 32767
	}
	return int16(v)
}
