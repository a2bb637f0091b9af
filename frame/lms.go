package frame

import "github.com/mewkiz/qoa/internal/lms"

// PackLMS writes one channel's LMS prelude: two words, history then
// weights, each packing four signed 16-bit big-endian lanes (index 0 in
// bits 63..48, index 3 in bits 15..0).
func PackLMS(ww *WordWriter, st lms.State) error {
	var history, weights uint64
	for i := 0; i < 4; i++ {
		history = history<<16 | uint64(uint16(st.History[i]))
		weights = weights<<16 | uint64(uint16(st.Weights[i]))
	}
	if err := ww.WriteWord(history); err != nil {
		return err
	}
	return ww.WriteWord(weights)
}

// UnpackLMS reads one channel's LMS prelude, sign-extending each 16-bit
// lane into the 32-bit state slot.
func UnpackLMS(wr *WordReader) (lms.State, error) {
	history, err := wr.ReadWord()
	if err != nil {
		return lms.State{}, err
	}
	weights, err := wr.ReadWord()
	if err != nil {
		return lms.State{}, err
	}

	var st lms.State
	for i := 0; i < 4; i++ {
		shift := uint(48 - 16*i)
		st.History[i] = int32(int16(history >> shift))
		st.Weights[i] = int32(int16(weights >> shift))
	}
	return st, nil
}
