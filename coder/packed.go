package coder

// PackedField describes a word that carries independent flag bits in its
// low Shift bits and a small value in the Width bits above them.
//
// The tag header word is one (6 bits of length under a 10 bit type code),
// as is the button event word (9 event flags under a 7 bit key code).
type PackedField struct {
	Shift uint
	Width uint
}

// FlagMask returns the mask selecting the flag bits.
func (f PackedField) FlagMask() uint32 {
	return 1<<f.Shift - 1
}

// ValueMask returns the mask selecting the value bits in place.
func (f PackedField) ValueMask() uint32 {
	return (1<<f.Width - 1) << f.Shift
}

// Split extracts the flags and the value from word.
func (f PackedField) Split(word uint32) (flags, value uint32) {
	return word & f.FlagMask(), (word & f.ValueMask()) >> f.Shift
}

// Join combines flags and value into a single word. Bits outside either
// sub-field are discarded.
func (f PackedField) Join(flags, value uint32) uint32 {
	return flags&f.FlagMask() | (value<<f.Shift)&f.ValueMask()
}

// Fits reports whether flags and value survive Join unchanged.
func (f PackedField) Fits(flags, value uint32) bool {
	return flags&^f.FlagMask() == 0 && value&^(f.ValueMask()>>f.Shift) == 0
}
