package predictor

// bitMask returns a mask with the low width bits set. width must be <= 31.
func bitMask(width uint) uint32 {
	return uint32(1)<<width - 1
}

// shiftIn appends outcome as the newest (bit 0) history bit and drops
// everything above mask.
func shiftIn(history uint32, outcome Outcome, mask uint32) uint32 {
	return (history<<1 | uint32(outcome)) & mask
}

// HistoryRegister is a shift register of recent branch outcomes with the most
// recent outcome in bit 0. Only the low Width() bits are significant.
type HistoryRegister struct {
	value uint32
	width uint
	mask  uint32
}

// NewHistoryRegister creates a cleared register of the given width.
func NewHistoryRegister(width uint) HistoryRegister {
	return HistoryRegister{
		width: width,
		mask:  bitMask(width),
	}
}

// Value returns the current history bits.
func (h *HistoryRegister) Value() uint32 {
	return h.value
}

// Width returns the number of significant bits.
func (h *HistoryRegister) Width() uint {
	return h.width
}

// Mask returns the all-ones mask of Width() bits.
func (h *HistoryRegister) Mask() uint32 {
	return h.mask
}

// Push shifts outcome in as the newest bit.
func (h *HistoryRegister) Push(outcome Outcome) {
	h.value = shiftIn(h.value, outcome, h.mask)
}
