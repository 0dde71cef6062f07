package predictor

// GShare indexes one counter table by the global history XORed with the PC.
type GShare struct {
	history  HistoryRegister
	counters []SaturatingCounter
}

// NewGShare creates a gshare predictor with 2^historyBits counters.
func NewGShare(historyBits uint) *GShare {
	return &GShare{
		history:  NewHistoryRegister(historyBits),
		counters: newCounterTable(1 << historyBits),
	}
}

// Index returns the counter index used for pc under the current history.
func (g *GShare) Index(pc uint32) uint32 {
	return (g.history.Value() ^ pc) & g.history.Mask()
}

// Predict returns the prediction of the counter selected for pc.
func (g *GShare) Predict(pc uint32) Outcome {
	return g.counters[g.Index(pc)].Predict()
}

// Train updates the counter selected by the pre-update history, then shifts
// outcome into the history.
func (g *GShare) Train(pc uint32, outcome Outcome) {
	g.counters[g.Index(pc)].Train(outcome)
	g.history.Push(outcome)
}

// History returns the current global history bits.
func (g *GShare) History() uint32 {
	return g.history.Value()
}

// Counter returns the counter at index.
func (g *GShare) Counter(index uint32) SaturatingCounter {
	return g.counters[index]
}

// TableSize returns the number of counters.
func (g *GShare) TableSize() int {
	return len(g.counters)
}
