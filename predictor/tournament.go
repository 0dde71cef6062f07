package predictor

// TournamentConfig sizes a Tournament predictor.
type TournamentConfig struct {
	GlobalHistoryBits uint
	LocalHistoryBits  uint
	PCIndexBits       uint
	// GlobalXORPC indexes the global table and chooser by (history XOR pc).
	GlobalXORPC bool
}

// Tournament combines a global-history predictor and a per-PC local-history
// predictor. A chooser counter per global index picks between them: values
// at or below 1 select the global predictor, higher values the local one.
type Tournament struct {
	globalXORPC bool

	history       HistoryRegister
	globalTable   []SaturatingCounter
	chooser       []SaturatingCounter
	localHistory  []uint32
	localMask     uint32
	pcMask        uint32
	localCounters []SaturatingCounter
}

// NewTournament creates a tournament predictor with all counters weakly not
// taken and every history register cleared.
func NewTournament(config TournamentConfig) *Tournament {
	globalSize := 1 << config.GlobalHistoryBits
	localSlots := 1 << config.PCIndexBits
	return &Tournament{
		globalXORPC:   config.GlobalXORPC,
		history:       NewHistoryRegister(config.GlobalHistoryBits),
		globalTable:   newCounterTable(globalSize),
		chooser:       newCounterTable(globalSize),
		localHistory:  make([]uint32, localSlots),
		localMask:     bitMask(config.LocalHistoryBits),
		pcMask:        bitMask(config.PCIndexBits),
		localCounters: newCounterTable(1 << config.LocalHistoryBits),
	}
}

// GlobalIndex returns the global table and chooser index for pc.
func (t *Tournament) GlobalIndex(pc uint32) uint32 {
	if t.globalXORPC {
		return (t.history.Value() ^ pc) & t.history.Mask()
	}
	return t.history.Value()
}

// LocalSlot returns the local history table slot for pc.
func (t *Tournament) LocalSlot(pc uint32) uint32 {
	return pc & t.pcMask
}

// LocalIndex returns the local counter index for pc.
func (t *Tournament) LocalIndex(pc uint32) uint32 {
	return t.localHistory[t.LocalSlot(pc)]
}

// GlobalPredict returns the global predictor's direction for pc.
func (t *Tournament) GlobalPredict(pc uint32) Outcome {
	return t.globalTable[t.GlobalIndex(pc)].Predict()
}

// LocalPredict returns the local predictor's direction for pc.
func (t *Tournament) LocalPredict(pc uint32) Outcome {
	return t.localCounters[t.LocalIndex(pc)].Predict()
}

// Predict asks the chooser which sub-predictor to trust for pc.
func (t *Tournament) Predict(pc uint32) Outcome {
	if t.chooser[t.GlobalIndex(pc)] <= WeaklyNotTaken {
		return t.GlobalPredict(pc)
	}
	return t.LocalPredict(pc)
}

// Train updates the chooser (only on disagreement), then the global side,
// then the local side. Both sub-predictions are taken before any state moves.
func (t *Tournament) Train(pc uint32, outcome Outcome) {
	globalIdx := t.GlobalIndex(pc)
	slot := t.LocalSlot(pc)
	localIdx := t.localHistory[slot]

	globalOutcome := t.globalTable[globalIdx].Predict()
	localOutcome := t.localCounters[localIdx].Predict()

	// The chooser counts down toward global and up toward local.
	if globalOutcome != localOutcome {
		if globalOutcome == outcome {
			t.chooser[globalIdx].Train(NotTaken)
		} else {
			t.chooser[globalIdx].Train(Taken)
		}
	}

	t.globalTable[globalIdx].Train(outcome)
	t.history.Push(outcome)

	t.localCounters[localIdx].Train(outcome)
	t.localHistory[slot] = shiftIn(localIdx, outcome, t.localMask)
}

// History returns the current global history bits.
func (t *Tournament) History() uint32 {
	return t.history.Value()
}

// LocalHistory returns the local history register for pc.
func (t *Tournament) LocalHistory(pc uint32) uint32 {
	return t.LocalIndex(pc)
}

// ChooserValue returns the chooser counter consulted for pc.
func (t *Tournament) ChooserValue(pc uint32) SaturatingCounter {
	return t.chooser[t.GlobalIndex(pc)]
}

// Chooser returns the chooser counter at a global index.
func (t *Tournament) Chooser(index uint32) SaturatingCounter {
	return t.chooser[index]
}

// GlobalTableSize returns the number of global counters (and chooser entries).
func (t *Tournament) GlobalTableSize() int {
	return len(t.globalTable)
}

// LocalTableSize returns the number of local counters.
func (t *Tournament) LocalTableSize() int {
	return len(t.localCounters)
}

// LocalHistoryTableSize returns the number of per-PC history slots.
func (t *Tournament) LocalHistoryTableSize() int {
	return len(t.localHistory)
}
