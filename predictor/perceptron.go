package predictor

// PerceptronConfig sizes and tunes a Perceptron predictor.
type PerceptronConfig struct {
	Entries        uint32
	HistoryLength  uint
	TrainThreshold int32
	WeightClamp    int32
	Hash           HashStrategy
}

// Perceptron keeps one linear predictor per hashed PC. Row r holds the bias
// weight followed by one weight per global history bit; weight i (1-based)
// pairs with the i-th most recent outcome.
type Perceptron struct {
	entries   uint32
	rowLen    int
	threshold int
	maxWeight int32
	minWeight int32
	hash      HashStrategy

	// Bit 0 is the most recent outcome.
	history     uint64
	historyMask uint64

	weights []int32
}

// NewPerceptron creates a perceptron predictor with zero weights and a
// cleared (all not-taken) history.
func NewPerceptron(config PerceptronConfig) *Perceptron {
	rowLen := int(config.HistoryLength) + 1
	historyMask := ^uint64(0)
	if config.HistoryLength < 64 {
		historyMask = uint64(1)<<config.HistoryLength - 1
	}

	return &Perceptron{
		entries:     config.Entries,
		rowLen:      rowLen,
		threshold:   int(config.TrainThreshold),
		maxWeight:   config.WeightClamp - 1,
		minWeight:   -config.WeightClamp,
		hash:        config.Hash,
		historyMask: historyMask,
		weights:     make([]int32, int(config.Entries)*rowLen),
	}
}

// Row returns the row index pc maps to under the current history.
func (p *Perceptron) Row(pc uint32) uint32 {
	return p.hash.rowIndex(pc, p.history, p.entries)
}

func (p *Perceptron) row(pc uint32) []int32 {
	start := int(p.Row(pc)) * p.rowLen
	return p.weights[start : start+p.rowLen]
}

// Output returns the perceptron output y for pc: the bias plus each weight
// added when its history bit is taken and subtracted otherwise.
func (p *Perceptron) Output(pc uint32) int {
	w := p.row(pc)
	y := int(w[0])
	for i := 1; i < p.rowLen; i++ {
		if p.history>>(i-1)&1 == 1 {
			y += int(w[i])
		} else {
			y -= int(w[i])
		}
	}
	return y
}

// Predict returns Taken when the output is non-negative.
func (p *Perceptron) Predict(pc uint32) Outcome {
	return OutcomeOf(p.Output(pc) >= 0)
}

// Train adjusts the row for pc when the prediction was wrong or its
// magnitude did not exceed the training threshold, then shifts outcome into
// the history. The output is recomputed from the same pre-update state
// Predict saw.
func (p *Perceptron) Train(pc uint32, outcome Outcome) {
	w := p.row(pc)
	y := p.Output(pc)

	if OutcomeOf(y >= 0) != outcome || abs(y) <= p.threshold {
		w[0] = p.step(w[0], outcome == Taken)
		for i := 1; i < p.rowLen; i++ {
			bit := Outcome(p.history >> (i - 1) & 1)
			w[i] = p.step(w[i], bit == outcome)
		}
	}

	p.history = (p.history<<1 | uint64(outcome)) & p.historyMask
}

// step moves w by +1 when up is set and -1 otherwise, within [-W, W-1].
func (p *Perceptron) step(w int32, up bool) int32 {
	if up {
		if w < p.maxWeight {
			return w + 1
		}
		return w
	}
	if w > p.minWeight {
		return w - 1
	}
	return w
}

// Weights returns a copy of the row pc maps to. Index 0 is the bias.
func (p *Perceptron) Weights(pc uint32) []int32 {
	return append([]int32(nil), p.row(pc)...)
}

// AllWeights returns a copy of every weight in row-major order.
func (p *Perceptron) AllWeights() []int32 {
	return append([]int32(nil), p.weights...)
}

// History returns the global history bits, most recent in bit 0.
func (p *Perceptron) History() uint64 {
	return p.history
}

// Entries returns the number of rows.
func (p *Perceptron) Entries() uint32 {
	return p.entries
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
