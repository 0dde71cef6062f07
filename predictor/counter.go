// Package predictor implements conditional branch direction predictors.
//
// An Engine owns exactly one active scheme (static, gshare, tournament or the
// custom perceptron scheme). The driver calls Predict for every branch and then
// Train with the resolved outcome, strictly in program order.
package predictor

// Outcome is the resolved or predicted direction of a conditional branch.
type Outcome uint8

const (
	// NotTaken means the branch falls through.
	NotTaken Outcome = 0
	// Taken means the branch jumps to its target.
	Taken Outcome = 1
)

// OutcomeOf converts a taken flag to an Outcome.
func OutcomeOf(taken bool) Outcome {
	if taken {
		return Taken
	}
	return NotTaken
}

// IsTaken returns true for Taken.
func (o Outcome) IsTaken() bool {
	return o == Taken
}

func (o Outcome) String() string {
	if o == Taken {
		return "T"
	}
	return "N"
}

// Counter states. Values at or below WeaklyNotTaken predict not taken.
const (
	StronglyNotTaken SaturatingCounter = 0
	WeaklyNotTaken   SaturatingCounter = 1
	WeaklyTaken      SaturatingCounter = 2
	StronglyTaken    SaturatingCounter = 3
)

// SaturatingCounter is a 2-bit confidence counter.
// States: 0=Strongly Not Taken, 1=Weakly Not Taken,
//
//	2=Weakly Taken, 3=Strongly Taken
type SaturatingCounter uint8

// Predict returns the direction the counter currently favors.
func (c SaturatingCounter) Predict() Outcome {
	if c <= WeaklyNotTaken {
		return NotTaken
	}
	return Taken
}

// Train moves the counter one step toward outcome, saturating at 0 and 3.
func (c *SaturatingCounter) Train(outcome Outcome) {
	if outcome == Taken {
		if *c < StronglyTaken {
			*c++
		}
		return
	}
	if *c > StronglyNotTaken {
		*c--
	}
}

// newCounterTable allocates size counters in the weakly-not-taken state.
func newCounterTable(size int) []SaturatingCounter {
	table := make([]SaturatingCounter, size)
	for i := range table {
		table[i] = WeaklyNotTaken
	}
	return table
}
