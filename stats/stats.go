// Package stats accumulates prediction accuracy from engine hooks.
package stats

import (
	"sort"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/predictor"
)

// Stats holds prediction statistics for one engine.
type Stats struct {
	// Branches is the number of predictions that were resolved.
	Branches uint64
	// Correct is the number of correct predictions.
	Correct uint64
	// Incorrect is the number of mispredictions.
	Incorrect uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Branches == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Branches) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Stats) MispredictionRate() float64 {
	if s.Branches == 0 {
		return 0
	}
	return float64(s.Incorrect) / float64(s.Branches) * 100
}

// BranchMisses counts mispredictions of one static branch.
type BranchMisses struct {
	PC        uint32
	Executed  uint64
	Incorrect uint64
}

// Collector is a sim.Hook that pairs each prediction with the training call
// that resolves it.
type Collector struct {
	stats Stats

	pending    bool
	pendingPC  uint32
	prediction predictor.Outcome

	perPC map[uint32]*BranchMisses
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{perPC: make(map[uint32]*BranchMisses)}
}

// Func implements sim.Hook.
func (c *Collector) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case predictor.PredictEvent:
		c.pending = true
		c.pendingPC = item.PC
		c.prediction = item.Prediction
	case predictor.TrainEvent:
		// Training without a matching prediction is not scored.
		if !c.pending || c.pendingPC != item.PC {
			c.pending = false
			return
		}
		c.pending = false
		c.record(item.PC, c.prediction == item.Outcome)
	}
}

func (c *Collector) record(pc uint32, correct bool) {
	c.stats.Branches++

	entry, ok := c.perPC[pc]
	if !ok {
		entry = &BranchMisses{PC: pc}
		c.perPC[pc] = entry
	}
	entry.Executed++

	if correct {
		c.stats.Correct++
		return
	}
	c.stats.Incorrect++
	entry.Incorrect++
}

// Stats returns the statistics collected so far.
func (c *Collector) Stats() Stats {
	return c.stats
}

// TopMispredicted returns up to n branches with the most mispredictions,
// ties broken by lower PC.
func (c *Collector) TopMispredicted(n int) []BranchMisses {
	all := make([]BranchMisses, 0, len(c.perPC))
	for _, entry := range c.perPC {
		if entry.Incorrect > 0 {
			all = append(all, *entry)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Incorrect != all[j].Incorrect {
			return all[i].Incorrect > all[j].Incorrect
		}
		return all[i].PC < all[j].PC
	})

	if len(all) > n {
		all = all[:n]
	}
	return all
}

// Reset clears all statistics.
func (c *Collector) Reset() {
	c.stats = Stats{}
	c.pending = false
	c.perPC = make(map[uint32]*BranchMisses)
}
