package trace

import "github.com/sarchlab/bpsim/predictor"

// Loop returns the branch pattern of a counted loop: the back edge at pc is
// taken iterations-1 times and then falls through, repeated count times.
func Loop(pc uint32, iterations, count int) []Branch {
	branches := make([]Branch, 0, iterations*count)
	for c := 0; c < count; c++ {
		for i := 0; i < iterations; i++ {
			branches = append(branches, Branch{
				PC:      pc,
				Outcome: predictor.OutcomeOf(i < iterations-1),
			})
		}
	}
	return branches
}

// Alternating returns a branch at pc that flips direction every time,
// starting with taken.
func Alternating(pc uint32, count int) []Branch {
	branches := make([]Branch, count)
	for i := range branches {
		branches[i] = Branch{PC: pc, Outcome: predictor.OutcomeOf(i%2 == 0)}
	}
	return branches
}

// Biased returns a branch at pc that is always taken or always not taken.
func Biased(pc uint32, outcome predictor.Outcome, count int) []Branch {
	branches := make([]Branch, count)
	for i := range branches {
		branches[i] = Branch{PC: pc, Outcome: outcome}
	}
	return branches
}

// Interleave merges traces round-robin, one branch from each in turn, until
// all are exhausted.
func Interleave(traces ...[]Branch) []Branch {
	total := 0
	for _, t := range traces {
		total += len(t)
	}

	merged := make([]Branch, 0, total)
	for i := 0; len(merged) < total; i++ {
		for _, t := range traces {
			if i < len(t) {
				merged = append(merged, t[i])
			}
		}
	}
	return merged
}
