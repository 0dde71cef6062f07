package harness

import (
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// GetWorkloads returns the built-in synthetic workloads.
func GetWorkloads() []Workload {
	return []Workload{
		{
			Name:        "biased",
			Description: "Always-taken and never-taken branches at distinct PCs",
			Branches: trace.Interleave(
				trace.Biased(0x400100, predictor.Taken, 5000),
				trace.Biased(0x400200, predictor.NotTaken, 5000),
			),
		},
		{
			Name:        "loop_8",
			Description: "Counted loop back edge, 8 iterations per trip",
			Branches:    trace.Loop(0x400300, 8, 1000),
		},
		{
			Name:        "alternating",
			Description: "Branch flipping direction every execution",
			Branches:    trace.Alternating(0x400400, 8000),
		},
		{
			Name:        "nested_loops",
			Description: "Inner 4-iteration loop interleaved with an outer 16-iteration loop",
			Branches: trace.Interleave(
				trace.Loop(0x400500, 4, 2000),
				trace.Loop(0x400540, 16, 500),
			),
		},
	}
}

// WorkloadFromTrace reads src fully into a Workload.
func WorkloadFromTrace(name string, src trace.Source) (Workload, error) {
	branches, err := trace.ReadAll(src)
	if err != nil {
		return Workload{}, err
	}
	return Workload{Name: name, Description: "trace " + name, Branches: branches}, nil
}
