// Command sweep compares several branch predictor configurations.
//
// Usage:
//
//	go run ./cmd/sweep [flags] [spec ...]
//
// Each positional argument is a predictor spec (static, gshare:13,
// tournament:9:10:10, custom:512:24, ...). Without specs a default set of
// all four schemes is compared.
//
// Flags:
//
//	-trace   Branch trace to evaluate (default: built-in synthetic workloads)
//	-csv     Output results in CSV format
//	-json    Output results in JSON format
//	-v       Print progress for each run
//
// Example:
//
//	# Compare gshare history lengths on a trace
//	go run ./cmd/sweep -trace mm_1.txt.gz gshare:10 gshare:13 gshare:16
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/bpsim/harness"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

var defaultSpecs = []string{
	"static",
	"gshare:13",
	"tournament:9:10:10",
	"custom",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("sweep", flag.ContinueOnError)
	flags.SetOutput(stderr)

	tracePath := flags.String("trace", "", "Branch trace to evaluate (default: built-in workloads)")
	csvOutput := flags.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flags.Bool("json", false, "Output results in JSON format")
	verbose := flags.Bool("v", false, "Print progress for each run")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	config := harness.DefaultConfig()
	config.Output = stdout
	config.Verbose = *verbose
	h := harness.NewHarness(config)

	specs := flags.Args()
	if len(specs) == 0 {
		specs = defaultSpecs
	}
	for _, spec := range specs {
		bp, err := predictor.ParseSpec(spec, predictor.DefaultConfig())
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if err := h.AddPredictor(*bp); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if *tracePath == "" {
		h.AddWorkloads(harness.GetWorkloads())
	} else {
		w, err := loadWorkload(*tracePath)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		h.AddWorkload(w)
	}

	results, err := h.RunAll()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case *jsonOutput:
		if err := h.PrintJSON(results); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	case *csvOutput:
		h.PrintCSV(results)
	default:
		h.PrintResults(results)
	}

	return 0
}

func loadWorkload(path string) (harness.Workload, error) {
	f, err := trace.Open(path)
	if err != nil {
		return harness.Workload{}, err
	}
	defer func() { _ = f.Close() }()

	return harness.WorkloadFromTrace(path, f)
}
