// Package main provides the bpsim command.
// bpsim runs one branch predictor over a branch trace and reports its
// misprediction rate.
//
// Usage:
//
//	bpsim [options] [trace]
//
// The trace is read from stdin when omitted or "-". Predictors are selected
// with -bp using the notation static, gshare:<ghist>,
// tournament:<ghist>:<lhist>:<index>[:xor] or custom[:<entries>[:<history>]].
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

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("bpsim", flag.ContinueOnError)
	flags.SetOutput(stderr)

	spec := flags.String("bp", "", "Predictor (default: scheme from -config, else static): static, gshare:<g>, tournament:<g>:<l>:<p>[:xor], custom[:<entries>[:<history>]]")
	configPath := flags.String("config", "", "Path to predictor configuration JSON file")
	hash := flags.String("hash", "", "Perceptron hash strategy: modulo, history-fold, xxhash")
	verbose := flags.Bool("v", false, "Verbose output")
	events := flags.Bool("events", false, "Log every prediction and training call to stderr")
	top := flags.Int("top", 10, "Number of most-mispredicted branches to list with -v")

	flags.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: bpsim [options] [trace]\n")
		_, _ = fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return 2
	}

	config, err := buildConfig(*configPath, *spec, *hash)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	engine, err := predictor.NewEngine(*config)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	tracePath := "-"
	if flags.NArg() == 1 {
		tracePath = flags.Arg(0)
	}

	f, err := trace.Open(tracePath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	if *verbose {
		_, _ = fmt.Fprintf(stdout, "Predictor: %s\n", engine.Name())
		_, _ = fmt.Fprintf(stdout, "Trace:     %s\n", tracePath)
	}
	if *events {
		engine.AcceptHook(harness.NewEventLogger(stderr))
	}

	collector, err := harness.Simulate(engine, f)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	s := collector.Stats()
	_, _ = fmt.Fprintf(stdout, "Branches:        %10d\n", s.Branches)
	_, _ = fmt.Fprintf(stdout, "Incorrect:       %10d\n", s.Incorrect)
	_, _ = fmt.Fprintf(stdout, "Misprediction Rate: %7.3f\n", s.MispredictionRate())

	if *verbose && *top > 0 {
		misses := collector.TopMispredicted(*top)
		if len(misses) > 0 {
			_, _ = fmt.Fprintf(stdout, "\nMost mispredicted branches:\n")
		}
		for _, m := range misses {
			_, _ = fmt.Fprintf(stdout, "  0x%08x  %10d / %-10d\n", m.PC, m.Incorrect, m.Executed)
		}
	}

	return 0
}

// buildConfig layers the -hash flag and then the -bp spec over the JSON
// config file, or over the defaults when no file is given.
func buildConfig(configPath, spec, hash string) (*predictor.Config, error) {
	base := predictor.DefaultConfig()
	if configPath != "" {
		loaded, err := predictor.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		base = loaded
	}
	if hash != "" {
		base.PerceptronHash = predictor.HashStrategy(hash)
	}

	if spec == "" {
		if err := base.Validate(); err != nil {
			return nil, err
		}
		return base, nil
	}
	return predictor.ParseSpec(spec, base)
}
