// Package harness drives predictor engines over branch traces and reports
// how each configuration performed.
package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/stats"
	"github.com/sarchlab/bpsim/trace"
)

// Simulate predicts and then trains every branch of src, in order, and
// returns the collector that scored the run.
func Simulate(e *predictor.Engine, src trace.Source) (*stats.Collector, error) {
	collector := stats.NewCollector()
	e.AcceptHook(collector)

	for {
		b, err := src.Next()
		if err == io.EOF {
			return collector, nil
		}
		if err != nil {
			return collector, err
		}

		e.Predict(b.PC)
		e.Train(b.PC, b.Outcome)
	}
}

// Workload is a named in-memory trace.
type Workload struct {
	// Name identifies the workload
	Name string

	// Description explains the branch behavior it exercises
	Description string

	// Branches is the trace, in program order
	Branches []trace.Branch
}

// Result holds the outcome of one predictor on one workload.
type Result struct {
	Workload          string        `json:"workload"`
	Predictor         string        `json:"predictor"`
	Branches          uint64        `json:"branches"`
	Incorrect         uint64        `json:"incorrect"`
	MispredictionRate float64       `json:"misprediction_rate"`
	Accuracy          float64       `json:"accuracy"`
	WallTime          time.Duration `json:"wall_time_ns"`
}

// HarnessConfig configures the harness.
type HarnessConfig struct {
	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables per-run progress output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Output:  os.Stdout,
		Verbose: false,
	}
}

// Harness evaluates every configured predictor against every workload. Each
// run gets a freshly initialized engine.
type Harness struct {
	config     HarnessConfig
	predictors []predictor.Config
	workloads  []Workload
}

// NewHarness creates a new harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{config: config}
}

// AddPredictor validates and adds a predictor configuration.
func (h *Harness) AddPredictor(config predictor.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	h.predictors = append(h.predictors, config)
	return nil
}

// AddWorkload adds a workload to the harness.
func (h *Harness) AddWorkload(w Workload) {
	h.workloads = append(h.workloads, w)
}

// AddWorkloads adds multiple workloads to the harness.
func (h *Harness) AddWorkloads(workloads []Workload) {
	h.workloads = append(h.workloads, workloads...)
}

// RunAll runs every predictor on every workload, workload-major.
func (h *Harness) RunAll() ([]Result, error) {
	results := make([]Result, 0, len(h.workloads)*len(h.predictors))

	for _, w := range h.workloads {
		for _, config := range h.predictors {
			result, err := h.run(config, w)
			if err != nil {
				return results, err
			}
			results = append(results, result)
		}
	}

	return results, nil
}

func (h *Harness) run(config predictor.Config, w Workload) (Result, error) {
	engine, err := predictor.NewEngine(config)
	if err != nil {
		return Result{}, err
	}

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "running %s on %s (%d branches)\n",
			engine.Name(), w.Name, len(w.Branches))
	}

	start := time.Now()
	collector, err := Simulate(engine, trace.NewSliceSource(w.Branches))
	if err != nil {
		return Result{}, fmt.Errorf("%s on %s: %w", engine.Name(), w.Name, err)
	}
	wallTime := time.Since(start)

	s := collector.Stats()
	return Result{
		Workload:          w.Name,
		Predictor:         engine.Name(),
		Branches:          s.Branches,
		Incorrect:         s.Incorrect,
		MispredictionRate: s.MispredictionRate(),
		Accuracy:          s.Accuracy(),
		WallTime:          wallTime,
	}, nil
}

// PrintResults outputs results in a human-readable table.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Branch Predictor Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	workload := ""
	for _, r := range results {
		if r.Workload != workload {
			if workload != "" {
				_, _ = fmt.Fprintln(h.config.Output, "")
			}
			workload = r.Workload
			_, _ = fmt.Fprintf(h.config.Output, "Workload: %s (%d branches)\n", r.Workload, r.Branches)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  %-28s incorrect %10d  mispredict %7.3f%%\n",
			r.Predictor, r.Incorrect, r.MispredictionRate)
	}
	_, _ = fmt.Fprintln(h.config.Output, "")
}

// PrintCSV outputs results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"workload,predictor,branches,incorrect,misprediction_rate")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%d,%d,%.3f\n",
			r.Workload,
			r.Predictor,
			r.Branches,
			r.Incorrect,
			r.MispredictionRate,
		)
	}
}

// Report is the JSON document written by PrintJSON.
type Report struct {
	Timestamp  string             `json:"timestamp"`
	Predictors []predictor.Config `json:"predictors"`
	Results    []Result           `json:"results"`
}

// PrintJSON outputs results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []Result) error {
	report := Report{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Predictors: h.predictors,
		Results:    results,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
