// Package main provides the entry point for bpsim.
// bpsim is a conditional branch direction predictor simulator.
//
// For the full CLI, use: go run ./cmd/bpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("bpsim - Branch Predictor Simulator")
	fmt.Println("")
	fmt.Println("Usage: bpsim [options] [trace]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -bp       static | gshare:<g> | tournament:<g>:<l>:<p>[:xor] | custom[:<entries>[:<history>]]")
	fmt.Println("  -config   Path to predictor configuration JSON file")
	fmt.Println("  -hash     Perceptron hash strategy (modulo, history-fold, xxhash)")
	fmt.Println("  -v        Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/bpsim' for the full CLI and")
	fmt.Println("'go run ./cmd/sweep' to compare configurations.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/bpsim' instead.")
	}
}
