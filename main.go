// Package main provides the entry point for EBSim.
// EBSim is a conformance fuzzer for a single-slot valid/ready elastic
// buffer stage, built on the Akita simulation framework.
//
// For the full CLI, use: go run ./cmd/ebsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("EBSim - Elastic Buffer Stage Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: ebsim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to stimulus configuration JSON file")
	fmt.Println("  -ticks     Override the number of randomized ticks")
	fmt.Println("  -seed      Override the stimulus seed")
	fmt.Println("  -width     Override the data width in bits")
	fmt.Println("  -trace     Write a CSV tick trace to this file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ebsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ebsim' instead.")
	}
}
