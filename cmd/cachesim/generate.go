package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// sampleTraceLines reproduces create_sample_trace's fixed demonstration
// trace: a handful of reads and writes with addresses of 8, 7, 4 and 1 hex
// digits (leading zeros omitted) plus the comment lines internal/traceio
// skips.
var sampleTraceLines = []string{
	"# Sample trace file demonstrating 32-bit address format",
	"# Leading zeros may be omitted",
	"r ffe04540", // full 8-digit address
	"r ffe04544", // full 8-digit address
	"w eff2340",  // 7 digits (leading zero omitted)
	"r ffe04548", // full 8-digit address
	"w ffff",     // 4 digits (4 leading zeros omitted)
	"r 1000",     // 4 digits (4 leading zeros omitted)
	"w 1",        // 1 digit (7 leading zeros omitted)
	"r 0",        // single zero
}

// generateCmd is the sample-trace generator promised by the
// original_source supplement (create_sample_trace). It is purely a
// convenience for exercising internal/traceio and cachesim itself; it has
// no effect on the core's counters or reconcilable properties.
var generateCmd = &cobra.Command{
	Use:   "generate trace_file",
	Short: "Write a sample trace file demonstrating the accepted address formats.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trace create failure: %w", err)
	}
	defer f.Close()

	for _, line := range sampleTraceLines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return fmt.Errorf("trace write failure: %w", err)
		}
	}

	fmt.Fprintf(os.Stdout, "Created sample trace file: %s\n", path)
	return nil
}
