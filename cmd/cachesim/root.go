package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cachesim BLOCKSIZE L1_SIZE L1_ASSOC L2_SIZE L2_ASSOC PREF_N PREF_M trace_file",
	Short: "Simulate a two-level set-associative cache hierarchy against a memory trace.",
	Long: `cachesim replays a trace of read/write references against a two-level ` +
		`inclusive cache hierarchy (L1 -> L2 -> memory), reporting per-level ` +
		`access counts, miss rates, writebacks, and total memory traffic.`,
	Args: cobra.ExactArgs(argCount),
	RunE: runSimulation,
}

var (
	flagRecord  string
	flagMonitor int
	flagOpen    bool
)

func init() {
	rootCmd.Flags().StringVar(&flagRecord, "record", "", "record this run's final counters to the given SQLite database")
	rootCmd.Flags().IntVar(&flagMonitor, "monitor", 0, "serve a read-only stats monitor on this port (0 = disabled)")
	rootCmd.Flags().BoolVar(&flagOpen, "open", false, "open the monitor page in a browser (requires --monitor)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(generateCmd)
}

// Execute runs the root command, exiting 1 on any error (§6: "exit code 1
// on argument or configuration error, with a diagnostic on the error
// stream"), matching akita/cmd/root.go's Execute.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
