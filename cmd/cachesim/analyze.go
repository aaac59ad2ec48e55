package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archsim/cachesim/internal/analysis"
	"github.com/archsim/cachesim/internal/config"
	"github.com/archsim/cachesim/internal/driver"
	"github.com/archsim/cachesim/internal/traceio"
)

var (
	flagL1Hit  float64
	flagL2Hit  float64
	flagMemory float64
)

// analyzeCmd is the informational, non-reconcilable pass of §9 ("the
// analyzer pass producing area/AAT/locality output is informational and
// not part of the reconcilable contract"). It never runs as part of the
// default simulation and has no effect on the core's counters.
var analyzeCmd = &cobra.Command{
	Use:   "analyze BLOCKSIZE L1_SIZE L1_ASSOC L2_SIZE L2_ASSOC PREF_N PREF_M trace_file",
	Short: "Report average access time and reference locality for a configuration (informational only).",
	Args:  cobra.ExactArgs(argCount),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Float64Var(&flagL1Hit, "l1-hit-cycles", 1, "L1 hit time in cycles")
	analyzeCmd.Flags().Float64Var(&flagL2Hit, "l2-hit-cycles", 10, "L2 hit time in cycles")
	analyzeCmd.Flags().Float64Var(&flagMemory, "memory-cycles", 100, "memory access time in cycles")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Parse(args)
	if err != nil {
		return fmt.Errorf("argument error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	hierarchy, err := cfg.BuildHierarchy()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	traceFile, err := os.Open(cfg.TraceFile)
	if err != nil {
		return fmt.Errorf("trace open failure: %w", err)
	}
	defer traceFile.Close()

	scanner := traceio.NewScanner(traceFile, nil)
	var refs []driver.Reference
	d := driver.NewDriver(hierarchy.Top())
	d.AcceptHook(driver.HookFunc(func(event driver.AccessEvent) {
		refs = append(refs, event.Reference)
	}))
	d.Run(scanner)

	l1 := hierarchy.Top()
	l2, _ := hierarchy.L2()

	aat := analysis.AverageAccessTime(l1, l2, analysis.Timing{
		L1HitCycles:  flagL1Hit,
		L2HitCycles:  flagL2Hit,
		MemoryCycles: flagMemory,
	})
	locality := analysis.Locality(refs, cfg.L1.BlockSize)

	fmt.Printf("Average access time: %.3f cycles\n", aat)
	fmt.Printf("Unique blocks referenced: %d of %d references\n", locality.UniqueBlocks, locality.TotalReferences)
	fmt.Printf("Temporal locality: %.3f\n", locality.TemporalLocality)
	fmt.Printf("Spatial locality:  %.3f\n", locality.SpatialLocality)

	return nil
}
