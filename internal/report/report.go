// Package report renders the stdout blocks described in §6: a configuration
// echo, per-level content dumps, and the labelled a.-q. results block.
package report

import (
	"fmt"
	"io"

	"github.com/archsim/cachesim/cache"
	"github.com/archsim/cachesim/internal/config"
)

// WriteConfigEcho writes the configuration echo block (§6 item 1).
func WriteConfigEcho(w io.Writer, cfg config.Config, hostLine string) {
	fmt.Fprintf(w, "===== Configuration =====\n")
	fmt.Fprintf(w, "BLOCKSIZE:  %d\n", cfg.L1.BlockSize)
	fmt.Fprintf(w, "L1_SIZE:    %d\n", cfg.L1.Size)
	fmt.Fprintf(w, "L1_ASSOC:   %d\n", cfg.L1.Associativity)
	fmt.Fprintf(w, "L2_SIZE:    %d\n", cfg.L2.Size)
	fmt.Fprintf(w, "L2_ASSOC:   %d\n", cfg.L2.Associativity)
	fmt.Fprintf(w, "PREF_N:     %d\n", cfg.PrefetchN)
	fmt.Fprintf(w, "PREF_M:     %d\n", cfg.PrefetchM)
	fmt.Fprintf(w, "trace_file: %s\n", cfg.TraceFile)
	if hostLine != "" {
		fmt.Fprintf(w, "host:       %s\n", hostLine)
	}
}

// WriteContents writes the §4.4 content dump for one level, prefixed with
// its "===== <name> contents =====" header.
func WriteContents(w io.Writer, level *cache.Level) {
	fmt.Fprintf(w, "===== %s contents =====\n", level.Name())

	sets := level.DumpSets()
	if len(sets) == 0 {
		fmt.Fprintf(w, "Empty\n")
		return
	}

	for _, set := range sets {
		fmt.Fprintf(w, "%8d  ", set.SetIndex)
		for i, line := range set.Lines {
			if i > 0 {
				fmt.Fprintf(w, " ")
			}
			fmt.Fprintf(w, "%08x", line.Tag)
			if line.Dirty {
				fmt.Fprintf(w, " D")
			}
		}
		fmt.Fprintf(w, "\n")
	}
}

// WriteResults writes the §6 item 4 labelled a.-q. results block. l2 is nil
// when L2 is disabled, in which case items h-p are zero and total memory
// traffic is computed from L1 alone.
func WriteResults(w io.Writer, l1, l2 *cache.Level) {
	fmt.Fprintf(w, "===== Simulation results (raw) =====\n")

	s1 := l1.Stats()
	fmt.Fprintf(w, "a. number of L1 reads:             %d\n", s1.Reads)
	fmt.Fprintf(w, "b. number of L1 read misses:       %d\n", s1.ReadMisses)
	fmt.Fprintf(w, "c. number of L1 writes:            %d\n", s1.Writes)
	fmt.Fprintf(w, "d. number of L1 write misses:      %d\n", s1.WriteMisses)
	fmt.Fprintf(w, "e. L1 miss rate:                   %.6f\n", s1.MissRate())
	fmt.Fprintf(w, "f. number of L1 writebacks:        %d\n", s1.Writebacks)
	fmt.Fprintf(w, "g. number of L1 prefetches:        0\n")

	var s2 cache.Counters
	if l2 != nil {
		s2 = l2.Stats()
	}
	fmt.Fprintf(w, "h. number of L2 demand reads:      %d\n", s2.Reads)
	fmt.Fprintf(w, "i. number of L2 demand read misses: %d\n", s2.ReadMisses)
	fmt.Fprintf(w, "j. number of L2 prefetch reads:    0\n")
	fmt.Fprintf(w, "k. number of L2 prefetch read misses: 0\n")
	fmt.Fprintf(w, "l. number of L2 writes:            %d\n", s2.Writes)
	fmt.Fprintf(w, "m. number of L2 write misses:      %d\n", s2.WriteMisses)
	// L2's printed miss rate is computed from demand reads only, excluding
	// the writeback-induced writes it receives from L1 (matching the
	// demand-read framing of h./i. above).
	var l2DemandMissRate float64
	if l2 != nil && s2.Reads > 0 {
		l2DemandMissRate = float64(s2.ReadMisses) / float64(s2.Reads)
	}
	fmt.Fprintf(w, "n. L2 miss rate:                   %.6f\n", l2DemandMissRate)
	fmt.Fprintf(w, "o. number of L2 writebacks:        %d\n", s2.Writebacks)
	fmt.Fprintf(w, "p. number of L2 prefetches:        0\n")

	var traffic uint64
	if l2 != nil {
		traffic = s2.Traffic()
	} else {
		traffic = s1.Traffic()
	}
	fmt.Fprintf(w, "q. total memory traffic:           %d\n", traffic)
}
