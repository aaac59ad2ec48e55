// Package analysis implements the informational, non-reconcilable analyzer
// pass (§9 open question: "the analyzer pass producing area/AAT/locality
// output is informational and not part of the reconcilable contract").
// It is never invoked by the default simulation run; only the separate
// "analyze" subcommand wires it in, so it cannot perturb the core's
// counters. Grounded on original_source/generate_analytical_report.py's
// AAT-vs-cache-size analysis and analyze_results.py's locality framing.
package analysis

import (
	"github.com/archsim/cachesim/cache"
	"github.com/archsim/cachesim/internal/driver"
)

// Timing is the cycle-cost model AverageAccessTime is evaluated against.
// The core simulator has no notion of latency (§1 non-goal); these numbers
// exist only for this informational pass.
type Timing struct {
	L1HitCycles  float64
	L2HitCycles  float64
	MemoryCycles float64
}

// AverageAccessTime computes the standard nested AAT formula:
// AAT = L1HitTime + L1MissRate*L2MissPenalty, where L2MissPenalty is either
// L2HitTime + L2MissRate*MemoryTime (L2 present) or MemoryTime (no L2).
func AverageAccessTime(l1, l2 *cache.Level, timing Timing) float64 {
	l1Stats := l1.Stats()

	if l2 == nil {
		return timing.L1HitCycles + l1Stats.MissRate()*timing.MemoryCycles
	}

	l2Stats := l2.Stats()
	l2MissPenalty := timing.L2HitCycles + l2Stats.MissRate()*timing.MemoryCycles
	return timing.L1HitCycles + l1Stats.MissRate()*l2MissPenalty
}

// LocalityReport summarizes reference locality over a trace, independent of
// any particular cache configuration.
type LocalityReport struct {
	TotalReferences  int
	UniqueBlocks     int
	TemporalLocality float64 // fraction of references that repeat a block seen in the prior window
	SpatialLocality  float64 // fraction of consecutive reference pairs whose block indices differ by at most SpatialWindow
}

// SpatialWindow is the number of blocks considered "nearby" for the spatial
// locality score, matching the "conflict patterns" framing in
// analyze_results.py's pollution commentary.
const SpatialWindow = 4

// TemporalWindow is how many of the most recent references (duplicates
// included) are searched for a repeat of the current block.
const TemporalWindow = 16

// Locality scans refs once, computing unique-block count and two locality
// scores. It does not drive any cache; the analyze subcommand buffers every
// reference of the trace into refs, since this pass is diagnostic rather
// than part of the reconcilable run.
func Locality(refs []driver.Reference, blockSize int) LocalityReport {
	report := LocalityReport{TotalReferences: len(refs)}
	if len(refs) == 0 || blockSize <= 0 {
		return report
	}

	seen := make(map[uint64]bool)
	recent := make([]uint64, 0, TemporalWindow)
	temporalHits := 0
	spatialHits := 0
	var prevBlock uint64
	havePrev := false

	for _, ref := range refs {
		block := ref.Address / uint64(blockSize)

		if !seen[block] {
			seen[block] = true
		}

		for _, r := range recent {
			if r == block {
				temporalHits++
				break
			}
		}
		recent = append(recent, block)
		if len(recent) > TemporalWindow {
			recent = recent[1:]
		}

		if havePrev {
			var distance uint64
			if block >= prevBlock {
				distance = block - prevBlock
			} else {
				distance = prevBlock - block
			}
			if distance <= uint64(SpatialWindow) {
				spatialHits++
			}
		}
		prevBlock = block
		havePrev = true
	}

	report.UniqueBlocks = len(seen)
	report.TemporalLocality = float64(temporalHits) / float64(len(refs))
	if len(refs) > 1 {
		report.SpatialLocality = float64(spatialHits) / float64(len(refs)-1)
	}
	return report
}
