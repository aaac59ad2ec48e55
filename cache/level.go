package cache

import (
	"sync"

	"github.com/archsim/cachesim/internal/tagging"
)

// A Level is one set-associative cache level: block size B, total size S,
// associativity A, derived sets = (S/B)/A. A disabled level (S == 0) is
// never constructed directly by Builder — it is elided at wiring time, per
// §4.1 — but Access still defends against being called on one, matching the
// spec's note that the branch is defensive rather than load-bearing.
type Level struct {
	name      string
	blockSize int
	numSets   int
	numWays   int
	enabled   bool

	tags         tagging.Tags
	victimFinder tagging.VictimFinder
	next         Accessor

	statsMu sync.Mutex
	stats   Counters
}

// Name returns the level's configured name (e.g. "L1"), used by the content
// dumper and reporting.
func (l *Level) Name() string { return l.name }

// BlockSize returns B in bytes.
func (l *Level) BlockSize() int { return l.blockSize }

// NumSets returns the number of sets.
func (l *Level) NumSets() int { return l.numSets }

// NumWays returns the associativity A.
func (l *Level) NumWays() int { return l.numWays }

// Enabled reports whether this level participates in the hierarchy.
func (l *Level) Enabled() bool { return l.enabled }

// Stats returns a snapshot of this level's counters. The level's actual
// Counters field is private and mutated only inside Access, keeping the
// mutability boundary at the level rather than threading counters back up
// through return values (§9). statsMu guards it against internal/monitor's
// HTTP handlers reading it from a goroutine other than the driver's.
func (l *Level) Stats() Counters {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	return l.stats
}

// SetNext wires this level's successor (another *Level or a *Sink). Called
// once by Hierarchy at construction time; nothing else reassigns it.
func (l *Level) SetNext(next Accessor) { l.next = next }

// Access performs one reference against this level: tag lookup, true-LRU
// update, and on miss the two-step evict-then-fill allocation (§4.1, §4.2).
// It returns true on a hit.
func (l *Level) Access(address uint64, isWrite bool) bool {
	if !l.enabled {
		return false
	}

	blockAddr := address / uint64(l.blockSize)
	set, setID := l.tags.GetSet(blockAddr)
	tag := l.tags.TagOf(blockAddr)

	l.statsMu.Lock()
	if isWrite {
		l.stats.Writes++
	} else {
		l.stats.Reads++
	}
	l.statsMu.Unlock()

	for _, wayID := range set.LRUQueue {
		block := set.Blocks[wayID]
		if block.IsValid && block.Tag == tag {
			l.tags.Visit(setID, wayID)
			if isWrite {
				block.IsDirty = true
				l.tags.Update(block)
			}
			return true
		}
	}

	l.statsMu.Lock()
	if isWrite {
		l.stats.WriteMisses++
	} else {
		l.stats.ReadMisses++
	}
	l.statsMu.Unlock()
	l.allocate(setID, tag, isWrite)

	return false
}

// allocate performs the two-step miss allocation of §4.2: evict the current
// LRU victim (writing it back if dirty), fill the requested block from the
// next level, then install it as MRU.
func (l *Level) allocate(setID int, tag uint64, isWrite bool) {
	wayID := l.victimFinder.FindVictim(l.tags, setID)
	victim := l.tags.SetAt(setID).Blocks[wayID]

	// Step 1: evict, conditional on the victim being valid.
	if victim.IsValid {
		if victim.IsDirty {
			victimBlockAddr := victim.Tag*uint64(l.numSets) + uint64(setID)
			victimAddress := victimBlockAddr * uint64(l.blockSize)

			if _, toSink := l.next.(*Sink); toSink {
				l.statsMu.Lock()
				l.stats.Writebacks++
				l.statsMu.Unlock()
			}
			l.next.Access(victimAddress, true)
		}
		victim = tagging.Block{SetID: setID, WayID: wayID}
		l.tags.Update(victim)
	}

	// Step 2: fill the requested block. The result at the next level does
	// not change behavior here; the block is considered to have arrived.
	requestedBlockAddr := tag*uint64(l.numSets) + uint64(setID)
	requestedAddress := requestedBlockAddr * uint64(l.blockSize)
	l.next.Access(requestedAddress, false)

	// Step 3: install and move to MRU.
	victim.IsValid = true
	victim.Tag = tag
	victim.IsDirty = isWrite
	l.tags.Update(victim)
	l.tags.Visit(setID, wayID)
}

// SetDump is one set's content for the deterministic dumper (§4.4): only
// sets with at least one valid line are ever produced by Level.DumpSets.
type SetDump struct {
	SetIndex int
	Lines    []LineDump
}

// LineDump is one valid line, in MRU→LRU order within its set.
type LineDump struct {
	Tag   uint64
	Dirty bool
}

// DumpSets enumerates every set that holds at least one valid line, in
// set-index order, each set's lines in MRU→LRU order. It does not mutate any
// cache state.
func (l *Level) DumpSets() []SetDump {
	var out []SetDump
	for setID := 0; setID < l.numSets; setID++ {
		set := l.tags.SetAt(setID)
		var lines []LineDump
		for _, wayID := range set.LRUQueue {
			block := set.Blocks[wayID]
			if block.IsValid {
				lines = append(lines, LineDump{Tag: block.Tag, Dirty: block.IsDirty})
			}
		}
		if len(lines) > 0 {
			out = append(out, SetDump{SetIndex: setID, Lines: lines})
		}
	}
	return out
}
