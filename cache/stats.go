package cache

// Counters is the per-level tally of accesses, misses, and writebacks.
// It is a plain value: Level keeps a private, mutable instance and only ever
// hands out copies through Stats(), per the "mutable statistics behind an
// immutable receiver" note.
type Counters struct {
	Reads       uint64
	Writes      uint64
	ReadMisses  uint64
	WriteMisses uint64
	Writebacks  uint64
}

// Accesses returns Reads+Writes.
func (c Counters) Accesses() uint64 {
	return c.Reads + c.Writes
}

// Misses returns ReadMisses+WriteMisses.
func (c Counters) Misses() uint64 {
	return c.ReadMisses + c.WriteMisses
}

// MissRate is (ReadMisses+WriteMisses)/(Reads+Writes), 0 when there were no
// accesses.
func (c Counters) MissRate() float64 {
	total := c.Accesses()
	if total == 0 {
		return 0
	}
	return float64(c.Misses()) / float64(total)
}

// ReadMissRate is ReadMisses/Reads, 0 when there were no reads.
func (c Counters) ReadMissRate() float64 {
	if c.Reads == 0 {
		return 0
	}
	return float64(c.ReadMisses) / float64(c.Reads)
}

// WriteMissRate is WriteMisses/Writes, 0 when there were no writes.
func (c Counters) WriteMissRate() float64 {
	if c.Writes == 0 {
		return 0
	}
	return float64(c.WriteMisses) / float64(c.Writes)
}

// Traffic is ReadMisses + WriteMisses + Writebacks. For the last level in a
// hierarchy this is the hierarchy's total memory traffic (§4.3, §6). For a
// level with a next level it leaves out the dirty evictions sent there,
// since Writebacks counts only evictions sent to the sink.
func (c Counters) Traffic() uint64 {
	return c.ReadMisses + c.WriteMisses + c.Writebacks
}
