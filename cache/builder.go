package cache

import (
	"fmt"

	"github.com/archsim/cachesim/internal/tagging"
)

// Builder builds a Level, following the teacher's fluent With... pattern
// (mem/cache/builder.go) rather than a struct literal, so that callers read
// top to bottom like a configuration statement.
type Builder struct {
	name          string
	blockSize     int
	size          int
	associativity int
}

// NewBuilder returns a Builder with no configuration set; every field must
// be supplied via the With... methods before Build.
func NewBuilder() Builder {
	return Builder{}
}

// WithName sets the level's name (used only for reporting/dumping).
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithBlockSize sets B in bytes.
func (b Builder) WithBlockSize(blockSize int) Builder {
	b.blockSize = blockSize
	return b
}

// WithSize sets the total level size S in bytes. A size of 0 means this
// level is disabled.
func (b Builder) WithSize(size int) Builder {
	b.size = size
	return b
}

// WithAssociativity sets A, the number of ways per set.
func (b Builder) WithAssociativity(associativity int) Builder {
	b.associativity = associativity
	return b
}

// Enabled reports whether this builder's configuration describes an enabled
// level (S > 0), without validating anything else.
func (b Builder) Enabled() bool {
	return b.size > 0
}

// Validate checks the per-level configuration rules of §6, returning the
// first violated rule as an error, matching original_source's
// get_config_error/is_valid_configuration (it names exactly one rule at a
// time rather than accumulating every violation).
func (b Builder) Validate() error {
	if !b.Enabled() {
		return nil
	}
	if b.blockSize <= 0 {
		return fmt.Errorf("%s: block size must be positive", b.name)
	}
	if !isPowerOfTwo(b.blockSize) {
		return fmt.Errorf("%s: block size must be a power of two", b.name)
	}
	if b.size%b.blockSize != 0 {
		return fmt.Errorf("%s: size must be divisible by block size", b.name)
	}
	if b.associativity <= 0 {
		return fmt.Errorf("%s: associativity must be positive", b.name)
	}
	blocks := b.size / b.blockSize
	if b.associativity > blocks {
		return fmt.Errorf("%s: associativity cannot exceed total blocks", b.name)
	}
	if blocks%b.associativity != 0 {
		return fmt.Errorf("%s: number of blocks must be divisible by associativity", b.name)
	}
	sets := blocks / b.associativity
	if !isPowerOfTwo(sets) {
		return fmt.Errorf("%s: number of sets must be a power of two", b.name)
	}
	return nil
}

// Build validates the configuration and constructs a Level. It must not be
// called on a disabled builder (Enabled() == false); Hierarchy elides
// disabled levels instead of building them.
func (b Builder) Build() (*Level, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if !b.Enabled() {
		return nil, fmt.Errorf("%s: cannot build a disabled level", b.name)
	}

	blocks := b.size / b.blockSize
	numSets := blocks / b.associativity

	return &Level{
		name:         b.name,
		blockSize:    b.blockSize,
		numSets:      numSets,
		numWays:      b.associativity,
		enabled:      true,
		tags:         tagging.NewTags(numSets, b.associativity),
		victimFinder: tagging.NewLRUVictimFinder(),
	}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Hierarchy is an ordered list of enabled levels, each wired to its
// successor, ending at a shared terminal Sink. It owns every level; no level
// mutates another level's "next" pointer after construction (§9).
type Hierarchy struct {
	levels []*Level
	sink   *Sink
}

// BuildHierarchy validates l1 and l2 and wires l1 -> [l2 ->] sink. l2 may be
// a disabled builder (size 0), in which case it is elided entirely and l1's
// next is the sink directly, matching §3's "a disabled level short-circuits
// to its successor."
func BuildHierarchy(l1, l2 Builder) (*Hierarchy, error) {
	if err := l1.Validate(); err != nil {
		return nil, err
	}
	if err := l2.Validate(); err != nil {
		return nil, err
	}

	l1Level, err := l1.Build()
	if err != nil {
		return nil, err
	}

	h := &Hierarchy{sink: NewSink()}

	if l2.Enabled() {
		l2Level, err := l2.Build()
		if err != nil {
			return nil, err
		}
		l1Level.SetNext(l2Level)
		l2Level.SetNext(h.sink)
		h.levels = []*Level{l1Level, l2Level}
	} else {
		l1Level.SetNext(h.sink)
		h.levels = []*Level{l1Level}
	}

	return h, nil
}

// Top returns the top-level cache (L1), the only level the trace driver ever
// calls Access on directly.
func (h *Hierarchy) Top() *Level { return h.levels[0] }

// Levels returns every enabled level, top to bottom.
func (h *Hierarchy) Levels() []*Level { return h.levels }

// L2 returns the second level and true, or (nil, false) if L2 is disabled.
func (h *Hierarchy) L2() (*Level, bool) {
	if len(h.levels) < 2 {
		return nil, false
	}
	return h.levels[1], true
}

// Sink returns the terminal memory sink shared by every level with no
// successor.
func (h *Hierarchy) Sink() *Sink { return h.sink }
