// Package config parses and validates the eight positional parameters the
// simulator is invoked with (§6).
package config

import (
	"fmt"
	"strconv"

	"github.com/archsim/cachesim/cache"
)

// LevelConfig is the parsed, not-yet-validated configuration for one cache
// level.
type LevelConfig struct {
	Name          string
	BlockSize     int
	Size          int
	Associativity int
}

// Builder returns a cache.Builder for this level, ready for Validate/Build.
func (c LevelConfig) Builder() cache.Builder {
	return cache.NewBuilder().
		WithName(c.Name).
		WithBlockSize(c.BlockSize).
		WithSize(c.Size).
		WithAssociativity(c.Associativity)
}

// Config is the fully parsed invocation: BLOCKSIZE L1_SIZE L1_ASSOC L2_SIZE
// L2_ASSOC PREF_N PREF_M trace_file.
type Config struct {
	L1        LevelConfig
	L2        LevelConfig
	PrefetchN int
	PrefetchM int
	TraceFile string
}

// ArgCount is the number of positional arguments the simulator expects.
const ArgCount = 8

// Parse parses the eight positional arguments into a Config. It does not
// validate cache-shape rules (block size power-of-two, etc.) or open the
// trace file — callers run cache.Builder.Validate on L1.Builder()/L2.Builder()
// and open TraceFile separately, so each error kind (§7) is reported with
// its own diagnostic.
func Parse(args []string) (Config, error) {
	if len(args) != ArgCount {
		return Config{}, fmt.Errorf("expected %d arguments, got %d: usage: BLOCKSIZE L1_SIZE L1_ASSOC L2_SIZE L2_ASSOC PREF_N PREF_M trace_file", ArgCount, len(args))
	}

	blockSize, err := parseNonNegativeInt("BLOCKSIZE", args[0])
	if err != nil {
		return Config{}, err
	}
	l1Size, err := parseNonNegativeInt("L1_SIZE", args[1])
	if err != nil {
		return Config{}, err
	}
	l1Assoc, err := parseNonNegativeInt("L1_ASSOC", args[2])
	if err != nil {
		return Config{}, err
	}
	l2Size, err := parseNonNegativeInt("L2_SIZE", args[3])
	if err != nil {
		return Config{}, err
	}
	l2Assoc, err := parseNonNegativeInt("L2_ASSOC", args[4])
	if err != nil {
		return Config{}, err
	}
	prefN, err := parseNonNegativeInt("PREF_N", args[5])
	if err != nil {
		return Config{}, err
	}
	prefM, err := parseNonNegativeInt("PREF_M", args[6])
	if err != nil {
		return Config{}, err
	}

	if prefN > 0 && prefM == 0 {
		return Config{}, fmt.Errorf("PREF_N > 0 requires PREF_M > 0, got PREF_N=%d PREF_M=%d", prefN, prefM)
	}

	return Config{
		L1: LevelConfig{Name: "L1", BlockSize: blockSize, Size: l1Size, Associativity: l1Assoc},
		L2: LevelConfig{Name: "L2", BlockSize: blockSize, Size: l2Size, Associativity: l2Assoc},
		PrefetchN: prefN,
		PrefetchM: prefM,
		TraceFile: args[7],
	}, nil
}

func parseNonNegativeInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", name, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must be non-negative, got %d", name, n)
	}
	return n, nil
}

// Validate runs cache-shape validation (§6) against both levels, returning
// the first violated rule, matching the "specific diagnostic naming the
// first violated rule" requirement of §7.
func (c Config) Validate() error {
	if err := c.L1.Builder().Validate(); err != nil {
		return err
	}
	if err := c.L2.Builder().Validate(); err != nil {
		return err
	}
	return nil
}

// BuildHierarchy validates and builds the cache.Hierarchy described by this
// configuration.
func (c Config) BuildHierarchy() (*cache.Hierarchy, error) {
	return cache.BuildHierarchy(c.L1.Builder(), c.L2.Builder())
}
