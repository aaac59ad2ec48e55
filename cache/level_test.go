package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/cachesim/cache"
)

func buildLevel(name string, blockSize, size, associativity int) *cache.Level {
	level, err := cache.NewBuilder().
		WithName(name).
		WithBlockSize(blockSize).
		WithSize(size).
		WithAssociativity(associativity).
		Build()
	Expect(err).NotTo(HaveOccurred())
	return level
}

var _ = Describe("Level", func() {
	// S1: four cold reads to four distinct sets, all miss.
	It("misses every reference to a never-seen set (S1)", func() {
		level := buildLevel("L1", 16, 64, 1)
		level.SetNext(cache.NewSink())

		for _, addr := range []uint64{0x00, 0x10, 0x20, 0x30} {
			Expect(level.Access(addr, false)).To(BeFalse())
		}

		stats := level.Stats()
		Expect(stats.Reads).To(Equal(uint64(4)))
		Expect(stats.ReadMisses).To(Equal(uint64(4)))
		Expect(stats.MissRate()).To(Equal(1.0))
		Expect(stats.Writebacks).To(Equal(uint64(0)))
		Expect(stats.Traffic()).To(Equal(uint64(4)))
	})

	// S2: references within the same 16-byte block only miss once.
	It("hits on later references within an already-resident block (S2)", func() {
		level := buildLevel("L1", 16, 64, 1)
		level.SetNext(cache.NewSink())

		results := []bool{
			level.Access(0x00, false),
			level.Access(0x04, false),
			level.Access(0x08, false),
			level.Access(0x00, false),
		}
		Expect(results).To(Equal([]bool{false, true, true, true}))

		stats := level.Stats()
		Expect(stats.Reads).To(Equal(uint64(4)))
		Expect(stats.ReadMisses).To(Equal(uint64(1)))
		Expect(stats.MissRate()).To(Equal(0.25))
	})

	// S3: one set, two ways, third access evicts a dirty line with no
	// successor level, so the level's own Writebacks counter increments.
	It("evicts a dirty line to the sink and counts it as a writeback (S3)", func() {
		level := buildLevel("L1", 16, 32, 2)
		level.SetNext(cache.NewSink())

		Expect(level.Access(0x00, true)).To(BeFalse())
		Expect(level.Access(0x10, true)).To(BeFalse())
		Expect(level.Access(0x20, false)).To(BeFalse())

		stats := level.Stats()
		Expect(stats.Reads).To(Equal(uint64(1)))
		Expect(stats.Writes).To(Equal(uint64(2)))
		Expect(stats.ReadMisses).To(Equal(uint64(1)))
		Expect(stats.WriteMisses).To(Equal(uint64(2)))
		Expect(stats.Writebacks).To(Equal(uint64(1)))
		Expect(stats.Traffic()).To(Equal(uint64(4)))
	})

	It("evicts a clean line with no writeback", func() {
		level := buildLevel("L1", 16, 32, 2)
		level.SetNext(cache.NewSink())

		level.Access(0x00, false)
		level.Access(0x10, false)
		level.Access(0x20, false)

		Expect(level.Stats().Writebacks).To(Equal(uint64(0)))
	})

	It("refuses to build a disabled level directly", func() {
		level, err := cache.NewBuilder().WithName("L2").WithSize(0).Build()
		Expect(err).To(HaveOccurred())
		Expect(level).To(BeNil())
	})

	It("dumps only sets holding at least one valid line, MRU to LRU", func() {
		level := buildLevel("L1", 16, 32, 2)
		level.SetNext(cache.NewSink())

		level.Access(0x00, true)  // way0: tag0, dirty
		level.Access(0x10, false) // way1: tag1, clean; way1 becomes MRU

		dump := level.DumpSets()
		Expect(dump).To(HaveLen(1))
		Expect(dump[0].SetIndex).To(Equal(0))
		Expect(dump[0].Lines).To(Equal([]cache.LineDump{
			{Tag: 1, Dirty: false},
			{Tag: 0, Dirty: true},
		}))
	})
})
