package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/cachesim/cache"
)

func builder(name string, blockSize, size, associativity int) cache.Builder {
	return cache.NewBuilder().
		WithName(name).
		WithBlockSize(blockSize).
		WithSize(size).
		WithAssociativity(associativity)
}

var _ = Describe("Hierarchy", func() {
	It("elides a disabled L2 and wires L1 directly to the sink", func() {
		h, err := cache.BuildHierarchy(
			builder("L1", 16, 64, 1),
			builder("L2", 16, 0, 1),
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Levels()).To(HaveLen(1))
		_, hasL2 := h.L2()
		Expect(hasL2).To(BeFalse())

		h.Top().Access(0x00, false)
		Expect(h.Sink().Reads()).To(Equal(uint64(1)))
	})

	It("rejects an invalid L1 configuration before building anything", func() {
		h, err := cache.BuildHierarchy(
			builder("L1", 16, 48, 1), // 3 blocks, not a power-of-two set count
			builder("L2", 16, 0, 1),
		)
		Expect(err).To(HaveOccurred())
		Expect(h).To(BeNil())
	})

	// S4: two-level cascade, L1 one set/two ways, three cold reads to
	// distinct blocks. The third access evicts a clean L1 line with no
	// writeback, and every fill misses in L2.
	It("cascades cold read misses through both levels (S4)", func() {
		h, err := cache.BuildHierarchy(
			builder("L1", 16, 32, 2),
			builder("L2", 16, 64, 2),
		)
		Expect(err).NotTo(HaveOccurred())

		for _, addr := range []uint64{0x00, 0x40, 0x80} {
			h.Top().Access(addr, false)
		}

		l1 := h.Top().Stats()
		Expect(l1.Reads).To(Equal(uint64(3)))
		Expect(l1.ReadMisses).To(Equal(uint64(3)))
		Expect(l1.Writebacks).To(Equal(uint64(0)))

		l2, ok := h.L2()
		Expect(ok).To(BeTrue())
		l2stats := l2.Stats()
		Expect(l2stats.Reads).To(Equal(uint64(3)))
		Expect(l2stats.ReadMisses).To(Equal(uint64(3)))
		Expect(l2stats.Writebacks).To(Equal(uint64(0)))

		Expect(h.Sink().Reads()).To(Equal(uint64(3)))
		Expect(l2stats.Traffic()).To(Equal(uint64(3)))
	})

	// S5: an L1 dirty eviction becomes an L2 write. On this trace the
	// evicted block is still resident in L2 from its own earlier fill, so
	// the L2 write hits rather than misses — see DESIGN.md's "Open-question
	// decisions" note on why this departs from the scenario's prose.
	It("sends an L1 dirty eviction to L2 as a write (S5)", func() {
		h, err := cache.BuildHierarchy(
			builder("L1", 16, 32, 2),
			builder("L2", 16, 64, 2),
		)
		Expect(err).NotTo(HaveOccurred())

		for _, addr := range []uint64{0x00, 0x10, 0x20} {
			h.Top().Access(addr, true)
		}

		l1 := h.Top().Stats()
		Expect(l1.Writes).To(Equal(uint64(3)))
		Expect(l1.WriteMisses).To(Equal(uint64(3)))
		Expect(l1.Writebacks).To(Equal(uint64(0)))

		l2, ok := h.L2()
		Expect(ok).To(BeTrue())
		l2stats := l2.Stats()
		Expect(l2stats.Reads).To(Equal(uint64(3)))
		Expect(l2stats.ReadMisses).To(Equal(uint64(3)))
		Expect(l2stats.Writes).To(Equal(uint64(1)))
		Expect(l2stats.WriteMisses).To(Equal(uint64(0)))
		Expect(l2stats.Writebacks).To(Equal(uint64(0)))
	})

	It("keeps the sink's total in sync with the last level's traffic (property 6)", func() {
		h, err := cache.BuildHierarchy(
			builder("L1", 16, 32, 2),
			builder("L2", 16, 64, 2),
		)
		Expect(err).NotTo(HaveOccurred())

		addrs := []uint64{0x00, 0x10, 0x20, 0x00, 0x30, 0x40, 0x10}
		for i, addr := range addrs {
			h.Top().Access(addr, i%2 == 0)
		}

		l2, _ := h.L2()
		Expect(h.Sink().Total()).To(Equal(l2.Stats().Traffic()))
	})
})
