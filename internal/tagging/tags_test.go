package tagging_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/cachesim/internal/tagging"
)

var _ = Describe("Tags", func() {
	var tags tagging.Tags

	BeforeEach(func() {
		tags = tagging.NewTags(4, 2)
	})

	It("reports the shape it was constructed with", func() {
		Expect(tags.NumSets()).To(Equal(4))
		Expect(tags.NumWays()).To(Equal(2))
	})

	It("maps a block address to set index and tag consistently", func() {
		set, setID := tags.GetSet(9)
		Expect(setID).To(Equal(1)) // 9 % 4
		Expect(tags.TagOf(9)).To(Equal(uint64(2)))
		Expect(set).To(Equal(tags.SetAt(1)))
	})

	It("starts every block invalid and clean", func() {
		for s := 0; s < tags.NumSets(); s++ {
			for _, block := range tags.SetAt(s).Blocks {
				Expect(block.IsValid).To(BeFalse())
				Expect(block.IsDirty).To(BeFalse())
			}
		}
	})

	It("puts way 0 at the LRU end on a cold reset, so it is the first cold-fill victim", func() {
		set := tags.SetAt(0)
		Expect(set.LRUQueue[len(set.LRUQueue)-1]).To(Equal(0))
	})

	It("writes a block back to its own (SetID, WayID) slot", func() {
		tags.Update(tagging.Block{Tag: 7, SetID: 2, WayID: 1, IsValid: true, IsDirty: true})
		block := tags.SetAt(2).Blocks[1]
		Expect(block.Tag).To(Equal(uint64(7)))
		Expect(block.IsValid).To(BeTrue())
		Expect(block.IsDirty).To(BeTrue())
	})

	It("moves a visited way to the front of the recency order without reordering the rest", func() {
		set := tags.SetAt(0)
		Expect(set.LRUQueue).To(Equal([]int{1, 0}))

		tags.Visit(0, 0)
		Expect(tags.SetAt(0).LRUQueue).To(Equal([]int{0, 1}))

		tags.Visit(0, 0)
		Expect(tags.SetAt(0).LRUQueue).To(Equal([]int{0, 1}))

		tags.Visit(0, 1)
		Expect(tags.SetAt(0).LRUQueue).To(Equal([]int{1, 0}))
	})

	It("restores cold-start invalidity and recency order on Reset", func() {
		tags.Update(tagging.Block{Tag: 5, SetID: 0, WayID: 0, IsValid: true})
		tags.Visit(0, 0)

		tags.Reset()

		Expect(tags.SetAt(0).Blocks[0].IsValid).To(BeFalse())
		Expect(tags.SetAt(0).LRUQueue[len(tags.SetAt(0).LRUQueue)-1]).To(Equal(0))
	})
})

var _ = Describe("LRUVictimFinder", func() {
	It("always names the way at the back of the recency order", func() {
		tags := tagging.NewTags(1, 3)
		finder := tagging.NewLRUVictimFinder()

		Expect(finder.FindVictim(tags, 0)).To(Equal(0))

		tags.Visit(0, 1)
		Expect(finder.FindVictim(tags, 0)).To(Equal(0))

		tags.Visit(0, 0)
		Expect(finder.FindVictim(tags, 0)).To(Equal(2))
	})
})
