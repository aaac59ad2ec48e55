package tagging

// A VictimFinder decides which way of a set should be evicted next.
type VictimFinder interface {
	FindVictim(tags Tags, setID int) int
}

// LRUVictimFinder always evicts the way currently at the LRU end of the
// set's recency order, regardless of validity — §4.2 says eviction work is
// simply skipped when that way happens to be invalid.
type LRUVictimFinder struct{}

// NewLRUVictimFinder returns the true-LRU victim finder.
func NewLRUVictimFinder() LRUVictimFinder {
	return LRUVictimFinder{}
}

// FindVictim returns the way index at the back of setID's recency order.
func (LRUVictimFinder) FindVictim(tags Tags, setID int) int {
	set := tags.SetAt(setID)
	return set.LRUQueue[len(set.LRUQueue)-1]
}
