package partition

import "fmt"

// Pair is an unordered pair of distinct community IDs. A is the community
// that appeared first in the community list.
type Pair struct {
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
}

// String renders the pair as "(a, b)".
func (p Pair) String() string {
	return fmt.Sprintf("(%d, %d)", p.A, p.B)
}

// Contains reports whether c is one of the pair's communities.
func (p Pair) Contains(c int) bool {
	return c == p.A || c == p.B
}

// Pairs returns every 2-combination of the list's distinct community IDs.
// Distinct IDs are taken in first-seen order and combined in lexicographic
// index order, so k communities yield k*(k-1)/2 pairs.
func Pairs(list CommunityList) []Pair {
	ids := list.Distinct()
	out := make([]Pair, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			out = append(out, Pair{A: ids[i], B: ids[j]})
		}
	}
	return out
}
