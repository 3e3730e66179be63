package partition

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// CommunityList holds one community ID per node, where index i is the
// community of node "i".
type CommunityList []int

// Distinct returns the distinct community IDs in first-seen order.
func (l CommunityList) Distinct() []int {
	seen := make(map[int]bool, len(l))
	out := make([]int, 0)
	for _, c := range l {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Detector runs community detection over a graph and returns a node ->
// community mapping covering every node of g.
type Detector interface {
	Detect(ctx context.Context, g *graph.Graph) (map[string]int, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, g *graph.Graph) (map[string]int, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, g *graph.Graph) (map[string]int, error) {
	return f(ctx, g)
}

// Assignment is the output of partition assignment: the partition and the
// node-index aligned community list.
type Assignment struct {
	Partition   *Partition
	Communities CommunityList
}

// FromCommunityList zips node "i" to list[i]. The list must have one entry per
// node of g and every "i" must be a node of g.
func FromCommunityList(g *graph.Graph, list CommunityList) (*Assignment, error) {
	if len(list) != g.NodeCount() {
		return nil, formatErrorf("community list has %d entries, graph has %d nodes", len(list), g.NodeCount())
	}

	nodes := make([]string, len(list))
	mapping := make(map[string]int, len(list))
	for i, c := range list {
		id := strconv.Itoa(i)
		if !g.HasNode(id) {
			return nil, formatErrorf("graph has no node %q; node IDs must be 0..%d", id, len(list)-1)
		}
		nodes[i] = id
		mapping[id] = c
	}

	p, err := New(nodes, mapping)
	if err != nil {
		return nil, err
	}

	out := make(CommunityList, len(list))
	copy(out, list)
	return &Assignment{Partition: p, Communities: out}, nil
}

// FromDetection runs d over g and aligns the result by node index. The graph's
// node IDs must be exactly "0".."n-1".
func FromDetection(ctx context.Context, g *graph.Graph, d Detector) (*Assignment, error) {
	if d == nil {
		return nil, ErrNilDetector
	}

	mapping, err := d.Detect(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("community detection: %w", err)
	}

	p, err := New(g.Nodes(), mapping)
	if err != nil {
		return nil, err
	}

	list, err := p.List()
	if err != nil {
		return nil, err
	}

	return &Assignment{Partition: p, Communities: list}, nil
}
