// Package partition maps graph nodes to communities and enumerates the
// community pairs that the scorers iterate over.
package partition

import (
	"fmt"
	"strconv"
)

// Strategy answers which community a node belongs to.
type Strategy interface {
	CommunityOf(node string) (int, bool)
	CommunityCount() int
}

// Partition is a total, read-only mapping from node ID to community ID.
type Partition struct {
	nodes     []string
	community map[string]int
	ids       []int // distinct community IDs in first-seen node order
}

// New builds a partition over nodes. Every node must have an entry in
// communities; extra entries are ignored.
func New(nodes []string, communities map[string]int) (*Partition, error) {
	p := &Partition{
		nodes:     make([]string, 0, len(nodes)),
		community: make(map[string]int, len(nodes)),
	}
	seen := make(map[int]bool)

	for _, node := range nodes {
		c, ok := communities[node]
		if !ok {
			return nil, formatErrorf("node %q has no community", node)
		}
		if _, dup := p.community[node]; dup {
			return nil, formatErrorf("node %q listed twice", node)
		}
		p.nodes = append(p.nodes, node)
		p.community[node] = c
		if !seen[c] {
			seen[c] = true
			p.ids = append(p.ids, c)
		}
	}
	return p, nil
}

// CommunityOf returns the community of node.
func (p *Partition) CommunityOf(node string) (int, bool) {
	c, ok := p.community[node]
	return c, ok
}

// CommunityCount returns the number of distinct communities.
func (p *Partition) CommunityCount() int {
	return len(p.ids)
}

// Communities returns distinct community IDs in first-seen order.
func (p *Partition) Communities() []int {
	out := make([]int, len(p.ids))
	copy(out, p.ids)
	return out
}

// Len returns the number of assigned nodes.
func (p *Partition) Len() int {
	return len(p.nodes)
}

// Nodes returns the assigned nodes in partition order.
func (p *Partition) Nodes() []string {
	out := make([]string, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// Members returns the nodes of community c in partition order.
func (p *Partition) Members(c int) []string {
	var out []string
	for _, node := range p.nodes {
		if p.community[node] == c {
			out = append(out, node)
		}
	}
	return out
}

// Map returns a copy of the node -> community mapping.
func (p *Partition) Map() map[string]int {
	out := make(map[string]int, len(p.community))
	for k, v := range p.community {
		out[k] = v
	}
	return out
}

// Restrict returns the partition limited to the nodes accepted by keep.
func (p *Partition) Restrict(keep func(node string) bool) *Partition {
	out := &Partition{community: make(map[string]int)}
	seen := make(map[int]bool)
	for _, node := range p.nodes {
		if !keep(node) {
			continue
		}
		c := p.community[node]
		out.nodes = append(out.nodes, node)
		out.community[node] = c
		if !seen[c] {
			seen[c] = true
			out.ids = append(out.ids, c)
		}
	}
	return out
}

// List returns the partition as a CommunityList. It requires node IDs to be
// exactly "0".."n-1".
func (p *Partition) List() (CommunityList, error) {
	list := make(CommunityList, len(p.nodes))
	filled := make([]bool, len(p.nodes))

	for _, node := range p.nodes {
		i, err := strconv.Atoi(node)
		if err != nil || i < 0 || i >= len(p.nodes) || strconv.Itoa(i) != node {
			return nil, formatErrorf("node %q is not an index in [0, %d)", node, len(p.nodes))
		}
		if filled[i] {
			return nil, formatErrorf("node index %d assigned twice", i)
		}
		filled[i] = true
		list[i] = p.community[node]
	}
	return list, nil
}

// String renders the partition for debugging.
func (p *Partition) String() string {
	return fmt.Sprintf("Partition{nodes=%d, communities=%d}", len(p.nodes), len(p.ids))
}
