// Package polarization classifies the nodes and edges at the interface of
// two communities and scores how antagonistic that interface is.
package polarization

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

var (
	// ErrNodeOutsidePair is returned when the subgraph holds a node whose
	// community is not one of the pair's.
	ErrNodeOutsidePair = errors.New("polarization: node is not in either community of the pair")

	// ErrInvariant is returned by Validate when a classification breaks
	// the interior isolation invariant.
	ErrInvariant = errors.New("polarization: classification invariant violated")
)

// Role is the part a node plays at the interface of a community pair.
type Role int

const (
	// Excluded nodes touch the other community but have no purely interior
	// ally. They contribute to no score.
	Excluded Role = iota
	// Interior nodes have no neighbor in the other community.
	Interior
	// Boundary nodes touch the other community and have an interior ally.
	Boundary
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case Excluded:
		return "excluded"
	case Interior:
		return "interior"
	case Boundary:
		return "boundary"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// AmbiguityPolicy decides the role of nodes that touch the other community
// but have no same-community neighbor free of outside links.
type AmbiguityPolicy int

const (
	// ExcludeAmbiguous drops ambiguous nodes from scoring.
	ExcludeAmbiguous AmbiguityPolicy = iota
	// BoundaryAmbiguous counts ambiguous nodes as boundary nodes.
	BoundaryAmbiguous
)

// String returns the policy name used in configuration files.
func (p AmbiguityPolicy) String() string {
	switch p {
	case ExcludeAmbiguous:
		return "exclude"
	case BoundaryAmbiguous:
		return "boundary"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseAmbiguityPolicy parses "exclude" (or "") and "boundary".
func ParseAmbiguityPolicy(s string) (AmbiguityPolicy, error) {
	switch s {
	case "", "exclude":
		return ExcludeAmbiguous, nil
	case "boundary":
		return BoundaryAmbiguous, nil
	default:
		return ExcludeAmbiguous, fmt.Errorf("polarization: unknown ambiguity policy %q", s)
	}
}

// Classification holds the node roles of one community pair. Index 0 of
// Boundary and Interior refers to Pair.A and index 1 to Pair.B. All node
// lists are in graph node order.
type Classification struct {
	Pair     partition.Pair
	Policy   AmbiguityPolicy
	Boundary [2][]string
	Interior [2][]string
	Excluded []string

	roles     map[string]Role
	community map[string]int
}

// Role returns the role of node and whether it was classified at all.
func (c *Classification) Role(node string) (Role, bool) {
	r, ok := c.roles[node]
	return r, ok
}

// BoundaryNodes returns Boundary(A) followed by Boundary(B).
func (c *Classification) BoundaryNodes() []string {
	out := make([]string, 0, len(c.Boundary[0])+len(c.Boundary[1]))
	out = append(out, c.Boundary[0]...)
	return append(out, c.Boundary[1]...)
}

// BoundaryCount returns |Boundary(A)| + |Boundary(B)|.
func (c *Classification) BoundaryCount() int {
	return len(c.Boundary[0]) + len(c.Boundary[1])
}

// InteriorCount returns |Interior(A)| + |Interior(B)|.
func (c *Classification) InteriorCount() int {
	return len(c.Interior[0]) + len(c.Interior[1])
}

// side returns 0 for Pair.A and 1 for Pair.B.
func (c *Classification) side(node string) int {
	if c.community[node] == c.Pair.A {
		return 0
	}
	return 1
}

// Validate checks that no edge of h joins an interior node to a node of
// the other community.
func (c *Classification) Validate(h *graph.Graph) error {
	for _, e := range h.Edges() {
		ru, okU := c.roles[e.From]
		rv, okV := c.roles[e.To]
		if !okU || !okV {
			return fmt.Errorf("%w: edge %s-%s has an unclassified endpoint", ErrInvariant, e.From, e.To)
		}
		if c.side(e.From) == c.side(e.To) {
			continue
		}
		if ru == Interior || rv == Interior {
			return fmt.Errorf("%w: interior node on cross edge %s-%s", ErrInvariant, e.From, e.To)
		}
	}
	return nil
}
