// Package graph holds the in-memory weighted graph every scorer reads from.
//
// A Graph is assembled once through a Builder and is read-only afterwards, so
// it can be shared between goroutines without locking. Node identifiers are
// strings and keep their first-seen order; edges keep their insertion order.
package graph

import (
	"fmt"
	"math"
)

// DefaultWeight is the weight of an edge read without an explicit weight.
const DefaultWeight = 1.0

// Edge is a weighted connection between two nodes.
// For undirected graphs From/To reflect the order in which the edge was first added.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// IsSelfLoop reports whether both endpoints are the same node.
func (e Edge) IsSelfLoop() bool {
	return e.From == e.To
}

// Other returns the endpoint opposite to id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

type edgeKey struct {
	u, v int
}

// Graph is an immutable weighted graph.
type Graph struct {
	directed bool

	nodes []string       // index -> node ID
	index map[string]int // node ID -> index

	// neighbors[i] lists adjacent node indexes in first-insertion order;
	// weights[i][j] is the weight of the edge i->j.
	neighbors [][]int
	weights   []map[int]float64
	degree    []float64

	edges     []Edge
	edgeIndex map[edgeKey]int
	size      float64
}

// Option configures a Builder.
type Option func(*Graph)

// WithDirected marks the graph as directed. Scorers in this module reject directed graphs.
func WithDirected() Option {
	return func(g *Graph) { g.directed = true }
}

func newGraph(opts ...Option) *Graph {
	g := &Graph{
		index:     make(map[string]int),
		edgeIndex: make(map[edgeKey]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Builder assembles a Graph. It is not safe for concurrent use.
type Builder struct {
	g     *Graph
	built bool
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{g: newGraph(opts...)}
}

// AddNode adds a node if it is not present yet.
func (b *Builder) AddNode(id string) error {
	if b.built {
		return ErrBuilt
	}
	if id == "" {
		return ErrEmptyNodeID
	}
	b.g.ensureNode(id)
	return nil
}

// AddEdge adds an edge, creating missing endpoints. Adding an existing edge
// again replaces its weight.
func (b *Builder) AddEdge(from, to string, weight float64) error {
	if b.built {
		return ErrBuilt
	}
	if from == "" || to == "" {
		return ErrEmptyNodeID
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, weight)
	}
	u := b.g.ensureNode(from)
	v := b.g.ensureNode(to)
	b.g.setEdge(u, v, weight)
	return nil
}

// Build freezes the graph. The builder cannot be used afterwards.
func (b *Builder) Build() *Graph {
	b.built = true
	return b.g
}

func (g *Graph) ensureNode(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.index[id] = i
	g.neighbors = append(g.neighbors, nil)
	g.weights = append(g.weights, make(map[int]float64))
	g.degree = append(g.degree, 0)
	return i
}

func (g *Graph) key(u, v int) edgeKey {
	if !g.directed && v < u {
		u, v = v, u
	}
	return edgeKey{u, v}
}

func (g *Graph) setEdge(u, v int, w float64) {
	k := g.key(u, v)
	if pos, ok := g.edgeIndex[k]; ok {
		old := g.edges[pos].Weight
		g.edges[pos].Weight = w
		g.size += w - old
		g.bumpDegree(u, v, w-old)
		g.weights[u][v] = w
		if !g.directed {
			g.weights[v][u] = w
		}
		return
	}

	g.edgeIndex[k] = len(g.edges)
	g.edges = append(g.edges, Edge{From: g.nodes[u], To: g.nodes[v], Weight: w})
	g.size += w
	g.bumpDegree(u, v, w)

	g.neighbors[u] = append(g.neighbors[u], v)
	g.weights[u][v] = w
	if !g.directed && u != v {
		g.neighbors[v] = append(g.neighbors[v], u)
		g.weights[v][u] = w
	}
}

// bumpDegree applies the usual convention: a self-loop counts twice.
func (g *Graph) bumpDegree(u, v int, w float64) {
	g.degree[u] += w
	g.degree[v] += w
}

// Directed reports whether the graph was built as directed.
func (g *Graph) Directed() bool {
	return g.directed
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns node IDs in first-seen order. The slice is a copy.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Neighbors returns the nodes adjacent to id (successors for directed
// graphs) in first-insertion order. A self-loop lists the node itself.
func (g *Graph) Neighbors(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, len(g.neighbors[i]))
	for j, n := range g.neighbors[i] {
		out[j] = g.nodes[n]
	}
	return out
}

// HasEdge reports whether an edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.Weight(from, to)
	return ok
}

// Weight returns the weight of edge from -> to.
func (g *Graph) Weight(from, to string) (float64, bool) {
	u, ok := g.index[from]
	if !ok {
		return 0, false
	}
	v, ok := g.index[to]
	if !ok {
		return 0, false
	}
	w, ok := g.weights[u][v]
	return w, ok
}

// Degree returns the weighted degree of id; self-loops count twice.
func (g *Graph) Degree(id string) float64 {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return g.degree[i]
}

// Size returns the total edge weight.
func (g *Graph) Size() float64 {
	return g.size
}

// Edges returns all edges in insertion order. The slice is a copy.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Induced returns the subgraph made of the nodes accepted by keep and every
// edge whose endpoints are both kept. Node and edge order are preserved and
// g is left untouched.
func (g *Graph) Induced(keep func(id string) bool) *Graph {
	out := newGraph()
	out.directed = g.directed

	for _, id := range g.nodes {
		if keep(id) {
			out.ensureNode(id)
		}
	}
	for _, e := range g.edges {
		u, okU := out.index[e.From]
		v, okV := out.index[e.To]
		if !okU || !okV {
			continue
		}
		out.setEdge(u, v, e.Weight)
	}
	return out
}
