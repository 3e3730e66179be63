package algorithms

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// minModularityGain stops a level (and the whole run) when a pass improves
// modularity by less than this amount.
const minModularityGain = 1e-7

// LouvainOptions configures Louvain community detection
type LouvainOptions struct {
	Seed       int64   // Seed for node visiting order
	Resolution float64 // Resolution parameter; 1.0 is standard modularity
	MaxLevels  int     // Maximum aggregation levels, 0 = unlimited
}

// DefaultLouvainOptions returns sensible defaults
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		Seed:       42,
		Resolution: 1.0,
	}
}

// neighbor is a weighted adjacency entry of the aggregated graph
type neighbor struct {
	to     int
	weight float64
}

// louvainGraph is the index-based graph a Louvain level works on.
// Each undirected edge appears in both adjacency lists; a self-loop once.
type louvainGraph struct {
	adj    [][]neighbor
	loops  []float64
	degree []float64 // self-loops count twice
	total  float64
}

func newLouvainGraph(g *graph.Graph, index map[string]int) *louvainGraph {
	n := g.NodeCount()
	lg := &louvainGraph{
		adj:    make([][]neighbor, n),
		loops:  make([]float64, n),
		degree: make([]float64, n),
	}
	for _, e := range g.Edges() {
		lg.addEdge(index[e.From], index[e.To], e.Weight)
	}
	return lg
}

func (lg *louvainGraph) addEdge(u, v int, w float64) {
	lg.total += w
	lg.degree[u] += w
	lg.degree[v] += w
	if u == v {
		lg.loops[u] += w
		lg.adj[u] = append(lg.adj[u], neighbor{to: u, weight: w})
		return
	}
	lg.adj[u] = append(lg.adj[u], neighbor{to: v, weight: w})
	lg.adj[v] = append(lg.adj[v], neighbor{to: u, weight: w})
}

// louvainLevel is the state of one optimisation level
type louvainLevel struct {
	g          *louvainGraph
	community  []int
	tot        []float64 // total degree per community
	in         []float64 // internal weight per community
	resolution float64
}

func newLouvainLevel(g *louvainGraph, resolution float64) *louvainLevel {
	n := len(g.adj)
	l := &louvainLevel{
		g:          g,
		community:  make([]int, n),
		tot:        make([]float64, n),
		in:         make([]float64, n),
		resolution: resolution,
	}
	// Initialize: each node in its own community
	for i := 0; i < n; i++ {
		l.community[i] = i
		l.tot[i] = g.degree[i]
		l.in[i] = g.loops[i]
	}
	return l
}

func (l *louvainLevel) modularity() float64 {
	links := l.g.total
	q := 0.0
	for c := range l.tot {
		if l.tot[c] == 0 && l.in[c] == 0 {
			continue
		}
		d := l.tot[c] / (2 * links)
		q += l.in[c]/links - l.resolution*d*d
	}
	return q
}

// neighborCommunities sums edge weights from node to each adjacent
// community, in first-seen order. Self-loops are excluded.
func (l *louvainLevel) neighborCommunities(node int) ([]int, map[int]float64) {
	order := make([]int, 0, len(l.g.adj[node]))
	weights := make(map[int]float64, len(l.g.adj[node]))
	for _, nb := range l.g.adj[node] {
		if nb.to == node {
			continue
		}
		c := l.community[nb.to]
		if _, ok := weights[c]; !ok {
			order = append(order, c)
		}
		weights[c] += nb.weight
	}
	return order, weights
}

func (l *louvainLevel) remove(node, c int, weight float64) {
	l.tot[c] -= l.g.degree[node]
	l.in[c] -= weight + l.g.loops[node]
	l.community[node] = -1
}

func (l *louvainLevel) insert(node, c int, weight float64) {
	l.tot[c] += l.g.degree[node]
	l.in[c] += weight + l.g.loops[node]
	l.community[node] = c
}

// run moves nodes between communities until a pass no longer improves
// modularity. It reports whether any node changed community.
func (l *louvainLevel) run(ctx context.Context, rng *rand.Rand) (bool, error) {
	n := len(l.g.adj)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	moved := false
	current := l.modularity()
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		modified := false

		for _, node := range order {
			home := l.community[node]
			degTot := l.g.degree[node] / (2 * l.g.total)
			comms, weights := l.neighborCommunities(node)

			removeCost := -weights[home] + l.resolution*(l.tot[home]-l.g.degree[node])*degTot
			l.remove(node, home, weights[home])

			best, bestGain := home, 0.0
			for _, c := range comms {
				gain := removeCost + weights[c] - l.resolution*l.tot[c]*degTot
				if gain > bestGain {
					best, bestGain = c, gain
				}
			}
			l.insert(node, best, weights[best])

			if best != home {
				modified = true
				moved = true
			}
		}

		next := l.modularity()
		if !modified || next-current < minModularityGain {
			break
		}
		current = next
	}
	return moved, nil
}

// renumber maps communities to 0..k-1 in order of first appearance
func (l *louvainLevel) renumber() ([]int, int) {
	ids := make(map[int]int)
	out := make([]int, len(l.community))
	for i, c := range l.community {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		out[i] = id
	}
	return out, len(ids)
}

// aggregate builds the next-level graph where each community is a node
func (l *louvainLevel) aggregate(assign []int, k int) *louvainGraph {
	next := &louvainGraph{
		adj:    make([][]neighbor, k),
		loops:  make([]float64, k),
		degree: make([]float64, k),
	}

	type pairKey struct{ u, v int }
	weights := make(map[pairKey]float64)
	order := make([]pairKey, 0)

	for u, nbs := range l.g.adj {
		for _, nb := range nbs {
			// Visit each undirected edge once
			if nb.to < u {
				continue
			}
			cu, cv := assign[u], assign[nb.to]
			if cv < cu {
				cu, cv = cv, cu
			}
			key := pairKey{cu, cv}
			if _, ok := weights[key]; !ok {
				order = append(order, key)
			}
			weights[key] += nb.weight
		}
	}

	for _, key := range order {
		next.addEdge(key.u, key.v, weights[key])
	}
	return next
}

// Louvain detects communities by greedy modularity optimisation with
// multi-level aggregation. Community IDs are 0..k-1 in order of the first
// node (graph order) that belongs to each community.
func Louvain(ctx context.Context, g *graph.Graph, opts LouvainOptions) (*CommunityDetectionResult, error) {
	if g.Directed() {
		return nil, ErrInvalidGraphKind
	}
	if opts.Resolution == 0 {
		opts.Resolution = 1.0
	}
	for _, e := range g.Edges() {
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: %s-%s", ErrNegativeWeight, e.From, e.To)
		}
	}

	nodes := g.Nodes()
	index := make(map[string]int, len(nodes))
	for i, id := range nodes {
		index[id] = i
	}

	// Final community of every original node, refined level by level
	membership := make([]int, len(nodes))
	for i := range membership {
		membership[i] = i
	}

	if g.Size() > 0 {
		rng := rand.New(rand.NewSource(opts.Seed))
		lg := newLouvainGraph(g, index)

		for level := 0; opts.MaxLevels == 0 || level < opts.MaxLevels; level++ {
			state := newLouvainLevel(lg, opts.Resolution)
			before := state.modularity()

			moved, err := state.run(ctx, rng)
			if err != nil {
				return nil, err
			}
			if level > 0 && (!moved || state.modularity()-before < minModularityGain) {
				break
			}

			assign, k := state.renumber()
			for i, c := range membership {
				membership[i] = assign[c]
			}
			if !moved {
				break
			}
			lg = state.aggregate(assign, k)
		}
	}

	nodeCommunity := make(map[string]int, len(nodes))
	for i, id := range nodes {
		nodeCommunity[id] = membership[i]
	}
	nodeCommunity = renumberByNodeOrder(nodes, nodeCommunity)

	return newDetectionResult(g, nodes, nodeCommunity)
}
