package partition

import "github.com/dd0wney/cluso-polarity/pkg/graph"

// CommunityStats summarizes one community of a partition.
type CommunityStats struct {
	ID            int     `json:"id" yaml:"id"`
	Size          int     `json:"size" yaml:"size"`
	InternalEdges int     `json:"internal_edges" yaml:"internal_edges"`
	CutEdges      int     `json:"cut_edges" yaml:"cut_edges"`
	Density       float64 `json:"density" yaml:"density"` // internal edges / possible pairs
}

// CutMetrics contains partitioning quality metrics
type CutMetrics struct {
	Communities []CommunityStats `json:"communities" yaml:"communities"`
	TotalEdges  int              `json:"total_edges" yaml:"total_edges"`
	CutEdges    int              `json:"cut_edges" yaml:"cut_edges"`
	CutRatio    float64          `json:"cut_ratio" yaml:"cut_ratio"` // Fraction of edges that cross communities
}

// ComputeCutMetrics counts community sizes and the edges that cross
// community boundaries. Communities are listed in first-seen order.
func ComputeCutMetrics(g *graph.Graph, p *Partition) *CutMetrics {
	ids := p.Communities()
	pos := make(map[int]int, len(ids))
	stats := make([]CommunityStats, len(ids))
	for i, id := range ids {
		pos[id] = i
		stats[i].ID = id
	}

	for _, node := range p.Nodes() {
		c, _ := p.CommunityOf(node)
		stats[pos[c]].Size++
	}

	m := &CutMetrics{}
	for _, e := range g.Edges() {
		cu, okU := p.CommunityOf(e.From)
		cv, okV := p.CommunityOf(e.To)
		if !okU || !okV {
			continue
		}
		m.TotalEdges++
		if cu == cv {
			stats[pos[cu]].InternalEdges++
			continue
		}
		m.CutEdges++
		stats[pos[cu]].CutEdges++
		stats[pos[cv]].CutEdges++
	}

	for i := range stats {
		n := stats[i].Size
		if n > 1 {
			stats[i].Density = float64(stats[i].InternalEdges) / float64(n*(n-1)/2)
		}
	}

	if m.TotalEdges > 0 {
		m.CutRatio = float64(m.CutEdges) / float64(m.TotalEdges)
	}
	m.Communities = stats
	return m
}
