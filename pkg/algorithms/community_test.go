package algorithms

import (
	"context"
	"errors"
	"testing"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// buildGraph creates an undirected unit-weight graph from edge pairs
func buildGraph(t *testing.T, nodes []string, edges [][2]string) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder()
	for _, n := range nodes {
		if err := b.AddNode(n); err != nil {
			t.Fatalf("AddNode(%q) failed: %v", n, err)
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(e[0], e[1], 1); err != nil {
			t.Fatalf("AddEdge(%q, %q) failed: %v", e[0], e[1], err)
		}
	}
	return b.Build()
}

// twoCliques builds two K4s (0-3 and 4-7) joined by the edge 3-4
func twoCliques(t *testing.T) *graph.Graph {
	t.Helper()

	edges := make([][2]string, 0)
	for _, clique := range [][]string{{"0", "1", "2", "3"}, {"4", "5", "6", "7"}} {
		for i := 0; i < len(clique); i++ {
			for j := i + 1; j < len(clique); j++ {
				edges = append(edges, [2]string{clique[i], clique[j]})
			}
		}
	}
	edges = append(edges, [2]string{"3", "4"})
	return buildGraph(t, nil, edges)
}

// TestConnectedComponents_EmptyGraph tests connected components on empty graph
func TestConnectedComponents_EmptyGraph(t *testing.T) {
	g := buildGraph(t, nil, nil)

	result, err := ConnectedComponents(context.Background(), g)
	if err != nil {
		t.Fatalf("ConnectedComponents failed: %v", err)
	}

	if len(result.Communities) != 0 {
		t.Errorf("Expected 0 communities for empty graph, got %d", len(result.Communities))
	}
}

// TestConnectedComponents_MultipleComponents tests disconnected graph
func TestConnectedComponents_MultipleComponents(t *testing.T) {
	// Two components A-B and C-D, plus isolated E
	g := buildGraph(t, []string{"A", "B", "C", "D", "E"}, [][2]string{{"A", "B"}, {"C", "D"}})

	result, err := ConnectedComponents(context.Background(), g)
	if err != nil {
		t.Fatalf("ConnectedComponents failed: %v", err)
	}

	if len(result.Communities) != 3 {
		t.Fatalf("Expected 3 components, got %d", len(result.Communities))
	}

	want := map[string]int{"A": 0, "B": 0, "C": 1, "D": 1, "E": 2}
	for node, c := range want {
		if result.NodeCommunity[node] != c {
			t.Errorf("Expected %s in component %d, got %d", node, c, result.NodeCommunity[node])
		}
	}

	if result.Communities[2].Size != 1 {
		t.Errorf("Expected isolated component size 1, got %d", result.Communities[2].Size)
	}
	if result.Communities[0].Density != 1.0 {
		t.Errorf("Expected density 1.0 for a single edge, got %f", result.Communities[0].Density)
	}
}

// TestConnectedComponents_Directed tests weak connectivity on directed graphs
func TestConnectedComponents_Directed(t *testing.T) {
	b := graph.NewBuilder(graph.WithDirected())
	_ = b.AddEdge("A", "B", 1)
	_ = b.AddEdge("C", "B", 1)
	g := b.Build()

	result, err := ConnectedComponents(context.Background(), g)
	if err != nil {
		t.Fatalf("ConnectedComponents failed: %v", err)
	}
	if len(result.Communities) != 1 {
		t.Errorf("Expected 1 weak component, got %d", len(result.Communities))
	}
}

// TestLabelPropagation_TwoCliques tests label propagation finds dense groups
func TestLabelPropagation_TwoCliques(t *testing.T) {
	g := twoCliques(t)

	result, err := LabelPropagation(context.Background(), g, 20)
	if err != nil {
		t.Fatalf("LabelPropagation failed: %v", err)
	}

	for _, n := range []string{"1", "2", "3"} {
		if result.NodeCommunity[n] != result.NodeCommunity["0"] {
			t.Errorf("Expected node %s with node 0", n)
		}
	}
	if result.NodeCommunity["0"] != 0 {
		t.Errorf("Expected first node in community 0, got %d", result.NodeCommunity["0"])
	}

	// Same input, same output
	again, err := LabelPropagation(context.Background(), g, 20)
	if err != nil {
		t.Fatalf("LabelPropagation failed: %v", err)
	}
	for n, c := range result.NodeCommunity {
		if again.NodeCommunity[n] != c {
			t.Errorf("Expected reproducible labels, node %s got %d then %d", n, c, again.NodeCommunity[n])
		}
	}
}

// TestLabelPropagation_Cancelled tests context cancellation
func TestLabelPropagation_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LabelPropagation(ctx, twoCliques(t), 10)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestLouvain_TwoCliques tests Louvain separates two bridged cliques
func TestLouvain_TwoCliques(t *testing.T) {
	g := twoCliques(t)

	result, err := Louvain(context.Background(), g, DefaultLouvainOptions())
	if err != nil {
		t.Fatalf("Louvain failed: %v", err)
	}

	if len(result.Communities) != 2 {
		t.Fatalf("Expected 2 communities, got %d", len(result.Communities))
	}

	for _, n := range []string{"0", "1", "2", "3"} {
		if result.NodeCommunity[n] != 0 {
			t.Errorf("Expected node %s in community 0, got %d", n, result.NodeCommunity[n])
		}
	}
	for _, n := range []string{"4", "5", "6", "7"} {
		if result.NodeCommunity[n] != 1 {
			t.Errorf("Expected node %s in community 1, got %d", n, result.NodeCommunity[n])
		}
	}

	// Each K4 holds 6 of 13 edges and has degree 13
	want := 2 * (6.0/13.0 - 0.25)
	if diff := result.Modularity - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected modularity %f, got %f", want, result.Modularity)
	}
}

// TestLouvain_Deterministic tests that a fixed seed gives identical output
func TestLouvain_Deterministic(t *testing.T) {
	g := twoCliques(t)
	opts := LouvainOptions{Seed: 7, Resolution: 1.0}

	first, err := Louvain(context.Background(), g, opts)
	if err != nil {
		t.Fatalf("Louvain failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := Louvain(context.Background(), g, opts)
		if err != nil {
			t.Fatalf("Louvain failed: %v", err)
		}
		for n, c := range first.NodeCommunity {
			if next.NodeCommunity[n] != c {
				t.Fatalf("Run %d: node %s moved from %d to %d", i, n, c, next.NodeCommunity[n])
			}
		}
	}
}

// TestLouvain_EdgeCases tests edgeless, directed and negative-weight graphs
func TestLouvain_EdgeCases(t *testing.T) {
	ctx := context.Background()

	edgeless := buildGraph(t, []string{"a", "b", "c"}, nil)
	result, err := Louvain(ctx, edgeless, DefaultLouvainOptions())
	if err != nil {
		t.Fatalf("Louvain failed: %v", err)
	}
	if len(result.Communities) != 3 {
		t.Errorf("Expected singleton communities, got %d", len(result.Communities))
	}

	b := graph.NewBuilder(graph.WithDirected())
	_ = b.AddEdge("a", "b", 1)
	if _, err := Louvain(ctx, b.Build(), DefaultLouvainOptions()); !errors.Is(err, ErrInvalidGraphKind) {
		t.Errorf("Expected ErrInvalidGraphKind, got %v", err)
	}

	nb := graph.NewBuilder()
	_ = nb.AddEdge("a", "b", -1)
	if _, err := Louvain(ctx, nb.Build(), DefaultLouvainOptions()); !errors.Is(err, ErrNegativeWeight) {
		t.Errorf("Expected ErrNegativeWeight, got %v", err)
	}
}

// TestClusteringCoefficient tests local and average coefficients
func TestClusteringCoefficient(t *testing.T) {
	// Triangle a-b-c with tail c-d
	g := buildGraph(t, nil, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}})

	coefficients, err := ClusteringCoefficient(g)
	if err != nil {
		t.Fatalf("ClusteringCoefficient failed: %v", err)
	}

	want := map[string]float64{"a": 1, "b": 1, "c": 1.0 / 3.0, "d": 0}
	for n, c := range want {
		if diff := coefficients[n] - c; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("Expected coefficient %f for %s, got %f", c, n, coefficients[n])
		}
	}

	avg, err := AverageClusteringCoefficient(g)
	if err != nil {
		t.Fatalf("AverageClusteringCoefficient failed: %v", err)
	}
	if diff := avg - (7.0/3.0)/4.0; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("Expected average %f, got %f", (7.0/3.0)/4.0, avg)
	}
}

// TestNewDetector tests method selection
func TestNewDetector(t *testing.T) {
	tests := []struct {
		method  string
		wantErr bool
	}{
		{"", false},
		{MethodLouvain, false},
		{MethodLabelPropagation, false},
		{MethodComponents, false},
		{"spectral", true},
	}

	g := twoCliques(t)
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			d, err := NewDetector(DetectorOptions{Method: tt.method, Seed: 1})
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error for unknown method")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDetector failed: %v", err)
			}
			mapping, err := d.Detect(context.Background(), g)
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if len(mapping) != g.NodeCount() {
				t.Errorf("Expected %d assignments, got %d", g.NodeCount(), len(mapping))
			}
		})
	}
}
