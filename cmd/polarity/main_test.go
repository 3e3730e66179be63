package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-polarity/pkg/source"
)

const pathGraph = "0 1\n1 2\n2 3\n"

// twoTriangles joins triangles {0,1,2} and {3,4,5} by the edge 2-3
const twoTriangles = "0 1\n1 2\n0 2\n2 3\n3 4\n4 5\n3 5\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestScore_JSON(t *testing.T) {
	graph := writeFile(t, "graph.txt", pathGraph)
	comms := writeFile(t, "communities.txt", "0\n0\n1\n1\n")

	out, _, err := runCLI(t, "score", "--graph", graph, "--communities", comms, "-o", "json")
	require.NoError(t, err)

	var doc struct {
		Polarization []struct {
			Score struct {
				Value   float64 `json:"value"`
				Defined bool    `json:"defined"`
			} `json:"score"`
			BoundaryNodes int `json:"boundary_nodes"`
		} `json:"polarization"`
		Assignment []int `json:"assignment"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Polarization, 1)
	assert.True(t, doc.Polarization[0].Score.Defined)
	assert.Equal(t, 0.0, doc.Polarization[0].Score.Value)
	assert.Equal(t, 2, doc.Polarization[0].BoundaryNodes)
	assert.Equal(t, []int{0, 0, 1, 1}, doc.Assignment)
}

func TestScore_DetectsCommunities(t *testing.T) {
	graph := writeFile(t, "graph.txt", twoTriangles)

	out, _, err := runCLI(t, "score", "--graph", graph, "-o", "communities")
	require.NoError(t, err)
	assert.Equal(t, "0\n0\n0\n1\n1\n1\n", out)
}

func TestScore_Table(t *testing.T) {
	graph := writeFile(t, "graph.txt", pathGraph)
	comms := writeFile(t, "communities.txt", "0\n0\n1\n1\n")

	out, _, err := runCLI(t, "score", "--graph", graph, "--communities", comms)
	require.NoError(t, err)
	assert.Contains(t, out, "POLARIZATION")
	assert.Contains(t, out, "(0, 1)")
}

func TestScore_CompressedOutputAndMetrics(t *testing.T) {
	graph := writeFile(t, "graph.txt", pathGraph)
	comms := writeFile(t, "communities.txt", "0\n0\n1\n1\n")
	dir := t.TempDir()
	output := filepath.Join(dir, "report.json.sz")
	prom := filepath.Join(dir, "polarity.prom")

	out, _, err := runCLI(t, "score",
		"--graph", graph, "--communities", comms,
		"-o", "json", "--output", output, "--metrics-textfile", prom)
	require.NoError(t, err)
	assert.Empty(t, out, "output goes to the file")

	rc, err := source.NewOpener(nil).Open(context.Background(), output)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `polarity_pairs_scored_total{metric="polarization",outcome="defined"} 1`)
}

func TestScore_Errors(t *testing.T) {
	_, stderr, err := runCLI(t, "score")
	require.ErrorIs(t, err, errNoGraph)
	assert.Contains(t, stderr, "no graph given")

	graph := writeFile(t, "graph.txt", pathGraph)
	comms := writeFile(t, "communities.txt", "0\n0\n1\n")
	_, _, err = runCLI(t, "score", "--graph", graph, "--communities", comms)
	assert.Error(t, err, "community count mismatch")

	_, _, err = runCLI(t, "score", "--graph", graph, "--directed")
	assert.Error(t, err, "directed graphs are rejected")

	_, _, err = runCLI(t, "score", "--graph", graph, "--ambiguous", "maybe")
	assert.Error(t, err, "invalid policy fails validation")
}

func TestModularity(t *testing.T) {
	graph := writeFile(t, "graph.txt", pathGraph)
	comms := writeFile(t, "communities.txt", "0\n0\n1\n1\n")

	out, _, err := runCLI(t, "modularity", "--graph", graph, "--communities", comms, "--pairs")
	require.NoError(t, err)
	assert.Contains(t, out, "modularity\t0.166667\n")
	assert.Contains(t, out, "(0, 1)\t")

	out, _, err = runCLI(t, "modularity", "--graph", graph, "--communities", comms, "-o", "json")
	require.NoError(t, err)
	var res modularityResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Modularity.Defined)
	assert.InDelta(t, 1.0/6.0, res.Modularity.Value, 1e-9)
	assert.Empty(t, res.Pairs)
}

func TestCommunities(t *testing.T) {
	graph := writeFile(t, "graph.txt", twoTriangles)

	out, stderr, err := runCLI(t, "communities", "--graph", graph)
	require.NoError(t, err)
	assert.Equal(t, "0\n0\n0\n1\n1\n1\n", out)
	assert.Contains(t, stderr, "partition quality")
	assert.Contains(t, stderr, "avg_clustering")

	_, stderr, err = runCLI(t, "communities", "--graph", graph, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"density"`)
	assert.Contains(t, stderr, `"community"`)

	out, _, err = runCLI(t, "communities", "--graph", graph, "--algorithm", "components")
	require.NoError(t, err)
	assert.Equal(t, "0\n0\n0\n0\n0\n0\n", out)
}

func TestLayout(t *testing.T) {
	graph := writeFile(t, "graph.txt", twoTriangles)

	out, _, err := runCLI(t, "layout", "--graph", graph, "--layout", "circular")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"), "svg document on stdout")

	out, _, err = runCLI(t, "layout", "--graph", graph, "--layout", "community", "--as", "json", "--pair", "0,1")
	require.NoError(t, err)
	var doc struct {
		Nodes []struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Nodes, 6)
	roles := map[string]string{}
	for _, n := range doc.Nodes {
		roles[n.ID] = n.Role
	}
	assert.Equal(t, "boundary", roles["2"])
	assert.Equal(t, "interior", roles["0"])

	_, _, err = runCLI(t, "layout", "--graph", graph, "--pair", "1,1")
	assert.Error(t, err)
	_, _, err = runCLI(t, "layout", "--graph", graph, "--as", "png")
	assert.Error(t, err)
}

func TestParsePair(t *testing.T) {
	p, err := parsePair(" 3, 7")
	require.NoError(t, err)
	assert.Equal(t, 3, p.A)
	assert.Equal(t, 7, p.B)

	for _, bad := range []string{"3", "a,b", "1,2,3", "4,4"} {
		_, err := parsePair(bad)
		assert.Error(t, err, bad)
	}
}

func TestConfig(t *testing.T) {
	cfgFile := writeFile(t, "polarity.yaml", "clustering:\n  algorithm: label_propagation\n")

	out, _, err := runCLI(t, "config", "--config", cfgFile, "--workers", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "# sources: defaults, "+cfgFile)
	assert.Contains(t, out, "algorithm: label_propagation")
	assert.Contains(t, out, "workers: 3")

	_, _, err = runCLI(t, "config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestUsesS3(t *testing.T) {
	assert.True(t, usesS3("", "s3://bucket/graph.txt"))
	assert.False(t, usesS3("graph.txt", "file:///tmp/x", ""))
}
