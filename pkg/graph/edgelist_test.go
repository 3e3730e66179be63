package graph

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEdgeList(t *testing.T) {
	input := `# karate-style edge list
0 1
1 2   # trailing comment

2 3 2.5
`
	g, err := ReadEdgeList(strings.NewReader(input), EdgeListOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1", "2", "3"}, g.Nodes())
	assert.Equal(t, 3, g.EdgeCount())

	w, ok := g.Weight("3", "2")
	require.True(t, ok)
	assert.Equal(t, 2.5, w)

	w, _ = g.Weight("0", "1")
	assert.Equal(t, DefaultWeight, w)
}

func TestReadEdgeList_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"single field", "0 1\n2\n", 2},
		{"too many fields", "0 1 1 extra\n", 1},
		{"bad weight", "0 1\n1 2 heavy\n", 2},
		{"infinite weight", "0 1 +Inf\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEdgeList(strings.NewReader(tt.input), EdgeListOptions{Source: "test.edgelist"})
			require.Error(t, err)
			assert.True(t, IsFormatError(err))

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.line, fe.Line)
			assert.Contains(t, err.Error(), "test.edgelist")
		})
	}
}

func TestReadEdgeList_Directed(t *testing.T) {
	g, err := ReadEdgeList(strings.NewReader("a b\n"), EdgeListOptions{Directed: true})
	require.NoError(t, err)
	assert.True(t, g.Directed())
}

func TestLoadEdgeList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.edgelist")
	require.NoError(t, os.WriteFile(path, []byte("0 1\n1 2\n"), 0o644))

	g, err := LoadEdgeList(path, EdgeListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, g.EdgeCount())

	_, err = LoadEdgeList(filepath.Join(dir, "missing"), EdgeListOptions{})
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
