package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "louvain", cfg.Clustering.Algorithm)
	assert.Equal(t, "exclude", cfg.Scoring.Ambiguous)
	assert.GreaterOrEqual(t, cfg.Scoring.Workers, 1)
	assert.Equal(t, []string{"defaults"}, cfg.LoadedFrom)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
input:
  graph: s3://graphs/karate.txt
clustering:
  algorithm: label_propagation
  max_iterations: 20
scoring:
  workers: 2
  ambiguous: boundary
server:
  addr: 0.0.0.0:9090
  read_timeout: 2s
`))
	require.NoError(t, err)

	assert.Equal(t, "s3://graphs/karate.txt", cfg.Input.Graph)
	assert.Equal(t, "label_propagation", cfg.Clustering.Algorithm)
	assert.Equal(t, 20, cfg.Clustering.MaxIterations)
	assert.Equal(t, 1.0, cfg.Clustering.Resolution, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Scoring.Workers)
	assert.Equal(t, "boundary", cfg.Scoring.Ambiguous)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default().Clustering, cfg.Clustering)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "scoring:\n  threads: 4\n"},
		{"bad algorithm", "clustering:\n  algorithm: spectral\n"},
		{"bad ambiguous policy", "scoring:\n  ambiguous: interior\n"},
		{"zero workers", "scoring:\n  workers: 0\n"},
		{"bad format", "output:\n  format: csv\n"},
		{"bad addr", "server:\n  addr: nowhere\n"},
		{"bad source", "input:\n  graph: ftp://x/y\n"},
		{"secret without key", "source:\n  secret_access_key: s\n"},
		{"key without secret", "source:\n  access_key_id: k\n"},
		{"not yaml", "input: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polarity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  workers: 3\nlog:\n  level: debug\n"), 0o600))

	t.Setenv("POLARITY_WORKERS", "5")
	t.Setenv("POLARITY_GRAPH", "data/graph.txt")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Scoring.Workers, "environment wins over file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "data/graph.txt", cfg.Input.Graph)
	assert.Equal(t, []string{"defaults", path, "environment"}, cfg.LoadedFrom)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"POLARITY_SEED":    "7",
		"POLARITY_WORKERS": "not-a-number",
		"AWS_REGION":       "eu-west-1",
	}
	applied := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.True(t, applied)
	assert.Equal(t, int64(7), cfg.Clustering.Seed)
	assert.Equal(t, Default().Scoring.Workers, cfg.Scoring.Workers, "unparsable values are ignored")
	assert.Equal(t, "eu-west-1", cfg.Source.Region)
}

func TestWrite_RoundTripAndRedaction(t *testing.T) {
	cfg := Default()
	cfg.Source.AccessKeyID = "AKIA"
	cfg.Source.SecretAccessKey = "hunter2"

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), "REDACTED")
	assert.Equal(t, "hunter2", cfg.Source.SecretAccessKey, "original is untouched")

	back, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server, back.Server)
	assert.Equal(t, cfg.Layout, back.Layout)
}
