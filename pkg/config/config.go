// Package config loads polarity settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-polarity/pkg/validation"
)

// ErrConfig wraps every load or validation failure.
var ErrConfig = errors.New("config")

// Config is the complete polarity configuration.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Output     OutputConfig     `yaml:"output"`
	Layout     LayoutConfig     `yaml:"layout"`
	Server     ServerConfig     `yaml:"server"`
	Source     SourceConfig     `yaml:"source"`
	Log        LogConfig        `yaml:"log"`

	// LoadedFrom lists the sources applied, lowest precedence first.
	LoadedFrom []string `yaml:"-"`
}

// InputConfig locates the graph and, optionally, a community file.
type InputConfig struct {
	Graph       string `yaml:"graph"`
	Communities string `yaml:"communities"`
	Directed    bool   `yaml:"directed"`
}

// ClusteringConfig selects community detection when no community file is given.
type ClusteringConfig struct {
	Algorithm     string  `yaml:"algorithm" validate:"oneof=louvain label_propagation components"`
	Seed          int64   `yaml:"seed"`
	MaxIterations int     `yaml:"max_iterations" validate:"gte=1"`
	MaxLevels     int     `yaml:"max_levels" validate:"gte=0"`
	Resolution    float64 `yaml:"resolution" validate:"gt=0"`
}

// ScoringConfig tunes the engine.
type ScoringConfig struct {
	Workers   int    `yaml:"workers" validate:"gte=1,lte=1024"`
	Ambiguous string `yaml:"ambiguous" validate:"oneof=exclude boundary"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format          string `yaml:"format" validate:"oneof=table json yaml communities"`
	Path            string `yaml:"path"`
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// LayoutConfig controls visualization.
type LayoutConfig struct {
	Algorithm  string  `yaml:"algorithm" validate:"oneof=force circular community hierarchical"`
	Width      float64 `yaml:"width" validate:"gte=100"`
	Height     float64 `yaml:"height" validate:"gte=100"`
	Iterations int     `yaml:"iterations" validate:"gte=1"`
	Padding    float64 `yaml:"padding" validate:"gte=0"`
	Output     string  `yaml:"output"`
}

// ServerConfig controls the query server.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SourceConfig configures object-store access for s3:// inputs.
type SourceConfig struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required_with=AccessKeyID"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Clustering: ClusteringConfig{
			Algorithm:     "louvain",
			Seed:          42,
			MaxIterations: 100,
			Resolution:    1.0,
		},
		Scoring: ScoringConfig{
			Workers:   validation.ClampInt(runtime.NumCPU(), 1, 1024),
			Ambiguous: "exclude",
		},
		Output: OutputConfig{
			Format: "table",
		},
		Layout: LayoutConfig{
			Algorithm:  "force",
			Width:      1000,
			Height:     800,
			Iterations: 300,
			Padding:    40,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		LoadedFrom: []string{"defaults"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and environment variables, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
		}
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", ErrConfig, path, err)
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	if cfg.applyEnv(os.LookupEnv) {
		cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// The environment is not consulted.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays YAML onto c. Unknown keys are rejected.
func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overlays POLARITY_* variables (and the usual AWS and LOG ones)
// and reports whether any was set.
func (c *Config) applyEnv(lookup func(string) (string, bool)) bool {
	applied := false
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
			applied = true
		}
	}

	str("POLARITY_GRAPH", &c.Input.Graph)
	str("POLARITY_COMMUNITIES", &c.Input.Communities)
	str("POLARITY_ALGORITHM", &c.Clustering.Algorithm)
	str("POLARITY_OUTPUT_FORMAT", &c.Output.Format)
	str("POLARITY_SERVER_ADDR", &c.Server.Addr)
	str("POLARITY_S3_ENDPOINT", &c.Source.Endpoint)
	str("AWS_REGION", &c.Source.Region)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("POLARITY_WORKERS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scoring.Workers = n
			applied = true
		}
	}
	if v, ok := lookup("POLARITY_SEED"); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Clustering.Seed = n
			applied = true
		}
	}
	return applied
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	err := validation.NewConfigValidator("Config").
		Struct(c).
		Source("Input.Graph", c.Input.Graph).
		Source("Input.Communities", c.Input.Communities).
		RangeFloat("Clustering.Resolution", c.Clustering.Resolution, 0.001, 1000).
		MinDuration("Server.ReadTimeout", c.Server.ReadTimeout, time.Millisecond).
		MinDuration("Server.WriteTimeout", c.Server.WriteTimeout, time.Millisecond).
		When(c.Source.SecretAccessKey != "", func(cv *validation.ConfigValidator) {
			cv.Required("Source.AccessKeyID", c.Source.AccessKeyID)
		}).
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}

// Write encodes c as YAML. Secrets are redacted.
func (c *Config) Write(w io.Writer) error {
	out := *c
	if out.Source.SecretAccessKey != "" {
		out.Source.SecretAccessKey = "REDACTED"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return err
	}
	return enc.Close()
}
