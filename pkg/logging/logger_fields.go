package logging

import (
	"fmt"
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component field helpers for common component names
func Component(name string) Field {
	return String("component", name)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

// Domain fields

// Pair formats a community pair the way reports print it
func Pair(a, b int) Field {
	return String("pair", fmt.Sprintf("(%d, %d)", a, b))
}

func Community(id int) Field {
	return Int("community", id)
}

func RunID(id string) Field {
	return String("run_id", id)
}

// Metric names the score being computed: polarization or modularity
func Metric(name string) Field {
	return String("metric", name)
}

func BoundaryNodes(n int) Field {
	return Int("boundary_nodes", n)
}

func Workers(n int) Field {
	return Int("workers", n)
}
