package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CommentPrefix starts a comment in an edge-list file. Text after it is ignored.
const CommentPrefix = "#"

// EdgeListOptions controls how an edge list is read.
type EdgeListOptions struct {
	// Source names the input in error messages.
	Source string
	// Directed builds a directed graph.
	Directed bool
}

// ReadEdgeList parses one edge per line: two whitespace-separated node IDs
// and an optional numeric weight. Blank lines and comments are skipped.
// Malformed lines fail with a *FormatError matching ErrGraphFormat.
func ReadEdgeList(r io.Reader, opts EdgeListOptions) (*Graph, error) {
	var gopts []Option
	if opts.Directed {
		gopts = append(gopts, WithDirected())
	}
	b := NewBuilder(gopts...)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := raw
		if i := strings.Index(line, CommentPrefix); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		from, to, weight, err := parseEdgeFields(fields)
		if err != nil {
			return nil, &FormatError{Source: opts.Source, Line: lineNo, Text: raw, Cause: err}
		}
		if err := b.AddEdge(from, to, weight); err != nil {
			return nil, &FormatError{Source: opts.Source, Line: lineNo, Text: raw, Cause: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Source: opts.Source, Cause: err}
	}

	return b.Build(), nil
}

func parseEdgeFields(fields []string) (string, string, float64, error) {
	switch len(fields) {
	case 2:
		return fields[0], fields[1], DefaultWeight, nil
	case 3:
		w, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return "", "", 0, fmt.Errorf("invalid weight %q", fields[2])
		}
		return fields[0], fields[1], w, nil
	default:
		return "", "", 0, fmt.Errorf("expected 2 or 3 fields, got %d", len(fields))
	}
}

// LoadEdgeList reads an edge list from a local file.
func LoadEdgeList(path string, opts EdgeListOptions) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Source: path, Cause: err}
	}
	defer f.Close()

	if opts.Source == "" {
		opts.Source = path
	}
	return ReadEdgeList(f, opts)
}

// IsFormatError reports whether err came from a malformed edge list.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrGraphFormat)
}
