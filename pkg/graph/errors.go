package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrGraphFormat   = errors.New("graph format error")
	ErrEmptyNodeID   = errors.New("node ID is empty")
	ErrInvalidWeight = errors.New("edge weight must be a finite number")
	ErrBuilt         = errors.New("builder already built")
)

// FormatError describes an edge-list line that could not be parsed.
type FormatError struct {
	Source string // file name or URI, empty for raw readers
	Line   int    // 1-based line number, 0 when not line-specific
	Text   string // offending line
	Cause  error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	src := e.Source
	if src == "" {
		src = "edge list"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s line %d (%q): %v", src, e.Line, e.Text, e.Cause)
	}
	return fmt.Sprintf("%s: %v", src, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Is makes every FormatError match ErrGraphFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrGraphFormat
}
