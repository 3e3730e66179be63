package partition

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrPartitionFormat = errors.New("partition format error")
	ErrNilDetector     = errors.New("community detector is nil")
)

// FormatError describes why a community list or detected partition could not
// be aligned with the graph.
type FormatError struct {
	Source string // file name, empty for in-memory input
	Line   int    // 1-based line, 0 when not line-specific
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	src := e.Source
	if src == "" {
		src = "partition"
	}
	msg := e.Reason
	if e.Cause != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Cause.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s line %d: %s", src, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", src, msg)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Is makes every FormatError match ErrPartitionFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrPartitionFormat
}

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
