package graphql

import (
	"fmt"

	"github.com/dd0wney/cluso-polarity/pkg/validation"
)

// LimitConfig defines limits for query results
type LimitConfig struct {
	DefaultLimit int // Default limit when no limit specified
	MaxLimit     int // Maximum allowed limit
	MaxDepth     int // Maximum selection depth of a query
}

// DefaultLimitConfig returns the limits used when none are configured.
func DefaultLimitConfig() *LimitConfig {
	return &LimitConfig{DefaultLimit: 100, MaxLimit: 10000, MaxDepth: 4}
}

// ValidateLimitConfig validates the limit configuration
func ValidateLimitConfig(config *LimitConfig) error {
	if err := validation.ValidateQueryLimit(config.MaxLimit); err != nil {
		return fmt.Errorf("max limit: %w", err)
	}
	if config.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be greater than 0, got %d", config.DefaultLimit)
	}
	if config.DefaultLimit > config.MaxLimit {
		return fmt.Errorf("default limit (%d) cannot exceed max limit (%d)", config.DefaultLimit, config.MaxLimit)
	}
	if config.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be greater than 0, got %d", config.MaxDepth)
	}
	return nil
}

// applyLimit maps a requested limit to the effective one. Negative means
// "not given"; zero yields no results.
func applyLimit(requested int, config *LimitConfig) int {
	switch {
	case requested < 0:
		return config.DefaultLimit
	case requested > config.MaxLimit:
		return config.MaxLimit
	default:
		return requested
	}
}
