package validation

import (
	"errors"
	"fmt"
	"time"
)

// ConfigValidator chains the cross-field configuration checks that struct
// tags cannot express. Every failure is collected, not just the first.
type ConfigValidator struct {
	errors []error
	name   string
}

// NewConfigValidator creates a validator whose messages are prefixed with
// configName.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

func (cv *ConfigValidator) addf(field, format string, args ...any) {
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: "+format, append([]any{cv.name, field}, args...)...))
}

// Required fails when value is empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.addf(field, "required field is empty")
	}
	return cv
}

// RangeFloat fails when value is outside [min, max].
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if value < min || value > max {
		cv.addf(field, "value %g is outside range [%g, %g]", value, min, max)
	}
	return cv
}

// MinDuration fails when value is shorter than min.
func (cv *ConfigValidator) MinDuration(field string, value, min time.Duration) *ConfigValidator {
	if value < min {
		cv.addf(field, "duration %v is below minimum %v", value, min)
	}
	return cv
}

// Source checks an input location with ValidateSourceURI. Empty values
// pass; pair it with Required when the field is mandatory.
func (cv *ConfigValidator) Source(field, uri string) *ConfigValidator {
	if uri == "" {
		return cv
	}
	if err := ValidateSourceURI(uri); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// Struct runs the `validate` struct tags of v.
func (cv *ConfigValidator) Struct(v any) *ConfigValidator {
	if err := Struct(v); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s: %w", cv.name, err))
	}
	return cv
}

// When applies validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors reports whether any check failed.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns every failure in check order.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate returns all failures joined into one error, or nil.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errors) {
	case 0:
		return nil
	case 1:
		return cv.errors[0]
	}
	return fmt.Errorf("%s validation failed with %d errors: %w", cv.name, len(cv.errors), errors.Join(cv.errors...))
}

// ClampInt clamps value to [min, max].
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
