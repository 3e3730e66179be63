package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxNodeIDLength = 256
	MaxQueryLimit   = 10000
	MinQueryLimit   = 1
)

func init() {
	validate = validator.New()
}

// Struct validates v against its `validate` struct tags and returns the
// first failure in a readable form.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateNodeID validates a node identifier as used in edge lists
func ValidateNodeID(id string) error {
	if id == "" {
		return errors.New("node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return fmt.Errorf("node id exceeds maximum length of %d characters", MaxNodeIDLength)
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("node id %q contains whitespace", id)
	}
	return nil
}

// ValidatePair validates the two community ids of a pair lookup
func ValidatePair(a, b int) error {
	if a == b {
		return fmt.Errorf("pair (%d, %d) must name two distinct communities", a, b)
	}
	return nil
}

// ValidateQueryLimit validates the page size of a list query
func ValidateQueryLimit(limit int) error {
	if limit < MinQueryLimit {
		return fmt.Errorf("limit must be at least %d, got %d", MinQueryLimit, limit)
	}
	if limit > MaxQueryLimit {
		return fmt.Errorf("limit must not exceed %d, got %d", MaxQueryLimit, limit)
	}
	return nil
}

// ValidateSourceURI validates an input location: a local path, a file://
// URL or s3://bucket/key.
func ValidateSourceURI(uri string) error {
	if uri == "" {
		return errors.New("source cannot be empty")
	}
	if !strings.Contains(uri, "://") {
		return nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("source %q: %w", uri, err)
	}

	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return fmt.Errorf("source %q: missing path", uri)
		}
	case "s3":
		if u.Host == "" {
			return fmt.Errorf("source %q: missing bucket", uri)
		}
		if strings.TrimPrefix(u.Path, "/") == "" {
			return fmt.Errorf("source %q: missing object key", uri)
		}
	default:
		return fmt.Errorf("source %q: unsupported scheme %q", uri, u.Scheme)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
		case "hostname_port":
			return fmt.Errorf("%s: must be host:port, got %v", field, e.Value())
		case "required_with":
			return fmt.Errorf("%s: required when %s is set", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
