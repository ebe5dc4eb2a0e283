package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// ValidationError reports form input that cannot become an event.
// Missing names required fields left blank; Invalid names fields whose
// value is outside the accepted vocabulary.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// HasProblems reports whether any field was flagged.
func (e *ValidationError) HasProblems() bool {
	return len(e.Missing) > 0 || len(e.Invalid) > 0
}

// NotFoundError wraps ErrNotFound with the kind and id that were missing.
func NotFoundError(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
