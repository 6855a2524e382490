package ocs

import (
	"fmt"
	"strings"
)

// SchemaValidationError is returned when a scenario table does not carry the
// columns a step needs. No request is sent when it occurs.
type SchemaValidationError struct {
	Missing    []string
	Unexpected []string
}

func (e *SchemaValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected column(s): %s", strings.Join(e.Unexpected, ", ")))
	}
	return "invalid table: " + strings.Join(parts, "; ")
}

// MissingFieldError is returned when a response payload lacks an OCS meta field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("no OCS %s found in response", e.Field)
}

// AssertionError reports an expected/actual mismatch.
type AssertionError struct {
	Expected string
	Actual   string
	Message  string
}

func (e *AssertionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("expected %q, got %q", e.Expected, e.Actual)
}
