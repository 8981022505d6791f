package config

import "fmt"

// Error is a structured configuration failure. Callers can match on
// the kind fields (Path, Field) without parsing message strings.
type Error struct {
	// Path is the config file involved, when the failure is about a
	// file rather than a field.
	Path string

	// Reason describes a file-level failure (not found, read failed,
	// parse failed).
	Reason string

	// Field, Value and Expected describe a validation failure.
	Field    string
	Value    string
	Expected string

	Err error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid config field %s: got %q, expected %s", e.Field, e.Value, e.Expected)
	}
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Path, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}
