package plan

import (
	"fmt"
)

// ValidationError represents an error in the plan document structure.
type ValidationError struct {
	// Field is the name of the field with the error.
	Field string

	// Path is the location in the plan document (e.g., "actions[0].file").
	Path string

	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("plan: validation error at %s: %s", e.Path, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("plan: validation error in field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("plan: validation error: %s", e.Message)
}

// ApplyError represents an error while running a plan action.
type ApplyError struct {
	// ActionIndex is the zero-based index of the action that failed.
	ActionIndex int

	// Op is the action's operation name.
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("plan: action[%d] op=%q: %v", e.ActionIndex, e.Op, e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ApplyError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error during plan document parsing.
type ParseError struct {
	// Path is the file path or source identifier.
	Path string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("plan: failed to parse %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("plan: failed to parse: %v", e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// VarError represents a reference to an undefined plan variable.
type VarError struct {
	// ActionIndex is the zero-based index of the referencing action.
	ActionIndex int

	// Name is the undefined variable name.
	Name string
}

// Error implements the error interface.
func (e *VarError) Error() string {
	return fmt.Sprintf("plan: action[%d] references undefined variable ${%s}", e.ActionIndex, e.Name)
}
