// Package cfgerrors provides structured error types for cfgtools.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: plan document parsing failures and structural issues
//   - InvalidInputError: unrecognized enum values (actions, boards, buffers, ops)
//   - ApplyError: failures while applying a patch operation to a file
//
// # Usage with errors.As
//
//	result, err := p.InjectBufferBlock(hwPath, mcuPath, "NotABuffer")
//	if err != nil {
//	    var inv *cfgerrors.InvalidInputError
//	    if errors.As(err, &inv) {
//	        fmt.Printf("unknown %s %q, valid: %v\n", inv.Kind, inv.Value, inv.Valid)
//	    }
//	}
package cfgerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a plan parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrInvalidInput indicates an unrecognized action, board, buffer, or op value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrApply indicates a patch operation failed against the target file.
	ErrApply = errors.New("apply error")
)

// ParseError represents a failure to parse a plan document.
// This includes YAML deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// InvalidInputError represents an unrecognized enumerated value.
// The closed enumerations in cfgtools (include actions, board types, buffer
// systems, plan ops) report unknown members through this type.
type InvalidInputError struct {
	// Kind identifies the enumeration ("action", "board", "buffer", "op")
	Kind string
	// Value is the unrecognized value as supplied by the caller
	Value string
	// Valid lists the accepted members of the enumeration
	Valid []string
}

// Error returns a human-readable error message.
func (e *InvalidInputError) Error() string {
	msg := "invalid input"
	if e.Kind != "" {
		msg = "invalid " + e.Kind
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	if len(e.Valid) > 0 {
		msg += ": valid values: " + strings.Join(e.Valid, ", ")
	}
	return msg
}

// Unwrap returns nil as InvalidInputError has no underlying cause.
func (e *InvalidInputError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ApplyError represents a failure while applying a patch operation.
// This is almost always an I/O failure: the target file was missing,
// unreadable, or the atomic replacement could not be completed.
type ApplyError struct {
	// Op is the operation that failed (e.g., "manage-include", "set-value")
	Op string
	// Path is the target file path
	Path string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ApplyError) Error() string {
	msg := "apply error"
	if e.Op != "" {
		msg += " in " + e.Op
	}
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ApplyError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ApplyError) Is(target error) bool {
	return target == ErrApply
}
