package plan

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

// Parse parses a plan document from YAML or JSON bytes.
//
// The function automatically detects the format and parses accordingly.
// Returns the parsed Plan or an error if parsing fails.
func Parse(data []byte) (*Plan, error) {
	var p Plan

	// yaml.Unmarshal handles both YAML and JSON
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &ParseError{Cause: err}
	}

	return &p, nil
}

// ParseFile parses a plan document from a file path.
//
// Supports both YAML (.yaml, .yml) and JSON (.json) files.
func ParseFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	p, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &ParseError{Path: path, Cause: err}
	}

	return p, nil
}

// IsPlanDocument checks if the given bytes appear to be a plan document.
//
// This is a heuristic check that looks for the "plan" version field.
func IsPlanDocument(data []byte) bool {
	return bytes.Contains(data, []byte("plan:")) ||
		bytes.Contains(data, []byte(`"plan":`))
}

// Marshal serializes a plan to YAML bytes.
func Marshal(p *Plan) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("plan: failed to marshal: %w", err)
	}
	return data, nil
}
