package patcher

import (
	"regexp"
	"strings"
)

// ExtruderSectionHeader is the section holding the tool-head pin and buffer
// assignments for the add-on's extruder.
const ExtruderSectionHeader = "[AFC_extruder extruder]"

// ToolStartPinKey is the key updated by SetToolStartPin.
const ToolStartPinKey = "pin_tool_start"

// keyLinePattern matches "key: value" with optional leading whitespace and an
// optional trailing "# comment". Capture groups: indent, value token, comment
// suffix (including its leading whitespace, preserved verbatim).
func keyLinePattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`^(\s*)` + regexp.QuoteMeta(key) + `\s*:\s*(\S+)(\s*#.*)?$`)
}

// SetKeyValue rewrites every "key: value" line in the file to carry the new
// value, preserving any trailing comment verbatim.
//
// The operation has no section scoping: if the key appears in several
// sections, every occurrence is rewritten identically. Callers that need one
// specific section use SetToolStartPin or choose a sufficiently unique key.
func (p *Patcher) SetKeyValue(path, key, value string) (*Result, error) {
	result := &Result{Op: OpSetValue, Path: path}

	d, err := loadDocument(OpSetValue, path)
	if err != nil {
		return nil, err
	}

	pattern := keyLinePattern(key)
	matched := 0
	for i, line := range d.lines {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		matched++
		updated := m[1] + key + ": " + value + m[3]
		if updated == line {
			continue
		}
		result.Changes = append(result.Changes, ChangeRecord{
			Line:   i + 1,
			Kind:   "replace",
			Before: line,
			After:  updated,
		})
		d.lines[i] = updated
	}

	switch {
	case matched == 0:
		result.Outcome = OutcomeSkipped
		result.Reason = "key not found: " + key
		p.log().Warn("key not found", "path", path, "key", key)
		return result, nil
	case len(result.Changes) == 0:
		result.Outcome = OutcomeAlreadyPresent
		result.Reason = "value already set"
		p.log().Info("value already set", "path", path, "key", key, "value", value)
		return result, nil
	}

	result.Outcome = OutcomeApplied
	if err := p.commit(OpSetValue, d, result); err != nil {
		return nil, err
	}
	p.log().Info("value updated", "path", path, "key", key, "value", value, "lines", len(result.Changes))
	return result, nil
}

// SetToolStartPin updates the pin_tool_start value inside the
// [AFC_extruder extruder] section.
//
// The scan arms on the exact section header and disarms after rewriting the
// first pin_tool_start line that follows it, so exactly one line is touched
// per invocation even when the key or the section recurs later in the file.
func (p *Patcher) SetToolStartPin(path, pin string) (*Result, error) {
	result := &Result{Op: OpSetPin, Path: path}

	d, err := loadDocument(OpSetPin, path)
	if err != nil {
		return nil, err
	}

	pattern := keyLinePattern(ToolStartPinKey)
	armed := false
	done := false
	for i, line := range d.lines {
		if done {
			break
		}
		if !armed {
			if strings.TrimSpace(line) == ExtruderSectionHeader {
				armed = true
			}
			continue
		}

		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		done = true
		updated := m[1] + ToolStartPinKey + ": " + pin + m[3]
		if updated == line {
			result.Outcome = OutcomeAlreadyPresent
			result.Reason = "pin already set"
			p.log().Info("tool start pin already set", "path", path, "pin", pin)
			return result, nil
		}
		result.Changes = append(result.Changes, ChangeRecord{
			Line:   i + 1,
			Kind:   "replace",
			Before: line,
			After:  updated,
		})
		d.lines[i] = updated
	}

	if len(result.Changes) == 0 {
		result.Outcome = OutcomeSkipped
		if armed {
			result.Reason = "no pin_tool_start line after section header"
		} else {
			result.Reason = "section not found: " + ExtruderSectionHeader
		}
		p.log().Warn("tool start pin not updated", "path", path, "reason", result.Reason)
		return result, nil
	}

	result.Outcome = OutcomeApplied
	if err := p.commit(OpSetPin, d, result); err != nil {
		return nil, err
	}
	p.log().Info("tool start pin updated", "path", path, "pin", pin)
	return result, nil
}
