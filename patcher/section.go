package patcher

import (
	"strings"
)

// PrepSectionHeader is the section that enables the add-on's prep sequence.
const PrepSectionHeader = "[AFC_prep]"

// prepSectionBody is the fixed content line written under PrepSectionHeader.
const prepSectionBody = "enable: True"

const (
	// UpdateManagerHeader registers the add-on with Moonraker's update manager.
	UpdateManagerHeader = "[update_manager afc-software]"
)

// UpdateManagerBody is the fixed block body written under UpdateManagerHeader
// in moonraker.conf.
var UpdateManagerBody = []string{
	"type: git_repo",
	"path: ~/AFC-Klipper-Add-On",
	"origin: https://github.com/ArmoredTurtle/AFC-Klipper-Add-On.git",
	"managed_services: klipper",
	"primary_branch: main",
	"install_script: install-afc.sh",
}

// EnsureSection appends header plus its body lines at end-of-file when the
// header is not present anywhere in the file.
//
// Presence of the header alone is sufficient: the section is treated as
// already configured even if its existing body differs from body. A blank
// separator line precedes the appended section in a non-empty file.
func (p *Patcher) EnsureSection(path, header string, body ...string) (*Result, error) {
	result := &Result{Op: OpEnsureSection, Path: path}

	d, err := loadDocument(OpEnsureSection, path)
	if err != nil {
		return nil, err
	}

	if d.containsLine(header) {
		result.Outcome = OutcomeAlreadyPresent
		result.Reason = "section already present: " + header
		p.log().Info("section already present", "path", path, "section", header)
		return result, nil
	}

	at := len(d.lines)
	appended := make([]string, 0, len(body)+2)
	if at > 0 && !isBlank(d.lines[at-1]) {
		appended = append(appended, "")
	}
	appended = append(appended, header)
	appended = append(appended, body...)
	d.insertAt(at, appended...)
	for i, line := range appended {
		result.Changes = append(result.Changes, ChangeRecord{
			Line:  at + i + 1,
			Kind:  "append",
			After: line,
		})
	}

	result.Outcome = OutcomeApplied
	if err := p.commit(OpEnsureSection, d, result); err != nil {
		return nil, err
	}
	p.log().Info("section appended", "path", path, "section", header)
	return result, nil
}

// EnsurePrepSection ensures the [AFC_prep] section exists with its fixed
// enable line.
func (p *Patcher) EnsurePrepSection(path string) (*Result, error) {
	return p.EnsureSection(path, PrepSectionHeader, prepSectionBody)
}

// RegisterUpdateManager ensures the Moonraker update_manager block for the
// add-on exists in the service config at path. Structurally identical to
// EnsureSection against a different target file and marker.
func (p *Patcher) RegisterUpdateManager(path string) (*Result, error) {
	return p.EnsureSection(path, UpdateManagerHeader, UpdateManagerBody...)
}

// InsertExtruderBufferRef inserts "buffer: <name>" into the
// [AFC_extruder extruder] section, immediately before the section's first
// blank line (the conventional end-of-block delimiter).
//
// Only the first occurrence of the section is eligible. If a new section
// header is encountered before any blank line, no insertion point exists and
// the operation reports OutcomeSkipped without changing the file. A buffer
// key already present in the section reports OutcomeAlreadyPresent.
func (p *Patcher) InsertExtruderBufferRef(path, bufferName string) (*Result, error) {
	result := &Result{Op: OpInsertBufferRef, Path: path}

	d, err := loadDocument(OpInsertBufferRef, path)
	if err != nil {
		return nil, err
	}

	start := d.indexOf(ExtruderSectionHeader)
	if start < 0 {
		result.Outcome = OutcomeSkipped
		result.Reason = "section not found: " + ExtruderSectionHeader
		p.log().Warn("extruder section not found", "path", path)
		return result, nil
	}

	at := -1
	for i := start + 1; i < len(d.lines); i++ {
		line := d.lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), "buffer:") {
			result.Outcome = OutcomeAlreadyPresent
			result.Reason = "buffer reference already present"
			p.log().Info("buffer reference already present", "path", path)
			return result, nil
		}
		if isBlank(line) {
			at = i
			break
		}
		if isSectionHeader(line) {
			result.Outcome = OutcomeSkipped
			result.Reason = "no blank line before next section"
			p.log().Warn("no insertion point in extruder section", "path", path)
			return result, nil
		}
	}
	if at < 0 {
		// Section runs to end-of-file; append there.
		at = len(d.lines)
	}

	ref := "buffer: " + bufferName
	d.insertAt(at, ref)
	result.Outcome = OutcomeApplied
	result.Changes = append(result.Changes, ChangeRecord{
		Line:  at + 1,
		Kind:  "insert",
		After: ref,
	})
	if err := p.commit(OpInsertBufferRef, d, result); err != nil {
		return nil, err
	}
	p.log().Info("buffer reference inserted", "path", path, "buffer", bufferName, "line", at+1)
	return result, nil
}
