package patcher

import (
	"path/filepath"
	"strings"
)

// DefaultAFCPath is the config-tree path the shipped templates refer to.
// ReplacePath rewrites it to the environment's actual base directory.
const DefaultAFCPath = "~/printer_data/config/AFC"

// AFCPath returns the add-on config-tree path under the given base
// configuration directory.
func AFCPath(baseDir string) string {
	return filepath.Join(baseDir, "AFC")
}

// ReplacePath replaces every literal occurrence of oldPath with newPath in
// the file, on every qualifying line.
//
// The match is an exact substring match applied per line, so multiple
// occurrences on one line and occurrences spread across many lines are all
// rewritten. A file without any occurrence reports OutcomeSkipped.
func (p *Patcher) ReplacePath(path, oldPath, newPath string) (*Result, error) {
	result := &Result{Op: OpReplacePath, Path: path}

	if oldPath == "" {
		result.Outcome = OutcomeInvalidInput
		result.Reason = "old path is empty"
		p.log().Error("old path is empty", "path", path)
		return result, nil
	}

	d, err := loadDocument(OpReplacePath, path)
	if err != nil {
		return nil, err
	}

	for i, line := range d.lines {
		if !strings.Contains(line, oldPath) {
			continue
		}
		updated := strings.ReplaceAll(line, oldPath, newPath)
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

	if len(result.Changes) == 0 {
		result.Outcome = OutcomeSkipped
		result.Reason = "path not found: " + oldPath
		p.log().Info("path not found", "path", path, "old", oldPath)
		return result, nil
	}

	result.Outcome = OutcomeApplied
	if err := p.commit(OpReplacePath, d, result); err != nil {
		return nil, err
	}
	p.log().Info("paths rewritten", "path", path, "old", oldPath, "new", newPath, "lines", len(result.Changes))
	return result, nil
}
