package patcher

import (
	"github.com/erraggy/cfgtools/cfgerrors"
)

// IncludeAction selects what ManageInclude does with the include directive.
type IncludeAction string

const (
	// IncludeAdd ensures the include directive is present exactly once.
	IncludeAdd IncludeAction = "add"

	// IncludeRemove deletes every line exactly equal to the directive.
	IncludeRemove IncludeAction = "remove"
)

const (
	// IncludeDirective is the literal include line that activates the add-on's
	// configuration tree in printer.cfg.
	IncludeDirective = "[include AFC/*.cfg]"

	// SaveConfigMarker is the delimiter Klipper writes above its persisted
	// SAVE_CONFIG state. User configuration must stay above it, so the include
	// directive is inserted immediately before the first occurrence.
	SaveConfigMarker = "#*# <---------------------- SAVE_CONFIG ---------------------->"
)

// ManageInclude ensures the add-on include directive is present or absent in
// the file at path.
//
// With IncludeAdd, the directive is inserted before the SAVE_CONFIG marker
// when one exists, otherwise appended as the last line; if the directive is
// already present anywhere this is a no-op. With IncludeRemove, every line
// exactly equal to the directive is deleted. Any other action reports
// OutcomeInvalidInput without touching the file.
func (p *Patcher) ManageInclude(path string, action IncludeAction) (*Result, error) {
	result := &Result{Op: OpManageInclude, Path: path}

	switch action {
	case IncludeAdd, IncludeRemove:
	default:
		result.Outcome = OutcomeInvalidInput
		result.Reason = "unknown include action: " + string(action)
		p.log().Error("unknown include action", "action", string(action), "path", path)
		return result, nil
	}

	d, err := loadDocument(OpManageInclude, path)
	if err != nil {
		return nil, err
	}

	if action == IncludeAdd {
		return p.addInclude(d, result)
	}
	return p.removeInclude(d, result)
}

func (p *Patcher) addInclude(d *document, result *Result) (*Result, error) {
	if d.containsLine(IncludeDirective) {
		result.Outcome = OutcomeAlreadyPresent
		result.Reason = "include directive already present"
		p.log().Info("include directive already present", "path", d.path)
		return result, nil
	}

	at := d.indexOf(SaveConfigMarker)
	if at < 0 {
		at = len(d.lines)
	}
	d.insertAt(at, IncludeDirective)

	result.Outcome = OutcomeApplied
	result.Changes = append(result.Changes, ChangeRecord{
		Line:  at + 1,
		Kind:  "insert",
		After: IncludeDirective,
	})
	if err := p.commit(OpManageInclude, d, result); err != nil {
		return nil, err
	}
	p.log().Info("include directive added", "path", d.path, "line", at+1)
	return result, nil
}

func (p *Patcher) removeInclude(d *document, result *Result) (*Result, error) {
	kept := d.lines[:0:0]
	for i, line := range d.lines {
		if line == IncludeDirective {
			result.Changes = append(result.Changes, ChangeRecord{
				Line:   i + 1,
				Kind:   "delete",
				Before: line,
			})
			continue
		}
		kept = append(kept, line)
	}

	if len(result.Changes) == 0 {
		result.Outcome = OutcomeSkipped
		result.Reason = "include directive not present"
		p.log().Info("include directive not present", "path", d.path)
		return result, nil
	}

	d.lines = kept
	result.Outcome = OutcomeApplied
	if err := p.commit(OpManageInclude, d, result); err != nil {
		return nil, err
	}
	p.log().Info("include directive removed", "path", d.path, "count", len(result.Changes))
	return result, nil
}

// ValidIncludeActions returns the accepted include actions.
func ValidIncludeActions() []string {
	return []string{string(IncludeAdd), string(IncludeRemove)}
}

// ParseIncludeAction converts a string to an IncludeAction.
func ParseIncludeAction(s string) (IncludeAction, error) {
	switch IncludeAction(s) {
	case IncludeAdd:
		return IncludeAdd, nil
	case IncludeRemove:
		return IncludeRemove, nil
	default:
		return "", &cfgerrors.InvalidInputError{Kind: "action", Value: s, Valid: ValidIncludeActions()}
	}
}
