package patcher

import (
	"sort"
	"strings"
)

// BoardType identifies a supported control-board variant.
type BoardType string

const (
	// BoardMMB10 is the Mellow MMB v1.0 board.
	BoardMMB10 BoardType = "MMB_1.0"

	// BoardMMB11 is the Mellow MMB v1.1 board.
	BoardMMB11 BoardType = "MMB_1.1"

	// BoardAFCLite is the AFC-Lite board.
	BoardAFCLite BoardType = "AFC_Lite"
)

// boardIncludes is the closed dispatch table from board type to the exact
// commented-out mcu include line shipped in the hardware template. Keeping
// the table literal keeps the match surface closed and auditable; no pattern
// is constructed from caller input.
var boardIncludes = map[BoardType]string{
	BoardMMB10:   "[include mcu/MMB_1.0.cfg]",
	BoardMMB11:   "[include mcu/MMB_1.1.cfg]",
	BoardAFCLite: "[include mcu/AFC_Lite.cfg]",
}

// ValidBoardTypes returns the supported board types, sorted.
func ValidBoardTypes() []string {
	types := make([]string, 0, len(boardIncludes))
	for bt := range boardIncludes {
		types = append(types, string(bt))
	}
	sort.Strings(types)
	return types
}

// UncommentBoardInclude activates the mcu include for the given board by
// rewriting the exactly-matching commented line "#[include mcu/<board>.cfg]"
// to its uncommented form.
//
// Commented includes for other board variants are left untouched. An unknown
// board reports OutcomeInvalidInput and rewrites nothing.
func (p *Patcher) UncommentBoardInclude(path string, board BoardType) (*Result, error) {
	result := &Result{Op: OpUncommentBoard, Path: path}

	include, ok := boardIncludes[board]
	if !ok {
		result.Outcome = OutcomeInvalidInput
		result.Reason = "unknown board type: " + string(board)
		p.log().Error("unknown board type", "board", string(board), "path", path)
		return result, nil
	}
	commented := "#" + include

	d, err := loadDocument(OpUncommentBoard, path)
	if err != nil {
		return nil, err
	}

	for i, line := range d.lines {
		if strings.TrimSpace(line) != commented {
			continue
		}
		result.Changes = append(result.Changes, ChangeRecord{
			Line:   i + 1,
			Kind:   "replace",
			Before: line,
			After:  include,
		})
		d.lines[i] = include
	}

	if len(result.Changes) == 0 {
		if d.containsLine(include) {
			result.Outcome = OutcomeAlreadyPresent
			result.Reason = "board include already active"
			p.log().Info("board include already active", "path", path, "board", string(board))
		} else {
			result.Outcome = OutcomeSkipped
			result.Reason = "no commented include found for board"
			p.log().Warn("no commented include found", "path", path, "board", string(board))
		}
		return result, nil
	}

	result.Outcome = OutcomeApplied
	if err := p.commit(OpUncommentBoard, d, result); err != nil {
		return nil, err
	}
	p.log().Info("board include activated", "path", path, "board", string(board))
	return result, nil
}
