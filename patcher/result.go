package patcher

import "fmt"

// Outcome classifies what a patch operation did to its target file.
//
// Every operation reports exactly one outcome, so callers and tests can assert
// on behavior uniformly instead of inferring it from log output.
type Outcome string

const (
	// OutcomeApplied indicates the file was modified.
	OutcomeApplied Outcome = "applied"

	// OutcomeAlreadyPresent indicates the desired construct already existed
	// and the file was left untouched.
	OutcomeAlreadyPresent Outcome = "already-present"

	// OutcomeSkipped indicates no locator match or insertion point was found;
	// the file was left untouched.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeInvalidInput indicates an enumerated argument was not recognized;
	// no file was touched.
	OutcomeInvalidInput Outcome = "invalid-input"
)

// Operation names reported in Result.Op and used by plan documents.
const (
	OpManageInclude   = "manage-include"
	OpSetValue        = "set-value"
	OpSetPin          = "set-pin"
	OpUncommentBoard  = "uncomment-board"
	OpInjectBuffer    = "inject-buffer"
	OpEnsureSection   = "ensure-section"
	OpReplacePath     = "replace-path"
	OpInsertBufferRef = "buffer-ref"
)

// ChangeRecord describes a single line-level change made by an operation.
type ChangeRecord struct {
	// Line is the 1-based line number in the rewritten file.
	Line int

	// Kind describes what was done: "insert", "replace", "delete", or "append".
	Kind string

	// Before is the original line ("" for insertions and appends).
	Before string

	// After is the resulting line ("" for deletions).
	After string
}

// Result contains the outcome of a single patch operation.
type Result struct {
	// Op is the operation name (one of the Op* constants).
	Op string

	// Path is the target file.
	Path string

	// Outcome classifies what happened.
	Outcome Outcome

	// Reason is a short human-readable explanation for non-applied outcomes.
	Reason string

	// Changes records every line-level change, in file order.
	Changes []ChangeRecord

	// DryRun is true if the changes were computed but not written.
	DryRun bool
}

// Changed returns true if the operation modified (or, in dry-run mode, would
// modify) the file.
func (r *Result) Changed() bool {
	return r.Outcome == OutcomeApplied && len(r.Changes) > 0
}

// String returns a one-line summary suitable for log output.
func (r *Result) String() string {
	if r.Reason != "" {
		return fmt.Sprintf("%s %s: %s (%s)", r.Op, r.Path, r.Outcome, r.Reason)
	}
	return fmt.Sprintf("%s %s: %s (%d changes)", r.Op, r.Path, r.Outcome, len(r.Changes))
}
