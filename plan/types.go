package plan

import (
	"fmt"

	"github.com/erraggy/cfgtools/patcher"
)

// Plan represents a declarative patch plan document.
type Plan struct {
	// Version is the plan format version (e.g., "1").
	// This field is required.
	Version string `yaml:"plan" json:"plan"`

	// Info contains metadata about the plan.
	// This field is required.
	Info Info `yaml:"info" json:"info"`

	// Vars maps variable names to values for ${name} expansion in action
	// fields. Variables supplied at apply time override these.
	Vars map[string]string `yaml:"vars,omitempty" json:"vars,omitempty"`

	// Actions is the ordered list of patch actions.
	// At least one action is required.
	Actions []Action `yaml:"actions" json:"actions"`
}

// Info contains metadata about a plan document.
type Info struct {
	// Title is the human-readable name of the plan.
	// This field is required.
	Title string `yaml:"title" json:"title"`

	// Version is the version of the plan document.
	// This field is required.
	Version string `yaml:"version" json:"version"`
}

// Op names for plan actions. Each maps to one patcher operation, except
// OpRestart which invokes the Restarter collaborator.
const (
	OpInclude        = "include"
	OpSetValue       = "set-value"
	OpSetPin         = "set-pin"
	OpUncommentBoard = "uncomment-board"
	OpInjectBuffer   = "inject-buffer"
	OpEnsureSection  = "ensure-section"
	OpReplacePath    = "replace-path"
	OpBufferRef      = "buffer-ref"
	OpRestart        = "restart"
)

// Action represents a single action in a plan.
//
// Op selects the operation; the remaining fields are op-specific and ignored
// by ops that do not use them. All string fields are subject to ${name}
// variable expansion before the action runs.
type Action struct {
	// Op selects the operation. This field is required.
	Op string `yaml:"op" json:"op"`

	// Description is an optional human-readable explanation of the action.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// File is the path of the file to patch. Required by every op except
	// restart.
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// IncludeAction is "add" or "remove". Used by op include.
	IncludeAction string `yaml:"action,omitempty" json:"action,omitempty"`

	// Key is the option name to set. Used by op set-value.
	Key string `yaml:"key,omitempty" json:"key,omitempty"`

	// Value is the option value to set. Used by op set-value.
	Value string `yaml:"value,omitempty" json:"value,omitempty"`

	// Pin is the MCU pin name. Used by op set-pin.
	Pin string `yaml:"pin,omitempty" json:"pin,omitempty"`

	// Board is the control board type. Used by op uncomment-board.
	Board string `yaml:"board,omitempty" json:"board,omitempty"`

	// Buffer is the buffer system identifier. Used by ops inject-buffer and
	// buffer-ref.
	Buffer string `yaml:"buffer,omitempty" json:"buffer,omitempty"`

	// MCUFile is the path of the MCU include file. Used by op inject-buffer.
	MCUFile string `yaml:"mcu_file,omitempty" json:"mcu_file,omitempty"`

	// Section is the section header to ensure, e.g. "[AFC_prep]". Used by op
	// ensure-section.
	Section string `yaml:"section,omitempty" json:"section,omitempty"`

	// Body is the section body written when the section is created. Used by
	// op ensure-section.
	Body []string `yaml:"body,omitempty" json:"body,omitempty"`

	// OldPath is the substring to replace. Used by op replace-path.
	OldPath string `yaml:"old_path,omitempty" json:"old_path,omitempty"`

	// NewPath is the replacement substring. Used by op replace-path.
	NewPath string `yaml:"new_path,omitempty" json:"new_path,omitempty"`

	// Service is the service name to restart. Used by op restart.
	Service string `yaml:"service,omitempty" json:"service,omitempty"`
}

// ApplyResult contains the result of applying a plan.
type ApplyResult struct {
	// Records holds one entry per action that ran, in plan order.
	Records []ActionRecord

	// Applied is the number of actions that modified a file.
	Applied int

	// AlreadyPresent is the number of actions whose change already existed.
	AlreadyPresent int

	// Skipped is the number of actions whose target was not found.
	Skipped int

	// Invalid is the number of actions with an unrecognized enumerated value.
	Invalid int

	// Failed is the number of actions that errored and were recorded as
	// warnings (non-strict mode only).
	Failed int

	// RestartsRequested is the number of restart actions executed, or that
	// would execute under dry-run.
	RestartsRequested int

	// DryRun reports whether the plan ran in preview mode with no file
	// writes.
	DryRun bool

	// Warnings contains rendered warning messages, one per structured
	// warning.
	Warnings []string

	// StructuredWarnings contains detailed warning information with context.
	StructuredWarnings ApplyWarnings
}

// AddWarning adds a structured warning and its rendered message.
func (r *ApplyResult) AddWarning(w *ApplyWarning) {
	r.StructuredWarnings = append(r.StructuredWarnings, w)
	r.Warnings = append(r.Warnings, w.String())
}

// HasChanges returns true if any action modified a file.
func (r *ApplyResult) HasChanges() bool {
	return r.Applied > 0
}

// HasWarnings returns true if any warnings were generated.
func (r *ApplyResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ActionRecord describes what a single plan action did.
type ActionRecord struct {
	// ActionIndex is the zero-based index of the action in the plan.
	ActionIndex int

	// Op is the action's operation name.
	Op string

	// File is the patched file path after variable expansion. Empty for
	// restart actions.
	File string

	// Outcome classifies what the action did. Restart actions report
	// OutcomeApplied.
	Outcome patcher.Outcome

	// Changes is the number of line changes the action made.
	Changes int

	// Reason explains a non-applied outcome, when the operation supplied one.
	Reason string
}

// PlanWarningCategory identifies the type of plan warning.
type PlanWarningCategory string

const (
	// WarnActionError indicates an action returned an error.
	WarnActionError PlanWarningCategory = "action_error"
	// WarnSkipped indicates an action found no target to patch.
	WarnSkipped PlanWarningCategory = "skipped"
	// WarnInvalidInput indicates an action carried an unrecognized
	// enumerated value.
	WarnInvalidInput PlanWarningCategory = "invalid_input"
	// WarnRestartFailed indicates the Restarter returned an error.
	WarnRestartFailed PlanWarningCategory = "restart_failed"
)

// ApplyWarning represents a structured warning from plan application.
type ApplyWarning struct {
	// Category identifies the type of warning.
	Category PlanWarningCategory
	// ActionIndex is the zero-based index of the action.
	ActionIndex int
	// Op is the action's operation name.
	Op string
	// File is the file path involved, if any.
	File string
	// Message describes the warning.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// String renders the warning as a single-line message.
func (w *ApplyWarning) String() string {
	msg := fmt.Sprintf("action[%d] %s", w.ActionIndex, w.Op)
	if w.File != "" {
		msg += " " + w.File
	}
	msg += ": " + w.Message
	if w.Cause != nil {
		msg += ": " + w.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (w *ApplyWarning) Unwrap() error {
	return w.Cause
}

// ApplyWarnings is a collection of structured warnings.
type ApplyWarnings []*ApplyWarning

// ByCategory returns the warnings with the given category.
func (ws ApplyWarnings) ByCategory(category PlanWarningCategory) ApplyWarnings {
	var out ApplyWarnings
	for _, w := range ws {
		if w.Category == category {
			out = append(out, w)
		}
	}
	return out
}
