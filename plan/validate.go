package plan

import (
	"fmt"
	"sort"
)

// SupportedVersion is the plan format version supported by this implementation.
const SupportedVersion = "1"

// ValidOps returns the recognized action op names in sorted order.
func ValidOps() []string {
	ops := []string{
		OpInclude,
		OpSetValue,
		OpSetPin,
		OpUncommentBoard,
		OpInjectBuffer,
		OpEnsureSection,
		OpReplacePath,
		OpBufferRef,
		OpRestart,
	}
	sort.Strings(ops)
	return ops
}

// Validate checks a plan document for structural errors.
//
// Returns a slice of validation errors. An empty slice indicates the plan is
// valid. Validation checks include:
//   - Required fields (plan version, info.title, info.version, actions)
//   - Supported plan version (currently only "1")
//   - Recognized op names
//   - Required op-specific fields
//
// Enumerated values such as board and buffer identifiers are not checked
// here; the patcher operations normalize unknown identifiers at apply time.
func Validate(p *Plan) []ValidationError {
	var errs []ValidationError

	if p.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "plan",
			Message: "version is required",
		})
	} else if p.Version != SupportedVersion {
		errs = append(errs, ValidationError{
			Field:   "plan",
			Message: fmt.Sprintf("unsupported version %q; only %q is supported", p.Version, SupportedVersion),
		})
	}

	if p.Info.Title == "" {
		errs = append(errs, ValidationError{
			Field:   "info.title",
			Message: "title is required",
		})
	}

	if p.Info.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "info.version",
			Message: "version is required",
		})
	}

	if len(p.Actions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "actions",
			Message: "at least one action is required",
		})
	}

	for i, action := range p.Actions {
		errs = append(errs, validateAction(action, i)...)
	}

	return errs
}

// validateAction validates a single action.
func validateAction(action Action, index int) []ValidationError {
	var errs []ValidationError
	pathPrefix := fmt.Sprintf("actions[%d]", index)

	requireField := func(name, value string) {
		if value == "" {
			errs = append(errs, ValidationError{
				Path:    pathPrefix + "." + name,
				Message: name + " is required for op " + action.Op,
			})
		}
	}

	switch action.Op {
	case "":
		errs = append(errs, ValidationError{
			Path:    pathPrefix + ".op",
			Message: "op is required",
		})
	case OpInclude:
		requireField("file", action.File)
		requireField("action", action.IncludeAction)
	case OpSetValue:
		requireField("file", action.File)
		requireField("key", action.Key)
		requireField("value", action.Value)
	case OpSetPin:
		requireField("file", action.File)
		requireField("pin", action.Pin)
	case OpUncommentBoard:
		requireField("file", action.File)
		requireField("board", action.Board)
	case OpInjectBuffer:
		requireField("file", action.File)
		requireField("mcu_file", action.MCUFile)
		requireField("buffer", action.Buffer)
	case OpEnsureSection:
		requireField("file", action.File)
		requireField("section", action.Section)
	case OpReplacePath:
		requireField("file", action.File)
		requireField("old_path", action.OldPath)
		requireField("new_path", action.NewPath)
	case OpBufferRef:
		requireField("file", action.File)
		requireField("buffer", action.Buffer)
	case OpRestart:
		requireField("service", action.Service)
	default:
		errs = append(errs, ValidationError{
			Path:    pathPrefix + ".op",
			Message: fmt.Sprintf("unknown op %q", action.Op),
		})
	}

	return errs
}

// IsValid is a convenience function that returns true if the plan has no
// validation errors.
func IsValid(p *Plan) bool {
	return len(Validate(p)) == 0
}
