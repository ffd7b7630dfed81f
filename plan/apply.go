package plan

import (
	"context"
	"fmt"
	"regexp"

	"github.com/erraggy/cfgtools/patcher"
)

// Applier runs plan documents against configuration files.
type Applier struct {
	// Strict causes Apply to return an error when an action's outcome is
	// skipped or invalid-input, or when an action fails. Restart failures are
	// always warnings, even in strict mode.
	Strict bool

	// DryRun previews the plan without writing any file or restarting any
	// service.
	DryRun bool

	// Vars supplies variable values for ${name} expansion, overriding the
	// plan's own vars block.
	Vars map[string]string

	// Logger receives progress events. Nil means no logging.
	Logger patcher.Logger

	// Restarter handles restart actions. Nil means restarts are recorded but
	// not executed.
	Restarter patcher.Restarter
}

// NewApplier creates a new Applier with default settings.
func NewApplier() *Applier {
	return &Applier{}
}

// Apply validates the plan and runs its actions in order.
//
// Each file action's outcome is tallied in the returned ApplyResult. In
// non-strict mode, failed, skipped and invalid-input actions become warnings
// and the plan continues; in strict mode they abort with an error. An
// undefined ${name} variable reference always aborts.
func (a *Applier) Apply(ctx context.Context, p *Plan) (*ApplyResult, error) {
	if errs := Validate(p); len(errs) > 0 {
		return nil, errs[0]
	}

	vars := mergeVars(p.Vars, a.Vars)
	patch := &patcher.Patcher{Logger: a.logger(), DryRun: a.DryRun}
	result := &ApplyResult{DryRun: a.DryRun}

	for i, action := range p.Actions {
		if err := ctx.Err(); err != nil {
			return nil, &ApplyError{ActionIndex: i, Op: action.Op, Cause: err}
		}

		expanded, err := expandAction(action, vars, i)
		if err != nil {
			return nil, err
		}

		if expanded.Op == OpRestart {
			a.runRestart(ctx, expanded, i, result)
			continue
		}

		res, err := a.runPatch(patch, expanded)
		if res != nil {
			rec := ActionRecord{
				ActionIndex: i,
				Op:          expanded.Op,
				File:        expanded.File,
				Outcome:     res.Outcome,
				Changes:     len(res.Changes),
				Reason:      res.Reason,
			}
			result.Records = append(result.Records, rec)
			a.tally(result, rec, i)
		}
		if err != nil {
			if a.Strict {
				return nil, &ApplyError{ActionIndex: i, Op: expanded.Op, Cause: err}
			}
			result.AddWarning(&ApplyWarning{
				Category:    WarnActionError,
				ActionIndex: i,
				Op:          expanded.Op,
				File:        expanded.File,
				Message:     "action failed",
				Cause:       err,
			})
			if res == nil {
				result.Failed++
			}
			continue
		}
		if a.Strict && res != nil && res.Outcome != patcher.OutcomeApplied && res.Outcome != patcher.OutcomeAlreadyPresent {
			return nil, &ApplyError{
				ActionIndex: i,
				Op:          expanded.Op,
				Cause:       fmt.Errorf("outcome %s: %s", res.Outcome, res.Reason),
			}
		}
	}

	return result, nil
}

// Preview runs the plan in dry-run mode regardless of the Applier's DryRun
// setting: the same records and tallies are produced, but nothing is written
// and no service is restarted.
func (a *Applier) Preview(ctx context.Context, p *Plan) (*ApplyResult, error) {
	preview := *a
	preview.DryRun = true
	return preview.Apply(ctx, p)
}

// tally updates the outcome counters and emits warnings for non-applied
// outcomes.
func (a *Applier) tally(result *ApplyResult, rec ActionRecord, index int) {
	switch rec.Outcome {
	case patcher.OutcomeApplied:
		result.Applied++
	case patcher.OutcomeAlreadyPresent:
		result.AlreadyPresent++
	case patcher.OutcomeSkipped:
		result.Skipped++
		result.AddWarning(&ApplyWarning{
			Category:    WarnSkipped,
			ActionIndex: index,
			Op:          rec.Op,
			File:        rec.File,
			Message:     rec.Reason,
		})
	case patcher.OutcomeInvalidInput:
		result.Invalid++
		result.AddWarning(&ApplyWarning{
			Category:    WarnInvalidInput,
			ActionIndex: index,
			Op:          rec.Op,
			File:        rec.File,
			Message:     rec.Reason,
		})
	}
}

// runPatch dispatches a file action to the patcher operation its op names.
func (a *Applier) runPatch(patch *patcher.Patcher, action Action) (*patcher.Result, error) {
	switch action.Op {
	case OpInclude:
		return patch.ManageInclude(action.File, patcher.IncludeAction(action.IncludeAction))
	case OpSetValue:
		return patch.SetKeyValue(action.File, action.Key, action.Value)
	case OpSetPin:
		return patch.SetToolStartPin(action.File, action.Pin)
	case OpUncommentBoard:
		return patch.UncommentBoardInclude(action.File, patcher.BoardType(action.Board))
	case OpInjectBuffer:
		return patch.InjectBufferBlock(action.File, action.MCUFile, patcher.BufferSystem(action.Buffer))
	case OpEnsureSection:
		return patch.EnsureSection(action.File, action.Section, action.Body...)
	case OpReplacePath:
		return patch.ReplacePath(action.File, action.OldPath, action.NewPath)
	case OpBufferRef:
		name, err := patcher.BufferName(patcher.BufferSystem(action.Buffer))
		if err != nil {
			return &patcher.Result{
				Op:      patcher.OpInsertBufferRef,
				Path:    action.File,
				Outcome: patcher.OutcomeInvalidInput,
				Reason:  err.Error(),
			}, nil
		}
		return patch.InsertExtruderBufferRef(action.File, name)
	default:
		// Validate rejects unknown ops before Apply reaches here.
		return nil, fmt.Errorf("unknown op %q", action.Op)
	}
}

// runRestart executes a restart action. Failures become warnings and never
// abort the plan.
func (a *Applier) runRestart(ctx context.Context, action Action, index int, result *ApplyResult) {
	result.RestartsRequested++
	rec := ActionRecord{
		ActionIndex: index,
		Op:          OpRestart,
		Outcome:     patcher.OutcomeApplied,
	}

	switch {
	case a.DryRun:
		rec.Reason = "dry-run: restart not executed"
	case a.Restarter == nil:
		rec.Reason = "no restarter configured"
	default:
		a.logger().Info("restarting service", "service", action.Service)
		if err := a.Restarter.Restart(ctx, action.Service); err != nil {
			rec.Outcome = patcher.OutcomeSkipped
			rec.Reason = "restart failed"
			result.AddWarning(&ApplyWarning{
				Category:    WarnRestartFailed,
				ActionIndex: index,
				Op:          OpRestart,
				Message:     "failed to restart " + action.Service,
				Cause:       err,
			})
			a.logger().Warn("service restart failed", "service", action.Service, "error", err)
		}
	}

	result.Records = append(result.Records, rec)
}

func (a *Applier) logger() patcher.Logger {
	if a.Logger == nil {
		return patcher.NopLogger{}
	}
	return a.Logger
}

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandAction expands ${name} references in every string field of the
// action. An undefined variable yields a VarError.
func expandAction(action Action, vars map[string]string, index int) (Action, error) {
	var expandErr error
	expand := func(s string) string {
		if expandErr != nil || s == "" {
			return s
		}
		return varPattern.ReplaceAllStringFunc(s, func(match string) string {
			name := varPattern.FindStringSubmatch(match)[1]
			value, ok := vars[name]
			if !ok {
				if expandErr == nil {
					expandErr = &VarError{ActionIndex: index, Name: name}
				}
				return match
			}
			return value
		})
	}

	action.File = expand(action.File)
	action.IncludeAction = expand(action.IncludeAction)
	action.Key = expand(action.Key)
	action.Value = expand(action.Value)
	action.Pin = expand(action.Pin)
	action.Board = expand(action.Board)
	action.Buffer = expand(action.Buffer)
	action.MCUFile = expand(action.MCUFile)
	action.Section = expand(action.Section)
	action.OldPath = expand(action.OldPath)
	action.NewPath = expand(action.NewPath)
	action.Service = expand(action.Service)
	for i, line := range action.Body {
		action.Body[i] = expand(line)
	}

	if expandErr != nil {
		return Action{}, expandErr
	}
	return action, nil
}

// mergeVars overlays override values onto base without mutating either.
func mergeVars(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
