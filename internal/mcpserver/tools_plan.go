package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/cfgtools/internal/systemd"
	"github.com/erraggy/cfgtools/plan"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type planValidateInput struct {
	Plan string `json:"plan,omitempty"      jsonschema:"Inline plan document (YAML or JSON)"`
	File string `json:"file,omitempty"      jsonschema:"Path of a plan file. Exactly one of plan or file must be set."`
}

type planIssue struct {
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

type planValidateOutput struct {
	Valid  bool        `json:"valid"`
	Errors []planIssue `json:"errors,omitempty"`
}

func handlePlanValidate(_ context.Context, _ *mcp.CallToolRequest, input planValidateInput) (*mcp.CallToolResult, planValidateOutput, error) {
	p, err := resolvePlanInput(input.Plan, input.File)
	if err != nil {
		return errResult(err), planValidateOutput{}, nil
	}

	errs := plan.Validate(p)
	output := planValidateOutput{Valid: len(errs) == 0}
	output.Errors = makeSlice[planIssue](len(errs))
	for _, e := range errs {
		output.Errors = append(output.Errors, planIssue{
			Field:   e.Field,
			Path:    e.Path,
			Message: e.Message,
		})
	}
	return nil, output, nil
}

type planApplyInput struct {
	Plan   string            `json:"plan,omitempty"    jsonschema:"Inline plan document (YAML or JSON)"`
	File   string            `json:"file,omitempty"    jsonschema:"Path of a plan file. Exactly one of plan or file must be set."`
	Vars   map[string]string `json:"vars,omitempty"    jsonschema:"Variable values for ${name} expansion, overriding the plan's vars block"`
	Strict *bool             `json:"strict,omitempty"  jsonschema:"Abort on skipped or invalid actions instead of warning"`
	DryRun bool              `json:"dry_run,omitempty" jsonschema:"Preview the plan without writing any file"`
}

type planActionRecord struct {
	ActionIndex int    `json:"action_index"`
	Op          string `json:"op"`
	File        string `json:"file,omitempty"`
	Outcome     string `json:"outcome"`
	Changes     int    `json:"changes,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type planApplyOutput struct {
	Applied           int                `json:"applied"`
	AlreadyPresent    int                `json:"already_present"`
	Skipped           int                `json:"skipped"`
	Invalid           int                `json:"invalid"`
	Failed            int                `json:"failed"`
	RestartsRequested int                `json:"restarts_requested"`
	DryRun            bool               `json:"dry_run,omitempty"`
	Records           []planActionRecord `json:"records,omitempty"`
	Warnings          []string           `json:"warnings,omitempty"`
	Summary           string             `json:"summary"`
}

func handlePlanApply(ctx context.Context, _ *mcp.CallToolRequest, input planApplyInput) (*mcp.CallToolResult, planApplyOutput, error) {
	p, err := resolvePlanInput(input.Plan, input.File)
	if err != nil {
		return errResult(err), planApplyOutput{}, nil
	}

	strict := cfg.ApplyStrict
	if input.Strict != nil {
		strict = *input.Strict
	}

	vars := map[string]string{}
	if cfg.ConfigDir != "" {
		vars["config_dir"] = cfg.ConfigDir
	}
	for k, v := range input.Vars {
		vars[k] = v
	}

	a := plan.NewApplier()
	a.Strict = strict
	a.DryRun = input.DryRun
	a.Vars = vars
	if cfg.RestartEnabled {
		a.Restarter = systemd.NewRestarter()
	}

	result, err := a.Apply(ctx, p)
	if err != nil {
		return errResult(err), planApplyOutput{}, nil
	}

	output := planApplyOutput{
		Applied:           result.Applied,
		AlreadyPresent:    result.AlreadyPresent,
		Skipped:           result.Skipped,
		Invalid:           result.Invalid,
		Failed:            result.Failed,
		RestartsRequested: result.RestartsRequested,
		DryRun:            result.DryRun,
		Warnings:          result.Warnings,
	}
	output.Records = makeSlice[planActionRecord](len(result.Records))
	for _, rec := range result.Records {
		output.Records = append(output.Records, planActionRecord{
			ActionIndex: rec.ActionIndex,
			Op:          rec.Op,
			File:        rec.File,
			Outcome:     string(rec.Outcome),
			Changes:     rec.Changes,
			Reason:      rec.Reason,
		})
	}
	output.Summary = buildPlanApplySummary(result)

	return nil, output, nil
}

// buildPlanApplySummary renders a one-line human-readable summary.
func buildPlanApplySummary(result *plan.ApplyResult) string {
	summary := fmt.Sprintf("%d applied, %d already present, %d skipped",
		result.Applied, result.AlreadyPresent, result.Skipped)
	if result.Invalid > 0 {
		summary += fmt.Sprintf(", %d invalid", result.Invalid)
	}
	if result.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", result.Failed)
	}
	if result.DryRun {
		summary = "dry-run: " + summary
	}
	return summary
}

// resolvePlanInput loads a plan from exactly one of inline content or a file
// path.
func resolvePlanInput(inline, file string) (*plan.Plan, error) {
	switch {
	case inline != "" && file != "":
		return nil, fmt.Errorf("set exactly one of plan or file, not both")
	case inline != "":
		return plan.Parse([]byte(inline))
	case file != "":
		return plan.ParseFile(file)
	default:
		return nil, fmt.Errorf("set one of plan or file")
	}
}
