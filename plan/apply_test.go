package plan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/cfgtools/patcher"
)

func writePlanFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

func readPlanFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// TestApply runs a multi-action plan end to end.
func TestApply(t *testing.T) {
	dir := t.TempDir()
	printer := writePlanFixture(t, dir, "printer.cfg", "[printer]\nkinematics: corexy\n")
	afc := writePlanFixture(t, dir, "AFC.cfg", "[AFC]\nspeed: 120\n")

	var restarted []string
	a := NewApplier()
	a.Vars = map[string]string{"config_dir": dir}
	a.Restarter = patcher.RestarterFunc(func(_ context.Context, service string) error {
		restarted = append(restarted, service)
		return nil
	})

	p := &Plan{
		Version: "1",
		Info:    Info{Title: "Install", Version: "1.0.0"},
		Actions: []Action{
			{Op: OpInclude, File: "${config_dir}/printer.cfg", IncludeAction: "add"},
			{Op: OpSetValue, File: "${config_dir}/AFC.cfg", Key: "speed", Value: "200"},
			{Op: OpRestart, Service: "klipper"},
		},
	}

	result, err := a.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if result.Applied != 2 {
		t.Errorf("Applied = %d, want 2", result.Applied)
	}
	if result.RestartsRequested != 1 {
		t.Errorf("RestartsRequested = %d, want 1", result.RestartsRequested)
	}
	if len(result.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(result.Records))
	}
	if result.Records[1].File != afc {
		t.Errorf("Records[1].File = %q, want expanded %q", result.Records[1].File, afc)
	}
	if result.HasWarnings() {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	if got := readPlanFixture(t, printer); !strings.Contains(got, patcher.IncludeDirective) {
		t.Errorf("include directive missing from printer.cfg:\n%s", got)
	}
	if got := readPlanFixture(t, afc); !strings.Contains(got, "speed: 200") {
		t.Errorf("value not rewritten in AFC.cfg:\n%s", got)
	}
	if len(restarted) != 1 || restarted[0] != "klipper" {
		t.Errorf("restarted = %v, want [klipper]", restarted)
	}
}

// TestApplyIdempotent re-runs the same plan and expects no further changes.
func TestApplyIdempotent(t *testing.T) {
	dir := t.TempDir()
	writePlanFixture(t, dir, "printer.cfg", "[printer]\nkinematics: corexy\n")

	p := &Plan{
		Version: "1",
		Info:    Info{Title: "Install", Version: "1.0.0"},
		Vars:    map[string]string{"config_dir": dir},
		Actions: []Action{
			{Op: OpInclude, File: "${config_dir}/printer.cfg", IncludeAction: "add"},
			{Op: OpEnsureSection, File: "${config_dir}/printer.cfg", Section: patcher.PrepSectionHeader, Body: []string{"enable: True"}},
		},
	}

	a := NewApplier()
	first, err := a.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("first Apply error: %v", err)
	}
	if first.Applied != 2 {
		t.Fatalf("first Applied = %d, want 2", first.Applied)
	}

	second, err := a.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("second Apply error: %v", err)
	}
	if second.Applied != 0 {
		t.Errorf("second Applied = %d, want 0", second.Applied)
	}
	if second.AlreadyPresent != 2 {
		t.Errorf("second AlreadyPresent = %d, want 2", second.AlreadyPresent)
	}
}

// TestApplyVarExpansion tests variable precedence and undefined references.
func TestApplyVarExpansion(t *testing.T) {
	t.Run("applier vars override plan vars", func(t *testing.T) {
		dir := t.TempDir()
		writePlanFixture(t, dir, "AFC.cfg", "[AFC]\nspeed: 120\n")

		p := &Plan{
			Version: "1",
			Info:    Info{Title: "Vars", Version: "1.0.0"},
			Vars:    map[string]string{"config_dir": "/wrong/path"},
			Actions: []Action{
				{Op: OpSetValue, File: "${config_dir}/AFC.cfg", Key: "speed", Value: "200"},
			},
		}

		a := NewApplier()
		a.Vars = map[string]string{"config_dir": dir}
		result, err := a.Apply(context.Background(), p)
		if err != nil {
			t.Fatalf("Apply error: %v", err)
		}
		if result.Applied != 1 {
			t.Errorf("Applied = %d, want 1", result.Applied)
		}
	})

	t.Run("undefined variable aborts", func(t *testing.T) {
		p := &Plan{
			Version: "1",
			Info:    Info{Title: "Vars", Version: "1.0.0"},
			Actions: []Action{
				{Op: OpSetPin, File: "${missing}/AFC.cfg", Pin: "PB5"},
			},
		}

		_, err := NewApplier().Apply(context.Background(), p)
		var ve *VarError
		if !errors.As(err, &ve) {
			t.Fatalf("error = %v, want *VarError", err)
		}
		if ve.Name != "missing" {
			t.Errorf("VarError.Name = %q, want %q", ve.Name, "missing")
		}
	})
}

// TestApplyStrict tests strict-mode aborts versus non-strict warnings.
func TestApplyStrict(t *testing.T) {
	newPlan := func(dir string) *Plan {
		return &Plan{
			Version: "1",
			Info:    Info{Title: "Strict", Version: "1.0.0"},
			Vars:    map[string]string{"config_dir": dir},
			Actions: []Action{
				{Op: OpSetValue, File: "${config_dir}/AFC.cfg", Key: "no_such_key", Value: "1"},
			},
		}
	}

	t.Run("non-strict records a skip warning", func(t *testing.T) {
		dir := t.TempDir()
		writePlanFixture(t, dir, "AFC.cfg", "[AFC]\nspeed: 120\n")

		result, err := NewApplier().Apply(context.Background(), newPlan(dir))
		if err != nil {
			t.Fatalf("Apply error: %v", err)
		}
		if result.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", result.Skipped)
		}
		warns := result.StructuredWarnings.ByCategory(WarnSkipped)
		if len(warns) != 1 {
			t.Fatalf("skip warnings = %d, want 1", len(warns))
		}
	})

	t.Run("strict aborts on skip", func(t *testing.T) {
		dir := t.TempDir()
		writePlanFixture(t, dir, "AFC.cfg", "[AFC]\nspeed: 120\n")

		a := NewApplier()
		a.Strict = true
		_, err := a.Apply(context.Background(), newPlan(dir))
		var ae *ApplyError
		if !errors.As(err, &ae) {
			t.Fatalf("error = %v, want *ApplyError", err)
		}
		if ae.ActionIndex != 0 {
			t.Errorf("ApplyError.ActionIndex = %d, want 0", ae.ActionIndex)
		}
	})

	t.Run("strict aborts on unknown buffer", func(t *testing.T) {
		dir := t.TempDir()
		writePlanFixture(t, dir, "AFC_Hardware.cfg", "[AFC_hub Turtle_1]\n")
		writePlanFixture(t, dir, "AFC_Turtle.cfg", "[include mcu/MMB_1.0.cfg]\n")

		p := &Plan{
			Version: "1",
			Info:    Info{Title: "Strict", Version: "1.0.0"},
			Vars:    map[string]string{"config_dir": dir},
			Actions: []Action{
				{
					Op:      OpInjectBuffer,
					File:    "${config_dir}/AFC_Hardware.cfg",
					MCUFile: "${config_dir}/AFC_Turtle.cfg",
					Buffer:  "HyperDrive",
				},
			},
		}

		a := NewApplier()
		a.Strict = true
		if _, err := a.Apply(context.Background(), p); err == nil {
			t.Fatal("expected error for unknown buffer system")
		}
	})
}

// TestApplyInvalidEnum tests the non-strict handling of unknown enum values.
func TestApplyInvalidEnum(t *testing.T) {
	dir := t.TempDir()
	writePlanFixture(t, dir, "AFC_Turtle.cfg", "#[include mcu/MMB_1.0.cfg]\n")

	p := &Plan{
		Version: "1",
		Info:    Info{Title: "Enum", Version: "1.0.0"},
		Vars:    map[string]string{"config_dir": dir},
		Actions: []Action{
			{Op: OpUncommentBoard, File: "${config_dir}/AFC_Turtle.cfg", Board: "NOT_A_BOARD"},
		},
	}

	result, err := NewApplier().Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if result.Invalid != 1 {
		t.Errorf("Invalid = %d, want 1", result.Invalid)
	}
	warns := result.StructuredWarnings.ByCategory(WarnInvalidInput)
	if len(warns) != 1 {
		t.Fatalf("invalid-input warnings = %d, want 1", len(warns))
	}
}

// TestApplyMissingFile tests that an unreadable target becomes a warning.
func TestApplyMissingFile(t *testing.T) {
	p := &Plan{
		Version: "1",
		Info:    Info{Title: "Missing", Version: "1.0.0"},
		Actions: []Action{
			{Op: OpSetPin, File: "/nonexistent/AFC.cfg", Pin: "PB5"},
		},
	}

	result, err := NewApplier().Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	warns := result.StructuredWarnings.ByCategory(WarnActionError)
	if len(warns) != 1 {
		t.Fatalf("action-error warnings = %d, want 1", len(warns))
	}
}

// TestApplyRestartFailure tests that restart errors never abort the plan.
func TestApplyRestartFailure(t *testing.T) {
	dir := t.TempDir()
	writePlanFixture(t, dir, "printer.cfg", "[printer]\n")

	p := &Plan{
		Version: "1",
		Info:    Info{Title: "Restart", Version: "1.0.0"},
		Vars:    map[string]string{"config_dir": dir},
		Actions: []Action{
			{Op: OpRestart, Service: "klipper"},
			{Op: OpInclude, File: "${config_dir}/printer.cfg", IncludeAction: "add"},
		},
	}

	a := NewApplier()
	a.Strict = true
	a.Restarter = patcher.RestarterFunc(func(_ context.Context, service string) error {
		return fmt.Errorf("systemctl restart %s: exit status 1", service)
	})

	result, err := a.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if result.Applied != 1 {
		t.Errorf("Applied = %d, want the include to still run", result.Applied)
	}
	warns := result.StructuredWarnings.ByCategory(WarnRestartFailed)
	if len(warns) != 1 {
		t.Fatalf("restart warnings = %d, want 1", len(warns))
	}
}

// TestApplyDryRun tests that preview mode writes nothing.
func TestApplyDryRun(t *testing.T) {
	dir := t.TempDir()
	const original = "[printer]\nkinematics: corexy\n"
	printer := writePlanFixture(t, dir, "printer.cfg", original)

	restarts := 0
	p := &Plan{
		Version: "1",
		Info:    Info{Title: "Preview", Version: "1.0.0"},
		Vars:    map[string]string{"config_dir": dir},
		Actions: []Action{
			{Op: OpInclude, File: "${config_dir}/printer.cfg", IncludeAction: "add"},
			{Op: OpRestart, Service: "klipper"},
		},
	}

	a := NewApplier()
	a.Restarter = patcher.RestarterFunc(func(context.Context, string) error {
		restarts++
		return nil
	})

	result, err := a.Preview(context.Background(), p)
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if !result.DryRun {
		t.Error("DryRun = false, want true")
	}
	if result.Applied != 1 {
		t.Errorf("Applied = %d, want 1 proposed change", result.Applied)
	}
	if result.RestartsRequested != 1 {
		t.Errorf("RestartsRequested = %d, want 1", result.RestartsRequested)
	}
	if restarts != 0 {
		t.Errorf("restarter invoked %d times during dry-run", restarts)
	}
	if got := readPlanFixture(t, printer); got != original {
		t.Errorf("file modified during dry-run:\n%s", got)
	}
}

// TestApplyValidation tests that an invalid plan is rejected before any action
// runs.
func TestApplyValidation(t *testing.T) {
	_, err := NewApplier().Apply(context.Background(), &Plan{})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

// TestApplyWithOptions tests the functional-options entry points.
func TestApplyWithOptions(t *testing.T) {
	t.Run("plan from file", func(t *testing.T) {
		dir := t.TempDir()
		writePlanFixture(t, dir, "AFC.cfg", "[AFC]\nspeed: 120\n")
		planPath := writePlanFixture(t, dir, "install.yaml", `
plan: "1"
info:
  title: Options
  version: 1.0.0
actions:
  - op: set-value
    file: ${config_dir}/AFC.cfg
    key: speed
    value: "200"
`)

		result, err := ApplyWithOptions(context.Background(),
			WithPlanFilePath(planPath),
			WithVars(map[string]string{"config_dir": dir}),
		)
		if err != nil {
			t.Fatalf("ApplyWithOptions error: %v", err)
		}
		if result.Applied != 1 {
			t.Errorf("Applied = %d, want 1", result.Applied)
		}
	})

	t.Run("missing plan source", func(t *testing.T) {
		if _, err := ApplyWithOptions(context.Background()); err == nil {
			t.Fatal("expected error without a plan source")
		}
	})

	t.Run("conflicting plan sources", func(t *testing.T) {
		_, err := ApplyWithOptions(context.Background(),
			WithPlanFilePath("a.yaml"),
			WithPlanParsed(&Plan{}),
		)
		if err == nil {
			t.Fatal("expected error with two plan sources")
		}
	})

	t.Run("dry run with options", func(t *testing.T) {
		dir := t.TempDir()
		const original = "[AFC]\nspeed: 120\n"
		afc := writePlanFixture(t, dir, "AFC.cfg", original)

		result, err := DryRunWithOptions(context.Background(),
			WithPlanParsed(&Plan{
				Version: "1",
				Info:    Info{Title: "Preview", Version: "1.0.0"},
				Actions: []Action{
					{Op: OpSetValue, File: afc, Key: "speed", Value: "200"},
				},
			}),
		)
		if err != nil {
			t.Fatalf("DryRunWithOptions error: %v", err)
		}
		if !result.DryRun {
			t.Error("DryRun = false, want true")
		}
		if got := readPlanFixture(t, afc); got != original {
			t.Errorf("file modified during dry-run:\n%s", got)
		}
	})
}
