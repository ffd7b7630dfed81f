// Package plan provides declarative batch patching of Klipper-style
// configuration files.
//
// A plan is a YAML document listing patch actions in order. Each action names
// one of the operations from the patcher package plus the fields that
// operation needs. Plans make an installer's edit sequence reviewable and
// repeatable: the same plan applied twice leaves the files unchanged.
//
// # Quick Start
//
// Apply a plan using functional options (recommended):
//
//	result, err := plan.ApplyWithOptions(ctx,
//	    plan.WithPlanFilePath("install.yaml"),
//	    plan.WithVars(map[string]string{"config_dir": "~/printer_data/config"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Applied %d actions\n", result.Applied)
//
// Or use a reusable Applier instance:
//
//	a := plan.NewApplier()
//	a.Strict = true
//	result, err := a.Apply(ctx, p)
//
// # Plan Document Structure
//
// A plan document contains:
//   - plan: The plan format version (must be "1")
//   - info: Metadata with title and version
//   - vars: Optional map of variables for ${name} expansion
//   - actions: Ordered list of patch actions
//
// Example plan document:
//
//	plan: "1"
//	info:
//	  title: Install AFC
//	  version: 1.0.0
//	vars:
//	  config_dir: ~/printer_data/config
//	actions:
//	  - op: include
//	    file: ${config_dir}/printer.cfg
//	    action: add
//	  - op: set-value
//	    file: ${config_dir}/AFC/AFC.cfg
//	    key: speed
//	    value: "200"
//	  - op: restart
//	    service: klipper
//
// # Actions
//
// Each action's op selects a patcher operation: include, set-value, set-pin,
// uncomment-board, inject-buffer, ensure-section, replace-path and buffer-ref
// edit files; restart asks the configured Restarter to restart a service.
// Restart failures are reported as warnings and never abort the plan.
//
// # Strict Mode
//
// By default an action whose outcome is skipped or invalid-input is counted
// and reported as a warning, and the plan continues. With Strict enabled such
// an action aborts the plan with an error instead.
//
// # Dry-Run Preview
//
// Preview a plan without writing any file:
//
//	result, _ := plan.DryRunWithOptions(ctx,
//	    plan.WithPlanFilePath("install.yaml"),
//	)
//	for _, rec := range result.Records {
//	    fmt.Printf("would %s %s: %s\n", rec.Op, rec.File, rec.Outcome)
//	}
package plan
