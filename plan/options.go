package plan

import (
	"context"
	"fmt"

	"github.com/erraggy/cfgtools/patcher"
)

// Option is a function that configures a plan application operation.
type Option func(*applyConfig) error

// applyConfig holds configuration for a plan application operation.
type applyConfig struct {
	// Input source for the plan (exactly one must be set)
	planFilePath *string
	planParsed   *Plan

	// Configuration options
	vars      map[string]string
	strict    bool
	dryRun    bool
	logger    patcher.Logger
	restarter patcher.Restarter
}

// WithPlanFilePath specifies a file path as the plan input source.
func WithPlanFilePath(path string) Option {
	return func(cfg *applyConfig) error {
		if path == "" {
			return fmt.Errorf("plan path cannot be empty")
		}
		cfg.planFilePath = &path
		return nil
	}
}

// WithPlanParsed specifies an already-parsed plan as the input source.
func WithPlanParsed(p *Plan) Option {
	return func(cfg *applyConfig) error {
		if p == nil {
			return fmt.Errorf("plan cannot be nil")
		}
		cfg.planParsed = p
		return nil
	}
}

// WithVars supplies variable values for ${name} expansion, overriding the
// plan's own vars block. Later calls merge over earlier ones.
func WithVars(vars map[string]string) Option {
	return func(cfg *applyConfig) error {
		if cfg.vars == nil {
			cfg.vars = make(map[string]string, len(vars))
		}
		for k, v := range vars {
			cfg.vars[k] = v
		}
		return nil
	}
}

// WithStrict enables strict mode where skipped, invalid-input and failed
// actions abort the plan instead of becoming warnings.
func WithStrict(strict bool) Option {
	return func(cfg *applyConfig) error {
		cfg.strict = strict
		return nil
	}
}

// WithDryRun previews the plan without writing any file or restarting any
// service.
func WithDryRun(dryRun bool) Option {
	return func(cfg *applyConfig) error {
		cfg.dryRun = dryRun
		return nil
	}
}

// WithLogger supplies the logger that receives progress events.
func WithLogger(logger patcher.Logger) Option {
	return func(cfg *applyConfig) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithRestarter supplies the collaborator that handles restart actions.
func WithRestarter(restarter patcher.Restarter) Option {
	return func(cfg *applyConfig) error {
		if restarter == nil {
			return fmt.Errorf("restarter cannot be nil")
		}
		cfg.restarter = restarter
		return nil
	}
}

// applyOptions applies all options and returns the configuration.
func applyOptions(opts ...Option) (*applyConfig, error) {
	cfg := &applyConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Validate exactly one plan source
	planSourceCount := 0
	if cfg.planFilePath != nil {
		planSourceCount++
	}
	if cfg.planParsed != nil {
		planSourceCount++
	}

	if planSourceCount == 0 {
		return nil, fmt.Errorf("must specify a plan source (use WithPlanFilePath or WithPlanParsed)")
	}
	if planSourceCount > 1 {
		return nil, fmt.Errorf("must specify exactly one plan source")
	}

	return cfg, nil
}

// loadPlan parses the plan from the configuration.
func loadPlan(cfg *applyConfig) (*Plan, error) {
	if cfg.planFilePath != nil {
		return ParseFile(*cfg.planFilePath)
	}
	return cfg.planParsed, nil
}

// ApplyWithOptions applies a plan using functional options.
//
// This is the recommended API for most use cases.
//
// Example:
//
//	result, err := plan.ApplyWithOptions(ctx,
//	    plan.WithPlanFilePath("install.yaml"),
//	    plan.WithVars(map[string]string{"config_dir": dir}),
//	    plan.WithStrict(true),
//	)
func ApplyWithOptions(ctx context.Context, opts ...Option) (*ApplyResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("plan: invalid options: %w", err)
	}

	p, err := loadPlan(cfg)
	if err != nil {
		return nil, err
	}

	a := &Applier{
		Strict:    cfg.strict,
		DryRun:    cfg.dryRun,
		Vars:      cfg.vars,
		Logger:    cfg.logger,
		Restarter: cfg.restarter,
	}
	return a.Apply(ctx, p)
}

// DryRunWithOptions previews a plan using functional options, without writing
// any file or restarting any service.
func DryRunWithOptions(ctx context.Context, opts ...Option) (*ApplyResult, error) {
	return ApplyWithOptions(ctx, append(opts, WithDryRun(true))...)
}
