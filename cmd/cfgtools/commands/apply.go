package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/erraggy/cfgtools/internal/cliutil"
	"github.com/erraggy/cfgtools/internal/systemd"
	"github.com/erraggy/cfgtools/patcher"
	"github.com/erraggy/cfgtools/plan"
)

// varsFlag collects repeated -var name=value flags.
type varsFlag map[string]string

func (v varsFlag) String() string {
	pairs := make([]string, 0, len(v))
	for k, val := range v {
		pairs = append(pairs, k+"="+val)
	}
	return strings.Join(pairs, ",")
}

func (v varsFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	v[name] = value
	return nil
}

// ApplyFlags contains flags for the apply command
type ApplyFlags struct {
	DryRun   bool
	Strict   bool
	Restarts bool
	Verbose  bool
	Format   string
	Vars     varsFlag
}

// SetupApplyFlags creates and configures a FlagSet for the apply command.
// Returns the FlagSet and an ApplyFlags struct with bound flag variables.
func SetupApplyFlags() (*flag.FlagSet, *ApplyFlags) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	flags := &ApplyFlags{Vars: varsFlag{}}

	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the plan without writing any file")
	fs.BoolVar(&flags.Strict, "strict", false, "abort on skipped or invalid actions instead of warning")
	fs.BoolVar(&flags.Restarts, "restarts", false, "execute restart actions via systemctl (default: record only)")
	fs.BoolVar(&flags.Verbose, "v", false, "log each action as it runs")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.Var(flags.Vars, "var", "set a plan variable as name=value (repeatable)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools apply [flags] <plan.yaml>\n\n")
		cliutil.Writef(fs.Output(), "Apply a YAML patch plan: an ordered list of patch actions with ${name}\n")
		cliutil.Writef(fs.Output(), "variable expansion. Plans are idempotent; re-applying one reports\n")
		cliutil.Writef(fs.Output(), "already-present outcomes and changes nothing.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools apply --var config_dir=~/printer_data/config install.yaml\n")
		cliutil.Writef(fs.Output(), "  cfgtools apply --dry-run --format json install.yaml\n")
		cliutil.Writef(fs.Output(), "  cfgtools apply --strict --restarts install.yaml\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Plan applied (warnings allowed)\n")
		cliutil.Writef(fs.Output(), "  1    Plan aborted or could not be loaded\n")
	}

	return fs, flags
}

// applyReport is the structured-output shape of a plan application.
type applyReport struct {
	Applied           int      `json:"applied"                      yaml:"applied"`
	AlreadyPresent    int      `json:"already_present"              yaml:"already_present"`
	Skipped           int      `json:"skipped"                      yaml:"skipped"`
	Invalid           int      `json:"invalid"                      yaml:"invalid"`
	Failed            int      `json:"failed"                       yaml:"failed"`
	RestartsRequested int      `json:"restarts_requested"           yaml:"restarts_requested"`
	DryRun            bool     `json:"dry_run,omitempty"            yaml:"dry_run,omitempty"`
	Warnings          []string `json:"warnings,omitempty"           yaml:"warnings,omitempty"`
}

// HandleApply executes the apply command
func HandleApply(args []string) error {
	fs, flags := SetupApplyFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("apply command requires exactly one plan file")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	opts := []plan.Option{
		plan.WithPlanFilePath(fs.Arg(0)),
		plan.WithStrict(flags.Strict),
		plan.WithDryRun(flags.DryRun),
	}
	if len(flags.Vars) > 0 {
		opts = append(opts, plan.WithVars(flags.Vars))
	}
	if flags.Restarts {
		opts = append(opts, plan.WithRestarter(systemd.NewRestarter()))
	}
	if flags.Verbose {
		opts = append(opts, plan.WithLogger(patcher.NewSlogAdapter(nil)))
	}

	result, err := plan.ApplyWithOptions(context.Background(), opts...)
	if err != nil {
		return err
	}

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		return OutputStructured(applyReport{
			Applied:           result.Applied,
			AlreadyPresent:    result.AlreadyPresent,
			Skipped:           result.Skipped,
			Invalid:           result.Invalid,
			Failed:            result.Failed,
			RestartsRequested: result.RestartsRequested,
			DryRun:            result.DryRun,
			Warnings:          result.Warnings,
		}, flags.Format)
	}

	for _, rec := range result.Records {
		if rec.File != "" {
			cliutil.Writef(os.Stdout, "%s: %s %s\n", TitleOutcome(rec.Outcome), rec.Op, rec.File)
		} else {
			cliutil.Writef(os.Stdout, "%s: %s\n", TitleOutcome(rec.Outcome), rec.Op)
		}
		if rec.Reason != "" {
			cliutil.Writef(os.Stdout, "  reason: %s\n", rec.Reason)
		}
	}

	cliutil.Writef(os.Stdout, "\n%d applied, %d already present, %d skipped, %d invalid, %d failed\n",
		result.Applied, result.AlreadyPresent, result.Skipped, result.Invalid, result.Failed)
	if result.HasWarnings() {
		cliutil.Writef(os.Stderr, "\nWarnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			cliutil.Writef(os.Stderr, "  %s\n", w)
		}
	}
	if result.DryRun {
		cliutil.Writef(os.Stdout, "(dry-run: no files were written)\n")
	}
	return nil
}
