package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/cfgtools/internal/cliutil"
	"github.com/erraggy/cfgtools/patcher"
)

// PrepFlags contains flags for the prep command
type PrepFlags struct {
	DryRun bool
	Format string
}

// SetupPrepFlags creates and configures a FlagSet for the prep command.
// Returns the FlagSet and a PrepFlags struct with bound flag variables.
func SetupPrepFlags() (*flag.FlagSet, *PrepFlags) {
	fs := flag.NewFlagSet("prep", flag.ContinueOnError)
	flags := &PrepFlags{}

	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools prep [flags] <file>\n\n")
		cliutil.Writef(fs.Output(), "Ensure the %s section with 'enable: True' exists in the file,\n", patcher.PrepSectionHeader)
		cliutil.Writef(fs.Output(), "appending it when missing.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools prep AFC/AFC.cfg\n")
	}

	return fs, flags
}

// HandlePrep executes the prep command
func HandlePrep(args []string) error {
	fs, flags := SetupPrepFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("prep command requires exactly one file path")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.EnsurePrepSection(fs.Arg(0))
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}

// UpdateManagerFlags contains flags for the update-manager command
type UpdateManagerFlags struct {
	DryRun bool
	Format string
}

// SetupUpdateManagerFlags creates and configures a FlagSet for the update-manager command.
// Returns the FlagSet and an UpdateManagerFlags struct with bound flag variables.
func SetupUpdateManagerFlags() (*flag.FlagSet, *UpdateManagerFlags) {
	fs := flag.NewFlagSet("update-manager", flag.ContinueOnError)
	flags := &UpdateManagerFlags{}

	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools update-manager [flags] <moonraker.conf>\n\n")
		cliutil.Writef(fs.Output(), "Ensure the %s section is present in moonraker.conf\n", patcher.UpdateManagerHeader)
		cliutil.Writef(fs.Output(), "so Moonraker tracks the add-on for updates.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools update-manager ~/printer_data/config/moonraker.conf\n")
	}

	return fs, flags
}

// HandleUpdateManager executes the update-manager command
func HandleUpdateManager(args []string) error {
	fs, flags := SetupUpdateManagerFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("update-manager command requires exactly one file path")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.RegisterUpdateManager(fs.Arg(0))
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}
