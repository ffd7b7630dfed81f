package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/cfgtools/internal/cliutil"
	"github.com/erraggy/cfgtools/patcher"
)

// IncludeFlags contains flags for the include command
type IncludeFlags struct {
	Remove bool
	DryRun bool
	Format string
}

// SetupIncludeFlags creates and configures a FlagSet for the include command.
// Returns the FlagSet and an IncludeFlags struct with bound flag variables.
func SetupIncludeFlags() (*flag.FlagSet, *IncludeFlags) {
	fs := flag.NewFlagSet("include", flag.ContinueOnError)
	flags := &IncludeFlags{}

	fs.BoolVar(&flags.Remove, "remove", false, "remove the include directive instead of adding it")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools include [flags] <printer.cfg>\n\n")
		cliutil.Writef(fs.Output(), "Add or remove the %s directive in printer.cfg.\n\n", patcher.IncludeDirective)
		cliutil.Writef(fs.Output(), "Adding inserts the directive above the SAVE_CONFIG marker (or appends when\n")
		cliutil.Writef(fs.Output(), "no marker exists) and is a no-op when it is already present. Removing\n")
		cliutil.Writef(fs.Output(), "deletes every copy of the directive.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools include ~/printer_data/config/printer.cfg\n")
		cliutil.Writef(fs.Output(), "  cfgtools include --remove ~/printer_data/config/printer.cfg\n")
		cliutil.Writef(fs.Output(), "  cfgtools include --dry-run --format json printer.cfg\n")
	}

	return fs, flags
}

// HandleInclude executes the include command
func HandleInclude(args []string) error {
	fs, flags := SetupIncludeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("include command requires exactly one file path")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	action := patcher.IncludeAdd
	if flags.Remove {
		action = patcher.IncludeRemove
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.ManageInclude(fs.Arg(0), action)
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}
