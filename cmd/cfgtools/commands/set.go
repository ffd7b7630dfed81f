package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/cfgtools/internal/cliutil"
	"github.com/erraggy/cfgtools/patcher"
)

// SetFlags contains flags for the set command
type SetFlags struct {
	DryRun bool
	Format string
}

// SetupSetFlags creates and configures a FlagSet for the set command.
// Returns the FlagSet and a SetFlags struct with bound flag variables.
func SetupSetFlags() (*flag.FlagSet, *SetFlags) {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	flags := &SetFlags{}

	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools set [flags] <file> <key> <value>\n\n")
		cliutil.Writef(fs.Output(), "Rewrite every 'key: value' line in the file to carry the new value,\n")
		cliutil.Writef(fs.Output(), "preserving indentation and trailing comments. Reports Skipped when the key\n")
		cliutil.Writef(fs.Output(), "does not appear in the file.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools set AFC/AFC.cfg speed 200\n")
		cliutil.Writef(fs.Output(), "  cfgtools set --dry-run AFC/AFC.cfg long_moves_speed 150\n")
	}

	return fs, flags
}

// HandleSet executes the set command
func HandleSet(args []string) error {
	fs, flags := SetupSetFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 3 {
		fs.Usage()
		return fmt.Errorf("set command requires <file> <key> <value>")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.SetKeyValue(fs.Arg(0), fs.Arg(1), fs.Arg(2))
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}

// PinFlags contains flags for the pin command
type PinFlags struct {
	DryRun bool
	Format string
}

// SetupPinFlags creates and configures a FlagSet for the pin command.
// Returns the FlagSet and a PinFlags struct with bound flag variables.
func SetupPinFlags() (*flag.FlagSet, *PinFlags) {
	fs := flag.NewFlagSet("pin", flag.ContinueOnError)
	flags := &PinFlags{}

	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools pin [flags] <file> <pin>\n\n")
		cliutil.Writef(fs.Output(), "Set %s inside the %s section, leaving identically\n", patcher.ToolStartPinKey, patcher.ExtruderSectionHeader)
		cliutil.Writef(fs.Output(), "named keys in other sections untouched.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools pin AFC/AFC_Hardware.cfg mcu:PB5\n")
	}

	return fs, flags
}

// HandlePin executes the pin command
func HandlePin(args []string) error {
	fs, flags := SetupPinFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("pin command requires <file> <pin>")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.SetToolStartPin(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}
