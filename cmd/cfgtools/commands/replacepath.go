package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/cfgtools/internal/cliutil"
	"github.com/erraggy/cfgtools/patcher"
)

// ReplacePathFlags contains flags for the replace-path command
type ReplacePathFlags struct {
	DryRun bool
	Format string
}

// SetupReplacePathFlags creates and configures a FlagSet for the replace-path command.
// Returns the FlagSet and a ReplacePathFlags struct with bound flag variables.
func SetupReplacePathFlags() (*flag.FlagSet, *ReplacePathFlags) {
	fs := flag.NewFlagSet("replace-path", flag.ContinueOnError)
	flags := &ReplacePathFlags{}

	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools replace-path [flags] <file> <old-path> <new-path>\n\n")
		cliutil.Writef(fs.Output(), "Replace every occurrence of a path substring in the file, e.g. to rewrite\n")
		cliutil.Writef(fs.Output(), "install locations after moving the add-on directory. The default install\n")
		cliutil.Writef(fs.Output(), "location is %s.\n\n", patcher.DefaultAFCPath)
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools replace-path AFC/AFC.cfg %s /opt/klipper/config/AFC\n", patcher.DefaultAFCPath)
	}

	return fs, flags
}

// HandleReplacePath executes the replace-path command
func HandleReplacePath(args []string) error {
	fs, flags := SetupReplacePathFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 3 {
		fs.Usage()
		return fmt.Errorf("replace-path command requires <file> <old-path> <new-path>")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.ReplacePath(fs.Arg(0), fs.Arg(1), fs.Arg(2))
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}
