package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/cfgtools/internal/cliutil"
	"github.com/erraggy/cfgtools/patcher"
)

// UncommentFlags contains flags for the uncomment command
type UncommentFlags struct {
	DryRun bool
	Format string
}

// SetupUncommentFlags creates and configures a FlagSet for the uncomment command.
// Returns the FlagSet and an UncommentFlags struct with bound flag variables.
func SetupUncommentFlags() (*flag.FlagSet, *UncommentFlags) {
	fs := flag.NewFlagSet("uncomment", flag.ContinueOnError)
	flags := &UncommentFlags{}

	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools uncomment [flags] <file> <board>\n\n")
		cliutil.Writef(fs.Output(), "Activate the MCU include line for a control board type by stripping its\n")
		cliutil.Writef(fs.Output(), "leading comment marker. Board types: %s.\n\n", strings.Join(patcher.ValidBoardTypes(), ", "))
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools uncomment AFC/AFC_Turtle_1.cfg MMB_1.0\n")
		cliutil.Writef(fs.Output(), "  cfgtools uncomment --dry-run AFC/AFC_Turtle_1.cfg AFC_Lite\n")
	}

	return fs, flags
}

// HandleUncomment executes the uncomment command
func HandleUncomment(args []string) error {
	fs, flags := SetupUncommentFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("uncomment command requires <file> <board>")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.UncommentBoardInclude(fs.Arg(0), patcher.BoardType(fs.Arg(1)))
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}
