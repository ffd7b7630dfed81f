package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/cfgtools/internal/cliutil"
	"github.com/erraggy/cfgtools/patcher"
)

// BufferFlags contains flags for the buffer command
type BufferFlags struct {
	MCUFile string
	DryRun  bool
	Format  string
}

// SetupBufferFlags creates and configures a FlagSet for the buffer command.
// Returns the FlagSet and a BufferFlags struct with bound flag variables.
func SetupBufferFlags() (*flag.FlagSet, *BufferFlags) {
	fs := flag.NewFlagSet("buffer", flag.ContinueOnError)
	flags := &BufferFlags{}

	fs.StringVar(&flags.MCUFile, "mcu-file", "", "path of the MCU include file (required)")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the files")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools buffer [flags] <hardware-file> <buffer>\n\n")
		cliutil.Writef(fs.Output(), "Append a filament buffer configuration block to the hardware file and,\n")
		cliutil.Writef(fs.Output(), "when the buffer needs one, insert its MCU include into the MCU file\n")
		cliutil.Writef(fs.Output(), "grouped with the existing mcu includes.\n\n")
		cliutil.Writef(fs.Output(), "Buffer systems: %s.\n\n", strings.Join(patcher.ValidBufferSystems(), ", "))
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools buffer --mcu-file AFC/AFC_Turtle_1.cfg AFC/AFC_Hardware.cfg TurtleNeck\n")
		cliutil.Writef(fs.Output(), "  cfgtools buffer --mcu-file AFC/AFC_Turtle_1.cfg --dry-run AFC/AFC_Hardware.cfg TurtleNeckV2\n")
	}

	return fs, flags
}

// HandleBuffer executes the buffer command
func HandleBuffer(args []string) error {
	fs, flags := SetupBufferFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("buffer command requires <hardware-file> <buffer>")
	}
	if flags.MCUFile == "" {
		fs.Usage()
		return fmt.Errorf("buffer command requires --mcu-file")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.InjectBufferBlock(fs.Arg(0), flags.MCUFile, patcher.BufferSystem(fs.Arg(1)))
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}

// BufferRefFlags contains flags for the buffer-ref command
type BufferRefFlags struct {
	DryRun bool
	Format string
}

// SetupBufferRefFlags creates and configures a FlagSet for the buffer-ref command.
// Returns the FlagSet and a BufferRefFlags struct with bound flag variables.
func SetupBufferRefFlags() (*flag.FlagSet, *BufferRefFlags) {
	fs := flag.NewFlagSet("buffer-ref", flag.ContinueOnError)
	flags := &BufferRefFlags{}

	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview the edit without writing the file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: cfgtools buffer-ref [flags] <file> <buffer>\n\n")
		cliutil.Writef(fs.Output(), "Insert a 'buffer: <name>' line into the %s section\n", patcher.ExtruderSectionHeader)
		cliutil.Writef(fs.Output(), "for the chosen buffer system.\n\n")
		cliutil.Writef(fs.Output(), "Buffer systems: %s.\n\n", strings.Join(patcher.ValidBufferSystems(), ", "))
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  cfgtools buffer-ref AFC/AFC_Hardware.cfg TurtleNeck\n")
	}

	return fs, flags
}

// HandleBufferRef executes the buffer-ref command
func HandleBufferRef(args []string) error {
	fs, flags := SetupBufferRefFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("buffer-ref command requires <file> <buffer>")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	name, err := patcher.BufferName(patcher.BufferSystem(fs.Arg(1)))
	if err != nil {
		return err
	}

	p := patcher.New()
	p.DryRun = flags.DryRun
	res, err := p.InsertExtruderBufferRef(fs.Arg(0), name)
	if err != nil {
		return err
	}
	return OutputResult(res, flags.Format)
}
