package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/cfgtools"
	"github.com/erraggy/cfgtools/cmd/cfgtools/commands"
	"github.com/erraggy/cfgtools/internal/mcpserver"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("cfgtools v%s\n", cfgtools.Version())
	case "help", "-h", "--help":
		printUsage()
	case "include":
		run(commands.HandleInclude)
	case "set":
		run(commands.HandleSet)
	case "pin":
		run(commands.HandlePin)
	case "uncomment":
		run(commands.HandleUncomment)
	case "buffer":
		run(commands.HandleBuffer)
	case "buffer-ref":
		run(commands.HandleBufferRef)
	case "prep":
		run(commands.HandlePrep)
	case "update-manager":
		run(commands.HandleUpdateManager)
	case "replace-path":
		run(commands.HandleReplacePath)
	case "apply":
		run(commands.HandleApply)
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := mcpserver.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// commandNames lists every dispatchable command for typo suggestions.
var commandNames = []string{
	"include", "set", "pin", "uncomment", "buffer", "buffer-ref",
	"prep", "update-manager", "replace-path", "apply", "mcp",
	"version", "help",
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDistance := 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDistance {
			best = name
			bestDistance = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// run executes a command handler with the remaining arguments.
func run(handler func(args []string) error) {
	if err := handler(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cfgtools - Klipper configuration patch tools

Usage:
  cfgtools <command> [options]

Commands:
  include         Add or remove the AFC include directive in printer.cfg
  set             Rewrite a 'key: value' option in a configuration file
  pin             Set pin_tool_start in the extruder section
  uncomment       Activate the MCU include for a control board type
  buffer          Install a filament buffer block and its MCU include
  buffer-ref      Reference a buffer from the extruder section
  prep            Ensure the AFC prep section exists
  update-manager  Register the add-on with Moonraker's update manager
  replace-path    Rewrite install paths in a configuration file
  apply           Apply a YAML patch plan
  mcp             Run the MCP server over stdio
  version         Show version information
  help            Show this help message

Examples:
  cfgtools include ~/printer_data/config/printer.cfg
  cfgtools set AFC/AFC.cfg speed 200
  cfgtools uncomment AFC/AFC_Turtle_1.cfg MMB_1.0
  cfgtools buffer --mcu-file AFC/AFC_Turtle_1.cfg AFC/AFC_Hardware.cfg TurtleNeck
  cfgtools apply --var config_dir=~/printer_data/config install.yaml

Run 'cfgtools <command> --help' for more information on a command.`)
}
