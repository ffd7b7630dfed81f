// Package commands provides CLI command handlers for cfgtools.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/cfgtools/internal/cliutil"
	"github.com/erraggy/cfgtools/patcher"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(string(bytes))
	return nil
}

// titleCaser renders outcome and op names as Unicode-correct title case for
// text reports.
var titleCaser = cases.Title(language.English)

// TitleOutcome renders an outcome such as "already-present" as "Already
// Present" for text reports.
func TitleOutcome(outcome patcher.Outcome) string {
	return titleCaser.String(strings.ReplaceAll(string(outcome), "-", " "))
}

// resultChange mirrors patcher.ChangeRecord for structured output.
type resultChange struct {
	Line   int    `json:"line"             yaml:"line"`
	Kind   string `json:"kind"             yaml:"kind"`
	Before string `json:"before,omitempty" yaml:"before,omitempty"`
	After  string `json:"after,omitempty"  yaml:"after,omitempty"`
}

// resultReport is the structured-output shape of a single patch result.
type resultReport struct {
	Op      string         `json:"op"                yaml:"op"`
	File    string         `json:"file"              yaml:"file"`
	Outcome string         `json:"outcome"           yaml:"outcome"`
	Reason  string         `json:"reason,omitempty"  yaml:"reason,omitempty"`
	DryRun  bool           `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Changes []resultChange `json:"changes,omitempty" yaml:"changes,omitempty"`
}

func newResultReport(res *patcher.Result) resultReport {
	report := resultReport{
		Op:      res.Op,
		File:    res.Path,
		Outcome: string(res.Outcome),
		Reason:  res.Reason,
		DryRun:  res.DryRun,
	}
	for _, c := range res.Changes {
		report.Changes = append(report.Changes, resultChange{
			Line:   c.Line,
			Kind:   c.Kind,
			Before: c.Before,
			After:  c.After,
		})
	}
	return report
}

// OutputResult renders a patch result in the requested format. Text output
// goes to stdout; structured formats use OutputStructured.
func OutputResult(res *patcher.Result, format string) error {
	if format == FormatJSON || format == FormatYAML {
		return OutputStructured(newResultReport(res), format)
	}

	cliutil.Writef(os.Stdout, "%s: %s %s\n", TitleOutcome(res.Outcome), res.Op, res.Path)
	if res.Reason != "" {
		cliutil.Writef(os.Stdout, "  reason: %s\n", res.Reason)
	}
	for _, c := range res.Changes {
		switch c.Kind {
		case "insert", "append":
			cliutil.Writef(os.Stdout, "  line %d: + %s\n", c.Line, c.After)
		case "delete":
			cliutil.Writef(os.Stdout, "  line %d: - %s\n", c.Line, c.Before)
		default:
			cliutil.Writef(os.Stdout, "  line %d: %s -> %s\n", c.Line, c.Before, c.After)
		}
	}
	if res.DryRun {
		cliutil.Writef(os.Stdout, "  (dry-run: no files were written)\n")
	}
	return nil
}
