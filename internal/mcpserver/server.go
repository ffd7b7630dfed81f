// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes cfgtools capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/cfgtools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `cfgtools MCP server — patches Klipper-style configuration files for the AFC add-on: include directives, option values, pins, board and buffer wiring, and declarative patch plans.

Every patch tool is idempotent: re-running it against an already-patched file reports already-present and changes nothing. Use dry_run=true on any tool to preview the edit without writing the file.

Configuration: All defaults are configurable via CFGTOOLS_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- CFGTOOLS_CONFIG_DIR — default value for the ${config_dir} plan variable
- CFGTOOLS_APPLY_STRICT (default: false) — strict plan application by default
- CFGTOOLS_RESTART_ENABLED (default: false) — allow plan restart actions to execute`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "cfgtools", Version: cfgtools.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "manage_include",
		Description: "Add or remove the [include AFC/*.cfg] directive in a printer.cfg file. Adding inserts the directive above the SAVE_CONFIG marker (or appends when no marker exists) and is a no-op when it is already present. Removing deletes every copy of the directive.",
	}, handleManageInclude)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_value",
		Description: "Rewrite every 'key: value' line in a configuration file to carry a new value, preserving indentation and trailing comments. Reports skipped when the key does not appear.",
	}, handleSetValue)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_pin",
		Description: "Set the pin_tool_start value inside the [AFC_extruder extruder] section, leaving identically named keys in other sections untouched.",
	}, handleSetPin)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "uncomment_board",
		Description: "Activate the MCU include line for a control board type (MMB_1.0, MMB_1.1, AFC_Lite) by stripping its leading comment marker. Reports invalid-input for unknown board types without touching the file.",
	}, handleUncommentBoard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inject_buffer",
		Description: "Append a filament buffer configuration block (TurtleNeck, TurtleNeckV2, AnnexBelay) to the hardware file and, when the buffer needs one, insert its MCU include into the MCU file grouped with the existing mcu includes. Errors on unknown buffer systems.",
	}, handleInjectBuffer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ensure_prep",
		Description: "Ensure the [AFC_prep] section with 'enable: True' exists in a configuration file, appending it when missing.",
	}, handleEnsurePrep)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "register_update_manager",
		Description: "Ensure the [update_manager afc-software] section is present in moonraker.conf so Moonraker tracks the add-on for updates.",
	}, handleRegisterUpdateManager)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "buffer_ref",
		Description: "Insert a 'buffer: <name>' line into the [AFC_extruder extruder] section for the chosen buffer system. Reports skipped when the section has no insertion point.",
	}, handleBufferRef)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "replace_path",
		Description: "Replace every occurrence of a path substring in a configuration file, e.g. to rewrite install locations after moving the add-on directory.",
	}, handleReplacePath)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_validate",
		Description: "Validate a patch plan document: required fields, supported version, recognized op names, and op-specific required fields.",
	}, handlePlanValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_apply",
		Description: "Apply a YAML patch plan: an ordered list of patch actions with ${name} variable expansion. Use dry_run=true to preview outcomes without writing any file. Strict mode (abort on skipped or invalid actions) defaults to CFGTOOLS_APPLY_STRICT. Restart actions only execute when CFGTOOLS_RESTART_ENABLED is set.",
	}, handlePlanApply)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
