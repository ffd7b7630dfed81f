package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/cfgtools/patcher"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// patchChange mirrors patcher.ChangeRecord for tool output.
type patchChange struct {
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// patchOutput is the shared result shape of the single-operation patch tools.
type patchOutput struct {
	Op      string        `json:"op"`
	File    string        `json:"file"`
	Outcome string        `json:"outcome"`
	Reason  string        `json:"reason,omitempty"`
	Changes []patchChange `json:"changes,omitempty"`
	DryRun  bool          `json:"dry_run,omitempty"`
	Summary string        `json:"summary"`
}

// patchResult converts a patcher result into tool output.
func patchResult(res *patcher.Result) patchOutput {
	output := patchOutput{
		Op:      res.Op,
		File:    res.Path,
		Outcome: string(res.Outcome),
		Reason:  res.Reason,
		DryRun:  res.DryRun,
	}
	output.Changes = makeSlice[patchChange](len(res.Changes))
	for _, c := range res.Changes {
		output.Changes = append(output.Changes, patchChange{
			Line:   c.Line,
			Kind:   c.Kind,
			Before: c.Before,
			After:  c.After,
		})
	}
	output.Summary = res.String()
	return output
}

// newPatcher builds the patcher used by a tool invocation.
func newPatcher(dryRun bool) *patcher.Patcher {
	p := patcher.New()
	p.DryRun = dryRun
	return p
}

type manageIncludeInput struct {
	File   string `json:"file"              jsonschema:"Path of the printer.cfg file to patch"`
	Action string `json:"action"            jsonschema:"Either add or remove"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the file"`
}

func handleManageInclude(_ context.Context, _ *mcp.CallToolRequest, input manageIncludeInput) (*mcp.CallToolResult, patchOutput, error) {
	res, err := newPatcher(input.DryRun).ManageInclude(input.File, patcher.IncludeAction(input.Action))
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}

type setValueInput struct {
	File   string `json:"file"              jsonschema:"Path of the configuration file to patch"`
	Key    string `json:"key"               jsonschema:"Option name to rewrite"`
	Value  string `json:"value"             jsonschema:"New option value"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the file"`
}

func handleSetValue(_ context.Context, _ *mcp.CallToolRequest, input setValueInput) (*mcp.CallToolResult, patchOutput, error) {
	res, err := newPatcher(input.DryRun).SetKeyValue(input.File, input.Key, input.Value)
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}

type setPinInput struct {
	File   string `json:"file"              jsonschema:"Path of the configuration file to patch"`
	Pin    string `json:"pin"               jsonschema:"MCU pin name to assign to pin_tool_start"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the file"`
}

func handleSetPin(_ context.Context, _ *mcp.CallToolRequest, input setPinInput) (*mcp.CallToolResult, patchOutput, error) {
	res, err := newPatcher(input.DryRun).SetToolStartPin(input.File, input.Pin)
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}

type uncommentBoardInput struct {
	File   string `json:"file"              jsonschema:"Path of the MCU configuration file to patch"`
	Board  string `json:"board"             jsonschema:"Control board type: MMB_1.0, MMB_1.1 or AFC_Lite"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the file"`
}

func handleUncommentBoard(_ context.Context, _ *mcp.CallToolRequest, input uncommentBoardInput) (*mcp.CallToolResult, patchOutput, error) {
	res, err := newPatcher(input.DryRun).UncommentBoardInclude(input.File, patcher.BoardType(input.Board))
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}

type injectBufferInput struct {
	File    string `json:"file"              jsonschema:"Path of the hardware configuration file"`
	MCUFile string `json:"mcu_file"          jsonschema:"Path of the MCU include file"`
	Buffer  string `json:"buffer"            jsonschema:"Buffer system: TurtleNeck, TurtleNeckV2 or AnnexBelay"`
	DryRun  bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the files"`
}

func handleInjectBuffer(_ context.Context, _ *mcp.CallToolRequest, input injectBufferInput) (*mcp.CallToolResult, patchOutput, error) {
	res, err := newPatcher(input.DryRun).InjectBufferBlock(input.File, input.MCUFile, patcher.BufferSystem(input.Buffer))
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}

type ensurePrepInput struct {
	File   string `json:"file"              jsonschema:"Path of the configuration file to patch"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the file"`
}

func handleEnsurePrep(_ context.Context, _ *mcp.CallToolRequest, input ensurePrepInput) (*mcp.CallToolResult, patchOutput, error) {
	res, err := newPatcher(input.DryRun).EnsurePrepSection(input.File)
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}

type registerUpdateManagerInput struct {
	File   string `json:"file"              jsonschema:"Path of the moonraker.conf file to patch"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the file"`
}

func handleRegisterUpdateManager(_ context.Context, _ *mcp.CallToolRequest, input registerUpdateManagerInput) (*mcp.CallToolResult, patchOutput, error) {
	res, err := newPatcher(input.DryRun).RegisterUpdateManager(input.File)
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}

type bufferRefInput struct {
	File   string `json:"file"              jsonschema:"Path of the configuration file holding the extruder section"`
	Buffer string `json:"buffer"            jsonschema:"Buffer system: TurtleNeck, TurtleNeckV2 or AnnexBelay"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the file"`
}

func handleBufferRef(_ context.Context, _ *mcp.CallToolRequest, input bufferRefInput) (*mcp.CallToolResult, patchOutput, error) {
	name, err := patcher.BufferName(patcher.BufferSystem(input.Buffer))
	if err != nil {
		return errResult(fmt.Errorf("unknown buffer system %q (valid: %v)", input.Buffer, patcher.ValidBufferSystems())), patchOutput{}, nil
	}
	res, err := newPatcher(input.DryRun).InsertExtruderBufferRef(input.File, name)
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}

type replacePathInput struct {
	File    string `json:"file"              jsonschema:"Path of the configuration file to patch"`
	OldPath string `json:"old_path"          jsonschema:"Path substring to replace"`
	NewPath string `json:"new_path"          jsonschema:"Replacement path substring"`
	DryRun  bool   `json:"dry_run,omitempty" jsonschema:"Preview the edit without writing the file"`
}

func handleReplacePath(_ context.Context, _ *mcp.CallToolRequest, input replacePathInput) (*mcp.CallToolResult, patchOutput, error) {
	res, err := newPatcher(input.DryRun).ReplacePath(input.File, input.OldPath, input.NewPath)
	if err != nil {
		return errResult(err), patchOutput{}, nil
	}
	return nil, patchResult(res), nil
}
