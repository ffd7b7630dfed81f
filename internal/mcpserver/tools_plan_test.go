package mcpserver

import (
	"context"
	"os"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlanYAML = `
plan: "1"
info:
  title: Test Plan
  version: 1.0.0
actions:
  - op: set-value
    file: ${config_dir}/AFC.cfg
    key: speed
    value: "200"
`

func TestPlanValidateTool(t *testing.T) {
	t.Run("valid inline plan", func(t *testing.T) {
		_, output, err := handlePlanValidate(context.Background(), &mcp.CallToolRequest{}, planValidateInput{
			Plan: testPlanYAML,
		})
		require.NoError(t, err)
		assert.True(t, output.Valid)
		assert.Empty(t, output.Errors)
	})

	t.Run("invalid plan reports issues", func(t *testing.T) {
		_, output, err := handlePlanValidate(context.Background(), &mcp.CallToolRequest{}, planValidateInput{
			Plan: "plan: \"1\"\ninfo:\n  title: T\n  version: \"1\"\nactions:\n  - op: mangle\n",
		})
		require.NoError(t, err)
		assert.False(t, output.Valid)
		require.Len(t, output.Errors, 1)
		assert.Equal(t, "actions[0].op", output.Errors[0].Path)
	})

	t.Run("both sources rejected", func(t *testing.T) {
		res, _, err := handlePlanValidate(context.Background(), &mcp.CallToolRequest{}, planValidateInput{
			Plan: testPlanYAML,
			File: "plan.yaml",
		})
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.True(t, res.IsError)
	})

	t.Run("no source rejected", func(t *testing.T) {
		res, _, err := handlePlanValidate(context.Background(), &mcp.CallToolRequest{}, planValidateInput{})
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.True(t, res.IsError)
	})
}

func TestPlanApplyTool(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/AFC.cfg", []byte("[AFC]\nspeed: 120\n"), 0o644))

	_, output, err := handlePlanApply(context.Background(), &mcp.CallToolRequest{}, planApplyInput{
		Plan: testPlanYAML,
		Vars: map[string]string{"config_dir": dir},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Applied)
	require.Len(t, output.Records, 1)
	assert.Equal(t, "applied", output.Records[0].Outcome)
	assert.Equal(t, "1 applied, 0 already present, 0 skipped", output.Summary)

	data, err := os.ReadFile(dir + "/AFC.cfg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "speed: 200")
}

func TestPlanApplyTool_DryRun(t *testing.T) {
	dir := t.TempDir()
	const original = "[AFC]\nspeed: 120\n"
	require.NoError(t, os.WriteFile(dir+"/AFC.cfg", []byte(original), 0o644))

	_, output, err := handlePlanApply(context.Background(), &mcp.CallToolRequest{}, planApplyInput{
		Plan:   testPlanYAML,
		Vars:   map[string]string{"config_dir": dir},
		DryRun: true,
	})
	require.NoError(t, err)
	assert.True(t, output.DryRun)
	assert.Equal(t, 1, output.Applied)
	assert.Equal(t, "dry-run: 1 applied, 0 already present, 0 skipped", output.Summary)

	data, err := os.ReadFile(dir + "/AFC.cfg")
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestPlanApplyTool_StrictAbortsOnSkip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/AFC.cfg", []byte("[AFC]\nother: 1\n"), 0o644))

	strict := true
	res, _, err := handlePlanApply(context.Background(), &mcp.CallToolRequest{}, planApplyInput{
		Plan:   testPlanYAML,
		Vars:   map[string]string{"config_dir": dir},
		Strict: &strict,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestPlanApplyTool_RestartsDisabledByDefault(t *testing.T) {
	_, output, err := handlePlanApply(context.Background(), &mcp.CallToolRequest{}, planApplyInput{
		Plan: "plan: \"1\"\ninfo:\n  title: R\n  version: \"1\"\nactions:\n  - op: restart\n    service: klipper\n",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.RestartsRequested)
	require.Len(t, output.Records, 1)
	assert.Equal(t, "no restarter configured", output.Records[0].Reason)
}

func TestBuildPlanApplySummaryCounts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/AFC_Turtle.cfg", []byte("#[include mcu/MMB_1.0.cfg]\n"), 0o644))

	_, output, err := handlePlanApply(context.Background(), &mcp.CallToolRequest{}, planApplyInput{
		Plan: "plan: \"1\"\ninfo:\n  title: S\n  version: \"1\"\nactions:\n  - op: uncomment-board\n    file: ${config_dir}/AFC_Turtle.cfg\n    board: NOT_A_BOARD\n",
		Vars: map[string]string{"config_dir": dir},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Invalid)
	assert.Contains(t, output.Summary, "1 invalid")
}
