package patcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/cfgtools/cfgerrors"
)

func writeHardwareFiles(t *testing.T, hardware, mcu string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	hwPath := filepath.Join(dir, "AFC_Hardware.cfg")
	mcuPath := filepath.Join(dir, "AFC.cfg")
	require.NoError(t, os.WriteFile(hwPath, []byte(hardware), 0o644))
	require.NoError(t, os.WriteFile(mcuPath, []byte(mcu), 0o644))
	return hwPath, mcuPath
}

func TestInjectBufferBlock(t *testing.T) {
	t.Run("appends block when absent", func(t *testing.T) {
		hwPath, mcuPath := writeHardwareFiles(t, "[AFC_hub Turtle_1]\n", "")

		result, err := New().InjectBufferBlock(hwPath, mcuPath, BufferTurtleNeck)
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, result.Outcome)

		got := readTestFile(t, hwPath)
		assert.True(t, strings.HasPrefix(got, "[AFC_hub Turtle_1]\n\n[AFC_buffer TN]\n"), "block not appended after blank line: %q", got)
		assert.Contains(t, got, "multiplier_low:  0.95")
	})

	t.Run("skips when first block line present", func(t *testing.T) {
		hardware := "[AFC_buffer TN]\nadvance_pin: PB1\n"
		hwPath, mcuPath := writeHardwareFiles(t, hardware, "")

		result, err := New().InjectBufferBlock(hwPath, mcuPath, BufferTurtleNeck)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAlreadyPresent, result.Outcome)
		assert.Equal(t, hardware, readTestFile(t, hwPath), "file modified on skip")
	})

	t.Run("unknown buffer returns error and modifies nothing", func(t *testing.T) {
		hardware := "[AFC_hub Turtle_1]\n"
		hwPath, mcuPath := writeHardwareFiles(t, hardware, "")

		result, err := New().InjectBufferBlock(hwPath, mcuPath, BufferSystem("SpoolJoin"))
		require.Error(t, err)

		var inv *cfgerrors.InvalidInputError
		require.True(t, errors.As(err, &inv))
		assert.Equal(t, "buffer", inv.Kind)
		assert.Equal(t, "SpoolJoin", inv.Value)

		assert.Equal(t, OutcomeInvalidInput, result.Outcome)
		assert.Equal(t, hardware, readTestFile(t, hwPath))
	})

	t.Run("TurtleNeckV2 groups mcu include with peers", func(t *testing.T) {
		mcu := "[include mcu/MMB_1.0.cfg]\n[include mcu/MMB_1.1.cfg]\n\n[AFC]\n"
		hwPath, mcuPath := writeHardwareFiles(t, "", mcu)

		result, err := New().InjectBufferBlock(hwPath, mcuPath, BufferTurtleNeckV2)
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, result.Outcome)

		got := readTestFile(t, mcuPath)
		want := "[include mcu/MMB_1.0.cfg]\n[include mcu/MMB_1.1.cfg]\n[include mcu/TurtleNeckV2.cfg]\n\n[AFC]\n"
		assert.Equal(t, want, got)
	})

	t.Run("mcu include appended when no peer group", func(t *testing.T) {
		hwPath, mcuPath := writeHardwareFiles(t, "", "[AFC]\n")

		_, err := New().InjectBufferBlock(hwPath, mcuPath, BufferTurtleNeckV2)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(readTestFile(t, mcuPath), "[include mcu/TurtleNeckV2.cfg]\n"))
	})

	t.Run("idempotent including mcu include", func(t *testing.T) {
		mcu := "[include mcu/MMB_1.0.cfg]\n"
		hwPath, mcuPath := writeHardwareFiles(t, "", mcu)

		_, err := New().InjectBufferBlock(hwPath, mcuPath, BufferTurtleNeckV2)
		require.NoError(t, err)
		onceHW, onceMCU := readTestFile(t, hwPath), readTestFile(t, mcuPath)

		result, err := New().InjectBufferBlock(hwPath, mcuPath, BufferTurtleNeckV2)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAlreadyPresent, result.Outcome)
		assert.Equal(t, onceHW, readTestFile(t, hwPath))
		assert.Equal(t, onceMCU, readTestFile(t, mcuPath))
	})

	t.Run("other variants do not touch the mcu config", func(t *testing.T) {
		mcu := "[include mcu/MMB_1.0.cfg]\n"
		hwPath, mcuPath := writeHardwareFiles(t, "", mcu)

		_, err := New().InjectBufferBlock(hwPath, mcuPath, BufferAnnexBelay)
		require.NoError(t, err)
		assert.Equal(t, mcu, readTestFile(t, mcuPath))
	})
}

func TestBufferName(t *testing.T) {
	tests := []struct {
		buffer BufferSystem
		want   string
	}{
		{BufferTurtleNeck, "TN"},
		{BufferTurtleNeckV2, "TN2"},
		{BufferAnnexBelay, "Belay"},
	}
	for _, tt := range tests {
		t.Run(string(tt.buffer), func(t *testing.T) {
			got, err := BufferName(tt.buffer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown buffer", func(t *testing.T) {
		_, err := BufferName(BufferSystem("ERCF"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, cfgerrors.ErrInvalidInput))
	})
}
