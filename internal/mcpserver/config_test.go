package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvString(t *testing.T) {
	t.Run("unset returns fallback", func(t *testing.T) {
		assert.Equal(t, "/etc/klipper", envString("CFGTOOLS_TEST_UNSET", "/etc/klipper"))
	})

	t.Run("set returns value", func(t *testing.T) {
		t.Setenv("CFGTOOLS_TEST_DIR", "/home/pi/printer_data/config")
		assert.Equal(t, "/home/pi/printer_data/config", envString("CFGTOOLS_TEST_DIR", ""))
	})
}

func TestEnvBool(t *testing.T) {
	t.Run("unset returns fallback", func(t *testing.T) {
		assert.True(t, envBool("CFGTOOLS_TEST_UNSET", true))
		assert.False(t, envBool("CFGTOOLS_TEST_UNSET", false))
	})

	t.Run("set true", func(t *testing.T) {
		t.Setenv("CFGTOOLS_TEST_BOOL", "true")
		assert.True(t, envBool("CFGTOOLS_TEST_BOOL", false))
	})

	t.Run("set false", func(t *testing.T) {
		t.Setenv("CFGTOOLS_TEST_BOOL", "0")
		assert.False(t, envBool("CFGTOOLS_TEST_BOOL", true))
	})

	t.Run("invalid value falls back", func(t *testing.T) {
		t.Setenv("CFGTOOLS_TEST_BOOL", "maybe")
		assert.True(t, envBool("CFGTOOLS_TEST_BOOL", true))
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	c := loadConfig()
	assert.False(t, c.ApplyStrict)
	assert.False(t, c.RestartEnabled)
}
