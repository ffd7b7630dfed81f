package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// ConfigDir is the default base configuration directory, used to expand
	// the ${config_dir} plan variable when the client supplies none.
	ConfigDir string

	// ApplyStrict enables strict mode for plan_apply by default.
	ApplyStrict bool

	// RestartEnabled permits restart actions to execute. When false, restart
	// actions are recorded but never run, regardless of the plan.
	RestartEnabled bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from CFGTOOLS_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		ConfigDir:      envString("CFGTOOLS_CONFIG_DIR", ""),
		ApplyStrict:    envBool("CFGTOOLS_APPLY_STRICT", false),
		RestartEnabled: envBool("CFGTOOLS_RESTART_ENABLED", false),
	}
}

func envString(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}
