// Package systemd provides the systemd-backed service restarter used by the
// CLI and MCP server.
package systemd

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Restarter restarts services through systemctl. It implements
// patcher.Restarter.
type Restarter struct {
	// Command is the systemctl binary to invoke. Defaults to "systemctl".
	Command string

	// UseSudo prefixes the invocation with sudo, for hosts where the caller
	// is not root (the usual Klipper setup).
	UseSudo bool
}

// NewRestarter returns a Restarter with default settings.
func NewRestarter() *Restarter {
	return &Restarter{Command: "systemctl"}
}

// Restart runs "systemctl restart <service>".
func (r *Restarter) Restart(ctx context.Context, service string) error {
	if service == "" {
		return fmt.Errorf("systemd: service name is empty")
	}
	if strings.ContainsAny(service, " \t\n") {
		return fmt.Errorf("systemd: invalid service name %q", service)
	}

	command := r.Command
	if command == "" {
		command = "systemctl"
	}

	args := []string{command, "restart", service}
	if r.UseSudo {
		args = append([]string{"sudo"}, args...)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("systemd: restart %s: %w: %s", service, err, strings.TrimSpace(string(out)))
	}
	return nil
}
