package patcher

import "context"

// Restarter restarts a host service after a configuration change.
//
// The patcher package only declares the collaborator; it never restarts
// anything itself. Callers that want Klipper or Moonraker restarted after a
// patch supply an implementation (the cfgtools CLI ships a systemd-based one).
// Restarts are fire-and-forget: the result is reported but never consulted by
// any patching decision.
type Restarter interface {
	// Restart requests a restart of the named service.
	Restart(ctx context.Context, service string) error
}

// RestarterFunc adapts a function to the Restarter interface.
type RestarterFunc func(ctx context.Context, service string) error

// Restart implements Restarter.
func (f RestarterFunc) Restart(ctx context.Context, service string) error {
	return f(ctx, service)
}

// NopRestarter is a Restarter that does nothing.
// It is the default used when no restarter is configured.
type NopRestarter struct{}

// Restart implements Restarter.
func (NopRestarter) Restart(_ context.Context, _ string) error { return nil }

// Ensure implementations satisfy Restarter at compile time.
var (
	_ Restarter = RestarterFunc(nil)
	_ Restarter = NopRestarter{}
)
