package patcher

// Patcher applies targeted, idempotent patch operations to configuration files.
//
// A Patcher holds no per-file state: every operation re-reads its target
// fresh, so operations compose in any order and are safe to re-run. The zero
// value is usable; New is provided for symmetry with the other cfgtools
// packages.
type Patcher struct {
	// Logger receives INFO/WARN/ERROR lines about operation outcomes.
	// Defaults to NopLogger.
	Logger Logger

	// DryRun computes every operation's changes without writing any file.
	DryRun bool
}

// New creates a new Patcher with default settings.
func New() *Patcher {
	return &Patcher{Logger: NopLogger{}}
}

// log returns the configured logger, or a no-op logger.
func (p *Patcher) log() Logger {
	if p.Logger == nil {
		return NopLogger{}
	}
	return p.Logger
}

// commit writes the document back unless the Patcher is in dry-run mode.
func (p *Patcher) commit(op string, d *document, result *Result) error {
	result.DryRun = p.DryRun
	if p.DryRun {
		return nil
	}
	return d.save(op)
}
