// FILE: lixenwraith/evtlog/backend.go
package evtlog

import (
	"io"
	"os"
	"time"
)

// Console streams used by local1 and local2, replaced in tests
var (
	consoleStdout io.Writer = os.Stdout
	consoleStderr io.Writer = os.Stderr
)

// openBackend selects and opens the output for cfg's facility.
// local0..local7 map to files or console streams. Any other facility goes to an
// event sink: beats if configured, then journal. If no sink can be opened the
// records go to "<identity>.log" instead and diag reports why.
func openBackend(cfg *Config, diag func(format string, args ...any)) (Backend, error) {
	fac := cfg.facility()

	switch {
	case fac == FacLocal1:
		return newConsoleBackend(cfg, consoleStdout), nil
	case fac == FacLocal2:
		return newConsoleBackend(cfg, consoleStderr), nil
	case fac >= FacLocal0 && fac <= FacLocal7:
		return newFileBackend(cfg, logFilePath(cfg, fac))
	}

	timeout := time.Duration(cfg.SinkTimeoutMs) * time.Millisecond

	if cfg.BeatsEndpoint != "" {
		backend, err := newBeatsBackend(cfg.BeatsEndpoint, fac, timeout)
		if err == nil {
			return backend, nil
		}
		diag("warning - %v\n", err)
	}

	if cfg.JournalEndpoint != "" {
		backend, err := newJournalBackend(cfg.JournalEndpoint, fac, timeout)
		if err == nil {
			return backend, nil
		}
		diag("warning - %v\n", err)
	}

	path := logFilePath(cfg, FacLocal0)
	if cfg.BeatsEndpoint != "" || cfg.JournalEndpoint != "" {
		diag("event sink unavailable, logging to '%s'\n", path)
	}
	return newFileBackend(cfg, path)
}

// backendRequiresReopen reports whether moving from oldCfg to newCfg changes the output.
// Batching settings alone keep the open backend.
func backendRequiresReopen(oldCfg, newCfg *Config) bool {
	if oldCfg == nil || newCfg == nil {
		return true
	}
	return oldCfg.identity() != newCfg.identity() ||
		oldCfg.facility() != newCfg.facility() ||
		oldCfg.Directory != newCfg.Directory ||
		oldCfg.Format != newCfg.Format ||
		oldCfg.TimestampFormat != newCfg.TimestampFormat ||
		oldCfg.MaxSizeMB != newCfg.MaxSizeMB ||
		oldCfg.MaxBackups != newCfg.MaxBackups ||
		oldCfg.MaxAgeDays != newCfg.MaxAgeDays ||
		oldCfg.Compress != newCfg.Compress ||
		oldCfg.BeatsEndpoint != newCfg.BeatsEndpoint ||
		oldCfg.JournalEndpoint != newCfg.JournalEndpoint ||
		oldCfg.SinkTimeoutMs != newCfg.SinkTimeoutMs
}
