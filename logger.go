// FILE: lixenwraith/evtlog/logger.go
package evtlog

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Logger owns the ring buffer, its permits, the batcher goroutine and the backend.
// Every method is safe for concurrent use.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex // Serialises configuration and lifecycle changes
	producerMu    sync.Mutex // Makes reserve, write, advance one step per line

	active        atomic.Pointer[pipeline]
	backend       Backend     // guarded by initMu
	emitMu        *sync.Mutex // One Emit at a time per backend, shared by every pipeline using it
	customBackend bool        // backend supplied by SetEmitter, kept across reconfiguration
	heartbeatStop chan struct{}
}

// NewLogger creates a new Logger instance with default settings
func NewLogger() *Logger {
	l := &Logger{}

	l.currentConfig.Store(DefaultConfig())

	l.state.IsInitialized.Store(false)
	l.state.Started.Store(false)
	l.state.ShutdownCalled.Store(false)
	l.state.BatcherExited.Store(true)
	l.state.LoggerStartTime.Store(time.Time{})

	return l
}

// Open creates, configures and starts a logger for identity, selecting the backend from facility.
// It is the programmatic counterpart of openlog.
// Every backend, files and console included, is fed by the batcher, so a lone line
// reaches its output up to timeout_ms after Append returns.
func Open(identity string, facility Facility) (*Logger, error) {
	cfg := DefaultConfig()
	cfg.Identity = identity
	cfg.Facility = facility.String()

	l := NewLogger()
	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	if err := l.Start(); err != nil {
		_ = l.Shutdown()
		return nil, err
	}
	return l, nil
}

// ApplyConfig validates cfg and opens the backend it selects.
// A running logger is drained, reconfigured and restarted.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// ApplyConfigString applies "key=value" overrides to a copy of the current configuration
func (l *Logger) ApplyConfigString(overrides ...string) error {
	cfg := l.getConfig().Clone()

	var errs []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	return l.ApplyConfig(cfg)
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// SetEmitter replaces the facility-selected backend with e.
// If e also implements Backend its Close is called on shutdown.
// Takes effect on the next Start.
func (l *Logger) SetEmitter(e Emitter) error {
	if e == nil {
		return fmtErrorf("emitter cannot be nil")
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Started.Load() {
		return fmtErrorf("cannot replace emitter of a started logger, call Stop first")
	}

	if l.backend != nil && !l.customBackend {
		if err := l.backend.Close(); err != nil {
			l.internalLog("warning - failed to close replaced backend: %v\n", err)
		}
	}
	l.setBackend(asBackend(e))
	l.customBackend = true
	return nil
}

// Start allocates the ring and permits and launches the batcher. Safe to call multiple times.
func (l *Logger) Start() error {
	l.initMu.Lock()
	defer l.initMu.Unlock()
	return l.start()
}

// Stop drains pending lines and stops the batcher, waiting at most the drain timeout.
// Lines still buffered when the wait expires are lost; this is counted, not reported.
// The logger can be restarted with Start.
func (l *Logger) Stop(timeout ...time.Duration) error {
	l.initMu.Lock()
	defer l.initMu.Unlock()
	l.stop(l.drainTimeout(timeout))
	return nil
}

// Shutdown drains the logger and closes its backend. Repeated calls are no-ops.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	l.stop(l.drainTimeout(timeout))
	l.state.IsInitialized.Store(false)

	var finalErr error
	if l.backend != nil {
		if err := l.backend.Close(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to close backend during shutdown: %w", err))
		}
		l.setBackend(nil)
		l.customBackend = false
	}
	return finalErr
}

// Close shuts the logger down with the configured drain timeout
func (l *Logger) Close() error {
	return l.Shutdown()
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// drainTimeout picks the explicit timeout or the configured default
func (l *Logger) drainTimeout(timeout []time.Duration) time.Duration {
	if len(timeout) > 0 {
		return timeout[0]
	}
	return time.Duration(l.getConfig().DrainTimeoutMs) * time.Millisecond
}

// applyConfig is the internal implementation for applying configuration, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	if l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}

	oldCfg := l.getConfig()
	wasStarted := l.state.Started.Load()
	if wasStarted {
		l.stop(time.Duration(oldCfg.DrainTimeoutMs) * time.Millisecond)
	}

	l.currentConfig.Store(cfg)

	if !l.customBackend {
		needsNewBackend := l.backend == nil || backendRequiresReopen(oldCfg, cfg)
		if needsNewBackend {
			backend, err := openBackend(cfg, l.internalLog)
			if err != nil {
				l.currentConfig.Store(oldCfg) // Rollback
				if wasStarted && l.backend != nil {
					_ = l.start()
				}
				return fmtErrorf("failed to open backend: %w", err)
			}
			if l.backend != nil {
				if err := l.backend.Close(); err != nil {
					l.internalLog("warning - failed to close previous backend: %v\n", err)
				}
			}
			l.setBackend(backend)
		}
	}

	l.state.IsInitialized.Store(true)

	if wasStarted {
		return l.start()
	}
	return nil
}

// start is the internal implementation of Start, assuming initMu is held
func (l *Logger) start() error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized, call ApplyConfig first")
	}
	if l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}
	if l.backend == nil {
		return fmtErrorf("no backend available")
	}

	if !l.state.Started.CompareAndSwap(false, true) {
		return nil
	}

	cfg := l.getConfig()
	p := newPipeline(cfg, l.backend, l.emitMu)
	l.active.Store(p)
	l.state.LoggerStartTime.Store(time.Now())

	go l.processBatches(p)

	if cfg.HeartbeatIntervalS > 0 {
		l.heartbeatStop = make(chan struct{})
		go l.runHeartbeat(time.Duration(cfg.HeartbeatIntervalS)*time.Second, l.heartbeatStop)
	}

	return nil
}

// setBackend replaces the backend, assuming initMu is held.
// A batcher abandoned by a drain timeout keeps the old backend's gate, so it can
// still serialise with a restarted pipeline but never blocks a new backend.
func (l *Logger) setBackend(b Backend) {
	l.backend = b
	l.emitMu = &sync.Mutex{}
}

// stop drains the active pipeline, assuming initMu is held
func (l *Logger) stop(timeout time.Duration) {
	if !l.state.Started.CompareAndSwap(true, false) {
		return
	}

	if l.heartbeatStop != nil {
		close(l.heartbeatStop)
		l.heartbeatStop = nil
	}

	p := l.active.Load()
	if p == nil {
		return
	}
	p.requestDrain()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-p.exited:
	case <-timer.C:
		lost := p.flow.pending()
		l.state.LostOnShutdown.Add(uint64(lost))
		l.internalLog("warning - batcher did not drain within %v, %d line(s) abandoned\n", timeout, lost)
	}
}

// internalLog handles writing internal logger diagnostics to stderr, if enabled.
func (l *Logger) internalLog(format string, args ...any) {
	if !l.getConfig().InternalErrorsToStderr {
		return
	}
	writeInternal(fmt.Sprintf(format, args...))
}
