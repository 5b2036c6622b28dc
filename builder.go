// FILE: lixenwraith/evtlog/builder.go
package evtlog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg     *Config
	emitter Emitter
	err     error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a configured, not yet started Logger.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	// A custom emitter replaces the facility-selected backend, set it first so none is opened
	if b.emitter != nil {
		if err := logger.SetEmitter(b.emitter); err != nil {
			return nil, err
		}
	}

	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return logger, nil
}

// Identity sets the identity reported with each record.
func (b *Builder) Identity(identity string) *Builder {
	b.cfg.Identity = identity
	return b
}

// Facility sets the facility selecting the backend.
func (b *Builder) Facility(facility Facility) *Builder {
	b.cfg.Facility = facility.String()
	return b
}

// FacilityString sets the facility from its syslog name.
func (b *Builder) FacilityString(name string) *Builder {
	if b.err != nil {
		return b
	}
	fac, err := ParseFacility(name)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Facility = fac.String()
	return b
}

// Directory sets the directory of file backends.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Capacity sets the ring capacity, also the largest batch.
func (b *Builder) Capacity(capacity int64) *Builder {
	b.cfg.Capacity = capacity
	return b
}

// LineMax sets the maximum bytes kept per line.
func (b *Builder) LineMax(max int64) *Builder {
	b.cfg.LineMax = max
	return b
}

// TimeoutMs sets the batching window.
func (b *Builder) TimeoutMs(ms int64) *Builder {
	b.cfg.TimeoutMs = ms
	return b
}

// DrainTimeoutMs sets the shutdown drain bound.
func (b *Builder) DrainTimeoutMs(ms int64) *Builder {
	b.cfg.DrainTimeoutMs = ms
	return b
}

// Format sets the file and console output format.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// MaxSizeMB sets the size that triggers file rotation.
func (b *Builder) MaxSizeMB(size int64) *Builder {
	b.cfg.MaxSizeMB = size
	return b
}

// BeatsEndpoint sets the beats input used by non-local facilities.
func (b *Builder) BeatsEndpoint(endpoint string) *Builder {
	b.cfg.BeatsEndpoint = endpoint
	return b
}

// JournalEndpoint sets the journal-remote base URL used by non-local facilities.
func (b *Builder) JournalEndpoint(endpoint string) *Builder {
	b.cfg.JournalEndpoint = endpoint
	return b
}

// HeartbeatIntervalS sets the heartbeat interval, 0 disables it.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Emitter sends batches to e instead of the facility-selected backend.
func (b *Builder) Emitter(e Emitter) *Builder {
	b.emitter = e
	return b
}

// Example usage:
// logger, err := evtlog.NewBuilder().
//
//	Identity("smartd").
//	Facility(evtlog.FacLocal0).
//	Directory("/var/log").
//	Build()
//
// if err == nil {
//
//	 _ = logger.Start()
//	 defer logger.Close()
//	 logger.Info("Device: /dev/sda, opened")
//
// }
