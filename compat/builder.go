// FILE: lixenwraith/evtlog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/evtlog"
)

// Builder creates gnet and fasthttp adapters sharing one logger.
// It can use an existing *evtlog.Logger or create one from a *evtlog.Config.
type Builder struct {
	logger *evtlog.Logger
	logCfg *evtlog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *evtlog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("evtlog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance
func (b *Builder) WithConfig(cfg *evtlog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger, creating and starting one if necessary
func (b *Builder) getLogger() (*evtlog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	l := evtlog.NewLogger()
	cfg := b.logCfg
	if cfg == nil {
		cfg = evtlog.DefaultConfig()
	}

	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	if err := l.Start(); err != nil {
		return nil, err
	}

	// Cache the created logger for subsequent builds
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, creating it if needed
func (b *Builder) GetLogger() (*evtlog.Logger, error) {
	return b.getLogger()
}
