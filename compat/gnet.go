// FILE: lixenwraith/evtlog/compat/gnet.go
package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/evtlog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// fatalDrainTimeout bounds the drain before the fatal handler runs
const fatalDrainTimeout = 100 * time.Millisecond

// GnetAdapter wraps evtlog.Logger to implement the gnet logging.Logger interface
type GnetAdapter struct {
	logger       *evtlog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *evtlog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug severity with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Append(evtlog.SevDebug, "gnet: "+fmt.Sprintf(format, args...))
}

// Infof logs at info severity with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Append(evtlog.SevInfo, "gnet: "+fmt.Sprintf(format, args...))
}

// Warnf logs at warning severity with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Append(evtlog.SevWarning, "gnet: "+fmt.Sprintf(format, args...))
}

// Errorf logs at error severity with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Append(evtlog.SevError, "gnet: "+fmt.Sprintf(format, args...))
}

// Fatalf logs at critical severity, drains the logger and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Append(evtlog.SevCritical, "gnet: "+msg)

	// Ensure the record is emitted before exit
	_ = a.logger.Stop(fatalDrainTimeout)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
