// FILE: lixenwraith/evtlog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/evtlog"
	"github.com/valyala/fasthttp"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps evtlog.Logger to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	logger           *evtlog.Logger
	defaultSeverity  evtlog.Severity
	severityDetector func(string) (evtlog.Severity, bool) // Detects severity from message content
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *evtlog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:           logger,
		defaultSeverity:  evtlog.SevInfo,
		severityDetector: DetectSeverity,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultSeverity sets the severity used when none is detected
func WithDefaultSeverity(sev evtlog.Severity) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultSeverity = sev
	}
}

// WithSeverityDetector replaces the content-based severity detection, nil disables it
func WithSeverityDetector(detector func(string) (evtlog.Severity, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.severityDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	sev := a.defaultSeverity
	if a.severityDetector != nil {
		if detected, ok := a.severityDetector(msg); ok {
			sev = detected
		}
	}

	a.logger.Append(sev, "fasthttp: "+msg)
}

// DetectSeverity guesses a severity from message keywords.
// Returns false when nothing indicates a severity.
func DetectSeverity(msg string) (evtlog.Severity, bool) {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "panic") || strings.Contains(msgLower, "fatal"):
		return evtlog.SevCritical, true
	case strings.Contains(msgLower, "error") || strings.Contains(msgLower, "failed"):
		return evtlog.SevError, true
	case strings.Contains(msgLower, "warn") || strings.Contains(msgLower, "deprecated"):
		return evtlog.SevWarning, true
	case strings.Contains(msgLower, "debug") || strings.Contains(msgLower, "trace"):
		return evtlog.SevDebug, true
	}
	return evtlog.SevInfo, false
}
