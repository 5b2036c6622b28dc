// FILE: lixenwraith/evtlog/default.go
package evtlog

import (
	"sync"
)

// Process-wide instance behind the package-level functions
var (
	defaultMu     sync.Mutex
	defaultLogger *Logger
)

// Openlog opens the default logger for identity and facility, replacing an open one.
func Openlog(identity string, facility Facility) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger != nil {
		_ = defaultLogger.Close()
		defaultLogger = nil
	}

	l, err := Open(identity, facility)
	if err != nil {
		return err
	}
	defaultLogger = l
	return nil
}

// Syslog appends text to the default logger, a no-op before Openlog
func Syslog(severity Severity, text string) {
	if l := Default(); l != nil {
		l.Append(severity, text)
	}
}

// Syslogf formats and appends to the default logger, a no-op before Openlog
func Syslogf(severity Severity, format string, args ...any) {
	if l := Default(); l != nil {
		l.Logf(severity, format, args...)
	}
}

// Closelog drains and closes the default logger. Repeated calls are no-ops.
func Closelog() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger == nil {
		return nil
	}
	err := defaultLogger.Close()
	defaultLogger = nil
	return err
}

// Default returns the open default logger, or nil
func Default() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLogger
}
