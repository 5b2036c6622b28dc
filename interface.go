// FILE: interface.go
package evtlog

// Emitter receives finished batches. All lines of a call share one severity.
// Implementations are called from the batcher goroutine only, one batch at a time,
// and a slow Emit throttles producers through the ring.
type Emitter interface {
	Emit(sev Severity, pid, identity string, lines []string) error
}

// EmitterFunc adapts a function to the Emitter interface
type EmitterFunc func(sev Severity, pid, identity string, lines []string) error

// Emit calls f
func (f EmitterFunc) Emit(sev Severity, pid, identity string, lines []string) error {
	return f(sev, pid, identity, lines)
}

// Backend is an Emitter owning an output resource
type Backend interface {
	Emitter
	Close() error
}

// nopCloser lifts an Emitter without resources to a Backend
type nopCloser struct {
	Emitter
}

func (nopCloser) Close() error { return nil }

// asBackend returns e as a Backend, keeping its Close if it has one
func asBackend(e Emitter) Backend {
	if b, ok := e.(Backend); ok {
		return b
	}
	return nopCloser{e}
}

// Severity-named helpers. Arguments are rendered space-separated like fmt.Sprint
// with structured values expanded, then split into lines.

// Emergency logs at emergency severity
func (l *Logger) Emergency(args ...any) {
	l.Append(SevEmergency, formatArgs(args))
}

// Alert logs at alert severity
func (l *Logger) Alert(args ...any) {
	l.Append(SevAlert, formatArgs(args))
}

// Critical logs at critical severity
func (l *Logger) Critical(args ...any) {
	l.Append(SevCritical, formatArgs(args))
}

// Error logs at error severity
func (l *Logger) Error(args ...any) {
	l.Append(SevError, formatArgs(args))
}

// Warning logs at warning severity
func (l *Logger) Warning(args ...any) {
	l.Append(SevWarning, formatArgs(args))
}

// Notice logs at notice severity
func (l *Logger) Notice(args ...any) {
	l.Append(SevNotice, formatArgs(args))
}

// Info logs at info severity
func (l *Logger) Info(args ...any) {
	l.Append(SevInfo, formatArgs(args))
}

// Debug logs at debug severity
func (l *Logger) Debug(args ...any) {
	l.Append(SevDebug, formatArgs(args))
}
