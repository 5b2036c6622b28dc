// FILE: lixenwraith/evtlog/record.go
package evtlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	internalMu     sync.Mutex
	internalWriter io.Writer = os.Stderr
)

// Append enqueues the non-empty lines of text at the given severity.
// Lines longer than line_max are cut silently. When the ring is full the
// caller blocks until the batcher frees slots; nothing is dropped for lack of space.
// Appending to a logger that is not running is a no-op.
func (l *Logger) Append(severity Severity, text string) {
	if !l.state.Started.Load() || l.state.ShutdownCalled.Load() {
		return
	}
	p := l.active.Load()
	if p == nil {
		return
	}

	for _, line := range splitLines(text) {
		if len(line) > p.lineMax {
			line = truncateLine(line, p.lineMax)
			l.state.TruncatedLines.Add(1)
		}
		if !l.enqueue(p, Entry{Severity: severity, Text: line}) {
			return
		}
	}
}

// Logf formats a message and appends it. The formatted message is capped at
// 999 bytes before line splitting. The %m verb is not supported; a format
// containing it is replaced by a fixed diagnostic message.
func (l *Logger) Logf(severity Severity, format string, args ...any) {
	var msg string
	if strings.Contains(format, "%m") {
		msg = percentMMessage
	} else {
		msg = fmt.Sprintf(format, args...)
	}
	l.Append(severity, truncateLine(msg, maxMessageBytes))
}

// enqueue stores one line, blocking for a free slot.
// Returns false once the pipeline's batcher has drained and exited.
func (l *Logger) enqueue(p *pipeline, e Entry) bool {
	l.producerMu.Lock()
	defer l.producerMu.Unlock()

	if !p.flow.acquireFree() {
		return false
	}
	p.writers.Add(1)
	defer p.writers.Add(-1)
	if p.sealed.Load() {
		p.flow.releaseFree(1)
		return false
	}

	p.ring.write(e)
	p.flow.releaseFilled()
	l.state.LinesQueued.Add(1)
	return true
}

// writeInternal writes one diagnostic message with the package prefix
func writeInternal(msg string) {
	if !strings.HasPrefix(msg, "evtlog: ") {
		msg = "evtlog: " + msg
	}
	internalMu.Lock()
	defer internalMu.Unlock()
	_, _ = io.WriteString(internalWriter, msg)
}
