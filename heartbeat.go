// FILE: lixenwraith/evtlog/heartbeat.go
package evtlog

import (
	"fmt"
	"time"
)

// runHeartbeat appends a statistics record every interval until stop is closed
func (l *Logger) runHeartbeat(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.logHeartbeat()
		case <-stop:
			return
		}
	}
}

// logHeartbeat appends one notice line describing the logger counters.
// The line goes through the ring like any other and is batched with adjacent notices.
func (l *Logger) logHeartbeat() {
	sequence := l.state.HeartbeatSequence.Add(1)
	stats := l.Stats()

	l.Append(SevNotice, fmt.Sprintf(
		"heartbeat sequence=%d uptime_hours=%.2f queued=%d emitted=%d batches=%d emit_errors=%d discarded=%d truncated=%d pending=%d",
		sequence,
		stats.Uptime.Hours(),
		stats.LinesQueued,
		stats.LinesEmitted,
		stats.BatchesEmitted,
		stats.EmitErrors,
		stats.DiscardedLines,
		stats.TruncatedLines,
		stats.Pending,
	))
}
