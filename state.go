// FILE: state.go
package evtlog

import (
	"sync/atomic"
	"time"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized  atomic.Bool
	Started        atomic.Bool
	ShutdownCalled atomic.Bool
	BatcherExited  atomic.Bool // Tracks if the batcher goroutine is running or has exited

	LinesQueued    atomic.Uint64 // Lines accepted into the ring
	LinesEmitted   atomic.Uint64 // Lines handed to the backend successfully
	BatchesEmitted atomic.Uint64 // Successful Emit calls
	EmitErrors     atomic.Uint64 // Failed Emit calls
	DiscardedLines atomic.Uint64 // Lines belonging to failed batches
	TruncatedLines atomic.Uint64 // Lines cut to line_max
	LostOnShutdown atomic.Uint64 // Lines still buffered when the drain wait expired

	HeartbeatSequence atomic.Uint64
	LoggerStartTime   atomic.Value // stores time.Time for uptime calculation
}

// Stats is a point-in-time copy of the logger counters
type Stats struct {
	LinesQueued    uint64
	LinesEmitted   uint64
	BatchesEmitted uint64
	EmitErrors     uint64
	DiscardedLines uint64
	TruncatedLines uint64
	LostOnShutdown uint64
	Pending        int // Lines in the ring not yet taken by the batcher
	Uptime         time.Duration
}

// Stats returns a snapshot of the logger counters
func (l *Logger) Stats() Stats {
	s := Stats{
		LinesQueued:    l.state.LinesQueued.Load(),
		LinesEmitted:   l.state.LinesEmitted.Load(),
		BatchesEmitted: l.state.BatchesEmitted.Load(),
		EmitErrors:     l.state.EmitErrors.Load(),
		DiscardedLines: l.state.DiscardedLines.Load(),
		TruncatedLines: l.state.TruncatedLines.Load(),
		LostOnShutdown: l.state.LostOnShutdown.Load(),
	}
	if p := l.active.Load(); p != nil {
		s.Pending = p.flow.pending()
	}
	if start, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !start.IsZero() {
		s.Uptime = time.Since(start)
	}
	return s
}
