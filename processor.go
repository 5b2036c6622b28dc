// --- File: processor.go ---
package evtlog

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// pipeline is one started instance of ring, permits and batcher.
// It is created by Start and discarded by Stop; a restart builds a fresh one.
type pipeline struct {
	ring     *ringBuffer
	flow     *flowControl
	emitter  Emitter
	emitMu   *sync.Mutex
	identity string
	pid      string
	lineMax  int

	timeoutMs atomic.Int64  // Configured window, forced to 0 when draining
	draining  atomic.Bool   // Termination flag checked at each idle wait
	sealed    atomic.Bool   // Set by the batcher before it exits, rejects further writes
	writers   atomic.Int32  // Producers between acquiring a free slot and releasing it filled
	drainCh   chan struct{} // Closed with draining set, wakes an idle batcher
	exited    chan struct{} // Closed when the batcher reaches its drained state
}

// newPipeline allocates buffer state for cfg
func newPipeline(cfg *Config, emitter Emitter, emitMu *sync.Mutex) *pipeline {
	p := &pipeline{
		ring:     newRingBuffer(int(cfg.Capacity)),
		emitter:  emitter,
		emitMu:   emitMu,
		identity: cfg.identity(),
		pid:      processID(),
		lineMax:  int(cfg.LineMax),
		drainCh:  make(chan struct{}),
		exited:   make(chan struct{}),
	}
	p.flow = newFlowControl(int(cfg.Capacity), p.drainCh, p.exited)
	p.timeoutMs.Store(cfg.TimeoutMs)
	return p
}

// requestDrain stops all further waiting. Safe to call more than once.
func (p *pipeline) requestDrain() {
	p.timeoutMs.Store(0)
	if p.draining.CompareAndSwap(false, true) {
		close(p.drainCh)
	}
}

// adaptiveWait returns the collection window while count lines are in the batch.
// It starts near the configured timeout and shrinks linearly as the batch fills.
func (p *pipeline) adaptiveWait(count int) time.Duration {
	capacity := int64(p.ring.capacity())
	ms := p.timeoutMs.Load() * (capacity - int64(count) + 1) / capacity
	return time.Duration(ms) * time.Millisecond
}

// processBatches is the batching consumer loop running in its own goroutine.
// held counts filled permits taken but not yet read; between cycles it is 0,
// or 1 when a severity change left the next batch's first line pending.
func (l *Logger) processBatches(p *pipeline) {
	l.state.BatcherExited.Store(false)
	defer close(p.exited)
	defer l.state.BatcherExited.Store(true)

	capacity := p.ring.capacity()
	held := 0

	for {
		// Idle: wait for the first line of a batch
		if held == 0 {
			wait := waitForever
			if p.draining.Load() {
				wait = 0
			}
			if !p.flow.acquireFilled(wait) {
				if p.draining.Load() && p.seal() {
					return // Drained
				}
				continue
			}
			held = 1
		}

		// Collecting: extend the run while severity matches
		severity := p.ring.peekAt(0).Severity
		count := 1
		held = 0
		for count < capacity {
			if !p.flow.acquireFilled(p.adaptiveWait(count)) {
				break
			}
			if p.ring.peekAt(count).Severity != severity {
				held = 1 // Seeds the next batch
				break
			}
			count++
		}

		// Flushing
		l.flushBatch(p, severity, count)
		p.flow.releaseFree(count)
	}
}

// seal closes p to producers and reports whether nothing is left to consume.
// A producer that passed its sealed check before the store is waited for, its
// line then shows up as pending and the batcher keeps going.
func (p *pipeline) seal() bool {
	p.sealed.Store(true)
	for p.writers.Load() > 0 {
		runtime.Gosched()
	}
	return p.flow.pending() == 0
}

// flushBatch reads count entries and hands them to the emitter as one record.
// Emit failures are counted and reported, never propagated.
func (l *Logger) flushBatch(p *pipeline, severity Severity, count int) {
	lines := make([]string, count)
	for i := range lines {
		lines[i] = p.ring.read().Text
	}

	p.emitMu.Lock()
	err := safeEmit(p.emitter, severity, p.pid, p.identity, lines)
	p.emitMu.Unlock()
	if err != nil {
		l.state.EmitErrors.Add(1)
		l.state.DiscardedLines.Add(uint64(count))
		l.internalLog("failed to emit batch of %d line(s): %v\n", count, err)
		return
	}

	l.state.BatchesEmitted.Add(1)
	l.state.LinesEmitted.Add(uint64(count))
}

// safeEmit calls the emitter, converting a panic into an error
func safeEmit(e Emitter, severity Severity, pid, identity string, lines []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("emitter panic: %v", r)
		}
	}()
	return e.Emit(severity, pid, identity, lines)
}
