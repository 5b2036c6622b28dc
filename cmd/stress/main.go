// FILE: lixenwraith/evtlog/cmd/stress/main.go
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lixenwraith/evtlog"
	"golang.org/x/term"
)

const (
	totalBursts    = 100
	linesPerBurst  = 500
	maxMessageSize = 400
	numWorkers     = 50
)

var severities = []evtlog.Severity{
	evtlog.SevDebug,
	evtlog.SevInfo,
	evtlog.SevWarning,
	evtlog.SevError,
}

// countingEmitter counts batches and lines and checks batch invariants
type countingEmitter struct {
	batches   atomic.Uint64
	lines     atomic.Uint64
	bytes     atomic.Uint64
	oversized atomic.Uint64
	maxBatch  atomic.Int64
	capacity  int
	lineMax   int
	emitDelay time.Duration
}

func (e *countingEmitter) Emit(sev evtlog.Severity, pid, identity string, lines []string) error {
	e.batches.Add(1)
	e.lines.Add(uint64(len(lines)))
	for _, line := range lines {
		e.bytes.Add(uint64(len(line)))
		if len(line) > e.lineMax {
			e.oversized.Add(1)
		}
	}
	for {
		current := e.maxBatch.Load()
		if int64(len(lines)) <= current || e.maxBatch.CompareAndSwap(current, int64(len(lines))) {
			break
		}
	}
	if e.emitDelay > 0 {
		time.Sleep(e.emitDelay)
	}
	return nil
}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst appends runs of same-severity lines so batching has something to merge
func logBurst(logger *evtlog.Logger, burstID int) {
	sev := severities[rand.Intn(len(severities))]
	for i := 0; i < linesPerBurst; i++ {
		if rand.Intn(20) == 0 {
			sev = severities[rand.Intn(len(severities))]
		}
		msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
		logger.Logf(sev, "bst=%d seq=%d %s", burstID, i, msg)
	}
}

func worker(logger *evtlog.Logger, burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64, progress bool) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(logger, burstID)
		completed := completedBursts.Add(1)
		if progress && (completed%10 == 0 || completed == totalBursts) {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- Logger Stress Test ---")

	cfg := evtlog.DefaultConfig()
	cfg.Identity = "stress"
	cfg.Capacity = 64
	cfg.TimeoutMs = 50
	cfg.DrainTimeoutMs = 10000

	emitter := &countingEmitter{
		capacity:  int(cfg.Capacity),
		lineMax:   int(cfg.LineMax),
		emitDelay: 100 * time.Microsecond,
	}

	logger, err := evtlog.NewBuilder().
		Identity(cfg.Identity).
		Capacity(cfg.Capacity).
		TimeoutMs(cfg.TimeoutMs).
		DrainTimeoutMs(cfg.DrainTimeoutMs).
		Emitter(emitter).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d lines/burst, capacity %d.\n",
		numWorkers, totalBursts, linesPerBurst, cfg.Capacity)
	fmt.Println("Press Ctrl+C to stop early.")

	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	// Carriage-return progress only makes sense on a terminal
	progress := term.IsTerminal(int(os.Stdout.Fd()))
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(logger, burstChan, &wg, &completedBursts, progress)
	}

	startTime := time.Now()
submit:
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			break submit
		}
	}
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()

	fmt.Println("Shutting down logger...")
	if err := logger.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	}
	duration := time.Since(startTime)

	stats := logger.Stats()
	fmt.Printf("\n--- Test Finished in %v ---\n", duration.Round(time.Millisecond))
	fmt.Printf("Queued:    %s\n", humanize.Comma(int64(stats.LinesQueued)))
	fmt.Printf("Emitted:   %s lines in %s batches (emitter saw %s in %s, %s of text)\n",
		humanize.Comma(int64(stats.LinesEmitted)), humanize.Comma(int64(stats.BatchesEmitted)),
		humanize.Comma(int64(emitter.lines.Load())), humanize.Comma(int64(emitter.batches.Load())),
		humanize.Bytes(emitter.bytes.Load()))
	fmt.Printf("Largest batch: %d (capacity %d)\n", emitter.maxBatch.Load(), emitter.capacity)
	fmt.Printf("Truncated: %d, oversized at emitter: %d\n", stats.TruncatedLines, emitter.oversized.Load())
	fmt.Printf("Lost on shutdown: %d\n", stats.LostOnShutdown)
	if stats.BatchesEmitted > 0 {
		fmt.Printf("Average batch: %.2f lines\n", float64(stats.LinesEmitted)/float64(stats.BatchesEmitted))
	}
	if duration.Seconds() > 0 {
		fmt.Printf("Approximate lines/sec: %s\n", humanize.Comma(int64(float64(stats.LinesEmitted)/duration.Seconds())))
	}

	if stats.LinesQueued != stats.LinesEmitted+stats.LostOnShutdown || emitter.oversized.Load() > 0 ||
		emitter.maxBatch.Load() > int64(emitter.capacity) {
		fmt.Println("FAIL: invariant violated")
		os.Exit(1)
	}
	fmt.Println("OK")
}
