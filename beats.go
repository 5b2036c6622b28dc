// FILE: lixenwraith/evtlog/beats.go
package evtlog

import (
	"strings"
	"sync"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// beatsSender is the part of the lumberjack client used by the beats backend
type beatsSender interface {
	Send(data []interface{}) (int, error)
	Close() error
}

// beatsBackend ships each batch as one event to a beats (lumberjack v2) input
type beatsBackend struct {
	mu       sync.Mutex
	sink     beatsSender
	facility Facility
	now      func() time.Time
}

// newBeatsBackend dials endpoint synchronously, every Send waits for the ACK
func newBeatsBackend(endpoint string, facility Facility, timeout time.Duration) (*beatsBackend, error) {
	compression := lumberjack.CompressionLevel(0)
	ljTimeout := lumberjack.Timeout(timeout)

	client, err := lumberjack.SyncDial(endpoint, compression, ljTimeout)
	if err != nil {
		return nil, fmtErrorf("failed connection to beats server '%s': %w", endpoint, err)
	}
	return &beatsBackend{sink: client, facility: facility, now: time.Now}, nil
}

// Emit sends the batch as a single event
func (b *beatsBackend) Emit(sev Severity, pid, identity string, lines []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sink == nil {
		return fmtErrorf("beats backend closed")
	}

	events := []interface{}{beatsEvent(b.now(), b.facility, sev, pid, identity, lines)}
	sent, err := b.sink.Send(events)
	if err != nil {
		return fmtErrorf("beats send failed: %w", err)
	}
	if sent != len(events) {
		return fmtErrorf("beats server acknowledged %d of %d event(s)", sent, len(events))
	}
	return nil
}

// Close closes the connection
func (b *beatsBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sink == nil {
		return nil
	}
	err := b.sink.Close()
	b.sink = nil
	return err
}

// beatsEvent builds the event document for one batch.
// The message id is the batch line count.
func beatsEvent(ts time.Time, fac Facility, sev Severity, pid, identity string, lines []string) map[string]interface{} {
	return map[string]interface{}{
		"@timestamp": ts,
		"message":    strings.Join(lines, "\n"),
		"event": map[string]interface{}{
			"type": string(sev.EventType()),
		},
		"process": map[string]interface{}{
			"name": identity,
			"pid":  pid,
		},
		"log": map[string]interface{}{
			"message_id": len(lines),
			"syslog": map[string]interface{}{
				"appname": identity,
				"facility": map[string]interface{}{
					"code": int(fac),
					"name": fac.String(),
				},
				"priority":      int(sev),
				"priority-name": sev.Name(),
				"severity":      sev.String(),
			},
		},
	}
}
