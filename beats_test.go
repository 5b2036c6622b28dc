// FILE: lixenwraith/evtlog/beats_test.go
package evtlog

import (
	"errors"
	"net"
	"testing"
	"time"

	server "github.com/elastic/go-lumber/server/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records events instead of talking to a beats server
type fakeSender struct {
	events []interface{}
	err    error
	closed bool
}

func (f *fakeSender) Send(data []interface{}) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.events = append(f.events, data...)
	return len(data), nil
}

func (f *fakeSender) Close() error {
	f.closed = true
	return nil
}

func TestBeatsBackendEvent(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sender := &fakeSender{}
	b := &beatsBackend{sink: sender, facility: FacDaemon, now: func() time.Time { return ts }}

	require.NoError(t, b.Emit(SevWarning, "123", "smartd", []string{"temp high", "temp higher"}))
	require.Len(t, sender.events, 1)

	event := sender.events[0].(map[string]interface{})
	assert.Equal(t, ts, event["@timestamp"])
	assert.Equal(t, "temp high\ntemp higher", event["message"])
	assert.Equal(t, "warning", event["event"].(map[string]interface{})["type"])
	assert.Equal(t, "123", event["process"].(map[string]interface{})["pid"])

	logField := event["log"].(map[string]interface{})
	assert.Equal(t, 2, logField["message_id"])
	syslog := logField["syslog"].(map[string]interface{})
	assert.Equal(t, "smartd", syslog["appname"])
	assert.Equal(t, int(SevWarning), syslog["priority"])
	assert.Equal(t, "warning", syslog["priority-name"])
	assert.Equal(t, "daemon", syslog["facility"].(map[string]interface{})["name"])

	require.NoError(t, b.Close())
	assert.True(t, sender.closed)
	assert.Error(t, b.Emit(SevInfo, "1", "x", []string{"closed"}))
	assert.NoError(t, b.Close())
}

func TestBeatsBackendSendError(t *testing.T) {
	b := &beatsBackend{sink: &fakeSender{err: errors.New("broken pipe")}, now: time.Now}
	err := b.Emit(SevInfo, "1", "x", []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestBeatsBackendWithServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv, err := server.NewWithListener(ln)
	require.NoError(t, err)
	defer srv.Close()

	received := make(chan []interface{}, 4)
	go func() {
		for batch := range srv.ReceiveChan() {
			received <- batch.Events
			batch.ACK()
		}
	}()

	cfg := DefaultConfig()
	cfg.Identity = "smartd"
	cfg.Facility = "daemon"
	cfg.BeatsEndpoint = ln.Addr().String()
	cfg.InternalErrorsToStderr = false

	logger := NewLogger()
	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())

	logger.Append(SevError, "Device: /dev/sda, 8 Currently unreadable sectors\nDevice: /dev/sda, 2 Offline uncorrectable sectors")
	require.NoError(t, logger.Shutdown())

	select {
	case events := <-received:
		require.Len(t, events, 1)
		event, ok := events[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Device: /dev/sda, 8 Currently unreadable sectors\nDevice: /dev/sda, 2 Offline uncorrectable sectors", event["message"])
		assert.Equal(t, "error", event["event"].(map[string]interface{})["type"])
	case <-time.After(3 * time.Second):
		t.Fatal("beats server received nothing")
	}
	assert.Equal(t, uint64(1), logger.Stats().BatchesEmitted)
}
