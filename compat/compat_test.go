// FILE: lixenwraith/evtlog/compat/compat_test.go
package compat

import (
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/evtlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedBatch struct {
	severity evtlog.Severity
	lines    []string
}

// recorder is an emitter keeping every batch it receives
type recorder struct {
	mu      sync.Mutex
	batches []recordedBatch
}

func (r *recorder) Emit(sev evtlog.Severity, pid, identity string, lines []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, recordedBatch{severity: sev, lines: append([]string(nil), lines...)})
	return nil
}

// lines returns every recorded line with its severity, in emit order
func (r *recorder) lines() ([]evtlog.Severity, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sevs []evtlog.Severity
	var lines []string
	for _, b := range r.batches {
		for _, line := range b.lines {
			sevs = append(sevs, b.severity)
			lines = append(lines, line)
		}
	}
	return sevs, lines
}

// createTestCompatBuilder creates a started logger feeding a recorder
func createTestCompatBuilder(t *testing.T) (*Builder, *evtlog.Logger, *recorder) {
	t.Helper()
	rec := &recorder{}
	appLogger, err := evtlog.NewBuilder().
		Identity("compat-test").
		TimeoutMs(10).
		Emitter(rec).
		Build()
	require.NoError(t, err)
	require.NoError(t, appLogger.Start())

	return NewBuilder().WithLogger(appLogger), appLogger, rec
}

func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, logger, _ := createTestCompatBuilder(t)
		defer logger.Shutdown()

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Same(t, logger, gnetAdapter.logger)

		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.Same(t, logger, fasthttpAdapter.logger)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})

	t.Run("with config", func(t *testing.T) {
		cfg := evtlog.DefaultConfig()
		cfg.Facility = "local1"
		builder := NewBuilder().WithConfig(cfg)

		logger, err := builder.GetLogger()
		require.NoError(t, err)
		defer logger.Shutdown()
		assert.Equal(t, "local1", logger.GetConfig().Facility)

		again, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Same(t, logger, again)
	})
}

func TestGnetAdapter(t *testing.T) {
	builder, logger, rec := createTestCompatBuilder(t)

	var fatalMsg string
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))
	require.NoError(t, err)

	adapter.Debugf("debug %d", 1)
	adapter.Infof("info %s", "two")
	adapter.Warnf("warn")
	adapter.Errorf("error")
	adapter.Fatalf("fatal %v", true)

	assert.Equal(t, "fatal true", fatalMsg)

	sevs, lines := rec.lines()
	assert.Equal(t, []string{"gnet: debug 1", "gnet: info two", "gnet: warn", "gnet: error", "gnet: fatal true"}, lines)
	assert.Equal(t, []evtlog.Severity{evtlog.SevDebug, evtlog.SevInfo, evtlog.SevWarning, evtlog.SevError, evtlog.SevCritical}, sevs)

	require.NoError(t, logger.Shutdown())
}

func TestFastHTTPAdapter(t *testing.T) {
	builder, logger, rec := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	adapter.Printf("request %s served", "/index")
	adapter.Printf("connection failed: %v", "reset")
	adapter.Printf("deprecated header used")

	require.NoError(t, logger.Shutdown(time.Second))

	sevs, lines := rec.lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "fasthttp: request /index served", lines[0])
	assert.Equal(t, []evtlog.Severity{evtlog.SevInfo, evtlog.SevError, evtlog.SevWarning}, sevs)
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, logger, rec := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP(
		WithDefaultSeverity(evtlog.SevNotice),
		WithSeverityDetector(nil),
	)
	require.NoError(t, err)

	adapter.Printf("error in handler")
	require.NoError(t, logger.Shutdown())

	sevs, _ := rec.lines()
	assert.Equal(t, []evtlog.Severity{evtlog.SevNotice}, sevs)
}

func TestDetectSeverity(t *testing.T) {
	testCases := []struct {
		msg      string
		expected evtlog.Severity
		detected bool
	}{
		{"panic: runtime error", evtlog.SevCritical, true},
		{"Error while reading", evtlog.SevError, true},
		{"dial failed", evtlog.SevError, true},
		{"WARNING: slow client", evtlog.SevWarning, true},
		{"debug mode on", evtlog.SevDebug, true},
		{"served request", evtlog.SevInfo, false},
	}

	for _, tc := range testCases {
		t.Run(tc.msg, func(t *testing.T) {
			sev, ok := DetectSeverity(tc.msg)
			assert.Equal(t, tc.expected, sev)
			assert.Equal(t, tc.detected, ok)
		})
	}
}
