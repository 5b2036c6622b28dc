// FILE: lixenwraith/evtlog/storage_test.go
package evtlog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createFileLogger starts a logger on the facility-selected backend
func createFileLogger(t *testing.T, facility Facility, mutate func(cfg *Config)) (*Logger, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Identity = "smartd"
	cfg.Facility = facility.String()
	cfg.Directory = dir
	cfg.InternalErrorsToStderr = false
	if mutate != nil {
		mutate(cfg)
	}

	logger := NewLogger()
	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())
	return logger, dir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestFileBackendLocal0(t *testing.T) {
	logger, dir := createFileLogger(t, FacLocal0, nil)

	logger.Append(SevInfo, "Device: /dev/sda, opened")
	logger.Append(SevCritical, "Device: /dev/sda, FAILED")
	require.NoError(t, logger.Shutdown())

	lines := readLines(t, filepath.Join(dir, "smartd.log"))
	require.Len(t, lines, 2)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} smartd\[\d+\]: Info : Device: /dev/sda, opened$`, lines[0])
	assert.Contains(t, lines[1], "]: CRIT : Device: /dev/sda, FAILED")
}

func TestFileBackendNumberedFacilities(t *testing.T) {
	for i, fac := range []Facility{FacLocal3, FacLocal4, FacLocal5, FacLocal6, FacLocal7} {
		logger, dir := createFileLogger(t, fac, nil)
		logger.Append(SevNotice, "numbered")
		require.NoError(t, logger.Shutdown())

		name := filepath.Join(dir, "smartd"+string(rune('1'+i))+".log")
		lines := readLines(t, name)
		assert.Contains(t, lines[0], "]: Note : numbered", fac.String())
	}
}

func TestFileBackendJSON(t *testing.T) {
	logger, dir := createFileLogger(t, FacLocal0, func(cfg *Config) {
		cfg.Format = "json"
	})

	logger.Append(SevWarning, `quote " here`)
	require.NoError(t, logger.Shutdown())

	var record map[string]string
	require.NoError(t, json.Unmarshal([]byte(readLines(t, filepath.Join(dir, "smartd.log"))[0]), &record))
	assert.Equal(t, "smartd", record["identity"])
	assert.Equal(t, "Warn", record["severity"])
	assert.Equal(t, `quote " here`, record["message"])
}

func TestFileBackendUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	cfg := DefaultConfig()
	cfg.Facility = "local0"
	cfg.Directory = filepath.Join(blocker, "sub")

	err := NewLogger().ApplyConfig(cfg)
	assert.Error(t, err)
}

func TestConsoleBackends(t *testing.T) {
	var stdout, stderr bytes.Buffer
	prevOut, prevErr := consoleStdout, consoleStderr
	consoleStdout, consoleStderr = &stdout, &stderr
	t.Cleanup(func() { consoleStdout, consoleStderr = prevOut, prevErr })

	logger, _ := createFileLogger(t, FacLocal1, nil)
	logger.Append(SevInfo, "to stdout")
	require.NoError(t, logger.Shutdown())

	logger, _ = createFileLogger(t, FacLocal2, nil)
	logger.Append(SevError, "to stderr")
	require.NoError(t, logger.Shutdown())

	assert.Contains(t, stdout.String(), "]: Info : to stdout\n")
	assert.Contains(t, stderr.String(), "]: ERROR: to stderr\n")
	assert.NotContains(t, stdout.String(), "to stderr")
}

func TestConsoleOutputWaitsForBatchWindow(t *testing.T) {
	out := &syncBuffer{}
	prevOut := consoleStdout
	consoleStdout = out
	t.Cleanup(func() { consoleStdout = prevOut })

	logger, _ := createFileLogger(t, FacLocal1, func(cfg *Config) {
		cfg.TimeoutMs = 300
	})
	defer logger.Shutdown()

	logger.Append(SevInfo, "windowed")
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, out.String(), "windowed", "a lone line is held for the collection window")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "]: Info : windowed\n")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLineBackendSharesTimestamp(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	b := newLineBackend(cfg, &out, nil)
	b.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	require.NoError(t, b.Emit(SevDebug, "7", "id", []string{"a", "b\x07"}))
	assert.Equal(t,
		"2024-05-06 07:08:09 id[7]: Debug: a\n2024-05-06 07:08:09 id[7]: Debug: b<07>\n",
		out.String())

	require.NoError(t, b.Close())
	assert.Error(t, b.Emit(SevDebug, "7", "id", []string{"late"}))
}

func TestFallbackFileForEventFacilities(t *testing.T) {
	t.Run("no sink configured", func(t *testing.T) {
		diag := captureInternal(t)
		logger, dir := createFileLogger(t, FacDaemon, func(cfg *Config) {
			cfg.InternalErrorsToStderr = true
		})
		logger.Append(SevInfo, "fallback")
		require.NoError(t, logger.Shutdown())

		assert.Contains(t, readLines(t, filepath.Join(dir, "smartd.log"))[0], "fallback")
		assert.Empty(t, diag.String())
	})

	t.Run("unreachable beats endpoint", func(t *testing.T) {
		diag := captureInternal(t)
		logger, dir := createFileLogger(t, FacUser, func(cfg *Config) {
			cfg.InternalErrorsToStderr = true
			cfg.BeatsEndpoint = "127.0.0.1:1"
			cfg.SinkTimeoutMs = 200
		})
		logger.Append(SevInfo, "after failed dial")
		require.NoError(t, logger.Shutdown())

		assert.Contains(t, readLines(t, filepath.Join(dir, "smartd.log"))[0], "after failed dial")
		assert.Contains(t, diag.String(), "failed connection to beats server")
		assert.Contains(t, diag.String(), "event sink unavailable")
	})

	t.Run("invalid journal endpoint", func(t *testing.T) {
		diag := captureInternal(t)
		logger, dir := createFileLogger(t, FacDaemon, func(cfg *Config) {
			cfg.InternalErrorsToStderr = true
			cfg.JournalEndpoint = "journal.local:19532"
		})
		require.NoError(t, logger.Shutdown())

		_, err := os.Stat(filepath.Join(dir, "smartd.log"))
		assert.NoError(t, err)
		assert.Contains(t, diag.String(), "must be an http(s) URL")
	})
}

func TestReconfigureReopensBackend(t *testing.T) {
	logger, dir := createFileLogger(t, FacLocal0, nil)
	logger.Append(SevInfo, "before")

	// Batching changes keep the open file
	cfg := logger.GetConfig()
	cfg.Capacity = 20
	require.NoError(t, logger.ApplyConfig(cfg))

	cfg = logger.GetConfig()
	cfg.Facility = "local3"
	require.NoError(t, logger.ApplyConfig(cfg))
	logger.Append(SevInfo, "after")
	require.NoError(t, logger.Shutdown())

	assert.Equal(t, 1, len(readLines(t, filepath.Join(dir, "smartd.log"))))
	assert.Contains(t, readLines(t, filepath.Join(dir, "smartd1.log"))[0], "after")
}

func TestBackendRequiresReopen(t *testing.T) {
	base := DefaultConfig()

	same := base.Clone()
	same.Capacity = 99
	same.TimeoutMs = 1
	same.HeartbeatIntervalS = 5
	assert.False(t, backendRequiresReopen(base, same))

	for _, mutate := range []func(*Config){
		func(c *Config) { c.Identity = "x" },
		func(c *Config) { c.Facility = "local0" },
		func(c *Config) { c.Directory = "/tmp" },
		func(c *Config) { c.Format = "json" },
		func(c *Config) { c.MaxSizeMB = 1 },
		func(c *Config) { c.BeatsEndpoint = "h:1" },
		func(c *Config) { c.JournalEndpoint = "http://h" },
	} {
		changed := base.Clone()
		mutate(changed)
		assert.True(t, backendRequiresReopen(base, changed))
	}
	assert.True(t, backendRequiresReopen(nil, base))
}
