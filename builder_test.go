// FILE: lixenwraith/evtlog/builder_test.go
package evtlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("all settings", func(t *testing.T) {
		dir := t.TempDir()
		logger, err := NewBuilder().
			Identity("smartd").
			Facility(FacLocal0).
			Directory(dir).
			Capacity(32).
			LineMax(100).
			TimeoutMs(50).
			DrainTimeoutMs(200).
			Format("json").
			MaxSizeMB(5).
			HeartbeatIntervalS(0).
			Build()
		require.NoError(t, err)
		defer logger.Shutdown()

		cfg := logger.GetConfig()
		assert.Equal(t, "smartd", cfg.Identity)
		assert.Equal(t, "local0", cfg.Facility)
		assert.Equal(t, int64(32), cfg.Capacity)
		assert.Equal(t, int64(100), cfg.LineMax)
		assert.Equal(t, int64(50), cfg.TimeoutMs)
		assert.Equal(t, int64(200), cfg.DrainTimeoutMs)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, int64(5), cfg.MaxSizeMB)
		assert.FileExists(t, filepath.Join(dir, "smartd.log"))
		assert.False(t, logger.state.Started.Load(), "Build does not start")
	})

	t.Run("facility by name", func(t *testing.T) {
		logger, err := NewBuilder().FacilityString("local2").Emitter(&recorder{}).Build()
		require.NoError(t, err)
		assert.Equal(t, "local2", logger.GetConfig().Facility)
		require.NoError(t, logger.Shutdown())

		_, err = NewBuilder().FacilityString("nowhere").Capacity(8).Build()
		assert.Error(t, err)
	})

	t.Run("endpoints", func(t *testing.T) {
		logger, err := NewBuilder().
			BeatsEndpoint("logstash:5044").
			JournalEndpoint("http://journal:19532").
			Emitter(&recorder{}).
			Build()
		require.NoError(t, err)
		defer logger.Shutdown()
		assert.Equal(t, "logstash:5044", logger.GetConfig().BeatsEndpoint)
		assert.Equal(t, "http://journal:19532", logger.GetConfig().JournalEndpoint)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewBuilder().Capacity(0).Emitter(&recorder{}).Build()
		assert.Error(t, err)
	})

	t.Run("custom emitter", func(t *testing.T) {
		rec := &recorder{}
		logger, err := NewBuilder().Emitter(rec).Build()
		require.NoError(t, err)
		require.NoError(t, logger.Start())

		logger.Info("built")
		require.NoError(t, logger.Shutdown())
		assert.Equal(t, []string{"built"}, rec.allLines())
		assert.Equal(t, 1, rec.closed)
	})
}
