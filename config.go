// FILE: lixenwraith/evtlog/config.go
package evtlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// configPrefix is the TOML table holding logger settings
const configPrefix = "evtlog."

// Config holds all logger configuration values
type Config struct {
	// Identity and backend selection
	Identity  string `toml:"identity"`  // Reported with every record
	Facility  string `toml:"facility"`  // Syslog facility name, selects the backend
	Directory string `toml:"directory"` // Directory for file backends

	// Ring buffer and batching
	Capacity       int64 `toml:"capacity"`         // Ring slots, also the maximum lines per batch
	LineMax        int64 `toml:"line_max"`         // Maximum bytes kept per line
	TimeoutMs      int64 `toml:"timeout_ms"`       // Batch collection window for a lone line
	DrainTimeoutMs int64 `toml:"drain_timeout_ms"` // Upper bound on shutdown drain

	// File and console formatting
	Format          string `toml:"format"` // "txt" or "json"
	TimestampFormat string `toml:"timestamp_format"`

	// File rotation, 0 keeps the rotator defaults (100 MB, all backups, no age limit)
	MaxSizeMB  int64 `toml:"max_size_mb"`
	MaxBackups int64 `toml:"max_backups"`
	MaxAgeDays int64 `toml:"max_age_days"`
	Compress   bool  `toml:"compress"`

	// Event sinks, tried in order for non-local facilities
	BeatsEndpoint   string `toml:"beats_endpoint"`   // host:port of a beats/logstash input
	JournalEndpoint string `toml:"journal_endpoint"` // Base URL of systemd-journal-remote
	SinkTimeoutMs   int64  `toml:"sink_timeout_ms"`  // Dial and request timeout

	// Heartbeat, 0 disables
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"`

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Identity:  "evtlog",
	Facility:  "daemon",
	Directory: ".",

	Capacity:       10,
	LineMax:        200,
	TimeoutMs:      1000,
	DrainTimeoutMs: 1000,

	Format:          "txt",
	TimestampFormat: "2006-01-02 15:04:05",

	MaxSizeMB:  0,
	MaxBackups: 0,
	MaxAgeDays: 0,
	Compress:   false,

	BeatsEndpoint:   "",
	JournalEndpoint: "",
	SinkTimeoutMs:   3000,

	HeartbeatIntervalS: 0,

	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from the [evtlog] table of a TOML file.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct(configPrefix, *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, configPrefix, cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml name
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies loader values into cfg, fields absent from the loader keep their value
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	fields := tomlFields(cfg)
	for key, field := range fields {
		val, found := loader.Get(prefix + key)
		if !found {
			continue
		}
		if err := setFieldValue(field, val); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// applyOverrides applies a map of toml-keyed overrides to cfg
func applyOverrides(cfg *Config, overrides map[string]any) error {
	fields := tomlFields(cfg)
	for key, value := range overrides {
		field, exists := fields[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := setFieldValue(field, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// tomlFields indexes the settable fields of cfg by toml tag
func tomlFields(cfg *Config) map[string]reflect.Value {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fields := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("toml"); tag != "" {
			fields[tag] = v.Field(i)
		}
	}
	return fields
}

// setFieldValue sets a reflect.Value with the conversions TOML decoding needs
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Identity) == "" {
		return fmtErrorf("identity cannot be empty")
	}

	if _, err := ParseFacility(c.Facility); err != nil {
		return err
	}

	if c.Format != "txt" && c.Format != "json" {
		return fmtErrorf("invalid format: '%s' (use txt or json)", c.Format)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if c.Capacity <= 0 || c.Capacity > maxCapacity {
		return fmtErrorf("capacity must be between 1 and %d: %d", maxCapacity, c.Capacity)
	}

	if c.LineMax <= 0 {
		return fmtErrorf("line_max must be positive: %d", c.LineMax)
	}

	if c.TimeoutMs < 0 || c.DrainTimeoutMs < 0 || c.SinkTimeoutMs < 0 {
		return fmtErrorf("timeout settings cannot be negative")
	}

	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmtErrorf("rotation limits cannot be negative")
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// identity returns the identity capped to the reported length
func (c *Config) identity() string {
	return truncateLine(c.Identity, maxIdentityBytes)
}

// facility returns the parsed facility, Validate guarantees success
func (c *Config) facility() Facility {
	fac, _ := ParseFacility(c.Facility)
	return fac
}
