// Package config loads the immutable service configuration. Everything is
// resolved once before the scheduler starts; nothing here is re-read at
// runtime.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gridpilot/gridpilot/core/decision"
	"github.com/gridpilot/gridpilot/core/forecast"
	"github.com/gridpilot/gridpilot/core/ingest"
	"github.com/gridpilot/gridpilot/core/model"
	"github.com/gridpilot/gridpilot/core/scheduler"
	infrasink "github.com/gridpilot/gridpilot/infra/sink"
)

type Config struct {
	Scheduler  scheduler.Config       `json:"scheduler"`
	History    HistoryConfig          `json:"history"`
	Battery    model.Battery          `json:"battery"`
	Simulation ingest.Config          `json:"simulation"`
	Forecast   forecast.Config        `json:"forecast"`
	Decision   decision.Config        `json:"decision"`
	Metrics    MetricsConfig          `json:"metrics"`
	MQTT       infrasink.MQTTConfig   `json:"mqtt"`
	Influx     infrasink.InfluxConfig `json:"influx"`
	Logging    LoggingConfig          `json:"logging"`
	API        APIConfig              `json:"api"`
}

// Load reads the configuration file, applies K_-prefixed environment
// overrides, fills defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize applies defaults and cross-section consistency, then validates.
// Exposed so tests and the simulate command can build configs in code.
func (c *Config) Finalize() error {
	c.Scheduler.SetDefaults()
	c.Battery.SetDefaults()
	c.Simulation.SetDefaults()
	// The forecaster projects along the same shapes the generator uses.
	if c.Forecast.SolarPeakKWh <= 0 {
		c.Forecast.SolarPeakKWh = c.Simulation.SolarPeakKWh
	}
	if c.Forecast.StepMinutes <= 0 {
		c.Forecast.StepMinutes = c.Simulation.StepMinutes
	}
	c.Forecast.SetDefaults()
	c.Decision.SetDefaults()
	c.History.SetDefaults(c.Scheduler.CadenceSeconds)
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
	c.API.SetDefaults()

	for name, v := range map[string]interface{ Validate() error }{
		"scheduler":  c.Scheduler,
		"battery":    c.Battery,
		"simulation": c.Simulation,
		"forecast":   c.Forecast,
		"decision":   c.Decision,
		"history":    c.History,
		"mqtt":       c.MQTT,
		"logging":    c.Logging,
	} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// HistoryConfig sizes the snapshot ring buffer.
type HistoryConfig struct {
	Capacity int `json:"capacity"`
}

// SetDefaults sizes the buffer for a 24-hour window at the given cadence.
func (c *HistoryConfig) SetDefaults(cadenceSeconds int) {
	if c.Capacity <= 0 && cadenceSeconds > 0 {
		c.Capacity = 24 * 3600 / cadenceSeconds
	}
	if c.Capacity <= 0 {
		c.Capacity = 1
	}
}

// Validate checks the capacity.
func (c HistoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive")
	}
	return nil
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
}

// SetDefaults applies the default scrape address.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}

// APIConfig controls the status HTTP endpoint.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// SetDefaults applies the default listen address.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
