// Package config loads the pipeline settings shared across the binaries:
// classification and risk windows, the intervention catalog, output formats,
// and the optional warehouse connection. Settings come from defaults, then a
// YAML file, then READMIT_* environment overrides, in that order.
package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"readmitstats/analytics"
	"readmitstats/model"
)

const (
	configPathEnv   = "READMIT_CONFIG"
	postgresURLEnv  = "READMIT_PG_URL"
	windowDaysEnv   = "READMIT_WINDOW_DAYS"
	lookbackDaysEnv = "READMIT_LOOKBACK_DAYS"
	outputFormatEnv = "READMIT_OUTPUT_FORMAT"
)

// Config holds high-level settings required across the pipeline.
type Config struct {
	Analytics AnalyticsConfig `yaml:"analytics"`
	Output    OutputConfig    `yaml:"output"`
	Postgres  PostgresConfig  `yaml:"postgres"`
}

// AnalyticsConfig tunes the classification window, the utilization lookback,
// and the priced intervention catalog.
type AnalyticsConfig struct {
	WindowDays    int                  `yaml:"window_days"`
	LookbackDays  int                  `yaml:"lookback_days"`
	EDVisitCPT    []string             `yaml:"ed_visit_cpt_codes"`
	Interventions []model.Intervention `yaml:"interventions"`
}

// OutputConfig selects the processed-table format: csv, parquet, or both.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// PostgresConfig describes the optional warehouse connection. An empty URL
// disables the load.
type PostgresConfig struct {
	URL string `yaml:"url"`
}

// Options converts the analytics section into pipeline options.
func (c Config) Options() analytics.Options {
	return analytics.Options{
		WindowDays:    c.Analytics.WindowDays,
		LookbackDays:  c.Analytics.LookbackDays,
		EDVisitCPT:    c.Analytics.EDVisitCPT,
		Interventions: c.Analytics.Interventions,
	}
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An empty path falls back to the READMIT_CONFIG variable; a
// missing or malformed file logs the problem and keeps the defaults, so the
// binaries stay usable with no config at all.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(postgresURLEnv); v != "" {
		c.Postgres.URL = v
	}
	if v := os.Getenv(outputFormatEnv); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv(windowDaysEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Analytics.WindowDays = n
		} else {
			log.Printf("config: ignoring %s=%q (want a positive integer)", windowDaysEnv, v)
		}
	}
	if v := os.Getenv(lookbackDaysEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Analytics.LookbackDays = n
		} else {
			log.Printf("config: ignoring %s=%q (want a positive integer)", lookbackDaysEnv, v)
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Analytics.WindowDays > 0 {
		base.Analytics.WindowDays = override.Analytics.WindowDays
	}
	if override.Analytics.LookbackDays > 0 {
		base.Analytics.LookbackDays = override.Analytics.LookbackDays
	}
	if len(override.Analytics.EDVisitCPT) > 0 {
		base.Analytics.EDVisitCPT = override.Analytics.EDVisitCPT
	}
	if len(override.Analytics.Interventions) > 0 {
		base.Analytics.Interventions = override.Analytics.Interventions
	}
	if override.Output.Format != "" {
		base.Output.Format = override.Output.Format
	}
	if override.Postgres.URL != "" {
		base.Postgres.URL = override.Postgres.URL
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Analytics: AnalyticsConfig{
			WindowDays:    analytics.DefaultWindowDays,
			LookbackDays:  analytics.DefaultLookbackDays,
			EDVisitCPT:    analytics.DefaultEDCPTCodes,
			Interventions: analytics.DefaultInterventions,
		},
		Output: OutputConfig{Format: "csv"},
	}
}
