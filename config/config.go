package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	Database  DatabaseConfig  `yaml:"database"`
	Blacklist BlacklistConfig `yaml:"blacklist"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// UpstreamConfig holds the connection details for the attendance API.
type UpstreamConfig struct {
	BaseURL            string        `yaml:"base_url"`
	AccessToken        string        `yaml:"access_token"`
	Timezone           string        `yaml:"timezone"`
	PageSize           int           `yaml:"page_size"`
	PageTimeoutSeconds int           `yaml:"page_timeout_seconds"`
	PageTimeout        time.Duration `yaml:"-"` // Ignored by YAML parser
	DeptBaseURL        string        `yaml:"dept_base_url"`
	AddPersonURL       string        `yaml:"add_person_url"`
}

// TrackerConfig holds the presence tracker configuration.
type TrackerConfig struct {
	Enabled             bool          `yaml:"enabled"`
	IntervalSeconds     int           `yaml:"interval_seconds"`
	Interval            time.Duration `yaml:"-"`
	CycleTimeoutSeconds int           `yaml:"cycle_timeout_seconds"`
	CycleTimeout        time.Duration `yaml:"-"`
	Zones               []ZoneConfig  `yaml:"zones"`
}

// ZoneConfig describes one monitored zone and its badge devices.
type ZoneConfig struct {
	ID              string        `yaml:"id"`
	InDevices       []string      `yaml:"in_devices"`
	OutDevices      []string      `yaml:"out_devices"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// BlacklistConfig holds settings for the disabled-badge report.
type BlacklistConfig struct {
	SiteLabel string `yaml:"site_label"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Tracker.IntervalSeconds <= 0 {
		cfg.Tracker.IntervalSeconds = 30
	}
	cfg.Tracker.Interval = time.Duration(cfg.Tracker.IntervalSeconds) * time.Second

	if cfg.Tracker.CycleTimeoutSeconds <= 0 {
		cfg.Tracker.CycleTimeoutSeconds = 120
	}
	cfg.Tracker.CycleTimeout = time.Duration(cfg.Tracker.CycleTimeoutSeconds) * time.Second

	if cfg.Upstream.PageSize <= 0 {
		cfg.Upstream.PageSize = 800
	}
	if cfg.Upstream.PageTimeoutSeconds <= 0 {
		cfg.Upstream.PageTimeoutSeconds = 60
	}
	cfg.Upstream.PageTimeout = time.Duration(cfg.Upstream.PageTimeoutSeconds) * time.Second

	seen := make(map[string]bool, len(cfg.Tracker.Zones))
	for i := range cfg.Tracker.Zones {
		z := &cfg.Tracker.Zones[i]
		if z.ID == "" {
			return nil, fmt.Errorf("tracker.zones[%d]: zone id is required", i)
		}
		if seen[z.ID] {
			return nil, fmt.Errorf("tracker.zones: duplicate zone id %q", z.ID)
		}
		seen[z.ID] = true

		// Zones fall back to the tracker-wide poll interval.
		if z.IntervalSeconds <= 0 {
			z.IntervalSeconds = cfg.Tracker.IntervalSeconds
		}
		z.Interval = time.Duration(z.IntervalSeconds) * time.Second
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 15
	}

	return &cfg, nil
}
