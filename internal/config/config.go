package config

import "time"

// Config holds runtime settings for the CrewDesk client.
//
// Fields:
//   - BaseURL: root of the CrewDesk REST API, including the /api prefix.
//   - DatabasePath: path of the local SQLite file holding durable slots
//     (access token, device id, cookies).
//   - RefreshTimeout: upper bound on the credential refresh network call;
//     a refresh slower than this follows the failure path.
//   - RequestTimeout: overall per-request deadline for ordinary API calls.
type Config struct {
	BaseURL        string
	DatabasePath   string
	RefreshTimeout time.Duration
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:5000/api"
	c.DatabasePath = "crewdesk.db"
	c.RefreshTimeout = 10 * time.Second
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
