package config

import "time"

// Config holds runtime settings for the petcare terminal front-end.
//
// Fields:
//   - ServerBaseURL: base URL of the petcare backend.
//   - DatabaseFile: local SQLite file keeping the guest flag and tokens.
//   - RequestTimeout: upper bound for every backend call.
//   - LogLevel: minimum level of diagnostic output on stderr.
type Config struct {
	ServerBaseURL  string
	DatabaseFile   string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.DatabaseFile = "petcare.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
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
