// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the sejour terminal client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP endpoint.
//   - DatabaseDSN: path of the local sqlite file holding the session store.
//   - RememberMe: when true, the entered email/password are persisted
//     locally to pre-fill the next login. Stored in plaintext, like the
//     mobile app does; see the store package for the caveat.
//   - RequestTimeout: per-request HTTP timeout.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerEndpointAddr  string
	DatabaseDSN         string
	RememberMe          bool
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "sejour-client.db"
	c.RememberMe = false
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
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
