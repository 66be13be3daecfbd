package config

import "time"

// Config holds runtime settings shared by the VotoFácil CLIs.
//
// Fields:
//   - ProjectID: Firebase/GCP project that hosts the backend collections.
//   - CredentialsFile: optional path to a service-account JSON key; when empty
//     the ambient application-default credentials are used.
//   - WebAPIKey: Identity Toolkit web API key for admin sign-in.
//   - StorageBucket: bucket holding candidate photos.
//   - LocalDBPath: path of the local SQLite cache file.
//   - OnlineCheckInterval: how often the client probes backend reachability.
//   - OnlineCheckTimeout: per-probe deadline.
//
// Units: intervals are time.Duration values (e.g., 3*time.Second).
type Config struct {
	ProjectID           string
	CredentialsFile     string
	WebAPIKey           string
	StorageBucket       string
	LocalDBPath         string
	OnlineCheckInterval time.Duration
	OnlineCheckTimeout  time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ProjectID = "votofacil"
	c.LocalDBPath = "votofacil.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.OnlineCheckTimeout = 2 * time.Second
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
