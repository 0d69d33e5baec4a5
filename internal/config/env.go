package config

import "os"

// FromEnv layers environment overrides on top of an already loaded
// config. Only deployment-facing knobs are overridable this way;
// balance tuning stays in the yaml file.
func FromEnv(c *Config) {
	if v := os.Getenv("QUESTLOG_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("QUESTLOG_DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := os.Getenv("QUESTLOG_TELEMETRY_PATH"); v != "" {
		c.Server.TelemetryPath = v
	}
	if v := os.Getenv("QUESTLOG_USER"); v != "" {
		c.Server.DefaultUser = v
	}
}
