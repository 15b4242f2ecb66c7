package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"saberarena/server/logging"
)

// Load reads a YAML tunables file over the authored defaults and validates
// the result. A missing path returns the defaults unchanged so a fresh
// checkout runs without any file on disk.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoggingRuntime converts the logging section to the router's config type.
func (c Config) LoggingRuntime() logging.Config {
	cfg := logging.DefaultConfig()
	if len(c.Logging.Sinks) > 0 {
		cfg.EnabledSinks = append([]string(nil), c.Logging.Sinks...)
	}
	cfg.MinimumSeverity = parseSeverity(c.Logging.MinSeverity)
	cfg.JSON.FilePath = c.Logging.JSONPath
	cfg.JSON.FlushInterval = 2 * time.Second
	return cfg
}

func parseSeverity(name string) logging.Severity {
	switch name {
	case "debug":
		return logging.SeverityDebug
	case "warn":
		return logging.SeverityWarn
	case "error":
		return logging.SeverityError
	default:
		return logging.SeverityInfo
	}
}
