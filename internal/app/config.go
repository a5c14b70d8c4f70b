package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Input   string // input sequence file
	Output  string // workspace folder; empty means the input base name
	Threads int
	Length  int

	// SettingsPath is the optional HCL tool settings file.
	SettingsPath string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Input == "" {
		return nil, errors.New("Input is a required configuration field and cannot be empty")
	}
	if cfg.Threads <= 0 {
		return nil, fmt.Errorf("threads must be a positive integer, got %d", cfg.Threads)
	}
	if cfg.Length <= 0 {
		return nil, fmt.Errorf("length must be a positive integer, got %d", cfg.Length)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
