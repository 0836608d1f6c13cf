package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command      string   // "run" or "builtins"
	Document     string   // file path or builtin name
	DocumentArgs []string // tokens handed to the document's schema

	Scheduler     string // empty means the configured default
	SchedulerArgs string // comma-separated key=value run options
	ConfigPath    string // launcher config file, empty means the default location

	LogFormat string // empty means the configured value
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case "run":
		if cfg.Document == "" {
			return nil, errors.New("Document is a required configuration field for the run command and cannot be empty")
		}
	case "builtins":
		// no further fields required
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	return &cfg, nil
}
