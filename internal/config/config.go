// Package config loads the optional launcher configuration file. The file
// carries defaults that would otherwise be repeated on every invocation
// (default scheduler, log settings) plus per-backend settings such as the
// remote jobs API endpoint.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// DefaultFile is looked for in the working directory when no explicit
// config path is given.
const DefaultFile = "jobrun.hcl"

// Config is the decoded launcher configuration.
type Config struct {
	DefaultScheduler string     `hcl:"default_scheduler,optional"`
	LogLevel         string     `hcl:"log_level,optional"`
	LogFormat        string     `hcl:"log_format,optional"`
	Backends         []*Backend `hcl:"backend,block"`
}

// Backend is the per-backend settings block.
type Backend struct {
	Name         string `hcl:"name,label"`
	Endpoint     string `hcl:"endpoint,optional"`
	PollInterval string `hcl:"poll_interval,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultScheduler: "local",
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load reads the configuration file at path. An empty path means the
// default location, and its absence is not an error; an explicitly given
// path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}

	cfg := &Config{}
	if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.DefaultScheduler == "" {
		cfg.DefaultScheduler = def.DefaultScheduler
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = def.LogFormat
	}
}

// Backend returns the settings block for the named backend, or an empty
// one when the file has none.
func (c *Config) Backend(name string) *Backend {
	for _, b := range c.Backends {
		if b.Name == name {
			return b
		}
	}
	return &Backend{Name: name}
}

// Poll parses the backend's poll interval; zero means "use the backend's
// default".
func (b *Backend) Poll() time.Duration {
	if b.PollInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(b.PollInterval)
	if err != nil {
		return 0
	}
	return d
}
