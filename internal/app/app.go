package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/jobrun/internal/config"
	"github.com/vk/jobrun/internal/launcher"
	"github.com/vk/jobrun/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	registry  *registry.Registry
	launcher  *launcher.Launcher
	appConfig *Config
	fileCfg   *config.Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// A failure to load the launcher configuration is a fatal startup error and
// panics; the entrypoint recovers it into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, modules ...registry.Module) *App {
	fileCfg, err := config.Load(appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	// CLI flags override the file's log settings.
	level := appConfig.LogLevel
	if level == "" {
		level = fileCfg.LogLevel
	}
	format := appConfig.LogFormat
	if format == "" {
		format = fileCfg.LogFormat
	}
	logger := newLogger(level, format, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules(outW, fileCfg)
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All backend modules registered.", "backends", reg.Names())

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		launcher:  launcher.New(outW, reg),
		appConfig: appConfig,
		fileCfg:   fileCfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
