package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/jobrun/internal/builtins"
	"github.com/vk/jobrun/internal/ctxlog"
	"github.com/vk/jobrun/internal/launcher"
)

// Run executes the requested command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	switch a.appConfig.Command {
	case "builtins":
		return a.listBuiltins()
	case "run":
		return a.runDocument(ctx)
	default:
		// NewConfig rejects anything else.
		return fmt.Errorf("unknown command %q", a.appConfig.Command)
	}
}

func (a *App) listBuiltins() error {
	for _, name := range builtins.List() {
		fmt.Fprintln(a.outW, strings.TrimSuffix(name, builtins.Ext))
	}
	return nil
}

func (a *App) runDocument(ctx context.Context) error {
	scheduler := a.appConfig.Scheduler
	if scheduler == "" {
		scheduler = a.fileCfg.DefaultScheduler
	}
	a.logger.Debug("Launching document.", "document", a.appConfig.Document, "scheduler", scheduler)

	return a.launcher.Run(ctx, &launcher.Request{
		Document:      a.appConfig.Document,
		Scheduler:     scheduler,
		SchedulerArgs: a.appConfig.SchedulerArgs,
		Args:          a.appConfig.DocumentArgs,
	})
}
