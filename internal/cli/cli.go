package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vk/jobrun/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `
jobrun - launches job documents against a pluggable execution backend.

Usage:
  jobrun run [options] <document> [document args...]
  jobrun builtins

Commands:
  run        Execute a job document (a file path or a builtin name).
  builtins   List the job documents shipped inside the binary.

Options for run:
`

// Parse processes command-line arguments. It returns a populated AppConfig,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	flagSet := pflag.NewFlagSet("jobrun", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	// Everything after the document reference belongs to the document, even
	// when it looks like one of our own flags.
	flagSet.SetInterspersed(false)

	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	schedulerFlag := flagSet.String("scheduler", "", "Backend to submit the job to. Defaults to the configured default_scheduler.")
	schedulerArgsFlag := flagSet.String("scheduler-args", "", "Backend run options as comma-separated key=value pairs.")
	configFlag := flagSet.String("config", "", "Path to the launcher config file. Defaults to ./jobrun.hcl when present.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if len(args) == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	command := args[0]
	switch command {
	case "run", "builtins":
		args = args[1:]
	case "-h", "--help", "help":
		flagSet.Usage()
		return nil, true, nil
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q, expected 'run' or 'builtins'", command)}
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "" && logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	document := ""
	var documentArgs []string
	if command == "run" {
		if flagSet.NArg() == 0 {
			slog.Debug("No document provided, printing usage and exiting.")
			flagSet.Usage()
			return nil, true, nil
		}
		document = flagSet.Arg(0)
		documentArgs = flagSet.Args()[1:]
	}

	config, err := app.NewConfig(app.Config{
		Command:       command,
		Document:      document,
		DocumentArgs:  documentArgs,
		Scheduler:     *schedulerFlag,
		SchedulerArgs: *schedulerArgsFlag,
		ConfigPath:    *configFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
