// Package launcher composes the run pipeline: resolve the document, split
// it, build the parameter schema, parse the invocation, validate the
// script, execute it, and hand the exported job spec to the selected
// backend. Every stage is fail-fast; a job spec reaches a backend only
// after all earlier stages succeed.
package launcher

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vk/jobrun/internal/builtins"
	"github.com/vk/jobrun/internal/ctxlog"
	"github.com/vk/jobrun/internal/document"
	"github.com/vk/jobrun/internal/policy"
	"github.com/vk/jobrun/internal/registry"
	"github.com/vk/jobrun/internal/schema"
	"github.com/vk/jobrun/internal/script"
	"github.com/vk/jobrun/pkg/scope"
)

// Request describes one launch invocation.
type Request struct {
	// Document is a user file path or a builtin document name.
	Document string
	// Scheduler selects the backend the exported job is submitted to.
	Scheduler string
	// SchedulerArgs is the comma-separated key=value run options string.
	SchedulerArgs string
	// Args are the invocation tokens parsed against the document's schema.
	Args []string
}

// Launcher runs documents against a backend registry.
type Launcher struct {
	out      io.Writer
	registry *registry.Registry
	policy   *policy.Policy
}

// New creates a launcher writing user-facing output to out.
func New(out io.Writer, reg *registry.Registry) *Launcher {
	return &Launcher{out: out, registry: reg, policy: policy.Default()}
}

// Run executes the full pipeline for one request.
func (l *Launcher) Run(ctx context.Context, req *Request) error {
	logger := ctxlog.FromContext(ctx)

	raw, err := builtins.Resolve(ctx, req.Document)
	if err != nil {
		return err
	}

	doc, err := document.Parse(raw)
	if err != nil {
		return err
	}

	sch, err := schema.Build(progName(req.Document), doc.Metadata.Arguments)
	if err != nil {
		return err
	}
	args, err := sch.ParseInvocation(req.Args)
	if err != nil {
		return err
	}

	scr, err := script.Parse(doc.Script)
	if err != nil {
		return err
	}
	if err := script.Validate(scr, l.policy); err != nil {
		return err
	}

	logger.Debug("script validated", "document", req.Document, "scheduler", req.Scheduler)

	job, err := script.Execute(ctx, scr, l.policy, &scope.Scope{
		Args:      args,
		Scheduler: req.Scheduler,
	})
	if err != nil {
		return err
	}

	backend, err := l.registry.Backend(req.Scheduler)
	if err != nil {
		return err
	}
	runCfg, err := registry.ParseRunConfig(req.SchedulerArgs)
	if err != nil {
		return err
	}

	handle, err := backend.Submit(ctx, job, runCfg)
	if err != nil {
		return fmt.Errorf("submitting to %s: %w", req.Scheduler, err)
	}
	fmt.Fprintf(l.out, "Launched job: %s\n", handle)
	logger.Info("job submitted", "handle", string(handle), "scheduler", req.Scheduler)

	// The local backend runs the job on this very machine, so the launcher
	// stays attached until it finishes. Other backends own the lifecycle;
	// for those, report where to watch the job and return.
	if req.Scheduler == "local" {
		if err := backend.Wait(ctx, handle); err != nil {
			return err
		}
	}

	status, err := backend.Status(ctx, handle)
	if err != nil {
		return err
	}
	fmt.Fprintf(l.out, "Job status: %s\n", status.State)
	if status.UIURL != "" {
		fmt.Fprintf(l.out, "Job URL: %s\n", status.UIURL)
	}
	return nil
}

// progName derives the usage name for invocation errors from the document
// reference.
func progName(ref string) string {
	return strings.TrimSuffix(filepath.Base(ref), builtins.Ext)
}
