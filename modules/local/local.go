// Package local provides the backend that runs a job's roles as child
// processes on the launcher's own machine. It is the backend the launcher
// blocks on: submit starts the processes and Wait joins them.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/jobrun/internal/ctxlog"
	"github.com/vk/jobrun/internal/registry"
	"github.com/vk/jobrun/pkg/jobspec"
)

// Module registers the local backend.
type Module struct {
	// Out receives the child processes' combined output. Defaults to the
	// process's own stdout.
	Out io.Writer
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	r.RegisterBackend(New(out))
}

// Backend runs roles as replica child processes. The role's Image field is
// ignored; there is no container runtime involved.
type Backend struct {
	out io.Writer

	mu   sync.Mutex
	jobs map[registry.Handle]*runningJob
}

type runningJob struct {
	name string
	cmds []*exec.Cmd
	done chan struct{}
	err  error // valid once done is closed
}

// New creates a local backend writing child output to out.
func New(out io.Writer) *Backend {
	return &Backend{out: out, jobs: make(map[registry.Handle]*runningJob)}
}

// Name implements registry.Backend.
func (b *Backend) Name() string { return "local" }

// Submit starts one process per role replica and returns immediately. The
// processes keep running until they exit on their own or Wait observes
// them; the submit context only covers startup.
func (b *Backend) Submit(ctx context.Context, job *jobspec.Job, cfg registry.RunConfig) (registry.Handle, error) {
	logger := ctxlog.FromContext(ctx)
	if err := job.Validate(); err != nil {
		return "", err
	}

	rj := &runningJob{name: job.Name, done: make(chan struct{})}
	for _, role := range job.Roles {
		for replica := 0; replica < role.Replicas; replica++ {
			cmd := exec.Command(role.Entrypoint, role.Arguments...)
			cmd.Stdout = b.out
			cmd.Stderr = b.out
			cmd.Env = append(os.Environ(),
				fmt.Sprintf("JOBRUN_ROLE=%s", role.Name),
				fmt.Sprintf("JOBRUN_REPLICA=%d", replica),
			)
			for k, v := range role.Environ {
				cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
			}
			if err := cmd.Start(); err != nil {
				kill(rj.cmds)
				return "", fmt.Errorf("starting role %q replica %d: %w", role.Name, replica, err)
			}
			logger.Debug("started replica", "job", job.Name, "role", role.Name, "replica", replica, "pid", cmd.Process.Pid)
			rj.cmds = append(rj.cmds, cmd)
		}
	}

	h := registry.Handle("local://" + uuid.NewString())
	b.mu.Lock()
	b.jobs[h] = rj
	b.mu.Unlock()

	go func() {
		var firstErr error
		for _, cmd := range rj.cmds {
			if err := cmd.Wait(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		rj.err = firstErr
		close(rj.done)
	}()

	return h, nil
}

// Status implements registry.Backend.
func (b *Backend) Status(ctx context.Context, h registry.Handle) (*registry.Status, error) {
	rj, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	select {
	case <-rj.done:
		if rj.err != nil {
			return &registry.Status{State: registry.StateFailed, Message: rj.err.Error()}, nil
		}
		return &registry.Status{State: registry.StateSucceeded}, nil
	default:
		return &registry.Status{State: registry.StateRunning}, nil
	}
}

// Wait blocks until every replica has exited and returns the first replica
// failure, if any.
func (b *Backend) Wait(ctx context.Context, h registry.Handle) error {
	rj, err := b.lookup(h)
	if err != nil {
		return err
	}
	select {
	case <-rj.done:
		if rj.err != nil {
			return fmt.Errorf("job %q failed: %w", rj.name, rj.err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Backend) lookup(h registry.Handle) (*runningJob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rj, ok := b.jobs[h]
	if !ok {
		return nil, fmt.Errorf("unknown job handle %q", h)
	}
	return rj, nil
}

func kill(cmds []*exec.Cmd) {
	for _, cmd := range cmds {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}
}
