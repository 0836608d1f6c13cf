// Package remote provides the backend that submits job specs to a remote
// jobs API over HTTP. The launcher does not block on remote jobs; it
// reports the job's status URL and returns, though Wait is available and
// polls until the job reaches a terminal state.
package remote

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/vk/jobrun/internal/registry"
	"github.com/vk/jobrun/pkg/jobspec"
)

// DefaultPollInterval is how often Wait checks the job state when the
// configuration does not say otherwise.
const DefaultPollInterval = 2 * time.Second

// Module registers the remote backend.
type Module struct {
	// Endpoint is the base URL of the jobs API. Empty means the backend
	// is registered but unconfigured; submission fails with a clear
	// error.
	Endpoint     string
	PollInterval time.Duration
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBackend(New(m.Endpoint, m.PollInterval))
}

// Backend talks to a jobs API:
//
//	POST /api/v1/jobs          submit a spec, returns the job resource
//	GET  /api/v1/jobs/{id}     fetch the job resource
type Backend struct {
	endpoint string
	client   *resty.Client
	poll     time.Duration
}

// New creates a remote backend for the given API endpoint.
func New(endpoint string, poll time.Duration) *Backend {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Backend{
		endpoint: endpoint,
		client:   resty.New().SetBaseURL(endpoint),
		poll:     poll,
	}
}

// Name implements registry.Backend.
func (b *Backend) Name() string { return "remote" }

type submitRequest struct {
	Job     *jobspec.Job       `json:"job"`
	Options registry.RunConfig `json:"options,omitempty"`
}

type jobResource struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	UIURL   string `json:"ui_url"`
	Message string `json:"message"`
}

// Submit implements registry.Backend.
func (b *Backend) Submit(ctx context.Context, job *jobspec.Job, cfg registry.RunConfig) (registry.Handle, error) {
	if b.endpoint == "" {
		return "", fmt.Errorf("remote backend is not configured; set a backend %q endpoint in jobrun.hcl", b.Name())
	}
	if err := job.Validate(); err != nil {
		return "", err
	}

	var out jobResource
	res, err := b.client.R().
		SetContext(ctx).
		SetBody(&submitRequest{Job: job, Options: cfg}).
		SetResult(&out).
		Post("/api/v1/jobs")
	if err != nil {
		return "", fmt.Errorf("submitting job %q: %w", job.Name, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("submitting job %q: jobs API returned %s", job.Name, res.Status())
	}
	if out.ID == "" {
		return "", fmt.Errorf("submitting job %q: jobs API returned no job id", job.Name)
	}
	return registry.Handle("remote://" + out.ID), nil
}

// Status implements registry.Backend.
func (b *Backend) Status(ctx context.Context, h registry.Handle) (*registry.Status, error) {
	res, err := b.fetch(ctx, h)
	if err != nil {
		return nil, err
	}
	return &registry.Status{
		State:   stateFor(res.State),
		UIURL:   res.UIURL,
		Message: res.Message,
	}, nil
}

// Wait polls the job until it reaches a terminal state.
func (b *Backend) Wait(ctx context.Context, h registry.Handle) error {
	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()
	for {
		st, err := b.Status(ctx, h)
		if err != nil {
			return err
		}
		if st.State.Terminal() {
			if st.State == registry.StateFailed {
				return fmt.Errorf("job %s failed: %s", h, st.Message)
			}
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Backend) fetch(ctx context.Context, h registry.Handle) (*jobResource, error) {
	id, err := idFor(h)
	if err != nil {
		return nil, err
	}
	var out jobResource
	res, err := b.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get("/api/v1/jobs/{id}")
	if err != nil {
		return nil, fmt.Errorf("fetching job %s: %w", h, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetching job %s: jobs API returned %s", h, res.Status())
	}
	return &out, nil
}

func idFor(h registry.Handle) (string, error) {
	const prefix = "remote://"
	s := string(h)
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return "", fmt.Errorf("handle %q does not belong to the remote backend", h)
	}
	return s[len(prefix):], nil
}

func stateFor(s string) registry.State {
	switch s {
	case "pending":
		return registry.StatePending
	case "running":
		return registry.StateRunning
	case "succeeded":
		return registry.StateSucceeded
	case "failed":
		return registry.StateFailed
	default:
		return registry.State(s)
	}
}
