package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/jobrun/pkg/jobspec"
)

// Handle identifies a submitted job within its backend, in the form
// "<backend>://<id>".
type Handle string

// State is a backend-reported job state.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Status is a point-in-time report for a submitted job.
type Status struct {
	State   State
	UIURL   string
	Message string
}

// RunConfig carries scheduler-specific run options as a flat key/value
// map, e.g. cluster=foo,user=bar.
type RunConfig map[string]string

// ParseRunConfig parses the comma-separated key=value form used on the
// command line. An empty string yields an empty config.
func ParseRunConfig(s string) (RunConfig, error) {
	cfg := make(RunConfig)
	if strings.TrimSpace(s) == "" {
		return cfg, nil
	}
	for _, pair := range strings.Split(s, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("malformed scheduler arg %q, want key=value", pair)
		}
		cfg[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return cfg, nil
}

// Backend is an execution backend: it accepts a finished job spec and
// manages the job's lifecycle from there. The launcher treats the set as
// an opaque capability; backend errors are surfaced as-is.
type Backend interface {
	Name() string
	Submit(ctx context.Context, job *jobspec.Job, cfg RunConfig) (Handle, error)
	Status(ctx context.Context, h Handle) (*Status, error)
	Wait(ctx context.Context, h Handle) error
}

// Module is implemented by packages that contribute backends to a
// registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds the backends available to a single application instance.
type Registry struct {
	backends map[string]Backend
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// RegisterBackend adds a backend under its own name. Registering the same
// name twice is a programmer error and panics.
func (r *Registry) RegisterBackend(b Backend) {
	if _, ok := r.backends[b.Name()]; ok {
		panic(fmt.Sprintf("backend %q registered twice", b.Name()))
	}
	r.backends[b.Name()] = b
}

// Backend looks up a backend by scheduler name.
func (r *Registry) Backend(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, &UnknownBackendError{Name: name, Known: r.Names()}
	}
	return b, nil
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownBackendError reports a scheduler name with no registered
// backend.
type UnknownBackendError struct {
	Name  string
	Known []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("no backend registered for scheduler %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}
