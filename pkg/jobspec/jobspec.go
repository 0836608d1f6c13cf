// Package jobspec defines the job specification that a document's script
// builds and exports. The API is a fluent builder: every method returns its
// receiver so a straight-line script can assemble a complete spec in a
// single expression chain.
package jobspec

import (
	"fmt"
)

// Job describes one unit of work to hand to an execution backend: a named
// collection of roles, each of which runs as one or more replicas.
type Job struct {
	Name  string  `json:"name"`
	Roles []*Role `json:"roles"`
}

// Role is a homogeneous group of processes within a job (for example a
// trainer group or a parameter server group).
type Role struct {
	Name       string            `json:"name"`
	Image      string            `json:"image,omitempty"`
	Entrypoint string            `json:"entrypoint"`
	Arguments  []string          `json:"arguments,omitempty"`
	Environ    map[string]string `json:"environ,omitempty"`
	Replicas   int               `json:"replicas"`
}

// New creates a job spec with the given name and no roles.
func New(name string) *Job {
	return &Job{Name: name}
}

// WithRole appends a role to the job.
func (j *Job) WithRole(r *Role) *Job {
	j.Roles = append(j.Roles, r)
	return j
}

// Validate reports whether the spec is complete enough to submit. Backends
// call this before accepting a job.
func (j *Job) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("job spec has no name")
	}
	if len(j.Roles) == 0 {
		return fmt.Errorf("job spec %q has no roles", j.Name)
	}
	for i, r := range j.Roles {
		if r.Name == "" {
			return fmt.Errorf("job spec %q: role %d has no name", j.Name, i)
		}
		if r.Entrypoint == "" {
			return fmt.Errorf("job spec %q: role %q has no entrypoint", j.Name, r.Name)
		}
		if r.Replicas < 1 {
			return fmt.Errorf("job spec %q: role %q has %d replicas", j.Name, r.Name, r.Replicas)
		}
	}
	return nil
}

// NewRole creates a role with the given name and a single replica.
func NewRole(name string) *Role {
	return &Role{Name: name, Replicas: 1}
}

// WithImage sets the container image the role runs in. Backends without
// container support ignore it.
func (r *Role) WithImage(image string) *Role {
	r.Image = image
	return r
}

// WithEntrypoint sets the program the role executes.
func (r *Role) WithEntrypoint(entrypoint string) *Role {
	r.Entrypoint = entrypoint
	return r
}

// WithArgs appends entrypoint arguments. Values are rendered with
// fmt.Sprint, so numeric parameters can be passed straight through; a
// []string is expanded element-wise, which lets a remainder capture be
// forwarded as-is.
func (r *Role) WithArgs(values ...any) *Role {
	for _, v := range values {
		if ss, ok := v.([]string); ok {
			r.Arguments = append(r.Arguments, ss...)
			continue
		}
		r.Arguments = append(r.Arguments, fmt.Sprint(v))
	}
	return r
}

// WithEnv sets one environment variable for the role's processes.
func (r *Role) WithEnv(key string, value any) *Role {
	if r.Environ == nil {
		r.Environ = make(map[string]string)
	}
	r.Environ[key] = fmt.Sprint(value)
	return r
}

// WithReplicas sets how many copies of the role's process to run.
func (r *Role) WithReplicas(n int) *Role {
	r.Replicas = n
	return r
}
