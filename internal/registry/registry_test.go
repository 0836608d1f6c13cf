package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobrun/pkg/jobspec"
)

type fakeBackend struct{ name string }

func (f *fakeBackend) Name() string { return f.name }
func (f *fakeBackend) Submit(context.Context, *jobspec.Job, RunConfig) (Handle, error) {
	return "", nil
}
func (f *fakeBackend) Status(context.Context, Handle) (*Status, error) { return nil, nil }
func (f *fakeBackend) Wait(context.Context, Handle) error              { return nil }

func TestRegistry(t *testing.T) {
	t.Run("lookup by name", func(t *testing.T) {
		r := New()
		r.RegisterBackend(&fakeBackend{name: "local"})

		b, err := r.Backend("local")
		require.NoError(t, err)
		assert.Equal(t, "local", b.Name())
	})

	t.Run("unknown name lists what is available", func(t *testing.T) {
		r := New()
		r.RegisterBackend(&fakeBackend{name: "local"})
		r.RegisterBackend(&fakeBackend{name: "remote"})

		_, err := r.Backend("slurm")
		var uerr *UnknownBackendError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, []string{"local", "remote"}, uerr.Known)
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		r := New()
		r.RegisterBackend(&fakeBackend{name: "local"})
		assert.Panics(t, func() {
			r.RegisterBackend(&fakeBackend{name: "local"})
		})
	})
}

func TestParseRunConfig(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		cfg, err := ParseRunConfig("")
		require.NoError(t, err)
		assert.Empty(t, cfg)
	})

	t.Run("key value pairs", func(t *testing.T) {
		cfg, err := ParseRunConfig("cluster=foo,user=bar")
		require.NoError(t, err)
		assert.Equal(t, RunConfig{"cluster": "foo", "user": "bar"}, cfg)
	})

	t.Run("value may be empty", func(t *testing.T) {
		cfg, err := ParseRunConfig("flag=")
		require.NoError(t, err)
		assert.Equal(t, RunConfig{"flag": ""}, cfg)
	})

	t.Run("missing equals sign", func(t *testing.T) {
		_, err := ParseRunConfig("cluster")
		assert.Error(t, err)
	})
}
