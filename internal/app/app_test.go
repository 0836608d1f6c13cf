package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppConfig(t *testing.T, cfg Config) *Config {
	t.Helper()
	out, err := NewConfig(cfg)
	require.NoError(t, err)
	return out
}

func TestNewApp(t *testing.T) {
	t.Run("core backends are registered", func(t *testing.T) {
		t.Chdir(t.TempDir()) // no config file in scope

		a := NewApp(&bytes.Buffer{}, newAppConfig(t, Config{Command: "builtins"}))
		assert.Equal(t, []string{"local", "remote"}, a.Registry().Names())
	})

	t.Run("missing explicit config panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewApp(&bytes.Buffer{}, newAppConfig(t, Config{
				Command:    "builtins",
				ConfigPath: "does-not-exist.hcl",
			}))
		})
	})
}

func TestRunBuiltins(t *testing.T) {
	t.Chdir(t.TempDir())

	out := &bytes.Buffer{}
	a := NewApp(out, newAppConfig(t, Config{Command: "builtins"}))
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "echo")
	assert.Contains(t, out.String(), "trainer")
}

func TestNewConfig(t *testing.T) {
	t.Run("run requires a document", func(t *testing.T) {
		_, err := NewConfig(Config{Command: "run"})
		assert.Error(t, err)
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := NewConfig(Config{Command: "status"})
		assert.Error(t, err)
	})
}
