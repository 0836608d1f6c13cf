package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("run with flags and document args", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, exit, err := Parse([]string{
			"run", "--scheduler", "remote", "--scheduler-args", "cluster=foo",
			"trainer", "--lr", "0.01",
		}, out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "run", cfg.Command)
		assert.Equal(t, "trainer", cfg.Document)
		assert.Equal(t, []string{"--lr", "0.01"}, cfg.DocumentArgs)
		assert.Equal(t, "remote", cfg.Scheduler)
		assert.Equal(t, "cluster=foo", cfg.SchedulerArgs)
	})

	t.Run("document args are never parsed as launcher flags", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, _, err := Parse([]string{"run", "trainer", "--scheduler", "bogus"}, out)
		require.NoError(t, err)
		assert.Empty(t, cfg.Scheduler)
		assert.Equal(t, []string{"--scheduler", "bogus"}, cfg.DocumentArgs)
	})

	t.Run("run without a document prints usage", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, exit, err := Parse([]string{"run"}, out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("builtins command", func(t *testing.T) {
		cfg, exit, err := Parse([]string{"builtins"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "builtins", cfg.Command)
	})

	t.Run("invalid log level is exit code 2", func(t *testing.T) {
		_, _, err := Parse([]string{"run", "--log-level", "loud", "trainer"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("no arguments prints usage", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, exit, err := Parse(nil, out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Contains(t, out.String(), "Usage:")
	})
}
