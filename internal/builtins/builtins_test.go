package builtins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobrun/internal/document"
)

func TestList(t *testing.T) {
	names := List()
	assert.Contains(t, names, "echo.job")
	assert.Contains(t, names, "trainer.job")
}

func TestBuiltinsAreValidDocuments(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			raw, ok := Read(name)
			require.True(t, ok)
			doc, err := document.Parse(raw)
			require.NoError(t, err)
			assert.NotEmpty(t, doc.Metadata.Description)
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("builtin by name", func(t *testing.T) {
		raw, err := Resolve(ctx, "echo.job")
		require.NoError(t, err)
		assert.Contains(t, raw, "jobspec.New(\"echo\")")
	})

	t.Run("builtin name without extension", func(t *testing.T) {
		raw, err := Resolve(ctx, "echo")
		require.NoError(t, err)
		assert.Contains(t, raw, "jobspec.New(\"echo\")")
	})

	t.Run("user file wins over a builtin", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "echo.job")
		require.NoError(t, os.WriteFile(path, []byte("user copy"), 0o600))

		raw, err := Resolve(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "user copy", raw)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := Resolve(ctx, "no-such-doc.job")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jobrun builtins")
	})
}
