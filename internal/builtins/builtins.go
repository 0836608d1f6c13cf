// Package builtins ships a small set of ready-made job documents inside
// the binary and resolves a document reference — user path or builtin
// name — to its contents.
package builtins

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/jobrun/internal/ctxlog"
)

// Ext is the document file extension.
const Ext = ".job"

//go:embed *.job
var fsys embed.FS

// List returns the builtin document names, sorted.
func List() []string {
	entries, err := fsys.ReadDir(".")
	if err != nil {
		// The embedded FS is baked at compile time; failure to read it
		// is a build defect.
		panic(err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), Ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Read returns the contents of a builtin by name, with or without the
// extension.
func Read(name string) (string, bool) {
	if !strings.HasSuffix(name, Ext) {
		name += Ext
	}
	data, err := fsys.ReadFile(name)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Resolve returns the contents of the referenced document. A path that
// exists on disk takes precedence over a builtin of the same name (with a
// warning, since the shadowing is usually accidental); otherwise the
// reference is tried as a builtin name.
func Resolve(ctx context.Context, ref string) (string, error) {
	if data, err := os.ReadFile(ref); err == nil {
		if _, shadows := Read(filepath.Base(ref)); shadows {
			ctxlog.FromContext(ctx).Warn(
				"document shadows a builtin of the same name; using the file",
				"ref", ref,
			)
		}
		return string(data), nil
	}
	if data, ok := Read(ref); ok {
		return data, nil
	}
	return "", fmt.Errorf("document %q does not exist and is not a builtin; run `jobrun builtins` for the builtin list", ref)
}
