package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobrun/internal/policy"
	"github.com/vk/jobrun/pkg/jobspec"
	"github.com/vk/jobrun/pkg/scope"
)

func execute(t *testing.T, src string, sc *scope.Scope) (*jobspec.Job, error) {
	t.Helper()
	s := mustParse(t, src)
	pol := policy.Default()
	require.NoError(t, Validate(s, pol), "test scripts must pass validation first")
	return Execute(context.Background(), s, pol, sc)
}

func emptyScope() *scope.Scope {
	return &scope.Scope{Args: scope.NewArgs(nil)}
}

func TestExecute(t *testing.T) {
	t.Run("exported job spec is returned", func(t *testing.T) {
		src := "import \"github.com/vk/jobrun/pkg/jobspec\"\n\n" +
			"job := jobspec.New(\"trainer\").WithRole(jobspec.NewRole(\"worker\").WithEntrypoint(\"python\").WithArgs(\"--lr\", args.Float(\"lr\")))\n" +
			"export(job)\n"
		sc := &scope.Scope{Args: scope.NewArgs(map[string]any{"lr": 0.1}), Scheduler: "local"}

		job, err := execute(t, src, sc)
		require.NoError(t, err)
		assert.Equal(t, "trainer", job.Name)
		require.Len(t, job.Roles, 1)
		assert.Equal(t, []string{"--lr", "0.1"}, job.Roles[0].Arguments)
	})

	t.Run("scheduler binding is visible to the script", func(t *testing.T) {
		src := "import \"github.com/vk/jobrun/pkg/jobspec\"\n\n" +
			"export(jobspec.New(scheduler))\n"
		sc := &scope.Scope{Args: scope.NewArgs(nil), Scheduler: "kubernetes"}

		job, err := execute(t, src, sc)
		require.NoError(t, err)
		assert.Equal(t, "kubernetes", job.Name)
	})

	t.Run("allowlisted stdlib imports are usable", func(t *testing.T) {
		src := "import (\n\t\"path/filepath\"\n\n\t\"github.com/vk/jobrun/pkg/jobspec\"\n)\n\n" +
			"export(jobspec.New(filepath.Join(\"jobs\", \"train\")))\n"

		job, err := execute(t, src, emptyScope())
		require.NoError(t, err)
		assert.Equal(t, "jobs/train", job.Name)
	})

	t.Run("no export fails", func(t *testing.T) {
		_, err := execute(t, "x := 1\n_ = x\n", emptyScope())
		var merr *MissingExportError
		require.ErrorAs(t, err, &merr)
	})

	t.Run("non job-spec export fails", func(t *testing.T) {
		_, err := execute(t, "export(\"nope\")\n", emptyScope())
		var terr *TypeMismatchError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "nope", terr.Value)
	})

	t.Run("last export wins", func(t *testing.T) {
		src := "import \"github.com/vk/jobrun/pkg/jobspec\"\n\n" +
			"export(jobspec.New(\"first\"))\n" +
			"export(jobspec.New(\"second\"))\n"

		job, err := execute(t, src, emptyScope())
		require.NoError(t, err)
		assert.Equal(t, "second", job.Name)
	})

	t.Run("reading an undeclared argument is an execution error", func(t *testing.T) {
		_, err := execute(t, "export(args.Float(\"missing\"))\n", emptyScope())
		var eerr *EvalError
		require.ErrorAs(t, err, &eerr)
		assert.Contains(t, eerr.Error(), "missing")
	})

	t.Run("symbols outside the allowlist do not exist in the sandbox", func(t *testing.T) {
		// Bypasses Validate on purpose: even then the interpreter has no
		// os symbols loaded, so the script cannot resolve the import.
		s := mustParse(t, "import \"os\"\n\nexport(os.Getpid())\n")
		_, err := Execute(context.Background(), s, policy.Default(), emptyScope())
		require.Error(t, err)
	})
}
