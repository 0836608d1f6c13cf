package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/vk/jobrun/internal/ctxlog"
	"github.com/vk/jobrun/internal/policy"
	"github.com/vk/jobrun/pkg/jobspec"
	"github.com/vk/jobrun/pkg/scope"
)

// Execute runs a validated script in a fresh interpreter and returns the
// job spec it exported. The only bindings visible to the script are the
// entry function's parameters (export, args, scheduler) plus whatever the
// policy's import allowlist admits; the interpreter carries no other
// symbols from the host process.
//
// Calling export more than once keeps the last value and logs a warning.
// No export at all is a MissingExportError; exporting anything that is not
// a *jobspec.Job is a TypeMismatchError.
func Execute(ctx context.Context, s *Script, pol *policy.Policy, sc *scope.Scope) (*jobspec.Job, error) {
	logger := ctxlog.FromContext(ctx)

	i := interp.New(interp.Options{})
	if err := i.Use(allowedStdlib(pol)); err != nil {
		return nil, &EvalError{Err: fmt.Errorf("loading stdlib symbols: %w", err)}
	}
	if err := i.Use(jobspec.Symbols()); err != nil {
		return nil, &EvalError{Err: fmt.Errorf("loading jobspec symbols: %w", err)}
	}
	if err := i.Use(scope.Symbols()); err != nil {
		return nil, &EvalError{Err: fmt.Errorf("loading scope symbols: %w", err)}
	}

	if _, err := i.Eval(s.Source()); err != nil {
		return nil, &EvalError{Err: err}
	}
	v, err := i.Eval("main." + entryFunc)
	if err != nil {
		return nil, &EvalError{Err: err}
	}
	fn, ok := v.Interface().(func(func(interface{}), *scope.Args, string))
	if !ok {
		return nil, &EvalError{Err: fmt.Errorf("entry function has unexpected type %T", v.Interface())}
	}

	var exported any
	var called bool
	export := func(val interface{}) {
		if called {
			logger.Warn("export called more than once; keeping the last value")
		}
		exported = val
		called = true
	}

	if err := call(fn, export, sc); err != nil {
		return nil, err
	}

	if !called {
		return nil, &MissingExportError{}
	}
	job, ok := exported.(*jobspec.Job)
	if !ok {
		return nil, &TypeMismatchError{Value: exported}
	}
	return job, nil
}

// call invokes the entry function, converting a script panic into an
// execution error instead of taking the launcher down with it.
func call(fn func(func(interface{}), *scope.Args, string), export func(interface{}), sc *scope.Scope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EvalError{Err: fmt.Errorf("script panicked: %v", r)}
		}
	}()
	fn(export, sc.Args, sc.Scheduler)
	return nil
}

// allowedStdlib filters the interpreter's standard-library symbol table
// down to the packages the policy's import allowlist covers. Everything
// else simply does not exist inside the sandbox.
func allowedStdlib(pol *policy.Policy) interp.Exports {
	out := make(interp.Exports)
	for key, symbols := range stdlib.Symbols {
		// Keys take the form "import/path/pkgname".
		idx := strings.LastIndex(key, "/")
		if idx < 0 {
			continue
		}
		if pol.ImportAllowed(key[:idx]) {
			out[key] = symbols
		}
	}
	return out
}
