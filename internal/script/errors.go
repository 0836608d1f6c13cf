package script

import (
	"errors"
	"fmt"
)

var errMissingBody = errors.New("assembled script has no entry function")

// ParseError reports a script section that is not syntactically valid.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("script does not parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedFeatureError reports a blocked syntactic construct found
// during validation.
type UnsupportedFeatureError struct {
	Kind string
	Line int
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("script line %d: using unsupported feature %s", e.Line, e.Kind)
}

// DisallowedImportError reports an import whose path is outside the
// allowed prefixes.
type DisallowedImportError struct {
	Path    string
	Allowed []string
	Line    int
}

func (e *DisallowedImportError) Error() string {
	return fmt.Sprintf("script line %d: import %q not in allowed import prefixes %v", e.Line, e.Path, e.Allowed)
}

// EvalError reports a script that failed during sandboxed execution; the
// underlying cause is carried, not swallowed.
type EvalError struct {
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("script execution failed: %v", e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// MissingExportError reports a script that ran to completion without ever
// calling export.
type MissingExportError struct{}

func (e *MissingExportError) Error() string {
	return "script did not export a job spec"
}

// TypeMismatchError reports an exported value that is not a job spec.
type TypeMismatchError struct {
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("script exported a %T, not a *jobspec.Job", e.Value)
}
