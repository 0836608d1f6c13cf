// Package scope holds the bindings visible to a script during sandboxed
// execution: the parsed invocation arguments and the selected scheduler
// name. Scripts receive these as function parameters; nothing else from the
// host process is reachable.
package scope

import (
	"fmt"
	"reflect"
)

// Scope is the per-execution variable environment. A fresh one is built for
// every run and discarded afterwards.
type Scope struct {
	Args      *Args
	Scheduler string
}

// Args is a typed, read-only view over the parsed invocation arguments.
// Names are the declared names with leading dashes stripped, so the
// declaration `--lr` is read as `args.Float("lr")`.
//
// Accessors panic on an undeclared name or a kind mismatch; the executor
// turns that panic into an execution error with the panic message intact.
type Args struct {
	values map[string]any
}

// NewArgs wraps a value mapping produced by the parameter schema.
func NewArgs(values map[string]any) *Args {
	vals := make(map[string]any, len(values))
	for k, v := range values {
		vals[k] = v
	}
	return &Args{values: vals}
}

// Has reports whether an argument with the given name was declared.
func (a *Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// String returns the value of a string argument.
func (a *Args) String(name string) string {
	v := a.lookup(name)
	s, ok := v.(string)
	if !ok {
		panic(fmt.Sprintf("argument %q is %T, not a string", name, v))
	}
	return s
}

// Int returns the value of an int argument.
func (a *Args) Int(name string) int {
	v := a.lookup(name)
	n, ok := v.(int)
	if !ok {
		panic(fmt.Sprintf("argument %q is %T, not an int", name, v))
	}
	return n
}

// Float returns the value of a float argument.
func (a *Args) Float(name string) float64 {
	v := a.lookup(name)
	f, ok := v.(float64)
	if !ok {
		panic(fmt.Sprintf("argument %q is %T, not a float", name, v))
	}
	return f
}

// Remainder returns the trailing tokens captured by a remainder argument.
func (a *Args) Remainder(name string) []string {
	v := a.lookup(name)
	ss, ok := v.([]string)
	if !ok {
		panic(fmt.Sprintf("argument %q is %T, not a remainder capture", name, v))
	}
	return ss
}

func (a *Args) lookup(name string) any {
	v, ok := a.values[name]
	if !ok {
		panic(fmt.Sprintf("argument %q is not declared by this document", name))
	}
	return v
}

// Symbols exposes the Args type to the script interpreter so the generated
// entry function can name it in its signature.
func Symbols() map[string]map[string]reflect.Value {
	return map[string]map[string]reflect.Value{
		"github.com/vk/jobrun/pkg/scope/scope": {
			"Args": reflect.ValueOf((*Args)(nil)),
		},
	}
}
