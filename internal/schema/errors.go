package schema

import "fmt"

// UnknownTypeError reports an argument declaration whose type is not one of
// the supported scalar kinds. This is a configuration error in the
// document, not a runtime one.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown argument type %q (supported: int, string, float)", e.Type)
}

// DefaultError reports a declared default that does not coerce to the
// declared type. Caught at schema build time, before any script runs.
type DefaultError struct {
	Arg string
	Err error
}

func (e *DefaultError) Error() string {
	return fmt.Sprintf("bad default for argument %q: %v", e.Arg, e.Err)
}

func (e *DefaultError) Unwrap() error { return e.Err }

// RemainderError reports more than one remainder declaration; the schema
// rejects the conflict outright rather than picking a winner.
type RemainderError struct {
	First  string
	Second string
}

func (e *RemainderError) Error() string {
	return fmt.Sprintf("arguments %q and %q both declare remainder=true; at most one may", e.First, e.Second)
}

// InvocationError reports invocation tokens that fail to parse against the
// schema: a value that does not coerce, an unknown flag, a missing
// positional, or leftover tokens with no remainder sink.
type InvocationError struct {
	Arg   string
	Token string
	Err   error
}

func (e *InvocationError) Error() string {
	switch {
	case e.Arg != "" && e.Token != "":
		return fmt.Sprintf("argument %q: bad value %q: %v", e.Arg, e.Token, e.Err)
	case e.Arg != "":
		return fmt.Sprintf("argument %q: %v", e.Arg, e.Err)
	case e.Token != "":
		return fmt.Sprintf("token %q: %v", e.Token, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *InvocationError) Unwrap() error { return e.Err }
