// Package schema materializes a document's argument declarations into a
// typed parameter schema and parses invocation tokens against it.
//
// Scalar coercion runs through go-cty's conversion machinery so defaults
// and positional tokens follow the same rules: a default is coerced eagerly
// at build time and a bad one fails the build, long before any script runs.
package schema

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/jobrun/internal/document"
	"github.com/vk/jobrun/pkg/scope"
)

// ArgType is one of the supported scalar kinds, paired with the cty type
// its values are converted through.
type ArgType struct {
	Name string
	cty  cty.Type
}

var (
	typeInt    = ArgType{Name: "int", cty: cty.Number}
	typeString = ArgType{Name: "string", cty: cty.String}
	typeFloat  = ArgType{Name: "float", cty: cty.Number}
)

// typeFor resolves a declared type name. An empty name means string.
func typeFor(name string) (ArgType, error) {
	switch name {
	case "int":
		return typeInt, nil
	case "string", "":
		return typeString, nil
	case "float":
		return typeFloat, nil
	default:
		return ArgType{}, &UnknownTypeError{Type: name}
	}
}

// Coerce converts a raw scalar (a YAML default or an invocation token)
// into the native Go value for this type.
func (t ArgType) Coerce(raw any) (any, error) {
	impl, err := gocty.ImpliedType(raw)
	if err != nil {
		return nil, fmt.Errorf("unsupported value %v: %w", raw, err)
	}
	v, err := gocty.ToCtyValue(raw, impl)
	if err != nil {
		return nil, err
	}
	cv, err := convert.Convert(v, t.cty)
	if err != nil {
		return nil, fmt.Errorf("cannot read %v as %s: %w", raw, t.Name, err)
	}
	switch t.Name {
	case "int":
		var n int
		if err := gocty.FromCtyValue(cv, &n); err != nil {
			return nil, fmt.Errorf("cannot read %v as int: %w", raw, err)
		}
		return n, nil
	case "float":
		var f float64
		if err := gocty.FromCtyValue(cv, &f); err != nil {
			return nil, fmt.Errorf("cannot read %v as float: %w", raw, err)
		}
		return f, nil
	default:
		var s string
		if err := gocty.FromCtyValue(cv, &s); err != nil {
			return nil, fmt.Errorf("cannot read %v as string: %w", raw, err)
		}
		return s, nil
	}
}

// Parameter is one materialized parameter definition.
type Parameter struct {
	// Name is the declared name with leading dashes stripped; it is the
	// key scripts use to read the value.
	Name string
	// Flag is true when the declaration carried leading dashes and the
	// parameter is parsed as a named flag rather than positionally.
	Flag bool
	Type ArgType
	Help string
	// Default is the eagerly coerced default value, nil when absent.
	Default any
	// Remainder marks the parameter that swallows all residual tokens.
	Remainder bool
}

// Schema is an ordered parameter set derived from a document's argument
// declarations.
type Schema struct {
	prog      string
	params    []*Parameter
	remainder *Parameter
}

// Build materializes the declarations. It fails on an unknown type name,
// a default that does not coerce, or more than one remainder declaration.
func Build(prog string, decls []document.ArgumentDecl) (*Schema, error) {
	s := &Schema{prog: prog}
	for _, decl := range decls {
		t, err := typeFor(decl.Type)
		if err != nil {
			return nil, err
		}
		p := &Parameter{
			Name:      strings.TrimLeft(decl.Name, "-"),
			Flag:      strings.HasPrefix(decl.Name, "-"),
			Type:      t,
			Help:      decl.Help,
			Remainder: decl.Remainder,
		}
		if decl.Default != nil {
			def, err := t.Coerce(decl.Default)
			if err != nil {
				return nil, &DefaultError{Arg: decl.Name, Err: err}
			}
			p.Default = def
		}
		if decl.Remainder {
			if s.remainder != nil {
				return nil, &RemainderError{First: s.remainder.Name, Second: p.Name}
			}
			s.remainder = p
		}
		s.params = append(s.params, p)
	}
	return s, nil
}

// Parameters returns the materialized parameters in declaration order.
func (s *Schema) Parameters() []*Parameter {
	return s.params
}

// ParseInvocation maps caller-supplied tokens to typed values. Named
// parameters parse as `--name value` flags; dash-less declarations consume
// positional tokens in declaration order; a remainder parameter captures
// every residual token verbatim. Leftover tokens with no remainder sink are
// an error.
func (s *Schema) ParseInvocation(tokens []string) (*scope.Args, error) {
	fs := pflag.NewFlagSet(s.prog, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if s.remainder != nil {
		// Everything after the first positional token belongs to the
		// remainder capture, even when it looks like a flag.
		fs.SetInterspersed(false)
	}

	holders := make(map[string]any, len(s.params))
	for _, p := range s.params {
		if !p.Flag {
			continue
		}
		switch p.Type.Name {
		case "int":
			def, _ := p.Default.(int)
			holders[p.Name] = fs.Int(p.Name, def, p.Help)
		case "float":
			def, _ := p.Default.(float64)
			holders[p.Name] = fs.Float64(p.Name, def, p.Help)
		default:
			def, _ := p.Default.(string)
			holders[p.Name] = fs.String(p.Name, def, p.Help)
		}
	}

	if err := fs.Parse(tokens); err != nil {
		return nil, &InvocationError{Err: err}
	}

	values := make(map[string]any, len(s.params))
	for name, h := range holders {
		switch v := h.(type) {
		case *int:
			values[name] = *v
		case *float64:
			values[name] = *v
		case *string:
			values[name] = *v
		}
	}

	positional := fs.Args()
	for _, p := range s.params {
		if p.Flag || p.Remainder {
			continue
		}
		if len(positional) == 0 {
			if p.Default == nil {
				return nil, &InvocationError{
					Arg: p.Name,
					Err: fmt.Errorf("missing required positional argument"),
				}
			}
			values[p.Name] = p.Default
			continue
		}
		token := positional[0]
		positional = positional[1:]
		v, err := p.Type.Coerce(token)
		if err != nil {
			return nil, &InvocationError{Arg: p.Name, Token: token, Err: err}
		}
		values[p.Name] = v
	}

	if s.remainder != nil {
		values[s.remainder.Name] = append([]string{}, positional...)
	} else if len(positional) > 0 {
		return nil, &InvocationError{
			Token: positional[0],
			Err:   fmt.Errorf("unexpected token"),
		}
	}

	return scope.NewArgs(values), nil
}
