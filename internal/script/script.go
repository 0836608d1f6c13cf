// Package script implements the executable half of a job document: parsing
// it into a syntax tree, statically validating the tree against the safety
// policy, and running it in a capability-limited interpreter.
//
// A script is a straight-line sequence of Go statements, optionally
// preceded by import declarations. Parsing assembles those parts into a
// complete source file: imports hoisted to file scope and the statements
// wrapped in a generated entry function whose parameters are exactly the
// execution scope bindings (export, args, scheduler).
package script

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// scopeAlias is the synthetic import the assembled file uses to name the
// argument type in the entry function signature. The leading underscores
// keep it out of the way of anything a script would plausibly import.
const scopeAlias = "__scope"

// scopePath is the package the synthetic import points at. The validator
// exempts exactly this alias/path pair and nothing else.
const scopePath = "github.com/vk/jobrun/pkg/scope"

// entryFunc is the generated function the executor looks up and calls.
const entryFunc = "run"

// preambleLines is the number of assembled lines before the hoisted user
// imports: the package clause, a blank line, and the scope import.
const preambleLines = 3

// Script is the immutable parsed form of a document's script section. It
// is produced once and then only read, by the validator and the executor.
type Script struct {
	source      string
	fset        *token.FileSet
	file        *ast.File
	body        *ast.BlockStmt
	importLines int
	funcLine    int
}

// Parse assembles and parses a script section. The returned tree is what
// both validation and execution operate on.
func Parse(src string) (*Script, error) {
	importSection, bodySection, importLines := splitSections(src)

	var b strings.Builder
	b.WriteString("package main\n")
	b.WriteString("\n")
	b.WriteString("import " + scopeAlias + " \"" + scopePath + "\"\n")
	if importLines > 0 {
		b.WriteString(importSection)
		b.WriteString("\n")
	}
	funcLine := preambleLines + importLines + 1
	b.WriteString("func " + entryFunc + "(export func(interface{}), args *" + scopeAlias + ".Args, scheduler string) {\n")
	b.WriteString(bodySection)
	if !strings.HasSuffix(bodySection, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	source := b.String()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "script.go", source, parser.SkipObjectResolution)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var body *ast.BlockStmt
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == entryFunc {
			body = fn.Body
			break
		}
	}
	if body == nil {
		// Unreachable for well-formed assembly; guard anyway.
		return nil, &ParseError{Err: errMissingBody}
	}

	return &Script{
		source:      source,
		fset:        fset,
		file:        file,
		body:        body,
		importLines: importLines,
		funcLine:    funcLine,
	}, nil
}

// Source returns the assembled source file the interpreter evaluates.
func (s *Script) Source() string {
	return s.source
}

// bodyLine translates a position inside the entry function back to a line
// number in the original script section.
func (s *Script) bodyLine(pos token.Pos) int {
	return s.fset.Position(pos).Line - s.funcLine + s.importLines
}

// importLine translates a position inside the hoisted import section back
// to a line number in the original script section.
func (s *Script) importLine(pos token.Pos) int {
	return s.fset.Position(pos).Line - preambleLines
}

// splitSections separates the leading import declarations from the
// statement body. Imports must precede all statements; an import line
// appearing later stays in the body and fails the parse there.
func splitSections(src string) (imports string, body string, importLines int) {
	lines := strings.Split(src, "\n")

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "//"):
			// Blank and comment lines before the first statement ride
			// along with the import section so line accounting stays
			// simple.
			i++
		case isImportLine(trimmed):
			if strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(trimmed, "import")), "(") {
				// Grouped form: consume through the closing paren.
				i++
				for i < len(lines) && strings.TrimSpace(lines[i]) != ")" {
					i++
				}
				if i < len(lines) {
					i++
				}
			} else {
				i++
			}
		default:
			imports = strings.Join(lines[:i], "\n")
			body = strings.Join(lines[i:], "\n")
			return imports, body, i
		}
	}
	return strings.Join(lines, "\n"), "", len(lines)
}

// isImportLine reports whether a trimmed line opens an import declaration.
// The keyword must stand alone: an identifier that merely begins with
// "import" (importance := 1) is a statement and stays in the body.
func isImportLine(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "import") {
		return false
	}
	rest := trimmed[len("import"):]
	if rest == "" {
		return false
	}
	switch rest[0] {
	case ' ', '\t', '(', '"', '`':
		return true
	}
	return false
}
