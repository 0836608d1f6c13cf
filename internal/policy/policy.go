// Package policy defines the static safety gate applied to document
// scripts: the set of syntactic construct kinds a script may not use and
// the import prefixes it may reach. The policy is fixed at build time and
// immutable, so any number of validations can read it concurrently.
package policy

import "strings"

// Construct kind names, as reported in validation errors. The validator
// maps syntax-tree node types onto these tags.
const (
	KindFunctionLiteral = "function literal"
	KindReturn          = "return statement"
	KindFor             = "for loop"
	KindRange           = "range loop"
	KindIf              = "if statement"
	KindSwitch          = "switch statement"
	KindTypeSwitch      = "type switch"
	KindSelect          = "select statement"
	KindGo              = "go statement"
	KindDefer           = "defer statement"
	KindSend            = "channel send"
	KindBranch          = "branch statement"
	KindLabel           = "labeled statement"
	KindTypeDecl        = "type declaration"
)

// Policy is the validator's rule set.
type Policy struct {
	// BlockedConstructs holds the construct kinds a script may not contain
	// anywhere, at any nesting depth.
	BlockedConstructs map[string]struct{}
	// AllowedImports holds import path prefixes. A script import is legal
	// when its path equals a prefix or is a slash-delimited sub-path of
	// one.
	AllowedImports []string
}

// defaultPolicy blocks everything that introduces new control flow, new
// scopes, or deferred execution. A script is meant to be a single
// straight-line sequence of statements that builds and exports one job
// spec; plain expressions, calls, assignments and var declarations stay
// allowed. Imports are confined to the launcher's own public packages and
// the host's path utilities.
var defaultPolicy = &Policy{
	BlockedConstructs: map[string]struct{}{
		KindFunctionLiteral: {},
		KindReturn:          {},
		KindFor:             {},
		KindRange:           {},
		KindIf:              {},
		KindSwitch:          {},
		KindTypeSwitch:      {},
		KindSelect:          {},
		KindGo:              {},
		KindDefer:           {},
		KindSend:            {},
		KindBranch:          {},
		KindLabel:           {},
		KindTypeDecl:        {},
	},
	AllowedImports: []string{
		"github.com/vk/jobrun",
		"path",
		"path/filepath",
	},
}

// Default returns the process-wide policy.
func Default() *Policy {
	return defaultPolicy
}

// ConstructBlocked reports whether the given construct kind is blocked.
func (p *Policy) ConstructBlocked(kind string) bool {
	_, ok := p.BlockedConstructs[kind]
	return ok
}

// ImportAllowed reports whether an import path is covered by the
// allowlist: an exact prefix match or a sub-path below one. A prefix never
// matches mid-segment, so allowing "path" does not admit "pathx".
func (p *Policy) ImportAllowed(path string) bool {
	for _, prefix := range p.AllowedImports {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
