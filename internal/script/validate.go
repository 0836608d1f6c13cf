package script

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/vk/jobrun/internal/policy"
)

// Validate walks every node of the script and rejects the first blocked
// construct or disallowed import it meets. The scan is purely static: no
// part of the script is executed and the script itself is not modified, so
// validating the same script twice yields the same verdict.
func Validate(s *Script, pol *policy.Policy) error {
	// Imports lexically precede the statements, so they are checked first.
	for _, imp := range s.file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			path = imp.Path.Value
		}
		if imp.Name != nil && imp.Name.Name == scopeAlias && path == scopePath {
			// The synthetic scope import added during assembly. A script
			// reusing the alias for another path gets no exemption.
			continue
		}
		if !pol.ImportAllowed(path) {
			return &DisallowedImportError{
				Path:    path,
				Allowed: pol.AllowedImports,
				Line:    s.importLine(imp.Pos()),
			}
		}
	}

	// Full pre-order traversal of the statement body. Descent only stops
	// once a violation is found; an allowed node never short-circuits the
	// walk, so a blocked construct at any nesting depth is reached.
	var verr error
	ast.Inspect(s.body, func(n ast.Node) bool {
		if n == nil || verr != nil {
			return false
		}
		if kind, ok := constructKind(n); ok && pol.ConstructBlocked(kind) {
			verr = &UnsupportedFeatureError{Kind: kind, Line: s.bodyLine(n.Pos())}
			return false
		}
		return true
	})
	return verr
}

// constructKind maps a syntax-tree node onto the policy's construct tags.
// Nodes that never appear in a blocklist (plain expressions, assignments,
// var and const declarations) report no kind.
func constructKind(n ast.Node) (string, bool) {
	switch n := n.(type) {
	case *ast.FuncLit:
		return policy.KindFunctionLiteral, true
	case *ast.ReturnStmt:
		return policy.KindReturn, true
	case *ast.RangeStmt:
		return policy.KindRange, true
	case *ast.ForStmt:
		return policy.KindFor, true
	case *ast.IfStmt:
		return policy.KindIf, true
	case *ast.SwitchStmt:
		return policy.KindSwitch, true
	case *ast.TypeSwitchStmt:
		return policy.KindTypeSwitch, true
	case *ast.SelectStmt:
		return policy.KindSelect, true
	case *ast.GoStmt:
		return policy.KindGo, true
	case *ast.DeferStmt:
		return policy.KindDefer, true
	case *ast.SendStmt:
		return policy.KindSend, true
	case *ast.BranchStmt:
		return policy.KindBranch, true
	case *ast.LabeledStmt:
		return policy.KindLabel, true
	case *ast.GenDecl:
		if n.Tok == token.TYPE {
			return policy.KindTypeDecl, true
		}
	}
	return "", false
}
