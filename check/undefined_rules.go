// Package check implements the six semantic validation passes of spec §4.4
// plus a seventh, UnicodeClassNames.
// None of them mutate the AST; they only report diagnostics through the
// shared session.
package check

import (
	"fmt"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// UndefinedRules reports every RuleReference whose name does not resolve
// to a defined rule.
func UndefinedRules(g *ast.Grammar, _ *options.Options, s *diag.Session) error {
	v := ast.NewFullVisitor(map[ast.Kind]ast.Handler[struct{}, struct{}]{
		ast.KindRuleReference: func(n ast.Node, _ struct{}, _ *ast.Visitor[struct{}, struct{}]) struct{} {
			ref := n.(*ast.RuleReference)
			if ast.FindRule(g, ref.Name) == nil {
				loc := ref.Location()
				s.Error(fmt.Sprintf("Rule %q is not defined", ref.Name), &loc)
			}
			return struct{}{}
		},
	})
	v.Visit(g, struct{}{})
	return nil
}
