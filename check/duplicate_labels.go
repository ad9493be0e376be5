package check

import (
	"fmt"
	"maps"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// labelScope maps a label name to the location of its first binding. It is
// a reference type (a Go map) deliberately: within a Sequence, the same
// scope instance is threaded left-to-right so each Labeled mutates it and
// later elements observe the binding, while every scope boundary listed in
// spec §3.3 clones it first so insertions never leak sideways or outward.
type labelScope map[string]ast.Location

func cloneScope(s labelScope) labelScope { return maps.Clone(s) }

// DuplicateLabels reports every Labeled node whose non-empty label was
// already bound earlier in its enclosing scope.
func DuplicateLabels(g *ast.Grammar, _ *options.Options, s *diag.Session) error {
	v := ast.NewExprVisitor(map[ast.Kind]ast.Handler[labelScope, struct{}]{
		ast.KindChoice: func(n ast.Node, scope labelScope, v *ast.Visitor[labelScope, struct{}]) struct{} {
			c := n.(*ast.Choice)
			for _, alt := range c.Alternatives {
				v.Visit(alt, cloneScope(scope))
			}
			return struct{}{}
		},
		ast.KindSequence: func(n ast.Node, scope labelScope, v *ast.Visitor[labelScope, struct{}]) struct{} {
			sq := n.(*ast.Sequence)
			for _, el := range sq.Elements {
				v.Visit(el, scope)
			}
			return struct{}{}
		},
		ast.KindNamed: func(n ast.Node, scope labelScope, v *ast.Visitor[labelScope, struct{}]) struct{} {
			return v.Visit(n.(*ast.Named).Expr, cloneScope(scope))
		},
		ast.KindAction: func(n ast.Node, scope labelScope, v *ast.Visitor[labelScope, struct{}]) struct{} {
			return v.Visit(n.(*ast.Action).Expr, cloneScope(scope))
		},
		ast.KindPrefixed: func(n ast.Node, scope labelScope, v *ast.Visitor[labelScope, struct{}]) struct{} {
			return v.Visit(n.(*ast.Prefixed).Expr, cloneScope(scope))
		},
		ast.KindSuffixed: func(n ast.Node, scope labelScope, v *ast.Visitor[labelScope, struct{}]) struct{} {
			return v.Visit(n.(*ast.Suffixed).Expr, cloneScope(scope))
		},
		ast.KindGroup: func(n ast.Node, scope labelScope, v *ast.Visitor[labelScope, struct{}]) struct{} {
			return v.Visit(n.(*ast.Group).Expr, cloneScope(scope))
		},
		ast.KindLabeled: func(n ast.Node, scope labelScope, v *ast.Visitor[labelScope, struct{}]) struct{} {
			l := n.(*ast.Labeled)
			if l.Label != "" {
				if first, ok := scope[l.Label]; ok {
					s.Error(fmt.Sprintf("Label %q is already defined", l.Label), &l.LabelLoc,
						diag.Note{Message: "original definition", Location: first})
				}
			}
			v.Visit(l.Expr, scope)
			if l.Label != "" {
				scope[l.Label] = l.LabelLoc
			}
			return struct{}{}
		},
		ast.KindRuleReference:     noopExpr[labelScope](),
		ast.KindSemanticPredicate: noopExpr[labelScope](),
		ast.KindLiteral:           noopExpr[labelScope](),
		ast.KindCharacterClass:    noopExpr[labelScope](),
		ast.KindAny:               noopExpr[labelScope](),
	})

	for _, r := range g.Rules {
		v.Visit(r.Expr, labelScope{})
	}
	return nil
}
