package check

import (
	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// IncorrectPlucking reports every Labeled node marked as a pluck (`@`) that
// is lexically inside an Action's expression — plucking contributes to an
// auto-built sequence value, which an action block's explicit return value
// would make ambiguous.
func IncorrectPlucking(g *ast.Grammar, _ *options.Options, s *diag.Session) error {
	// aux is the nearest enclosing Action node, or nil.
	v := ast.NewFullVisitor(map[ast.Kind]ast.Handler[*ast.Action, struct{}]{
		ast.KindAction: func(n ast.Node, _ *ast.Action, v *ast.Visitor[*ast.Action, struct{}]) struct{} {
			a := n.(*ast.Action)
			v.Visit(a.Expr, a)
			return struct{}{}
		},
		ast.KindLabeled: func(n ast.Node, enclosing *ast.Action, v *ast.Visitor[*ast.Action, struct{}]) struct{} {
			l := n.(*ast.Labeled)
			if l.Pick && enclosing != nil {
				loc := l.Location()
				s.Error(`"@" cannot be used with an action block`, &loc,
					diag.Note{Message: "action block", Location: enclosing.CodeLoc})
			}
			v.Visit(l.Expr, nil)
			return struct{}{}
		},
	})
	v.Visit(g, nil)
	return nil
}
