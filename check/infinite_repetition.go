package check

import (
	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// InfiniteRepetition reports every zero_or_more/one_or_more whose operand
// does not always consume input on success — such a repetition could loop
// forever without making progress.
func InfiniteRepetition(g *ast.Grammar, _ *options.Options, s *diag.Session) error {
	v := ast.NewFullVisitor(map[ast.Kind]ast.Handler[struct{}, struct{}]{
		ast.KindSuffixed: func(n ast.Node, aux struct{}, v *ast.Visitor[struct{}, struct{}]) struct{} {
			sf := n.(*ast.Suffixed)
			v.Visit(sf.Expr, aux)
			if sf.Op == ast.SuffixZeroOrMore || sf.Op == ast.SuffixOneOrMore {
				if !ast.AlwaysConsumesOnSuccess(g, sf.Expr) {
					loc := sf.Location()
					s.Error("Possible infinite loop when parsing (repetition used with an expression that may not consume any input)", &loc)
				}
			}
			return struct{}{}
		},
	})
	v.Visit(g, struct{}{})
	return nil
}
