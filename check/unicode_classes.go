package check

import (
	"fmt"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/internal/charclass"
	"github.com/polkovnikov-ph/peggy/options"
)

// UnicodeClassNames reports a character class part that names an unknown
// Unicode category, property, or script (e.g. [\p{Nope}]) — a grammar
// authoring mistake that would otherwise only surface once the generated
// parser's matcher silently failed to match anything for that part.
func UnicodeClassNames(g *ast.Grammar, _ *options.Options, s *diag.Session) error {
	v := ast.NewFullVisitor(map[ast.Kind]ast.Handler[struct{}, struct{}]{
		ast.KindCharacterClass: func(n ast.Node, _ struct{}, _ *ast.Visitor[struct{}, struct{}]) struct{} {
			cc := n.(*ast.CharacterClass)
			for _, p := range cc.Desc.Parts {
				if p.Kind != ast.PartUnicode {
					continue
				}
				if _, ok := charclass.RangeTable(p.Unicode); !ok {
					s.Error(fmt.Sprintf("Unknown Unicode class %q", p.Unicode), &cc.Loc)
				}
			}
			return struct{}{}
		},
	})
	v.Visit(g, struct{}{})
	return nil
}
