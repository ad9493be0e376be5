package check

import (
	"fmt"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// DuplicateRules reports every rule whose name was already defined earlier
// in the grammar.
func DuplicateRules(g *ast.Grammar, _ *options.Options, s *diag.Session) error {
	seen := make(map[string]ast.Location, len(g.Rules))
	for _, r := range g.Rules {
		if first, ok := seen[r.Name]; ok {
			s.Error(fmt.Sprintf("Rule %q is already defined", r.Name), &r.NameLoc,
				diag.Note{Message: "original definition", Location: first})
			continue
		}
		seen[r.Name] = r.NameLoc
	}
	return nil
}
