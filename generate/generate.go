package generate

import (
	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// Bytecode is the single generate-stage pass (spec §4.6): it lowers every
// rule's expression tree to a flat instruction stream and populates the
// grammar's four constant pools. It assumes the check and transform stages
// already ran clean — match-result annotations (spec §3.1) must be present
// on every expression node, since several emission patterns (class,
// optional, named, choice) branch on them.
func Bytecode(g *ast.Grammar, _ *options.Options, _ *diag.Session) error {
	gen := newGenerator(g)
	for _, r := range g.Rules {
		r.Bytecode = emitExpr(gen, r.Expr, genContext{sp: -1})
	}
	g.Literals = gen.pools.literals.items
	g.Classes = gen.pools.classes.items
	g.Expectations = gen.pools.expectations.items
	g.Functions = gen.pools.functions.items
	return nil
}

// DefaultPasses is the generate stage's pass list. It is a single pass —
// unlike check and transform, bytecode generation is not meaningfully
// decomposable into independently orderable steps.
func DefaultPasses() []options.Pass {
	return []options.Pass{Bytecode}
}
