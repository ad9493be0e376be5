package check

import (
	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/options"
)

// noopExpr builds a handler for an atom expression kind (RuleReference,
// SemanticPredicate, Literal, CharacterClass, Any) that has nothing to
// recurse into for a given traversal.
func noopExpr[A any]() ast.Handler[A, struct{}] {
	return func(ast.Node, A, *ast.Visitor[A, struct{}]) struct{} { return struct{}{} }
}

// DefaultPasses is the ordered list of check-stage passes (spec §4.4, plus
// UnicodeClassNames). All seven run regardless of whether an earlier one already reported an error —
// the stage is only aborted by the driver's CheckErrors call after every
// pass in the list has run — because AlwaysConsumesOnSuccess and FindRule
// tolerate a missing or duplicate rule instead of panicking.
func DefaultPasses() []options.Pass {
	return []options.Pass{
		UndefinedRules,
		DuplicateRules,
		DuplicateLabels,
		InfiniteRepetition,
		LeftRecursion,
		IncorrectPlucking,
		UnicodeClassNames,
	}
}
