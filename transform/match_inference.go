package transform

import (
	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// maxFixedPointIterations is the asserted bound on the 3-valued match-result
// lattice's fixed-point convergence (spec §4.5.2, §9): with 3 possible
// values, any monotonically-settling computation stabilizes within 3! = 6
// re-evaluations. Exceeding it is an internal-invariant failure, not a
// user-facing error.
const maxFixedPointIterations = 6

// InferMatchResults computes and memoizes the match-result tag (spec §3.1,
// §4.5.2) for every expression node in the grammar.
func InferMatchResults(g *ast.Grammar, _ *options.Options, _ *diag.Session) error {
	inferrer := newInferrer(g)
	for _, r := range g.Rules {
		inferrer.rule(r)
	}
	return nil
}

// inferrer memoizes rule-body inference so a rule referenced from several
// places is only fixed-pointed once.
type inferrer struct {
	g      *ast.Grammar
	solved map[*ast.Rule]bool
	// inProgress guards a rule currently being fixed-pointed, so a
	// recursive rule_ref back into it during the fixed-point loop reads
	// the rule's current (possibly still settling) match value instead of
	// recursing infinitely.
	inProgress map[*ast.Rule]bool
}

func newInferrer(g *ast.Grammar) *inferrer {
	return &inferrer{g: g, solved: map[*ast.Rule]bool{}, inProgress: map[*ast.Rule]bool{}}
}

func (inf *inferrer) rule(r *ast.Rule) ast.MatchResult {
	if inf.solved[r] {
		return *r.Expr.Match()
	}
	if inf.inProgress[r] {
		// A left-recursive or otherwise still-settling reference: use the
		// current best estimate (the check stage has already flagged
		// actual left recursion as an error by the time this runs).
		if m := r.Expr.Match(); m != nil {
			return *m
		}
		return ast.Sometimes
	}

	inf.inProgress[r] = true
	r.Expr.SetMatch(ast.Sometimes)

	prev := ast.Sometimes
	for i := 0; ; i++ {
		if i >= maxFixedPointIterations {
			panic("transform: match-result fixed point did not converge within 6 iterations")
		}
		cur := inf.expr(r.Expr)
		if i > 0 && cur == prev {
			break
		}
		prev = cur
	}

	inf.inProgress[r] = false
	inf.solved[r] = true
	return prev
}

// expr computes and memoizes n's match result, recursing into its children
// first where the rule requires it (spec §4.5.2).
func (inf *inferrer) expr(n ast.Expr) ast.MatchResult {
	var m ast.MatchResult
	switch t := n.(type) {
	case *ast.Any, *ast.SemanticPredicate:
		m = ast.Sometimes
	case *ast.Literal:
		if t.Value == "" {
			m = ast.Always
		} else {
			m = ast.Sometimes
		}
	case *ast.CharacterClass:
		if len(t.Desc.Parts) == 0 {
			m = ast.Never
		} else {
			m = ast.Sometimes
		}
	case *ast.Suffixed:
		inf.expr(t.Expr)
		switch t.Op {
		case ast.SuffixOptional, ast.SuffixZeroOrMore:
			m = ast.Always
		case ast.SuffixOneOrMore:
			m = inf.expr(t.Expr)
		}
	case *ast.Prefixed:
		switch t.Op {
		case ast.PrefixSimpleNot:
			m = negate(inf.expr(t.Expr))
		default: // text, simple_and
			m = inf.expr(t.Expr)
		}
	case *ast.Named:
		m = inf.expr(t.Expr)
	case *ast.Action:
		m = inf.expr(t.Expr)
	case *ast.Labeled:
		m = inf.expr(t.Expr)
	case *ast.Group:
		m = inf.expr(t.Expr)
	case *ast.Choice:
		allAlways, allNever := true, true
		for _, alt := range t.Alternatives {
			am := inf.expr(alt)
			if am != ast.Always {
				allAlways = false
			}
			if am != ast.Never {
				allNever = false
			}
		}
		switch {
		case allAlways:
			m = ast.Always
		case allNever:
			m = ast.Never
		default:
			m = ast.Sometimes
		}
	case *ast.Sequence:
		allAlways, anyNever := true, false
		for _, el := range t.Elements {
			em := inf.expr(el)
			if em != ast.Always {
				allAlways = false
			}
			if em == ast.Never {
				anyNever = true
			}
		}
		switch {
		case anyNever:
			m = ast.Never
		case allAlways:
			m = ast.Always
		default:
			m = ast.Sometimes
		}
	case *ast.RuleReference:
		target := ast.FindRule(inf.g, t.Name)
		if target == nil {
			m = ast.Sometimes
		} else {
			m = inf.rule(target)
		}
	default:
		panic("transform: InferMatchResults: unhandled expression kind")
	}
	n.SetMatch(m)
	return m
}

func negate(m ast.MatchResult) ast.MatchResult {
	switch m {
	case ast.Always:
		return ast.Never
	case ast.Never:
		return ast.Always
	default:
		return ast.Sometimes
	}
}
