package ast

import "github.com/samber/lo"

// FindRule returns the rule named name, or nil if none is defined. It is a
// linear scan (spec §4.3) — grammars are small enough that an index is not
// worth the bookkeeping of keeping it in sync across the transform stage's
// mutations.
func FindRule(g *Grammar, name string) *Rule {
	r, ok := lo.Find(g.Rules, func(r *Rule) bool { return r.Name == name })
	if !ok {
		return nil
	}
	return r
}

// IndexOfRule returns the position of the rule named name in g.Rules, or -1
// if it is not defined.
func IndexOfRule(g *Grammar, name string) int {
	return lo.IndexOf(lo.Map(g.Rules, func(r *Rule, _ int) string { return r.Name }), name)
}

// AlwaysConsumesOnSuccess reports whether n, when it succeeds, necessarily
// advances the input by at least one unit (spec §4.3). It is defined
// compositionally and tolerates an unresolved rule reference (returns false)
// so the left-recursion and infinite-repetition checks can run even on a
// grammar that also has undefined-rule errors.
func AlwaysConsumesOnSuccess(g *Grammar, n Expr) bool {
	switch t := n.(type) {
	case *Literal:
		return t.Value != ""
	case *CharacterClass:
		return true
	case *Any:
		return true
	case *Prefixed:
		switch t.Op {
		case PrefixSimpleAnd, PrefixSimpleNot:
			return false
		case PrefixText:
			return AlwaysConsumesOnSuccess(g, t.Expr)
		}
		return false
	case *Suffixed:
		switch t.Op {
		case SuffixOptional, SuffixZeroOrMore:
			return false
		case SuffixOneOrMore:
			return AlwaysConsumesOnSuccess(g, t.Expr)
		}
		return false
	case *SemanticPredicate:
		return false
	case *Choice:
		return lo.EveryBy(t.Alternatives, func(alt Expr) bool { return AlwaysConsumesOnSuccess(g, alt) })
	case *Sequence:
		return lo.SomeBy(t.Elements, func(el Expr) bool { return AlwaysConsumesOnSuccess(g, el) })
	case *RuleReference:
		target := FindRule(g, t.Name)
		if target == nil {
			return false
		}
		return AlwaysConsumesOnSuccess(g, target.Expr)
	case *Named:
		return AlwaysConsumesOnSuccess(g, t.Expr)
	case *Action:
		return AlwaysConsumesOnSuccess(g, t.Expr)
	case *Labeled:
		return AlwaysConsumesOnSuccess(g, t.Expr)
	case *Group:
		return AlwaysConsumesOnSuccess(g, t.Expr)
	default:
		panic("ast: AlwaysConsumesOnSuccess: unhandled expression kind")
	}
}
