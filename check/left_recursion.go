package check

import (
	"fmt"
	"strings"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// LeftRecursion walks the call graph starting from each rule, looking for a
// chain of rule_ref nodes that reaches a rule already on the current call
// path without any intervening element consuming input (spec §4.4.5).
func LeftRecursion(g *ast.Grammar, _ *options.Options, s *diag.Session) error {
	for _, r := range g.Rules {
		walkRule(g, r, nil, nil, s)
	}
	return nil
}

func walkRule(g *ast.Grammar, rule *ast.Rule, stack []string, refStack []*ast.RuleReference, s *diag.Session) {
	stack = append(stack, rule.Name)
	walkExpr(g, rule.Expr, stack, refStack, s)
}

func walkExpr(g *ast.Grammar, e ast.Expr, stack []string, refStack []*ast.RuleReference, s *diag.Session) {
	switch t := e.(type) {
	case *ast.Sequence:
		for _, el := range t.Elements {
			before := s.ErrorCount()
			walkExpr(g, el, stack, refStack, s)
			if s.ErrorCount() > before {
				// el reaches a left-recursive cycle; AlwaysConsumesOnSuccess
				// would recurse around that cycle forever, so stop here.
				return
			}
			if ast.AlwaysConsumesOnSuccess(g, el) {
				return
			}
		}
	case *ast.Choice:
		for _, alt := range t.Alternatives {
			walkExpr(g, alt, stack, refStack, s)
		}
	case *ast.RuleReference:
		target := ast.FindRule(g, t.Name)
		if target == nil {
			return // undefined-rule check reports this independently
		}
		steps := append(append([]*ast.RuleReference(nil), refStack...), t)
		if onStack(stack, target.Name) {
			reportLeftRecursion(target, stack, steps, s)
			return
		}
		walkRule(g, target, stack, steps, s)
	case *ast.Named:
		walkExpr(g, t.Expr, stack, refStack, s)
	case *ast.Action:
		walkExpr(g, t.Expr, stack, refStack, s)
	case *ast.Labeled:
		walkExpr(g, t.Expr, stack, refStack, s)
	case *ast.Group:
		walkExpr(g, t.Expr, stack, refStack, s)
	case *ast.Prefixed:
		walkExpr(g, t.Expr, stack, refStack, s)
	case *ast.Suffixed:
		walkExpr(g, t.Expr, stack, refStack, s)
	case *ast.Literal, *ast.CharacterClass, *ast.Any, *ast.SemanticPredicate:
		// leaves: no calls to follow
	}
}

func onStack(stack []string, name string) bool {
	for _, n := range stack {
		if n == name {
			return true
		}
	}
	return false
}

func reportLeftRecursion(target *ast.Rule, stack []string, steps []*ast.RuleReference, s *diag.Session) {
	// The chain printed in the message is only the cyclic part: from where
	// target first appears on the visit stack, through to it reappearing.
	// E.g. "A -> B -> A" for A calling B calling A, or "start -> start"
	// for a rule calling itself directly — even when this particular walk
	// started further up the call graph than the cycle itself.
	idx := 0
	for i, n := range stack {
		if n == target.Name {
			idx = i
			break
		}
	}
	chain := append(append([]string(nil), stack[idx:]...), target.Name)

	// notes must have one entry per name in chain, not one per traversed
	// edge: chain also counts entering the cycle's starting rule, which
	// has no corresponding *ast.RuleReference when idx == 0 (the cycle
	// starts at the very rule this walk began from).
	entryLoc := target.NameLoc
	if idx > 0 {
		entryLoc = steps[idx-1].Location()
	}
	notes := make([]diag.Note, 0, len(chain))
	notes = append(notes, diag.Note{
		Message:  fmt.Sprintf("Step 1: enter the rule %q", target.Name),
		Location: entryLoc,
	})
	cyclicSteps := steps[idx:]
	for i, step := range cyclicSteps {
		loc := step.Location()
		msg := fmt.Sprintf("Step %d: call of the rule %q without input consumption", i+2, step.Name)
		if i == len(cyclicSteps)-1 {
			msg = fmt.Sprintf("Step %d: call itself without input consumption - left recursion", i+2)
		}
		notes = append(notes, diag.Note{Message: msg, Location: loc})
	}

	loc := target.NameLoc
	s.Error(fmt.Sprintf("Possible infinite loop when parsing (left recursion: %s)", strings.Join(chain, " -> ")), &loc, notes...)
}
