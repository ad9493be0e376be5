// Package transform implements the two transformation passes of spec §4.5:
// proxy-rule elision and match-result inference. Unlike check passes,
// these mutate the AST.
package transform

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/options"
)

// RemoveProxyRules rewrites every reference to a proxy rule (a rule whose
// body is exactly a RuleReference) to point at that rule's target instead,
// then deletes the proxy rule unless it is one of the configured allowed
// start rules (spec §4.5.1).
func RemoveProxyRules(g *ast.Grammar, opts *options.Options, s *diag.Session) error {
	type proxy struct {
		rule   *ast.Rule
		target *ast.Rule
	}

	var proxies []proxy
	for _, r := range g.Rules {
		ref, ok := r.Expr.(*ast.RuleReference)
		if !ok {
			continue
		}
		target := ast.FindRule(g, ref.Name)
		if target == nil {
			continue // undefined-rule check already reported this
		}
		if target == r {
			continue // a rule can't proxy to itself
		}
		proxies = append(proxies, proxy{rule: r, target: target})
	}

	for _, p := range proxies {
		rewritten := rewriteReferences(g, p.rule.Name, p.target.Name)
		if rewritten > 0 {
			s.Info(fmt.Sprintf("Proxy rule %q replaced by the rule %q", p.rule.Name, p.target.Name),
				&p.rule.Loc, diag.Note{Message: "target rule", Location: p.target.NameLoc})
		}
	}

	removable := lo.Filter(proxies, func(p proxy, _ int) bool {
		return !lo.Contains(opts.AllowedStartRules, p.rule.Name)
	})
	// Splice out removable proxy rules in reverse index order so earlier
	// indices stay valid as later ones are removed (spec §4.5.1).
	idxs := lo.Map(removable, func(p proxy, _ int) int { return ast.IndexOfRule(g, p.rule.Name) })
	idxs = lo.Filter(idxs, func(i int, _ int) bool { return i >= 0 })
	for _, i := range lo.Reverse(lo.Uniq(idxs)) {
		g.Rules = append(g.Rules[:i], g.Rules[i+1:]...)
	}
	return nil
}

// rewriteReferences mutates every RuleReference.Name equal to from into to,
// anywhere in the grammar, and returns how many were rewritten.
func rewriteReferences(g *ast.Grammar, from, to string) int {
	count := 0
	v := ast.NewFullVisitor(map[ast.Kind]ast.Handler[struct{}, struct{}]{
		ast.KindRuleReference: func(n ast.Node, _ struct{}, _ *ast.Visitor[struct{}, struct{}]) struct{} {
			ref := n.(*ast.RuleReference)
			if ref.Name == from {
				ref.Name = to
				count++
			}
			return struct{}{}
		},
	})
	v.Visit(g, struct{}{})
	return count
}
