package generate

import (
	"github.com/polkovnikov-ph/peggy/ast"
)

// generator holds the state shared across one grammar's worth of emission:
// the rule-name index (for RULE operands) and the four constant pools.
type generator struct {
	grammar *ast.Grammar
	rules   map[string]int
	pools   *pools
}

func newGenerator(g *ast.Grammar) *generator {
	gen := &generator{grammar: g, rules: map[string]int{}, pools: newPools()}
	for i, r := range g.Rules {
		gen.rules[r.Name] = i
	}
	return gen
}

// emitExpr dispatches on n's dynamic kind and returns its bytecode
// fragment. Every fragment, taken as a whole, nets exactly +1 against the
// stack pointer (spec §4.6's stack-discipline invariant) — this is a
// structural property of every case below, not separately enforced here;
// internal/simulate's reference simulator checks it mechanically.
func emitExpr(g *generator, n ast.Expr, ctx genContext) []int {
	switch t := n.(type) {
	case *ast.Literal:
		return g.literal(t)
	case *ast.CharacterClass:
		return g.class(t)
	case *ast.Any:
		return g.any(t)
	case *ast.RuleReference:
		return g.ruleRef(t)
	case *ast.SemanticPredicate:
		return g.semanticPredicate(t, ctx)
	case *ast.Prefixed:
		switch t.Op {
		case ast.PrefixText:
			return g.text(t, ctx)
		case ast.PrefixSimpleAnd:
			return g.simpleAndNot(t, ctx, false)
		case ast.PrefixSimpleNot:
			return g.simpleAndNot(t, ctx, true)
		default:
			panic("generate: unhandled prefix operator")
		}
	case *ast.Suffixed:
		switch t.Op {
		case ast.SuffixOptional:
			return g.optional(t, ctx)
		case ast.SuffixZeroOrMore:
			return g.zeroOrMore(t, ctx)
		case ast.SuffixOneOrMore:
			return g.oneOrMore(t, ctx)
		default:
			panic("generate: unhandled suffix operator")
		}
	case *ast.Group:
		// A group opens a fresh label scope (spec §3.3) but, since genEnv
		// is immutable, sharing ctx.env with the child is already safe —
		// nothing the child binds can leak back out through it.
		return emitExpr(g, t.Expr, ctx)
	case *ast.Named:
		return g.named(t, ctx)
	case *ast.Choice:
		return g.choice(t, ctx)
	case *ast.Sequence:
		return g.sequence(t, ctx, ctx.action)
	case *ast.Action:
		return g.action(t, ctx)
	case *ast.Labeled:
		// A labeled node reached here did not go through sequenceElement
		// or action's single-child special case, so nothing downstream
		// can read its binding: emit the child and drop the label.
		return emitExpr(g, t.Expr, genContext{sp: ctx.sp, env: ctx.env, action: nil})
	default:
		panic("generate: unhandled expression kind")
	}
}

func (g *generator) literal(lit *ast.Literal) []int {
	if lit.Value == "" {
		return []int{int(OpPushEmptyString)}
	}
	strIdx := g.pools.literals.intern(lit.Value)
	var thenCode []int
	if lit.IgnoreCase {
		thenCode = []int{int(OpAcceptN), len([]rune(lit.Value))}
	} else {
		thenCode = []int{int(OpAcceptString), strIdx}
	}
	expIdx := g.pools.expectations.intern(ast.ExpectationDesc{
		Kind: ast.ExpectLiteral, Literal: lit.Value, IgnoreCase: lit.IgnoreCase,
	})
	elseCode := []int{int(OpFail), expIdx}
	op := OpMatchString
	if lit.IgnoreCase {
		op = OpMatchStringIC
	}
	return matchBranch(op, []int{strIdx}, thenCode, elseCode)
}

func (g *generator) class(cc *ast.CharacterClass) []int {
	expIdx := g.pools.expectations.intern(ast.ExpectationDesc{Kind: ast.ExpectClass, Class: cc.Desc})
	elseCode := []int{int(OpFail), expIdx}
	if *cc.Match() == ast.Never {
		return elseCode
	}
	classIdx := g.pools.classes.intern(cc.Desc)
	thenCode := []int{int(OpAcceptN), 1}
	return matchBranch(OpMatchCharClass, []int{classIdx}, thenCode, elseCode)
}

func (g *generator) any(*ast.Any) []int {
	thenCode := []int{int(OpAcceptN), 1}
	expIdx := g.pools.expectations.intern(ast.ExpectationDesc{Kind: ast.ExpectAny})
	elseCode := []int{int(OpFail), expIdx}
	return matchBranch(OpMatchAny, nil, thenCode, elseCode)
}

func (g *generator) ruleRef(r *ast.RuleReference) []int {
	idx, ok := g.rules[r.Name]
	if !ok {
		// Undefined rule: the check stage already reported this as an
		// error, so generation never runs for real (spec §2, fail-fast
		// between stages). Emit a harmless placeholder so a caller that
		// forces generation anyway (e.g. a unit test exercising this pass
		// in isolation) still gets a well-formed instruction stream.
		idx = 0
	}
	return []int{int(OpRule), idx}
}

// simpleAndNot emits `&e` (negative=false) or `!e` (negative=true) — spec
// §4.6's "simple_and/simple_not" pattern.
func (g *generator) simpleAndNot(p *ast.Prefixed, ctx genContext, negative bool) []int {
	code := []int{int(OpPushCurrPos), int(OpSilentFailsOn)}
	code = append(code, emitExpr(g, p.Expr, genContext{sp: ctx.sp + 1, env: ctx.env})...)
	code = append(code, int(OpSilentFailsOff))

	succeed := []int{int(OpPop), int(OpPopCurrPos), int(OpPushUndefined)}
	fail := []int{int(OpPop), int(OpPopCurrPos), int(OpPushFailed)}
	thenCode, elseCode := succeed, fail
	if negative {
		thenCode, elseCode = fail, succeed
	}
	return append(code, branch(OpIfNotError, thenCode, elseCode)...)
}

func (g *generator) semanticPredicate(sp *ast.SemanticPredicate, ctx genContext) []int {
	funcIdx := g.pools.functions.intern(ast.FunctionDesc{
		Predicate: true, Params: ctx.env.names(), Body: sp.Code, Location: sp.CodeLoc,
	})
	call := []int{int(OpCall), funcIdx, 0, len(ctx.env)}
	call = append(call, ctx.env.offsets(ctx.sp)...)
	code := append([]int{int(OpUpdateSavedPos)}, call...)

	succeed := []int{int(OpPop), int(OpPushUndefined)}
	fail := []int{int(OpPop), int(OpPushFailed)}
	thenCode, elseCode := succeed, fail
	if sp.Negative {
		thenCode, elseCode = fail, succeed
	}
	return append(code, branch(OpIf, thenCode, elseCode)...)
}

func (g *generator) optional(s *ast.Suffixed, ctx genContext) []int {
	code := emitExpr(g, s.Expr, ctx)
	if *s.Expr.Match() == ast.Always {
		return code
	}
	thenCode := []int{int(OpPop), int(OpPushNull)}
	return append(code, branch(OpIfError, thenCode, nil)...)
}

func (g *generator) zeroOrMore(s *ast.Suffixed, ctx genContext) []int {
	code := []int{int(OpPushEmptyArray)}
	code = append(code, emitExpr(g, s.Expr, genContext{sp: ctx.sp + 1, env: ctx.env})...)
	body := append([]int{int(OpAppend)}, emitExpr(g, s.Expr, genContext{sp: ctx.sp + 1, env: ctx.env})...)
	code = append(code, loop(OpWhileNotError, body)...)
	code = append(code, int(OpPop))
	return code
}

func (g *generator) oneOrMore(s *ast.Suffixed, ctx genContext) []int {
	code := []int{int(OpPushEmptyArray)}
	code = append(code, emitExpr(g, s.Expr, genContext{sp: ctx.sp + 1, env: ctx.env})...)
	loopBody := append([]int{int(OpAppend)}, emitExpr(g, s.Expr, genContext{sp: ctx.sp + 1, env: ctx.env})...)
	thenCode := append(loop(OpWhileNotError, loopBody), int(OpPop))
	elseCode := []int{int(OpPop), int(OpPop), int(OpPushFailed)}
	return append(code, branch(OpIfNotError, thenCode, elseCode)...)
}

func (g *generator) text(p *ast.Prefixed, ctx genContext) []int {
	code := []int{int(OpPushCurrPos)}
	code = append(code, emitExpr(g, p.Expr, genContext{sp: ctx.sp + 1, env: ctx.env})...)
	thenCode := []int{int(OpPop), int(OpText)}
	elseCode := []int{int(OpNip)}
	return append(code, branch(OpIfNotError, thenCode, elseCode)...)
}

func (g *generator) named(n *ast.Named, ctx genContext) []int {
	code := []int{int(OpSilentFailsOn)}
	code = append(code, emitExpr(g, n.Expr, ctx)...)
	code = append(code, int(OpSilentFailsOff))
	if *n.Expr.Match() == ast.Always {
		return code
	}
	expIdx := g.pools.expectations.intern(ast.ExpectationDesc{Kind: ast.ExpectRule, RuleName: n.Name})
	thenCode := []int{int(OpPop), int(OpFail), expIdx}
	return append(code, branch(OpIfError, thenCode, nil)...)
}

// choice emits the right-folded alternation (spec §4.6): the last
// alternative is emitted bare (its own failure is the whole choice's
// failure); each earlier one is wrapped in "on failure, discard it and try
// the rest". If the very first alternative always matches, every later one
// is unreachable and dropped entirely.
func (g *generator) choice(c *ast.Choice, ctx genContext) []int {
	alts := c.Alternatives
	if *alts[0].Match() == ast.Always {
		return emitExpr(g, alts[0], ctx)
	}
	code := emitExpr(g, alts[len(alts)-1], ctx)
	for i := len(alts) - 2; i >= 0; i-- {
		rest := append([]int{int(OpPop)}, code...)
		altCode := emitExpr(g, alts[i], ctx)
		code = append(altCode, branch(OpIfError, rest, nil)...)
	}
	return code
}

// sequence emits a Sequence's full bytecode: a saved position, each
// element matched in turn with rollback-on-failure, and one of the three
// tail shapes depending on whether any element was plucked, the sequence
// is the direct body of an enclosing action, or neither (spec §4.6).
func (g *generator) sequence(sq *ast.Sequence, ctx genContext, action *ast.Action) []int {
	code := []int{int(OpPushCurrPos)}
	seqCtx := genContext{sp: ctx.sp + 1, env: ctx.env}
	code = append(code, g.sequenceRec(sq.Elements, 0, seqCtx, nil, action)...)
	return code
}

func (g *generator) sequenceRec(elements []ast.Expr, idx int, ctx genContext, pluck []int, action *ast.Action) []int {
	if idx == len(elements) {
		return g.sequenceTail(len(elements), ctx, pluck, action)
	}
	elemCode, nextCtx, nextPluck := g.sequenceElement(elements[idx], ctx, pluck)
	restCode := g.sequenceRec(elements, idx+1, nextCtx, nextPluck, action)

	discard := idx + 1
	var rollback []int
	if discard == 1 {
		rollback = []int{int(OpPop)}
	} else {
		rollback = []int{int(OpPopN), discard}
	}
	rollback = append(rollback, int(OpPopCurrPos), int(OpPushFailed))

	return append(elemCode, branch(OpIfNotError, restCode, rollback)...)
}

// sequenceElement emits one sequence element. A labeled element binds its
// name into the (immutable) environment for the remaining elements, and —
// if plucked with `@` — records its stack depth for the PLUCK tail.
func (g *generator) sequenceElement(el ast.Expr, ctx genContext, pluck []int) (code []int, next genContext, nextPluck []int) {
	if lab, ok := el.(*ast.Labeled); ok {
		childCode := emitExpr(g, lab.Expr, genContext{sp: ctx.sp, env: ctx.env})
		env := ctx.env
		if lab.Label != "" {
			env = ctx.env.bind(lab.Label, ctx.sp+1)
		}
		np := pluck
		if lab.Pick {
			np = append(append([]int{}, pluck...), ctx.sp+1)
		}
		return childCode, genContext{sp: ctx.sp + 1, env: env}, np
	}
	code = emitExpr(g, el, genContext{sp: ctx.sp, env: ctx.env})
	return code, genContext{sp: ctx.sp + 1, env: ctx.env}, pluck
}

func (g *generator) sequenceTail(n int, ctx genContext, pluck []int, action *ast.Action) []int {
	switch {
	case len(pluck) > 0:
		total := n + 1
		offsets := make([]int, len(pluck))
		for i, sp := range pluck {
			offsets[i] = ctx.sp - sp
		}
		code := []int{int(OpPluck), total, len(pluck)}
		return append(code, offsets...)
	case action != nil:
		code := []int{int(OpLoadSavedPos), n}
		funcIdx := g.pools.functions.intern(ast.FunctionDesc{
			Params: ctx.env.names(), Body: action.Code, Location: action.CodeLoc,
		})
		call := []int{int(OpCall), funcIdx, n + 1, len(ctx.env)}
		call = append(call, ctx.env.offsets(ctx.sp)...)
		return append(code, call...)
	default:
		return []int{int(OpWrap), n, int(OpNip)}
	}
}

// action emits an Action node. When its body is a non-empty Sequence, the
// sequence's own tail logic (sequenceTail's action branch) already does
// everything an action needs, so generation is delegated there wholesale;
// this is what lets a labeled element inside the sequence feed the action
// function's arguments. Otherwise (a bare expression, or an empty
// sequence) the action wraps a single saved-position/call/nip sequence of
// its own (spec §4.6 "action").
func (g *generator) action(a *ast.Action, ctx genContext) []int {
	if sq, ok := a.Expr.(*ast.Sequence); ok && len(sq.Elements) > 0 {
		return g.sequence(sq, ctx, a)
	}

	code := []int{int(OpPushCurrPos)}
	childCtx := genContext{sp: ctx.sp + 1, env: ctx.env}
	env := ctx.env
	if lab, ok := a.Expr.(*ast.Labeled); ok && lab.Label != "" {
		env = ctx.env.bind(lab.Label, childCtx.sp+1)
	}
	code = append(code, emitExpr(g, a.Expr, childCtx)...)

	callSP := childCtx.sp + 1
	funcIdx := g.pools.functions.intern(ast.FunctionDesc{Params: env.names(), Body: a.Code, Location: a.CodeLoc})
	call := []int{int(OpCall), funcIdx, 1, len(env)}
	call = append(call, env.offsets(callSP)...)

	thenCode := append([]int{int(OpLoadSavedPos), 1}, call...)
	thenCode = append(thenCode, int(OpNip))
	elseCode := []int{int(OpNip)}
	return append(code, branch(OpIfNotError, thenCode, elseCode)...)
}
