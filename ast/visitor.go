package ast

// Handler is one entry of a visitor's handler map: given the node, the
// caller-supplied auxiliary value and the visitor itself (so a handler can
// recurse with a modified auxiliary value), it produces a result.
//
// A is the typed auxiliary argument threaded through a traversal (e.g. the
// label-scope environment for duplicate-label detection, or the bytecode
// emission context). R is whatever the handlers for this traversal produce;
// traversals that only want side effects (reporting diagnostics) use R =
// struct{}.
type Handler[A any, R any] func(n Node, aux A, v *Visitor[A, R]) R

// Visitor dispatches a Node to the Handler registered for its Kind. It is
// built by NewExprVisitor or NewFullVisitor, which pre-populate defaults
// the caller's handler map did not override.
type Visitor[A any, R any] struct {
	handlers map[Kind]Handler[A, R]
}

// Visit dispatches n to its handler. It panics if no handler is registered
// for n's Kind — this is a programmer error (an incomplete handler map),
// not a condition a caller can recover from mid-traversal.
func (v *Visitor[A, R]) Visit(n Node, aux A) R {
	h, ok := v.handlers[n.Kind()]
	if !ok {
		panic("ast: no visitor handler registered for kind " + n.Kind().String())
	}
	return h(n, aux, v)
}

// singleChild returns the lone `expression` operand of a wrapper node, i.e.
// every expression kind other than Choice and Sequence (which have no
// single child) and the primary atoms (which have none at all). Rule is
// included: its body is exactly one expression, so — like Named, Action,
// Labeled, Prefixed, Suffixed and Group — it can default to "recurse into
// the child" in the expression-only visitor.
func singleChild(n Node) (Expr, bool) {
	switch t := n.(type) {
	case *Rule:
		return t.Expr, true
	case *Named:
		return t.Expr, true
	case *Action:
		return t.Expr, true
	case *Labeled:
		return t.Expr, true
	case *Prefixed:
		return t.Expr, true
	case *Suffixed:
		return t.Expr, true
	case *Group:
		return t.Expr, true
	default:
		return nil, false
	}
}

// recurseDefault builds the default handler shared by every single-child
// wrapper kind: visit the child with the same auxiliary value and return
// whatever that produced.
func recurseDefault[A any, R any]() Handler[A, R] {
	return func(n Node, aux A, v *Visitor[A, R]) R {
		child, ok := singleChild(n)
		if !ok {
			panic("ast: recurseDefault used on a node with no single child")
		}
		return v.Visit(child, aux)
	}
}

var singleChildKinds = []Kind{KindRule, KindNamed, KindAction, KindLabeled, KindPrefixed, KindSuffixed, KindGroup}

// NewExprVisitor builds the expression-only visitor (spec §4.1): the caller
// must supply handlers for every node kind that is not one of the
// single-child wrappers — that is Grammar, Initializer, Choice, Sequence,
// RuleReference, SemanticPredicate, Literal, CharacterClass and Any. The
// single-child wrapper kinds (Rule, Named, Action, Labeled, Prefixed,
// Suffixed, Group) default to recursing into their operand unless the
// caller overrides them.
func NewExprVisitor[A any, R any](handlers map[Kind]Handler[A, R]) *Visitor[A, R] {
	merged := make(map[Kind]Handler[A, R], len(handlers)+len(singleChildKinds))
	def := recurseDefault[A, R]()
	for _, k := range singleChildKinds {
		merged[k] = def
	}
	for k, h := range handlers {
		merged[k] = h
	}
	return &Visitor[A, R]{handlers: merged}
}

// NewFullVisitor extends NewExprVisitor with defaults for the root and
// container nodes: Grammar visits its initializers then each rule, Choice
// visits each alternative, Sequence visits each element, and every
// remaining atom (Initializer, RuleReference, SemanticPredicate, Literal,
// CharacterClass, Any) defaults to a no-op that returns the zero value of
// R. Any of these may still be overridden by the caller's handler map.
func NewFullVisitor[A any, R any](handlers map[Kind]Handler[A, R]) *Visitor[A, R] {
	var zero R
	noop := Handler[A, R](func(Node, A, *Visitor[A, R]) R { return zero })

	base := map[Kind]Handler[A, R]{
		KindGrammar: func(n Node, aux A, v *Visitor[A, R]) R {
			g := n.(*Grammar)
			if g.TopLevelInitializer != nil {
				v.Visit(g.TopLevelInitializer, aux)
			}
			if g.Initializer != nil {
				v.Visit(g.Initializer, aux)
			}
			var last R
			for _, r := range g.Rules {
				last = v.Visit(r, aux)
			}
			return last
		},
		KindChoice: func(n Node, aux A, v *Visitor[A, R]) R {
			c := n.(*Choice)
			var last R
			for _, alt := range c.Alternatives {
				last = v.Visit(alt, aux)
			}
			return last
		},
		KindSequence: func(n Node, aux A, v *Visitor[A, R]) R {
			s := n.(*Sequence)
			var last R
			for _, el := range s.Elements {
				last = v.Visit(el, aux)
			}
			return last
		},
		KindInitializer:       noop,
		KindRuleReference:     noop,
		KindSemanticPredicate: noop,
		KindLiteral:           noop,
		KindCharacterClass:    noop,
		KindAny:               noop,
	}
	for k, h := range handlers {
		base[k] = h
	}
	return NewExprVisitor(base)
}
