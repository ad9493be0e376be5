package generate

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/polkovnikov-ph/peggy/ast"
)

// pool interns candidate values by structural equality, returning a stable
// index into the backing slice for each distinct value (spec §3.1/§3.2, the
// four constant pools; SPEC_FULL.md §4.9's xxhash-backed dedup). Candidates
// are compared via a canonical string encoding; xxhash buckets the encoding
// so repeated interning of a large grammar's literal/action text stays
// close to O(1) rather than the O(n) linear scan a naive []T dedup would do.
type pool[T any] struct {
	items  []T
	byHash map[uint64][]int
	encode func(T) string
}

func newPool[T any](encode func(T) string) *pool[T] {
	return &pool[T]{byHash: map[uint64][]int{}, encode: encode}
}

func (p *pool[T]) intern(v T) int {
	key := p.encode(v)
	h := xxhash.Sum64String(key)
	for _, i := range p.byHash[h] {
		if p.encode(p.items[i]) == key {
			return i
		}
	}
	idx := len(p.items)
	p.items = append(p.items, v)
	p.byHash[h] = append(p.byHash[h], idx)
	return idx
}

func encodeLiteral(s string) string { return s }

func encodeClass(c ast.CharClassDesc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%t|%t|", c.Inverted, c.IgnoreCase)
	for _, p := range c.Parts {
		switch p.Kind {
		case ast.PartChar:
			fmt.Fprintf(&b, "c%c;", p.Char)
		case ast.PartRange:
			fmt.Fprintf(&b, "r%c-%c;", p.Lo, p.Hi)
		case ast.PartUnicode:
			fmt.Fprintf(&b, "u%s;", p.Unicode)
		}
	}
	return b.String()
}

func encodeExpectation(e ast.ExpectationDesc) string {
	switch e.Kind {
	case ast.ExpectRule:
		return "rule|" + e.RuleName
	case ast.ExpectLiteral:
		return fmt.Sprintf("literal|%t|%s", e.IgnoreCase, e.Literal)
	case ast.ExpectClass:
		return "class|" + encodeClass(e.Class)
	default: // ast.ExpectAny
		return "any"
	}
}

// encodeFunction deliberately omits FunctionDesc.Location: two identical
// predicate/action bodies with the same parameter names alias to the same
// pool entry regardless of where in the grammar they were written (spec
// §3.2's documented aliasing behavior — pool identity is purely textual).
func encodeFunction(f ast.FunctionDesc) string {
	return fmt.Sprintf("%t|%s|%s", f.Predicate, strings.Join(f.Params, ","), f.Body)
}

// pools bundles the grammar's four constant pools for the duration of one
// Generate call.
type pools struct {
	literals     *pool[string]
	classes      *pool[ast.CharClassDesc]
	expectations *pool[ast.ExpectationDesc]
	functions    *pool[ast.FunctionDesc]
}

func newPools() *pools {
	return &pools{
		literals:     newPool(encodeLiteral),
		classes:      newPool(encodeClass),
		expectations: newPool(encodeExpectation),
		functions:    newPool(encodeFunction),
	}
}
