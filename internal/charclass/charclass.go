// Package charclass implements character-class matching semantics shared
// between the check stage (validating \p{...} Unicode class names) and any
// downstream consumer of a compiled CharClassDesc.
//
// Adapted from 32bitkid-pigeon's vm/matchers.go (ϡcharClassMatcher and
// ϡrangeTable): the three-tier char/range/Unicode-class matching order and
// the Categories/Properties/Scripts lookup fallback are carried over
// verbatim in spirit, rewritten against this module's ast.CharClassDesc
// instead of the teacher's own bit-packed matcher struct.
package charclass

import (
	"unicode"

	"github.com/polkovnikov-ph/peggy/ast"
)

// Matches reports whether r satisfies desc, honoring IgnoreCase and
// Inverted. It is not used by a parsing runtime (out of scope for this
// module) or by the check stage (which only calls RangeTable); it gives
// tests a ground truth for CharClassDesc semantics independent of the
// bytecode that will eventually encode them.
func Matches(desc ast.CharClassDesc, r rune) bool {
	if desc.IgnoreCase {
		r = unicode.ToLower(r)
	}
	matched := false
outer:
	for _, p := range desc.Parts {
		switch p.Kind {
		case ast.PartChar:
			c := p.Char
			if desc.IgnoreCase {
				c = unicode.ToLower(c)
			}
			if r == c {
				matched = true
				break outer
			}
		case ast.PartRange:
			lo, hi := p.Lo, p.Hi
			if desc.IgnoreCase {
				lo, hi = unicode.ToLower(lo), unicode.ToLower(hi)
			}
			if r >= lo && r <= hi {
				matched = true
				break outer
			}
		case ast.PartUnicode:
			rt, ok := RangeTable(p.Unicode)
			if ok && unicode.Is(rt, r) {
				matched = true
				break outer
			}
		}
	}
	if desc.Inverted {
		return !matched
	}
	return matched
}

// RangeTable resolves a Unicode class name (e.g. "L", "Greek", "White_Space")
// against the standard library's Categories, Properties, and Scripts
// tables, in that order — the same fallback chain and order as pigeon's
// ϡrangeTable, generalized to report failure instead of panicking, since a
// malformed class name in user grammar source is a diagnosable error here
// (check.UnicodeClassNames), not an internal invariant violation.
func RangeTable(class string) (*unicode.RangeTable, bool) {
	if rt, ok := unicode.Categories[class]; ok {
		return rt, true
	}
	if rt, ok := unicode.Properties[class]; ok {
		return rt, true
	}
	if rt, ok := unicode.Scripts[class]; ok {
		return rt, true
	}
	return nil, false
}
