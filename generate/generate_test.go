package generate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/generate"
	"github.com/polkovnikov-ph/peggy/internal/simulate"
	"github.com/polkovnikov-ph/peggy/transform"
)

// compile runs match-result inference (Bytecode assumes it already ran,
// see generate.go's doc comment) and then Bytecode itself, returning the
// grammar ready for inspection.
func compile(t *testing.T, g *ast.Grammar) *ast.Grammar {
	t.Helper()
	require.NoError(t, transform.InferMatchResults(g, nil, nil))
	require.NoError(t, generate.Bytecode(g, nil, nil))
	return g
}

// assertBalanced asserts every rule's compiled body nets exactly +1 on the
// stack pointer (spec §8's "stack discipline" property) — simulate.Run
// additionally panics on any then/else arm imbalance along the way.
func assertBalanced(t *testing.T, g *ast.Grammar) {
	t.Helper()
	for _, r := range g.Rules {
		assert.Equal(t, 1, simulate.Run(r.Bytecode), "rule %q", r.Name)
	}
}

func TestBytecodeLiteralAndClassAndAny(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "Lit", Expr: &ast.Literal{Value: "ab"}},
		{Name: "LitIC", Expr: &ast.Literal{Value: "ab", IgnoreCase: true}},
		{Name: "Empty", Expr: &ast.Literal{Value: ""}},
		{Name: "Class", Expr: &ast.CharacterClass{Desc: ast.CharClassDesc{Parts: []ast.ClassPart{{Kind: ast.PartRange, Lo: '0', Hi: '9'}}}}},
		{Name: "Any", Expr: &ast.Any{}},
	}}
	compile(t, g)
	assertBalanced(t, g)
	assert.Contains(t, g.Literals, "ab")
	require.Len(t, g.Classes, 1)
}

func TestBytecodeNeverMatchingClassSkipsMatchInstruction(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "Impossible", Expr: &ast.CharacterClass{}},
	}}
	compile(t, g)
	assertBalanced(t, g)

	r := ast.FindRule(g, "Impossible")
	require.Equal(t, []int{int(generate.OpFail), 0}, r.Bytecode)
	assert.Empty(t, g.Classes, "a class that can never match must not be interned")
}

func TestBytecodeRuleReference(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "Start", Expr: &ast.RuleReference{Name: "Target"}},
		{Name: "Target", Expr: &ast.Literal{Value: "x"}},
	}}
	compile(t, g)
	assertBalanced(t, g)
}

func TestBytecodeSimpleAndNot(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "And", Expr: &ast.Prefixed{Op: ast.PrefixSimpleAnd, Expr: &ast.Literal{Value: "x"}}},
		{Name: "Not", Expr: &ast.Prefixed{Op: ast.PrefixSimpleNot, Expr: &ast.Literal{Value: "x"}}},
	}}
	compile(t, g)
	assertBalanced(t, g)
}

func TestBytecodeSemanticPredicate(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "Pos", Expr: &ast.SemanticPredicate{Code: "return true"}},
		{Name: "Neg", Expr: &ast.SemanticPredicate{Negative: true, Code: "return true"}},
	}}
	compile(t, g)
	assertBalanced(t, g)
	// Both predicates have the same body, no parameters and the same
	// location, so they alias to one pool entry; polarity lives in the IF.
	require.Len(t, g.Functions, 1)
}

func TestBytecodeOptionalSkipsBranchWhenChildAlwaysMatches(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "OptAlways", Expr: &ast.Suffixed{Op: ast.SuffixOptional, Expr: &ast.Literal{Value: ""}}},
		{Name: "OptSometimes", Expr: &ast.Suffixed{Op: ast.SuffixOptional, Expr: &ast.Literal{Value: "x"}}},
	}}
	compile(t, g)
	assertBalanced(t, g)

	always := ast.FindRule(g, "OptAlways")
	assert.Equal(t, []int{int(generate.OpPushEmptyString)}, always.Bytecode)
}

func TestBytecodeZeroOrMoreAndOneOrMore(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "Star", Expr: &ast.Suffixed{Op: ast.SuffixZeroOrMore, Expr: &ast.Literal{Value: "x"}}},
		{Name: "Plus", Expr: &ast.Suffixed{Op: ast.SuffixOneOrMore, Expr: &ast.Literal{Value: "x"}}},
	}}
	compile(t, g)
	assertBalanced(t, g)
}

func TestBytecodeTextAndNamed(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "Text", Expr: &ast.Prefixed{Op: ast.PrefixText, Expr: &ast.Literal{Value: "x"}}},
		{Name: "NamedSometimes", Expr: &ast.Named{Name: "digit", Expr: &ast.Literal{Value: "x"}}},
		{Name: "NamedAlways", Expr: &ast.Named{Name: "empty", Expr: &ast.Literal{Value: ""}}},
	}}
	compile(t, g)
	assertBalanced(t, g)
}

func TestBytecodeChoice(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "ThreeAlts", Expr: &ast.Choice{Alternatives: []ast.Expr{
			&ast.Literal{Value: "a"}, &ast.Literal{Value: "b"}, &ast.Literal{Value: "c"},
		}}},
		{Name: "FirstAlwaysShortCircuits", Expr: &ast.Choice{Alternatives: []ast.Expr{
			&ast.Literal{Value: ""}, &ast.Literal{Value: "b"},
		}}},
	}}
	compile(t, g)
	assertBalanced(t, g)

	short := ast.FindRule(g, "FirstAlwaysShortCircuits")
	assert.Equal(t, []int{int(generate.OpPushEmptyString)}, short.Bytecode)
}

func TestBytecodeSequenceWithLabelsAndPluckAndAction(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "Plain", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.Literal{Value: "a"}, &ast.Literal{Value: "b"},
		}}},
		{Name: "Pluck", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.Labeled{Pick: true, Expr: &ast.Literal{Value: "a"}},
			&ast.Literal{Value: "b"},
		}}},
		{Name: "Action", Expr: &ast.Action{
			Expr: &ast.Sequence{Elements: []ast.Expr{
				&ast.Labeled{Label: "x", Expr: &ast.Literal{Value: "a"}},
				&ast.Labeled{Label: "y", Expr: &ast.Literal{Value: "b"}},
			}},
			Code: "return x, nil",
		}},
		{Name: "BareAction", Expr: &ast.Action{Expr: &ast.Literal{Value: "a"}, Code: "return nil, nil"}},
		{Name: "BareLabeledAction", Expr: &ast.Action{
			Expr: &ast.Labeled{Label: "v", Expr: &ast.Literal{Value: "a"}},
			Code: "return v, nil",
		}},
	}}
	compile(t, g)
	assertBalanced(t, g)
}

func TestBytecodeGroupSharesEnvironment(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "R", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.Labeled{Label: "a", Expr: &ast.Literal{Value: "x"}},
			&ast.Group{Expr: &ast.Action{Expr: &ast.Literal{Value: "y"}, Code: "return a, nil"}},
		}}},
	}}
	compile(t, g)
	assertBalanced(t, g)
}

func TestArithmeticExampleGrammarCompiles(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "Additive", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.RuleReference{Name: "Multiplicative"},
			&ast.Suffixed{Op: ast.SuffixZeroOrMore, Expr: &ast.Sequence{Elements: []ast.Expr{
				&ast.Choice{Alternatives: []ast.Expr{&ast.Literal{Value: "+"}, &ast.Literal{Value: "-"}}},
				&ast.RuleReference{Name: "Multiplicative"},
			}}},
		}}},
		{Name: "Multiplicative", Expr: &ast.RuleReference{Name: "Primary"}},
		{Name: "Primary", Expr: &ast.Choice{Alternatives: []ast.Expr{
			&ast.RuleReference{Name: "Number"},
			&ast.Action{
				Expr: &ast.Sequence{Elements: []ast.Expr{
					&ast.Literal{Value: "("},
					&ast.Labeled{Label: "value", Expr: &ast.RuleReference{Name: "Additive"}},
					&ast.Literal{Value: ")"},
				}},
				Code: "return value, nil",
			},
		}}},
		{Name: "Number", Expr: &ast.Suffixed{Op: ast.SuffixOneOrMore, Expr: &ast.CharacterClass{
			Desc: ast.CharClassDesc{Parts: []ast.ClassPart{{Kind: ast.PartRange, Lo: '0', Hi: '9'}}},
		}}},
	}}
	compile(t, g)
	assertBalanced(t, g)
}
