package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRule(t *testing.T) {
	g := &Grammar{Rules: []*Rule{
		{Name: "A", Expr: &Any{}},
		{Name: "B", Expr: &Any{}},
	}}

	r := FindRule(g, "B")
	require.NotNil(t, r)
	assert.Equal(t, "B", r.Name)

	assert.Nil(t, FindRule(g, "Missing"))
}

func TestIndexOfRule(t *testing.T) {
	g := &Grammar{Rules: []*Rule{
		{Name: "A", Expr: &Any{}},
		{Name: "B", Expr: &Any{}},
	}}

	assert.Equal(t, 1, IndexOfRule(g, "B"))
	assert.Equal(t, -1, IndexOfRule(g, "Missing"))
}

func TestAlwaysConsumesOnSuccess(t *testing.T) {
	g := &Grammar{Rules: []*Rule{
		{Name: "Consumes", Expr: &Literal{Value: "x"}},
		{Name: "MightNotConsume", Expr: &Suffixed{Op: SuffixZeroOrMore, Expr: &Literal{Value: "x"}}},
	}}

	tests := []struct {
		name string
		expr Expr
		want bool
	}{
		{"empty literal", &Literal{Value: ""}, false},
		{"nonempty literal", &Literal{Value: "a"}, true},
		{"class", &CharacterClass{}, true},
		{"any", &Any{}, true},
		{"simple and", &Prefixed{Op: PrefixSimpleAnd, Expr: &Literal{Value: "a"}}, false},
		{"simple not", &Prefixed{Op: PrefixSimpleNot, Expr: &Literal{Value: "a"}}, false},
		{"text wraps child", &Prefixed{Op: PrefixText, Expr: &Literal{Value: "a"}}, true},
		{"optional", &Suffixed{Op: SuffixOptional, Expr: &Literal{Value: "a"}}, false},
		{"zero or more", &Suffixed{Op: SuffixZeroOrMore, Expr: &Literal{Value: "a"}}, false},
		{"one or more consuming child", &Suffixed{Op: SuffixOneOrMore, Expr: &Literal{Value: "a"}}, true},
		{"semantic predicate", &SemanticPredicate{}, false},
		{"choice, all consume", &Choice{Alternatives: []Expr{&Literal{Value: "a"}, &Literal{Value: "b"}}}, true},
		{"choice, one empty", &Choice{Alternatives: []Expr{&Literal{Value: "a"}, &Literal{Value: ""}}}, false},
		{"sequence, one consumes", &Sequence{Elements: []Expr{&Literal{Value: ""}, &Literal{Value: "a"}}}, true},
		{"sequence, none consume", &Sequence{Elements: []Expr{&Literal{Value: ""}, &Suffixed{Op: SuffixOptional, Expr: &Literal{Value: "a"}}}}, false},
		{"rule ref to consuming rule", &RuleReference{Name: "Consumes"}, true},
		{"rule ref to non-consuming rule", &RuleReference{Name: "MightNotConsume"}, false},
		{"rule ref to undefined rule", &RuleReference{Name: "Nope"}, false},
		{"named delegates", &Named{Name: "n", Expr: &Literal{Value: "a"}}, true},
		{"action delegates", &Action{Expr: &Literal{Value: "a"}}, true},
		{"labeled delegates", &Labeled{Label: "l", Expr: &Literal{Value: "a"}}, true},
		{"group delegates", &Group{Expr: &Literal{Value: "a"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlwaysConsumesOnSuccess(g, tt.expr))
		})
	}
}
