package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkovnikov-ph/peggy/ast"
)

func TestLeftRecursionReportsDirectSelfRecursion(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "start", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.Suffixed{Op: ast.SuffixOptional, Expr: &ast.Literal{Value: "a"}},
			&ast.RuleReference{Name: "start"},
		}}},
	}}
	s := newSession()
	require.NoError(t, LeftRecursion(g, nil, s))
	require.Equal(t, 1, s.ErrorCount())
	assert.Contains(t, s.Problems[0].Message, "start -> start")
	assert.Len(t, s.Problems[0].Notes, 2, "one note entering the rule plus one for the self-call")
}

func TestLeftRecursionReportsIndirectCycle(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "A", Expr: &ast.RuleReference{Name: "B"}},
		{Name: "B", Expr: &ast.RuleReference{Name: "A"}},
	}}
	s := newSession()
	require.NoError(t, LeftRecursion(g, nil, s))
	assert.GreaterOrEqual(t, s.ErrorCount(), 1)
}

func TestLeftRecursionAllowsRecursionAfterConsumingElement(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "start", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.Literal{Value: "a"},
			&ast.RuleReference{Name: "start"},
		}}},
	}}
	s := newSession()
	require.NoError(t, LeftRecursion(g, nil, s))
	assert.Zero(t, s.ErrorCount())
}
