package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkovnikov-ph/peggy/ast"
)

func TestDuplicateLabelsReportsRepeatedLabelInSameSequence(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "R", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.Labeled{Label: "x", Expr: &ast.Literal{Value: "a"}},
			&ast.Labeled{Label: "x", Expr: &ast.Literal{Value: "b"}},
		}}},
	}}
	s := newSession()
	require.NoError(t, DuplicateLabels(g, nil, s))
	require.Equal(t, 1, s.ErrorCount())
	assert.Contains(t, s.Problems[0].Message, `"x"`)
}

func TestDuplicateLabelsAllowsSameLabelAcrossChoiceAlternatives(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "R", Expr: &ast.Choice{Alternatives: []ast.Expr{
			&ast.Labeled{Label: "x", Expr: &ast.Literal{Value: "a"}},
			&ast.Labeled{Label: "x", Expr: &ast.Literal{Value: "b"}},
		}}},
	}}
	s := newSession()
	require.NoError(t, DuplicateLabels(g, nil, s))
	assert.Zero(t, s.ErrorCount())
}

func TestDuplicateLabelsReportsOuterLabelRedefinedInsideGroup(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "R", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.Labeled{Label: "x", Expr: &ast.Literal{Value: "a"}},
			&ast.Group{Expr: &ast.Labeled{Label: "x", Expr: &ast.Literal{Value: "b"}}},
		}}},
	}}
	s := newSession()
	require.NoError(t, DuplicateLabels(g, nil, s))
	assert.Equal(t, 1, s.ErrorCount(), "a group's scope is a clone of the enclosing one, so the outer label is visible inside it")
}

func TestDuplicateLabelsIgnoresEmptyLabels(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "R", Expr: &ast.Sequence{Elements: []ast.Expr{
			&ast.Labeled{Label: "", Expr: &ast.Literal{Value: "a"}},
			&ast.Labeled{Label: "", Expr: &ast.Literal{Value: "b"}},
		}}},
	}}
	s := newSession()
	require.NoError(t, DuplicateLabels(g, nil, s))
	assert.Zero(t, s.ErrorCount())
}
