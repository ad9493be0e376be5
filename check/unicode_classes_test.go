package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkovnikov-ph/peggy/ast"
)

func TestUnicodeClassNamesReportsUnknownClass(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "R", Expr: &ast.CharacterClass{Desc: ast.CharClassDesc{
			Parts: []ast.ClassPart{{Kind: ast.PartUnicode, Unicode: "NotAClass"}},
		}}},
	}}
	s := newSession()
	require.NoError(t, UnicodeClassNames(g, nil, s))
	require.Equal(t, 1, s.ErrorCount())
	assert.Contains(t, s.Problems[0].Message, `"NotAClass"`)
}

func TestUnicodeClassNamesAcceptsKnownCategory(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "R", Expr: &ast.CharacterClass{Desc: ast.CharClassDesc{
			Parts: []ast.ClassPart{{Kind: ast.PartUnicode, Unicode: "L"}},
		}}},
	}}
	s := newSession()
	require.NoError(t, UnicodeClassNames(g, nil, s))
	assert.Zero(t, s.ErrorCount())
}

func TestUnicodeClassNamesIgnoresNonUnicodeParts(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		{Name: "R", Expr: &ast.CharacterClass{Desc: ast.CharClassDesc{
			Parts: []ast.ClassPart{{Kind: ast.PartRange, Lo: 'a', Hi: 'z'}},
		}}},
	}}
	s := newSession()
	require.NoError(t, UnicodeClassNames(g, nil, s))
	assert.Zero(t, s.ErrorCount())
}
