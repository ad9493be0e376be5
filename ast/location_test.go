package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:7", Position{Line: 3, Col: 7, Offset: 42}.String())
}

func TestLocationString(t *testing.T) {
	p := Position{Line: 1, Col: 1}
	assert.Equal(t, "1:1", Location{Start: p, End: p}.String())

	loc := Location{Start: Position{Line: 1, Col: 1}, End: Position{Line: 1, Col: 5}}
	assert.Equal(t, "1:1-1:5", loc.String())
}
