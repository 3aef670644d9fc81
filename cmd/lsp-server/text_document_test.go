package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/vellum-lang/vellumc/internal/ast"
)

func TestSpanToRange_ConvertsOneIndexedToZeroIndexed(t *testing.T) {
	s := ast.Span{Start: ast.Location{Line: 3, Column: 5}, End: ast.Location{Line: 3, Column: 9}}
	r := spanToRange(s)
	assert.Equal(t, protocol.UInteger(2), r.Start.Line)
	assert.Equal(t, protocol.UInteger(4), r.Start.Character)
	assert.Equal(t, protocol.UInteger(2), r.End.Line)
	assert.Equal(t, protocol.UInteger(8), r.End.Character)
}

func TestPosToLoc_ConvertsZeroIndexedToOneIndexed(t *testing.T) {
	loc := posToLoc(protocol.Position{Line: 2, Character: 4})
	assert.Equal(t, 3, loc.Line)
	assert.Equal(t, 5, loc.Column)
}

func TestSpanToRange_PosToLoc_RoundTrip(t *testing.T) {
	pos := protocol.Position{Line: 10, Character: 20}
	loc := posToLoc(pos)
	assert.Equal(t, int(pos.Line)+1, loc.Line)
	assert.Equal(t, int(pos.Character)+1, loc.Column)
	r := spanToRange(ast.Span{Start: loc, End: loc})
	assert.Equal(t, pos, r.Start)
}
