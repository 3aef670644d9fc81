// Package ast holds the surface shapes consumed from the parser (§6.1 of
// the spec). The parser itself is an external collaborator, out of scope;
// only the structural shape matters here.
package ast

import "strconv"

// Source identifies one loaded file.
type Source struct {
	Path     string
	Contents string
	ID       int
}

// Location is a 1-indexed line/column position.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Span is a source range, used for diagnostics and for the LSP server's
// cursor-to-node lookup (through Contains, which includes both ends).
type Span struct {
	Start    Location
	End      Location
	SourceID int
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// Contains reports whether loc falls within s, inclusive of both ends.
func (s Span) Contains(loc Location) bool {
	after := loc.Line > s.Start.Line || (loc.Line == s.Start.Line && loc.Column >= s.Start.Column)
	before := loc.Line < s.End.Line || (loc.Line == s.End.Line && loc.Column <= s.End.Column)
	return after && before
}

func MergeSpans(a, b Span) Span {
	if a.Start.Line < b.Start.Line || (a.Start.Line == b.Start.Line && a.Start.Column < b.Start.Column) {
		return Span{Start: a.Start, End: b.End, SourceID: a.SourceID}
	}
	return Span{Start: b.Start, End: a.End, SourceID: a.SourceID}
}
