package ast

// Module is one parsed file: an ordered sequence of top-level elements
// (§6.1 — type/function/constant/operator-mapping/export/import
// declarations).
type Module struct {
	Path  string
	Decls []Decl
}
