package script

// reservedWords is the full ECMAScript reserved-word set (§9's resolved
// open question): every identifier emitted by this backend that collides
// with one of these gets the same `__<word>__` rename the original
// compiler's script backend applied only to its one known conflict,
// `var`.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true, "static": true,
	"await": true, "async": true, "enum": true, "implements": true, "interface": true,
	"package": true, "private": true, "protected": true, "public": true,
	"null": true, "true": true, "false": true, "undefined": true,
}

// reserveRename applies the rename table, leaving non-reserved identifiers
// untouched.
func reserveRename(name string) string {
	if reservedWords[name] {
		return "__" + name + "__"
	}
	return name
}
