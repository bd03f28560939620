package parser

import "github.com/nasmfront/x64asm/lexer"

// ParseFile lexes and parses path end to end, returning the flat
// Statement stream for the whole file or the first fatal error.
func ParseFile(path string) ([]Statement, error) {
	lines, err := lexer.Lex(path)
	if err != nil {
		return nil, err
	}
	diag := lexer.NewDiagnostics(path)
	return Parse(diag, lines)
}
