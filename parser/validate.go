package parser

import "github.com/nasmfront/x64asm/lexer"

// ValidateUnresolvedImmediate checks that tokens is an alternating
// sequence of terms (Symbol | Immediate | $) and binary operators
// (+ - * /), starting and ending on a term. An empty slice is fatal.
func ValidateUnresolvedImmediate(diag lexer.Diagnostics, tokens []lexer.Lexeme) error {
	if len(tokens) == 0 {
		return diag.Errorf(0, "empty operand not allowed")
	}
	wantTerm := true
	for _, tok := range tokens {
		if wantTerm && isImmTerm(tok) {
			wantTerm = false
			continue
		}
		if !wantTerm && tok.Kind == lexer.KindPunct && tok.Punct.IsArithmetic() {
			wantTerm = true
			continue
		}
		return diag.Errorf(tok.Line, "invalid operand")
	}
	if wantTerm {
		return diag.Errorf(tokens[len(tokens)-1].Line, "invalid operand")
	}
	return nil
}

func isImmTerm(tok lexer.Lexeme) bool {
	return tok.Kind == lexer.KindSymbol || tok.Kind == lexer.KindImmediate ||
		(tok.Kind == lexer.KindPunct && tok.Punct == lexer.PunctDollar)
}

// ValidateUnresolvedSIB walks the interior of a bracketed operand
// (tokens[1:len-1], brackets included in tokens) checking alternating
// Register/Immediate/Symbol terms and arithmetic operators. It reports
// resolved=true iff the interior is non-empty and contains no Symbol;
// resolved=false when a Symbol is present (still syntactically valid).
// A malformed interior is a fatal error regardless.
func ValidateUnresolvedSIB(diag lexer.Diagnostics, tokens []lexer.Lexeme) (resolved bool, err error) {
	if len(tokens) <= 2 {
		return false, nil
	}
	resolved = true
	wantTerm := true
	for i := 1; i < len(tokens)-1; i++ {
		tok := tokens[i]
		if wantTerm && (tok.Kind == lexer.KindRegister || tok.Kind == lexer.KindImmediate) {
			wantTerm = false
			continue
		}
		if wantTerm && tok.Kind == lexer.KindSymbol {
			wantTerm = false
			resolved = false
			continue
		}
		if !wantTerm && tok.Kind == lexer.KindPunct && tok.Punct.IsArithmetic() {
			wantTerm = true
			continue
		}
		return false, diag.Errorf(tok.Line, "invalid operand")
	}
	if wantTerm {
		return false, diag.Errorf(tokens[len(tokens)-2].Line, "invalid operand")
	}
	return resolved, nil
}
