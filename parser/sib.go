package parser

import "github.com/nasmfront/x64asm/lexer"

func isValidScale(v uint64) bool {
	return v == 1 || v == 2 || v == 4 || v == 8
}

// ClassifySIB extracts a SIB record from a bracketed, already-squashed,
// symbol-free operand (tokens[0] is '[', tokens[len-1] is ']'). A
// two-phase scan of the interior: scale products first, then addends.
func ClassifySIB(diag lexer.Diagnostics, tokens []lexer.Lexeme) (SIB, error) {
	var sib SIB
	processed := make([]bool, len(tokens))

	// Phase A: scale products.
	for i := 1; i < len(tokens)-1; i++ {
		tok := tokens[i]
		if tok.Kind != lexer.KindPunct || tok.Punct != lexer.PunctStar {
			if tok.Kind == lexer.KindImmediate || tok.Kind == lexer.KindRegister ||
				(tok.Kind == lexer.KindPunct && tok.Punct == lexer.PunctPlus) {
				continue
			}
			return SIB{}, diag.Errorf(tok.Line, "invalid SIB expression")
		}

		if sib.HasIndex {
			return SIB{}, diag.Errorf(tok.Line, "invalid SIB expression")
		}
		left, right := tokens[i-1], tokens[i+1]
		processed[i-1], processed[i], processed[i+1] = true, true, true

		switch {
		case left.Kind == lexer.KindRegister && right.Kind == lexer.KindImmediate:
			if !isValidScale(right.Immediate.Raw) {
				return SIB{}, diag.Errorf(left.Line, "invalid SIB scale")
			}
			sib.Index, sib.HasIndex = left.Register, true
			sib.Scale = int(right.Immediate.Raw)
		case left.Kind == lexer.KindImmediate && right.Kind == lexer.KindRegister:
			if !isValidScale(left.Immediate.Raw) {
				return SIB{}, diag.Errorf(left.Line, "invalid SIB scale")
			}
			sib.Index, sib.HasIndex = right.Register, true
			sib.Scale = int(left.Immediate.Raw)
		default:
			return SIB{}, diag.Errorf(left.Line, "invalid SIB expression")
		}
	}

	// Phase B: addends.
	for i := 1; i < len(tokens)-1; i++ {
		tok := tokens[i]
		if tok.Kind != lexer.KindPunct || tok.Punct != lexer.PunctPlus {
			continue
		}
		left, right := tokens[i-1], tokens[i+1]

		if left.Kind == lexer.KindRegister && !processed[i-1] {
			if err := sib.assignRegister(diag, left); err != nil {
				return SIB{}, err
			}
		}
		if right.Kind == lexer.KindRegister && !processed[i+1] {
			if err := sib.assignRegister(diag, right); err != nil {
				return SIB{}, err
			}
		}
		if left.Kind == lexer.KindImmediate && !processed[i-1] {
			if err := sib.assignDisp(diag, left); err != nil {
				return SIB{}, err
			}
		}
		if right.Kind == lexer.KindImmediate && !processed[i+1] {
			if err := sib.assignDisp(diag, right); err != nil {
				return SIB{}, err
			}
		}

		processed[i-1], processed[i], processed[i+1] = true, true, true

		if (left.Kind != lexer.KindImmediate && left.Kind != lexer.KindRegister) ||
			(right.Kind != lexer.KindImmediate && right.Kind != lexer.KindRegister) {
			return SIB{}, diag.Errorf(left.Line, "invalid SIB expression")
		}
	}

	return sib, nil
}

func (sib *SIB) assignRegister(diag lexer.Diagnostics, tok lexer.Lexeme) error {
	switch {
	case !sib.HasBase:
		sib.Base, sib.HasBase = tok.Register, true
	case !sib.HasIndex:
		sib.Index, sib.HasIndex, sib.Scale = tok.Register, true, 1
	default:
		return diag.Errorf(tok.Line, "invalid SIB expression")
	}
	return nil
}

func (sib *SIB) assignDisp(diag lexer.Diagnostics, tok lexer.Lexeme) error {
	if tok.Immediate.Width > 32 {
		return diag.Errorf(tok.Line, "displacement larger than 32 bits")
	}
	sib.Disp, sib.HasDisp = uint32(tok.Immediate.Raw), true
	return nil
}
