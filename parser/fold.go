package parser

import "github.com/nasmfront/x64asm/lexer"

// FoldImmediates collapses every purely-immediate sub-expression inside
// tokens[start:end+1] into a single synthesized Immediate, preserving
// register/symbol/$ terms and their relative order. Folding is
// idempotent: running it again on its own output is a no-op.
func FoldImmediates(tokens []lexer.Lexeme, start, end int) []lexer.Lexeme {
	tokens, end = foldMulDiv(tokens, start, end)
	tokens = foldAddSub(tokens, start, end)
	return tokens
}

// foldMulDiv is the multiplicative pass: every '*' or '/' whose two
// neighbors are both Immediates folds into one Immediate (unsigned
// 64-bit wraparound, width re-selected); a '*'/'/' with any other
// neighbor is left untouched, and foldAddSub does not fold its operands.
func foldMulDiv(tokens []lexer.Lexeme, start, end int) ([]lexer.Lexeme, int) {
	for i := start; i <= end; i++ {
		p := tokens[i]
		if p.Kind != lexer.KindPunct || (p.Punct != lexer.PunctStar && p.Punct != lexer.PunctSlash) {
			continue
		}
		left, right := tokens[i-1], tokens[i+1]
		if left.Kind != lexer.KindImmediate || right.Kind != lexer.KindImmediate {
			continue
		}
		var result uint64
		if p.Punct == lexer.PunctStar {
			result = left.Immediate.Raw * right.Immediate.Raw
		} else {
			result = left.Immediate.Raw / right.Immediate.Raw
		}
		folded := lexer.Lexeme{
			Kind: lexer.KindImmediate, Line: p.Line,
			Immediate: lexer.Immediate{Width: widthForUnsignedValue(result), Raw: result},
		}
		out := make([]lexer.Lexeme, 0, len(tokens)-2)
		out = append(out, tokens[:i-1]...)
		out = append(out, folded)
		out = append(out, tokens[i+2:]...)
		tokens = out
		end -= 2
		i -= 2 // re-scan from the folded Immediate's new index (i-1) next iteration
	}
	return tokens, end
}

// foldAddSub is the additive pass: it accumulates a running unsigned
// 64-bit wraparound total across every Immediate that is not an operand
// of a '*'/'/' left by foldMulDiv, then
// replaces the whole consumed run with one synthesized Immediate at
// start, inserting a '+' after it if what follows isn't already an
// arithmetic operator.
func foldAddSub(tokens []lexer.Lexeme, start, end int) []lexer.Lexeme {
	var total uint64
	consumed := make(map[int]bool)
	any := false

	for i := start; i <= end; i++ {
		if tokens[i].Kind != lexer.KindImmediate {
			continue
		}
		if i < end && tokens[i+1].Kind == lexer.KindPunct &&
			(tokens[i+1].Punct == lexer.PunctStar || tokens[i+1].Punct == lexer.PunctSlash) {
			continue // left operand of a product foldMulDiv could not fold
		}
		var isAdd, isSub bool
		if i == start {
			isAdd = true
		} else {
			prev := tokens[i-1]
			if prev.Kind == lexer.KindPunct {
				isAdd = prev.Punct == lexer.PunctPlus
				isSub = prev.Punct == lexer.PunctMinus
			}
		}
		if !isAdd && !isSub {
			continue // not an additive term (e.g. right operand of a remaining '*'); left in place for the validators
		}
		if isAdd {
			total += tokens[i].Immediate.Raw
		} else {
			total -= tokens[i].Immediate.Raw
		}
		if i != start {
			consumed[i-1] = true
		}
		consumed[i] = true
		any = true
	}

	if !any {
		return tokens
	}

	out := make([]lexer.Lexeme, 0, len(tokens))
	line := tokens[start].Line
	out = append(out, tokens[:start]...)
	out = append(out, lexer.Lexeme{
		Kind: lexer.KindImmediate, Line: line,
		Immediate: lexer.Immediate{Width: widthForUnsignedValue(total), Raw: total},
	})
	for i := start; i <= end; i++ {
		if !consumed[i] {
			out = append(out, tokens[i])
		}
	}
	out = append(out, tokens[end+1:]...)

	if len(out) > start+1 && out[start+1].Kind == lexer.KindPunct && out[start+1].Punct.IsArithmetic() {
		return out
	}
	if len(out) == start+1 {
		return out
	}
	withPlus := make([]lexer.Lexeme, 0, len(out)+1)
	withPlus = append(withPlus, out[:start+1]...)
	withPlus = append(withPlus, lexer.Lexeme{Kind: lexer.KindPunct, Line: line, Punct: lexer.PunctPlus})
	withPlus = append(withPlus, out[start+1:]...)
	return withPlus
}

func widthForUnsignedValue(v uint64) int {
	switch {
	case v <= 0xFF:
		return 8
	case v <= 0xFFFF:
		return 16
	case v <= 0xFFFFFFFF:
		return 32
	default:
		return 64
	}
}
