package parser

import "github.com/nasmfront/x64asm/lexer"

// Parse consumes the lexed lines of one source file and produces the
// flat Statement stream: instructions, directives, labels, and EQU
// assignments. The first fatal error aborts the whole pass (§7).
func Parse(diag lexer.Diagnostics, lines []lexer.Line) ([]Statement, error) {
	var stmts []Statement
	for _, line := range lines {
		stmt, err := parseLine(diag, line)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func parseLine(diag lexer.Diagnostics, line lexer.Line) (Statement, error) {
	lx := line.Lexemes
	switch lx[0].Kind {
	case lexer.KindInstruction:
		return parseInstruction(diag, line.Number, lx)
	case lexer.KindSymbol:
		return parseSymbolLine(diag, line.Number, lx)
	case lexer.KindDirective:
		return parseDirectiveLine(diag, line.Number, lx)
	default:
		return Statement{}, diag.Errorf(line.Number, "line must start with instruction, directive or label")
	}
}

func parseInstruction(diag lexer.Diagnostics, lineNum int, lx []lexer.Lexeme) (Statement, error) {
	mnemonic := lx[0].Mnemonic
	operandSlices, err := splitOperands(diag, lineNum, lx[1:])
	if err != nil {
		return Statement{}, err
	}
	if len(operandSlices) != mnemonic.Arity() {
		return Statement{}, diag.Errorf(lineNum, "invalid number of operands")
	}

	operands := make([]Operand, len(operandSlices))
	for i, ops := range operandSlices {
		op, err := parseOperand(diag, ops)
		if err != nil {
			return Statement{}, err
		}
		operands[i] = op
	}

	return Statement{Kind: StatementInstruction, Line: lineNum, Mnemonic: mnemonic, Operands: operands}, nil
}

// splitOperands splits an instruction's tail on every comma; brackets
// are not tracked. An empty operand between/around commas is fatal.
func splitOperands(diag lexer.Diagnostics, lineNum int, tail []lexer.Lexeme) ([][]lexer.Lexeme, error) {
	if len(tail) == 0 {
		return nil, nil
	}
	var slices [][]lexer.Lexeme
	cur := []lexer.Lexeme{}
	for _, tok := range tail {
		if tok.Kind == lexer.KindPunct && tok.Punct == lexer.PunctComma {
			if len(cur) == 0 {
				return nil, diag.Errorf(tok.Line, "invalid use of commas")
			}
			slices = append(slices, cur)
			cur = []lexer.Lexeme{}
			continue
		}
		cur = append(cur, tok)
	}
	if len(cur) == 0 {
		return nil, diag.Errorf(tail[len(tail)-1].Line, "invalid use of commas")
	}
	slices = append(slices, cur)
	return slices, nil
}

func isBracketed(ops []lexer.Lexeme) bool {
	return len(ops) >= 2 && ops[0].Kind == lexer.KindPunct && ops[0].Punct == lexer.PunctLBrack &&
		ops[len(ops)-1].Kind == lexer.KindPunct && ops[len(ops)-1].Punct == lexer.PunctRBrack
}

// parseOperand classifies one already-comma-split operand slice per §4.5.
func parseOperand(diag lexer.Diagnostics, ops []lexer.Lexeme) (Operand, error) {
	bracketed := isBracketed(ops)
	if bracketed {
		ops = FoldImmediates(ops, 1, len(ops)-2)
	} else {
		ops = FoldImmediates(ops, 0, len(ops)-1)
	}

	if len(ops) == 1 {
		switch ops[0].Kind {
		case lexer.KindRegister:
			return Operand{Kind: OperandRegister, Register: ops[0].Register}, nil
		case lexer.KindImmediate:
			return Operand{Kind: OperandImmediate, Immediate: ops[0].Immediate}, nil
		case lexer.KindSymbol:
			return Operand{Kind: OperandSymbol, Symbol: ops[0].Text}, nil
		default:
			return Operand{}, diag.Errorf(ops[0].Line, "invalid operand")
		}
	}

	if bracketed {
		resolved, err := ValidateUnresolvedSIB(diag, ops)
		if err != nil {
			return Operand{}, err
		}
		if resolved {
			sib, err := ClassifySIB(diag, ops)
			if err != nil {
				return Operand{}, err
			}
			return Operand{Kind: OperandSIB, SIB: sib}, nil
		}
		return Operand{Kind: OperandUnresolvedSIB, Unresolved: ops}, nil
	}

	if err := ValidateUnresolvedImmediate(diag, ops); err != nil {
		return Operand{}, err
	}
	return Operand{Kind: OperandUnresolvedImmediate, Unresolved: ops}, nil
}

func parseSymbolLine(diag lexer.Diagnostics, lineNum int, lx []lexer.Lexeme) (Statement, error) {
	name := lx[0].Text
	if len(lx) < 2 {
		return Statement{}, diag.Errorf(lineNum, "label must be followed by colon")
	}
	if len(lx) == 2 && lx[1].Kind == lexer.KindPunct && lx[1].Punct == lexer.PunctColon {
		return Statement{Kind: StatementLabel, Line: lineNum, Name: name}, nil
	}
	if lx[1].Kind == lexer.KindEqu {
		return parseAssignment(diag, lineNum, name, lx)
	}
	return Statement{}, diag.Errorf(lineNum, "invalid use of symbols")
}

func parseAssignment(diag lexer.Diagnostics, lineNum int, name string, lx []lexer.Lexeme) (Statement, error) {
	if len(lx) < 3 {
		return Statement{}, diag.Errorf(lineNum, "not enough operands for EQU")
	}
	expr := FoldImmediates(lx, 2, len(lx)-1)

	if len(expr) == 3 {
		switch expr[2].Kind {
		case lexer.KindImmediate:
			return Statement{Kind: StatementAssignment, Line: lineNum, Name: name, Resolved: true, Value: expr[2].Immediate.Raw}, nil
		case lexer.KindString:
			lit := expr[2].Text
			if len(lit) > 8 {
				return Statement{}, diag.Errorf(lineNum, "string literal too large to fit in quadword")
			}
			var val uint64
			for i := 0; i < len(lit); i++ {
				val |= uint64(lit[i]) << (uint(i) * 8)
			}
			return Statement{Kind: StatementAssignment, Line: lineNum, Name: name, Resolved: true, Value: val}, nil
		default:
			return Statement{}, diag.Errorf(lineNum, "cannot assign operand")
		}
	}

	if err := ValidateUnresolvedImmediate(diag, expr[2:]); err != nil {
		return Statement{}, err
	}
	return Statement{Kind: StatementAssignment, Line: lineNum, Name: name, Resolved: false, AssignmentExpr: expr[2:]}, nil
}

func parseDirectiveLine(diag lexer.Diagnostics, lineNum int, lx []lexer.Lexeme) (Statement, error) {
	if len(lx) == 1 {
		return Statement{}, diag.Errorf(lineNum, "not enough operands for directive")
	}
	dir := lx[0].Directive

	if dir.OperandKind() == lexer.DirOperandSym {
		if len(lx) != 2 || lx[1].Kind != lexer.KindSymbol {
			return Statement{}, diag.Errorf(lineNum, "invalid directive operand")
		}
		return Statement{
			Kind: StatementDirective, Line: lineNum, Directive: dir,
			DirOperand: Operand{Kind: OperandSymbol, Symbol: lx[1].Text},
		}, nil
	}

	tail := FoldImmediates(lx, 1, len(lx)-1)
	if len(tail) == 2 {
		if dir == lexer.DB && tail[1].Kind == lexer.KindString {
			return Statement{Kind: StatementDirective, Line: lineNum, Directive: dir, DirIsString: true, DirString: tail[1].Text}, nil
		}
		if tail[1].Kind != lexer.KindImmediate {
			return Statement{}, diag.Errorf(lineNum, "invalid directive operand")
		}
		return Statement{
			Kind: StatementDirective, Line: lineNum, Directive: dir,
			DirOperand: Operand{Kind: OperandImmediate, Immediate: tail[1].Immediate},
		}, nil
	}

	if err := ValidateUnresolvedImmediate(diag, tail[1:]); err != nil {
		return Statement{}, err
	}
	return Statement{
		Kind: StatementDirective, Line: lineNum, Directive: dir,
		DirOperand: Operand{Kind: OperandUnresolvedImmediate, Unresolved: tail[1:]},
	}, nil
}
