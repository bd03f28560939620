package parser

import (
	"testing"

	"github.com/nasmfront/x64asm/lexer"
)

func bracketed(interior ...lexer.Lexeme) []lexer.Lexeme {
	out := make([]lexer.Lexeme, 0, len(interior)+2)
	out = append(out, punct(lexer.PunctLBrack))
	out = append(out, interior...)
	out = append(out, punct(lexer.PunctRBrack))
	return out
}

func TestClassifySIBBaseIndexScaleDisp(t *testing.T) {
	// [rbx + rcx*4 + 0x10]
	toks := bracketed(
		reg(lexer.GPR64, "rbx"), punct(lexer.PunctPlus),
		reg(lexer.GPR64, "rcx"), punct(lexer.PunctStar), imm(8, 4),
		punct(lexer.PunctPlus), imm(8, 0x10),
	)
	diag := lexer.NewDiagnostics("t.asm")
	sib, err := ClassifySIB(diag, toks)
	if err != nil {
		t.Fatalf("ClassifySIB: %v", err)
	}
	if !sib.HasBase || sib.Base.Name != "rbx" {
		t.Errorf("base = %#v, want rbx", sib.Base)
	}
	if !sib.HasIndex || sib.Index.Name != "rcx" || sib.Scale != 4 {
		t.Errorf("index/scale = %#v/%d, want rcx/4", sib.Index, sib.Scale)
	}
	if !sib.HasDisp || sib.Disp != 0x10 {
		t.Errorf("disp = %#v, want 0x10", sib.Disp)
	}
}

func TestClassifySIBInvalidScaleIsFatal(t *testing.T) {
	// [rbx + rcx*3]
	toks := bracketed(
		reg(lexer.GPR64, "rbx"), punct(lexer.PunctPlus),
		reg(lexer.GPR64, "rcx"), punct(lexer.PunctStar), imm(8, 3),
	)
	diag := lexer.NewDiagnostics("t.asm")
	if _, err := ClassifySIB(diag, toks); err == nil {
		t.Fatal("expected invalid SIB scale error")
	}
}

func TestClassifySIBDisplacementOver32BitsIsFatal(t *testing.T) {
	toks := bracketed(reg(lexer.GPR64, "rbx"), punct(lexer.PunctPlus), imm(64, 1<<40))
	diag := lexer.NewDiagnostics("t.asm")
	if _, err := ClassifySIB(diag, toks); err == nil {
		t.Fatal("expected displacement-too-large error")
	}
}

func TestClassifySIBThirdRegisterIsFatal(t *testing.T) {
	toks := bracketed(
		reg(lexer.GPR64, "rax"), punct(lexer.PunctPlus),
		reg(lexer.GPR64, "rbx"), punct(lexer.PunctPlus),
		reg(lexer.GPR64, "rcx"),
	)
	diag := lexer.NewDiagnostics("t.asm")
	if _, err := ClassifySIB(diag, toks); err == nil {
		t.Fatal("expected error: a third register fills no SIB slot")
	}
}

func TestValidateUnresolvedSIBDetectsSymbol(t *testing.T) {
	sym := lexer.Lexeme{Kind: lexer.KindSymbol, Text: "base"}
	toks := bracketed(sym, punct(lexer.PunctPlus), reg(lexer.GPR64, "rcx"), punct(lexer.PunctStar), imm(8, 8))
	diag := lexer.NewDiagnostics("t.asm")
	resolved, err := ValidateUnresolvedSIB(diag, toks)
	if err != nil {
		t.Fatalf("ValidateUnresolvedSIB: %v", err)
	}
	if resolved {
		t.Error("expected resolved=false when a symbol is present")
	}
}

func TestValidateUnresolvedSIBEmptyInteriorIsUnresolved(t *testing.T) {
	toks := bracketed()
	diag := lexer.NewDiagnostics("t.asm")
	resolved, err := ValidateUnresolvedSIB(diag, toks)
	if err != nil {
		t.Fatalf("ValidateUnresolvedSIB: %v", err)
	}
	if resolved {
		t.Error("empty interior must not report resolved")
	}
}

func TestValidateUnresolvedImmediateRejectsEmpty(t *testing.T) {
	diag := lexer.NewDiagnostics("t.asm")
	if err := ValidateUnresolvedImmediate(diag, nil); err == nil {
		t.Fatal("expected error for empty operand")
	}
}

func TestValidateUnresolvedImmediateAcceptsSymbolPlusDollar(t *testing.T) {
	toks := []lexer.Lexeme{
		{Kind: lexer.KindSymbol, Text: "target"},
		punct(lexer.PunctPlus),
		punct(lexer.PunctDollar),
	}
	diag := lexer.NewDiagnostics("t.asm")
	if err := ValidateUnresolvedImmediate(diag, toks); err != nil {
		t.Errorf("ValidateUnresolvedImmediate: %v", err)
	}
}

func TestValidateUnresolvedImmediateRejectsDoubleOperator(t *testing.T) {
	toks := []lexer.Lexeme{
		{Kind: lexer.KindSymbol, Text: "target"},
		punct(lexer.PunctPlus),
		punct(lexer.PunctPlus),
	}
	diag := lexer.NewDiagnostics("t.asm")
	if err := ValidateUnresolvedImmediate(diag, toks); err == nil {
		t.Fatal("expected error for consecutive operators")
	}
}
