package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nasmfront/x64asm/lexer"
)

func parseSource(t *testing.T, src string) []Statement {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.asm")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp source: %v", err)
	}
	stmts, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile(%q) returned unexpected error: %v", src, err)
	}
	return stmts
}

func parseSourceErr(t *testing.T, src string) error {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.asm")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp source: %v", err)
	}
	_, err := ParseFile(path)
	return err
}

func TestSeedMovRegImmediate(t *testing.T) {
	stmts := parseSource(t, "mov rax, 5\n")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	s := stmts[0]
	if s.Kind != StatementInstruction || s.Mnemonic != lexer.MOV {
		t.Fatalf("statement = %#v, want MOV instruction", s)
	}
	if len(s.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(s.Operands))
	}
	if s.Operands[0].Kind != OperandRegister || s.Operands[0].Register.Name != "rax" {
		t.Errorf("operand 0 = %#v, want Register(rax)", s.Operands[0])
	}
	if s.Operands[1].Kind != OperandImmediate || s.Operands[1].Immediate != (lexer.Immediate{Width: 8, Raw: 5}) {
		t.Errorf("operand 1 = %#v, want Immediate(8, 5)", s.Operands[1])
	}
}

func TestSeedMovResolvedSIB(t *testing.T) {
	stmts := parseSource(t, "mov eax, [rbx + rcx*4 + 0x10]\n")
	s := stmts[0]
	if s.Operands[1].Kind != OperandSIB {
		t.Fatalf("operand 1 = %#v, want resolved SIB", s.Operands[1])
	}
	sib := s.Operands[1].SIB
	if sib.Base.Name != "rbx" || sib.Index.Name != "rcx" || sib.Scale != 4 || sib.Disp != 0x10 {
		t.Errorf("sib = %#v, want base=rbx index=rcx scale=4 disp=0x10", sib)
	}
}

func TestSeedEquArithmetic(t *testing.T) {
	stmts := parseSource(t, "value equ 1 + 2 * 3\n")
	s := stmts[0]
	if s.Kind != StatementAssignment || s.Name != "value" || !s.Resolved || s.Value != 7 {
		t.Fatalf("statement = %#v, want resolved Assignment(value, 7)", s)
	}
}

func TestSeedLabelThenStringDirective(t *testing.T) {
	stmts := parseSource(t, "msg:\ndb \"Hi\"\n")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %#v", len(stmts), stmts)
	}
	if stmts[0].Kind != StatementLabel || stmts[0].Name != "msg" {
		t.Errorf("statement 0 = %#v, want Label(msg)", stmts[0])
	}
	if stmts[1].Kind != StatementDirective || stmts[1].Directive != lexer.DB || !stmts[1].DirIsString || stmts[1].DirString != "Hi" {
		t.Errorf("statement 1 = %#v, want Directive{DB, \"Hi\"}", stmts[1])
	}
}

func TestSeedUnresolvedImmediateJumpTarget(t *testing.T) {
	stmts := parseSource(t, "jmp target\n")
	s := stmts[0]
	if s.Mnemonic != lexer.JMP || len(s.Operands) != 1 {
		t.Fatalf("statement = %#v, want 1-operand JMP", s)
	}
	op := s.Operands[0]
	if op.Kind != OperandUnresolvedImmediate || len(op.Unresolved) != 1 || op.Unresolved[0].Text != "target" {
		t.Errorf("operand = %#v, want UnresolvedImmediate([Symbol(target)])", op)
	}
}

func TestSeedUnresolvedSIBWithSymbolBase(t *testing.T) {
	stmts := parseSource(t, "mov rax, [base + idx*8]\n")
	s := stmts[0]
	op := s.Operands[1]
	if op.Kind != OperandUnresolvedSIB {
		t.Fatalf("operand 1 = %#v, want UnresolvedSIB", op)
	}
}

func TestSeedInvalidSIBScaleIsFatal(t *testing.T) {
	err := parseSourceErr(t, "mov rax, [rbx + rcx*3]\n")
	if err == nil {
		t.Fatal("expected fatal error: invalid SIB scale")
	}
}

func TestSeedUnclosedStringIsFatal(t *testing.T) {
	err := parseSourceErr(t, `db "ab`+"\n")
	if err == nil {
		t.Fatal("expected fatal error: unclosed string literal")
	}
}

func TestInstructionWrongArityIsFatal(t *testing.T) {
	err := parseSourceErr(t, "mov rax\n")
	if err == nil {
		t.Fatal("expected fatal error: wrong operand count")
	}
}

func TestEmptyCommaOperandIsFatal(t *testing.T) {
	err := parseSourceErr(t, "mov rax, , 1\n")
	if err == nil {
		t.Fatal("expected fatal error: invalid use of commas")
	}
}

func TestEquStringLiteralPacksLittleEndian(t *testing.T) {
	stmts := parseSource(t, "word equ \"AB\"\n")
	s := stmts[0]
	if !s.Resolved || s.Value != uint64('A')|uint64('B')<<8 {
		t.Errorf("statement = %#v, want little-endian packed \"AB\"", s)
	}
}

func TestEquOversizedStringIsFatal(t *testing.T) {
	err := parseSourceErr(t, "big equ \"123456789\"\n")
	if err == nil {
		t.Fatal("expected fatal error: string literal too large")
	}
}

func TestEquDeferredExpression(t *testing.T) {
	stmts := parseSource(t, "addr equ target + 4\n")
	s := stmts[0]
	if s.Resolved {
		t.Fatalf("statement = %#v, want deferred (unresolved) assignment", s)
	}
	if len(s.AssignmentExpr) == 0 {
		t.Error("expected a non-empty deferred expression")
	}
}

func TestGlobalDirectiveTakesSymbol(t *testing.T) {
	stmts := parseSource(t, "global _start\n")
	s := stmts[0]
	if s.Kind != StatementDirective || s.Directive != lexer.GLOBAL || s.DirOperand.Symbol != "_start" {
		t.Fatalf("statement = %#v, want Directive{GLOBAL, _start}", s)
	}
}

func TestResbTakesResolvedImmediate(t *testing.T) {
	stmts := parseSource(t, "resb 16\n")
	s := stmts[0]
	if s.DirOperand.Kind != OperandImmediate || s.DirOperand.Immediate.Raw != 16 {
		t.Fatalf("statement = %#v, want resolved Immediate(16) operand", s)
	}
}

func TestRetAndSyscallTakeNoOperands(t *testing.T) {
	stmts := parseSource(t, "ret\nsyscall\n")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	for i, m := range []lexer.Mnemonic{lexer.RET, lexer.SYSCALL} {
		if stmts[i].Mnemonic != m || len(stmts[i].Operands) != 0 {
			t.Errorf("statement %d = %#v, want zero-operand %v", i, stmts[i], m)
		}
	}
}
