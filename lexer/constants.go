package lexer

import "strings"

// Directive identifies an assembler directive mnemonic.
type Directive int

const (
	DB Directive = iota
	DW
	DD
	DQ
	RESB
	RESW
	RESD
	RESQ
	GLOBAL
	EXTERN
	SECTION
)

var directiveNames = map[Directive]string{
	DB: "db", DW: "dw", DD: "dd", DQ: "dq",
	RESB: "resb", RESW: "resw", RESD: "resd", RESQ: "resq",
	GLOBAL: "global", EXTERN: "extern", SECTION: "section",
}

func (d Directive) String() string { return directiveNames[d] }

// DirectiveOperandKind distinguishes the two shapes of directive operand
// the parser must expect: a bare symbol, or an immediate/data expression.
type DirectiveOperandKind int

const (
	DirOperandImm DirectiveOperandKind = iota
	DirOperandSym
)

// OperandKind reports which operand shape a directive takes.
func (d Directive) OperandKind() DirectiveOperandKind {
	switch d {
	case GLOBAL, EXTERN, SECTION:
		return DirOperandSym
	default:
		return DirOperandImm
	}
}

var directiveByName = func() map[string]Directive {
	m := make(map[string]Directive, len(directiveNames))
	for d, name := range directiveNames {
		m[name] = d
	}
	return m
}()

// Mnemonic identifies one of the 31 supported instruction mnemonics.
type Mnemonic int

const (
	MOV Mnemonic = iota
	LEA
	PUSH
	POP
	ADD
	SUB
	INC
	DEC
	IMUL
	IDIV
	AND
	OR
	XOR
	NOT
	SHL
	SHR
	JMP
	JE
	JNE
	JG
	JGE
	JL
	JLE
	JA
	JAE
	JB
	JBE
	CMP
	CALL
	RET
	SYSCALL
)

var mnemonicNames = map[Mnemonic]string{
	MOV: "mov", LEA: "lea", PUSH: "push", POP: "pop",
	ADD: "add", SUB: "sub", INC: "inc", DEC: "dec", IMUL: "imul", IDIV: "idiv",
	AND: "and", OR: "or", XOR: "xor", NOT: "not", SHL: "shl", SHR: "shr",
	JMP: "jmp", JE: "je", JNE: "jne", JG: "jg", JGE: "jge", JL: "jl", JLE: "jle",
	JA: "ja", JAE: "jae", JB: "jb", JBE: "jbe",
	CMP: "cmp", CALL: "call", RET: "ret", SYSCALL: "syscall",
}

func (m Mnemonic) String() string { return mnemonicNames[m] }

// mnemonicArity is indexed by Mnemonic and gives the declared operand count
// from the §6 arity table.
var mnemonicArity = [...]int{
	MOV: 2, LEA: 2, PUSH: 1, POP: 1,
	ADD: 2, SUB: 2, INC: 1, DEC: 1, IMUL: 2, IDIV: 2,
	AND: 2, OR: 2, XOR: 2, NOT: 1, SHL: 2, SHR: 2,
	JMP: 1, JE: 1, JNE: 1, JG: 1, JGE: 1, JL: 1, JLE: 1,
	JA: 1, JAE: 1, JB: 1, JBE: 1,
	CMP: 2, CALL: 1, RET: 0, SYSCALL: 0,
}

// Arity returns the number of operands this mnemonic requires.
func (m Mnemonic) Arity() int { return mnemonicArity[m] }

var mnemonicByName = func() map[string]Mnemonic {
	m := make(map[string]Mnemonic, len(mnemonicNames))
	for mn, name := range mnemonicNames {
		m[name] = mn
	}
	return m
}()

// RegisterClass distinguishes the register families of §3.
type RegisterClass int

const (
	GPR8 RegisterClass = iota
	GPR16
	GPR32
	GPR64
	Control
	Segment
)

// Register is a classified register reference: a family plus an index
// within that family. Index values have no meaning across classes.
type Register struct {
	Class RegisterClass
	Index int
	Name  string
}

// gpr8Order mirrors the source assembler's register family layout:
// the high/low byte halves (AH, BH, CH, DH) precede the low bytes.
var gpr8Order = []string{
	"ah", "bh", "ch", "dh",
	"al", "bl", "cl", "dl",
	"spl", "bpl", "dil", "sil",
	"r8b", "r9b", "r10b", "r11b", "r12b", "r13b", "r14b", "r15b",
}

var gpr16Order = []string{
	"ax", "bx", "cx", "dx",
	"sp", "bp", "di", "si",
	"r8w", "r9w", "r10w", "r11w", "r12w", "r13w", "r14w", "r15w",
}

var gpr32Order = []string{
	"eax", "ebx", "ecx", "edx",
	"esp", "ebp", "edi", "esi",
	"r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d",
}

var gpr64Order = []string{
	"rax", "rbx", "rcx", "rdx",
	"rsp", "rbp", "rdi", "rsi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

var controlOrder = []string{"cr0", "cr2", "cr3", "cr4"}
var segmentOrder = []string{"ss", "cs", "ds", "es", "fs", "gs"}

var registerByName = func() map[string]Register {
	m := make(map[string]Register)
	add := func(class RegisterClass, names []string) {
		for i, name := range names {
			m[name] = Register{Class: class, Index: i, Name: name}
		}
	}
	add(GPR8, gpr8Order)
	add(GPR16, gpr16Order)
	add(GPR32, gpr32Order)
	add(GPR64, gpr64Order)
	add(Control, controlOrder)
	add(Segment, segmentOrder)
	return m
}()

// delimiters is the set of characters that split raw tokens and are
// themselves emitted as distinct tokens, per §4.1.
const delimiters = " ,*+-/[]:$"

func isDelimiter(ch byte) bool {
	return strings.IndexByte(delimiters, ch) >= 0
}

// Punct identifies one punctuation lexeme's character.
type Punct byte

const (
	PunctComma  Punct = ','
	PunctStar   Punct = '*'
	PunctPlus   Punct = '+'
	PunctMinus  Punct = '-'
	PunctSlash  Punct = '/'
	PunctLBrack Punct = '['
	PunctRBrack Punct = ']'
	PunctColon  Punct = ':'
	PunctDollar Punct = '$'
)

// IsArithmetic reports whether p is one of + - * /.
func (p Punct) IsArithmetic() bool {
	switch p {
	case PunctPlus, PunctMinus, PunctStar, PunctSlash:
		return true
	}
	return false
}
