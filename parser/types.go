// Package parser folds immediate expressions, validates and classifies
// SIB memory operands, and assembles the lexeme stream produced by
// lexer.Lex into a flat sequence of Statements.
package parser

import "github.com/nasmfront/x64asm/lexer"

// OperandKind discriminates an Operand's payload.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandSymbol
	OperandSIB
	OperandUnresolvedImmediate
	OperandUnresolvedSIB
)

// Operand is a single classified instruction/directive operand. Only
// the field matching Kind is meaningful.
type Operand struct {
	Kind       OperandKind
	Register   lexer.Register
	Immediate  lexer.Immediate
	Symbol     string
	SIB        SIB
	Unresolved []lexer.Lexeme // raw slice for UnresolvedImmediate/UnresolvedSIB
}

// SIB is an x86 Scaled-Index-Byte memory operand. Any subset of fields
// may be absent; HasBase/HasIndex/HasDisp report which, and Scale is
// meaningful only when HasIndex.
type SIB struct {
	Base     lexer.Register
	HasBase  bool
	Index    lexer.Register
	HasIndex bool
	Scale    int // one of {1,2,4,8} when HasIndex
	Disp     uint32
	HasDisp  bool
}

// StatementKind discriminates a Statement's payload.
type StatementKind int

const (
	StatementInstruction StatementKind = iota
	StatementDirective
	StatementLabel
	StatementAssignment
)

// Statement is one parsed line of source: an instruction, a directive,
// a label, or an EQU assignment.
type Statement struct {
	Kind StatementKind
	Line int

	// StatementInstruction
	Mnemonic lexer.Mnemonic
	Operands []Operand

	// StatementDirective
	Directive    lexer.Directive
	DirOperand   Operand
	DirIsString  bool
	DirString    string

	// StatementLabel / StatementAssignment
	Name string

	// StatementAssignment
	Resolved       bool
	Value          uint64
	AssignmentExpr []lexer.Lexeme // present iff !Resolved
}
