package diagserver

import "github.com/nasmfront/x64asm/parser"

// EventType discriminates a StatementEvent's reason for existing.
type EventType string

const (
	// EventStatement is emitted once per parsed statement, in source order.
	EventStatement EventType = "statement"
	// EventDone marks the end of the stream: every statement has shipped.
	EventDone EventType = "done"
)

// StatementEvent is one JSON message pushed down the /ws stream.
type StatementEvent struct {
	Type      EventType        `json:"type"`
	Line      int              `json:"line,omitempty"`
	Statement *StatementView   `json:"statement,omitempty"`
}

// StatementView is the wire-format projection of a parser.Statement.
type StatementView struct {
	Kind     string          `json:"kind"`
	Line     int             `json:"line"`
	Mnemonic string          `json:"mnemonic,omitempty"`
	Operands []OperandView   `json:"operands,omitempty"`
	Directive string         `json:"directive,omitempty"`
	DirOperand *OperandView  `json:"dirOperand,omitempty"`
	DirString string         `json:"dirString,omitempty"`
	Name     string          `json:"name,omitempty"`
	Resolved bool            `json:"resolved,omitempty"`
	Value    uint64          `json:"value,omitempty"`
}

// OperandView is the wire-format projection of a parser.Operand.
type OperandView struct {
	Kind      string  `json:"kind"`
	Register  string  `json:"register,omitempty"`
	Immediate uint64  `json:"immediate,omitempty"`
	Width     int     `json:"width,omitempty"`
	Symbol    string  `json:"symbol,omitempty"`
	SIB       *SIBView `json:"sib,omitempty"`
}

// SIBView is the wire-format projection of a parser.SIB.
type SIBView struct {
	Base  string `json:"base,omitempty"`
	Index string `json:"index,omitempty"`
	Scale int    `json:"scale,omitempty"`
	Disp  uint32 `json:"disp,omitempty"`
}

func newStatementView(stmt parser.Statement) *StatementView {
	v := &StatementView{Line: stmt.Line}
	switch stmt.Kind {
	case parser.StatementInstruction:
		v.Kind = "instruction"
		v.Mnemonic = stmt.Mnemonic.String()
		for _, op := range stmt.Operands {
			v.Operands = append(v.Operands, newOperandView(op))
		}
	case parser.StatementDirective:
		v.Kind = "directive"
		v.Directive = stmt.Directive.String()
		if stmt.DirIsString {
			v.DirString = stmt.DirString
		} else {
			ov := newOperandView(stmt.DirOperand)
			v.DirOperand = &ov
		}
	case parser.StatementLabel:
		v.Kind = "label"
		v.Name = stmt.Name
	case parser.StatementAssignment:
		v.Kind = "assignment"
		v.Name = stmt.Name
		v.Resolved = stmt.Resolved
		v.Value = stmt.Value
	}
	return v
}

func newOperandView(op parser.Operand) OperandView {
	switch op.Kind {
	case parser.OperandRegister:
		return OperandView{Kind: "register", Register: op.Register.Name}
	case parser.OperandImmediate:
		return OperandView{Kind: "immediate", Immediate: op.Immediate.Raw, Width: op.Immediate.Width}
	case parser.OperandSymbol:
		return OperandView{Kind: "symbol", Symbol: op.Symbol}
	case parser.OperandSIB:
		sib := op.SIB
		sv := &SIBView{Scale: sib.Scale, Disp: sib.Disp}
		if sib.HasBase {
			sv.Base = sib.Base.Name
		}
		if sib.HasIndex {
			sv.Index = sib.Index.Name
		}
		return OperandView{Kind: "sib", SIB: sv}
	case parser.OperandUnresolvedImmediate:
		return OperandView{Kind: "unresolved_immediate"}
	case parser.OperandUnresolvedSIB:
		return OperandView{Kind: "unresolved_sib"}
	default:
		return OperandView{Kind: "unknown"}
	}
}
