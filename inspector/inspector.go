// Package inspector is a read-only terminal browser over one file's
// lex/parse result: the raw line/lexeme stream, the statement list,
// and the classified operand breakdown of whichever statement is
// selected. It never re-interprets or alters what the front-end
// produced.
package inspector

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nasmfront/x64asm/lexer"
	"github.com/nasmfront/x64asm/parser"
)

// Inspector is the three-panel terminal UI.
type Inspector struct {
	App   *tview.Application
	Pages *tview.Pages

	MainLayout    *tview.Flex
	LexemeView    *tview.TextView
	StatementList *tview.List
	DetailView    *tview.TextView

	SourceFile string
	Lines      []lexer.Line
	Statements []parser.Statement
}

// New builds an Inspector over the given file's already-lexed lines and
// parsed statements.
func New(sourceFile string, lines []lexer.Line, statements []parser.Statement) *Inspector {
	insp := &Inspector{
		App:        tview.NewApplication(),
		SourceFile: sourceFile,
		Lines:      lines,
		Statements: statements,
	}
	insp.initializeViews()
	insp.buildLayout()
	insp.setupKeyBindings()
	insp.populateStatementList()
	return insp
}

func (i *Inspector) initializeViews() {
	i.LexemeView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	i.LexemeView.SetBorder(true).SetTitle(" Lines / Lexemes ")
	i.LexemeView.SetText(renderLexemeStream(i.Lines))

	i.StatementList = tview.NewList().ShowSecondaryText(false)
	i.StatementList.SetBorder(true).SetTitle(" Statements ")

	i.DetailView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	i.DetailView.SetBorder(true).SetTitle(" Operand / SIB Detail ")
}

func (i *Inspector) buildLayout() {
	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(i.LexemeView, 0, 1, false)

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(i.StatementList, 0, 1, true).
		AddItem(i.DetailView, 0, 2, false)

	i.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(left, 0, 1, false).
		AddItem(right, 0, 1, true)

	i.Pages = tview.NewPages().AddPage("main", i.MainLayout, true, true)
}

func (i *Inspector) setupKeyBindings() {
	i.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			i.App.Stop()
			return nil
		}
		return event
	})
}

func (i *Inspector) populateStatementList() {
	for idx, stmt := range i.Statements {
		idx, stmt := idx, stmt
		i.StatementList.AddItem(statementSummary(stmt), "", 0, func() {
			i.DetailView.SetText(renderStatementDetail(stmt))
		})
		if idx == 0 {
			i.DetailView.SetText(renderStatementDetail(stmt))
		}
	}
}

// Run starts the terminal UI, blocking until the operator quits.
func (i *Inspector) Run() error {
	return i.App.SetRoot(i.Pages, true).SetFocus(i.StatementList).Run()
}

func renderLexemeStream(lines []lexer.Line) string {
	var b strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&b, "[yellow]%4d[white]: ", line.Number)
		var parts []string
		for _, lx := range line.Lexemes {
			parts = append(parts, lexemeText(lx))
		}
		fmt.Fprintln(&b, strings.Join(parts, " "))
	}
	return b.String()
}

func lexemeText(lx lexer.Lexeme) string {
	switch lx.Kind {
	case lexer.KindDirective:
		return lx.Directive.String()
	case lexer.KindInstruction:
		return lx.Mnemonic.String()
	case lexer.KindRegister:
		return lx.Register.Name
	case lexer.KindImmediate:
		return fmt.Sprintf("%d[%d]", lx.Immediate.Raw, lx.Immediate.Width)
	case lexer.KindSymbol:
		return lx.Text
	case lexer.KindString:
		return fmt.Sprintf("%q", lx.Text)
	case lexer.KindPunct:
		return string(lx.Punct)
	case lexer.KindEqu:
		return "equ"
	default:
		return "?"
	}
}

func statementSummary(stmt parser.Statement) string {
	switch stmt.Kind {
	case parser.StatementInstruction:
		return fmt.Sprintf("%4d: %s (%d operands)", stmt.Line, stmt.Mnemonic, len(stmt.Operands))
	case parser.StatementDirective:
		return fmt.Sprintf("%4d: %s", stmt.Line, stmt.Directive)
	case parser.StatementLabel:
		return fmt.Sprintf("%4d: %s:", stmt.Line, stmt.Name)
	case parser.StatementAssignment:
		return fmt.Sprintf("%4d: %s equ ...", stmt.Line, stmt.Name)
	default:
		return fmt.Sprintf("%4d: ?", stmt.Line)
	}
}

func renderStatementDetail(stmt parser.Statement) string {
	var b strings.Builder
	switch stmt.Kind {
	case parser.StatementInstruction:
		fmt.Fprintf(&b, "[yellow]%s[white] line %d\n", stmt.Mnemonic, stmt.Line)
		for idx, op := range stmt.Operands {
			fmt.Fprintf(&b, "  operand %d: %s\n", idx, operandText(op))
		}
	case parser.StatementDirective:
		fmt.Fprintf(&b, "[yellow]%s[white] line %d\n", stmt.Directive, stmt.Line)
		if stmt.DirIsString {
			fmt.Fprintf(&b, "  %q\n", stmt.DirString)
		} else {
			fmt.Fprintf(&b, "  %s\n", operandText(stmt.DirOperand))
		}
	case parser.StatementLabel:
		fmt.Fprintf(&b, "label %q at line %d\n", stmt.Name, stmt.Line)
	case parser.StatementAssignment:
		if stmt.Resolved {
			fmt.Fprintf(&b, "%s = %d (resolved)\n", stmt.Name, stmt.Value)
		} else {
			fmt.Fprintf(&b, "%s = <deferred, %d lexemes>\n", stmt.Name, len(stmt.AssignmentExpr))
		}
	}
	return b.String()
}

func operandText(op parser.Operand) string {
	switch op.Kind {
	case parser.OperandRegister:
		return op.Register.Name
	case parser.OperandImmediate:
		return fmt.Sprintf("immediate %d (width %d)", op.Immediate.Raw, op.Immediate.Width)
	case parser.OperandSymbol:
		return fmt.Sprintf("symbol %q", op.Symbol)
	case parser.OperandSIB:
		return sibText(op.SIB)
	case parser.OperandUnresolvedImmediate:
		return fmt.Sprintf("unresolved immediate (%d lexemes)", len(op.Unresolved))
	case parser.OperandUnresolvedSIB:
		return fmt.Sprintf("unresolved SIB (%d lexemes)", len(op.Unresolved))
	default:
		return "?"
	}
}

func sibText(sib parser.SIB) string {
	var parts []string
	if sib.HasBase {
		parts = append(parts, "base="+sib.Base.Name)
	}
	if sib.HasIndex {
		parts = append(parts, fmt.Sprintf("index=%s scale=%d", sib.Index.Name, sib.Scale))
	}
	if sib.HasDisp {
		parts = append(parts, fmt.Sprintf("disp=0x%x", sib.Disp))
	}
	if len(parts) == 0 {
		return "SIB{}"
	}
	return "SIB{" + strings.Join(parts, ", ") + "}"
}
