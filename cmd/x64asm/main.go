// Command x64asm runs the assembler front-end over one NASM-flavored
// source file. The default invocation is flag-free: `x64asm <file>`
// lexes and parses the file, exiting 0 on success or printing the
// first fatal error to stderr and exiting non-zero. -inspect and
// -serve are purely additive, read-only tooling around the same
// lex/parse result.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nasmfront/x64asm/diagserver"
	"github.com/nasmfront/x64asm/inspector"
	"github.com/nasmfront/x64asm/lexer"
	"github.com/nasmfront/x64asm/parser"
)

func main() {
	var (
		inspect = flag.Bool("inspect", false, "launch a read-only terminal browser over the lex/parse result")
		serve   = flag.Bool("serve", false, "start an HTTP+WebSocket server republishing the lex/parse result")
		addr    = flag.String("addr", "127.0.0.1:8787", "address for -serve to listen on")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: x64asm [-inspect | -serve [-addr host:port]] <file>")
		os.Exit(1)
	}
	file := args[0]

	switch {
	case *inspect:
		runInspect(file)
	case *serve:
		runServe(file, *addr)
	default:
		runAssemble(file)
	}
}

func runAssemble(file string) {
	if _, err := parser.ParseFile(file); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func runInspect(file string) {
	lines, stmts, err := lexAndParse(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := inspector.New(file, lines, stmts).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(file, addr string) {
	lines, stmts, err := lexAndParse(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	srv := diagserver.New(file, lines, stmts)
	fmt.Fprintf(os.Stderr, "x64asm: serving %s on %s\n", file, addr)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func lexAndParse(file string) ([]lexer.Line, []parser.Statement, error) {
	lines, err := lexer.Lex(file)
	if err != nil {
		return nil, nil, err
	}
	diag := lexer.NewDiagnostics(file)
	stmts, err := parser.Parse(diag, lines)
	if err != nil {
		return nil, nil, err
	}
	return lines, stmts, nil
}
