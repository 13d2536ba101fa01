package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/cwbudde/plox/internal/errors"
	"github.com/cwbudde/plox/internal/interp"
	"github.com/cwbudde/plox/internal/lexer"
	"github.com/cwbudde/plox/internal/parser"
	"github.com/cwbudde/plox/internal/resolver"
)

// runFile executes a single script, exiting 65 on a compile-time error
// and 70 on a runtime error, matching the sysexits.h convention jlox uses.
func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read file %s: %v\n", path, err)
		os.Exit(66)
	}

	diags := errors.New()
	ev := interp.New(diags, nil, os.Stdout)
	run(string(source), diags, ev)

	if diags.HadError {
		os.Exit(65)
	}
	if diags.HadRuntimeError {
		os.Exit(70)
	}
}

// runRepl starts an interactive prompt. A single Evaluator persists across
// lines so that declarations on one line are visible on the next; the
// diagnostic sink's HadError is reset between prompts but HadRuntimeError
// is not. The loop keeps reading after a runtime error, ignores an
// interrupt, and returns at end of input or on a read error without
// setting a non-zero exit status from either flag.
func runRepl() {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not start REPL: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	diags := errors.New()
	ev := interp.New(diags, nil, os.Stdout)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}

		diags.Reset()
		run(line, diags, ev)
	}
}

// run drives one pass of source through scan, parse, resolve, evaluate.
// It never exits the process — callers decide how to react to diags.
func run(source string, diags *errors.Diagnostics, ev *interp.Evaluator) {
	log.Debug("scanning source")
	tokens := lexer.New(source, diags).ScanTokens()
	log.Debugf("scan produced %d tokens", len(tokens))

	log.Debug("parsing tokens")
	statements := parser.New(tokens, diags).Parse()
	if diags.HadError {
		diags.Print(os.Stderr)
		return
	}
	log.Debugf("parse produced %d statements", len(statements))

	log.Debug("resolving variable scopes")
	r := resolver.New(diags)
	r.Resolve(statements)
	if diags.HadError {
		diags.Print(os.Stderr)
		return
	}
	log.Debugf("resolver bound %d local references", len(r.Locals))

	log.Debug("evaluating statements")
	ev.MergeLocals(r.Locals)
	ev.Interpret(statements)
	if diags.HadRuntimeError {
		diags.PrintRuntimeError(os.Stderr)
	}
}
