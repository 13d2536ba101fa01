// Package errors is the diagnostic sink shared by every stage of the plox
// pipeline: the scanner, the parser, the resolver, and the evaluator all
// report through a *Diagnostics rather than returning Go errors directly,
// so a single source file can surface more than one problem per run.
package errors

import (
	"fmt"
	"io"

	multierror "github.com/hashicorp/go-multierror"
)

// CompilerError is a single scan-time, parse-time, or resolve-time
// diagnostic. Where is empty for scanner errors, " at end" for a token at
// EOF, and " at '<lexeme>'" otherwise.
type CompilerError struct {
	Line    int
	Where   string
	Message string
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// RuntimeError is raised by the evaluator. It records the line of the
// offending token (not the token itself) so the CLI can report that line
// without the evaluator needing to know anything about output formatting.
type RuntimeError struct {
	Line    int
	Message string
}

func NewRuntimeError(line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Line)
}

// Diagnostics accumulates compile-time errors across a single run and
// tracks two sticky flags: HadError gates evaluation, and HadRuntimeError
// only ever gets set by the evaluator and is never reset by the REPL loop.
type Diagnostics struct {
	errors           *multierror.Error
	HadError         bool
	HadRuntimeError  bool
	LastRuntimeError *RuntimeError
}

func New() *Diagnostics {
	return &Diagnostics{}
}

// Error reports a scanner-level diagnostic: no offending token, just a line.
func (d *Diagnostics) Error(line int, message string) {
	d.report(&CompilerError{Line: line, Message: message})
}

// ErrorAt reports a parser/resolver diagnostic anchored to a token. atEnd
// selects the " at end" wording used when the offending token is EOF.
func (d *Diagnostics) ErrorAt(line int, lexeme string, atEnd bool, message string) {
	where := fmt.Sprintf(" at '%s'", lexeme)
	if atEnd {
		where = " at end"
	}
	d.report(&CompilerError{Line: line, Where: where, Message: message})
}

func (d *Diagnostics) report(err *CompilerError) {
	d.HadError = true
	d.errors = multierror.Append(d.errors, err)
}

// RuntimeError records a runtime failure. It does not panic or unwind;
// the evaluator is responsible for aborting the current statement.
func (d *Diagnostics) RuntimeError(err *RuntimeError) {
	d.HadRuntimeError = true
	d.LastRuntimeError = err
}

// PrintRuntimeError writes the most recently recorded runtime error to w,
// in the same "<message>\n[line N]" shape RuntimeError.Error() produces.
// A no-op if no runtime error has been recorded.
func (d *Diagnostics) PrintRuntimeError(w io.Writer) {
	if d.LastRuntimeError == nil {
		return
	}
	fmt.Fprintln(w, d.LastRuntimeError.Error())
}

// Errors returns every compile-time diagnostic reported so far, in report
// order.
func (d *Diagnostics) Errors() []*CompilerError {
	if d.errors == nil {
		return nil
	}
	out := make([]*CompilerError, 0, len(d.errors.Errors))
	for _, e := range d.errors.Errors {
		if ce, ok := e.(*CompilerError); ok {
			out = append(out, ce)
		}
	}
	return out
}

// Print writes every accumulated compile-time diagnostic to w, one per
// line.
func (d *Diagnostics) Print(w io.Writer) {
	for _, e := range d.Errors() {
		fmt.Fprintln(w, e.Error())
	}
}

// Reset clears HadError and the accumulated diagnostics between REPL
// prompts. HadRuntimeError is deliberately untouched: the REPL process
// keeps running after a runtime error, but the flag that would make a
// script exit with the right code must survive.
func (d *Diagnostics) Reset() {
	d.HadError = false
	d.errors = nil
}
