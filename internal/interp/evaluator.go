// Package interp walks a resolved AST and executes it. It is the final
// stage of the plox pipeline: scanner, parser, resolver, then this
// tree-walking evaluator.
package interp

import (
	"fmt"
	"io"

	"github.com/cwbudde/plox/internal/ast"
	"github.com/cwbudde/plox/internal/errors"
	"github.com/cwbudde/plox/internal/lexer"
	"github.com/cwbudde/plox/internal/resolver"
)

// Evaluator holds the mutable state of a running Lox program: the global
// frame, the environment currently in scope, the resolver's locals table,
// and the diagnostic sink every stage shares.
type Evaluator struct {
	Globals *Environment
	env     *Environment
	locals  map[ast.Expr]int
	diags   *errors.Diagnostics
	out     io.Writer
}

// New creates an evaluator whose `print` statements write to out and whose
// variable lookups consult locals, the depth table produced by
// internal/resolver.
func New(diags *errors.Diagnostics, locals map[ast.Expr]int, out io.Writer) *Evaluator {
	globals := NewEnvironment()
	globals.Define("clock", clockFn{})
	ev := &Evaluator{Globals: globals, env: globals, locals: make(map[ast.Expr]int), diags: diags, out: out}
	ev.MergeLocals(locals)
	return ev
}

// NewWithResolver is a convenience constructor taking a *resolver.Resolver
// directly, for callers that don't need to touch the locals map themselves.
func NewWithResolver(diags *errors.Diagnostics, r *resolver.Resolver, out io.Writer) *Evaluator {
	return New(diags, r.Locals, out)
}

// MergeLocals adds entries from a freshly resolved depth table into the
// evaluator's own, without discarding entries from earlier resolve passes.
// The REPL resolves each line independently and calls this once per line
// while reusing one Evaluator; a plain assignment would drop every prior
// line's bindings and break closures that span lines (a function declared
// on one line, invoked on a later one, would lose its captured locals).
func (ev *Evaluator) MergeLocals(locals map[ast.Expr]int) {
	for expr, depth := range locals {
		ev.locals[expr] = depth
	}
}

// Interpret runs a whole program, stopping at (and reporting) the first
// runtime error — later top-level statements are not executed.
func (ev *Evaluator) Interpret(statements []ast.Stmt) {
	for _, stmt := range statements {
		if err := ev.execute(stmt); err != nil {
			ev.diags.RuntimeError(toRuntimeError(err))
			return
		}
	}
}

func toRuntimeError(err error) *errors.RuntimeError {
	if re, ok := err.(*errors.RuntimeError); ok {
		return re
	}
	return errors.NewRuntimeError(0, "%s", err.Error())
}

func (ev *Evaluator) execute(s ast.Stmt) error {
	switch stmt := s.(type) {
	case nil:
		return nil
	case *ast.ExpressionStmt:
		_, err := ev.evaluate(stmt.Expr)
		return err
	case *ast.PrintStmt:
		v, err := ev.evaluate(stmt.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(ev.out, stringify(v))
		return nil
	case *ast.VarStmt:
		var value Value
		if stmt.Initializer != nil {
			v, err := ev.evaluate(stmt.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		ev.env.Define(stmt.Name.Lexeme, value)
		return nil
	case *ast.BlockStmt:
		return ev.executeBlock(stmt.Statements, NewEnclosedEnvironment(ev.env))
	case *ast.IfStmt:
		cond, err := ev.evaluate(stmt.Condition)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return ev.execute(stmt.Then)
		}
		if stmt.Else != nil {
			return ev.execute(stmt.Else)
		}
		return nil
	case *ast.WhileStmt:
		for {
			cond, err := ev.evaluate(stmt.Condition)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := ev.execute(stmt.Body); err != nil {
				return err
			}
		}
	case *ast.FunctionStmt:
		fn := &Function{declaration: stmt, closure: ev.env}
		ev.env.Define(stmt.Name.Lexeme, fn)
		return nil
	case *ast.ReturnStmt:
		var value Value
		if stmt.Value != nil {
			v, err := ev.evaluate(stmt.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{Value: value}
	case *ast.ClassStmt:
		ev.env.Define(stmt.Name.Lexeme, nil)
		methods := make(map[string]*Function, len(stmt.Methods))
		for _, m := range stmt.Methods {
			methods[m.Name.Lexeme] = &Function{
				declaration:   m,
				closure:       ev.env,
				isInitializer: m.Name.Lexeme == "init",
			}
		}
		class := &Class{Name: stmt.Name.Lexeme, Methods: methods}
		return ev.env.Assign(stmt.Name, class)
	default:
		panic("interp: unhandled statement type")
	}
}

// executeBlock runs statements in env, restoring the evaluator's previous
// environment on every exit path including an error or return unwind.
func (ev *Evaluator) executeBlock(statements []ast.Stmt, env *Environment) error {
	previous := ev.env
	ev.env = env
	defer func() { ev.env = previous }()

	for _, stmt := range statements {
		if err := ev.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) evaluate(e ast.Expr) (Value, error) {
	switch expr := e.(type) {
	case *ast.Literal:
		return expr.Value, nil
	case *ast.Grouping:
		return ev.evaluate(expr.Inner)
	case *ast.Unary:
		right, err := ev.evaluate(expr.Right)
		if err != nil {
			return nil, err
		}
		switch expr.Op.Type {
		case lexer.MINUS:
			n, err := checkNumberOperand(expr.Op, right)
			if err != nil {
				return nil, err
			}
			return -n, nil
		case lexer.BANG:
			return !isTruthy(right), nil
		}
		panic("interp: unhandled unary operator")
	case *ast.Binary:
		return ev.evalBinary(expr)
	case *ast.Logical:
		left, err := ev.evaluate(expr.Left)
		if err != nil {
			return nil, err
		}
		if expr.Op.Type == lexer.OR {
			if isTruthy(left) {
				return left, nil
			}
		} else { // AND
			if !isTruthy(left) {
				return left, nil
			}
		}
		return ev.evaluate(expr.Right)
	case *ast.Variable:
		return ev.lookupVariable(expr.Name, expr)
	case *ast.Assign:
		value, err := ev.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := ev.locals[expr]; ok {
			ev.env.AssignAt(depth, expr.Name, value)
		} else if err := ev.Globals.Assign(expr.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.Call:
		return ev.evalCall(expr)
	case *ast.Get:
		obj, err := ev.evaluate(expr.Obj)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, newRuntimeErrorAt(expr.Name, "Only instances have properties.")
		}
		return instance.Get(expr.Name)
	case *ast.Set:
		obj, err := ev.evaluate(expr.Obj)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, newRuntimeErrorAt(expr.Name, "Only instances have fields.")
		}
		value, err := ev.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(expr.Name, value)
		return value, nil
	case *ast.This:
		return ev.lookupVariable(expr.Keyword, expr)
	default:
		panic("interp: unhandled expression type")
	}
}

func (ev *Evaluator) lookupVariable(name lexer.Token, expr ast.Expr) (Value, error) {
	if depth, ok := ev.locals[expr]; ok {
		return ev.env.GetAt(depth, name.Lexeme), nil
	}
	return ev.Globals.Get(name)
}

func (ev *Evaluator) evalCall(expr *ast.Call) (Value, error) {
	callee, err := ev.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := ev.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeErrorAt(expr.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeErrorAt(expr.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(ev, args)
}

func (ev *Evaluator) evalBinary(expr *ast.Binary) (Value, error) {
	left, err := ev.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Type {
	case lexer.MINUS:
		l, r, err := checkNumberOperands(expr.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case lexer.SLASH:
		l, r, err := checkNumberOperands(expr.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l / r, nil
	case lexer.STAR:
		l, r, err := checkNumberOperands(expr.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case lexer.PLUS:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, newRuntimeErrorAt(expr.Op, "Operands must be two numbers or two strings.")
	case lexer.GREATER:
		l, r, err := checkNumberOperands(expr.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l > r, nil
	case lexer.GREATER_EQUAL:
		l, r, err := checkNumberOperands(expr.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l >= r, nil
	case lexer.LESS:
		l, r, err := checkNumberOperands(expr.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l < r, nil
	case lexer.LESS_EQUAL:
		l, r, err := checkNumberOperands(expr.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l <= r, nil
	case lexer.BANG_EQUAL:
		return !valuesEqual(left, right), nil
	case lexer.EQUAL_EQUAL:
		return valuesEqual(left, right), nil
	}
	panic("interp: unhandled binary operator")
}

func checkNumberOperand(op lexer.Token, v Value) (float64, error) {
	if n, ok := v.(float64); ok {
		return n, nil
	}
	return 0, newRuntimeErrorAt(op, "Operand must be a number.")
}

func checkNumberOperands(op lexer.Token, a, b Value) (float64, float64, error) {
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if !aok || !bok {
		return 0, 0, newRuntimeErrorAt(op, "Operands must be numbers.")
	}
	return an, bn, nil
}
