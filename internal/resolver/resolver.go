// Package resolver implements the static pass that runs after parsing and
// before evaluation: for every variable-referencing expression it decides
// which lexical frame holds the binding, so the evaluator can look it up
// by frame count instead of walking a name-keyed chain.
package resolver

import (
	"github.com/cwbudde/plox/internal/ast"
	"github.com/cwbudde/plox/internal/errors"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
)

// scope maps a name to whether its declaration has finished resolving
// (false while the initializer of a `var` is itself being resolved).
type scope map[string]bool

// Resolver walks the AST once, emitting diagnostics for static errors and
// recording, for every local variable reference, how many enclosing scopes
// separate it from the scope it is read or assigned in.
type Resolver struct {
	diags *errors.Diagnostics

	scopes          []scope
	currentFunction functionType
	currentClass    classType

	// Locals maps an expression (by pointer identity — see internal/ast's
	// package doc) to its resolved depth. An entry present here is a local
	// reference; its absence means the evaluator should fall back to the
	// global environment.
	Locals map[ast.Expr]int
}

func New(diags *errors.Diagnostics) *Resolver {
	return &Resolver{diags: diags, Locals: make(map[ast.Expr]int)}
}

// Resolve runs the pass over a whole program.
func (r *Resolver) Resolve(statements []ast.Stmt) {
	r.resolveStmts(statements)
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(line int, lexeme string) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top[lexeme]; ok {
		r.diags.ErrorAt(line, lexeme, false, "Already a variable with this name in this scope.")
	}
	top[lexeme] = false
}

func (r *Resolver) define(lexeme string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][lexeme] = true
}

// resolveLocal walks scopes from innermost outward; the first scope (depth
// 0 = innermost) holding the name wins. If nothing holds it the reference
// is left out of Locals entirely — it is a global.
func (r *Resolver) resolveLocal(expr ast.Expr, lexeme string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][lexeme]; ok {
			r.Locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		r.declare(param.Line, param.Lexeme)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body)
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case nil:
		// parser recovery hole: nothing to resolve
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(stmt.Statements)
		r.endScope()
	case *ast.VarStmt:
		r.declare(stmt.Name.Line, stmt.Name.Lexeme)
		if stmt.Initializer != nil {
			r.resolveExpr(stmt.Initializer)
		}
		r.define(stmt.Name.Lexeme)
	case *ast.FunctionStmt:
		r.declare(stmt.Name.Line, stmt.Name.Lexeme)
		r.define(stmt.Name.Lexeme)
		r.resolveFunction(stmt, fnFunction)
	case *ast.ExpressionStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.IfStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}
	case *ast.PrintStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.ReturnStmt:
		if r.currentFunction == fnNone {
			r.diags.ErrorAt(stmt.Keyword.Line, stmt.Keyword.Lexeme, false, "Can't return from top-level code.")
		}
		if stmt.Value != nil {
			if r.currentFunction == fnInitializer {
				r.diags.ErrorAt(stmt.Keyword.Line, stmt.Keyword.Lexeme, false, "Can't return a value from an initializer.")
			}
			r.resolveExpr(stmt.Value)
		}
	case *ast.WhileStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Body)
	case *ast.ClassStmt:
		r.resolveClass(stmt)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(stmt *ast.ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name.Line, stmt.Name.Lexeme)
	r.define(stmt.Name.Lexeme)

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range stmt.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][expr.Name.Lexeme]; ok && !defined {
				r.diags.ErrorAt(expr.Name.Line, expr.Name.Lexeme, false, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(expr, expr.Name.Lexeme)
	case *ast.Assign:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name.Lexeme)
	case *ast.Binary:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Unary:
		r.resolveExpr(expr.Right)
	case *ast.Grouping:
		r.resolveExpr(expr.Inner)
	case *ast.Logical:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Call:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(expr.Obj)
	case *ast.Set:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Obj)
	case *ast.This:
		if r.currentClass == classNone {
			r.diags.ErrorAt(expr.Keyword.Line, expr.Keyword.Lexeme, false, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(expr, expr.Keyword.Lexeme)
	default:
		panic("resolver: unhandled expression type")
	}
}
