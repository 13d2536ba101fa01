package resolver

import (
	"testing"

	"github.com/cwbudde/plox/internal/ast"
	"github.com/cwbudde/plox/internal/errors"
	"github.com/cwbudde/plox/internal/lexer"
	"github.com/cwbudde/plox/internal/parser"
)

func resolve(t *testing.T, src string) ([]ast.Stmt, *Resolver, *errors.Diagnostics) {
	t.Helper()
	d := errors.New()
	tokens := lexer.New(src, d).ScanTokens()
	stmts := parser.New(tokens, d).Parse()
	if d.HadError {
		t.Fatalf("unexpected parse errors: %v", d.Errors())
	}
	r := New(d)
	r.Resolve(stmts)
	return stmts, r, d
}

func TestClosureVariableResolvesToEnclosingFunctionDepth(t *testing.T) {
	stmts, r, d := resolve(t, `
		fun makeCounter() {
			var i = 0;
			fun c() { i = i + 1; }
			return c;
		}
	`)
	if d.HadError {
		t.Fatalf("unexpected errors: %v", d.Errors())
	}
	outer := stmts[0].(*ast.FunctionStmt)
	inner := outer.Body[1].(*ast.FunctionStmt)
	assign := inner.Body[0].(*ast.ExpressionStmt).Expr.(*ast.Assign)

	depth, ok := r.Locals[assign]
	if !ok {
		t.Fatal("expected assignment to 'i' to resolve to a local depth")
	}
	if depth != 1 {
		t.Fatalf("expected depth 1 (one function scope out), got %d", depth)
	}
}

func TestGlobalReferenceHasNoLocalsEntry(t *testing.T) {
	stmts, r, d := resolve(t, `
		var a = 1;
		print a;
	`)
	if d.HadError {
		t.Fatalf("unexpected errors: %v", d.Errors())
	}
	printStmt := stmts[1].(*ast.PrintStmt)
	v := printStmt.Expr.(*ast.Variable)
	if _, ok := r.Locals[v]; ok {
		t.Fatal("global variable reference should not appear in Locals")
	}
}

func TestReadLocalInOwnInitializerIsError(t *testing.T) {
	_, _, d := resolve(t, `{ var a = a; }`)
	if !d.HadError {
		t.Fatal("expected 'Can't read local variable in its own initializer.'")
	}
}

func TestRedeclareLocalIsError(t *testing.T) {
	_, _, d := resolve(t, `{ var a = 1; var a = 2; }`)
	if !d.HadError {
		t.Fatal("expected redeclaration error for local scope")
	}
}

func TestRedeclareGlobalIsAllowed(t *testing.T) {
	_, _, d := resolve(t, `var a = 1; var a = 2;`)
	if d.HadError {
		t.Fatalf("global redeclaration should be allowed, got: %v", d.Errors())
	}
}

func TestReturnFromTopLevelIsError(t *testing.T) {
	_, _, d := resolve(t, `return 1;`)
	if !d.HadError {
		t.Fatal("expected \"Can't return from top-level code.\"")
	}
}

func TestReturnValueFromInitializerIsError(t *testing.T) {
	_, _, d := resolve(t, `class C { init() { return 1; } }`)
	if !d.HadError {
		t.Fatal("expected \"Can't return a value from an initializer.\"")
	}
}

func TestBareReturnFromInitializerIsAllowed(t *testing.T) {
	_, _, d := resolve(t, `class C { init() { return; } }`)
	if d.HadError {
		t.Fatalf("bare return from initializer should be allowed: %v", d.Errors())
	}
}

func TestThisOutsideClassIsError(t *testing.T) {
	_, _, d := resolve(t, `print this;`)
	if !d.HadError {
		t.Fatal("expected \"Can't use 'this' outside of a class.\"")
	}
}

func TestThisInsideMethodResolvesLocally(t *testing.T) {
	stmts, r, d := resolve(t, `class C { m() { return this; } }`)
	if d.HadError {
		t.Fatalf("unexpected errors: %v", d.Errors())
	}
	cls := stmts[0].(*ast.ClassStmt)
	ret := cls.Methods[0].Body[0].(*ast.ReturnStmt)
	thisExpr := ret.Value.(*ast.This)
	if _, ok := r.Locals[thisExpr]; !ok {
		t.Fatal("expected 'this' to resolve to a local depth")
	}
}
