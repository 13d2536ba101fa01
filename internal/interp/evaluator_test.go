package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/plox/internal/errors"
	"github.com/cwbudde/plox/internal/lexer"
	"github.com/cwbudde/plox/internal/parser"
	"github.com/cwbudde/plox/internal/resolver"
)

// run lexes, parses, resolves, and evaluates src, returning everything
// `print` wrote and the diagnostics accumulated along the way.
func run(t *testing.T, src string) (string, *errors.Diagnostics) {
	t.Helper()
	d := errors.New()
	tokens := lexer.New(src, d).ScanTokens()
	stmts := parser.New(tokens, d).Parse()
	if d.HadError {
		t.Fatalf("unexpected compile errors: %v", d.Errors())
	}
	r := resolver.New(d)
	r.Resolve(stmts)
	if d.HadError {
		t.Fatalf("unexpected resolve errors: %v", d.Errors())
	}
	var out bytes.Buffer
	ev := NewWithResolver(d, r, &out)
	ev.Interpret(stmts)
	return out.String(), d
}

func TestArithmeticAndStringConcat(t *testing.T) {
	out, d := run(t, `
		print 1 + 2 * 3;
		print "foo" + "bar";
	`)
	if d.HadRuntimeError {
		t.Fatalf("unexpected runtime error: %v", d.LastRuntimeError)
	}
	want := "7\nfoobar\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestNumberPrintingStripsTrailingZero(t *testing.T) {
	out, _ := run(t, `print 6 / 2; print 1.5;`)
	want := "3\n1.5\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestBlockScopeShadowing(t *testing.T) {
	out, d := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	if d.HadRuntimeError {
		t.Fatalf("unexpected runtime error: %v", d.LastRuntimeError)
	}
	want := "inner\nouter\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestClosureCounter(t *testing.T) {
	out, d := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	if d.HadRuntimeError {
		t.Fatalf("unexpected runtime error: %v", d.LastRuntimeError)
	}
	want := "1\n2\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestForLoopDesugaring(t *testing.T) {
	out, d := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	if d.HadRuntimeError {
		t.Fatalf("unexpected runtime error: %v", d.LastRuntimeError)
	}
	want := "0\n1\n2\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestClassInstanceFieldsAndMethods(t *testing.T) {
	out, d := run(t, `
		class Counter {
			init(start) {
				this.count = start;
			}
			increment() {
				this.count = this.count + 1;
				return this.count;
			}
		}
		var c = Counter(10);
		print c.increment();
		print c.increment();
	`)
	if d.HadRuntimeError {
		t.Fatalf("unexpected runtime error: %v", d.LastRuntimeError)
	}
	want := "11\n12\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestMethodBoundToInstanceSurvivesDetachedCall(t *testing.T) {
	out, d := run(t, `
		class Greeter {
			init(name) { this.name = name; }
			greet() { print "hi " + this.name; }
		}
		var g = Greeter("ada");
		var greet = g.greet;
		greet();
	`)
	if d.HadRuntimeError {
		t.Fatalf("unexpected runtime error: %v", d.LastRuntimeError)
	}
	want := "hi ada\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRuntimeTypeErrorOnOperandMismatch(t *testing.T) {
	_, d := run(t, `print "foo" - 1;`)
	if !d.HadRuntimeError {
		t.Fatal("expected a runtime error")
	}
	if d.LastRuntimeError == nil || !strings.Contains(d.LastRuntimeError.Message, "Operands must be numbers.") {
		t.Fatalf("unexpected message: %+v", d.LastRuntimeError)
	}
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, d := run(t, `var x = 1; x();`)
	if !d.HadRuntimeError {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(d.LastRuntimeError.Message, "Can only call functions and classes.") {
		t.Fatalf("unexpected message: %+v", d.LastRuntimeError)
	}
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, d := run(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	if !d.HadRuntimeError {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(d.LastRuntimeError.Message, "Expected 2 arguments but got 1.") {
		t.Fatalf("unexpected message: %+v", d.LastRuntimeError)
	}
}

func TestUndefinedPropertyIsRuntimeError(t *testing.T) {
	_, d := run(t, `
		class C {}
		var c = C();
		print c.missing;
	`)
	if !d.HadRuntimeError {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(d.LastRuntimeError.Message, "Undefined property 'missing'.") {
		t.Fatalf("unexpected message: %+v", d.LastRuntimeError)
	}
}

func TestReturnAlwaysYieldsInstanceFromInitializerCall(t *testing.T) {
	out, d := run(t, `
		class Box {
			init(v) { this.v = v; return; }
		}
		print Box(5).v;
	`)
	if d.HadRuntimeError {
		t.Fatalf("unexpected runtime error: %v", d.LastRuntimeError)
	}
	if out != "5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestLogicalOperatorsReturnOperandNotBoolean(t *testing.T) {
	out, d := run(t, `
		print nil or "yes";
		print "hi" and "there";
	`)
	if d.HadRuntimeError {
		t.Fatalf("unexpected runtime error: %v", d.LastRuntimeError)
	}
	want := "yes\nthere\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
