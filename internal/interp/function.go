package interp

import "github.com/cwbudde/plox/internal/ast"

// returnSignal unwinds Call back to the nearest Function invocation,
// carrying the returned value. It is threaded through ordinary (Value,
// error) returns rather than panic/recover, so it never touches the
// diagnostic sink and is never mistaken for a runtime error — callers
// that see one simply stop executing statements and hand the value up.
type returnSignal struct {
	Value Value
}

func (r *returnSignal) Error() string { return "return" }

// asReturn reports whether err is a return-unwind signal and, if so,
// extracts its value.
func asReturn(err error) (Value, bool) {
	if rs, ok := err.(*returnSignal); ok {
		return rs.Value, true
	}
	return nil, false
}

// Function is a user-defined function or method value, closing over the
// environment active at its declaration site.
type Function struct {
	declaration   *ast.FunctionStmt
	closure       *Environment
	isInitializer bool
}

// bind produces a copy of the method closing over an environment that
// defines "this" as instance. Called fresh on every property access.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

func (f *Function) Arity() int { return len(f.declaration.Params) }

func (f *Function) Call(ev *Evaluator, args []Value) (Value, error) {
	env := NewEnclosedEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := ev.executeBlock(f.declaration.Body, env)
	if value, ok := asReturn(err); ok {
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return value, nil
	}
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

func (f *Function) String() string { return "<fn " + f.declaration.Name.Lexeme + ">" }
