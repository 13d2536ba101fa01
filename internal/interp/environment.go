package interp

import "github.com/cwbudde/plox/internal/lexer"

// Environment is a frame mapping names to values, linked to an enclosing
// frame to form the lexical chain that backs closures. Unlike the
// teacher's case-insensitive ident.Map-backed store (DWScript is Pascal
// derived and case-insensitive), Lox identifiers are case-sensitive, so a
// plain Go map suffices here.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates a root environment with no enclosing scope. Used
// once, for the globals frame.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewEnclosedEnvironment creates a child frame, used at block entry,
// function invocation, and method binding.
func NewEnclosedEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]Value), enclosing: enclosing}
}

// Define inserts name unconditionally into the current frame. Redefining an
// existing name in the same frame is legal (used for global var
// redeclaration and for repeated `var` in a REPL session).
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get walks the enclosing chain looking for name, starting at this frame.
func (e *Environment) Get(name lexer.Token) (Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, newUndefinedVariable(name)
}

// Assign walks the enclosing chain for an existing binding of name and
// overwrites it in place. It never creates a new binding — that is
// Define's job.
func (e *Environment) Assign(name lexer.Token, value Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return newUndefinedVariable(name)
}

// GetAt reads the binding `name` exactly `depth` enclosing links away,
// without walking further. Used by the evaluator on references the
// resolver already bound to a specific frame.
func (e *Environment) GetAt(depth int, name string) Value {
	return e.ancestor(depth).values[name]
}

// AssignAt writes the binding `name` exactly `depth` enclosing links away.
func (e *Environment) AssignAt(depth int, name lexer.Token, value Value) {
	e.ancestor(depth).values[name.Lexeme] = value
}

func (e *Environment) ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		env = env.enclosing
	}
	return env
}
