package interp

import "github.com/cwbudde/plox/internal/lexer"

// Class is a runtime class value: a name and its method table. Lox has no
// user-visible inheritance, so a Class's method table is flat.
type Class struct {
	Name    string
	Methods map[string]*Function
}

// findMethod looks up a method by name, returning nil if absent.
func (c *Class) findMethod(name string) *Function {
	return c.Methods[name]
}

// Arity is the arity of `init` if the class defines one, else 0.
func (c *Class) Arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a fresh Instance, binds and invokes `init` if present,
// and always returns the new instance — never init's own return value.
func (c *Class) Call(ev *Evaluator, args []Value) (Value, error) {
	instance := &Instance{class: c, fields: make(map[string]Value)}
	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(ev, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string { return c.Name }

// Instance is a runtime object: a reference to its class and a mutable
// field table. Field lookup shadows methods.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// Get reads a property: fields are checked first, then methods (bound
// fresh to this instance on every access).
func (i *Instance) Get(name lexer.Token) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method := i.class.findMethod(name.Lexeme); method != nil {
		return method.bind(i), nil
	}
	return nil, newRuntimeErrorAt(name, "Undefined property '%s'.", name.Lexeme)
}

// Set writes a field unconditionally; fields need no prior declaration.
func (i *Instance) Set(name lexer.Token, value Value) {
	i.fields[name.Lexeme] = value
}

func (i *Instance) String() string { return i.class.Name + " instance" }
