package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/plox/internal/errors"
	"github.com/cwbudde/plox/internal/lexer"
)

// Value is a Lox runtime value. Numbers are plain float64, strings are
// plain string, booleans are plain bool, and nil is represented by a
// untyped Go nil — these need no wrapper type since Go's own dynamic
// typing already gives them the sum-type behavior Lox values need.
// Callable, *Class, and *Instance are the remaining variants.
type Value any

// Callable is implemented by every value that can appear to the left of a
// call expression: user functions, bound methods, classes (as
// constructors), and native functions such as clock.
type Callable interface {
	Arity() int
	Call(ev *Evaluator, args []Value) (Value, error)
	String() string
}

func newUndefinedVariable(name lexer.Token) error {
	return errors.NewRuntimeError(name.Line, "Undefined variable '%s'.", name.Lexeme)
}

// newRuntimeErrorAt builds a RuntimeError located at the line of a token,
// the shape every evaluator error path uses to report on instances,
// arities, and operand-type mismatches.
func newRuntimeErrorAt(tok lexer.Token, format string, args ...any) error {
	return errors.NewRuntimeError(tok.Line, format, args...)
}

// isTruthy implements Lox's truthiness rule: nil and boolean false are
// false, everything else — including 0 and the empty string — is true.
func isTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// valuesEqual implements Lox equality: nil equals only nil, and there is
// no implicit conversion between kinds (a number is never equal to a
// string with the same printed form).
func valuesEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// stringify renders v the way `print` and the REPL show it to a user.
func stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(val)
	case string:
		return val
	case Callable:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatNumber prints the shortest decimal representation, stripping a
// trailing ".0" for integral values — "3" rather than "3.0".
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.HasSuffix(s, ".0") {
		return strings.TrimSuffix(s, ".0")
	}
	return s
}
