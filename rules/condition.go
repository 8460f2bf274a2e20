package rules

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type conditionKind int

const (
	condAlwaysTrue conditionKind = iota
	condAlwaysFalse
	condFunc
	condExpr
)

// Condition is a predicate over battle state gating orders and victory
// triggers. The zero value is always true.
type Condition struct {
	kind    conditionKind
	fn      func(Env) bool
	src     string      // expr source (preserved for serialization)
	program *vm.Program // compiled bytecode
}

// AlwaysTrue is the condition of an unconditional order.
func AlwaysTrue() Condition { return Condition{kind: condAlwaysTrue} }

// AlwaysFalse permanently disables whatever it gates.
func AlwaysFalse() Condition { return Condition{kind: condAlwaysFalse} }

// When wraps an arbitrary predicate. A nil fn behaves like AlwaysFalse.
func When(fn func(Env) bool) Condition {
	if fn == nil {
		return AlwaysFalse()
	}
	return Condition{kind: condFunc, fn: fn}
}

// Expr compiles src against Env into bytecode. The expression must evaluate
// to a bool.
func Expr(src string) (Condition, error) {
	prog, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return Condition{}, fmt.Errorf("compile condition %q: %w", src, err)
	}
	return Condition{kind: condExpr, src: src, program: prog}, nil
}

// Evaluate runs the predicate. Expression runtime errors are logged and
// count as false.
func (c Condition) Evaluate(env Env) bool {
	switch c.kind {
	case condAlwaysTrue:
		return true
	case condAlwaysFalse:
		return false
	case condFunc:
		return c.fn(env)
	case condExpr:
		result, err := vm.Run(c.program, env)
		if err != nil {
			slog.Warn("condition error", "condition", c.src, "error", err)
			return false
		}
		match, ok := result.(bool)
		return ok && match
	default:
		panic(fmt.Sprintf("rules: unknown condition kind %d", c.kind))
	}
}

// Source returns the expr source of an expression condition, empty otherwise.
func (c Condition) Source() string { return c.src }

func (c Condition) String() string {
	switch c.kind {
	case condAlwaysTrue:
		return "always"
	case condAlwaysFalse:
		return "never"
	case condFunc:
		return "func"
	default:
		return c.src
	}
}
