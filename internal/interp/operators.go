package interp

import (
	"math"
	"strings"

	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/runtime"
)

// applyBinary implements the binary operator table.
func (in *Interpreter) applyBinary(op string, left, right runtime.Value, pos naaberrors.Position) (runtime.Value, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return in.arith(op, left, right, pos)
	case "<", "<=", ">", ">=":
		return in.compare(op, left, right, pos)
	case "==":
		return runtime.NewBool(runtime.Equal(left, right)), nil
	case "!=":
		return runtime.NewBool(!runtime.Equal(left, right)), nil
	}
	return nil, naaberrors.New(naaberrors.TypeError, pos, "unknown operator %s", op)
}

func (in *Interpreter) arith(op string, left, right runtime.Value, pos naaberrors.Position) (runtime.Value, error) {
	// String concatenation: "+" on two strings, or a string and any
	// non-null value (the non-string operand is stringified).
	if op == "+" {
		if ls, ok := left.(*runtime.StringValue); ok {
			if _, isNull := right.(*runtime.NullValue); !isNull {
				return runtime.NewString(ls.Value + stringify(right)), nil
			}
		}
		if rs, ok := right.(*runtime.StringValue); ok {
			if _, isNull := left.(*runtime.NullValue); !isNull {
				return runtime.NewString(stringify(left) + rs.Value), nil
			}
		}
	}

	li, lIsInt := left.(*runtime.IntValue)
	lf, lIsFloat := left.(*runtime.FloatValue)
	ri, rIsInt := right.(*runtime.IntValue)
	rf, rIsFloat := right.(*runtime.FloatValue)

	if !(lIsInt || lIsFloat) || !(rIsInt || rIsFloat) {
		return nil, naaberrors.New(naaberrors.TypeError, pos,
			"operator %s not defined on %s and %s", op, left.Kind(), right.Kind())
	}

	// Division always produces Float, even on two Ints.
	if lIsInt && rIsInt && op != "/" {
		a, b := li.Value, ri.Value
		switch op {
		case "+":
			return runtime.NewInt(a + b), nil
		case "-":
			return runtime.NewInt(a - b), nil
		case "*":
			return runtime.NewInt(a * b), nil
		case "%":
			if b == 0 {
				return nil, naaberrors.New(naaberrors.DivisionByZero, pos, "modulo by zero")
			}
			return runtime.NewInt(a % b), nil
		}
	}

	var a, b float64
	if lIsInt {
		a = float64(li.Value)
	} else {
		a = lf.Value
	}
	if rIsInt {
		b = float64(ri.Value)
	} else {
		b = rf.Value
	}
	switch op {
	case "+":
		return runtime.NewFloat(a + b), nil
	case "-":
		return runtime.NewFloat(a - b), nil
	case "*":
		return runtime.NewFloat(a * b), nil
	case "/":
		// Float zero divides raise too; no NaN/Inf escape.
		if b == 0 {
			return nil, naaberrors.New(naaberrors.DivisionByZero, pos, "division by zero")
		}
		return runtime.NewFloat(a / b), nil
	case "%":
		if b == 0 {
			return nil, naaberrors.New(naaberrors.DivisionByZero, pos, "modulo by zero")
		}
		return runtime.NewFloat(math.Mod(a, b)), nil
	}
	return nil, naaberrors.New(naaberrors.TypeError, pos, "unknown arithmetic operator %s", op)
}

// compare handles < <= > >= on Int, Float, String, and mixed Int/Float
// pairs; anything else is a TypeError.
func (in *Interpreter) compare(op string, left, right runtime.Value, pos naaberrors.Position) (runtime.Value, error) {
	if ls, ok := left.(*runtime.StringValue); ok {
		if rs, ok := right.(*runtime.StringValue); ok {
			return runtime.NewBool(compareOrdered(op, strings.Compare(ls.Value, rs.Value))), nil
		}
	}

	a, aok := numeric(left)
	b, bok := numeric(right)
	if !aok || !bok {
		return nil, naaberrors.New(naaberrors.TypeError, pos,
			"operator %s not defined on %s and %s", op, left.Kind(), right.Kind())
	}
	var c int
	switch {
	case a < b:
		c = -1
	case a > b:
		c = 1
	}
	return runtime.NewBool(compareOrdered(op, c)), nil
}

func compareOrdered(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

func numeric(v runtime.Value) (float64, bool) {
	switch x := v.(type) {
	case *runtime.IntValue:
		return float64(x.Value), true
	case *runtime.FloatValue:
		return x.Value, true
	}
	return 0, false
}

func (in *Interpreter) applyUnary(op string, v runtime.Value, pos naaberrors.Position) (runtime.Value, error) {
	switch op {
	case "-":
		switch x := v.(type) {
		case *runtime.IntValue:
			return runtime.NewInt(-x.Value), nil
		case *runtime.FloatValue:
			return runtime.NewFloat(-x.Value), nil
		}
		return nil, naaberrors.New(naaberrors.TypeError, pos, "cannot negate %s", v.Kind())
	case "not":
		return runtime.NewBool(!runtime.Truthy(v)), nil
	}
	return nil, naaberrors.New(naaberrors.TypeError, pos, "unknown unary operator %s", op)
}

// stringify renders a value for string concatenation and print.
func stringify(v runtime.Value) string {
	return v.String()
}
