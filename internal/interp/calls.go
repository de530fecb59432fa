package interp

import (
	"strings"

	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/runtime"
	"github.com/naab-lang/naab/pkg/ast"
)

func (in *Interpreter) evalCall(x *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	return in.callWithSplice(x, nil, env)
}

// callWithSplice evaluates a call, optionally prepending a pipeline value
// as the first argument. Any expression yielding a Function or
// InternalNative is callable.
func (in *Interpreter) callWithSplice(x *ast.CallExpr, spliced ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	callee, err := in.evalExpr(x.Callee, env)
	if err != nil {
		return nil, err
	}

	argExprs := x.Args
	if spliced != nil {
		argExprs = append([]ast.Expr{spliced}, x.Args...)
	}
	args := make([]runtime.Value, len(argExprs))
	for i, a := range argExprs {
		v, err := in.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *runtime.NativeValue:
		in.stack.Push(runtime.Frame{Callable: fn.Name, Source: "<native>"})
		defer in.stack.Pop()
		v, err := fn.Fn(args)
		if err != nil {
			if _, isNaab := err.(*naaberrors.NaabError); isNaab {
				return nil, err
			}
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x), "%s: %v", fn.Name, err)
		}
		if v == nil {
			v = runtime.Null
		}
		in.gc.TrackAllocation(v, env)
		return v, nil

	case *runtime.FunctionValue:
		return in.callFunction(fn, args, in.posOf(x), env)

	default:
		return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
			"%s is not callable", callee.Kind())
	}
}

// callFunction binds arguments and executes a declared function or lambda.
// Non-ref parameters receive a deep copy of the argument — the sole
// isolation mechanism between caller and callee; ref
// parameters receive the caller's handle.
func (in *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, pos naaberrors.Position, env *runtime.Environment) (runtime.Value, error) {
	params := fn.Params
	if len(args) > len(params) {
		return nil, naaberrors.New(naaberrors.ArgError, pos,
			"%s expects at most %d argument(s) (%s), got %d",
			callableName(fn), len(params), paramList(params), len(args))
	}

	captured := fn.Env
	if captured == nil {
		captured = in.globals
	}
	frame := captured.Child()

	for i, p := range params {
		var bound runtime.Value
		switch {
		case i < len(args):
			if p.IsRef {
				bound = args[i]
			} else {
				bound = runtime.DeepCopy(args[i])
			}
		case p.HasDefault:
			def, ok := p.Default.(ast.Expr)
			if !ok {
				return nil, naaberrors.New(naaberrors.ArgError, pos,
					"%s: default for %s is unavailable", callableName(fn), p.Name)
			}
			v, err := in.evalExpr(def, frame)
			if err != nil {
				return nil, err
			}
			bound = v
		default:
			return nil, naaberrors.New(naaberrors.ArgError, pos,
				"%s missing required argument %s (%s)",
				callableName(fn), p.Name, paramList(params))
		}
		frame.ForceDefine(p.Name, bound)
		in.gc.TrackAllocation(bound, frame)
	}

	body, ok := fn.Body.(*ast.Block)
	if !ok {
		return nil, naaberrors.New(naaberrors.TypeError, pos, "%s has no body", callableName(fn))
	}

	in.stack.Push(runtime.Frame{Callable: callableName(fn), Source: pos.File, Line: pos.Line})
	defer in.stack.Pop()
	in.gc.PushRoot(env)
	defer in.gc.PopRoot()

	err := in.execBlock(body, frame)
	switch e := err.(type) {
	case nil:
		return runtime.Null, nil
	case returnSignal:
		return e.value, nil
	default:
		return nil, err
	}
}

func callableName(fn *runtime.FunctionValue) string {
	if fn.Name == "" {
		return "<lambda>"
	}
	return fn.Name
}

func paramList(params []runtime.ParamInfo) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
		if p.IsRef {
			names[i] = "ref " + p.Name
		}
		if p.HasDefault {
			names[i] += " = ..."
		}
	}
	return strings.Join(names, ", ")
}
