package interp

import (
	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/runtime"
	"github.com/naab-lang/naab/internal/structs"
	"github.com/naab-lang/naab/pkg/ast"
)

// evalExpr evaluates one expression node to a Value.
func (in *Interpreter) evalExpr(e ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch x := e.(type) {
	case *ast.IntLit:
		return runtime.NewInt(x.Value), nil
	case *ast.FloatLit:
		return runtime.NewFloat(x.Value), nil
	case *ast.StringLit:
		return runtime.NewString(x.Value), nil
	case *ast.BoolLit:
		return runtime.NewBool(x.Value), nil
	case *ast.NullLit:
		return runtime.Null, nil

	case *ast.Ident:
		v, ok := env.Get(x.Name)
		if !ok {
			return nil, naaberrors.New(naaberrors.NameError, in.posOf(x),
				"undefined variable: %s", x.Name).WithAlternatives(x.Name, env.Names())
		}
		return v, nil

	case *ast.ListLit:
		elems := make([]runtime.Value, len(x.Elems))
		for i, el := range x.Elems {
			v, err := in.evalExpr(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		list := runtime.NewList(elems)
		in.gc.TrackAllocation(list, env)
		return list, nil

	case *ast.DictLit:
		dict := runtime.NewDict()
		for _, entry := range x.Entries {
			k, err := in.evalExpr(entry.Key, env)
			if err != nil {
				return nil, err
			}
			ks, ok := k.(*runtime.StringValue)
			if !ok {
				return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
					"dict keys must be strings, got %s", k.Kind())
			}
			v, err := in.evalExpr(entry.Value, env)
			if err != nil {
				return nil, err
			}
			dict.Set(ks.Value, v)
		}
		in.gc.TrackAllocation(dict, env)
		return dict, nil

	case *ast.StructLit:
		return in.evalStructLit(x, env)

	case *ast.BinaryExpr:
		left, err := in.evalExpr(x.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.evalExpr(x.Right, env)
		if err != nil {
			return nil, err
		}
		v, err := in.applyBinary(x.Op, left, right, in.posOf(x))
		if err != nil {
			return nil, err
		}
		in.gc.TrackAllocation(v, env)
		return v, nil

	case *ast.UnaryExpr:
		operand, err := in.evalExpr(x.X, env)
		if err != nil {
			return nil, err
		}
		v, err := in.applyUnary(x.Op, operand, in.posOf(x))
		if err != nil {
			return nil, err
		}
		in.gc.TrackAllocation(v, env)
		return v, nil

	case *ast.LogicalExpr:
		left, err := in.evalExpr(x.Left, env)
		if err != nil {
			return nil, err
		}
		// Short-circuit: and evaluates right only when left
		// is truthy; or only when left is falsy.
		if x.Op == "and" {
			if !runtime.Truthy(left) {
				return left, nil
			}
		} else {
			if runtime.Truthy(left) {
				return left, nil
			}
		}
		return in.evalExpr(x.Right, env)

	case *ast.AssignExpr:
		return in.evalAssign(x, env)

	case *ast.MemberExpr:
		return in.evalMember(x, env)

	case *ast.IndexExpr:
		return in.evalIndex(x, env)

	case *ast.CallExpr:
		return in.evalCall(x, env)

	case *ast.PipelineExpr:
		// x |> f(args...) invokes f with x prepended; the
		// right side is never evaluated as a call on its own.
		return in.callWithSplice(x.Call, x.X, env)

	case *ast.LambdaExpr:
		fn := in.makeFunction("", x.Params, nil, x.Body, env)
		in.gc.TrackAllocation(fn, env)
		return fn, nil

	case *ast.PolyglotExpr:
		return in.evalPolyglot(x, env)

	default:
		return nil, naaberrors.New(naaberrors.TypeError, in.posOf(e), "unknown expression node %T", e)
	}
}

// evalAssign handles the three assignable shapes: identifier
// rebind, struct-field write, and list/dict subscript write. The assigned
// value is the expression's value.
func (in *Interpreter) evalAssign(x *ast.AssignExpr, env *runtime.Environment) (runtime.Value, error) {
	val, err := in.evalExpr(x.Rhs, env)
	if err != nil {
		return nil, err
	}

	switch lhs := x.Lhs.(type) {
	case *ast.Ident:
		if err := env.Set(lhs.Name, val); err != nil {
			return nil, naaberrors.New(naaberrors.NameError, in.posOf(lhs),
				"cannot assign to undefined variable: %s", lhs.Name).
				WithAlternatives(lhs.Name, env.Names())
		}
		return val, nil

	case *ast.MemberExpr:
		obj, err := in.evalExpr(lhs.X, env)
		if err != nil {
			return nil, err
		}
		sv, ok := obj.(*runtime.StructValue)
		if !ok {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(lhs),
				"cannot assign to field of %s", obj.Kind())
		}
		if !sv.Set(lhs.Field, val) {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(lhs),
				"struct %s has no field %s", sv.TypeName, lhs.Field).
				WithAlternatives(lhs.Field, sv.Fields)
		}
		return val, nil

	case *ast.IndexExpr:
		container, err := in.evalExpr(lhs.X, env)
		if err != nil {
			return nil, err
		}
		idx, err := in.evalExpr(lhs.Index, env)
		if err != nil {
			return nil, err
		}
		switch c := container.(type) {
		case *runtime.ListValue:
			iv, ok := idx.(*runtime.IntValue)
			if !ok {
				return nil, naaberrors.New(naaberrors.TypeError, in.posOf(lhs),
					"list index must be an int, got %s", idx.Kind())
			}
			if iv.Value < 0 || iv.Value >= int64(len(c.Elems)) {
				return nil, naaberrors.New(naaberrors.IndexError, in.posOf(lhs),
					"list index %d out of range [0, %d)", iv.Value, len(c.Elems))
			}
			c.Elems[iv.Value] = val
			return val, nil
		case *runtime.DictValue:
			kv, ok := idx.(*runtime.StringValue)
			if !ok {
				return nil, naaberrors.New(naaberrors.TypeError, in.posOf(lhs),
					"dict key must be a string, got %s", idx.Kind())
			}
			// Writes create missing keys.
			c.Set(kv.Value, val)
			return val, nil
		default:
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(lhs),
				"cannot index-assign into %s", container.Kind())
		}

	default:
		return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
			"invalid assignment target %T", x.Lhs)
	}
}

func (in *Interpreter) evalMember(x *ast.MemberExpr, env *runtime.Environment) (runtime.Value, error) {
	// Enum variant access Color.Red resolves before evaluation, since the
	// enum name is not a runtime value.
	if id, ok := x.X.(*ast.Ident); ok {
		if variants, isEnum := in.enums[id.Name]; isEnum {
			for _, v := range variants {
				if v == x.Field {
					return runtime.NewString(id.Name + "." + v), nil
				}
			}
			return nil, naaberrors.New(naaberrors.NameError, in.posOf(x),
				"enum %s has no variant %s", id.Name, x.Field).
				WithAlternatives(x.Field, variants)
		}
	}

	obj, err := in.evalExpr(x.X, env)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *runtime.StructValue:
		v, ok := o.Get(x.Field)
		if !ok {
			return nil, naaberrors.New(naaberrors.NameError, in.posOf(x),
				"struct %s has no field %s", o.TypeName, x.Field).
				WithAlternatives(x.Field, o.Fields)
		}
		return v, nil
	case *moduleValue:
		return o.member(in, x.Field, in.posOf(x))
	default:
		return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
			"cannot access member %s of %s", x.Field, obj.Kind())
	}
}

func (in *Interpreter) evalIndex(x *ast.IndexExpr, env *runtime.Environment) (runtime.Value, error) {
	container, err := in.evalExpr(x.X, env)
	if err != nil {
		return nil, err
	}
	idx, err := in.evalExpr(x.Index, env)
	if err != nil {
		return nil, err
	}

	switch c := container.(type) {
	case *runtime.ListValue:
		iv, ok := idx.(*runtime.IntValue)
		if !ok {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
				"list index must be an int, got %s", idx.Kind())
		}
		if iv.Value < 0 || iv.Value >= int64(len(c.Elems)) {
			return nil, naaberrors.New(naaberrors.IndexError, in.posOf(x),
				"list index %d out of range [0, %d)", iv.Value, len(c.Elems))
		}
		return c.Elems[iv.Value], nil
	case *runtime.DictValue:
		kv, ok := idx.(*runtime.StringValue)
		if !ok {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
				"dict key must be a string, got %s", idx.Kind())
		}
		// Reads never create entries.
		v, ok := c.Entries[kv.Value]
		if !ok {
			return nil, naaberrors.New(naaberrors.KeyError, in.posOf(x),
				"dict has no key %q", kv.Value).WithAlternatives(kv.Value, c.Keys())
		}
		return v, nil
	case *runtime.StringValue:
		iv, ok := idx.(*runtime.IntValue)
		if !ok {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
				"string index must be an int, got %s", idx.Kind())
		}
		runes := []rune(c.Value)
		if iv.Value < 0 || iv.Value >= int64(len(runes)) {
			return nil, naaberrors.New(naaberrors.IndexError, in.posOf(x),
				"string index %d out of range [0, %d)", iv.Value, len(runes))
		}
		return runtime.NewString(string(runes[iv.Value])), nil
	default:
		return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
			"cannot index %s", container.Kind())
	}
}

// evalStructLit instantiates a struct literal, consulting the registry and
// monomorphizing generic definitions on first use.
func (in *Interpreter) evalStructLit(x *ast.StructLit, env *runtime.Environment) (runtime.Value, error) {
	def, ok := in.structs.Lookup(x.Name)
	if !ok {
		return nil, naaberrors.New(naaberrors.NameError, in.posOf(x),
			"unknown struct: %s", x.Name).WithAlternatives(x.Name, in.structs.Names())
	}

	values := map[string]runtime.Value{}
	for _, f := range x.Fields {
		v, err := in.evalExpr(f.Value, env)
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}

	// Unknown-field check against the declared (pre-substitution) field
	// list, which is the same for every specialization.
	declared := map[string]*ast.Type{}
	for _, f := range def.Fields {
		declared[f.Name] = f.Type
	}
	var fieldNames []string
	for _, f := range def.Fields {
		fieldNames = append(fieldNames, f.Name)
	}
	for name := range values {
		if _, ok := declared[name]; !ok {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
				"struct %s has no field %s", x.Name, name).
				WithAlternatives(name, fieldNames)
		}
	}

	concrete := def
	if len(def.TypeParams) > 0 {
		typeArgs, err := structs.InferTypeArgs(def, values, def.TypeParams)
		if err != nil {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x), "%s: %v", x.Name, err)
		}
		concrete, err = in.structs.Instantiate(x.Name, typeArgs)
		if err != nil {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x), "%v", err)
		}
	}

	// Null against a non-nullable declared field type is a TypeError.
	for _, f := range concrete.Fields {
		v, ok := values[f.Name]
		if !ok {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
				"missing field %s in struct literal %s", f.Name, x.Name)
		}
		if _, isNull := v.(*runtime.NullValue); isNull && f.Type != nil && !f.Type.IsNullable {
			return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x),
				"field %s of %s is not nullable", f.Name, x.Name)
		}
	}

	sv, err := structs.New(concrete, values)
	if err != nil {
		return nil, naaberrors.New(naaberrors.TypeError, in.posOf(x), "%v", err)
	}
	in.gc.TrackAllocation(sv, env)
	return sv, nil
}
