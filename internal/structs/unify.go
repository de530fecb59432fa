package structs

import (
	"fmt"

	"github.com/naab-lang/naab/pkg/ast"
	"github.com/naab-lang/naab/internal/runtime"
)

// InferTypeArgs reconstructs the type arguments of a generic struct
// literal that omitted explicit type arguments (`Box { value: 1 }` instead
// of `Box<int> { value: 1 }`), by unifying each field's declared type
// against the runtime.Value actually supplied.
func InferTypeArgs(def *Def, fieldValues map[string]runtime.Value, typeParams []string) ([]*ast.Type, error) {
	bound := map[string]*ast.Type{}
	for _, f := range def.Fields {
		v, ok := fieldValues[f.Name]
		if !ok {
			continue
		}
		if err := unify(f.Type, v, bound); err != nil {
			return nil, err
		}
	}

	out := make([]*ast.Type, len(typeParams))
	for i, p := range typeParams {
		t, ok := bound[p]
		if !ok {
			return nil, fmt.Errorf("cannot infer type parameter %s: no field constrains it", p)
		}
		out[i] = t
	}
	return out, nil
}

// unify walks declared against the shape of actual, recording a binding
// for every TypeParam it encounters. A TypeParam bound more than once
// must unify to the same rendered type string both times, otherwise the
// literal is type-inconsistent (e.g. `Pair<T,T> { a: 1, b: "x" }`).
func unify(declared *ast.Type, actual runtime.Value, bound map[string]*ast.Type) error {
	if declared == nil {
		return nil
	}
	if declared.Kind == ast.KindTypeParam {
		inferred := inferFromValue(actual)
		if existing, ok := bound[declared.ParamName]; ok {
			if renderType(existing) != renderType(inferred) {
				return fmt.Errorf("type parameter %s bound to both %s and %s", declared.ParamName, renderType(existing), renderType(inferred))
			}
			return nil
		}
		bound[declared.ParamName] = inferred
		return nil
	}
	switch declared.Kind {
	case ast.KindList:
		lv, ok := actual.(*runtime.ListValue)
		if !ok || len(lv.Elems) == 0 {
			return nil
		}
		return unify(declared.Elem, lv.Elems[0], bound)
	case ast.KindDict:
		dv, ok := actual.(*runtime.DictValue)
		if !ok || len(dv.Entries) == 0 {
			return nil
		}
		for _, k := range dv.Keys() {
			return unify(declared.Value, dv.Entries[k], bound)
		}
	}
	return nil
}

// inferFromValue derives the ast.Type that best describes a concrete
// runtime.Value, used to bind a TypeParam during unification.
func inferFromValue(v runtime.Value) *ast.Type {
	switch x := v.(type) {
	case *runtime.IntValue:
		return &ast.Type{Kind: ast.KindInt}
	case *runtime.FloatValue:
		return &ast.Type{Kind: ast.KindFloat}
	case *runtime.StringValue:
		return &ast.Type{Kind: ast.KindString}
	case *runtime.BoolValue:
		return &ast.Type{Kind: ast.KindBool}
	case *runtime.StructValue:
		return &ast.Type{Kind: ast.KindStruct, StructName: x.TypeName}
	default:
		return &ast.Type{Kind: ast.KindAny}
	}
}
