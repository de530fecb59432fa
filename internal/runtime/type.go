package runtime

import (
	"strings"

	"github.com/naab-lang/naab/pkg/ast"
)

// TypeString renders a *ast.Type to its canonical string form, for
// type-mismatch diagnostics. Monomorphization mangled names use the
// internal/structs package's own renderer, not this one.
func TypeString(t *ast.Type) string {
	if t == nil {
		return "any"
	}
	var s string
	switch t.Kind {
	case ast.KindInt:
		s = "int"
	case ast.KindFloat:
		s = "float"
	case ast.KindString:
		s = "string"
	case ast.KindBool:
		s = "bool"
	case ast.KindVoid:
		s = "void"
	case ast.KindAny:
		s = "any"
	case ast.KindList:
		s = "List<" + TypeString(t.Elem) + ">"
	case ast.KindDict:
		s = "Dict<" + TypeString(t.Key) + "," + TypeString(t.Value) + ">"
	case ast.KindStruct:
		s = t.StructName
	case ast.KindEnum:
		s = t.StructName
	case ast.KindFunction:
		s = "function"
	case ast.KindUnion:
		parts := make([]string, len(t.Union))
		for i, m := range t.Union {
			parts[i] = TypeString(m)
		}
		s = strings.Join(parts, "|")
	case ast.KindTypeParam:
		s = t.ParamName
	}
	if t.IsNullable {
		s += "?"
	}
	return s
}

// ValueKindMatches reports whether a runtime Value is compatible with a
// declared type's kind, ignoring nullability (callers check Null
// separately). Any and TypeParam always match (the latter only arises pre-
// substitution and is handled by the struct registry's unifier).
func ValueKindMatches(t *ast.Type, v Value) bool {
	if t == nil || t.Kind == ast.KindAny || t.Kind == ast.KindTypeParam {
		return true
	}
	// Null acceptance depends on the declared type's nullability, which is
	// the caller's check; the kind test itself lets Null through.
	if _, isNull := v.(*NullValue); isNull {
		return true
	}
	switch t.Kind {
	case ast.KindInt:
		_, ok := v.(*IntValue)
		return ok
	case ast.KindFloat:
		_, ok := v.(*FloatValue)
		return ok
	case ast.KindString:
		_, ok := v.(*StringValue)
		return ok
	case ast.KindBool:
		_, ok := v.(*BoolValue)
		return ok
	case ast.KindList:
		_, ok := v.(*ListValue)
		return ok
	case ast.KindDict:
		_, ok := v.(*DictValue)
		return ok
	case ast.KindStruct:
		// The declared name may be the generic base while the value carries
		// a mangled specialization name; kind matching stays structural.
		_, ok := v.(*StructValue)
		return ok
	case ast.KindFunction:
		switch v.(type) {
		case *FunctionValue, *NativeValue:
			return true
		}
		return false
	case ast.KindUnion:
		for _, m := range t.Union {
			if ValueKindMatches(m, v) {
				return true
			}
		}
		return false
	}
	return true
}
