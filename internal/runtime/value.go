// Package runtime holds the NAAb runtime value model: the tagged-union
// Value representation, the lexically nested Environment, and the deep-copy
// and graph-traversal helpers the cycle collector and interpreter share.
//
// Small, single-purpose files per concern: concrete value structs behind a
// Value interface. Values live on the Go heap under Go's own collector;
// internal/gc layers a cycle tracer on top that clears the internal
// references of unreachable compound values.
package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the runtime value representation, a tagged union. Every concrete value
// type below implements it.
type Value interface {
	// Kind returns a short uppercase tag, used in error messages and by the
	// polyglot result parser.
	Kind() string
	// String renders the value for printing.
	String() string
}

// Truthy implements the truthiness rules: false, null, 0,
// 0.0, "", and empty List/Dict are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case *NullValue:
		return false
	case *BoolValue:
		return x.Value
	case *IntValue:
		return x.Value != 0
	case *FloatValue:
		return x.Value != 0
	case *StringValue:
		return x.Value != ""
	case *ListValue:
		return len(x.Elems) != 0
	case *DictValue:
		return len(x.Entries) != 0
	default:
		return true
	}
}

// ---------------------------------------------------------------------
// Scalars
// ---------------------------------------------------------------------

type IntValue struct{ Value int64 }

func NewInt(v int64) *IntValue  { return &IntValue{Value: v} }
func (v *IntValue) Kind() string { return "INT" }
func (v *IntValue) String() string { return strconv.FormatInt(v.Value, 10) }

type FloatValue struct{ Value float64 }

func NewFloat(v float64) *FloatValue { return &FloatValue{Value: v} }
func (v *FloatValue) Kind() string    { return "FLOAT" }
func (v *FloatValue) String() string  { return strconv.FormatFloat(v.Value, 'g', -1, 64) }

type BoolValue struct{ Value bool }

// Singleton booleans: operator evaluation reuses these instead of
// allocating fresh BoolValues.
var (
	TrueValue  = &BoolValue{Value: true}
	FalseValue = &BoolValue{Value: false}
)

func NewBool(v bool) *BoolValue {
	if v {
		return TrueValue
	}
	return FalseValue
}
func (v *BoolValue) Kind() string   { return "BOOL" }
func (v *BoolValue) String() string { return strconv.FormatBool(v.Value) }

type StringValue struct{ Value string }

func NewString(v string) *StringValue { return &StringValue{Value: v} }
func (v *StringValue) Kind() string    { return "STRING" }
func (v *StringValue) String() string  { return v.Value }

type NullValue struct{}

// Null is the process-wide singleton unit value.
var Null = &NullValue{}

func (v *NullValue) Kind() string   { return "NULL" }
func (v *NullValue) String() string { return "null" }

// ---------------------------------------------------------------------
// Compound values (heap-allocated, traced by the cycle collector)
// ---------------------------------------------------------------------

// ListValue is a mutable, ordered sequence of shared Value handles.
type ListValue struct {
	Elems []Value
}

func NewList(elems []Value) *ListValue { return &ListValue{Elems: elems} }
func (v *ListValue) Kind() string       { return "LIST" }
func (v *ListValue) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictValue is a mutable mapping from string key to Value handle.
type DictValue struct {
	Entries map[string]Value
	order   []string // insertion order, best-effort for printing
}

func NewDict() *DictValue {
	return &DictValue{Entries: map[string]Value{}}
}

func (v *DictValue) Kind() string { return "DICT" }

// Set inserts or overwrites a key, tracking insertion order.
func (v *DictValue) Set(key string, val Value) {
	if _, exists := v.Entries[key]; !exists {
		v.order = append(v.order, key)
	}
	v.Entries[key] = val
}

// Keys returns keys in insertion order.
func (v *DictValue) Keys() []string {
	return append([]string(nil), v.order...)
}

func (v *DictValue) String() string {
	parts := make([]string, 0, len(v.order))
	for _, k := range v.order {
		parts = append(parts, fmt.Sprintf("%q: %s", k, v.Entries[k].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// StructValue is a reference to a struct definition plus a fixed-length
// vector of field values, in declaration order.
type StructValue struct {
	TypeName string // mangled name for monomorphized generics
	Fields   []string
	Values   []Value
}

func NewStruct(typeName string, fields []string, values []Value) *StructValue {
	return &StructValue{TypeName: typeName, Fields: fields, Values: values}
}

func (v *StructValue) Kind() string { return "STRUCT" }

// Get returns the value of a named field, and whether it exists.
func (v *StructValue) Get(name string) (Value, bool) {
	for i, f := range v.Fields {
		if f == name {
			return v.Values[i], true
		}
	}
	return nil, false
}

// Set writes a named field in place (struct identity is preserved).
func (v *StructValue) Set(name string, val Value) bool {
	for i, f := range v.Fields {
		if f == name {
			v.Values[i] = val
			return true
		}
	}
	return false
}

func (v *StructValue) String() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f, v.Values[i].String())
	}
	return v.TypeName + " { " + strings.Join(parts, ", ") + " }"
}

// FunctionValue is a declared or lambda function: parameter list, body, and
// captured environment.
type FunctionValue struct {
	Name       string // empty for lambdas
	Params     []ParamInfo
	TypeParams []string
	Body       interface{} // *ast.Block, typed as interface{} to avoid an import cycle
	Env        *Environment
}

// ParamInfo is the runtime-relevant subset of ast.ParamDecl.
type ParamInfo struct {
	Name       string
	IsRef      bool
	HasDefault bool
	Default    interface{} // ast.Expr
}

func (v *FunctionValue) Kind() string   { return "FUNCTION" }
func (v *FunctionValue) String() string { return "<function " + v.Name + ">" }

// CapturedEnv exposes the closure environment to the cycle collector's mark
// phase.
func (v *FunctionValue) CapturedEnv() *Environment { return v.Env }

// NativeValue is an opaque handle to a host-implemented function, used by
// the standard-library dispatch contract.
type NativeValue struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (v *NativeValue) Kind() string   { return "NATIVE" }
func (v *NativeValue) String() string { return "<native " + v.Name + ">" }

// Children returns the Value handles a compound Value directly holds, for
// the cycle collector's mark phase (internal/gc) and for DeepCopy below.
// Scalars and Null return nil.
func Children(v Value) []Value {
	switch x := v.(type) {
	case *ListValue:
		return x.Elems
	case *DictValue:
		out := make([]Value, 0, len(x.Entries))
		for _, k := range x.order {
			out = append(out, x.Entries[k])
		}
		return out
	case *StructValue:
		return x.Values
	case *FunctionValue:
		// The captured environment is walked separately by the collector
		// via CapturedEnv; functions hold no direct Value children besides
		// that closure.
		return nil
	default:
		return nil
	}
}

// Clear drops a compound Value's internal references, used by the cycle
// collector to break an unreachable cycle once it has been identified.
// It must never be called on a reachable value.
func Clear(v Value) {
	switch x := v.(type) {
	case *ListValue:
		x.Elems = nil
	case *DictValue:
		x.Entries = map[string]Value{}
		x.order = nil
	case *StructValue:
		for i := range x.Values {
			x.Values[i] = Null
		}
	case *FunctionValue:
		x.Env = nil
	}
}

// DeepCopy recursively clones List, Dict, and Struct payloads; scalars,
// Null, Function, and Native values are returned as-is (shared). Cyclic
// input is handled by preserving the same cycle in the copy via a seen-set
// keyed by pointer identity, rather than breaking at a depth cutoff.
func DeepCopy(v Value) Value {
	return deepCopy(v, map[Value]Value{})
}

func deepCopy(v Value, seen map[Value]Value) Value {
	switch x := v.(type) {
	case *ListValue:
		if copy, ok := seen[x]; ok {
			return copy
		}
		out := &ListValue{Elems: make([]Value, len(x.Elems))}
		seen[x] = out
		for i, e := range x.Elems {
			out.Elems[i] = deepCopy(e, seen)
		}
		return out
	case *DictValue:
		if copy, ok := seen[x]; ok {
			return copy
		}
		out := NewDict()
		seen[x] = out
		for _, k := range x.order {
			out.Set(k, deepCopy(x.Entries[k], seen))
		}
		return out
	case *StructValue:
		if copy, ok := seen[x]; ok {
			return copy
		}
		out := &StructValue{
			TypeName: x.TypeName,
			Fields:   append([]string(nil), x.Fields...),
			Values:   make([]Value, len(x.Values)),
		}
		seen[x] = out
		for i, e := range x.Values {
			out.Values[i] = deepCopy(e, seen)
		}
		return out
	default:
		// Scalars, Null, Function, Native: shared, not copied.
		return v
	}
}

// Equal reports value equality: same kind and equal payload,
// structural for List/Dict/Struct.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *IntValue:
		return x.Value == b.(*IntValue).Value
	case *FloatValue:
		return x.Value == b.(*FloatValue).Value
	case *BoolValue:
		return x.Value == b.(*BoolValue).Value
	case *StringValue:
		return x.Value == b.(*StringValue).Value
	case *NullValue:
		return true
	case *ListValue:
		y := b.(*ListValue)
		if len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *DictValue:
		y := b.(*DictValue)
		if len(x.Entries) != len(y.Entries) {
			return false
		}
		for k, v := range x.Entries {
			yv, ok := y.Entries[k]
			if !ok || !Equal(v, yv) {
				return false
			}
		}
		return true
	case *StructValue:
		y := b.(*StructValue)
		if x.TypeName != y.TypeName || len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if !Equal(x.Values[i], y.Values[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
