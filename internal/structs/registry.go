// Package structs is the NAAb struct-type registry: struct declarations
// (possibly generic), and the monomorphization cache that turns a generic
// struct plus concrete type arguments into a concrete, mangled-name struct
// definition.
package structs

import (
	"fmt"
	"strings"

	"github.com/naab-lang/naab/pkg/ast"
)

// Def is a struct type as declared in source: possibly generic (len(TypeParams) > 0).
type Def struct {
	Name       string
	TypeParams []string
	Fields     []ast.FieldDecl
}

// Registry holds every struct declaration visible to a program, plus the
// cache of concrete (monomorphized) instantiations derived from generic
// ones. Names are case-sensitive.
type Registry struct {
	defs           map[string]*Def
	monomorphCache map[string]*Def // mangled name -> concrete Def
}

func NewRegistry() *Registry {
	return &Registry{
		defs:           map[string]*Def{},
		monomorphCache: map[string]*Def{},
	}
}

// Declare registers a struct declaration. Redeclaring a name within a
// program's visible scope is an error.
func (r *Registry) Declare(d *ast.StructDecl) error {
	if _, exists := r.defs[d.Name]; exists {
		return fmt.Errorf("struct already declared: %s", d.Name)
	}
	r.defs[d.Name] = &Def{Name: d.Name, TypeParams: d.TypeParams, Fields: d.Fields}
	return nil
}

// Lookup finds a declared struct by its source name (not a mangled name).
func (r *Registry) Lookup(name string) (*Def, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns every declared struct name, for "did you mean" diagnostics.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.defs))
	for k := range r.defs {
		out = append(out, k)
	}
	return out
}

// Specializations returns the mangled names of every cached concrete
// instantiation, for diagnostics and tests.
func (r *Registry) Specializations() []string {
	out := make([]string, 0, len(r.monomorphCache))
	for k := range r.monomorphCache {
		out = append(out, k)
	}
	return out
}

// Mangle produces the textual monomorphization name
// "<Base>_<T1>_<T2>_...". typeArgs are already-rendered type strings (see
// renderType).
func Mangle(base string, typeArgs []string) string {
	if len(typeArgs) == 0 {
		return base
	}
	return base + "_" + strings.Join(typeArgs, "_")
}

// Instantiate returns the concrete Def for base<typeArgs...>, substituting
// each type parameter's occurrences in the field list and caching the
// result under its mangled name so repeated instantiations with the same
// arguments share one Def.
func (r *Registry) Instantiate(base string, typeArgs []*ast.Type) (*Def, error) {
	generic, ok := r.defs[base]
	if !ok {
		return nil, fmt.Errorf("unknown struct: %s", base)
	}
	if len(typeArgs) != len(generic.TypeParams) {
		return nil, fmt.Errorf("struct %s expects %d type argument(s), got %d", base, len(generic.TypeParams), len(typeArgs))
	}
	if len(generic.TypeParams) == 0 {
		return generic, nil
	}

	rendered := make([]string, len(typeArgs))
	subst := map[string]*ast.Type{}
	for i, p := range generic.TypeParams {
		rendered[i] = renderType(typeArgs[i])
		subst[p] = typeArgs[i]
	}
	mangled := Mangle(base, rendered)
	if cached, ok := r.monomorphCache[mangled]; ok {
		return cached, nil
	}

	fields := make([]ast.FieldDecl, len(generic.Fields))
	for i, f := range generic.Fields {
		fields[i] = ast.FieldDecl{Name: f.Name, Type: substitute(f.Type, subst)}
	}
	concrete := &Def{Name: mangled, Fields: fields}
	r.monomorphCache[mangled] = concrete
	return concrete, nil
}

// substitute replaces every TypeParam occurrence in t with its bound type
// from subst, recursing into List/Dict/Union element types.
func substitute(t *ast.Type, subst map[string]*ast.Type) *ast.Type {
	if t == nil {
		return nil
	}
	if t.Kind == ast.KindTypeParam {
		if bound, ok := subst[t.ParamName]; ok {
			return bound
		}
		return t
	}
	out := *t
	out.Elem = substitute(t.Elem, subst)
	out.Key = substitute(t.Key, subst)
	out.Value = substitute(t.Value, subst)
	if t.Union != nil {
		out.Union = make([]*ast.Type, len(t.Union))
		for i, m := range t.Union {
			out.Union[i] = substitute(m, subst)
		}
	}
	return &out
}

func renderType(t *ast.Type) string {
	// Renders a type argument as a mangled-name component. Unlike
	// runtime.TypeString it joins nested types with "_" (List_int,
	// Dict_string_int), drops the nullable marker, and renders any other
	// kind as "t".
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case ast.KindInt:
		return "int"
	case ast.KindFloat:
		return "float"
	case ast.KindString:
		return "string"
	case ast.KindBool:
		return "bool"
	case ast.KindAny:
		return "any"
	case ast.KindList:
		return "List_" + renderType(t.Elem)
	case ast.KindDict:
		return "Dict_" + renderType(t.Key) + "_" + renderType(t.Value)
	case ast.KindStruct, ast.KindEnum:
		return t.StructName
	default:
		return "t"
	}
}
