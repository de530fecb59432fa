package structs

import (
	"testing"

	"github.com/naab-lang/naab/pkg/ast"
	"github.com/naab-lang/naab/internal/runtime"
)

func TestRegistryDeclareAndLookup(t *testing.T) {
	r := NewRegistry()
	decl := &ast.StructDecl{Name: "Point", Fields: []ast.FieldDecl{
		{Name: "x", Type: &ast.Type{Kind: ast.KindInt}},
		{Name: "y", Type: &ast.Type{Kind: ast.KindInt}},
	}}
	if err := r.Declare(decl); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	if _, ok := r.Lookup("Point"); !ok {
		t.Fatal("expected Point to be found")
	}
	if _, ok := r.Lookup("point"); ok {
		t.Fatal("lookup must be case-sensitive")
	}

	if err := r.Declare(decl); err == nil {
		t.Fatal("expected redeclaration to fail")
	}
}

func TestRegistryInstantiateGeneric(t *testing.T) {
	r := NewRegistry()
	decl := &ast.StructDecl{
		Name:       "Box",
		TypeParams: []string{"T"},
		Fields: []ast.FieldDecl{
			{Name: "value", Type: &ast.Type{Kind: ast.KindTypeParam, ParamName: "T"}},
		},
	}
	if err := r.Declare(decl); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	concrete, err := r.Instantiate("Box", []*ast.Type{{Kind: ast.KindInt}})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if concrete.Name != "Box_int" {
		t.Fatalf("expected mangled name Box_int, got %s", concrete.Name)
	}
	if concrete.Fields[0].Type.Kind != ast.KindInt {
		t.Fatalf("expected substituted field type int, got %v", concrete.Fields[0].Type.Kind)
	}

	again, err := r.Instantiate("Box", []*ast.Type{{Kind: ast.KindInt}})
	if err != nil {
		t.Fatalf("Instantiate (cached): %v", err)
	}
	if again != concrete {
		t.Fatal("expected cached instantiation to return the same Def")
	}
}

func TestInferTypeArgs(t *testing.T) {
	r := NewRegistry()
	decl := &ast.StructDecl{
		Name:       "Box",
		TypeParams: []string{"T"},
		Fields: []ast.FieldDecl{
			{Name: "value", Type: &ast.Type{Kind: ast.KindTypeParam, ParamName: "T"}},
		},
	}
	if err := r.Declare(decl); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	def, _ := r.Lookup("Box")

	args, err := InferTypeArgs(def, map[string]runtime.Value{"value": runtime.NewInt(1)}, decl.TypeParams)
	if err != nil {
		t.Fatalf("InferTypeArgs: %v", err)
	}
	if args[0].Kind != ast.KindInt {
		t.Fatalf("expected inferred type int, got %v", args[0].Kind)
	}
}
