package parser

import (
	"testing"

	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/pkg/ast"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src, "test.naab"))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	return prog
}

func TestParseFunctionAndMain(t *testing.T) {
	prog := parse(t, `
fn subtract(a: int, b: int) -> int { return a - b }
main { print(100 |> subtract(30)) }
`)
	if len(prog.Funcs) != 1 {
		t.Fatalf("funcs = %d, want 1", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Name != "subtract" || len(fn.Params) != 2 {
		t.Fatalf("fn = %s/%d params", fn.Name, len(fn.Params))
	}
	if fn.ReturnType == nil || fn.ReturnType.Kind != ast.KindInt {
		t.Fatal("return type not int")
	}
	if prog.Main == nil || len(prog.Main.Stmts) != 1 {
		t.Fatal("main block missing or wrong size")
	}

	es, ok := prog.Main.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("stmt = %T, want ExprStmt", prog.Main.Stmts[0])
	}
	call, ok := es.X.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expr = %T, want CallExpr", es.X)
	}
	pipe, ok := call.Args[0].(*ast.PipelineExpr)
	if !ok {
		t.Fatalf("arg = %T, want PipelineExpr", call.Args[0])
	}
	if len(pipe.Call.Args) != 1 {
		t.Fatalf("pipeline call args = %d, want 1 (x is spliced at eval time)", len(pipe.Call.Args))
	}
}

func TestParseStructDecl(t *testing.T) {
	prog := parse(t, `
struct Pair<T, U> { first: T, second: U }
struct Box { value: int }
`)
	if len(prog.Structs) != 2 {
		t.Fatalf("structs = %d, want 2", len(prog.Structs))
	}
	pair := prog.Structs[0]
	if len(pair.TypeParams) != 2 || pair.TypeParams[0] != "T" {
		t.Fatalf("TypeParams = %v", pair.TypeParams)
	}
	if pair.Fields[0].Type.Kind != ast.KindTypeParam || pair.Fields[0].Type.ParamName != "T" {
		t.Fatalf("first field type = %+v, want TypeParam T", pair.Fields[0].Type)
	}
	box := prog.Structs[1]
	if box.TypeParams != nil || box.Fields[0].Type.Kind != ast.KindInt {
		t.Fatalf("Box parsed wrong: %+v", box)
	}
}

func TestParseRefParam(t *testing.T) {
	prog := parse(t, `fn by_ref(b: ref Box) { b.value = 999 }`)
	param := prog.Funcs[0].Params[0]
	if !param.IsRef {
		t.Fatal("param not marked ref")
	}
	if param.Type.Kind != ast.KindStruct || param.Type.StructName != "Box" {
		t.Fatalf("param type = %+v", param.Type)
	}
}

func TestParseStructLiteralVsBlock(t *testing.T) {
	prog := parse(t, `
main {
  let x = Box { value: 1 }
  if x { print(1) }
  while x { break }
}
`)
	let := prog.Main.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.StructLit); !ok {
		t.Fatalf("let value = %T, want StructLit", let.Value)
	}
	if _, ok := prog.Main.Stmts[1].(*ast.IfStmt); !ok {
		t.Fatalf("stmt 1 = %T, want IfStmt", prog.Main.Stmts[1])
	}
	if _, ok := prog.Main.Stmts[2].(*ast.WhileStmt); !ok {
		t.Fatalf("stmt 2 = %T, want WhileStmt", prog.Main.Stmts[2])
	}
}

func TestParseUse(t *testing.T) {
	prog := parse(t, "use math.linear as lin\nuse strings\n")
	if len(prog.Uses) != 2 {
		t.Fatalf("uses = %d, want 2", len(prog.Uses))
	}
	if prog.Uses[0].Path != "math.linear" || prog.Uses[0].Alias != "lin" {
		t.Fatalf("use 0 = %+v", prog.Uses[0])
	}
	if prog.Uses[1].Path != "strings" || prog.Uses[1].Alias != "strings" {
		t.Fatalf("use 1 = %+v", prog.Uses[1])
	}
}

func TestParseExportFn(t *testing.T) {
	prog := parse(t, `export fn add(a: int, b: int) -> int { return a + b }`)
	if !prog.Funcs[0].Exported {
		t.Fatal("fn not marked exported")
	}
}

func TestParsePolyglotExpr(t *testing.T) {
	prog := parse(t, `
main {
  let xs = [1, 2, 3]
  let doubled = <<python[xs]
[x*2 for x in xs]
>>
}
`)
	let := prog.Main.Stmts[1].(*ast.LetStmt)
	pg, ok := let.Value.(*ast.PolyglotExpr)
	if !ok {
		t.Fatalf("value = %T, want PolyglotExpr", let.Value)
	}
	if pg.Language != "python" {
		t.Fatalf("language = %q", pg.Language)
	}
	if len(pg.BoundVars) != 1 || pg.BoundVars[0] != "xs" {
		t.Fatalf("bound vars = %v", pg.BoundVars)
	}
	if pg.Code != "[x*2 for x in xs]" {
		t.Fatalf("code = %q", pg.Code)
	}
	if pg.AssignTo != "doubled" {
		t.Fatalf("assignTo = %q", pg.AssignTo)
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := parse(t, `
main {
  try { throw "boom" } catch (e) { print(e) } finally { print("done") }
}
`)
	ts := prog.Main.Stmts[0].(*ast.TryStmt)
	if ts.CatchName != "e" || ts.Catch == nil || ts.Finally == nil {
		t.Fatalf("try = %+v", ts)
	}
}

func TestParseTypes(t *testing.T) {
	prog := parse(t, `fn f(a: List<int>, b: Dict<string, float>, c: int?, d: int|string) { }`)
	params := prog.Funcs[0].Params
	if params[0].Type.Kind != ast.KindList || params[0].Type.Elem.Kind != ast.KindInt {
		t.Fatalf("a = %+v", params[0].Type)
	}
	if params[1].Type.Kind != ast.KindDict || params[1].Type.Value.Kind != ast.KindFloat {
		t.Fatalf("b = %+v", params[1].Type)
	}
	if !params[2].Type.IsNullable {
		t.Fatalf("c = %+v", params[2].Type)
	}
	if params[3].Type.Kind != ast.KindUnion || len(params[3].Type.Union) != 2 {
		t.Fatalf("d = %+v", params[3].Type)
	}
}

func TestParseDefaultParams(t *testing.T) {
	prog := parse(t, `fn greet(name: string, punct: string = "!") { }`)
	params := prog.Funcs[0].Params
	if params[1].HasDefault == false {
		t.Fatal("punct has no default")
	}
	if lit, ok := params[1].Default.(*ast.StringLit); !ok || lit.Value != "!" {
		t.Fatalf("default = %#v", params[1].Default)
	}
}

func TestParseLambda(t *testing.T) {
	prog := parse(t, `
main {
  let double = fn (x: int) -> int { return x * 2 }
  print(double(21))
}
`)
	let := prog.Main.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.LambdaExpr); !ok {
		t.Fatalf("value = %T, want LambdaExpr", let.Value)
	}
}

func TestParseForAndAssignTargets(t *testing.T) {
	prog := parse(t, `
main {
  for v in [1, 2, 3] { print(v) }
  let d = {}
  d["k"] = 1
  let b = Box { value: 0 }
  b.value = 5
}
`)
	if _, ok := prog.Main.Stmts[0].(*ast.ForInStmt); !ok {
		t.Fatalf("stmt 0 = %T", prog.Main.Stmts[0])
	}
	idx := prog.Main.Stmts[2].(*ast.ExprStmt).X.(*ast.AssignExpr)
	if _, ok := idx.Lhs.(*ast.IndexExpr); !ok {
		t.Fatalf("lhs = %T, want IndexExpr", idx.Lhs)
	}
	mem := prog.Main.Stmts[4].(*ast.ExprStmt).X.(*ast.AssignExpr)
	if _, ok := mem.Lhs.(*ast.MemberExpr); !ok {
		t.Fatalf("lhs = %T, want MemberExpr", mem.Lhs)
	}
}

func TestParseEnumDecl(t *testing.T) {
	prog := parse(t, `enum Color { Red, Green, Blue }`)
	if len(prog.Enums) != 1 || len(prog.Enums[0].Variants) != 3 {
		t.Fatalf("enums = %+v", prog.Enums)
	}
}

func TestParseErrorsReported(t *testing.T) {
	p := New(lexer.New("fn 42() {}", "bad.naab"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected parse errors")
	}
}
