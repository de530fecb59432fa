package polyglot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/runtime"
)

const (
	langCpp    = "cpp"
	langRust   = "rust"
	langGo     = "go"
	langCSharp = "csharp"
)

// compiledExecutor covers the four compiled languages. The block body is
// wrapped in a main function with the bindings declared as native
// constants, compiled once per fingerprint, and the binary's stdout is
// parsed as the result value. Compilation is content-addressed through
// the engine's cache (and the optional disk layer), which is what turns a
// ~1s first compile into sub-10ms reuse.
type compiledExecutor struct {
	lang   string
	engine *Engine
}

func newCompiledExecutor(lang string, engine *Engine) *compiledExecutor {
	return &compiledExecutor{lang: lang, engine: engine}
}

func (e *compiledExecutor) Supports(lang string) bool { return lang == e.lang }

func (e *compiledExecutor) Execute(ctx context.Context, code string, bound []Binding) (runtime.Value, error) {
	source := e.wrapProgram(code, bound)
	handle, err := e.CompileAndCache(ctx, source, nil)
	if err != nil {
		return nil, err
	}
	return e.RunCached(ctx, handle, bound)
}

// CompileAndCache compiles a complete wrapped program, returning the binary
// path as the opaque handle. Idempotent per fingerprint.
func (e *compiledExecutor) CompileAndCache(ctx context.Context, source string, deps []string) (string, error) {
	fp := Fingerprint(e.lang, source, deps)

	if handle, ok := e.engine.cache.Get(fp); ok {
		if _, err := os.Stat(handle); err == nil {
			return handle, nil
		}
	}
	if e.engine.disk != nil {
		if handle, ok := e.engine.disk.Get(fp, e.lang, source, deps); ok {
			e.engine.cache.Put(fp, handle, time.Now())
			return handle, nil
		}
	}

	handle, err := e.compile(ctx, fp, source)
	if err != nil {
		return "", err
	}
	e.engine.cache.Put(fp, handle, time.Now())
	if e.engine.disk != nil {
		// Best effort: the in-memory cache still serves this process when
		// persistence fails.
		_ = e.engine.disk.Put(fp, handle, source)
	}
	return handle, nil
}

// RunCached executes a previously compiled binary.
func (e *compiledExecutor) RunCached(ctx context.Context, handle string, _ []Binding) (runtime.Value, error) {
	var cmd *exec.Cmd
	if e.lang == langCSharp && strings.HasSuffix(handle, ".exe") {
		cmd = exec.Command("mono", handle)
	} else {
		cmd = exec.Command(handle)
	}
	stdout, stderr, err := runCommand(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr))
	}
	return ParseResult(stdout), nil
}

func (e *compiledExecutor) compile(ctx context.Context, fingerprint, source string) (string, error) {
	dir := filepath.Join(os.TempDir(), "naab-build", fingerprint[:16])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	var srcFile, binFile string
	var cmd *exec.Cmd
	switch e.lang {
	case langCpp:
		srcFile = filepath.Join(dir, "block.cpp")
		binFile = filepath.Join(dir, "block")
		cmd = exec.Command(cxxCompiler(), "-O2", "-o", binFile, srcFile)
	case langRust:
		srcFile = filepath.Join(dir, "block.rs")
		binFile = filepath.Join(dir, "block")
		cmd = exec.Command("rustc", "-O", "-o", binFile, srcFile)
	case langGo:
		srcFile = filepath.Join(dir, "block.go")
		binFile = filepath.Join(dir, "block")
		cmd = exec.Command("go", "build", "-o", binFile, srcFile)
	case langCSharp:
		srcFile = filepath.Join(dir, "block.cs")
		binFile = filepath.Join(dir, "block.exe")
		cmd = exec.Command("csc", "-nologo", "-out:"+binFile, srcFile)
	default:
		return "", fmt.Errorf("not a compiled language: %s", e.lang)
	}

	if err := os.WriteFile(srcFile, []byte(source), 0o644); err != nil {
		return "", err
	}
	_, stderr, err := runCommand(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("compile failed: %v: %s", err, strings.TrimSpace(stderr))
	}
	return binFile, nil
}

func cxxCompiler() string {
	for _, c := range []string{"g++", "clang++", "c++"} {
		if _, err := exec.LookPath(c); err == nil {
			return c
		}
	}
	return "g++"
}

// wrapProgram builds a complete single-file program around the block body.
// If the body already looks like a full program it is used as-is. Otherwise
// the body goes inside main, with a bare final line treated as the
// expression to print.
func (e *compiledExecutor) wrapProgram(code string, bound []Binding) string {
	body, lastExpr := splitLastExpr(code)
	switch e.lang {
	case langCpp:
		if strings.Contains(code, "int main(") {
			return code
		}
		var sb strings.Builder
		sb.WriteString("#include <iostream>\n#include <string>\n#include <vector>\nusing namespace std;\n\nint main() {\n")
		sb.WriteString(e.bindingDecls(bound))
		sb.WriteString(body)
		if lastExpr != "" {
			sb.WriteString("    cout << (" + lastExpr + ") << endl;\n")
		}
		sb.WriteString("    return 0;\n}\n")
		return sb.String()
	case langRust:
		if strings.Contains(code, "fn main(") {
			return code
		}
		var sb strings.Builder
		sb.WriteString("fn main() {\n")
		sb.WriteString(e.bindingDecls(bound))
		sb.WriteString(body)
		if lastExpr != "" {
			sb.WriteString("    println!(\"{}\", " + lastExpr + ");\n")
		}
		sb.WriteString("}\n")
		return sb.String()
	case langGo:
		if strings.Contains(code, "package main") {
			return code
		}
		var sb strings.Builder
		sb.WriteString("package main\n\nimport \"fmt\"\n\nfunc main() {\n")
		sb.WriteString(e.bindingDecls(bound))
		sb.WriteString(body)
		if lastExpr != "" {
			sb.WriteString("\tfmt.Println(" + lastExpr + ")\n")
		} else {
			sb.WriteString("\t_ = fmt.Sprint\n")
		}
		sb.WriteString("}\n")
		return sb.String()
	case langCSharp:
		if strings.Contains(code, "static void Main") || strings.Contains(code, "static int Main") {
			return code
		}
		var sb strings.Builder
		sb.WriteString("using System;\n\nclass Program {\n    static void Main() {\n")
		sb.WriteString(e.bindingDecls(bound))
		sb.WriteString(body)
		if lastExpr != "" {
			sb.WriteString("        Console.WriteLine(" + lastExpr + ");\n")
		}
		sb.WriteString("    }\n}\n")
		return sb.String()
	}
	return code
}

// splitLastExpr separates trailing-expression capture: if the final
// non-blank line carries no statement terminator or closing brace, it is
// the value to print and the preceding lines are the body.
func splitLastExpr(code string) (body, lastExpr string) {
	lines := strings.Split(code, "\n")
	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}
	if last < 0 {
		return "", ""
	}
	candidate := strings.TrimSpace(lines[last])
	if strings.HasSuffix(candidate, ";") || strings.HasSuffix(candidate, "}") || strings.HasSuffix(candidate, "{") {
		return code + "\n", ""
	}
	body = strings.Join(lines[:last], "\n")
	if body != "" {
		body += "\n"
	}
	return body, candidate
}

// bindingDecls declares each bound variable as a native-looking constant in
// the target language.
func (e *compiledExecutor) bindingDecls(bound []Binding) string {
	var sb strings.Builder
	for _, b := range bound {
		switch e.lang {
		case langCpp:
			sb.WriteString("    " + cppDecl(b) + "\n")
		case langRust:
			sb.WriteString("    let " + b.Name + " = " + rustLiteral(b.Value) + ";\n")
		case langGo:
			sb.WriteString("\t" + b.Name + " := " + goLiteral(b.Value) + "\n\t_ = " + b.Name + "\n")
		case langCSharp:
			sb.WriteString("        var " + b.Name + " = " + csharpLiteral(b.Value) + ";\n")
		}
	}
	return sb.String()
}

func cppDecl(b Binding) string {
	switch x := b.Value.(type) {
	case *runtime.IntValue:
		return fmt.Sprintf("long long %s = %d;", b.Name, x.Value)
	case *runtime.FloatValue:
		return fmt.Sprintf("double %s = %s;", b.Name, b.Value.String())
	case *runtime.BoolValue:
		return fmt.Sprintf("bool %s = %t;", b.Name, x.Value)
	default:
		return fmt.Sprintf("std::string %s = %s;", b.Name, ValueToJSON(runtime.NewString(jsonOrString(b.Value))))
	}
}

func rustLiteral(v runtime.Value) string {
	switch x := v.(type) {
	case *runtime.IntValue:
		return fmt.Sprintf("%di64", x.Value)
	case *runtime.FloatValue:
		return fmt.Sprintf("%sf64", v.String())
	case *runtime.BoolValue:
		return fmt.Sprintf("%t", x.Value)
	default:
		return ValueToJSON(runtime.NewString(jsonOrString(v)))
	}
}

func goLiteral(v runtime.Value) string {
	switch x := v.(type) {
	case *runtime.IntValue:
		return fmt.Sprintf("int64(%d)", x.Value)
	case *runtime.FloatValue:
		return v.String()
	case *runtime.BoolValue:
		return fmt.Sprintf("%t", x.Value)
	default:
		return ValueToJSON(runtime.NewString(jsonOrString(v)))
	}
}

func csharpLiteral(v runtime.Value) string {
	switch x := v.(type) {
	case *runtime.IntValue:
		return fmt.Sprintf("%dL", x.Value)
	case *runtime.FloatValue:
		return v.String()
	case *runtime.BoolValue:
		return fmt.Sprintf("%t", x.Value)
	default:
		return ValueToJSON(runtime.NewString(jsonOrString(v)))
	}
}

// jsonOrString renders a compound value as JSON text and a scalar string as
// itself, for embedding as a foreign string constant.
func jsonOrString(v runtime.Value) string {
	if s, ok := v.(*runtime.StringValue); ok {
		return s.Value
	}
	return ValueToJSON(v)
}
