package polyglot

import (
	"os/exec"
	"strings"
	"testing"
	"time"

	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/runtime"
)

func needsBinary(t *testing.T, bin string) {
	t.Helper()
	if _, err := exec.LookPath(bin); err != nil {
		t.Skipf("%s not installed", bin)
	}
}

func TestCanonicalLang(t *testing.T) {
	tests := map[string]string{
		"js": "javascript", "javascript": "javascript",
		"sh": "bash", "shell": "bash", "bash": "bash",
		"py": "python", "python": "python",
		"c++": "cpp", "cpp": "cpp",
		"cs": "csharp", "c#": "csharp",
		"rust": "rust", "go": "go", "ruby": "ruby",
	}
	for in, want := range tests {
		if got := CanonicalLang(in); got != want {
			t.Fatalf("CanonicalLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEngineUnsupportedLanguage(t *testing.T) {
	e := NewEngine()
	_, err := e.Execute("cobol", "DISPLAY 'HI'", nil)
	if !naaberrors.As(err, naaberrors.ForeignError) {
		t.Fatalf("err = %v, want ForeignError", err)
	}
}

func TestPythonExpressionRoundTrip(t *testing.T) {
	needsBinary(t, "python3")
	e := NewEngine()

	xs := runtime.NewList([]runtime.Value{
		runtime.NewInt(1), runtime.NewInt(2), runtime.NewInt(3),
		runtime.NewInt(4), runtime.NewInt(5),
	})
	v, err := e.Execute("python", "[x*2 for x in xs]", []Binding{{Name: "xs", Value: xs}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := runtime.NewList([]runtime.Value{
		runtime.NewInt(2), runtime.NewInt(4), runtime.NewInt(6),
		runtime.NewInt(8), runtime.NewInt(10),
	})
	if !runtime.Equal(v, want) {
		t.Fatalf("got %s, want %s", v, want)
	}
}

func TestPythonStatementBlockResultVariable(t *testing.T) {
	needsBinary(t, "python3")
	e := NewEngine()
	v, err := e.Execute("python", "import math\nresult = math.floor(2.9)", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !runtime.Equal(v, runtime.NewInt(2)) {
		t.Fatalf("got %s", v)
	}
}

func TestPythonForeignErrorEnvelope(t *testing.T) {
	needsBinary(t, "python3")
	e := NewEngine()
	_, err := e.Execute("python", "1/0", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	ne, ok := err.(*naaberrors.NaabError)
	if !ok || ne.Kind != naaberrors.ForeignError {
		t.Fatalf("err = %v", err)
	}
	for _, want := range []string{"Error in Python polyglot block:", "Block preview:", "Hint:"} {
		if !strings.Contains(ne.Message, want) {
			t.Fatalf("envelope missing %q in %q", want, ne.Message)
		}
	}
}

func TestBashReturnsExitCodeStruct(t *testing.T) {
	needsBinary(t, "bash")
	e := NewEngine()
	v, err := e.Execute("bash", "echo out; echo err >&2; exit 3", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	sv, ok := v.(*runtime.StructValue)
	if !ok {
		t.Fatalf("got %s, want STRUCT", v.Kind())
	}
	code, _ := sv.Get("exit_code")
	if !runtime.Equal(code, runtime.NewInt(3)) {
		t.Fatalf("exit_code = %s", code)
	}
	stdout, _ := sv.Get("stdout")
	if stdout.(*runtime.StringValue).Value != "out\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	stderr, _ := sv.Get("stderr")
	if stderr.(*runtime.StringValue).Value != "err\n" {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestBashBindingQuoting(t *testing.T) {
	needsBinary(t, "bash")
	e := NewEngine()
	v, err := e.Execute("bash", `printf '%s' "$msg"`, []Binding{
		{Name: "msg", Value: runtime.NewString("it's a $test")},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	stdout, _ := v.(*runtime.StructValue).Get("stdout")
	if stdout.(*runtime.StringValue).Value != "it's a $test" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestJavaScriptIIFECapture(t *testing.T) {
	needsBinary(t, "node")
	e := NewEngine()
	v, err := e.Execute("js", "xs.map(x => x * 2)", []Binding{
		{Name: "xs", Value: runtime.NewList([]runtime.Value{runtime.NewInt(1), runtime.NewInt(2)})},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := runtime.NewList([]runtime.Value{runtime.NewInt(2), runtime.NewInt(4)})
	if !runtime.Equal(v, want) {
		t.Fatalf("got %s", v)
	}
}

func TestExecutionTimeout(t *testing.T) {
	needsBinary(t, "bash")
	e := NewEngine(WithTimeout(200 * time.Millisecond))
	start := time.Now()
	_, err := e.Execute("bash", "sleep 10", nil)
	if !naaberrors.As(err, naaberrors.ExecutionTimeout) {
		t.Fatalf("err = %v, want ExecutionTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("timeout did not kill the child promptly (%s)", elapsed)
	}
}

func TestCompiledCppCacheHit(t *testing.T) {
	needsBinary(t, "g++")
	e := NewEngine()
	code := "1 + 41"

	v, err := e.Execute("cpp", code, nil)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if !runtime.Equal(v, runtime.NewInt(42)) {
		t.Fatalf("got %s", v)
	}

	_, missesBefore := e.cache.Stats()
	if _, err := e.Execute("cpp", code, nil); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	_, missesAfter := e.cache.Stats()
	if missesAfter != missesBefore {
		t.Fatal("second run must not miss the compilation cache")
	}
}
