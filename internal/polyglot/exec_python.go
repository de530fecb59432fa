package polyglot

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/naab-lang/naab/internal/runtime"
)

// pythonExecutor runs blocks through the system python3 interpreter. A block
// that is a single expression is evaluated and captured directly; a
// statement block is executed and the designated `result` variable is
// consulted.
type pythonExecutor struct {
	bin string
}

func newPythonExecutor() *pythonExecutor {
	bin := "python3"
	if _, err := exec.LookPath(bin); err != nil {
		bin = "python"
	}
	return &pythonExecutor{bin: bin}
}

func (e *pythonExecutor) Supports(lang string) bool { return lang == "python" }

// statementKeywords force statement mode when they open a line at column 1.
// The heuristic is intentionally simple; a tokenizer probe
// could replace it.
var statementKeywords = []string{"if ", "for ", "while ", "import ", "from ", "def ", "class ", "with ", "try:", "try "}

func pythonStatementMode(code string) bool {
	for _, line := range strings.Split(code, "\n") {
		for _, kw := range statementKeywords {
			if strings.HasPrefix(line, kw) {
				return true
			}
		}
		if strings.Contains(line, "=") && !strings.Contains(line, "==") && !strings.HasPrefix(strings.TrimSpace(line), "#") {
			// An assignment statement cannot be part of a bare expression.
			if !strings.ContainsAny(line[:strings.Index(line, "=")], "<>!") {
				return true
			}
		}
	}
	return false
}

func (e *pythonExecutor) Execute(ctx context.Context, code string, bound []Binding) (runtime.Value, error) {
	var sb strings.Builder
	sb.WriteString("import json as __naab_json\n")
	sb.WriteString(Prologue("python", bound))

	if pythonStatementMode(code) {
		sb.WriteString(code)
		sb.WriteString("\ntry:\n    print(__naab_json.dumps(result, default=str))\nexcept NameError:\n    pass\n")
	} else {
		sb.WriteString("__naab_value = (" + code + ")\n")
		sb.WriteString("print(__naab_json.dumps(__naab_value, default=str))\n")
	}

	cmd := exec.Command(e.bin, "-c", sb.String())
	stdout, stderr, err := runCommand(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr))
	}
	return ParseResult(stdout), nil
}
