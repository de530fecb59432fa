package polyglot

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/naab-lang/naab/internal/runtime"
)

// javaScriptExecutor runs blocks through node. The code is wrapped in an
// immediately-invoked function expression and the return value is captured
//; a single-expression block gets an implicit return.
type javaScriptExecutor struct {
	bin string
}

func newJavaScriptExecutor() *javaScriptExecutor {
	return &javaScriptExecutor{bin: "node"}
}

func (e *javaScriptExecutor) Supports(lang string) bool { return lang == "javascript" }

func (e *javaScriptExecutor) Execute(ctx context.Context, code string, bound []Binding) (runtime.Value, error) {
	body := code
	if !strings.Contains(code, "return") && !strings.Contains(code, ";") && !strings.Contains(code, "\n") {
		body = "return (" + code + ");"
	}

	var sb strings.Builder
	sb.WriteString(Prologue("javascript", bound))
	sb.WriteString("const __naab_result = (function() {\n")
	sb.WriteString(body)
	sb.WriteString("\n})();\n")
	sb.WriteString("if (__naab_result !== undefined) console.log(JSON.stringify(__naab_result));\n")

	cmd := exec.Command(e.bin, "-e", sb.String())
	stdout, stderr, err := runCommand(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr))
	}
	return ParseResult(stdout), nil
}
