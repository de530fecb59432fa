package polyglot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/naab-lang/naab/internal/runtime"
)

// rubyExecutor runs blocks through ruby. Ruby code goes native multi-line
// via a temporary file; the last evaluated expression is the
// block's value.
type rubyExecutor struct {
	bin string
}

func newRubyExecutor() *rubyExecutor {
	return &rubyExecutor{bin: "ruby"}
}

func (e *rubyExecutor) Supports(lang string) bool { return lang == "ruby" }

func (e *rubyExecutor) Execute(ctx context.Context, code string, bound []Binding) (runtime.Value, error) {
	var sb strings.Builder
	sb.WriteString("require 'json'\n")
	sb.WriteString(Prologue("ruby", bound))
	sb.WriteString("__naab_result = begin\n")
	sb.WriteString(code)
	sb.WriteString("\nend\n")
	sb.WriteString("puts __naab_result.to_json unless __naab_result.nil?\n")

	dir, err := os.MkdirTemp("", "naab-ruby-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	script := filepath.Join(dir, "block.rb")
	if err := os.WriteFile(script, []byte(sb.String()), 0o644); err != nil {
		return nil, err
	}

	cmd := exec.Command(e.bin, script)
	stdout, stderr, err := runCommand(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr))
	}
	return ParseResult(stdout), nil
}
