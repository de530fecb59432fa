package polyglot

import (
	"context"
	"errors"
	"os/exec"

	"github.com/naab-lang/naab/internal/runtime"
)

// bashExecutor runs blocks through bash. A shell block always returns a
// Struct { exit_code: int, stdout: string, stderr: string }; interpreting
// success or failure is the caller's responsibility, so a
// non-zero exit is NOT an error here — only spawn failures and timeouts are.
type bashExecutor struct {
	bin string
}

func newBashExecutor() *bashExecutor {
	return &bashExecutor{bin: "bash"}
}

func (e *bashExecutor) Supports(lang string) bool { return lang == "bash" }

// ShellResultStruct is the type name of the struct a shell block returns.
const ShellResultStruct = "ShellResult"

func (e *bashExecutor) Execute(ctx context.Context, code string, bound []Binding) (runtime.Value, error) {
	script := Prologue("bash", bound) + code

	cmd := exec.Command(e.bin, "-c", script)
	stdout, stderr, err := runCommand(ctx, cmd)

	exitCode := 0
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, err
		}
	}

	return runtime.NewStruct(ShellResultStruct,
		[]string{"exit_code", "stdout", "stderr"},
		[]runtime.Value{
			runtime.NewInt(int64(exitCode)),
			runtime.NewString(stdout),
			runtime.NewString(stderr),
		}), nil
}
