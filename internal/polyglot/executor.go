// Package polyglot implements the foreign-language execution subsystem:
// one executor per supported language, host↔foreign value marshalling, a
// content-addressed compilation cache, and the dependency analyzer plus
// worker pool that let independent blocks run concurrently.
package polyglot

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/runtime"
)

// DefaultTimeout is the wall-clock limit applied to each foreign execution
// unless overridden.
const DefaultTimeout = 30 * time.Second

// Binding is one host variable surfaced inside a foreign block, in source
// order.
type Binding struct {
	Name  string
	Value runtime.Value
}

// Executor is the per-language execution contract. Compiled languages
// additionally implement CachedExecutor.
type Executor interface {
	// Supports reports whether this executor handles the given canonical
	// language tag. Engine.Execute maps aliases (e.g. "js" for "javascript")
	// through CanonicalLang before asking.
	Supports(lang string) bool
	// Execute runs code with the given bindings under the timeout and
	// returns the captured result value.
	Execute(ctx context.Context, code string, bound []Binding) (runtime.Value, error)
}

// CachedExecutor is implemented by executors for compiled languages whose
// artifacts are reusable across runs.
type CachedExecutor interface {
	Executor
	// CompileAndCache compiles code and returns an opaque handle; it is
	// idempotent and content-addressed via the engine's cache.
	CompileAndCache(ctx context.Context, code string, deps []string) (string, error)
	// RunCached runs a previously compiled artifact.
	RunCached(ctx context.Context, handle string, bound []Binding) (runtime.Value, error)
}

// Engine owns the language registry, the compilation cache, and the
// default timeout. It is the single entry point the interpreter talks to.
type Engine struct {
	executors []Executor
	cache     *Cache
	disk      *DiskCache // nil unless a cache dir was configured
	timeout   time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides the default per-block wall-clock limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithDiskCache persists compiled artifacts under dir so cache hits survive
// restarts.
func WithDiskCache(dir string) Option {
	return func(e *Engine) { e.disk = NewDiskCache(dir) }
}

// NewEngine creates an Engine with every supported language registered.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cache:   NewCache(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.executors = []Executor{
		newPythonExecutor(),
		newJavaScriptExecutor(),
		newBashExecutor(),
		newRubyExecutor(),
		newCompiledExecutor(langCpp, e),
		newCompiledExecutor(langRust, e),
		newCompiledExecutor(langGo, e),
		newCompiledExecutor(langCSharp, e),
	}
	return e
}

// Timeout returns the engine's per-block wall-clock limit.
func (e *Engine) Timeout() time.Duration { return e.timeout }

// Register installs an additional executor ahead of the built-in ones, so
// embedders and tests can substitute a language implementation.
func (e *Engine) Register(ex Executor) {
	e.executors = append([]Executor{ex}, e.executors...)
}

// Execute dispatches one polyglot block: normalize the language tag, find
// its executor, run under the timeout, and wrap failures into the uniform
// ForeignError envelope.
func (e *Engine) Execute(lang, code string, bound []Binding) (runtime.Value, error) {
	canonical := CanonicalLang(lang)
	ex := e.executorFor(canonical)
	if ex == nil {
		return nil, naaberrors.New(naaberrors.ForeignError, naaberrors.Position{},
			"unsupported polyglot language: %s", lang)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	result, err := ex.Execute(ctx, code, bound)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, naaberrors.New(naaberrors.ExecutionTimeout, naaberrors.Position{},
				"%s polyglot block exceeded %s timeout", canonical, e.timeout)
		}
		return nil, WrapForeignError(canonical, code, err)
	}
	return result, nil
}

func (e *Engine) executorFor(lang string) Executor {
	for _, ex := range e.executors {
		if ex.Supports(lang) {
			return ex
		}
	}
	return nil
}

// CanonicalLang maps a language tag or alias to its canonical form.
func CanonicalLang(lang string) string {
	switch strings.ToLower(lang) {
	case "js", "javascript":
		return "javascript"
	case "sh", "shell", "bash":
		return "bash"
	case "py", "python":
		return "python"
	case "c++", "cpp":
		return "cpp"
	case "cs", "csharp", "c#":
		return "csharp"
	default:
		return strings.ToLower(lang)
	}
}

// WrapForeignError produces the standardized host exception envelope for a
// foreign runtime failure.
func WrapForeignError(lang, code string, cause error) error {
	preview := code
	if len(preview) > 200 {
		preview = preview[:200]
	}
	return &naaberrors.NaabError{
		Kind:    naaberrors.ForeignError,
		Message: fmt.Sprintf("Error in %s polyglot block: %v\n  Block preview: %s\n  Hint: %s", langTitle(lang), cause, preview, hintFor(lang)),
		Cause:   cause,
	}
}

func langTitle(lang string) string {
	switch lang {
	case "python":
		return "Python"
	case "javascript":
		return "JavaScript"
	case "bash":
		return "Bash"
	case "ruby":
		return "Ruby"
	case "cpp":
		return "C++"
	case "rust":
		return "Rust"
	case "go":
		return "Go"
	case "csharp":
		return "C#"
	}
	return lang
}

func hintFor(lang string) string {
	switch lang {
	case "python":
		return "check indentation; a single expression is captured directly, statements must assign to result"
	case "javascript":
		return "the block runs inside a function; use return to produce a value"
	case "bash":
		return "inspect the returned exit_code and stderr fields"
	case "ruby":
		return "the last evaluated expression is the block's value"
	case "cpp":
		return "the block body runs inside main(); print the result to stdout"
	case "rust":
		return "the block body runs inside fn main(); print the result to stdout"
	case "go":
		return "the block body runs inside func main(); print the result to stdout"
	case "csharp":
		return "the block body runs inside Main(); print the result to stdout"
	}
	return "verify the foreign toolchain is installed and on PATH"
}

// runCommand executes an already-built *exec.Cmd under ctx, returning
// captured stdout and stderr. The child is placed in its own process group
// so a timeout kills the whole tree, and it is always reaped.
func runCommand(ctx context.Context, cmd *exec.Cmd) (stdout, stderr string, err error) {
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return "", "", err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		// Kill the process group, then reap.
		syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		<-done
		return outBuf.String(), errBuf.String(), ctx.Err()
	case err := <-done:
		return outBuf.String(), errBuf.String(), err
	}
}
