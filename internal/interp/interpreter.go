// Package interp is the NAAb tree-walking interpreter: it
// evaluates a typed AST, drives the struct and module registries, triggers
// the cycle collector at allocation sites, and dispatches polyglot blocks
// through internal/polyglot. Evaluation is a type switch over the AST node
// variants (execStmt / evalExpr) rather than a visitor.
package interp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/gc"
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/module"
	"github.com/naab-lang/naab/internal/parser"
	"github.com/naab-lang/naab/internal/polyglot"
	"github.com/naab-lang/naab/internal/runtime"
	"github.com/naab-lang/naab/internal/structs"
	"github.com/naab-lang/naab/pkg/ast"
)

// DefaultGCThreshold is the allocation count between automatic cycle
// collections used when Options.GCThreshold is 0; a negative
// Options.GCThreshold disables automatic collection.
const DefaultGCThreshold = 1000

// Interpreter executes NAAb programs. It is single-threaded: only the
// polyglot parallel planner fans work out, and those workers see deep-copied
// environment snapshots, never the live environment.
type Interpreter struct {
	globals *runtime.Environment
	structs *structs.Registry
	enums   map[string][]string
	modules *module.Registry
	gc      *gc.Collector
	engine  *polyglot.Engine
	stack   runtime.CallStack

	out      io.Writer
	trace    bool
	parallel bool

	file    string // file currently executing, for diagnostics
	current *runtime.Environment
}

// Options configures an Interpreter.
type Options struct {
	Out         io.Writer // defaults to os.Stdout
	SearchPaths []string  // module roots in addition to the entry file's dir
	GCThreshold int       // 0 means DefaultGCThreshold; negative disables automatic collection
	Engine      *polyglot.Engine
	Trace       bool
	NoParallel  bool // force sequential polyglot groups, for debugging
}

// New builds an Interpreter. Search paths are extended from the
// colon-separated NAAB_PATH.
func New(opts Options) *Interpreter {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	threshold := opts.GCThreshold
	switch {
	case threshold == 0:
		threshold = DefaultGCThreshold
	case threshold < 0:
		threshold = 0 // disabled
	}
	engine := opts.Engine
	if engine == nil {
		engine = polyglot.NewEngine()
	}

	searchPaths := append([]string(nil), opts.SearchPaths...)
	if env := os.Getenv("NAAB_PATH"); env != "" {
		searchPaths = append(searchPaths, strings.Split(env, ":")...)
	}

	in := &Interpreter{
		globals:  runtime.NewEnvironment(),
		structs:  structs.NewRegistry(),
		enums:    map[string][]string{},
		gc:       gc.New(threshold),
		engine:   engine,
		out:      opts.Out,
		trace:    opts.Trace,
		parallel: !opts.NoParallel,
	}
	in.modules = module.NewRegistry(searchPaths, sourceParser{})
	in.installBuiltins()
	return in
}

// sourceParser adapts internal/lexer + internal/parser to the module
// registry's Parser interface.
type sourceParser struct{}

func (sourceParser) ParseFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := parser.New(lexer.New(string(src), path))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("parse errors in %s:\n  %s", path, strings.Join(errs, "\n  "))
	}
	return prog, nil
}

// RunFile loads and executes a .naab file as the program entry point: its
// imports resolve relative to its own directory first.
func (in *Interpreter) RunFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	in.modules.AddSearchPath(filepath.Dir(abs))

	prog, err := sourceParser{}.ParseFile(abs)
	if err != nil {
		return err
	}
	return in.Run(prog, abs)
}

// RunSource parses and executes source text, for `naab eval` and tests.
func (in *Interpreter) RunSource(src, name string) error {
	p := parser.New(lexer.New(src, name))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("parse errors:\n  %s", strings.Join(errs, "\n  "))
	}
	return in.Run(prog, name)
}

// Run executes a parsed program: `use` imports in topological order, then
// declarations, then the main block.
func (in *Interpreter) Run(prog *ast.Program, file string) error {
	in.file = file
	env := in.globals

	if err := in.execUses(prog.Uses, env); err != nil {
		return err
	}
	if err := in.installDecls(prog, env); err != nil {
		return err
	}
	for _, s := range prog.Stmts {
		in.current = env
		if err := in.execStmt(s, env); err != nil {
			if thrown, ok := err.(*thrownError); ok {
				return fmt.Errorf("uncaught exception: %s", thrown.value.String())
			}
			return err
		}
	}
	if prog.Main == nil {
		return nil
	}

	in.stack.Push(runtime.Frame{Callable: "main", Source: file})
	defer in.stack.Pop()
	err := in.execBlock(prog.Main, env.Child())
	if thrown, ok := err.(*thrownError); ok {
		return fmt.Errorf("uncaught exception: %s", thrown.value.String())
	}
	return err
}

// installDecls registers struct, enum, and function declarations without
// executing anything.
func (in *Interpreter) installDecls(prog *ast.Program, env *runtime.Environment) error {
	for _, s := range prog.Structs {
		if err := in.structs.Declare(s); err != nil {
			return naaberrors.New(naaberrors.TypeError, in.posOf(s), "%v", err)
		}
	}
	for _, e := range prog.Enums {
		in.enums[e.Name] = e.Variants
	}
	for _, f := range prog.Funcs {
		fn := in.makeFunction(f.Name, f.Params, f.TypeParams, f.Body, env)
		env.ForceDefine(f.Name, fn)
	}
	return nil
}

func (in *Interpreter) makeFunction(name string, params []ast.ParamDecl, typeParams []string, body *ast.Block, env *runtime.Environment) *runtime.FunctionValue {
	info := make([]runtime.ParamInfo, len(params))
	for i, p := range params {
		info[i] = runtime.ParamInfo{
			Name:       p.Name,
			IsRef:      p.IsRef,
			HasDefault: p.HasDefault,
			Default:    p.Default,
		}
	}
	fn := &runtime.FunctionValue{
		Name:       name,
		Params:     info,
		TypeParams: typeParams,
		Body:       body,
		Env:        env,
	}
	return fn
}

// Collect exposes a manual GC trigger to host programs via
// the gc_collect builtin and to embedders. The trace roots at the current
// environment chain so live locals are never swept.
func (in *Interpreter) Collect() int {
	root := in.current
	if root == nil {
		root = in.globals
	}
	return in.gc.Collect(root)
}

// Globals returns the global environment, for tests and embedding.
func (in *Interpreter) Globals() *runtime.Environment { return in.globals }

// StructRegistry exposes the struct registry for inspection in tests.
func (in *Interpreter) StructRegistry() *structs.Registry { return in.structs }

func (in *Interpreter) posOf(n ast.Node) naaberrors.Position {
	p := n.Position()
	if p.File == "" {
		p.File = in.file
	}
	return naaberrors.Position{File: p.File, Line: p.Line, Column: p.Column}
}

func (in *Interpreter) tracef(format string, args ...any) {
	if in.trace {
		fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
	}
}
