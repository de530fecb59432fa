// Package module implements the NAAb module system: dotted import paths
// mapped onto the filesystem, parse-once and execute-once caching, cycle
// detection, and topological load ordering. A name-keyed cache with a Load
// entry point that recurses into a module's own dependencies before
// returning it, and a topological sort producing initialization order.
package module

import (
	"path/filepath"
	"strings"

	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/pkg/ast"
)

// Module is one loaded .naab source file, parsed once and cached by path.
type Module struct {
	Path     string // dotted form, e.g. "a.b.c"
	FilePath string // resolved filesystem path
	Program  *ast.Program
	Exports  map[string]bool // exported top-level names, from FuncDecl.Exported
	Deps     []string        // dotted paths this module directly uses
	executed bool
	Env      interface{} // *runtime.Environment, set once executed; typed as interface{} to avoid import cycle
}

// Parser is satisfied by whatever front end turns source text into an
// *ast.Program; module deliberately does not depend on a concrete lexer or
// parser package so it can be tested and reused independently of them.
type Parser interface {
	ParseFile(path string) (*ast.Program, error)
}

// Registry caches parsed modules by dotted path and resolves `use`
// dependency graphs.
type Registry struct {
	searchPaths []string
	parser      Parser
	modules     map[string]*Module
	loading     map[string]bool // in-progress set, for cycle detection
}

func NewRegistry(searchPaths []string, parser Parser) *Registry {
	return &Registry{
		searchPaths: searchPaths,
		parser:      parser,
		modules:     map[string]*Module{},
		loading:     map[string]bool{},
	}
}

// AddSearchPath prepends a module search root; the entry file's own
// directory is added this way so it wins over NAAB_PATH roots.
func (r *Registry) AddSearchPath(dir string) {
	r.searchPaths = append([]string{dir}, r.searchPaths...)
}

// PathToFile converts a dotted module path to its expected relative file
// path: "a.b.c" -> "a/b/c.naab".
func PathToFile(dotted string) string {
	parts := strings.Split(dotted, ".")
	return filepath.Join(parts...) + ".naab"
}

// resolve searches searchPaths for the file backing a dotted path,
// returning the first match.
func (r *Registry) resolve(dotted string) (string, bool) {
	rel := PathToFile(dotted)
	for _, base := range r.searchPaths {
		candidate := filepath.Join(base, rel)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Load parses and caches the module at dotted, recursing into its `use`
// dependencies first so Deps is always populated by the time Load
// returns. A path currently being loaded indicates an import cycle.
func (r *Registry) Load(dotted string) (*Module, error) {
	if r.loading[dotted] {
		return nil, naaberrors.New(naaberrors.CircularImport, naaberrors.Position{}, "circular import involving module %s", dotted)
	}
	if m, ok := r.modules[dotted]; ok {
		return m, nil
	}

	file, ok := r.resolve(dotted)
	if !ok {
		return nil, naaberrors.New(naaberrors.ModuleNotFound, naaberrors.Position{}, "module not found: %s", dotted).
			WithAlternatives(dotted, r.knownPaths())
	}

	r.loading[dotted] = true
	defer delete(r.loading, dotted)

	prog, err := r.parser.ParseFile(file)
	if err != nil {
		return nil, err
	}

	m := &Module{
		Path:     dotted,
		FilePath: file,
		Program:  prog,
		Exports:  map[string]bool{},
	}
	for _, fn := range prog.Funcs {
		if fn.Exported {
			m.Exports[fn.Name] = true
		}
	}
	for _, u := range prog.Uses {
		m.Deps = append(m.Deps, u.Path)
	}
	r.modules[dotted] = m

	for _, dep := range m.Deps {
		if _, err := r.Load(dep); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *Registry) knownPaths() []string {
	out := make([]string, 0, len(r.modules))
	for p := range r.modules {
		out = append(out, p)
	}
	return out
}

// Get returns an already-loaded module without triggering a load.
func (r *Registry) Get(dotted string) (*Module, bool) {
	m, ok := r.modules[dotted]
	return m, ok
}

// MarkExecuted records that a module's top-level statements have run,
// ensuring a module body executes exactly once even if imported by
// multiple other modules.
func (m *Module) MarkExecuted() { m.executed = true }
func (m *Module) Executed() bool { return m.executed }

// ExportNames returns the sorted-by-declaration export list, used for
// "available exports" diagnostics on a failed member access.
func (m *Module) ExportNames() []string {
	out := make([]string, 0, len(m.Exports))
	for _, fn := range m.Program.Funcs {
		if fn.Exported {
			out = append(out, fn.Name)
		}
	}
	return out
}
