package interp

import (
	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/module"
	"github.com/naab-lang/naab/internal/runtime"
	"github.com/naab-lang/naab/pkg/ast"
)

// moduleValue is the namespace a `use` statement binds under its alias.
// Member access resolves against the module's private environment, limited
// to exported names.
type moduleValue struct {
	mod *module.Module
	env *runtime.Environment
}

func (m *moduleValue) Kind() string   { return "MODULE" }
func (m *moduleValue) String() string { return "<module " + m.mod.Path + ">" }

// CapturedEnv exposes the module environment to the cycle collector.
func (m *moduleValue) CapturedEnv() *runtime.Environment { return m.env }

func (m *moduleValue) member(in *Interpreter, name string, pos naaberrors.Position) (runtime.Value, error) {
	if !m.mod.Exports[name] {
		return nil, naaberrors.New(naaberrors.NameError, pos,
			"module %s does not export %s", m.mod.Path, name).
			WithAlternatives(name, m.mod.ExportNames())
	}
	v, ok := m.env.Get(name)
	if !ok {
		return nil, naaberrors.New(naaberrors.NameError, pos,
			"module %s has no binding %s", m.mod.Path, name).
			WithAlternatives(name, m.mod.ExportNames())
	}
	return v, nil
}

// execUses resolves and executes a program's imports in dependency order
// (leaves first), binding each module under its alias. Each module's
// top-level runs exactly once per process regardless of how many importers
// name it.
func (in *Interpreter) execUses(uses []*ast.UseStmt, env *runtime.Environment) error {
	if len(uses) == 0 {
		return nil
	}

	var roots []string
	for _, u := range uses {
		if _, err := in.modules.Load(u.Path); err != nil {
			return err
		}
		roots = append(roots, u.Path)
	}

	order, err := in.modules.LoadOrder(roots)
	if err != nil {
		return err
	}
	for _, path := range order {
		if err := in.execModule(path); err != nil {
			return err
		}
	}

	for _, u := range uses {
		m, _ := in.modules.Get(u.Path)
		env.ForceDefine(u.Alias, &moduleValue{mod: m, env: m.Env.(*runtime.Environment)})
	}
	return nil
}

// execModule runs a module's top-level exactly once: declarations install,
// non-declaration statements run, and the module's own imports are bound —
// but its main block, if any, never executes on import.
func (in *Interpreter) execModule(path string) error {
	m, ok := in.modules.Get(path)
	if !ok {
		return naaberrors.New(naaberrors.ModuleNotFound, naaberrors.Position{}, "module not loaded: %s", path)
	}
	if m.Executed() {
		return nil
	}
	// Mark before running so self-referential lookups during execution do
	// not re-enter.
	m.MarkExecuted()

	menv := in.globals.Child()
	m.Env = menv

	// Bind this module's own imports; dependencies already executed in
	// topological order.
	for _, u := range m.Program.Uses {
		dep, ok := in.modules.Get(u.Path)
		if !ok {
			return naaberrors.New(naaberrors.ModuleNotFound, naaberrors.Position{}, "module not loaded: %s", u.Path)
		}
		menv.ForceDefine(u.Alias, &moduleValue{mod: dep, env: dep.Env.(*runtime.Environment)})
	}

	prevFile := in.file
	in.file = m.FilePath
	defer func() { in.file = prevFile }()

	in.gc.PushRoot(menv)
	defer in.gc.PopRoot()

	if err := in.installDecls(m.Program, menv); err != nil {
		return err
	}
	// Top-level statements run once at import time; the module's main
	// block, if any, does not.
	for _, s := range m.Program.Stmts {
		in.current = menv
		if err := in.execStmt(s, menv); err != nil {
			return err
		}
	}
	return nil
}
