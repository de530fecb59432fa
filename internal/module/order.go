package module

import (
	"os"

	naaberrors "github.com/naab-lang/naab/internal/errors"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadOrder computes a topological ordering of every module transitively
// reachable from roots, dependencies before dependents, so each module's
// top-level statements can execute after everything it uses.
// It re-detects cycles via the recursion stack (Load already rejects them
// at parse time, but a caller may build a Registry by hand in tests).
func (r *Registry) LoadOrder(roots []string) ([]string, error) {
	var order []string
	visited := map[string]bool{}
	onStack := map[string]bool{}

	var visit func(path string) error
	visit = func(path string) error {
		if visited[path] {
			return nil
		}
		if onStack[path] {
			return naaberrors.New(naaberrors.CircularImport, naaberrors.Position{}, "circular import involving module %s", path)
		}
		onStack[path] = true
		m, ok := r.modules[path]
		if !ok {
			return naaberrors.New(naaberrors.ModuleNotFound, naaberrors.Position{}, "module not found: %s", path)
		}
		for _, dep := range m.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		onStack[path] = false
		visited[path] = true
		order = append(order, path)
		return nil
	}

	for _, root := range roots {
		if err := visit(root); err != nil {
			return nil, err
		}
	}
	return order, nil
}
