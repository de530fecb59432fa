package interp

import (
	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/polyglot"
	"github.com/naab-lang/naab/internal/runtime"
	"github.com/naab-lang/naab/pkg/ast"
)

// evalPolyglot runs a single polyglot block sequentially: resolve the bound
// variables, hand them to the engine, and unmarshal the result.
func (in *Interpreter) evalPolyglot(x *ast.PolyglotExpr, env *runtime.Environment) (runtime.Value, error) {
	bound, err := in.resolveBindings(x, env)
	if err != nil {
		return nil, err
	}

	in.stack.Push(runtime.Frame{Language: polyglot.CanonicalLang(x.Language), Callable: "<polyglot>", Source: in.file, Line: x.Position().Line})
	defer in.stack.Pop()

	in.tracef("polyglot %s block (%d binding(s))", x.Language, len(bound))
	v, err := in.engine.Execute(x.Language, x.Code, bound)
	if err != nil {
		return nil, err
	}
	in.gc.TrackAllocation(v, env)
	return v, nil
}

func (in *Interpreter) resolveBindings(x *ast.PolyglotExpr, env *runtime.Environment) ([]polyglot.Binding, error) {
	bound := make([]polyglot.Binding, 0, len(x.BoundVars))
	for _, name := range x.BoundVars {
		v, ok := env.Get(name)
		if !ok {
			return nil, naaberrors.New(naaberrors.NameError, in.posOf(x),
				"polyglot block binds undefined variable: %s", name).
				WithAlternatives(name, env.Names())
		}
		bound = append(bound, polyglot.Binding{Name: name, Value: v})
	}
	return bound, nil
}

// polyglotAssign matches the two statement shapes the parallel planner
// understands: `let name = <<...>>` and `name = <<...>>`.
func polyglotAssign(s ast.Stmt) (name string, isLet bool, pg *ast.PolyglotExpr) {
	switch st := s.(type) {
	case *ast.LetStmt:
		if p, ok := st.Value.(*ast.PolyglotExpr); ok {
			return st.Name, true, p
		}
	case *ast.ExprStmt:
		if as, ok := st.X.(*ast.AssignExpr); ok {
			if p, ok := as.Rhs.(*ast.PolyglotExpr); ok {
				if id, ok := as.Lhs.(*ast.Ident); ok {
					return id.Name, false, p
				}
			}
		}
	}
	return "", false, nil
}

// tryParallelRun inspects the run of adjacent polyglot-assignment
// statements at the head of stmts. Two or more form a plannable region:
// blocks are grouped by hazard analysis, each group's blocks run
// concurrently over deep-copied binding snapshots, and results merge back
// into the live environment in source order before the next group
// starts. Returns the number of statements consumed, or 0 when
// the head of stmts is not a parallel region.
func (in *Interpreter) tryParallelRun(stmts []ast.Stmt, env *runtime.Environment) (int, error) {
	type site struct {
		name  string
		isLet bool
		pg    *ast.PolyglotExpr
	}
	var sites []site
	for _, s := range stmts {
		name, isLet, pg := polyglotAssign(s)
		if pg == nil {
			break
		}
		sites = append(sites, site{name: name, isLet: isLet, pg: pg})
	}
	if len(sites) < 2 {
		return 0, nil
	}

	blocks := make([]polyglot.Block, len(sites))
	for i, s := range sites {
		blocks[i] = polyglot.Block{
			Index:    i,
			Language: s.pg.Language,
			Code:     s.pg.Code,
			Reads:    s.pg.BoundVars,
			Writes:   []string{s.name},
		}
	}

	for _, group := range polyglot.Plan(blocks) {
		// Snapshot each block's reads before dispatch: workers never touch
		// the live environment.
		snapshots := make(map[int][]polyglot.Binding, len(group))
		for _, b := range group {
			bound, err := in.resolveBindings(sites[b.Index].pg, env)
			if err != nil {
				return len(sites), err
			}
			copied := make([]polyglot.Binding, len(bound))
			for j, bd := range bound {
				copied[j] = polyglot.Binding{Name: bd.Name, Value: runtime.DeepCopy(bd.Value)}
			}
			snapshots[b.Index] = copied
		}

		if len(group) > 1 {
			in.tracef("parallel polyglot group: %d block(s)", len(group))
		}
		results := polyglot.RunGroups([][]polyglot.Block{group}, func(b polyglot.Block) (runtime.Value, error) {
			return in.engine.Execute(b.Language, b.Code, snapshots[b.Index])
		})

		// Merge in source order on the host thread; automatic collection
		// stays quiet during the merge (no track sites fire here).
		for _, r := range results {
			if r.Err != nil {
				return len(sites), r.Err
			}
			s := sites[r.Index]
			if s.isLet {
				env.ForceDefine(s.name, r.Value)
			} else if err := env.Set(s.name, r.Value); err != nil {
				return len(sites), naaberrors.New(naaberrors.NameError, in.posOf(s.pg),
					"cannot assign to undefined variable: %s", s.name)
			}
		}
	}

	// Track the merged allocations only after every group has joined.
	for _, s := range sites {
		if v, ok := env.Get(s.name); ok {
			in.gc.TrackAllocation(v, env)
		}
	}
	return len(sites), nil
}
