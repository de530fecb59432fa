package interp

import (
	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/runtime"
	"github.com/naab-lang/naab/pkg/ast"
)

// execBlock runs a statement sequence in env. Before walking it statement
// by statement, the parallel planner gets a chance to batch runs of
// adjacent independent polyglot assignments.
func (in *Interpreter) execBlock(b *ast.Block, env *runtime.Environment) error {
	stmts := b.Stmts
	for i := 0; i < len(stmts); {
		if in.parallel {
			if n, err := in.tryParallelRun(stmts[i:], env); n > 0 {
				if err != nil {
					return err
				}
				i += n
				continue
			}
		}
		in.current = env
		if err := in.execStmt(stmts[i], env); err != nil {
			return err
		}
		i++
	}
	return nil
}

// execStmt executes one statement. The GC may only run between statements,
// which is exactly where track sites fire.
func (in *Interpreter) execStmt(s ast.Stmt, env *runtime.Environment) error {
	switch st := s.(type) {
	case *ast.LetStmt:
		v, err := in.evalExpr(st.Value, env)
		if err != nil {
			return err
		}
		env.ForceDefine(st.Name, v)
		in.gc.TrackAllocation(v, env)
		return nil

	case *ast.ExprStmt:
		_, err := in.evalExpr(st.X, env)
		return err

	case *ast.IfStmt:
		cond, err := in.evalExpr(st.Cond, env)
		if err != nil {
			return err
		}
		if runtime.Truthy(cond) {
			return in.execBlock(st.Then, env.Child())
		}
		if st.Else != nil {
			return in.execBlock(st.Else, env.Child())
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := in.evalExpr(st.Cond, env)
			if err != nil {
				return err
			}
			if !runtime.Truthy(cond) {
				return nil
			}
			err = in.execBlock(st.Body, env.Child())
			switch err.(type) {
			case breakSignal:
				return nil
			case continueSignal, nil:
				continue
			default:
				return err
			}
		}

	case *ast.ForInStmt:
		return in.execForIn(st, env)

	case *ast.BreakStmt:
		return breakSignal{}

	case *ast.ContinueStmt:
		return continueSignal{}

	case *ast.ReturnStmt:
		if st.Value == nil {
			return returnSignal{value: runtime.Null}
		}
		v, err := in.evalExpr(st.Value, env)
		if err != nil {
			return err
		}
		return returnSignal{value: v}

	case *ast.ThrowStmt:
		v, err := in.evalExpr(st.Value, env)
		if err != nil {
			return err
		}
		return throwValue(v, in.posOf(st))

	case *ast.TryStmt:
		return in.execTry(st, env)

	default:
		return naaberrors.New(naaberrors.TypeError, in.posOf(s), "unknown statement node %T", s)
	}
}

func (in *Interpreter) execForIn(st *ast.ForInStmt, env *runtime.Environment) error {
	iter, err := in.evalExpr(st.Iter, env)
	if err != nil {
		return err
	}

	var items []runtime.Value
	switch x := iter.(type) {
	case *runtime.ListValue:
		items = x.Elems
	case *runtime.RangeValue:
		items = x.Items()
	default:
		return naaberrors.New(naaberrors.TypeError, in.posOf(st),
			"for..in requires a List or Range, got %s", iter.Kind())
	}

	body := env.Child()
	for _, item := range items {
		body.ForceDefine(st.Var, item)
		err := in.execBlock(st.Body, body)
		switch err.(type) {
		case breakSignal:
			return nil
		case continueSignal, nil:
			continue
		default:
			return err
		}
	}
	return nil
}

// execTry: catch receives host-thrown values and wrapped foreign/runtime
// errors alike; finally runs on every exit path, including a rethrow from
// the catch block.
func (in *Interpreter) execTry(st *ast.TryStmt, env *runtime.Environment) error {
	err := in.execBlock(st.Try, env.Child())

	if err != nil && !isControl(err) && st.Catch != nil {
		thrown := asThrown(err)
		catchEnv := env.Child()
		catchEnv.ForceDefine(st.CatchName, thrown.value)
		err = in.execBlock(st.Catch, catchEnv)
	}

	if st.Finally != nil {
		if ferr := in.execBlock(st.Finally, env.Child()); ferr != nil {
			// A throw inside finally supersedes the in-flight outcome.
			return ferr
		}
	}
	return err
}
