package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of a program to w, for debugging and the
// CLI's --dump-ast flag.
func Fprint(w io.Writer, prog *Program) {
	p := printer{w: w}
	p.line(0, "Program")
	for _, u := range prog.Uses {
		p.line(1, "Use %s as %s", u.Path, u.Alias)
	}
	for _, e := range prog.Enums {
		p.line(1, "Enum %s { %s }", e.Name, strings.Join(e.Variants, ", "))
	}
	for _, s := range prog.Structs {
		p.structDecl(1, s)
	}
	for _, f := range prog.Funcs {
		p.funcDecl(1, f)
	}
	for _, s := range prog.Stmts {
		p.stmt(1, s)
	}
	if prog.Main != nil {
		p.line(1, "Main")
		p.block(2, prog.Main)
	}
}

type printer struct {
	w io.Writer
}

func (p *printer) line(depth int, format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *printer) structDecl(depth int, s *StructDecl) {
	name := s.Name
	if len(s.TypeParams) > 0 {
		name += "<" + strings.Join(s.TypeParams, ", ") + ">"
	}
	p.line(depth, "Struct %s", name)
	for _, f := range s.Fields {
		p.line(depth+1, "%s: %s", f.Name, typeString(f.Type))
	}
}

func (p *printer) funcDecl(depth int, f *FuncDecl) {
	name := f.Name
	if f.Exported {
		name = "export " + name
	}
	if len(f.TypeParams) > 0 {
		name += "<" + strings.Join(f.TypeParams, ", ") + ">"
	}
	p.line(depth, "Func %s(%s) -> %s", name, paramString(f.Params), typeString(f.ReturnType))
	p.block(depth+1, f.Body)
}

func (p *printer) block(depth int, b *Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		p.stmt(depth, s)
	}
}

func (p *printer) stmt(depth int, s Stmt) {
	switch st := s.(type) {
	case *LetStmt:
		p.line(depth, "Let %s =", st.Name)
		p.expr(depth+1, st.Value)
	case *ExprStmt:
		p.expr(depth, st.X)
	case *IfStmt:
		p.line(depth, "If")
		p.expr(depth+1, st.Cond)
		p.line(depth, "Then")
		p.block(depth+1, st.Then)
		if st.Else != nil {
			p.line(depth, "Else")
			p.block(depth+1, st.Else)
		}
	case *WhileStmt:
		p.line(depth, "While")
		p.expr(depth+1, st.Cond)
		p.block(depth+1, st.Body)
	case *ForInStmt:
		p.line(depth, "For %s in", st.Var)
		p.expr(depth+1, st.Iter)
		p.block(depth+1, st.Body)
	case *BreakStmt:
		p.line(depth, "Break")
	case *ContinueStmt:
		p.line(depth, "Continue")
	case *ReturnStmt:
		p.line(depth, "Return")
		if st.Value != nil {
			p.expr(depth+1, st.Value)
		}
	case *ThrowStmt:
		p.line(depth, "Throw")
		p.expr(depth+1, st.Value)
	case *TryStmt:
		p.line(depth, "Try")
		p.block(depth+1, st.Try)
		if st.Catch != nil {
			p.line(depth, "Catch (%s)", st.CatchName)
			p.block(depth+1, st.Catch)
		}
		if st.Finally != nil {
			p.line(depth, "Finally")
			p.block(depth+1, st.Finally)
		}
	case *Block:
		p.block(depth, st)
	default:
		p.line(depth, "%T", s)
	}
}

func (p *printer) expr(depth int, e Expr) {
	switch x := e.(type) {
	case *IntLit:
		p.line(depth, "Int %d", x.Value)
	case *FloatLit:
		p.line(depth, "Float %g", x.Value)
	case *StringLit:
		p.line(depth, "String %q", x.Value)
	case *BoolLit:
		p.line(depth, "Bool %t", x.Value)
	case *NullLit:
		p.line(depth, "Null")
	case *Ident:
		p.line(depth, "Ident %s", x.Name)
	case *ListLit:
		p.line(depth, "List (%d elems)", len(x.Elems))
		for _, el := range x.Elems {
			p.expr(depth+1, el)
		}
	case *DictLit:
		p.line(depth, "Dict (%d entries)", len(x.Entries))
		for _, entry := range x.Entries {
			p.expr(depth+1, entry.Key)
			p.expr(depth+2, entry.Value)
		}
	case *StructLit:
		p.line(depth, "StructLit %s", x.Name)
		for _, f := range x.Fields {
			p.line(depth+1, "%s:", f.Name)
			p.expr(depth+2, f.Value)
		}
	case *BinaryExpr:
		p.line(depth, "Binary %s", x.Op)
		p.expr(depth+1, x.Left)
		p.expr(depth+1, x.Right)
	case *UnaryExpr:
		p.line(depth, "Unary %s", x.Op)
		p.expr(depth+1, x.X)
	case *LogicalExpr:
		p.line(depth, "Logical %s", x.Op)
		p.expr(depth+1, x.Left)
		p.expr(depth+1, x.Right)
	case *AssignExpr:
		p.line(depth, "Assign")
		p.expr(depth+1, x.Lhs)
		p.expr(depth+1, x.Rhs)
	case *MemberExpr:
		p.line(depth, "Member .%s", x.Field)
		p.expr(depth+1, x.X)
	case *IndexExpr:
		p.line(depth, "Index")
		p.expr(depth+1, x.X)
		p.expr(depth+1, x.Index)
	case *CallExpr:
		p.line(depth, "Call (%d args)", len(x.Args))
		p.expr(depth+1, x.Callee)
		for _, a := range x.Args {
			p.expr(depth+1, a)
		}
	case *PipelineExpr:
		p.line(depth, "Pipeline")
		p.expr(depth+1, x.X)
		p.expr(depth+1, x.Call)
	case *LambdaExpr:
		p.line(depth, "Lambda (%s) -> %s", paramString(x.Params), typeString(x.ReturnType))
		p.block(depth+1, x.Body)
	case *PolyglotExpr:
		p.line(depth, "Polyglot %s [%s] (%d chars)", x.Language, strings.Join(x.BoundVars, ", "), len(x.Code))
	default:
		p.line(depth, "%T", e)
	}
}

func paramString(params []ParamDecl) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
		if p.Type != nil {
			parts[i] += ": " + typeString(p.Type)
		}
		if p.HasDefault {
			parts[i] += " = ..."
		}
	}
	return strings.Join(parts, ", ")
}

// typeString renders a Type in source-ish notation for dumps.
func typeString(t *Type) string {
	if t == nil {
		return "void"
	}
	var s string
	switch t.Kind {
	case KindInt:
		s = "int"
	case KindFloat:
		s = "float"
	case KindString:
		s = "string"
	case KindBool:
		s = "bool"
	case KindVoid:
		s = "void"
	case KindAny:
		s = "any"
	case KindList:
		s = "List<" + typeString(t.Elem) + ">"
	case KindDict:
		s = "Dict<" + typeString(t.Key) + ", " + typeString(t.Value) + ">"
	case KindStruct, KindEnum:
		s = t.StructName
		if t.ModulePath != "" {
			s = t.ModulePath + "." + s
		}
	case KindFunction:
		s = "fn"
	case KindUnion:
		parts := make([]string, len(t.Union))
		for i, m := range t.Union {
			parts[i] = typeString(m)
		}
		s = strings.Join(parts, "|")
	case KindTypeParam:
		s = t.ParamName
	}
	if t.IsNullable {
		s += "?"
	}
	if t.IsReference {
		s = "ref " + s
	}
	return s
}
