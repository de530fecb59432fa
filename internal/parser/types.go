package parser

import (
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/pkg/ast"
)

// parseType parses a type expression. Called with curTok on the type's first
// token; returns with curTok PAST the type (unlike expressions, which leave
// curTok on their last token — types are always followed by a delimiter the
// caller wants to see directly).
func (p *Parser) parseType() *ast.Type {
	if p.curTok.Type == lexer.REF {
		p.nextToken()
		t := p.parseType()
		if t != nil {
			t.IsReference = true
		}
		return t
	}

	t := p.parseBaseType()
	if t == nil {
		return nil
	}

	// Union members: T1 | T2 | ...
	if p.curTok.Type == lexer.PIPE {
		union := &ast.Type{Kind: ast.KindUnion, Union: []*ast.Type{t}}
		for p.curTok.Type == lexer.PIPE {
			p.nextToken()
			m := p.parseBaseType()
			if m == nil {
				return nil
			}
			union.Union = append(union.Union, m)
		}
		return union
	}
	return t
}

// parseBaseType parses one non-union type, including its optional `?`
// nullable suffix, leaving curTok past it.
func (p *Parser) parseBaseType() *ast.Type {
	var t *ast.Type
	switch p.curTok.Type {
	case lexer.IDENT:
		name := p.curTok.Literal
		switch name {
		case "int":
			t = &ast.Type{Kind: ast.KindInt}
		case "float":
			t = &ast.Type{Kind: ast.KindFloat}
		case "string":
			t = &ast.Type{Kind: ast.KindString}
		case "bool":
			t = &ast.Type{Kind: ast.KindBool}
		case "void":
			t = &ast.Type{Kind: ast.KindVoid}
		case "any":
			t = &ast.Type{Kind: ast.KindAny}
		case "List":
			p.nextToken()
			if !p.expectCur(lexer.LT) {
				return nil
			}
			elem := p.parseType()
			if !p.expectCur(lexer.GT) {
				return nil
			}
			return p.suffix(&ast.Type{Kind: ast.KindList, Elem: elem})
		case "Dict":
			p.nextToken()
			if !p.expectCur(lexer.LT) {
				return nil
			}
			key := p.parseType()
			if !p.expectCur(lexer.COMMA) {
				return nil
			}
			val := p.parseType()
			if !p.expectCur(lexer.GT) {
				return nil
			}
			return p.suffix(&ast.Type{Kind: ast.KindDict, Key: key, Value: val})
		default:
			if p.typeParams[name] {
				t = &ast.Type{Kind: ast.KindTypeParam, ParamName: name}
			} else if p.peekTok.Type == lexer.DOT {
				// Module-qualified struct name: mod.Name
				mod := name
				p.nextToken() // .
				if !p.expect(lexer.IDENT) {
					return nil
				}
				t = &ast.Type{Kind: ast.KindStruct, StructName: p.curTok.Literal, ModulePath: mod}
			} else {
				t = &ast.Type{Kind: ast.KindStruct, StructName: name}
			}
		}
	case lexer.FN:
		t = &ast.Type{Kind: ast.KindFunction}
	default:
		p.errorf("expected type, got %s", p.curTok.Type)
		return nil
	}
	p.nextToken()
	return p.suffix(t)
}

// suffix applies the optional `?` nullable marker; curTok is already past
// the base type.
func (p *Parser) suffix(t *ast.Type) *ast.Type {
	if p.curTok.Type == lexer.QUESTION {
		t.IsNullable = true
		p.nextToken()
	}
	return t
}
