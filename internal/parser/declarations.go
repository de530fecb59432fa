package parser

import (
	"strings"

	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/pkg/ast"
)

// parseUse parses `use a.b.c [as alias]`. Called with curTok on USE; leaves
// curTok past the statement.
func (p *Parser) parseUse() *ast.UseStmt {
	u := &ast.UseStmt{}
	u.Pos = p.pos()
	if !p.expect(lexer.IDENT) {
		p.nextToken()
		return nil
	}
	parts := []string{p.curTok.Literal}
	for p.peekTok.Type == lexer.DOT {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		parts = append(parts, p.curTok.Literal)
	}
	u.Path = strings.Join(parts, ".")
	u.Alias = parts[len(parts)-1]
	if p.peekTok.Type == lexer.AS {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		u.Alias = p.curTok.Literal
	}
	p.nextToken()
	p.skipSemis()
	return u
}

// parseStructDecl parses `struct Name[<T, U>] { f1: T1, ... }`.
func (p *Parser) parseStructDecl() *ast.StructDecl {
	s := &ast.StructDecl{}
	s.Pos = p.pos()
	if !p.expect(lexer.IDENT) {
		p.nextToken()
		return nil
	}
	s.Name = p.curTok.Literal

	if p.peekTok.Type == lexer.LT {
		p.nextToken()
		s.TypeParams = p.parseTypeParamList()
	}
	p.withTypeParams(s.TypeParams, func() {
		if !p.expect(lexer.LBRACE) {
			return
		}
		p.nextToken()
		for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
			if p.curTok.Type == lexer.COMMA || p.curTok.Type == lexer.SEMI {
				p.nextToken()
				continue
			}
			name := p.curTok.Literal
			if p.curTok.Type != lexer.IDENT {
				p.errorf("expected field name, got %s", p.curTok.Type)
				p.nextToken()
				continue
			}
			p.nextToken()
			if !p.expectCur(lexer.COLON) {
				continue
			}
			typ := p.parseType()
			s.Fields = append(s.Fields, ast.FieldDecl{Name: name, Type: typ})
		}
		p.nextToken() // past }
	})
	return s
}

// parseEnumDecl parses `enum Name { Variant1, Variant2, ... }`.
func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	e := &ast.EnumDecl{}
	e.Pos = p.pos()
	if !p.expect(lexer.IDENT) {
		p.nextToken()
		return nil
	}
	e.Name = p.curTok.Literal
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	p.nextToken()
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.IDENT {
			e.Variants = append(e.Variants, p.curTok.Literal)
		} else if p.curTok.Type != lexer.COMMA {
			p.errorf("expected enum variant, got %s", p.curTok.Type)
		}
		p.nextToken()
	}
	p.nextToken() // past }
	return e
}

// parseFuncDecl parses `fn name[<T>](params) [-> Type] { body }`. Called
// with curTok on FN.
func (p *Parser) parseFuncDecl(exported bool) *ast.FuncDecl {
	f := &ast.FuncDecl{Exported: exported}
	f.Pos = p.pos()
	if !p.expect(lexer.IDENT) {
		p.nextToken()
		return nil
	}
	f.Name = p.curTok.Literal

	if p.peekTok.Type == lexer.LT {
		p.nextToken()
		f.TypeParams = p.parseTypeParamList()
	}
	p.withTypeParams(f.TypeParams, func() {
		if !p.expect(lexer.LPAREN) {
			return
		}
		f.Params = p.parseParamList() // leaves curTok on )
		if p.peekTok.Type == lexer.ARROW {
			p.nextToken() // ->
			p.nextToken() // first type token
			f.ReturnType = p.parseType()
		} else {
			p.nextToken()
		}
		// curTok is now the body's {
		f.Body = p.parseBlock()
		p.nextToken() // past }
	})
	return f
}

// parseTypeParamList parses `<T, U>` with curTok on LT, leaving curTok on GT.
func (p *Parser) parseTypeParamList() []string {
	var out []string
	p.nextToken() // past <
	for p.curTok.Type != lexer.GT && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.IDENT {
			out = append(out, p.curTok.Literal)
		} else if p.curTok.Type != lexer.COMMA {
			p.errorf("expected type parameter, got %s", p.curTok.Type)
		}
		p.nextToken()
	}
	return out
}

// parseParamList parses `(name: Type [= default], ...)` with curTok on
// LPAREN, leaving curTok on RPAREN.
func (p *Parser) parseParamList() []ast.ParamDecl {
	var out []ast.ParamDecl
	p.nextToken() // past (
	for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		var param ast.ParamDecl
		if p.curTok.Type != lexer.IDENT {
			p.errorf("expected parameter name, got %s", p.curTok.Type)
			p.nextToken()
			continue
		}
		param.Name = p.curTok.Literal
		p.nextToken()
		if p.curTok.Type == lexer.COLON {
			p.nextToken()
			param.Type = p.parseType()
			if param.Type != nil && param.Type.IsReference {
				param.IsRef = true
			}
		}
		if p.curTok.Type == lexer.ASSIGN {
			p.nextToken()
			param.HasDefault = true
			param.Default = p.parseExpression(precLowest)
			p.nextToken()
		}
		out = append(out, param)
	}
	return out
}

// withTypeParams runs body with names visible to parseType as TypeParams.
func (p *Parser) withTypeParams(names []string, body func()) {
	for _, n := range names {
		p.typeParams[n] = true
	}
	body()
	for _, n := range names {
		delete(p.typeParams, n)
	}
}
