package parser

import (
	"strconv"
	"unicode"

	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/pkg/ast"
)

// parseExpression is the Pratt climb. Called with curTok on the expression's
// first token; returns with curTok ON its last token.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		p.errorf("unexpected token %s in expression", p.curTok.Type)
		return nil
	}
	left := prefix()

	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekTok.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// ---------------------------------------------------------------------
// Prefix expressions
// ---------------------------------------------------------------------

// parseIdentOrStructLit parses an identifier, or a struct literal when the
// identifier names a type (capitalized, NAAb convention) and a brace
// follows. The capitalization heuristic is what disambiguates `Box { ... }`
// from `if x {`: control-flow conditions are ordinary lowercase expressions.
func (p *Parser) parseIdentOrStructLit() ast.Expr {
	name := p.curTok.Literal
	pos := p.pos()
	if p.peekTok.Type == lexer.LBRACE && startsUpper(name) {
		return p.parseStructLit(name, pos)
	}
	id := &ast.Ident{Name: name}
	id.Pos = pos
	return id
}

func (p *Parser) parseStructLit(name string, pos ast.Pos) ast.Expr {
	lit := &ast.StructLit{Name: name}
	lit.Pos = pos
	p.nextToken() // on {
	p.nextToken() // first field or }
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		if p.curTok.Type != lexer.IDENT {
			p.errorf("expected field name in %s literal, got %s", name, p.curTok.Type)
			p.nextToken()
			continue
		}
		fname := p.curTok.Literal
		p.nextToken()
		if !p.expectCur(lexer.COLON) {
			continue
		}
		val := p.parseExpression(precLowest)
		lit.Fields = append(lit.Fields, ast.StructFieldInit{Name: fname, Value: val})
		p.nextToken()
	}
	return lit // curTok on }
}

func (p *Parser) parseIntLit() ast.Expr {
	v, err := strconv.ParseInt(p.curTok.Literal, 10, 64)
	if err != nil {
		p.errorf("invalid integer literal %q", p.curTok.Literal)
		return nil
	}
	lit := &ast.IntLit{Value: v}
	lit.Pos = p.pos()
	return lit
}

func (p *Parser) parseFloatLit() ast.Expr {
	v, err := strconv.ParseFloat(p.curTok.Literal, 64)
	if err != nil {
		p.errorf("invalid float literal %q", p.curTok.Literal)
		return nil
	}
	lit := &ast.FloatLit{Value: v}
	lit.Pos = p.pos()
	return lit
}

func (p *Parser) parseStringLit() ast.Expr {
	lit := &ast.StringLit{Value: p.curTok.Literal}
	lit.Pos = p.pos()
	return lit
}

func (p *Parser) parseBoolLit() ast.Expr {
	lit := &ast.BoolLit{Value: p.curTok.Type == lexer.TRUE}
	lit.Pos = p.pos()
	return lit
}

func (p *Parser) parseNullLit() ast.Expr {
	lit := &ast.NullLit{}
	lit.Pos = p.pos()
	return lit
}

func (p *Parser) parseUnary() ast.Expr {
	e := &ast.UnaryExpr{Op: p.curTok.Literal}
	e.Pos = p.pos()
	p.nextToken()
	e.X = p.parseExpression(precUnary)
	return e
}

func (p *Parser) parseGrouped() ast.Expr {
	p.nextToken()
	e := p.parseExpression(precLowest)
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return e
}

func (p *Parser) parseListLit() ast.Expr {
	lit := &ast.ListLit{}
	lit.Pos = p.pos()
	if p.peekTok.Type == lexer.RBRACKET {
		p.nextToken()
		return lit
	}
	p.nextToken()
	lit.Elems = append(lit.Elems, p.parseExpression(precLowest))
	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		p.nextToken()
		lit.Elems = append(lit.Elems, p.parseExpression(precLowest))
	}
	if !p.expect(lexer.RBRACKET) {
		return nil
	}
	return lit
}

func (p *Parser) parseDictLit() ast.Expr {
	lit := &ast.DictLit{}
	lit.Pos = p.pos()
	if p.peekTok.Type == lexer.RBRACE {
		p.nextToken()
		return lit
	}
	p.nextToken()
	for {
		key := p.parseExpression(precLowest)
		if !p.expect(lexer.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(precLowest)
		lit.Entries = append(lit.Entries, ast.DictEntry{Key: key, Value: val})
		if p.peekTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expect(lexer.RBRACE) {
		return nil
	}
	return lit
}

// parseLambda parses `fn (params) [-> Type] { body }` in expression
// position.
func (p *Parser) parseLambda() ast.Expr {
	e := &ast.LambdaExpr{}
	e.Pos = p.pos()
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	e.Params = p.parseParamList() // leaves curTok on )
	if p.peekTok.Type == lexer.ARROW {
		p.nextToken() // ->
		p.nextToken() // first type token
		e.ReturnType = p.parseType()
	} else {
		p.nextToken()
	}
	e.Body = p.parseBlock()
	return e // curTok on }
}

// ---------------------------------------------------------------------
// Infix expressions
// ---------------------------------------------------------------------

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	e := &ast.BinaryExpr{Op: p.curTok.Literal, Left: left}
	e.Pos = p.pos()
	prec := p.curPrecedence()
	p.nextToken()
	e.Right = p.parseExpression(prec)
	return e
}

func (p *Parser) parseLogical(left ast.Expr) ast.Expr {
	e := &ast.LogicalExpr{Op: p.curTok.Literal, Left: left}
	e.Pos = p.pos()
	prec := precAnd
	if e.Op == "or" {
		prec = precOr
	}
	p.nextToken()
	e.Right = p.parseExpression(prec)
	return e
}

// parseAssign parses right-associative assignment. The left side must be an
// identifier, member access, or subscript; the interpreter enforces this,
// the parser only records the shape.
func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	e := &ast.AssignExpr{Lhs: left}
	e.Pos = p.pos()
	p.nextToken()
	e.Rhs = p.parseExpression(precAssign - 1)
	return e
}

// parsePipeline parses `x |> f(args...)`. The right side is parsed as an
// expression but never evaluated as a call before splicing: the interpreter
// receives the callee and argument expressions separately.
func (p *Parser) parsePipeline(left ast.Expr) ast.Expr {
	e := &ast.PipelineExpr{X: left}
	e.Pos = p.pos()
	p.nextToken()
	right := p.parseExpression(precPipeline)
	switch r := right.(type) {
	case *ast.CallExpr:
		e.Call = r
	case *ast.Ident, *ast.MemberExpr:
		// Bare callable: `x |> f` means `f(x)`.
		call := &ast.CallExpr{Callee: right}
		call.Pos = e.Pos
		e.Call = call
	default:
		p.errorf("right side of |> must be a call")
		return nil
	}
	return e
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	e := &ast.CallExpr{Callee: callee}
	e.Pos = p.pos()
	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return e
	}
	p.nextToken()
	e.Args = append(e.Args, p.parseExpression(precLowest))
	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		p.nextToken()
		e.Args = append(e.Args, p.parseExpression(precLowest))
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return e
}

func (p *Parser) parseIndex(x ast.Expr) ast.Expr {
	e := &ast.IndexExpr{X: x}
	e.Pos = p.pos()
	p.nextToken()
	e.Index = p.parseExpression(precLowest)
	if !p.expect(lexer.RBRACKET) {
		return nil
	}
	return e
}

func (p *Parser) parseMember(x ast.Expr) ast.Expr {
	e := &ast.MemberExpr{X: x}
	e.Pos = p.pos()
	if !p.expect(lexer.IDENT) {
		return nil
	}
	e.Field = p.curTok.Literal
	return e
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
