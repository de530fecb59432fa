package parser

import (
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/pkg/ast"
)

// parseBlock parses `{ stmt* }`. Called with curTok on the opening brace;
// returns with curTok ON the closing brace (the caller advances).
func (p *Parser) parseBlock() *ast.Block {
	b := &ast.Block{}
	b.Pos = p.pos()
	if p.curTok.Type != lexer.LBRACE {
		p.errorf("expected {, got %s", p.curTok.Type)
		return b
	}
	p.nextToken()
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		if stmt := p.parseStatement(); stmt != nil {
			b.Stmts = append(b.Stmts, stmt)
		}
	}
	return b
}

// parseStatement parses one statement, consuming it fully (curTok ends on
// the first token of whatever follows).
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curTok.Type {
	case lexer.SEMI:
		p.nextToken()
		return nil
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseForIn()
	case lexer.BREAK:
		s := &ast.BreakStmt{}
		s.Pos = p.pos()
		p.nextToken()
		p.skipSemis()
		return s
	case lexer.CONTINUE:
		s := &ast.ContinueStmt{}
		s.Pos = p.pos()
		p.nextToken()
		p.skipSemis()
		return s
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.THROW:
		s := &ast.ThrowStmt{}
		s.Pos = p.pos()
		p.nextToken()
		s.Value = p.parseExpression(precLowest)
		p.nextToken()
		p.skipSemis()
		return s
	case lexer.TRY:
		return p.parseTry()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseLet() ast.Stmt {
	s := &ast.LetStmt{}
	s.Pos = p.pos()
	if !p.expect(lexer.IDENT) {
		p.nextToken()
		return nil
	}
	s.Name = p.curTok.Literal
	p.nextToken()
	if !p.expectCur(lexer.ASSIGN) {
		return nil
	}
	s.Value = p.parseExpression(precLowest)
	if pg, ok := s.Value.(*ast.PolyglotExpr); ok {
		pg.AssignTo = s.Name
	}
	p.nextToken()
	p.skipSemis()
	return s
}

func (p *Parser) parseIf() ast.Stmt {
	s := &ast.IfStmt{}
	s.Pos = p.pos()
	p.nextToken()
	s.Cond = p.parseExpression(precLowest)
	p.nextToken() // to {
	s.Then = p.parseBlock()
	if p.peekTok.Type == lexer.ELSE {
		p.nextToken() // on else
		if p.peekTok.Type == lexer.IF {
			// else-if chain: wrap the nested if in a synthetic block.
			p.nextToken()
			nested := p.parseIf()
			blk := &ast.Block{Stmts: []ast.Stmt{nested}}
			s.Else = blk
			return s
		}
		p.nextToken() // to {
		s.Else = p.parseBlock()
	}
	p.nextToken() // past final }
	p.skipSemis()
	return s
}

func (p *Parser) parseWhile() ast.Stmt {
	s := &ast.WhileStmt{}
	s.Pos = p.pos()
	p.nextToken()
	s.Cond = p.parseExpression(precLowest)
	p.nextToken() // to {
	s.Body = p.parseBlock()
	p.nextToken() // past }
	p.skipSemis()
	return s
}

func (p *Parser) parseForIn() ast.Stmt {
	s := &ast.ForInStmt{}
	s.Pos = p.pos()
	if !p.expect(lexer.IDENT) {
		p.nextToken()
		return nil
	}
	s.Var = p.curTok.Literal
	if !p.expect(lexer.IN) {
		return nil
	}
	p.nextToken()
	s.Iter = p.parseExpression(precLowest)
	p.nextToken() // to {
	s.Body = p.parseBlock()
	p.nextToken() // past }
	p.skipSemis()
	return s
}

func (p *Parser) parseReturn() ast.Stmt {
	s := &ast.ReturnStmt{}
	s.Pos = p.pos()
	if p.peekTok.Type == lexer.RBRACE || p.peekTok.Type == lexer.SEMI {
		p.nextToken()
		p.skipSemis()
		return s
	}
	p.nextToken()
	s.Value = p.parseExpression(precLowest)
	p.nextToken()
	p.skipSemis()
	return s
}

func (p *Parser) parseTry() ast.Stmt {
	s := &ast.TryStmt{}
	s.Pos = p.pos()
	p.nextToken() // to {
	s.Try = p.parseBlock()
	if p.peekTok.Type == lexer.CATCH {
		p.nextToken() // on catch
		if !p.expect(lexer.LPAREN) {
			return s
		}
		if !p.expect(lexer.IDENT) {
			return s
		}
		s.CatchName = p.curTok.Literal
		if !p.expect(lexer.RPAREN) {
			return s
		}
		p.nextToken() // to {
		s.Catch = p.parseBlock()
	}
	if p.peekTok.Type == lexer.FINALLY {
		p.nextToken() // on finally
		p.nextToken() // to {
		s.Finally = p.parseBlock()
	}
	p.nextToken() // past final }
	p.skipSemis()
	return s
}

func (p *Parser) parseExprStatement() ast.Stmt {
	s := &ast.ExprStmt{}
	s.Pos = p.pos()
	s.X = p.parseExpression(precLowest)
	if s.X == nil {
		p.nextToken()
		return nil
	}
	// `x = <<lang ...>>` records the write target for the dependency
	// analyzer, same as `let x = <<...>>`.
	if as, ok := s.X.(*ast.AssignExpr); ok {
		if pg, ok := as.Rhs.(*ast.PolyglotExpr); ok {
			if id, ok := as.Lhs.(*ast.Ident); ok {
				pg.AssignTo = id.Name
			}
		}
	}
	p.nextToken()
	p.skipSemis()
	return s
}
