// Package parser builds the typed AST of pkg/ast from NAAb source text. Like
// internal/lexer it sits outside the specified runtime core: the interpreter
// only consumes the AST, and these packages exist so that .naab files and the
// scenario tests can run end-to-end.
//
// The parser is a Pratt parser: a prefix parse function per token type that
// can begin an expression, an infix parse function per binary operator, and a
// precedence table driving the climb.
package parser

import (
	"fmt"

	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/pkg/ast"
)

// Operator precedence levels, lowest binds loosest.
const (
	precLowest = iota
	precAssign
	precPipeline
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precUnary
	precCall
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:   precAssign,
	lexer.PIPELINE: precPipeline,
	lexer.OR:       precOr,
	lexer.AND:      precAnd,
	lexer.EQ:       precEquality,
	lexer.NE:       precEquality,
	lexer.LT:       precComparison,
	lexer.LE:       precComparison,
	lexer.GT:       precComparison,
	lexer.GE:       precComparison,
	lexer.PLUS:     precSum,
	lexer.MINUS:    precSum,
	lexer.STAR:     precProduct,
	lexer.SLASH:    precProduct,
	lexer.PERCENT:  precProduct,
	lexer.LPAREN:   precCall,
	lexer.LBRACKET: precCall,
	lexer.DOT:      precCall,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser consumes a token stream and produces an *ast.Program.
type Parser struct {
	l      *lexer.Lexer
	file   string
	errors []string

	curTok  lexer.Token
	peekTok lexer.Token

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	// typeParams holds the type-parameter names of the declaration being
	// parsed, so parseType can tell a TypeParam from a struct name.
	typeParams map[string]bool
}

// New creates a Parser over l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, file: l.File(), typeParams: map[string]bool{}}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentOrStructLit,
		lexer.INT:      p.parseIntLit,
		lexer.FLOAT:    p.parseFloatLit,
		lexer.STRING:   p.parseStringLit,
		lexer.TRUE:     p.parseBoolLit,
		lexer.FALSE:    p.parseBoolLit,
		lexer.NULL:     p.parseNullLit,
		lexer.MINUS:    p.parseUnary,
		lexer.NOT:      p.parseUnary,
		lexer.LPAREN:   p.parseGrouped,
		lexer.LBRACKET: p.parseListLit,
		lexer.LBRACE:   p.parseDictLit,
		lexer.FN:       p.parseLambda,
		lexer.POLYGLOT: p.parsePolyglot,
	}
	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseBinary,
		lexer.MINUS:    p.parseBinary,
		lexer.STAR:     p.parseBinary,
		lexer.SLASH:    p.parseBinary,
		lexer.PERCENT:  p.parseBinary,
		lexer.LT:       p.parseBinary,
		lexer.LE:       p.parseBinary,
		lexer.GT:       p.parseBinary,
		lexer.GE:       p.parseBinary,
		lexer.EQ:       p.parseBinary,
		lexer.NE:       p.parseBinary,
		lexer.AND:      p.parseLogical,
		lexer.OR:       p.parseLogical,
		lexer.ASSIGN:   p.parseAssign,
		lexer.PIPELINE: p.parsePipeline,
		lexer.LPAREN:   p.parseCall,
		lexer.LBRACKET: p.parseIndex,
		lexer.DOT:      p.parseMember,
	}

	// Prime curTok and peekTok.
	p.nextToken()
	p.nextToken()
	return p
}

// ParseProgram parses a whole .naab file.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.USE:
			if u := p.parseUse(); u != nil {
				prog.Uses = append(prog.Uses, u)
			}
		case lexer.STRUCT:
			if s := p.parseStructDecl(); s != nil {
				prog.Structs = append(prog.Structs, s)
			}
		case lexer.ENUM:
			if e := p.parseEnumDecl(); e != nil {
				prog.Enums = append(prog.Enums, e)
			}
		case lexer.FN:
			if f := p.parseFuncDecl(false); f != nil {
				prog.Funcs = append(prog.Funcs, f)
			}
		case lexer.EXPORT:
			p.nextToken()
			if p.curTok.Type != lexer.FN {
				p.errorf("export must be followed by fn, got %s", p.curTok.Type)
				p.nextToken()
				continue
			}
			if f := p.parseFuncDecl(true); f != nil {
				prog.Funcs = append(prog.Funcs, f)
			}
		case lexer.MAIN:
			if prog.Main != nil {
				p.errorf("duplicate main block")
			}
			p.nextToken()
			prog.Main = p.parseBlock()
			p.nextToken() // past }
		case lexer.SEMI:
			p.nextToken()
		default:
			// Executable top-level statement (module load-time side
			// effects, e.g. a print on import).
			if stmt := p.parseStatement(); stmt != nil {
				prog.Stmts = append(prog.Stmts, stmt)
			}
		}
	}
	return prog
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.curTok.Line, Column: p.curTok.Column}
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.peekTok.Type == t {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.peekTok.Type)
	return false
}

func (p *Parser) expectCur(t lexer.TokenType) bool {
	if p.curTok.Type == t {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.curTok.Type)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	msg := fmt.Sprintf("%s:%d:%d: %s", p.file, p.curTok.Line, p.curTok.Column,
		fmt.Sprintf(format, args...))
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekTok.Type]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curTok.Type]; ok {
		return prec
	}
	return precLowest
}

// skipSemis consumes optional statement separators.
func (p *Parser) skipSemis() {
	for p.curTok.Type == lexer.SEMI {
		p.nextToken()
	}
}
