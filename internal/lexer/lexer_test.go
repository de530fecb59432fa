package lexer

import "testing"

func TestNextTokenOperators(t *testing.T) {
	input := `+ - * / % < <= > >= == != = |> -> ( ) { } [ ] , : ; . ?`
	want := []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, LT, LE, GT, GE, EQ, NE,
		ASSIGN, PIPELINE, ARROW, LPAREN, RPAREN, LBRACE, RBRACE,
		LBRACKET, RBRACKET, COMMA, COLON, SEMI, DOT, QUESTION, EOF,
	}
	l := New(input, "test.naab")
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: got %v (%q), want %v", i, tok.Type, tok.Literal, w)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := `let fn main struct use as export ref letter mainframe`
	want := []struct {
		typ TokenType
		lit string
	}{
		{LET, "let"}, {FN, "fn"}, {MAIN, "main"}, {STRUCT, "struct"},
		{USE, "use"}, {AS, "as"}, {EXPORT, "export"}, {REF, "ref"},
		{IDENT, "letter"}, {IDENT, "mainframe"},
	}
	l := New(input, "test.naab")
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ || tok.Literal != w.lit {
			t.Fatalf("token %d: got %v %q, want %v %q", i, tok.Type, tok.Literal, w.typ, w.lit)
		}
	}
}

func TestNumbersAndStrings(t *testing.T) {
	input := `42 3.14 "hello\nworld" ""`
	l := New(input, "test.naab")

	tok := l.NextToken()
	if tok.Type != INT || tok.Literal != "42" {
		t.Fatalf("got %v %q, want INT 42", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != FLOAT || tok.Literal != "3.14" {
		t.Fatalf("got %v %q, want FLOAT 3.14", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != STRING || tok.Literal != "hello\nworld" {
		t.Fatalf("got %v %q, want escaped string", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != STRING || tok.Literal != "" {
		t.Fatalf("got %v %q, want empty string", tok.Type, tok.Literal)
	}
}

func TestCommentsSkipped(t *testing.T) {
	input := "a // line comment\n/* block\ncomment */ b"
	l := New(input, "test.naab")
	if tok := l.NextToken(); tok.Literal != "a" {
		t.Fatalf("got %q, want a", tok.Literal)
	}
	if tok := l.NextToken(); tok.Literal != "b" {
		t.Fatalf("got %q, want b", tok.Literal)
	}
	if tok := l.NextToken(); tok.Type != EOF {
		t.Fatalf("got %v, want EOF", tok.Type)
	}
}

func TestPolyglotBlockRaw(t *testing.T) {
	input := "let doubled = <<python[xs]\n[x*2 for x in xs]\n>>"
	l := New(input, "test.naab")
	var tok Token
	for tok = l.NextToken(); tok.Type != POLYGLOT && tok.Type != EOF; tok = l.NextToken() {
	}
	if tok.Type != POLYGLOT {
		t.Fatal("no POLYGLOT token produced")
	}
	if tok.Literal != "python[xs]\n[x*2 for x in xs]\n" {
		t.Fatalf("payload = %q", tok.Literal)
	}
}

func TestPolyglotShiftOperatorsInForeignCode(t *testing.T) {
	input := "<<cpp\nstd::cout << (1 >> 0) << std::endl;\n>>"
	l := New(input, "test.naab")
	tok := l.NextToken()
	if tok.Type != POLYGLOT {
		t.Fatalf("got %v, want POLYGLOT", tok.Type)
	}
	if tok.Literal != "cpp\nstd::cout << (1 >> 0) << std::endl;\n" {
		t.Fatalf("payload = %q", tok.Literal)
	}
}

func TestUnterminatedPolyglot(t *testing.T) {
	l := New("<<python\n1 + 1", "test.naab")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", tok.Type)
	}
}

func TestPositions(t *testing.T) {
	l := New("let x\nlet y", "test.naab")
	l.NextToken() // let
	x := l.NextToken()
	if x.Line != 1 || x.Column != 5 {
		t.Fatalf("x at %d:%d, want 1:5", x.Line, x.Column)
	}
	l.NextToken() // let
	y := l.NextToken()
	if y.Line != 2 || y.Column != 5 {
		t.Fatalf("y at %d:%d, want 2:5", y.Line, y.Column)
	}
}
