package parser

import (
	"strings"

	"github.com/naab-lang/naab/pkg/ast"
)

// parsePolyglot splits a raw POLYGLOT token payload into its language tag,
// bound-variable list, and code text. The lexer hands over everything
// between << and >> verbatim; the envelope here is
// `lang[v1, v2] code...` with the variable list optional and the code
// running to the end of the payload.
func (p *Parser) parsePolyglot() ast.Expr {
	e := &ast.PolyglotExpr{}
	e.Pos = p.pos()
	payload := p.curTok.Literal

	i := 0
	for i < len(payload) && (isIdentByte(payload[i]) || payload[i] == '#') {
		i++
	}
	e.Language = payload[:i]
	if e.Language == "" {
		p.errorf("polyglot block missing language tag")
		return nil
	}

	if i < len(payload) && payload[i] == '[' {
		end := strings.IndexByte(payload[i:], ']')
		if end < 0 {
			p.errorf("polyglot block has unterminated bound-variable list")
			return nil
		}
		for _, v := range strings.Split(payload[i+1:i+end], ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				e.BoundVars = append(e.BoundVars, v)
			}
		}
		i += end + 1
	}

	e.Code = strings.TrimSpace(payload[i:])
	return e
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
