package parser

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/token"
)

// parsePattern parses a single pattern, then wraps it in an OrPattern if
// followed by `| pat2 | pat3 ...`.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePrimaryPattern()
	if !p.curIs(token.PIPE) {
		return first
	}
	start := first.Span()
	alts := []ast.Pattern{first}
	for p.curIs(token.PIPE) {
		p.advance()
		alts = append(alts, p.parsePrimaryPattern())
	}
	return &ast.OrPattern{Alternatives: alts, SpanV: start.Merge(p.prevSpan())}
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	start := p.cur.Span
	switch p.cur.Kind {
	case token.IDENT:
		name := p.cur.Lexeme
		if name == "_" {
			p.advance()
			return &ast.WildcardPattern{SpanV: start}
		}
		p.advance()
		// Uppercase-leading identifier followed by '(' or '.' is a
		// variant/enum pattern; otherwise it's a plain binding.
		if isUpper(name) && (p.curIs(token.LPAREN) || p.curIs(token.DOT)) {
			return p.parseVariantPatternTail(name, start)
		}
		if isUpper(name) && p.curIs(token.LBRACE) {
			return p.parseRecordPatternTail(name, start)
		}
		if isUpper(name) {
			return &ast.VariantPattern{Variant: name, SpanV: start}
		}
		return &ast.IdentPattern{Name: name, SpanV: start}
	case token.INT:
		v := p.cur.Literal
		p.advance()
		return &ast.LitPattern{Value: v, SpanV: start}
	case token.FLOAT:
		v := p.cur.Literal
		p.advance()
		return &ast.LitPattern{Value: v, SpanV: start}
	case token.BOOL:
		v := p.cur.Literal
		p.advance()
		return &ast.LitPattern{Value: v, SpanV: start}
	case token.TEXT:
		v := p.textLiteral(p.cur)
		p.advance()
		return &ast.LitPattern{Value: v, SpanV: start}
	case token.LPAREN:
		p.advance()
		var elems []ast.Pattern
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			elems = append(elems, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		end := p.cur.Span
		p.expect(token.RPAREN, "')'")
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TuplePattern{Elems: elems, SpanV: start.Merge(end)}
	case token.LBRACKET:
		p.advance()
		var elems []ast.Pattern
		var rest *ast.IdentPattern
		for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
			if p.curIs(token.DOT_DOT) {
				p.advance()
				rname := p.cur.Lexeme
				restStart := p.cur.Span
				p.expect(token.IDENT, "rest-binding name")
				rest = &ast.IdentPattern{Name: rname, SpanV: restStart}
				break
			}
			elems = append(elems, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		end := p.cur.Span
		p.expect(token.RBRACKET, "']'")
		return &ast.ListPattern{Elems: elems, Rest: rest, SpanV: start.Merge(end)}
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, p.cur.Span, "expected a pattern, found %q", p.cur.Lexeme)
		p.advance()
		return &ast.WildcardPattern{SpanV: start}
	}
}

func (p *Parser) parseVariantPatternTail(first string, start source.Span) ast.Pattern {
	enum, variant := "", first
	if p.curIs(token.DOT) {
		p.advance()
		enum = first
		variant = p.cur.Lexeme
		p.expect(token.IDENT, "variant name")
	}
	var fields []ast.Pattern
	if p.curIs(token.LPAREN) {
		p.advance()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			fields = append(fields, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN, "')'")
	}
	return &ast.VariantPattern{Enum: enum, Variant: variant, Fields: fields, SpanV: start.Merge(p.prevSpan())}
}

func (p *Parser) parseRecordPatternTail(typeName string, start source.Span) ast.Pattern {
	p.expect(token.LBRACE, "'{'")
	var fields []ast.RecordFieldPattern
	rest := false
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.DOT_DOT) {
			p.advance()
			rest = true
			break
		}
		fname := p.cur.Lexeme
		p.expect(token.IDENT, "field name")
		var fpat ast.Pattern
		if p.curIs(token.COLON) {
			p.advance()
			fpat = p.parsePattern()
		}
		fields = append(fields, ast.RecordFieldPattern{Name: fname, Pattern: fpat})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.RecordPattern{TypeName: typeName, Fields: fields, Rest: rest, SpanV: start.Merge(end)}
}

func isUpper(s string) bool {
	if s == "" {
		return false
	}
	r := s[0]
	return r >= 'A' && r <= 'Z'
}
