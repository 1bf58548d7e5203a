package parser

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/token"
)

// parseTypeExpr parses a type annotation: a named type with optional
// `[Args]`, a tuple `(A, B)`, a record `{name: T, ...}`, or a function
// type `(A, B) -> C effects(E, ...)`.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.cur.Span
	switch p.cur.Kind {
	case token.LPAREN:
		p.advance()
		var elems []ast.TypeExpr
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			elems = append(elems, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		endSpan := p.cur.Span
		p.expect(token.RPAREN, "')'")
		if p.curIs(token.ARROW) {
			p.advance()
			ret := p.parseTypeExpr()
			var effects []string
			if p.curIs(token.EFFECTS) {
				effects = p.parseEffectsClause()
			}
			return &ast.FuncTypeExpr{Params: elems, Ret: ret, Effects: effects, SpanV: start.Merge(p.prevSpan())}
		}
		if len(elems) == 1 {
			// Parenthesized single type, not a 1-tuple.
			return elems[0]
		}
		return &ast.TupleTypeExpr{Elems: elems, SpanV: start.Merge(endSpan)}
	case token.LBRACE:
		p.advance()
		var fields []ast.RecordFieldDef
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			name := p.cur.Lexeme
			p.expect(token.IDENT, "field name")
			p.expect(token.COLON, "':'")
			fields = append(fields, ast.RecordFieldDef{Name: name, Type: p.parseTypeExpr()})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		endSpan := p.cur.Span
		p.expect(token.RBRACE, "'}'")
		return &ast.RecordTypeExpr{Fields: fields, SpanV: start.Merge(endSpan)}
	case token.IDENT:
		name := p.cur.Lexeme
		p.advance()
		var args []ast.TypeExpr
		endSpan := start
		if p.curIs(token.LBRACKET) {
			p.advance()
			for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
				args = append(args, p.parseTypeExpr())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			endSpan = p.cur.Span
			p.expect(token.RBRACKET, "']'")
		}
		return &ast.NamedTypeExpr{Name: name, Args: args, SpanV: start.Merge(endSpan)}
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, p.cur.Span, "expected a type, found %q", p.cur.Lexeme)
		p.advance()
		return &ast.NamedTypeExpr{Name: "Unknown", SpanV: start}
	}
}

// parseEffectsClause parses `effects(Name, Name, ...)`.
func (p *Parser) parseEffectsClause() []string {
	p.expect(token.EFFECTS, "'effects'")
	p.expect(token.LPAREN, "'('")
	var names []string
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		names = append(names, p.cur.Lexeme)
		p.expect(token.IDENT, "effect name")
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN, "')'")
	return names
}

// prevSpan approximates the span ending at the just-consumed token; used
// when building a merged span after a sequence of advances where we did
// not capture every intermediate token's span explicitly.
func (p *Parser) prevSpan() source.Span {
	return p.cur.Span
}
