package parser

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/lexer"
	"github.com/astra-lang/astra/internal/token"
)

// textLiteral unescapes a TEXT token's raw literal body. Invalid escapes
// are reported as a diagnostic and the raw body is used unescaped so
// parsing can continue.
func (p *Parser) textLiteral(t token.Token) string {
	raw, _ := t.Literal.(string)
	unescaped, err := lexer.Unescape(raw)
	if err != nil {
		p.errorf(diagnostics.ErrInvalidEscape, t.Span, "%s", err.Error())
	}
	return unescaped
}

// parseItem dispatches on the current token to one of the top-level
// declaration forms. Returns nil (with a diagnostic recorded) on
// unrecoverable syntax so the caller can resynchronize.
func (p *Parser) parseItem() ast.Item {
	public := false
	if p.curIs(token.PUBLIC) {
		public = true
		p.advance()
	}
	switch p.cur.Kind {
	case token.FN:
		return p.parseFunctionDef(public)
	case token.TYPE:
		return p.parseTypeAlias(public)
	case token.RECORD:
		return p.parseRecordDef(public)
	case token.ENUM:
		return p.parseEnumDef(public)
	case token.TRAIT:
		return p.parseTraitDef()
	case token.IMPL:
		return p.parseTraitImpl()
	case token.EFFECT:
		return p.parseEffectDef()
	case token.TEST:
		return p.parseTestDef()
	case token.IMPORT:
		return p.parseImportDef()
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, p.cur.Span, "expected an item, found %q", p.cur.Lexeme)
		p.advance()
		return nil
	}
}

func (p *Parser) parseTypeParams() []string {
	var names []string
	if !p.curIs(token.LBRACKET) {
		return nil
	}
	p.advance()
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		names = append(names, p.cur.Lexeme)
		p.expect(token.IDENT, "type parameter")
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET, "']'")
	return names
}

// parseFunctionDef parses:
//
//	fn name[T](a: A, b: B) -> R effects(E1, E2)
//	  requires(cond1, cond2)
//	  ensures(cond1, cond2)
//	{ body }
func (p *Parser) parseFunctionDef(public bool) *ast.FunctionDef {
	start := p.cur.Span
	p.expect(token.FN, "'fn'")
	namePos := p.cur.Span
	name := p.cur.Lexeme
	p.expect(token.IDENT, "function name")

	typeParams := p.parseTypeParams()

	p.expect(token.LPAREN, "'('")
	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		// An item keyword inside an unclosed parameter list starts the
		// next item: end this function here so ParseModule resumes there.
		if isItemStart(p.cur.Kind) && p.cur.Span.Start > start.Start {
			p.errorf(diagnostics.ErrUnexpectedToken, p.cur.Span, "expected ')', found %q", p.cur.Lexeme)
			return &ast.FunctionDef{NamePos: namePos, Name: name, TypeParams: typeParams, Params: params,
				Body: &ast.Block{SpanV: start}, Public: public, SpanV: start}
		}
		pstart := p.cur.Span
		pname := p.cur.Lexeme
		p.expect(token.IDENT, "parameter name")
		p.expect(token.COLON, "':'")
		ptype := p.parseTypeExpr()
		params = append(params, ast.Param{Name: pname, Type: ptype, Span: pstart.Merge(p.prevSpan())})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN, "')'")

	var retType ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		retType = p.parseTypeExpr()
	}

	var effects []string
	if p.curIs(token.EFFECTS) {
		effects = p.parseEffectsClause()
	}

	var requires, ensures []ast.Expr
	if p.curIs(token.REQUIRES) {
		requires = p.parseContractClause(token.REQUIRES)
	}
	if p.curIs(token.ENSURES) {
		ensures = p.parseContractClause(token.ENSURES)
	}

	body := p.parseBlock()

	return &ast.FunctionDef{
		NamePos: namePos, Name: name, TypeParams: typeParams, Params: params,
		ReturnType: retType, Effects: effects, Requires: requires, Ensures: ensures,
		Body: body, Public: public, SpanV: start.Merge(body.Span()),
	}
}

func (p *Parser) parseContractClause(kw token.Kind) []ast.Expr {
	p.advance() // consume requires/ensures
	p.expect(token.LPAREN, "'('")
	var exprs []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		exprs = append(exprs, p.parseExpr(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN, "')'")
	return exprs
}

func (p *Parser) parseTypeAlias(public bool) *ast.TypeAliasDef {
	start := p.cur.Span
	p.expect(token.TYPE, "'type'")
	name := p.cur.Lexeme
	p.expect(token.IDENT, "type name")
	typeParams := p.parseTypeParams()
	p.expect(token.ASSIGN, "'='")
	target := p.parseTypeExpr()
	return &ast.TypeAliasDef{Name: name, TypeParams: typeParams, Target: target, Public: public, SpanV: start.Merge(p.prevSpan())}
}

func (p *Parser) parseRecordDef(public bool) *ast.RecordDef {
	start := p.cur.Span
	p.expect(token.RECORD, "'record'")
	name := p.cur.Lexeme
	p.expect(token.IDENT, "record name")
	typeParams := p.parseTypeParams()
	p.expect(token.LBRACE, "'{'")
	var fields []ast.RecordFieldDef
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fname := p.cur.Lexeme
		p.expect(token.IDENT, "field name")
		p.expect(token.COLON, "':'")
		fields = append(fields, ast.RecordFieldDef{Name: fname, Type: p.parseTypeExpr()})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.RecordDef{Name: name, TypeParams: typeParams, Fields: fields, Public: public, SpanV: start.Merge(end)}
}

func (p *Parser) parseEnumDef(public bool) *ast.EnumDef {
	start := p.cur.Span
	p.expect(token.ENUM, "'enum'")
	name := p.cur.Lexeme
	p.expect(token.IDENT, "enum name")
	typeParams := p.parseTypeParams()
	p.expect(token.LBRACE, "'{'")
	var variants []ast.EnumVariantDef
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		vname := p.cur.Lexeme
		p.expect(token.IDENT, "variant name")
		var fields []ast.TypeExpr
		if p.curIs(token.LPAREN) {
			p.advance()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				fields = append(fields, p.parseTypeExpr())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN, "')'")
		}
		variants = append(variants, ast.EnumVariantDef{Name: vname, Fields: fields})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.EnumDef{Name: name, TypeParams: typeParams, Variants: variants, Public: public, SpanV: start.Merge(end)}
}

func (p *Parser) parseTraitDef() *ast.TraitDef {
	start := p.cur.Span
	p.expect(token.TRAIT, "'trait'")
	name := p.cur.Lexeme
	p.expect(token.IDENT, "trait name")
	p.expect(token.LBRACE, "'{'")
	var methods []ast.TraitMethodSig
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.expect(token.FN, "'fn'")
		mname := p.cur.Lexeme
		p.expect(token.IDENT, "method name")
		p.expect(token.LPAREN, "'('")
		var params []ast.TypeExpr
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			params = append(params, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN, "')'")
		var ret ast.TypeExpr
		if p.curIs(token.ARROW) {
			p.advance()
			ret = p.parseTypeExpr()
		}
		methods = append(methods, ast.TraitMethodSig{Name: mname, Params: params, ReturnType: ret})
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.TraitDef{Name: name, Methods: methods, SpanV: start.Merge(end)}
}

func (p *Parser) parseTraitImpl() *ast.TraitImpl {
	start := p.cur.Span
	p.expect(token.IMPL, "'impl'")
	traitName := p.cur.Lexeme
	p.expect(token.IDENT, "trait name")
	p.expect(token.FOR, "'for'")
	target := p.parseTypeExpr()
	p.expect(token.LBRACE, "'{'")
	var methods []*ast.FunctionDef
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		methods = append(methods, p.parseFunctionDef(false))
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.TraitImpl{TraitName: traitName, TargetType: target, Methods: methods, SpanV: start.Merge(end)}
}

func (p *Parser) parseEffectDef() *ast.EffectDef {
	start := p.cur.Span
	p.expect(token.EFFECT, "'effect'")
	name := p.cur.Lexeme
	p.expect(token.IDENT, "effect name")
	p.expect(token.LBRACE, "'{'")
	var ops []ast.EffectOpSig
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.expect(token.FN, "'fn'")
		opname := p.cur.Lexeme
		p.expect(token.IDENT, "operation name")
		p.expect(token.LPAREN, "'('")
		var params []ast.TypeExpr
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			params = append(params, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN, "')'")
		var ret ast.TypeExpr
		if p.curIs(token.ARROW) {
			p.advance()
			ret = p.parseTypeExpr()
		}
		ops = append(ops, ast.EffectOpSig{Name: opname, Params: params, ReturnType: ret})
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.EffectDef{Name: name, Operations: ops, SpanV: start.Merge(end)}
}

// parseTestDef parses `test "name" [using effects(E = expr, ...)] { body }`.
func (p *Parser) parseTestDef() *ast.TestDef {
	start := p.cur.Span
	p.expect(token.TEST, "'test'")
	name := p.textLiteral(p.cur)
	p.expect(token.TEXT, "test name string")

	var using *ast.UsingEffects
	if p.curIs(token.USING) {
		p.advance()
		p.expect(token.EFFECTS, "'effects'")
		p.expect(token.LPAREN, "'('")
		u := &ast.UsingEffects{}
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			effName := p.cur.Lexeme
			p.expect(token.IDENT, "effect name")
			p.expect(token.ASSIGN, "'='")
			val := p.parseExpr(precLowest)
			u.Bindings = append(u.Bindings, ast.EffectBinding{Effect: effName, Value: val})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN, "')'")
		using = u
	}

	body := p.parseBlock()
	return &ast.TestDef{Name: name, Using: using, Body: body, SpanV: start.Merge(body.Span())}
}

func (p *Parser) parseImportDef() *ast.ImportDef {
	start := p.cur.Span
	p.expect(token.IMPORT, "'import'")
	path := p.textLiteral(p.cur)
	p.expect(token.TEXT, "import path string")
	var alias string
	if p.curIs(token.IDENT) && p.cur.Lexeme == "as" {
		p.advance()
		alias = p.cur.Lexeme
		p.expect(token.IDENT, "import alias")
	}
	return &ast.ImportDef{Path: path, Alias: alias, SpanV: start.Merge(p.prevSpan())}
}
