package parser

import (
	"strings"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/lexer"
	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/token"
)

// parseBlock parses a `{ stmt* }` block. The final statement, if it is a
// bare expression statement, is the block's value; every other shape
// (let, assignment, or a trailing expression followed by more
// statements) evaluates to Unit for that position.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Span
	p.expect(token.LBRACE, "'{'")
	var stmts []ast.Stmt
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.Block{Stmts: stmts, SpanV: start.Merge(end)}
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur.Span
	if p.curIs(token.LET) {
		p.advance()
		pat := p.parsePattern()
		var typ ast.TypeExpr
		if p.curIs(token.COLON) {
			p.advance()
			typ = p.parseTypeExpr()
		}
		p.expect(token.ASSIGN, "'='")
		val := p.parseExpr(precLowest)
		return &ast.LetStmt{Pattern: pat, Type: typ, Value: val, SpanV: start.Merge(p.prevSpan())}
	}

	x := p.parseExpr(precLowest)
	if op, ok := assignOp(p.cur.Kind); ok {
		p.advance()
		val := p.parseExpr(precLowest)
		return &ast.AssignStmt{Target: x, Op: op, Value: val, SpanV: start.Merge(p.prevSpan())}
	}
	return &ast.ExprStmt{X: x, SpanV: start.Merge(p.prevSpan())}
}

func assignOp(k token.Kind) (string, bool) {
	switch k {
	case token.ASSIGN:
		return "=", true
	}
	return "", false
}

// parseExpr implements precedence-climbing for binary operators, on top
// of a unary/postfix-aware primary parser, per spec §4.C's precedence
// table (assignment handled at the statement level above; lowest
// expression precedence here is ||).
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := binPrecedence[p.cur.Kind]
		if !ok || prec < minPrec {
			return left
		}
		op := p.cur.Lexeme
		start := left.Span()
		p.advance()
		if op == ".." || op == "..=" {
			to := p.parseExpr(prec + 1)
			left = &ast.RangeExpr{From: left, To: to, Inclusive: op == "..=", SpanV: start.Merge(to.Span())}
			continue
		}
		right := p.parseExpr(prec + 1)
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, SpanV: start.Merge(right.Span())}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur.Span
	switch p.cur.Kind {
	case token.BANG, token.MINUS:
		op := p.cur.Lexeme
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Op: op, X: x, SpanV: start.Merge(x.Span())}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		switch p.cur.Kind {
		case token.DOT:
			p.advance()
			name := p.cur.Lexeme
			namePos := p.cur.Span
			// Tuple positional access (t.0, t.1, ...) lexes its field
			// name as an INT token, not IDENT; accept either here.
			if p.curIs(token.INT) {
				p.advance()
			} else {
				p.expect(token.IDENT, "field or method name")
			}
			if p.curIs(token.LPAREN) {
				args := p.parseArgs()
				x = &ast.MethodCallExpr{Receiver: x, Name: name, Args: args, SpanV: x.Span().Merge(p.prevSpan())}
				continue
			}
			x = &ast.FieldAccessExpr{X: x, Name: name, SpanV: x.Span().Merge(namePos)}
		case token.LPAREN:
			args := p.parseArgs()
			x = &ast.CallExpr{Callee: x, Args: args, SpanV: x.Span().Merge(p.prevSpan())}
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr(precLowest)
			end := p.cur.Span
			p.expect(token.RBRACKET, "']'")
			x = &ast.IndexExpr{X: x, Index: idx, SpanV: x.Span().Merge(end)}
		case token.QUESTION:
			end := p.cur.Span
			p.advance()
			x = &ast.TryExpr{X: x, SpanV: x.Span().Merge(end)}
		default:
			return x
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LPAREN, "'('")
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpr(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN, "')'")
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur.Span
	switch p.cur.Kind {
	case token.INT:
		v := p.cur.Literal.(int64)
		p.advance()
		return &ast.IntLit{Value: v, SpanV: start}
	case token.FLOAT:
		v := p.cur.Literal.(float64)
		p.advance()
		return &ast.FloatLit{Value: v, SpanV: start}
	case token.BOOL:
		v := p.cur.Literal.(bool)
		p.advance()
		return &ast.BoolLit{Value: v, SpanV: start}
	case token.HOLE:
		p.advance()
		return &ast.Hole{SpanV: start}
	case token.TEXT:
		raw, _ := p.cur.Literal.(string)
		p.advance()
		return p.parseTextLiteral(raw, start)
	case token.LPAREN:
		p.advance()
		if p.curIs(token.RPAREN) {
			end := p.cur.Span
			p.advance()
			return &ast.UnitLit{SpanV: start.Merge(end)}
		}
		first := p.parseExpr(precLowest)
		if p.curIs(token.COMMA) {
			elems := []ast.Expr{first}
			for p.curIs(token.COMMA) {
				p.advance()
				if p.curIs(token.RPAREN) {
					break
				}
				elems = append(elems, p.parseExpr(precLowest))
			}
			end := p.cur.Span
			p.expect(token.RPAREN, "')'")
			return &ast.TupleLit{Elems: elems, SpanV: start.Merge(end)}
		}
		end := p.cur.Span
		p.expect(token.RPAREN, "')'")
		_ = end
		return first
	case token.LBRACKET:
		return p.parseListLit(start)
	case token.FN:
		return p.parseLambda(start)
	case token.IF:
		return p.parseIf(start)
	case token.MATCH:
		return p.parseMatch(start)
	case token.WHILE:
		return p.parseWhile(start)
	case token.FOR:
		return p.parseFor(start)
	case token.RETURN:
		p.advance()
		if blockTerminator(p.cur.Kind) {
			return &ast.ReturnExpr{SpanV: start}
		}
		v := p.parseExpr(precLowest)
		return &ast.ReturnExpr{Value: v, SpanV: start.Merge(v.Span())}
	case token.BREAK:
		p.advance()
		return &ast.BreakExpr{SpanV: start}
	case token.CONTINUE:
		p.advance()
		return &ast.ContinueExpr{SpanV: start}
	case token.PERFORM:
		return p.parsePerform(start)
	case token.IDENT:
		name := p.cur.Lexeme
		p.advance()
		if isUpper(name) {
			return p.parseUpperPrimary(name, start)
		}
		return &ast.Identifier{Name: name, SpanV: start}
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, p.cur.Span, "expected an expression, found %q", p.cur.Lexeme)
		p.advance()
		return &ast.UnitLit{SpanV: start}
	}
}

// parseUpperPrimary handles an uppercase-leading identifier already
// consumed: either `Enum.Variant(...)`, a bare `Variant(...)`/`Variant`
// constructor, `Type { field: val, ... }` record construction, or (if
// none of those follow) a plain identifier reference to a type/module
// name used as a value (e.g. a trait static call target).
func (p *Parser) parseUpperPrimary(name string, start source.Span) ast.Expr {
	if p.curIs(token.DOT) && p.peekIsUpperIdent() {
		p.advance()
		variant := p.cur.Lexeme
		p.expect(token.IDENT, "variant name")
		var args []ast.Expr
		if p.curIs(token.LPAREN) {
			args = p.parseArgs()
		}
		return &ast.VariantLit{Enum: name, Variant: variant, Args: args, SpanV: start.Merge(p.prevSpan())}
	}
	if p.curIs(token.LBRACE) {
		return p.parseRecordLit(name, start)
	}
	if p.curIs(token.LPAREN) {
		args := p.parseArgs()
		return &ast.VariantLit{Variant: name, Args: args, SpanV: start.Merge(p.prevSpan())}
	}
	return &ast.Identifier{Name: name, SpanV: start}
}

// peekIsUpperIdent is a best-effort lookahead used only to disambiguate
// `Enum.Variant` from a field access on a value incidentally named with
// an uppercase letter; Astra field names are conventionally lowercase so
// this heuristic matches real programs without backtracking machinery.
func (p *Parser) peekIsUpperIdent() bool {
	return p.peek.Kind == token.IDENT && isUpper(p.peek.Lexeme)
}

func (p *Parser) parseRecordLit(typeName string, start source.Span) ast.Expr {
	p.expect(token.LBRACE, "'{'")
	var fields []ast.RecordFieldInit
	var spread ast.Expr
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.DOT_DOT) {
			p.advance()
			spread = p.parseExpr(precLowest)
			if p.curIs(token.COMMA) {
				p.advance()
			}
			continue
		}
		fname := p.cur.Lexeme
		p.expect(token.IDENT, "field name")
		var val ast.Expr
		if p.curIs(token.COLON) {
			p.advance()
			val = p.parseExpr(precLowest)
		} else {
			val = &ast.Identifier{Name: fname, SpanV: p.prevSpan()}
		}
		fields = append(fields, ast.RecordFieldInit{Name: fname, Value: val})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.RecordLit{TypeName: typeName, Fields: fields, Spread: spread, SpanV: start.Merge(end)}
}

func (p *Parser) parseListLit(start source.Span) ast.Expr {
	p.expect(token.LBRACKET, "'['")
	var elems []ast.Expr
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseExpr(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	end := p.cur.Span
	p.expect(token.RBRACKET, "']'")
	return &ast.ListLit{Elems: elems, SpanV: start.Merge(end)}
}

func (p *Parser) parseLambda(start source.Span) ast.Expr {
	p.expect(token.FN, "'fn'")
	p.expect(token.LPAREN, "'('")
	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		pstart := p.cur.Span
		pname := p.cur.Lexeme
		p.expect(token.IDENT, "parameter name")
		var ptype ast.TypeExpr
		if p.curIs(token.COLON) {
			p.advance()
			ptype = p.parseTypeExpr()
		}
		params = append(params, ast.Param{Name: pname, Type: ptype, Span: pstart.Merge(p.prevSpan())})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN, "')'")
	if p.curIs(token.FAT_ARROW) {
		p.advance()
	}
	var body ast.Expr
	if p.curIs(token.LBRACE) {
		body = &ast.BlockExpr{Block: p.parseBlock()}
	} else {
		body = p.parseExpr(precLowest)
	}
	return &ast.LambdaExpr{Params: params, Body: body, SpanV: start.Merge(body.Span())}
}

func (p *Parser) parseIf(start source.Span) ast.Expr {
	p.expect(token.IF, "'if'")
	cond := p.parseExpr(precLowest)
	then := p.parseBlock()
	var elseExpr ast.Expr
	if p.curIs(token.ELSE) {
		p.advance()
		if p.curIs(token.IF) {
			elseExpr = p.parseIf(p.cur.Span)
		} else {
			elseExpr = &ast.BlockExpr{Block: p.parseBlock()}
		}
	}
	end := then.Span()
	if elseExpr != nil {
		end = elseExpr.Span()
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: elseExpr, SpanV: start.Merge(end)}
}

func (p *Parser) parseMatch(start source.Span) ast.Expr {
	p.expect(token.MATCH, "'match'")
	subject := p.parseExpr(precLowest)
	p.expect(token.LBRACE, "'{'")
	var arms []ast.MatchArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.curIs(token.IF) {
			p.advance()
			guard = p.parseExpr(precLowest)
		}
		p.expect(token.FAT_ARROW, "'=>'")
		var body ast.Expr
		if p.curIs(token.LBRACE) {
			body = &ast.BlockExpr{Block: p.parseBlock()}
		} else {
			body = p.parseExpr(precLowest)
		}
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	end := p.cur.Span
	p.expect(token.RBRACE, "'}'")
	return &ast.MatchExpr{Subject: subject, Arms: arms, SpanV: start.Merge(end)}
}

func (p *Parser) parseWhile(start source.Span) ast.Expr {
	p.expect(token.WHILE, "'while'")
	cond := p.parseExpr(precLowest)
	body := p.parseBlock()
	return &ast.WhileExpr{Cond: cond, Body: body, SpanV: start.Merge(body.Span())}
}

func (p *Parser) parseFor(start source.Span) ast.Expr {
	p.expect(token.FOR, "'for'")
	pat := p.parsePattern()
	p.expect(token.IN, "'in'")
	iterable := p.parseExpr(precLowest)
	body := p.parseBlock()
	return &ast.ForExpr{Pattern: pat, Iterable: iterable, Body: body, SpanV: start.Merge(body.Span())}
}

func (p *Parser) parsePerform(start source.Span) ast.Expr {
	p.expect(token.PERFORM, "'perform'")
	effect := p.cur.Lexeme
	p.expect(token.IDENT, "effect name")
	p.expect(token.DOT, "'.'")
	op := p.cur.Lexeme
	p.expect(token.IDENT, "operation name")
	args := p.parseArgs()
	return &ast.PerformExpr{Effect: effect, Op: op, Args: args, SpanV: start.Merge(p.prevSpan())}
}

func blockTerminator(k token.Kind) bool {
	return k == token.RBRACE || k == token.EOF
}

// parseTextLiteral splits a TEXT token's raw body on `${...}` markers
// (already brace-balanced by the lexer) into alternating unescaped
// literal parts and sub-parsed expressions, matching the division of
// labor from original_source (lexer scans raw, parser unescapes and
// resolves interpolation). A body with no `${` collapses to a plain
// TextLit.
func (p *Parser) parseTextLiteral(raw string, span source.Span) ast.Expr {
	if !strings.Contains(raw, "${") {
		s, err := lexer.Unescape(raw)
		if err != nil {
			p.errorf(diagnostics.ErrInvalidEscape, span, "%s", err.Error())
		}
		return &ast.TextLit{Value: s, SpanV: span}
	}

	var parts []string
	var exprs []ast.Expr
	i := 0
	for i < len(raw) {
		j := strings.Index(raw[i:], "${")
		if j < 0 {
			lit, _ := lexer.Unescape(raw[i:])
			parts = append(parts, lit)
			break
		}
		lit, _ := lexer.Unescape(raw[i : i+j])
		parts = append(parts, lit)
		exprStart := i + j + 2
		depth := 1
		k := exprStart
		for k < len(raw) && depth > 0 {
			switch raw[k] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				break
			}
			k++
		}
		exprSrc := raw[exprStart:k]
		exprs = append(exprs, p.parseSubExpr(exprSrc, span))
		i = k + 1
	}
	if len(parts) <= len(exprs) {
		parts = append(parts, "")
	}
	return &ast.InterpolatedText{Parts: parts, Exprs: exprs, SpanV: span}
}

// parseSubExpr parses a standalone expression extracted from inside a
// `${...}` interpolation marker, reusing the span of the enclosing text
// literal (interpolated sub-expressions are short enough in practice
// that a coarser span is an acceptable diagnostic trade-off).
func (p *Parser) parseSubExpr(src string, span source.Span) ast.Expr {
	file := source.NewFile(span.File.Path, src)
	sub := New(file)
	e := sub.parseExpr(precLowest)
	p.errs = append(p.errs, sub.errs...)
	return e
}
