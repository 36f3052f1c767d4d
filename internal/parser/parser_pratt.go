package parser

import (
	"tinyjit/internal/ast"
	"tinyjit/internal/token"
)

var binaryPrecedence = map[token.Type]int{
	token.OR:            1,
	token.AND:           2,
	token.EQUAL_EQUAL:   3,
	token.BANG_EQUAL:    3,
	token.LESS:          4,
	token.LESS_EQUAL:    4,
	token.GREATER:       4,
	token.GREATER_EQUAL: 4,
	token.PLUS:          5,
	token.MINUS:         5,
	token.STAR:          6,
	token.SLASH:         6,
	token.PERCENT:       6,
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePrattExpr(0)
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Expr {
	expr := p.parsePrefixExpr()

	for {
		tok := p.peek()
		prec, ok := binaryPrecedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right := p.parsePrattExpr(prec + 1)
		expr = &ast.BinaryExpr{Pos: expr.NodePos(), EndPos: right.NodeEndPos(), Op: tok.Lexeme, Left: expr, Right: right}
	}

	return expr
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	if p.match(token.MINUS, token.BANG) {
		op := p.previous()
		value := p.parsePrefixExpr()
		return &ast.UnaryExpr{Pos: p.makePos(op), EndPos: value.NodeEndPos(), Op: op.Lexeme, Value: value}
	}
	if p.match(token.TYPEOF) {
		op := p.previous()
		value := p.parsePrefixExpr()
		return &ast.TypeofExpr{Pos: p.makePos(op), EndPos: value.NodeEndPos(), Value: value}
	}
	if p.match(token.SIZEOF) {
		op := p.previous()
		value := p.parsePrefixExpr()
		return &ast.SizeofExpr{Pos: p.makePos(op), EndPos: value.NodeEndPos(), Value: value}
	}
	if p.match(token.KEYSOF) {
		op := p.previous()
		value := p.parsePrefixExpr()
		return &ast.KeysofExpr{Pos: p.makePos(op), EndPos: value.NodeEndPos(), Value: value}
	}
	if p.match(token.CLONE) {
		op := p.previous()
		value := p.parsePrefixExpr()
		return &ast.CloneExpr{Pos: p.makePos(op), EndPos: value.NodeEndPos(), Value: value}
	}
	if p.match(token.DELETE) {
		op := p.previous()
		target := p.parsePrefixExpr()
		return &ast.DeleteExpr{Pos: p.makePos(op), EndPos: target.NodeEndPos(), Target: target}
	}
	return p.parsePostfixExpr(p.parsePrimaryExpr())
}

func (p *Parser) parsePostfixExpr(expr ast.Expr) ast.Expr {
	for {
		switch {
		case p.match(token.DOT):
			field := p.consume(token.IDENTIFIER, "expected field name after '.'")
			prop := &ast.Ident{Pos: p.makePos(field), EndPos: p.makeEndPos(field), Name: field.Lexeme}
			expr = &ast.MemberExpr{Pos: expr.NodePos(), EndPos: prop.EndPos, Target: expr, Property: prop, Computed: false}
		case p.check(token.LEFT_PAREN):
			p.advance()
			args := p.parseExprList()
			end := p.consume(token.RIGHT_PAREN, "expected ')' after arguments")
			expr = &ast.CallExpr{Pos: expr.NodePos(), EndPos: p.makeEndPos(end), Callee: expr, Args: args}
		case p.check(token.LEFT_BRACKET):
			p.advance()
			index := p.parseExpr()
			end := p.consume(token.RIGHT_BRACKET, "expected ']' after index")
			expr = &ast.MemberExpr{Pos: expr.NodePos(), EndPos: p.makeEndPos(end), Target: expr, Property: index, Computed: true}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	switch {
	case p.match(token.NUMBER, token.HEX_NUMBER):
		tok := p.previous()
		return &ast.NumberLit{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: tok.Lexeme}
	case p.match(token.STRING):
		tok := p.previous()
		return &ast.StringLit{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: tok.Lexeme}
	case p.match(token.NIL):
		tok := p.previous()
		return &ast.NilLit{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok)}
	case p.match(token.TRUE):
		tok := p.previous()
		return &ast.BoolLit{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: true}
	case p.match(token.FALSE):
		tok := p.previous()
		return &ast.BoolLit{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: false}
	case p.match(token.IDENTIFIER):
		tok := p.previous()
		return &ast.Ident{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Name: tok.Lexeme}
	case p.match(token.FUN):
		return p.parseFunctionLit(p.previous())
	case p.check(token.LEFT_BRACE):
		return p.parseObjectLit()
	case p.check(token.LEFT_BRACKET):
		return p.parseArrayLit()
	case p.match(token.LEFT_PAREN):
		expr := p.parseExpr()
		p.consume(token.RIGHT_PAREN, "expected ')'")
		return expr
	default:
		tok := p.peek()
		p.errorAtCurrent("unexpected token in expression: " + tok.Lexeme)
		bad := &ast.BadExpr{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Message: "unexpected token: " + tok.Lexeme}
		p.advance()
		return bad
	}
}

func (p *Parser) parseExprList() []ast.Expr {
	var args []ast.Expr
	if p.check(token.RIGHT_PAREN) {
		return args
	}
	for {
		args = append(args, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	return args
}

func (p *Parser) parseObjectLit() ast.Expr {
	start := p.advance() // '{'
	var fields []ast.ObjectField
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		nameTok := p.consume(token.IDENTIFIER, "expected field name")
		p.consume(token.COLON, "expected ':' after field name")
		value := p.parseExpr()
		fields = append(fields, ast.ObjectField{Pos: p.makePos(nameTok), EndPos: value.NodeEndPos(), Key: nameTok.Lexeme, Value: value})
		if !p.match(token.COMMA) {
			break
		}
	}
	end := p.consume(token.RIGHT_BRACE, "expected '}' after object literal")
	return &ast.ObjectLit{Pos: p.makePos(start), EndPos: p.makeEndPos(end), Fields: fields}
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.advance() // '['
	var elements []ast.Expr
	for !p.check(token.RIGHT_BRACKET) && !p.isAtEnd() {
		elements = append(elements, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	end := p.consume(token.RIGHT_BRACKET, "expected ']' after array literal")
	return &ast.ArrayLit{Pos: p.makePos(start), EndPos: p.makeEndPos(end), Elements: elements}
}

func (p *Parser) parseFunctionLit(start token.Token) ast.Expr {
	name := ""
	if p.check(token.IDENTIFIER) {
		name = p.advance().Lexeme
	}
	p.consume(token.LEFT_PAREN, "expected '(' after 'fn'")
	var params []ast.Ident
	if !p.check(token.RIGHT_PAREN) {
		for {
			tok := p.consume(token.IDENTIFIER, "expected parameter name")
			params = append(params, ast.Ident{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Name: tok.Lexeme})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' after parameters")
	body := p.parseBlock()
	return &ast.FunctionLit{Pos: p.makePos(start), EndPos: body.EndPos, Name: name, Params: params, Body: body}
}
