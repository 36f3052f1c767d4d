// Package parser implements a hand-rolled scanner and a recursive-descent,
// precedence-climbing parser producing internal/ast trees. It is
// deliberately small: just enough surface syntax to drive every construct
// the middle-end builder (internal/ir) knows how to translate.
package parser

import (
	"tinyjit/internal/ast"
	"tinyjit/internal/token"
)

type ParseError struct {
	Message  string
	Position token.Position
	Length   int
}

type Parser struct {
	path    string
	tokens  []token.Token
	current int
	errors  []ParseError
}

func NewParser(path string, tokens []token.Token) *Parser {
	filtered := tokens[:0:0]
	for _, t := range tokens {
		if t.Type == token.COMMENT || t.Type == token.BLOCK_COMMENT {
			continue
		}
		filtered = append(filtered, t)
	}
	return &Parser{path: path, tokens: filtered}
}

// ParseProgram parses an entire source file as an implicit top-level
// function literal with no parameters, matching the "AST rooted at a
// function literal" input contract the middle-end expects.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.peek()
	stmts := p.parseStmtsUntil(token.EOF)
	end := p.previous()

	body := &ast.BlockStmt{Pos: p.makePos(start), EndPos: p.makeEndPos(end), Stmts: stmts}
	fn := &ast.FunctionLit{Pos: p.makePos(start), EndPos: p.makeEndPos(end), Body: body}
	return &ast.Program{Pos: fn.Pos, EndPos: fn.EndPos, Func: fn}
}

func (p *Parser) Errors() []ParseError { return p.errors }

// ParseSource scans and parses source in one call, returning the resulting
// program along with any scan/parse errors.
func ParseSource(path, source string) (*ast.Program, []ParseError, []ScanError) {
	scanner := NewScanner(source)
	tokens := scanner.ScanTokens()
	parser := NewParser(path, tokens)
	program := parser.ParseProgram()
	return program, parser.errors, scanner.errors
}

func (p *Parser) parseStmtsUntil(stop token.Type) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(stop) && !p.isAtEnd() {
		stmts = append(stmts, p.parseStmt())
	}
	return stmts
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.consume(token.LEFT_BRACE, "expected '{'")
	stmts := p.parseStmtsUntil(token.RIGHT_BRACE)
	end := p.consume(token.RIGHT_BRACE, "expected '}'")
	return &ast.BlockStmt{Pos: p.makePos(start), EndPos: p.makeEndPos(end), Stmts: stmts}
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.check(token.LET):
		return p.parseLetStmt()
	case p.check(token.IF):
		return p.parseIfStmt()
	case p.check(token.WHILE):
		return p.parseWhileStmt()
	case p.check(token.BREAK):
		tok := p.advance()
		p.match(token.SEMICOLON)
		return &ast.BreakStmt{Pos: p.makePos(tok), EndPos: p.makeEndPos(p.previous())}
	case p.check(token.CONTINUE):
		tok := p.advance()
		p.match(token.SEMICOLON)
		return &ast.ContinueStmt{Pos: p.makePos(tok), EndPos: p.makeEndPos(p.previous())}
	case p.check(token.RETURN):
		return p.parseReturnStmt()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.advance() // 'let'
	nameTok := p.consume(token.IDENTIFIER, "expected identifier after 'let'")
	name := ast.Ident{Pos: p.makePos(nameTok), EndPos: p.makeEndPos(nameTok), Name: nameTok.Lexeme}
	p.consume(token.EQUAL, "expected '=' in let statement")
	value := p.parseExpr()
	p.match(token.SEMICOLON)
	return &ast.LetStmt{Pos: p.makePos(start), EndPos: value.NodeEndPos(), Name: name, Value: value}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlock()
	end := then.EndPos

	var elseStmt ast.Stmt
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			elseStmt = p.parseIfStmt()
		} else {
			elseStmt = p.parseBlock()
		}
		end = elseStmt.NodeEndPos()
	}

	return &ast.IfStmt{Pos: p.makePos(start), EndPos: end, Cond: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.advance() // 'while'
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.WhileStmt{Pos: p.makePos(start), EndPos: body.EndPos, Cond: cond, Body: body}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance() // 'return'
	if p.check(token.SEMICOLON) || p.check(token.RIGHT_BRACE) {
		end := p.previous()
		p.match(token.SEMICOLON)
		return &ast.ReturnStmt{Pos: p.makePos(start), EndPos: p.makeEndPos(end)}
	}
	value := p.parseExpr()
	p.match(token.SEMICOLON)
	return &ast.ReturnStmt{Pos: p.makePos(start), EndPos: value.NodeEndPos(), Value: value}
}

func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	expr := p.parseExpr()
	if p.match(token.EQUAL) {
		value := p.parseExpr()
		p.match(token.SEMICOLON)
		return &ast.AssignStmt{Pos: expr.NodePos(), EndPos: value.NodeEndPos(), Target: expr, Value: value}
	}
	p.match(token.SEMICOLON)
	return &ast.ExprStmt{Pos: expr.NodePos(), EndPos: expr.NodeEndPos(), X: expr}
}
