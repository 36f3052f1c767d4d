package grammar

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"tinyjit/internal/ast"
	"tinyjit/internal/token"
)

// Convert lowers a participle-parsed Program into the same internal/ast
// tree internal/parser produces, so the builder (internal/ir) never needs
// to know which front end produced its input.
func Convert(p *Program) *ast.Program {
	stmts := make([]ast.Stmt, 0, len(p.Stmts))
	for _, s := range p.Stmts {
		stmts = append(stmts, convertStmt(s))
	}
	body := &ast.BlockStmt{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Stmts: stmts}
	return &ast.Program{
		Pos:    pos(p.Pos),
		EndPos: pos(p.EndPos),
		Func:   &ast.FunctionLit{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Body: body},
	}
}

func pos(p lexer.Position) token.Position {
	return token.Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func convertStmt(s *Stmt) ast.Stmt {
	switch {
	case s.Let != nil:
		l := s.Let
		return &ast.LetStmt{
			Pos: pos(l.Pos), EndPos: pos(l.EndPos),
			Name:  ast.Ident{Pos: pos(l.Pos), EndPos: pos(l.EndPos), Name: l.Name},
			Value: convertExpr(l.Value),
		}
	case s.If != nil:
		return convertIf(s.If)
	case s.While != nil:
		w := s.While
		return &ast.WhileStmt{
			Pos: pos(w.Pos), EndPos: pos(w.EndPos),
			Cond: convertExpr(w.Cond),
			Body: convertBlock(w.Pos, w.EndPos, w.Body),
		}
	case s.Break != nil:
		return &ast.BreakStmt{Pos: pos(s.Break.Pos), EndPos: pos(s.Break.EndPos)}
	case s.Continue != nil:
		return &ast.ContinueStmt{Pos: pos(s.Continue.Pos), EndPos: pos(s.Continue.EndPos)}
	case s.Return != nil:
		r := s.Return
		var v ast.Expr
		if r.Value != nil {
			v = convertExpr(r.Value)
		}
		return &ast.ReturnStmt{Pos: pos(r.Pos), EndPos: pos(r.EndPos), Value: v}
	case s.Assign != nil:
		a := s.Assign
		return &ast.AssignStmt{
			Pos: pos(a.Pos), EndPos: pos(a.EndPos),
			Target: convertPostfix(a.Target),
			Value:  convertExpr(a.Value),
		}
	default:
		e := s.Expr
		return &ast.ExprStmt{Pos: pos(e.Pos), EndPos: pos(e.EndPos), X: convertExpr(e.Value)}
	}
}

func convertIf(i *IfStmt) *ast.IfStmt {
	out := &ast.IfStmt{
		Pos: pos(i.Pos), EndPos: pos(i.EndPos),
		Cond: convertExpr(i.Cond),
		Then: convertBlock(i.Pos, i.EndPos, i.Then),
	}
	if len(i.Else) > 0 {
		out.Else = convertBlock(i.Pos, i.EndPos, i.Else)
	}
	return out
}

func convertBlock(start, end lexer.Position, stmts []*Stmt) *ast.BlockStmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, convertStmt(s))
	}
	return &ast.BlockStmt{Pos: pos(start), EndPos: pos(end), Stmts: out}
}

func convertExpr(e *Expr) ast.Expr {
	return convertOr(e.Or)
}

func convertOr(o *OrExpr) ast.Expr {
	left := convertAnd(o.Left)
	for _, r := range o.Rest {
		left = &ast.BinaryExpr{Pos: pos(o.Pos), EndPos: pos(o.EndPos), Op: "||", Left: left, Right: convertAnd(r.Right)}
	}
	return left
}

func convertAnd(a *AndExpr) ast.Expr {
	left := convertEq(a.Left)
	for _, r := range a.Rest {
		left = &ast.BinaryExpr{Pos: pos(a.Pos), EndPos: pos(a.EndPos), Op: "&&", Left: left, Right: convertEq(r.Right)}
	}
	return left
}

func convertEq(e *EqExpr) ast.Expr {
	left := convertRel(e.Left)
	for _, r := range e.Rest {
		left = &ast.BinaryExpr{Pos: pos(e.Pos), EndPos: pos(e.EndPos), Op: r.Op, Left: left, Right: convertRel(r.Right)}
	}
	return left
}

func convertRel(r *RelExpr) ast.Expr {
	left := convertAdd(r.Left)
	for _, rest := range r.Rest {
		left = &ast.BinaryExpr{Pos: pos(r.Pos), EndPos: pos(r.EndPos), Op: rest.Op, Left: left, Right: convertAdd(rest.Right)}
	}
	return left
}

func convertAdd(a *AddExpr) ast.Expr {
	left := convertMul(a.Left)
	for _, r := range a.Rest {
		left = &ast.BinaryExpr{Pos: pos(a.Pos), EndPos: pos(a.EndPos), Op: r.Op, Left: left, Right: convertMul(r.Right)}
	}
	return left
}

func convertMul(m *MulExpr) ast.Expr {
	left := convertUnary(m.Left)
	for _, r := range m.Rest {
		left = &ast.BinaryExpr{Pos: pos(m.Pos), EndPos: pos(m.EndPos), Op: r.Op, Left: left, Right: convertUnary(r.Right)}
	}
	return left
}

func convertUnary(u *Unary) ast.Expr {
	if u.Op == "" {
		return convertPostfix(u.Value)
	}
	return &ast.UnaryExpr{Pos: pos(u.Pos), EndPos: pos(u.EndPos), Op: u.Op, Value: convertPostfix(u.Value)}
}

func convertPostfix(p *Postfix) ast.Expr {
	var result ast.Expr = convertPrimary(p.Primary)
	for _, t := range p.Trail {
		switch {
		case t.Field != nil:
			result = &ast.MemberExpr{
				Pos: pos(p.Pos), EndPos: pos(p.EndPos),
				Target:   result,
				Property: &ast.Ident{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Name: *t.Field},
				Computed: false,
			}
		case t.Index != nil:
			result = &ast.MemberExpr{
				Pos: pos(p.Pos), EndPos: pos(p.EndPos),
				Target: result, Property: convertExpr(t.Index), Computed: true,
			}
		case t.Args != nil:
			args := make([]ast.Expr, 0, len(t.Args.List))
			for _, a := range t.Args.List {
				args = append(args, convertExpr(a))
			}
			result = &ast.CallExpr{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Callee: result, Args: args}
		}
	}
	return result
}

func convertPrimary(p *Primary) ast.Expr {
	switch {
	case p.Number != nil:
		return &ast.NumberLit{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Value: *p.Number}
	case p.String != nil:
		s, _ := strconv.Unquote(*p.String)
		return &ast.StringLit{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Value: s}
	case p.True:
		return &ast.BoolLit{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Value: true}
	case p.False:
		return &ast.BoolLit{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Value: false}
	case p.Nil:
		return &ast.NilLit{Pos: pos(p.Pos), EndPos: pos(p.EndPos)}
	case p.Ident != nil:
		return &ast.Ident{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Name: *p.Ident}
	default:
		return convertExpr(p.SubExpr)
	}
}
