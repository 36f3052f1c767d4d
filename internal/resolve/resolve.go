// Package resolve implements the scope analyzer external collaborator: a
// single pass over the AST that assigns a scope.Slot to every identifier,
// distinguishing same-function locals from values captured through the
// closure chain, and rejects break/continue outside a loop.
package resolve

import (
	"tinyjit/internal/ast"
	"tinyjit/internal/errors"
	"tinyjit/internal/scope"
)

// Diagnostic mirrors errors.CompilerError's shape without importing it
// directly into decision logic, so callers choose how to render it.
type Diagnostic struct {
	Code     string
	Message  string
	Position ast.Position
}

type funcScope struct {
	parent *funcScope
	names  map[string]int
	next   int
}

func newFuncScope(parent *funcScope) *funcScope {
	return &funcScope{parent: parent, names: make(map[string]int)}
}

func (s *funcScope) define(name string) int {
	idx := s.next
	s.next++
	s.names[name] = idx
	return idx
}

type loopFrame struct {
	parent *loopFrame
}

// Resolver walks one top-level program, threading a chain of funcScopes for
// closure-capture depth and a chain of loopFrames for break/continue
// validity. global is the outermost funcScope (the top-level program), where
// free identifiers are bound as implicit globals.
type Resolver struct {
	loop        *loopFrame
	global      *funcScope
	Diagnostics []Diagnostic
}

func New() *Resolver { return &Resolver{} }

// Resolve annotates prog.Func and every nested function literal in place.
func Resolve(prog *ast.Program) []Diagnostic {
	r := New()
	r.resolveFunc(prog.Func, nil)
	return r.Diagnostics
}

func (r *Resolver) errorf(pos ast.Position, code, msg string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Code: code, Message: msg, Position: pos})
}

func (r *Resolver) resolveFunc(fn *ast.FunctionLit, parent *funcScope) *funcScope {
	fs := newFuncScope(parent)
	if r.global == nil {
		// The first funcScope created is the top-level program's own scope:
		// free identifiers bind here as implicit globals rather than being
		// rejected, matching a dynamic scripting language's fallback to a
		// global binding.
		r.global = fs
	}
	for i := range fn.Params {
		idx := fs.define(fn.Params[i].Name)
		slot := scope.NewStack(idx)
		fn.Params[i].Slot = &slot
	}
	r.resolveBlock(fn.Body, fs)
	return fs
}

func (r *Resolver) resolveBlock(block *ast.BlockStmt, fs *funcScope) {
	for _, stmt := range block.Stmts {
		r.resolveStmt(stmt, fs)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt, fs *funcScope) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		r.resolveExpr(s.Value, fs)
		idx := fs.define(s.Name.Name)
		slot := scope.NewStack(idx)
		s.Name.Slot = &slot
	case *ast.AssignStmt:
		r.resolveExpr(s.Value, fs)
		r.resolveAssignTarget(s.Target, fs)
	case *ast.ExprStmt:
		r.resolveExpr(s.X, fs)
	case *ast.IfStmt:
		r.resolveExpr(s.Cond, fs)
		r.resolveBlock(s.Then, fs)
		if s.Else != nil {
			switch e := s.Else.(type) {
			case *ast.BlockStmt:
				r.resolveBlock(e, fs)
			default:
				r.resolveStmt(e, fs)
			}
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Cond, fs)
		r.loop = &loopFrame{parent: r.loop}
		r.resolveBlock(s.Body, fs)
		r.loop = r.loop.parent
	case *ast.BreakStmt:
		if r.loop == nil {
			r.errorf(s.Pos, errors.CodeBreakOutsideLoop, "'break' outside of a loop")
		}
	case *ast.ContinueStmt:
		if r.loop == nil {
			r.errorf(s.Pos, errors.CodeContinueOutsideLoop, "'continue' outside of a loop")
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			r.resolveExpr(s.Value, fs)
		}
	case *ast.BadStmt:
		// already diagnosed by the parser
	}
}

func (r *Resolver) resolveAssignTarget(target ast.Expr, fs *funcScope) {
	switch t := target.(type) {
	case *ast.Ident:
		r.resolveIdent(t, fs)
	case *ast.MemberExpr:
		r.resolveExpr(t.Target, fs)
		if t.Computed {
			r.resolveExpr(t.Property, fs)
		}
	default:
		r.errorf(target.NodePos(), errors.CodeInvalidAssign, "invalid assignment target")
	}
}

func (r *Resolver) resolveExpr(expr ast.Expr, fs *funcScope) {
	switch e := expr.(type) {
	case *ast.Ident:
		r.resolveIdent(e, fs)
	case *ast.NumberLit, *ast.StringLit, *ast.NilLit, *ast.BoolLit, *ast.BadExpr:
		// no identifiers to resolve
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left, fs)
		r.resolveExpr(e.Right, fs)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Value, fs)
	case *ast.TypeofExpr:
		r.resolveExpr(e.Value, fs)
	case *ast.SizeofExpr:
		r.resolveExpr(e.Value, fs)
	case *ast.KeysofExpr:
		r.resolveExpr(e.Value, fs)
	case *ast.CloneExpr:
		r.resolveExpr(e.Value, fs)
	case *ast.DeleteExpr:
		r.resolveExpr(e.Target, fs)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee, fs)
		for _, a := range e.Args {
			r.resolveExpr(a, fs)
		}
	case *ast.MemberExpr:
		r.resolveExpr(e.Target, fs)
		if e.Computed {
			r.resolveExpr(e.Property, fs)
		}
	case *ast.ObjectLit:
		for i := range e.Fields {
			r.resolveExpr(e.Fields[i].Value, fs)
		}
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			r.resolveExpr(el, fs)
		}
	case *ast.FunctionLit:
		outerLoop := r.loop
		r.loop = nil // break/continue do not cross a function boundary
		r.resolveFunc(e, fs)
		r.loop = outerLoop
	}
}

// resolveIdent assigns id.Slot: Stack if defined in fs itself, Context(depth,
// index) if defined in an ancestor function scope. An identifier with no
// enclosing definition is bound as an implicit global the first time it's
// referenced, anywhere in the program: it's defined lazily into r.global
// (the top-level program's own scope) and addressed from fs by whatever
// depth separates fs from it — Stack if fs is itself the global scope,
// Context(depth, index) otherwise. This mirrors how dynamic scripting
// languages resolve a free name to a global binding rather than rejecting
// it at compile time; top-level scenarios like `if (c) { ... }` or a call to
// an externally-provided `foo()` are exactly this case.
func (r *Resolver) resolveIdent(id *ast.Ident, fs *funcScope) {
	depth := 0
	for cur := fs; cur != nil; cur = cur.parent {
		if idx, ok := cur.names[id.Name]; ok {
			var slot scope.Slot
			if depth == 0 {
				slot = scope.NewStack(idx)
			} else {
				slot = scope.NewContext(depth, idx)
			}
			id.Slot = &slot
			return
		}
		depth++
	}

	// depth now counts every funcScope walked, including r.global itself
	// (the outermost, since its parent is nil) — so depth-1 is r.global's
	// distance from fs.
	idx := r.global.define(id.Name)
	globalDepth := depth - 1
	var slot scope.Slot
	if globalDepth == 0 {
		slot = scope.NewStack(idx)
	} else {
		slot = scope.NewContext(globalDepth, idx)
	}
	id.Slot = &slot
}
