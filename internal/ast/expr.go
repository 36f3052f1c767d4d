package ast

import "tinyjit/internal/scope"

func (*BadExpr) exprNode()     {}
func (*Ident) exprNode()       {}
func (*NumberLit) exprNode()   {}
func (*StringLit) exprNode()   {}
func (*NilLit) exprNode()      {}
func (*BoolLit) exprNode()     {}
func (*BinaryExpr) exprNode()  {}
func (*UnaryExpr) exprNode()   {}
func (*TypeofExpr) exprNode()  {}
func (*SizeofExpr) exprNode()  {}
func (*KeysofExpr) exprNode()  {}
func (*CloneExpr) exprNode()   {}
func (*DeleteExpr) exprNode()  {}
func (*CallExpr) exprNode()    {}
func (*MemberExpr) exprNode()  {}
func (*ObjectLit) exprNode()   {}
func (*ArrayLit) exprNode()    {}
func (*FunctionLit) exprNode() {}

// BadExpr marks a location the parser could not make sense of; it lets
// parsing continue (and the error reporter collect more than one error)
// instead of aborting on the first syntax error.
type BadExpr struct {
	Pos, EndPos Position
	Message     string
}

func (b *BadExpr) NodePos() Position    { return b.Pos }
func (b *BadExpr) NodeEndPos() Position { return b.EndPos }
func (b *BadExpr) String() string       { return "<bad: " + b.Message + ">" }

// Ident is a name reference. Slot is nil until the resolver assigns it.
type Ident struct {
	Pos, EndPos Position
	Name        string
	Slot        *scope.Slot
}

func (i *Ident) NodePos() Position    { return i.Pos }
func (i *Ident) NodeEndPos() Position { return i.EndPos }
func (i *Ident) String() string       { return i.Name }

type NumberLit struct {
	Pos, EndPos Position
	Value       string
}

func (n *NumberLit) NodePos() Position    { return n.Pos }
func (n *NumberLit) NodeEndPos() Position { return n.EndPos }
func (n *NumberLit) String() string       { return n.Value }

type StringLit struct {
	Pos, EndPos Position
	Value       string
}

func (s *StringLit) NodePos() Position    { return s.Pos }
func (s *StringLit) NodeEndPos() Position { return s.EndPos }
func (s *StringLit) String() string       { return "\"" + s.Value + "\"" }

type NilLit struct {
	Pos, EndPos Position
}

func (n *NilLit) NodePos() Position    { return n.Pos }
func (n *NilLit) NodeEndPos() Position { return n.EndPos }
func (n *NilLit) String() string       { return "nil" }

type BoolLit struct {
	Pos, EndPos Position
	Value       bool
}

func (b *BoolLit) NodePos() Position    { return b.Pos }
func (b *BoolLit) NodeEndPos() Position { return b.EndPos }
func (b *BoolLit) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// BinaryExpr covers + - * / % == != < <= > >= && ||.
type BinaryExpr struct {
	Pos, EndPos Position
	Op          string
	Left, Right Expr
}

func (b *BinaryExpr) NodePos() Position    { return b.Pos }
func (b *BinaryExpr) NodeEndPos() Position { return b.EndPos }
func (b *BinaryExpr) String() string       { return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")" }

// UnaryExpr covers prefix - and !.
type UnaryExpr struct {
	Pos, EndPos Position
	Op          string
	Value       Expr
}

func (u *UnaryExpr) NodePos() Position    { return u.Pos }
func (u *UnaryExpr) NodeEndPos() Position { return u.EndPos }
func (u *UnaryExpr) String() string       { return u.Op + u.Value.String() }

type TypeofExpr struct {
	Pos, EndPos Position
	Value       Expr
}

func (t *TypeofExpr) NodePos() Position    { return t.Pos }
func (t *TypeofExpr) NodeEndPos() Position { return t.EndPos }
func (t *TypeofExpr) String() string       { return "typeof " + t.Value.String() }

type SizeofExpr struct {
	Pos, EndPos Position
	Value       Expr
}

func (s *SizeofExpr) NodePos() Position    { return s.Pos }
func (s *SizeofExpr) NodeEndPos() Position { return s.EndPos }
func (s *SizeofExpr) String() string       { return "sizeof " + s.Value.String() }

type KeysofExpr struct {
	Pos, EndPos Position
	Value       Expr
}

func (k *KeysofExpr) NodePos() Position    { return k.Pos }
func (k *KeysofExpr) NodeEndPos() Position { return k.EndPos }
func (k *KeysofExpr) String() string       { return "keysof " + k.Value.String() }

type CloneExpr struct {
	Pos, EndPos Position
	Value       Expr
}

func (c *CloneExpr) NodePos() Position    { return c.Pos }
func (c *CloneExpr) NodeEndPos() Position { return c.EndPos }
func (c *CloneExpr) String() string       { return "clone " + c.Value.String() }

type DeleteExpr struct {
	Pos, EndPos Position
	Target      Expr
}

func (d *DeleteExpr) NodePos() Position    { return d.Pos }
func (d *DeleteExpr) NodeEndPos() Position { return d.EndPos }
func (d *DeleteExpr) String() string       { return "delete " + d.Target.String() }

type CallExpr struct {
	Pos, EndPos Position
	Callee      Expr
	Args        []Expr
}

func (c *CallExpr) NodePos() Position    { return c.Pos }
func (c *CallExpr) NodeEndPos() Position { return c.EndPos }
func (c *CallExpr) String() string       { return c.Callee.String() + "(...)" }

// MemberExpr covers both `.prop` (Computed=false, Property is an Ident used
// as a name) and `[expr]` (Computed=true) property access, and is also a
// valid assignment target.
type MemberExpr struct {
	Pos, EndPos Position
	Target      Expr
	Property    Expr
	Computed    bool
}

func (m *MemberExpr) NodePos() Position    { return m.Pos }
func (m *MemberExpr) NodeEndPos() Position { return m.EndPos }
func (m *MemberExpr) String() string       { return m.Target.String() + "[...]" }

type ObjectField struct {
	Pos, EndPos Position
	Key         string
	Value       Expr
}

type ObjectLit struct {
	Pos, EndPos Position
	Fields      []ObjectField
}

func (o *ObjectLit) NodePos() Position    { return o.Pos }
func (o *ObjectLit) NodeEndPos() Position { return o.EndPos }
func (o *ObjectLit) String() string       { return "{...}" }

type ArrayLit struct {
	Pos, EndPos Position
	Elements    []Expr
}

func (a *ArrayLit) NodePos() Position    { return a.Pos }
func (a *ArrayLit) NodeEndPos() Position { return a.EndPos }
func (a *ArrayLit) String() string       { return "[...]" }

// FunctionLit is both an expression (a closure value) and the root of a
// nested compilation unit enqueued separately by the builder.
type FunctionLit struct {
	Pos, EndPos Position
	Name        string // empty for anonymous functions
	Params      []Ident
	Body        *BlockStmt
}

func (f *FunctionLit) NodePos() Position    { return f.Pos }
func (f *FunctionLit) NodeEndPos() Position { return f.EndPos }
func (f *FunctionLit) String() string       { return "fn " + f.Name + "(...)" }
