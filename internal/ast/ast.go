package ast

import (
	"math/big"
	"strings"

	"icfp/internal/token"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
	Pos() int
	node()
}

type Boolean struct {
	Token token.Token // T or F
	Value bool
}

func (b *Boolean) node()                {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) Pos() int             { return b.Token.Position }
func (b *Boolean) String() string       { return b.Token.Literal }

type Integer struct {
	Token token.Token
	Value *big.Int
}

func (i *Integer) node()                {}
func (i *Integer) TokenLiteral() string { return i.Token.Literal }
func (i *Integer) Pos() int             { return i.Token.Position }
func (i *Integer) String() string       { return i.Token.Literal }

// String keeps its payload in wire form; it is decoded when evaluated.
type String struct {
	Token   token.Token
	Payload string
}

func (s *String) node()                {}
func (s *String) TokenLiteral() string { return s.Token.Literal }
func (s *String) Pos() int             { return s.Token.Position }
func (s *String) String() string       { return s.Token.Literal }

type Unary struct {
	Token    token.Token
	Operator byte
	Operand  Node
}

func (u *Unary) node()                {}
func (u *Unary) TokenLiteral() string { return u.Token.Literal }
func (u *Unary) Pos() int             { return u.Token.Position }
func (u *Unary) String() string       { return render(u) }

type Binary struct {
	Token    token.Token
	Operator byte
	Left     Node
	Right    Node
}

func (b *Binary) node()                {}
func (b *Binary) TokenLiteral() string { return b.Token.Literal }
func (b *Binary) Pos() int             { return b.Token.Position }
func (b *Binary) String() string       { return render(b) }

type If struct {
	Token     token.Token
	Condition Node
	Then      Node
	Else      Node
}

func (i *If) node()                {}
func (i *If) TokenLiteral() string { return i.Token.Literal }
func (i *If) Pos() int             { return i.Token.Position }
func (i *If) String() string       { return render(i) }

// Lambda binds Param, the decimal form of the base-94 index in its token.
type Lambda struct {
	Token token.Token
	Param string
	Body  Node
}

func (l *Lambda) node()                {}
func (l *Lambda) TokenLiteral() string { return l.Token.Literal }
func (l *Lambda) Pos() int             { return l.Token.Position }
func (l *Lambda) String() string       { return render(l) }

type Var struct {
	Token token.Token
	Name  string
}

func (v *Var) node()                {}
func (v *Var) TokenLiteral() string { return v.Token.Literal }
func (v *Var) Pos() int             { return v.Token.Position }
func (v *Var) String() string       { return v.Token.Literal }

// Children returns the operands of n in reading order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Unary:
		return []Node{n.Operand}
	case *Binary:
		return []Node{n.Left, n.Right}
	case *If:
		return []Node{n.Condition, n.Then, n.Else}
	case *Lambda:
		return []Node{n.Body}
	}
	return nil
}

// Walk visits n and its descendants in prefix order without recursing, so
// arbitrarily deep trees are safe. Returning false from fn skips the children
// of the visited node.
func Walk(n Node, fn func(Node) bool) {
	stack := []Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		children := Children(cur)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// render writes the wire form of n: token literals in prefix order.
func render(n Node) string {
	var out strings.Builder
	Walk(n, func(cur Node) bool {
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(cur.TokenLiteral())
		return true
	})
	return out.String()
}
