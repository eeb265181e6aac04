package object

import (
	"fmt"
	"math/big"

	"icfp/internal/ast"
)

const (
	BOOLEAN_OBJ = "BOOLEAN"
	INTEGER_OBJ = "INTEGER"
	STRING_OBJ  = "STRING"
	CLOSURE_OBJ = "CLOSURE"
)

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Integer values are never mutated once built; arithmetic allocates.
type Integer struct {
	Value *big.Int
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return i.Value.String() }

// String holds human-alphabet text.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Closure struct {
	Param string
	Body  ast.Node
	Env   *Environment
}

func (c *Closure) Type() ObjectType { return CLOSURE_OBJ }
func (c *Closure) Inspect() string {
	return fmt.Sprintf("<closure \\v%s env#%d>", c.Param, c.Env.ID)
}

// Compare orders two values of the same type: integers numerically, strings
// bytewise and booleans with false before true. Closures and mixed types are
// not comparable.
func Compare(a, b Object) (int, bool) {
	switch a := a.(type) {
	case *Integer:
		if b, ok := b.(*Integer); ok {
			return a.Value.Cmp(b.Value), true
		}
	case *String:
		if b, ok := b.(*String); ok {
			switch {
			case a.Value < b.Value:
				return -1, true
			case a.Value > b.Value:
				return 1, true
			}
			return 0, true
		}
	case *Boolean:
		if b, ok := b.(*Boolean); ok {
			switch {
			case a.Value == b.Value:
				return 0, true
			case !a.Value:
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}
