package ast

import (
	"math/big"
	"testing"

	"icfp/internal/token"
)

func tok(literal string) token.Token {
	return token.Token{Tag: token.Tag(literal[0]), Literal: literal}
}

func TestString(t *testing.T) {
	program := &Binary{
		Token:    tok("B$"),
		Operator: '$',
		Left: &Lambda{
			Token: tok("L#"),
			Param: "2",
			Body: &If{
				Token:     tok("?"),
				Condition: &Var{Token: tok("v#"), Name: "2"},
				Then:      &String{Token: tok("S%"), Payload: "%"},
				Else:      &Unary{Token: tok("U-"), Operator: '-', Operand: &Integer{Token: tok("I\""), Value: big.NewInt(1)}},
			},
		},
		Right: &Boolean{Token: tok("T"), Value: true},
	}

	expected := `B$ L# ? v# S% U- I" T`
	if program.String() != expected {
		t.Errorf("expected %q, got %q", expected, program.String())
	}
}

func TestWalkDeepTree(t *testing.T) {
	var n Node = &Boolean{Token: tok("F")}
	for i := 0; i < 200000; i++ {
		n = &Unary{Token: tok("U!"), Operator: '!', Operand: n}
	}

	count := 0
	Walk(n, func(Node) bool {
		count++
		return true
	})
	if count != 200001 {
		t.Errorf("expected 200001 nodes, got %d", count)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	n := &Binary{
		Token: tok("B+"),
		Left:  &Lambda{Token: tok("L!"), Body: &Var{Token: tok("v!")}},
		Right: &Integer{Token: tok("I!"), Value: big.NewInt(0)},
	}

	var seen []string
	Walk(n, func(cur Node) bool {
		seen = append(seen, cur.TokenLiteral())
		_, isLambda := cur.(*Lambda)
		return !isLambda
	})

	expected := []string{"B+", "L!", "I!"}
	if len(seen) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], seen[i])
		}
	}
}
