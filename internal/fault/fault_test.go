package fault

import (
	"fmt"
	"testing"

	"icfp/internal/token"
)

func TestErrorMessage(t *testing.T) {
	tok := token.Token{Tag: token.VAR, Literal: "v#", Position: 12}

	cases := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"without token", New(ArithmeticError, "division by zero"), "arithmetic error: division by zero"},
		{"with token", NewAt(BindingError, tok, "unresolved variable %s", "2"), `binding error: unresolved variable 2 (token "v#" at 12)`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.err.Error() != c.expected {
				t.Errorf("expected %q, got %q", c.expected, c.err.Error())
			}
		})
	}
}

func TestAtKeepsExistingToken(t *testing.T) {
	first := token.Token{Literal: "I~", Position: 3}
	second := token.Token{Literal: "B+", Position: 0}

	err := At(New(EncodingError, "bad digit"), first)
	err = At(err, second)

	if PositionOf(err) != 3 {
		t.Errorf("expected position 3, got %d", PositionOf(err))
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("evaluate: %w", New(TypeError, "expected INTEGER"))

	if !IsKind(err, TypeError) {
		t.Errorf("expected wrapped error to be a type error")
	}
	if IsKind(err, ParseError) {
		t.Errorf("wrapped type error reported as parse error")
	}
	if PositionOf(fmt.Errorf("plain")) != -1 {
		t.Errorf("expected -1 for non-fault errors")
	}
}
