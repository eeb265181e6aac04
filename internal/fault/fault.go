// Package fault defines the error kinds raised while reading and evaluating
// wire programs. Every kind aborts the current evaluation.
package fault

import (
	"errors"
	"fmt"

	"icfp/internal/token"
)

type Kind int

const (
	ParseError Kind = iota
	TypeError
	ArithmeticError
	BindingError
	EncodingError
	LimitError
)

var kindNames = [...]string{
	"parse error",
	"type error",
	"arithmetic error",
	"binding error",
	"encoding error",
	"limit error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("fault(%d)", int(k))
}

// Error carries the kind, a message and, when known, the offending token.
// Position is -1 when no source position is attached.
type Error struct {
	Kind     Kind
	Message  string
	Token    string
	Position int
}

func (e *Error) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (token %q at %d)", e.Kind, e.Message, e.Token, e.Position)
}

func New(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...), Position: -1}
}

func NewAt(kind Kind, tok token.Token, format string, a ...any) *Error {
	return &Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, a...),
		Token:    tok.Literal,
		Position: tok.Position,
	}
}

// At attaches tok to err when err is a *Error without a token. Other errors
// are returned unchanged.
func At(err error, tok token.Token) error {
	var fe *Error
	if !errors.As(err, &fe) || fe.Token != "" {
		return err
	}
	located := *fe
	located.Token = tok.Literal
	located.Position = tok.Position
	return &located
}

func IsKind(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// PositionOf returns the source offset recorded in err, or -1.
func PositionOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Position
	}
	return -1
}
