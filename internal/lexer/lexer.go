package lexer

import (
	"icfp/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input
	readPosition int  // next byte position in input
	ch           byte // current byte under examination; 0 means EOF
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next whitespace-delimited token. Once the input is
// exhausted every call returns a token.EOF token positioned at len(input).
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	if l.position >= len(l.input) {
		return token.Token{Tag: token.EOF, Position: l.position}
	}

	start := l.position
	for l.position < len(l.input) && !isWhitespace(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.position]
	return token.Token{Tag: token.Tag(literal[0]), Literal: literal, Position: start}
}

func (l *Lexer) skipWhitespace() {
	for l.position < len(l.input) && isWhitespace(l.ch) {
		l.readChar()
	}
}

// readChar advances by one byte, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		return
	}
	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
}

// The wire alphabet starts at '!' (33); everything at or below space separates
// tokens, which covers ' ', '\t', '\r' and '\n'.
func isWhitespace(ch byte) bool {
	return ch <= ' '
}
