package lexer

import (
	"icfp/internal/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := "B$ L# v#\tI!\n  S'%4}).$%8 \r\n?"

	tests := []struct {
		expectedTag      token.Tag
		expectedLiteral  string
		expectedPosition int
	}{
		{token.BINARY, "B$", 0},
		{token.LAMBDA, "L#", 3},
		{token.VAR, "v#", 6},
		{token.INTEGER, "I!", 9},
		{token.STRING, "S'%4}).$%8", 14},
		{token.IF, "?", 27},
		{token.EOF, "", 28},
		{token.EOF, "", 28},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Tag != tt.expectedTag {
			t.Fatalf("tests[%d] - tag wrong. expected=%q, got=%q", i, tt.expectedTag, tok.Tag)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
		if tok.Position != tt.expectedPosition {
			t.Fatalf("tests[%d] - position wrong. expected=%d, got=%d", i, tt.expectedPosition, tok.Position)
		}
	}
}

func TestPayload(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"integer", "I/6", "/6"},
		{"bare tag", "T", ""},
		{"binary op", "B.", "."},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tok := New(c.input).NextToken()
			if tok.Payload() != c.expected {
				t.Errorf("expected payload %q, got %q", c.expected, tok.Payload())
			}
		})
	}
}

// drain reads tokens up to, but excluding, EOF.
func drain(l *Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Tag == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestTokensOnBlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\r\n"} {
		if toks := drain(New(input)); len(toks) != 0 {
			t.Errorf("expected no tokens for %q, got %v", input, toks)
		}
	}
}

func TestUnknownLeadingCharacterIsKept(t *testing.T) {
	toks := drain(New("Z1 I!"))
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(toks))
	}
	if toks[0].Tag != token.Tag('Z') || toks[0].Literal != "Z1" {
		t.Errorf("unexpected first token %+v", toks[0])
	}
}
