package token

type Tag byte

const (
	EOF Tag = 0

	TRUE    Tag = 'T'
	FALSE   Tag = 'F'
	INTEGER Tag = 'I'
	STRING  Tag = 'S'
	UNARY   Tag = 'U'
	BINARY  Tag = 'B'
	IF      Tag = '?'
	LAMBDA  Tag = 'L'
	VAR     Tag = 'v'
)

// Unary operators
const (
	NEGATE     = '-'
	NOT        = '!'
	STR_TO_INT = '#'
	INT_TO_STR = '$'
)

// Binary operators
const (
	PLUS     = '+'
	MINUS    = '-'
	ASTERISK = '*'
	SLASH    = '/'
	PERCENT  = '%'
	LT       = '<'
	GT       = '>'
	EQ       = '='
	OR       = '|'
	AND      = '&'
	CONCAT   = '.'
	TAKE     = 'T'
	DROP     = 'D'
	APPLY    = '$'
)

type Token struct {
	Tag      Tag
	Literal  string
	Position int // the src index of the token
}

// Payload is everything after the tag character.
func (t Token) Payload() string {
	if len(t.Literal) == 0 {
		return ""
	}
	return t.Literal[1:]
}

var arity = map[Tag]int{
	TRUE:    0,
	FALSE:   0,
	INTEGER: 0,
	STRING:  0,
	VAR:     0,
	UNARY:   1,
	LAMBDA:  1,
	BINARY:  2,
	IF:      3,
}

// Arity reports the number of operand expressions that follow a token with the
// given tag. ok is false for tags the language does not define.
func Arity(tag Tag) (n int, ok bool) {
	n, ok = arity[tag]
	return
}

func IsUnaryOperator(op byte) bool {
	switch op {
	case NEGATE, NOT, STR_TO_INT, INT_TO_STR:
		return true
	}
	return false
}

func IsBinaryOperator(op byte) bool {
	switch op {
	case PLUS, MINUS, ASTERISK, SLASH, PERCENT, LT, GT, EQ, OR, AND, CONCAT, TAKE, DROP, APPLY:
		return true
	}
	return false
}
