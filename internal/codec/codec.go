// Package codec translates between the wire alphabet (printable ASCII 33..126)
// and the human alphabet string payloads decode into, and converts base-94
// digit strings to and from integers.
package codec

import (
	"math/big"

	"icfp/internal/fault"
)

const (
	Base = 94

	firstWire = '!'
	lastWire  = '~'

	HumanAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!\"#$%&'()*+,-./:;<=>?@[\\]^_`|~ \n"
)

var (
	base94 = big.NewInt(Base)

	wireToHuman [256]byte
	humanToWire [256]byte
	humanDigit  [256]int
)

func init() {
	for i := range humanDigit {
		humanDigit[i] = -1
	}
	for i := 0; i < Base; i++ {
		w := byte(firstWire + i)
		h := HumanAlphabet[i]
		wireToHuman[w] = h
		humanToWire[h] = w
		humanDigit[h] = i
	}
}

func isWire(b byte) bool {
	return b >= firstWire && b <= lastWire
}

// Decode translates wire text into the human alphabet.
func Decode(wire string) (string, error) {
	out := make([]byte, len(wire))
	for i := 0; i < len(wire); i++ {
		b := wire[i]
		if !isWire(b) {
			return "", fault.New(fault.EncodingError, "byte 0x%02x at offset %d is outside the wire alphabet", b, i)
		}
		out[i] = wireToHuman[b]
	}
	return string(out), nil
}

// Encode translates human text into the wire alphabet.
func Encode(human string) (string, error) {
	out := make([]byte, len(human))
	for i := 0; i < len(human); i++ {
		b := human[i]
		if humanDigit[b] < 0 {
			return "", fault.New(fault.EncodingError, "character %q at offset %d is outside the human alphabet", b, i)
		}
		out[i] = humanToWire[b]
	}
	return string(out), nil
}

// DecodeInt reads a big-endian base-94 payload where each digit is the byte
// value minus '!'. The empty payload is zero.
func DecodeInt(payload string) (*big.Int, error) {
	v := new(big.Int)
	digit := new(big.Int)
	for i := 0; i < len(payload); i++ {
		b := payload[i]
		if !isWire(b) {
			return nil, fault.New(fault.EncodingError, "byte 0x%02x at offset %d is not a base-94 digit", b, i)
		}
		v.Mul(v, base94)
		v.Add(v, digit.SetInt64(int64(b-firstWire)))
	}
	return v, nil
}

// EncodeInt is the inverse of DecodeInt. Zero encodes as "!".
func EncodeInt(n *big.Int) (string, error) {
	if n.Sign() < 0 {
		return "", fault.New(fault.EncodingError, "negative integer %s has no base-94 form", n)
	}
	return digits(n, func(d int) byte { return byte(firstWire + d) }), nil
}

// HumanToInt interprets s as base-94 digits valued by their index in the human
// alphabet.
func HumanToInt(s string) (*big.Int, error) {
	v := new(big.Int)
	digit := new(big.Int)
	for i := 0; i < len(s); i++ {
		d := humanDigit[s[i]]
		if d < 0 {
			return nil, fault.New(fault.EncodingError, "character %q at offset %d is outside the human alphabet", s[i], i)
		}
		v.Mul(v, base94)
		v.Add(v, digit.SetInt64(int64(d)))
	}
	return v, nil
}

// IntToHuman renders n with the fewest human-alphabet digits. Zero and
// negative numbers are "a".
func IntToHuman(n *big.Int) string {
	if n.Sign() <= 0 {
		return HumanAlphabet[:1]
	}
	return digits(n, func(d int) byte { return HumanAlphabet[d] })
}

func digits(n *big.Int, symbol func(int) byte) string {
	if n.Sign() == 0 {
		return string(symbol(0))
	}
	var rev []byte
	q := new(big.Int).Set(n)
	r := new(big.Int)
	for q.Sign() > 0 {
		q.QuoRem(q, base94, r)
		rev = append(rev, symbol(int(r.Int64())))
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return string(rev)
}

// StringLiteral returns the S token carrying human.
func StringLiteral(human string) (string, error) {
	wire, err := Encode(human)
	if err != nil {
		return "", err
	}
	return "S" + wire, nil
}

// IntegerLiteral returns the I token for n; negatives are written as a unary
// negation of the magnitude.
func IntegerLiteral(n *big.Int) (string, error) {
	if n.Sign() < 0 {
		mag, _ := EncodeInt(new(big.Int).Neg(n))
		return "U- I" + mag, nil
	}
	payload, err := EncodeInt(n)
	if err != nil {
		return "", err
	}
	return "I" + payload, nil
}

