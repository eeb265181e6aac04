package parser

import (
	"log/slog"

	"icfp/internal/ast"
	"icfp/internal/codec"
	"icfp/internal/fault"
	"icfp/internal/lexer"
	"icfp/internal/token"
)

type Parser struct {
	l        *lexer.Lexer
	curToken token.Token
}

// pending is a node whose operands are still being read.
type pending struct {
	node   ast.Node
	arity  int
	filled int
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.l.NextToken()
}

// Done reports whether every token has been consumed.
func (p *Parser) Done() bool {
	return p.curToken.Tag == token.EOF
}

// ParseProgram reads the first expression of src. Tokens after it are ignored.
func ParseProgram(src string) (ast.Node, error) {
	p := New(lexer.New(src))
	node, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.Done() {
		slog.Debug("ignoring tokens after the first expression",
			slog.Int("position", p.curToken.Position),
			slog.String("token", p.curToken.Literal))
	}
	return node, nil
}

// ParseExpression reads exactly one expression. Operands are collected on an
// explicit stack, so the nesting depth is limited only by memory.
func (p *Parser) ParseExpression() (ast.Node, error) {
	var stack []*pending

	for {
		tok := p.curToken
		if tok.Tag == token.EOF {
			if len(stack) == 0 {
				return nil, fault.NewAt(fault.ParseError, tok, "truncated input: expected an expression")
			}
			open := stack[len(stack)-1]
			return nil, fault.NewAt(fault.ParseError, tok,
				"truncated input: %q at %d needs %d operand(s), got %d",
				open.node.TokenLiteral(), open.node.Pos(), open.arity, open.filled)
		}
		p.nextToken()

		arity, ok := token.Arity(tok.Tag)
		if !ok {
			return nil, fault.NewAt(fault.ParseError, tok, "unknown token tag %q", byte(tok.Tag))
		}
		node, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		if arity > 0 {
			stack = append(stack, &pending{node: node, arity: arity})
			continue
		}

		for {
			if len(stack) == 0 {
				return node, nil
			}
			top := stack[len(stack)-1]
			setOperand(top.node, top.filled, node)
			top.filled++
			if top.filled < top.arity {
				break
			}
			stack = stack[:len(stack)-1]
			node = top.node
		}
	}
}

// parseToken builds the node for tok with its operands still unset.
func parseToken(tok token.Token) (ast.Node, error) {
	switch tok.Tag {
	case token.TRUE:
		return &ast.Boolean{Token: tok, Value: true}, nil

	case token.FALSE:
		return &ast.Boolean{Token: tok, Value: false}, nil

	case token.INTEGER:
		v, err := codec.DecodeInt(tok.Payload())
		if err != nil {
			return nil, fault.At(err, tok)
		}
		return &ast.Integer{Token: tok, Value: v}, nil

	case token.STRING:
		return &ast.String{Token: tok, Payload: tok.Payload()}, nil

	case token.UNARY:
		op, err := operator(tok, token.IsUnaryOperator)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Token: tok, Operator: op}, nil

	case token.BINARY:
		op, err := operator(tok, token.IsBinaryOperator)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Token: tok, Operator: op}, nil

	case token.IF:
		return &ast.If{Token: tok}, nil

	case token.LAMBDA:
		name, err := variableName(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Token: tok, Param: name}, nil

	case token.VAR:
		name, err := variableName(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Var{Token: tok, Name: name}, nil
	}

	return nil, fault.NewAt(fault.ParseError, tok, "unhandled token")
}

func operator(tok token.Token, known func(byte) bool) (byte, error) {
	payload := tok.Payload()
	if len(payload) != 1 || !known(payload[0]) {
		return 0, fault.NewAt(fault.ParseError, tok, "unhandled operator %q", payload)
	}
	return payload[0], nil
}

func variableName(tok token.Token) (string, error) {
	n, err := codec.DecodeInt(tok.Payload())
	if err != nil {
		return "", fault.At(err, tok)
	}
	return n.String(), nil
}

func setOperand(n ast.Node, i int, operand ast.Node) {
	switch n := n.(type) {
	case *ast.Unary:
		n.Operand = operand
	case *ast.Binary:
		if i == 0 {
			n.Left = operand
		} else {
			n.Right = operand
		}
	case *ast.If:
		switch i {
		case 0:
			n.Condition = operand
		case 1:
			n.Then = operand
		default:
			n.Else = operand
		}
	case *ast.Lambda:
		n.Body = operand
	}
}
