package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"icfp/internal/ast"
	"icfp/internal/codec"
	"icfp/internal/token"
)

var binaryTemplates = map[byte]string{
	token.PLUS:     "(%s + %s)",
	token.MINUS:    "(%s - %s)",
	token.ASTERISK: "(%s * %s)",
	token.SLASH:    "(quot %s %s)",
	token.PERCENT:  "(rem %s %s)",
	token.LT:       "(%s < %s)",
	token.GT:       "(%s > %s)",
	token.EQ:       "(%s == %s)",
	token.OR:       "(%s || %s)",
	token.AND:      "(%s && %s)",
	token.CONCAT:   "(%s ++ %s)",
	token.TAKE:     "(take %s %s)",
	token.DROP:     "(drop %s %s)",
	token.APPLY:    "(%s %s)",
}

var unaryTemplates = map[byte]string{
	token.NEGATE:     "(-%s)",
	token.NOT:        "(not %s)",
	token.STR_TO_INT: "(a2n %s)",
	token.INT_TO_STR: "(n2a %s)",
}

// RenderASTAsText renders the AST in a Haskell-like lambda notation, with
// string literals decoded and quoted. It is meant for reading programs, not
// for feeding them back in.
func RenderASTAsText(node ast.Node) string {
	// a piece is either literal text or a node still to be rendered
	type piece struct {
		text string
		node ast.Node
	}
	var out strings.Builder
	stack := []piece{{node: node}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.node == nil {
			out.WriteString(p.text)
			continue
		}

		children := ast.Children(p.node)
		if len(children) == 0 {
			out.WriteString(renderLeaf(p.node))
			continue
		}

		// the template has one %s per operand
		fragments := strings.Split(template(p.node), "%s")
		if len(fragments) != len(children)+1 {
			out.WriteString(fmt.Sprintf("<unknown %T>", p.node))
			continue
		}
		for i := len(children); i >= 0; i-- {
			stack = append(stack, piece{text: fragments[i]})
			if i > 0 {
				stack = append(stack, piece{node: children[i-1]})
			}
		}
	}
	return out.String()
}

func template(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Unary:
		return unaryTemplates[n.Operator]
	case *ast.Binary:
		return binaryTemplates[n.Operator]
	case *ast.If:
		return "(if %s then %s else %s)"
	case *ast.Lambda:
		return "(\\v" + n.Param + " -> %s)"
	}
	return ""
}

func renderLeaf(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Boolean:
		if n.Value {
			return "True"
		}
		return "False"

	case *ast.Integer:
		return n.Value.String()

	case *ast.String:
		text, err := codec.Decode(n.Payload)
		if err != nil {
			return n.TokenLiteral()
		}
		quoted, _ := json.Marshal(text)
		return string(quoted)

	case *ast.Var:
		return "v" + n.Name
	}
	return fmt.Sprintf("<unknown %T>", node)
}
