package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"icfp/internal/ast"
	"icfp/internal/codec"
)

// WalkAST serializes an AST into a machine-centric map structure. The output
// is stable and meant for tool-chain consumption.
func WalkAST(node ast.Node) interface{} {
	return foldAST(node, walkNode)
}

func walkNode(node ast.Node, operands []interface{}) interface{} {
	switch n := node.(type) {
	case *ast.Boolean:
		return map[string]interface{}{
			"type":     "Boolean",
			"position": n.Token.Position,
			"token":    n.TokenLiteral(),
			"value":    n.Value,
		}

	case *ast.Integer:
		return map[string]interface{}{
			"type":     "Integer",
			"position": n.Token.Position,
			"token":    n.TokenLiteral(),
			"value":    n.Value.String(),
		}

	case *ast.String:
		m := map[string]interface{}{
			"type":     "String",
			"position": n.Token.Position,
			"token":    n.TokenLiteral(),
		}
		if text, err := codec.Decode(n.Payload); err == nil {
			m["value"] = text
		}
		return m

	case *ast.Unary:
		return map[string]interface{}{
			"type":     "Unary",
			"position": n.Token.Position,
			"token":    n.TokenLiteral(),
			"operator": string(n.Operator),
			"operand":  operands[0],
		}

	case *ast.Binary:
		return map[string]interface{}{
			"type":     "Binary",
			"position": n.Token.Position,
			"token":    n.TokenLiteral(),
			"operator": string(n.Operator),
			"left":     operands[0],
			"right":    operands[1],
		}

	case *ast.If:
		return map[string]interface{}{
			"type":      "If",
			"position":  n.Token.Position,
			"token":     n.TokenLiteral(),
			"condition": operands[0],
			"then":      operands[1],
			"else":      operands[2],
		}

	case *ast.Lambda:
		return map[string]interface{}{
			"type":     "Lambda",
			"position": n.Token.Position,
			"token":    n.TokenLiteral(),
			"param":    n.Param,
			"body":     operands[0],
		}

	case *ast.Var:
		return map[string]interface{}{
			"type":     "Var",
			"position": n.Token.Position,
			"token":    n.TokenLiteral(),
			"name":     n.Name,
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
			"node": fmt.Sprintf("%T", n),
		}
	}
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}

func RenderASTAsYAML(node ast.Node) (string, error) {
	buf := new(bytes.Buffer)
	encoder := yaml.NewEncoder(buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(WalkAST(node)); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %v", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %v", err)
	}
	return buf.String(), nil
}
