package parser

import (
	"fmt"

	"icfp/internal/ast"
)

// Formats accepted by RenderAST.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatWire = "wire"
)

// RenderAST renders node in the named format.
func RenderAST(node ast.Node, format string) (string, error) {
	switch format {
	case FormatText, "":
		return RenderASTAsText(node), nil
	case FormatJSON:
		return RenderASTAsJSON(node)
	case FormatYAML:
		return RenderASTAsYAML(node)
	case FormatWire:
		return node.String(), nil
	}
	return "", fmt.Errorf("unknown AST format %q (want text, json, yaml or wire)", format)
}

// foldAST builds a result for every node bottom-up, handing fn the results of
// the node's operands in reading order. It keeps its own stack, so nesting
// depth is limited only by memory.
func foldAST[T any](root ast.Node, fn func(n ast.Node, operands []T) T) T {
	type frame struct {
		node     ast.Node
		expanded bool
	}
	stack := []frame{{node: root}}
	var results []T

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children := ast.Children(f.node)
		if !f.expanded && len(children) > 0 {
			stack = append(stack, frame{node: f.node, expanded: true})
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: children[i]})
			}
			continue
		}

		n := len(children)
		operands := make([]T, n)
		copy(operands, results[len(results)-n:])
		results = results[:len(results)-n]
		results = append(results, fn(f.node, operands))
	}
	return results[0]
}
