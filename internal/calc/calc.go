// Package calc ties the reader and evaluator together behind the two
// operations the rest of the program needs: evaluating wire text and encoding
// human text as a string literal.
package calc

import (
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"icfp/internal/ast"
	"icfp/internal/codec"
	"icfp/internal/evaluator"
	"icfp/internal/object"
	"icfp/internal/parser"
)

const selfCheckPrefix = "Self-check OK"

type Calc struct {
	eval *evaluator.Evaluator
}

type Option func(*evaluator.Options)

// WithMaxSteps bounds each evaluation; zero means unlimited.
func WithMaxSteps(n int) Option {
	return func(o *evaluator.Options) {
		o.MaxSteps = n
	}
}

func New(opts ...Option) *Calc {
	var o evaluator.Options
	for _, opt := range opts {
		opt(&o)
	}
	return &Calc{eval: evaluator.New(o)}
}

// Read parses wire text into an AST without evaluating it.
func (c *Calc) Read(wire string) (ast.Node, error) {
	return parser.ParseProgram(wire)
}

// Evaluate reads wire text and evaluates it in an empty environment.
func (c *Calc) Evaluate(wire string) (object.Object, error) {
	node, err := c.Read(wire)
	if err != nil {
		return nil, err
	}
	return c.eval.Eval(node, object.NewEnvironment())
}

// EncodeStringLiteral returns the S token carrying human.
func EncodeStringLiteral(human string) (string, error) {
	return codec.StringLiteral(human)
}

// EncodeIntegerLiteral returns the I token for n, negated with U- when n is
// negative.
func EncodeIntegerLiteral(n *big.Int) (string, error) {
	return codec.IntegerLiteral(n)
}

// SelfCheck evaluates the bundled self-check program.
func (c *Calc) SelfCheck() error {
	val, err := c.Evaluate(selfCheckProgram)
	if err != nil {
		return fmt.Errorf("self-check: %w", err)
	}
	s, ok := val.(*object.String)
	if !ok || !strings.HasPrefix(s.Value, selfCheckPrefix) {
		return fmt.Errorf("self-check: unexpected result %q", val.Inspect())
	}
	slog.Debug("self-check passed", slog.String("result", s.Value))
	return nil
}
