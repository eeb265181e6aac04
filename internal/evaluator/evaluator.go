package evaluator

import (
	"log/slog"

	"icfp/internal/ast"
	"icfp/internal/codec"
	"icfp/internal/fault"
	"icfp/internal/object"
	"icfp/internal/token"
)

type Options struct {
	// MaxSteps bounds the number of nodes evaluated; zero means no limit.
	MaxSteps int
}

// Evaluator reduces an AST to a value. It keeps no state between calls, so
// one Evaluator may serve concurrent Eval calls.
type Evaluator struct {
	opts Options
}

func New(opts Options) *Evaluator {
	return &Evaluator{opts: opts}
}

// Continuation operators
type opcode int

const (
	evalOp   opcode = iota // evaluate node in env and push its value
	unaryOp                // pop one operand and apply node's operator
	binaryOp               // pop two operands and apply node's operator
	branchOp               // pop the condition and continue with one branch
)

// step is one pending piece of work.
type step struct {
	op   opcode
	node ast.Node
	env  *object.Environment
}

type continuation []step

func (k *continuation) push(op opcode, node ast.Node, env *object.Environment) {
	*k = append(*k, step{op: op, node: node, env: env})
}

func (k *continuation) pop() step {
	n := len(*k) - 1
	s := (*k)[n]
	(*k)[n] = step{} // release references for the collector
	*k = (*k)[:n]
	return s
}

type valueStack []object.Object

func (v *valueStack) push(o object.Object) {
	*v = append(*v, o)
}

func (v *valueStack) pop() object.Object {
	n := len(*v) - 1
	o := (*v)[n]
	(*v)[n] = nil
	*v = (*v)[:n]
	return o
}

// Eval evaluates node in env. Work is driven from an explicit continuation
// rather than the Go call stack, and applying a closure replaces the
// application step with its body, so neither deep nesting nor long chains of
// tail applications grow the host stack.
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) (object.Object, error) {
	k := make(continuation, 0, 64)
	values := make(valueStack, 0, 64)
	k.push(evalOp, node, env)

	steps := 0
	maxDepth := 0
	maxEnvDepth := env.Depth

	for len(k) > 0 {
		if len(k) > maxDepth {
			maxDepth = len(k)
		}
		s := k.pop()

		switch s.op {
		case evalOp:
			steps++
			if e.opts.MaxSteps > 0 && steps > e.opts.MaxSteps {
				return nil, fault.NewAt(fault.LimitError, tokenOf(s.node), "evaluation exceeded %d steps", e.opts.MaxSteps)
			}

			switch n := s.node.(type) {
			case *ast.Boolean:
				values.push(object.NativeBoolToBooleanObject(n.Value))

			case *ast.Integer:
				values.push(&object.Integer{Value: n.Value})

			case *ast.String:
				text, err := codec.Decode(n.Payload)
				if err != nil {
					return nil, fault.At(err, n.Token)
				}
				values.push(&object.String{Value: text})

			case *ast.Unary:
				k.push(unaryOp, n, s.env)
				k.push(evalOp, n.Operand, s.env)

			case *ast.Binary:
				k.push(binaryOp, n, s.env)
				k.push(evalOp, n.Right, s.env)
				k.push(evalOp, n.Left, s.env)

			case *ast.If:
				k.push(branchOp, n, s.env)
				k.push(evalOp, n.Condition, s.env)

			case *ast.Lambda:
				values.push(&object.Closure{Param: n.Param, Body: n.Body, Env: s.env})

			case *ast.Var:
				val, ok := s.env.Get(n.Name)
				if !ok {
					return nil, fault.NewAt(fault.BindingError, n.Token, "unresolved variable %s", n.Name)
				}
				values.push(val)

			default:
				return nil, fault.NewAt(fault.ParseError, tokenOf(s.node), "unhandled node %T", s.node)
			}

		case unaryOp:
			n := s.node.(*ast.Unary)
			val, err := evalUnaryExpression(n, values.pop())
			if err != nil {
				return nil, err
			}
			values.push(val)

		case binaryOp:
			n := s.node.(*ast.Binary)
			right := values.pop()
			left := values.pop()

			if n.Operator == token.APPLY {
				fn, ok := left.(*object.Closure)
				if !ok {
					return nil, fault.NewAt(fault.TypeError, n.Token, "cannot apply %s", left.Type())
				}
				frame := object.NewEnclosedEnvironment(fn.Env, fn.Param, right)
				if frame.Depth > maxEnvDepth {
					maxEnvDepth = frame.Depth
				}
				k.push(evalOp, fn.Body, frame)
				continue
			}

			val, err := evalBinaryExpression(n, left, right)
			if err != nil {
				return nil, err
			}
			values.push(val)

		case branchOp:
			n := s.node.(*ast.If)
			cond, ok := values.pop().(*object.Boolean)
			if !ok {
				return nil, fault.NewAt(fault.TypeError, n.Token, "condition must be %s", object.BOOLEAN_OBJ)
			}
			if cond.Value {
				k.push(evalOp, n.Then, s.env)
			} else {
				k.push(evalOp, n.Else, s.env)
			}
		}
	}

	slog.Debug("evaluation complete",
		slog.Int("steps", steps),
		slog.Int("max-continuation", maxDepth),
		slog.Int("max-env-depth", maxEnvDepth))

	return values.pop(), nil
}

func tokenOf(n ast.Node) token.Token {
	return token.Token{Literal: n.TokenLiteral(), Position: n.Pos()}
}
