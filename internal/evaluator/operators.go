package evaluator

import (
	"math/big"

	"icfp/internal/ast"
	"icfp/internal/codec"
	"icfp/internal/fault"
	"icfp/internal/object"
	"icfp/internal/token"
)

func evalUnaryExpression(n *ast.Unary, operand object.Object) (object.Object, error) {
	switch n.Operator {
	case token.NEGATE:
		x, err := integerOperand(n.Token, operand)
		if err != nil {
			return nil, err
		}
		return &object.Integer{Value: new(big.Int).Neg(x)}, nil

	case token.NOT:
		b, ok := operand.(*object.Boolean)
		if !ok {
			return nil, typeMismatch(n.Token, object.BOOLEAN_OBJ, operand)
		}
		return object.NativeBoolToBooleanObject(!b.Value), nil

	case token.STR_TO_INT:
		s, ok := operand.(*object.String)
		if !ok {
			return nil, typeMismatch(n.Token, object.STRING_OBJ, operand)
		}
		v, err := codec.HumanToInt(s.Value)
		if err != nil {
			return nil, fault.At(err, n.Token)
		}
		return &object.Integer{Value: v}, nil

	case token.INT_TO_STR:
		x, err := integerOperand(n.Token, operand)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: codec.IntToHuman(x)}, nil
	}

	return nil, fault.NewAt(fault.ParseError, n.Token, "unknown operator: %c", n.Operator)
}

func evalBinaryExpression(n *ast.Binary, left, right object.Object) (object.Object, error) {
	switch n.Operator {
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT:
		return evalIntegerInfixExpression(n, left, right)

	case token.LT, token.GT, token.EQ:
		c, ok := object.Compare(left, right)
		if !ok {
			return nil, fault.NewAt(fault.TypeError, n.Token, "cannot compare %s %c %s", left.Type(), n.Operator, right.Type())
		}
		switch n.Operator {
		case token.LT:
			return object.NativeBoolToBooleanObject(c < 0), nil
		case token.GT:
			return object.NativeBoolToBooleanObject(c > 0), nil
		}
		return object.NativeBoolToBooleanObject(c == 0), nil

	case token.OR, token.AND:
		l, lok := left.(*object.Boolean)
		r, rok := right.(*object.Boolean)
		if !lok || !rok {
			return nil, fault.NewAt(fault.TypeError, n.Token, "type mismatch: %s %c %s", left.Type(), n.Operator, right.Type())
		}
		if n.Operator == token.OR {
			return object.NativeBoolToBooleanObject(l.Value || r.Value), nil
		}
		return object.NativeBoolToBooleanObject(l.Value && r.Value), nil

	case token.CONCAT:
		l, lok := left.(*object.String)
		r, rok := right.(*object.String)
		if !lok || !rok {
			return nil, fault.NewAt(fault.TypeError, n.Token, "type mismatch: %s %c %s", left.Type(), n.Operator, right.Type())
		}
		return &object.String{Value: l.Value + r.Value}, nil

	case token.TAKE, token.DROP:
		count, err := integerOperand(n.Token, left)
		if err != nil {
			return nil, err
		}
		s, ok := right.(*object.String)
		if !ok {
			return nil, typeMismatch(n.Token, object.STRING_OBJ, right)
		}
		i := clamp(count, len(s.Value))
		if n.Operator == token.TAKE {
			return &object.String{Value: s.Value[:i]}, nil
		}
		return &object.String{Value: s.Value[i:]}, nil
	}

	return nil, fault.NewAt(fault.ParseError, n.Token, "unknown operator: %c", n.Operator)
}

// Division and remainder truncate toward zero, which is what big.Int's Quo
// and Rem implement (unlike Div and Mod).
func evalIntegerInfixExpression(n *ast.Binary, left, right object.Object) (object.Object, error) {
	l, lok := left.(*object.Integer)
	r, rok := right.(*object.Integer)
	if !lok || !rok {
		return nil, fault.NewAt(fault.TypeError, n.Token, "type mismatch: %s %c %s", left.Type(), n.Operator, right.Type())
	}

	result := new(big.Int)
	switch n.Operator {
	case token.PLUS:
		result.Add(l.Value, r.Value)
	case token.MINUS:
		result.Sub(l.Value, r.Value)
	case token.ASTERISK:
		result.Mul(l.Value, r.Value)
	case token.SLASH:
		if r.Value.Sign() == 0 {
			return nil, fault.NewAt(fault.ArithmeticError, n.Token, "division by zero")
		}
		result.Quo(l.Value, r.Value)
	case token.PERCENT:
		if r.Value.Sign() == 0 {
			return nil, fault.NewAt(fault.ArithmeticError, n.Token, "modulo by zero")
		}
		result.Rem(l.Value, r.Value)
	}
	return &object.Integer{Value: result}, nil
}

func integerOperand(tok token.Token, operand object.Object) (*big.Int, error) {
	i, ok := operand.(*object.Integer)
	if !ok {
		return nil, typeMismatch(tok, object.INTEGER_OBJ, operand)
	}
	return i.Value, nil
}

func typeMismatch(tok token.Token, expected object.ObjectType, got object.Object) error {
	return fault.NewAt(fault.TypeError, tok, "expected %s, got %s", expected, got.Type())
}

// clamp limits n to [0, length].
func clamp(n *big.Int, length int) int {
	if n.Sign() <= 0 {
		return 0
	}
	if !n.IsInt64() || n.Int64() > int64(length) {
		return length
	}
	return int(n.Int64())
}
