package evaluator

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"icfp/internal/codec"
	"icfp/internal/fault"
	"icfp/internal/object"
	"icfp/internal/parser"
)

func testEval(t *testing.T, input string) (object.Object, error) {
	t.Helper()
	return testEvalWith(t, Options{}, input)
}

func testEvalWith(t *testing.T, opts Options, input string) (object.Object, error) {
	t.Helper()
	node, err := parser.ParseProgram(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return New(opts).Eval(node, object.NewEnvironment())
}

func expectInspect(t *testing.T, input string, expectedType object.ObjectType, expected string) {
	t.Helper()
	val, err := testEval(t, input)
	if err != nil {
		t.Fatalf("eval %q: %v", input, err)
	}
	if val.Type() != expectedType {
		t.Fatalf("eval %q: expected %s, got %s (%s)", input, expectedType, val.Type(), val.Inspect())
	}
	if val.Inspect() != expected {
		t.Errorf("eval %q: expected %q, got %q", input, expected, val.Inspect())
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input    string
		typ      object.ObjectType
		expected string
	}{
		{"T", object.BOOLEAN_OBJ, "true"},
		{"F", object.BOOLEAN_OBJ, "false"},
		{"I/6", object.INTEGER_OBJ, "1337"},
		{"SB%,,/}Q/2,$_", object.STRING_OBJ, "Hello World!"},
		{"S", object.STRING_OBJ, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, tt.input, tt.typ, tt.expected)
		})
	}
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct {
		input    string
		typ      object.ObjectType
		expected string
	}{
		{"U- I$", object.INTEGER_OBJ, "-3"},
		{"U- U- I$", object.INTEGER_OBJ, "3"},
		{"U! T", object.BOOLEAN_OBJ, "false"},
		{"U! F", object.BOOLEAN_OBJ, "true"},
		{"U# S4%34", object.INTEGER_OBJ, "15818151"},
		{"U$ I4%34", object.STRING_OBJ, "test"},
		{"U$ I!", object.STRING_OBJ, "a"},
		{"U# S", object.INTEGER_OBJ, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, tt.input, tt.typ, tt.expected)
		})
	}
}

func TestBinaryOperators(t *testing.T) {
	tests := []struct {
		input    string
		typ      object.ObjectType
		expected string
	}{
		{"B+ I# I$", object.INTEGER_OBJ, "5"},
		{"B- I$ I#", object.INTEGER_OBJ, "1"},
		{"B* I$ I#", object.INTEGER_OBJ, "6"},
		{"B/ U- I( I#", object.INTEGER_OBJ, "-3"},
		{"B% U- I( I#", object.INTEGER_OBJ, "-1"},
		{"B/ I( U- I#", object.INTEGER_OBJ, "-3"},
		{"B% I( U- I#", object.INTEGER_OBJ, "1"},
		{"B/ I( I#", object.INTEGER_OBJ, "3"},
		{"B% I( I#", object.INTEGER_OBJ, "1"},
		{"B< I$ I#", object.BOOLEAN_OBJ, "false"},
		{"B> I$ I#", object.BOOLEAN_OBJ, "true"},
		{"B= I$ I$", object.BOOLEAN_OBJ, "true"},
		{"B= S4%34 S4%34", object.BOOLEAN_OBJ, "true"},
		{"B< S# S$", object.BOOLEAN_OBJ, "true"},
		{"B= T F", object.BOOLEAN_OBJ, "false"},
		{"B< F T", object.BOOLEAN_OBJ, "true"},
		{"B| T F", object.BOOLEAN_OBJ, "true"},
		{"B& T F", object.BOOLEAN_OBJ, "false"},
		{"B. S4% S34", object.STRING_OBJ, "test"},
		{"BT I$ S4%34", object.STRING_OBJ, "tes"},
		{"BD I$ S4%34", object.STRING_OBJ, "t"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, tt.input, tt.typ, tt.expected)
		})
	}
}

func TestIntToStringBelowOne(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"U$ I!", "a"},
		{"U$ U- I\"", "a"},
		{"U$ U- I/6", "a"},
		{"B. U$ U- I\" U$ I\"", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, tt.input, object.STRING_OBJ, tt.expected)
		})
	}
}

func TestTakeDropClamp(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BT U- I\" S!\"#", ""},
		{"BT I~ S!\"#", "abc"},
		{"BD U- I\" S!\"#", "abc"},
		{"BD I~ S!\"#", ""},
		{"BT I# S!\"#", "ab"},
		{"BD I# S!\"#", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, tt.input, object.STRING_OBJ, tt.expected)
		})
	}
}

func TestBigIntegerArithmetic(t *testing.T) {
	// 93 * 94^19 + ... is far beyond 64 bits
	a := "I" + strings.Repeat("~", 20)
	val, err := testEval(t, "B- B+ "+a+" I\" "+a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Inspect() != "1" {
		t.Errorf("expected 1, got %s", val.Inspect())
	}

	val, err = testEval(t, "B* "+a+" "+a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := codec.DecodeInt(strings.Repeat("~", 20))
	expected := new(big.Int).Mul(n, n)
	if val.(*object.Integer).Value.Cmp(expected) != 0 {
		t.Errorf("expected %s, got %s", expected, val.Inspect())
	}
}

func TestIntegerStringRoundTrip(t *testing.T) {
	values := []int64{0, 1, 93, 94, 1337, 15818151, 1 << 40}

	for _, v := range values {
		lit, err := codec.IntegerLiteral(big.NewInt(v))
		if err != nil {
			t.Fatalf("literal for %d: %v", v, err)
		}
		val, err := testEval(t, "U# U$ "+lit)
		if err != nil {
			t.Fatalf("eval for %d: %v", v, err)
		}
		if val.Inspect() != big.NewInt(v).String() {
			t.Errorf("expected %d, got %s", v, val.Inspect())
		}
	}
}

func TestConditional(t *testing.T) {
	expectInspect(t, "? B> I# I$ S9%3 S./", object.STRING_OBJ, "no")
	expectInspect(t, "? B< I# I$ S9%3 S./", object.STRING_OBJ, "yes")
	// the untaken branch would divide by zero
	expectInspect(t, "? T I! B/ I! I!", object.INTEGER_OBJ, "0")
	expectInspect(t, "? F B/ I! I! I\"", object.INTEGER_OBJ, "1")
}

func TestApplication(t *testing.T) {
	expectInspect(t, "B$ B$ L# L$ v# B. SB%,,/ S}Q/2,$_ IK", object.STRING_OBJ, "Hello World!")
	expectInspect(t, "B$ L\" B+ v\" v\" I$", object.INTEGER_OBJ, "6")
	// shadowing: the innermost binding of $ wins
	expectInspect(t, "B$ B$ B$ B$ L$ L$ L$ L# v$ I\" I# I$ I%", object.INTEGER_OBJ, "3")
}

func TestLambdaDoesNotEvaluateBody(t *testing.T) {
	val, err := testEval(t, "L\" B/ I\" I!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := val.(*object.Closure); !ok {
		t.Errorf("expected a closure, got %s", val.Type())
	}
}

func TestLexicalScoping(t *testing.T) {
	// ((\x -> (\y -> x)) 1) 2
	expectInspect(t, "B$ B$ L\" L# v\" I\" I#", object.INTEGER_OBJ, "1")

	// f = (\x -> \y -> x) 5 is called where x is bound to 93; the captured
	// x = 5 must win over the caller's binding.
	expectInspect(t, "B$ L# B$ L\" B$ v# I! I~ B$ L\" L$ v\" I&", object.INTEGER_OBJ, "5")
}

func TestArgumentsAreEvaluatedEagerly(t *testing.T) {
	// v8 is never used by the body but is still evaluated as the argument.
	_, err := testEval(t, "B$ L# B$ L\" B+ v\" v\" B* I$ I# v8")
	if !fault.IsKind(err, fault.BindingError) {
		t.Fatalf("expected binding error, got %v", err)
	}
}

func TestRecursionBySelfApplication(t *testing.T) {
	// sum n = if n == 0 then 0 else n + sum (n - 1), via (f f)
	sum := "L\" L# ? B= v# I! I! B+ v# B$ B$ v\" v\" B- v# I\""
	expectInspect(t, "B$ B$ "+sum+" "+sum+" I\"-E", object.INTEGER_OBJ, "50005000")
}

func TestTailRecursionRunsInConstantContinuation(t *testing.T) {
	// count n = if n == 0 then true else count (n - 1)
	count := "L\" L# ? B= v# I! T B$ B$ v\" v\" B- v# I\""
	expectInspect(t, "B$ B$ "+count+" "+count+" I,>o", object.BOOLEAN_OBJ, "true")
}

func TestDeeplyNestedApplications(t *testing.T) {
	const depth = 100000
	input := strings.Repeat("B$ L\" v\" ", depth) + "I/6"
	expectInspect(t, input, object.INTEGER_OBJ, "1337")
}

func TestMaxSteps(t *testing.T) {
	omega := "B$ L! B$ v! v! L! B$ v! v!"
	_, err := testEvalWith(t, Options{MaxSteps: 10000}, omega)
	if !fault.IsKind(err, fault.LimitError) {
		t.Fatalf("expected limit error, got %v", err)
	}

	if _, err := testEvalWith(t, Options{MaxSteps: 10000}, "B+ I\" I\""); err != nil {
		t.Errorf("unexpected error under the step limit: %v", err)
	}
}

func TestErrorHandling(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     fault.Kind
		position int
	}{
		{"add boolean", "B+ T I!", fault.TypeError, 0},
		{"negate string", "U- S!", fault.TypeError, 0},
		{"not integer", "U! I!", fault.TypeError, 0},
		{"compare mixed", "B= I! S!", fault.TypeError, 0},
		{"compare closures", "B= L! v! L! v!", fault.TypeError, 0},
		{"or integers", "B| I! I!", fault.TypeError, 0},
		{"concat integer", "B. S! I!", fault.TypeError, 0},
		{"take from integer", "BT I! I!", fault.TypeError, 0},
		{"take with string count", "BT S! S!", fault.TypeError, 0},
		{"condition not boolean", "? I! T F", fault.TypeError, 0},
		{"apply integer", "B$ I! I!", fault.TypeError, 0},
		{"division by zero", "B+ I! B/ I\" I!", fault.ArithmeticError, 6},
		{"modulo by zero", "B% I\" I!", fault.ArithmeticError, 0},
		{"unresolved variable", "B+ I\" v#", fault.BindingError, 6},
		{"variable escapes its lambda", "B$ L\" v# I!", fault.BindingError, 6},
		{"bad string byte", "B. S! S\x80", fault.EncodingError, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, err := testEval(t, tt.input)
			if err == nil {
				t.Fatalf("expected %s, got value %s", tt.kind, val.Inspect())
			}
			if !fault.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if pos := fault.PositionOf(err); pos != tt.position {
				t.Errorf("expected position %d, got %d (%v)", tt.position, pos, err)
			}
		})
	}
}

func TestEvaluationStatsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	expectInspect(t, "B$ L\" B$ L# v\" I# I\"", object.INTEGER_OBJ, "1")

	var record map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, "evaluation complete") {
			if err := json.Unmarshal([]byte(line), &record); err != nil {
				t.Fatalf("bad log record %q: %v", line, err)
			}
		}
	}
	if record == nil {
		t.Fatalf("no evaluation record in %q", buf.String())
	}
	if record["max-env-depth"] != float64(2) {
		t.Errorf("expected max-env-depth 2, got %v", record["max-env-depth"])
	}
	if steps, _ := record["steps"].(float64); steps < 5 {
		t.Errorf("expected at least 5 steps, got %v", record["steps"])
	}
}

func TestConcurrentEvaluations(t *testing.T) {
	node, err := parser.ParseProgram("B$ B$ L\" L# v\" I\" I#")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := New(Options{})

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			val, err := e.Eval(node, object.NewEnvironment())
			if err != nil {
				done <- err.Error()
				return
			}
			done <- val.Inspect()
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != "1" {
			t.Errorf("expected 1, got %s", got)
		}
	}
}
