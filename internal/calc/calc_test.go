package calc

import (
	"strings"
	"testing"

	"icfp/internal/fault"
	"icfp/internal/object"
)

func TestSelfCheck(t *testing.T) {
	if err := New().SelfCheck(); err != nil {
		t.Fatalf("self-check failed: %v", err)
	}
}

func TestSelfCheckMessage(t *testing.T) {
	val, err := New().Evaluate(selfCheckProgram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := val.(*object.String)
	if !ok {
		t.Fatalf("expected a string, got %s", val.Type())
	}
	if !strings.HasPrefix(s.Value, "Self-check OK") {
		t.Errorf("unexpected message %q", s.Value)
	}
}

func TestSelfCheckUnderStepLimit(t *testing.T) {
	err := New(WithMaxSteps(10)).SelfCheck()
	if !fault.IsKind(err, fault.LimitError) {
		t.Errorf("expected limit error, got %v", err)
	}
}

func TestEncodeThenEvaluate(t *testing.T) {
	inputs := []string{"get index", "echo hello", "Self-check OK", "multi\nline text"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			lit, err := EncodeStringLiteral(input)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			val, err := New().Evaluate(lit)
			if err != nil {
				t.Fatalf("evaluate %q: %v", lit, err)
			}
			if val.Inspect() != input {
				t.Errorf("expected %q, got %q", input, val.Inspect())
			}
		})
	}
}

func TestEncodeRejectsForeignCharacters(t *testing.T) {
	if _, err := EncodeStringLiteral("tab\t"); !fault.IsKind(err, fault.EncodingError) {
		t.Errorf("expected encoding error, got %v", err)
	}
}

func TestEvaluateReportsParseErrors(t *testing.T) {
	if _, err := New().Evaluate("B+ I!"); !fault.IsKind(err, fault.ParseError) {
		t.Errorf("expected parse error, got %v", err)
	}
}
