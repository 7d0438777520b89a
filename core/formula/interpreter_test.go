package formula

import (
	"math"
	"sync"
	"testing"

	"nlconvert/internal/errors"
)

func TestEvaluate(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		name     string
		source   string
		expected float64
	}{
		{"literal", "42", 42},
		{"addition", "1 + 2", 3},
		{"exponent is right associative", "2 ** 3 ** 2", 512},
		{"caret exponent", "2 ^ 10", 1024},
		{"subtraction is right associative", "10 - 2 - 3", 11},
		{"division is right associative", "8 / 4 / 2", 4},
		{"multiplication binds tighter", "2 + 3 * 4", 14},
		{"parentheses", "(2 + 3) * 4", 20},
		{"unary minus", "-3 + 5", 2},
		{"double unary minus", "- -3", 3},
		{"modulo", "7 % 4", 3},
		{"hex literal", "0x10 + 1", 17},
		{"float literal", ".5 * 4", 2},
		{"pi constant", "pi", math.Pi},
		{"sqrt call", "sqrt(16)", 4},
		{"sqrt argument is the rest of the expression", "sqrt(16) + 1", math.Sqrt(17)},
		{"sqrt without parens", "sqrt 9", 3},
		{"sqrt without parens takes the sum", "sqrt 9 + 7", 4},
		{"parenthesized call in a product", "2 * (sqrt 16)", 8},
		{"trailing tokens ignored", "1 + 2 )", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := in.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("Evaluate(%q) failed: %v", tt.source, err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Evaluate(%q) = %v, expected %v", tt.source, got, tt.expected)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		name    string
		source  string
		errType errors.Type
	}{
		{"empty", "", errors.TypeUnexpectedToken},
		{"dangling operator", "1 +", errors.TypeUnexpectedToken},
		{"operator as factor", "* 2", errors.TypeUnexpectedToken},
		{"missing close paren", "(1 + 2", errors.TypeUnbalancedParens},
		{"wrong closing token", "(1 + 2 (", errors.TypeUnbalancedParens},
		{"unknown identifier", "furlongs * 2", errors.TypeUnknownIdentifier},
		{"unbound value", "value + 1", errors.TypeUnknownIdentifier},
		{"malformed", "1 $ 2", errors.TypeMalformedFormula},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := in.Evaluate(tt.source)
			if err == nil {
				t.Fatalf("Evaluate(%q) should fail", tt.source)
			}
			if !errors.IsType(err, tt.errType) {
				t.Errorf("Expected %s, got %v", tt.errType, err)
			}
		})
	}
}

func TestExtendedNamespaceAndFunctions(t *testing.T) {
	in := NewInterpreter(
		WithConstant("dozen", 12),
		WithFunction("half", func(x float64) float64 { return x / 2 }),
	)

	got, err := in.Evaluate("half(dozen) + 1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got != 7 {
		t.Errorf("Expected 7, got %v", got)
	}
}

func TestFunctionsShadowNames(t *testing.T) {
	in := NewInterpreter(WithConstant("sqrt", 99))

	got, err := in.Evaluate("sqrt 4")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got != 2 {
		t.Errorf("Function table should win over namespace, got %v", got)
	}
}

func TestRunnerReuse(t *testing.T) {
	in := NewInterpreter()
	run, err := in.Compile("value * 9/5 + 32")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	for _, tc := range []struct{ in, out float64 }{{0, 32}, {100, 212}, {0, 32}, {-40, -40}} {
		got, err := run(tc.in)
		if err != nil {
			t.Fatalf("run(%v) failed: %v", tc.in, err)
		}
		if math.Abs(got-tc.out) > 1e-9 {
			t.Errorf("run(%v) = %v, expected %v", tc.in, got, tc.out)
		}
	}
}

func TestRunnerDoesNotLeakValue(t *testing.T) {
	in := NewInterpreter()
	run, err := in.Compile("value")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := run(5); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// A plain evaluation must not see a value bound by an earlier run
	if _, err := in.Evaluate("value"); !errors.IsType(err, errors.TypeUnknownIdentifier) {
		t.Errorf("Expected UNKNOWN_IDENTIFIER after runner call, got %v", err)
	}
}

func TestRunnerConcurrentCalls(t *testing.T) {
	in := NewInterpreter()
	run, err := in.Compile("(value - 32) * 5/9")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(f float64) {
			defer wg.Done()
			got, err := run(f)
			if err != nil {
				t.Errorf("run(%v) failed: %v", f, err)
				return
			}
			want := (f - 32) * 5 / 9
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("run(%v) = %v, expected %v", f, got, want)
			}
		}(float64(i * 10))
	}
	wg.Wait()
}

func TestCompileRejectsBadFormulas(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		source  string
		errType errors.Type
	}{
		{"value * celsius", errors.TypeUnknownIdentifier},
		{"(value + 1", errors.TypeUnbalancedParens},
		{"value # 2", errors.TypeMalformedFormula},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if _, err := in.Compile(tt.source); !errors.IsType(err, tt.errType) {
				t.Errorf("Compile(%q): expected %s, got %v", tt.source, tt.errType, err)
			}
		})
	}
}

func TestEvaluateTokensWithVars(t *testing.T) {
	in := NewInterpreter()
	tokens, err := Tokenize("width * height")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	got, err := in.EvaluateTokens(tokens, map[string]float64{"width": 3, "height": 4})
	if err != nil {
		t.Fatalf("EvaluateTokens failed: %v", err)
	}
	if got != 12 {
		t.Errorf("Expected 12, got %v", got)
	}
	if len(tokens) != 3 {
		t.Errorf("Token slice was modified: %v", tokens)
	}
}
