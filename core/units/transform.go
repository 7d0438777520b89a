package units

import (
	"strconv"

	"nlconvert/core/format"
	"nlconvert/core/formula"
)

// Value is the output of a transform: a number, or a textual
// representation such as a hex string
type Value struct {
	Number float64
	Text   string

	text bool
}

// Number wraps a numeric value
func Number(f float64) Value {
	return Value{Number: f}
}

// Text wraps a representational value
func Text(s string) Value {
	return Value{Text: s, text: true}
}

// IsText reports whether the value came from Text, even an empty one
func (v Value) IsText() bool {
	return v.text
}

// String renders the raw value
func (v Value) String() string {
	if v.IsText() {
		return v.Text
	}
	return strconv.FormatFloat(v.Number, 'g', -1, 64)
}

// TransformKind tags the Transform variant
type TransformKind int

const (
	TransformLinear  TransformKind = iota // multiply by a factor
	TransformFormula                      // compiled formula of "value"
	TransformFunc                         // Go function, possibly non-numeric
)

// String returns the kind name
func (k TransformKind) String() string {
	names := []string{"linear", "formula", "func"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Transform is how a conversion maps an input value. The variant is
// fixed at construction; only linear transforms can be inverted.
type Transform struct {
	kind   TransformKind
	factor float64
	run    formula.Runner
	fn     func(float64) Value
	source string
}

// Linear multiplies by factor
func Linear(factor float64) Transform {
	return Transform{kind: TransformLinear, factor: factor}
}

// Formula wraps a compiled runner together with its source text
func Formula(source string, run formula.Runner) Transform {
	return Transform{kind: TransformFormula, run: run, source: source}
}

// Func wraps an arbitrary function with a description for help output
func Func(description string, fn func(float64) Value) Transform {
	return Transform{kind: TransformFunc, fn: fn, source: description}
}

// Kind returns the variant tag
func (t Transform) Kind() TransformKind {
	return t.kind
}

// IsLinear reports whether the transform is a plain multiplier
func (t Transform) IsLinear() bool {
	return t.kind == TransformLinear
}

// Factor returns the multiplier of a linear transform
func (t Transform) Factor() (float64, bool) {
	return t.factor, t.kind == TransformLinear
}

// Inverse returns the reciprocal of a linear transform
func (t Transform) Inverse() (Transform, bool) {
	if t.kind != TransformLinear {
		return Transform{}, false
	}
	return Linear(1 / t.factor), true
}

// Apply runs the transform on x
func (t Transform) Apply(x float64) (Value, error) {
	switch t.kind {
	case TransformLinear:
		return Number(x * t.factor), nil
	case TransformFormula:
		v, err := t.run(x)
		if err != nil {
			return Value{}, err
		}
		return Number(v), nil
	default:
		return t.fn(x), nil
	}
}

// Describe renders the transform for the help matrix: the factor, the
// formula source or the function description.
func (t Transform) Describe() string {
	if t.kind == TransformLinear {
		return format.Factor(t.factor)
	}
	return t.source
}
