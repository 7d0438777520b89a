package formula

import (
	"math"

	"nlconvert/internal/errors"
)

// Var is the name a runner binds its argument to
const Var = "value"

// Func is a single-argument function callable from a formula
type Func func(float64) float64

// Runner is a compiled formula of one argument
type Runner func(value float64) (float64, error)

// Interpreter evaluates formulas against a namespace of constants and a
// table of functions. It is read-only after construction and may be shared.
type Interpreter struct {
	namespace map[string]float64
	functions map[string]Func
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithConstant adds or replaces a namespace entry
func WithConstant(name string, v float64) Option {
	return func(in *Interpreter) {
		in.namespace[name] = v
	}
}

// WithFunction adds or replaces a function
func WithFunction(name string, fn Func) Option {
	return func(in *Interpreter) {
		in.functions[name] = fn
	}
}

// NewInterpreter creates an interpreter seeded with pi, e and sqrt
// (plus a handful of math helpers), then applies opts.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{
		namespace: map[string]float64{
			"pi": math.Pi,
			"e":  math.E,
		},
		functions: map[string]Func{
			"sqrt":  math.Sqrt,
			"abs":   math.Abs,
			"ln":    math.Log,
			"log":   math.Log10,
			"exp":   math.Exp,
			"floor": math.Floor,
			"ceil":  math.Ceil,
			"round": math.Round,
		},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Evaluate tokenizes and evaluates source. Tokens left over after a
// complete expression are ignored.
func (in *Interpreter) Evaluate(source string) (float64, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return 0, err
	}
	return in.EvaluateTokens(tokens, nil)
}

// EvaluateTokens evaluates a token slice with extra variables bound on top
// of the namespace. The slice is not modified.
func (in *Interpreter) EvaluateTokens(tokens []Token, vars map[string]float64) (float64, error) {
	c := &cursor{in: in, tokens: tokens, vars: vars}
	return c.expression()
}

// Compile tokenizes source once and returns a runner binding its argument
// to "value". A trial run catches unknown identifiers and unbalanced
// parentheses up front; the parse path never depends on the bound value.
func (in *Interpreter) Compile(source string) (Runner, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	run := func(value float64) (float64, error) {
		c := &cursor{in: in, tokens: tokens, bound: true, value: value}
		return c.expression()
	}
	if _, err := run(1); err != nil {
		return nil, err
	}
	return run, nil
}

// cursor is the per-evaluation parse state
type cursor struct {
	in     *Interpreter
	tokens []Token
	pos    int
	vars   map[string]float64

	bound bool
	value float64
}

func (c *cursor) peek() (Token, bool) {
	if c.pos >= len(c.tokens) {
		return Token{}, false
	}
	return c.tokens[c.pos], true
}

func (c *cursor) next() (Token, bool) {
	tok, ok := c.peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// acceptOp consumes the next token if it is one of ops
func (c *cursor) acceptOp(ops ...string) (string, bool) {
	tok, ok := c.peek()
	if !ok || tok.Kind != KindOp {
		return "", false
	}
	for _, op := range ops {
		if tok.Text == op {
			c.pos++
			return op, true
		}
	}
	return "", false
}

// expression := multiplicative [ ('+' | '-') expression ]
func (c *cursor) expression() (float64, error) {
	left, err := c.multiplicative()
	if err != nil {
		return 0, err
	}
	op, ok := c.acceptOp("+", "-")
	if !ok {
		return left, nil
	}
	right, err := c.expression()
	if err != nil {
		return 0, err
	}
	if op == "+" {
		return left + right, nil
	}
	return left - right, nil
}

// multiplicative := exponential [ ('*' | '/' | '%') multiplicative ]
func (c *cursor) multiplicative() (float64, error) {
	left, err := c.exponential()
	if err != nil {
		return 0, err
	}
	op, ok := c.acceptOp("*", "/", "%")
	if !ok {
		return left, nil
	}
	right, err := c.multiplicative()
	if err != nil {
		return 0, err
	}
	switch op {
	case "*":
		return left * right, nil
	case "/":
		return left / right, nil
	default:
		return math.Mod(left, right), nil
	}
}

// exponential := factor [ ('**' | '^') exponential ]
func (c *cursor) exponential() (float64, error) {
	base, err := c.factor()
	if err != nil {
		return 0, err
	}
	if _, ok := c.acceptOp("**", "^"); !ok {
		return base, nil
	}
	exp, err := c.exponential()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

// factor := '-' factor | number | function expression | '(' expression ')' | name
func (c *cursor) factor() (float64, error) {
	tok, ok := c.next()
	if !ok {
		return 0, errors.New(errors.TypeUnexpectedToken, "unexpected end of formula")
	}

	switch {
	case tok.IsOp("-"):
		v, err := c.factor()
		return -v, err

	case tok.IsNumber():
		return tok.Number, nil

	case tok.IsOp("("):
		v, err := c.expression()
		if err != nil {
			return 0, err
		}
		closing, ok := c.next()
		if !ok || !closing.IsOp(")") {
			return 0, errors.Newf(errors.TypeUnbalancedParens, "missing close paren for ( at offset %d", tok.Pos).
				WithContext("offset", tok.Pos)
		}
		return v, nil

	case tok.Kind == KindID:
		if fn, ok := c.in.functions[tok.Text]; ok {
			// the argument runs to the end of the enclosing expression
			arg, err := c.expression()
			if err != nil {
				return 0, err
			}
			return fn(arg), nil
		}
		if v, ok := c.lookup(tok.Text); ok {
			return v, nil
		}
		return 0, errors.Newf(errors.TypeUnknownIdentifier, "unknown identifier %q", tok.Text).
			WithContext("offset", tok.Pos)
	}

	return 0, errors.Newf(errors.TypeUnexpectedToken, "unexpected token %s at offset %d", tok, tok.Pos).
		WithContext("offset", tok.Pos)
}

func (c *cursor) lookup(name string) (float64, bool) {
	if c.bound && name == Var {
		return c.value, true
	}
	if v, ok := c.vars[name]; ok {
		return v, true
	}
	v, ok := c.in.namespace[name]
	return v, ok
}
