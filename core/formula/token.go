// Package formula - Arithmetic formula tokenizer and interpreter
// Formulas such as "value * 9/5 + 32" are tokenized once and compiled
// into runners that can be called with a fresh value each time.
package formula

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"nlconvert/internal/errors"
)

// Kind identifies the lexical class of a token
type Kind int

const (
	KindFloat Kind = iota // 1.5, .5, 2e10
	KindDec               // 42
	KindHex               // 0x2a
	KindOp                // ( ) + - ** * ^ / %
	KindID                // identifiers, at least two letters
)

// String returns the kind name
func (k Kind) String() string {
	names := []string{"float", "dec", "hex", "op", "id"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Token is one lexical unit of a formula
type Token struct {
	Kind   Kind
	Text   string
	Number float64 // decoded value for float, dec and hex
	Pos    int     // byte offset in the source
}

// IsNumber reports whether the token carries a numeric value
func (t Token) IsNumber() bool {
	return t.Kind == KindFloat || t.Kind == KindDec || t.Kind == KindHex
}

// IsOp reports whether the token is the given operator
func (t Token) IsOp(op string) bool {
	return t.Kind == KindOp && t.Text == op
}

// String renders the token as kind(text)
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// rule is one entry of the ordered lexical table
type rule struct {
	kind    Kind
	skip    bool
	pattern *regexp.Regexp
	decode  func(text string) (float64, error)

	// declineBefore rejects a match immediately followed by one of these bytes
	declineBefore string
}

// rules are tried in order at every position; the first match wins
var rules = []rule{
	{skip: true, pattern: regexp.MustCompile(`^\s+`)},
	{
		kind:    KindFloat,
		pattern: regexp.MustCompile(`^(?:(?:\d+\.\d*|\.\d+)(?:[eE][-+]?\d+)?|\d+[eE][-+]?\d+)`),
		decode: func(text string) (float64, error) {
			return strconv.ParseFloat(text, 64)
		},
	},
	{
		kind:          KindDec,
		pattern:       regexp.MustCompile(`^(?:0|[1-9]\d*)`),
		declineBefore: "xX",
		decode: func(text string) (float64, error) {
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return strconv.ParseFloat(text, 64)
			}
			return float64(n), nil
		},
	},
	{
		kind:    KindHex,
		pattern: regexp.MustCompile(`^0[xX][0-9a-fA-F]+`),
		decode: func(text string) (float64, error) {
			n, err := strconv.ParseUint(text[2:], 16, 64)
			return float64(n), err
		},
	},
	{kind: KindOp, pattern: regexp.MustCompile(`^(?:\(|\)|\+|-|\*\*|\*|\^|/|%)`)},
	{kind: KindID, pattern: regexp.MustCompile(`^[a-zA-Z][a-zA-Z_]+`)},
}

// Tokenize scans source into tokens, dropping whitespace.
// It fails with a MALFORMED_FORMULA error at the first position no rule matches.
func Tokenize(source string) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(source) {
		rest := source[pos:]
		matched := false
		for _, r := range rules {
			loc := r.pattern.FindStringIndex(rest)
			if loc == nil {
				continue
			}
			if loc[1] == 0 {
				return nil, errors.Newf(errors.TypeMalformedFormula, "empty match at offset %d in %q", pos, source).
					WithContext("offset", pos)
			}
			text := rest[:loc[1]]
			if r.declineBefore != "" && loc[1] < len(rest) && strings.IndexByte(r.declineBefore, rest[loc[1]]) >= 0 {
				continue
			}

			matched = true
			if !r.skip {
				tok := Token{Kind: r.kind, Text: text, Pos: pos}
				if r.decode != nil {
					n, err := r.decode(text)
					if err != nil {
						return nil, errors.Wrapf(errors.TypeMalformedFormula, err, "bad %s literal %q", r.kind, text).
							WithContext("offset", pos)
					}
					tok.Number = n
				}
				tokens = append(tokens, tok)
			}
			pos += len(text)
			break
		}
		if !matched {
			return nil, errors.Newf(errors.TypeMalformedFormula, "bad expression at %q", rest).
				WithContext("offset", pos)
		}
	}
	return tokens, nil
}
