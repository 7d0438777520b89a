// Package quantity parses free-text quantities such as "3 4/5 oz" or
// "12 F" into a value and a unit label.
package quantity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"nlconvert/internal/errors"
)

const (
	// FractionLabel is the label of a bare fraction
	FractionLabel = "fraction"

	// NumberLabel is the label of a bare number
	NumberLabel = "number"
)

var (
	fractionPattern = regexp.MustCompile(`^([-+])?(?:(\d+) +)?(\d+)/([1-9]\d*)`)
	numberPattern   = regexp.MustCompile(`^[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`)
)

// Quantity is a parsed value and label
type Quantity struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Text  string  `json:"text"`
}

// Parser turns free text into a Quantity.
//
// A parsed value of exactly zero is reported as unparseable unless
// AllowZero is set; zero of anything is not worth converting.
type Parser struct {
	AllowZero bool
}

// Parse tries the fraction grammar, then the decimal grammar. The label
// is whatever follows the number, trimmed and lower-cased.
func (p Parser) Parse(text string) (Quantity, error) {
	q, ok := parseFraction(text)
	if !ok {
		q, ok = parseNumber(text)
	}
	if !ok {
		return Quantity{}, errors.Newf(errors.TypeUnparseableQuantity, "no quantity in %q", text)
	}
	if q.Value == 0 && !p.AllowZero {
		return Quantity{}, errors.Newf(errors.TypeUnparseableQuantity, "zero quantity in %q", text).
			WithContext("label", q.Label)
	}
	return q, nil
}

// Parse parses text with the default parser
func Parse(text string) (Quantity, error) {
	return Parser{}.Parse(text)
}

func parseFraction(text string) (Quantity, bool) {
	m := fractionPattern.FindStringSubmatch(text)
	if m == nil {
		return Quantity{}, false
	}

	value := decimal.Zero
	if m[2] != "" {
		whole, err := decimal.NewFromString(m[2])
		if err != nil {
			return Quantity{}, false
		}
		value = whole
	}
	num, err := decimal.NewFromString(m[3])
	if err != nil {
		return Quantity{}, false
	}
	den, err := decimal.NewFromString(m[4])
	if err != nil {
		return Quantity{}, false
	}
	value = value.Add(num.Div(den))
	if m[1] == "-" {
		value = value.Neg()
	}

	f, _ := value.Float64()
	return Quantity{
		Value: f,
		Label: label(text[len(m[0]):], FractionLabel),
		Text:  text,
	}, true
}

func parseNumber(text string) (Quantity, bool) {
	m := numberPattern.FindString(text)
	if m == "" {
		return Quantity{}, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// out of range; ParseFloat still returns ±Inf
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return Quantity{}, false
		}
	}
	return Quantity{
		Value: f,
		Label: label(text[len(m):], NumberLabel),
		Text:  text,
	}, true
}

func label(rest, fallback string) string {
	l := strings.ToLower(strings.TrimSpace(rest))
	if l == "" {
		return fallback
	}
	return l
}
