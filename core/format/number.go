// Package format renders converted values for display.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultPrecision is the number of decimal places shown for a value
const DefaultPrecision = 4

var (
	mu      sync.RWMutex
	printer = message.NewPrinter(language.English)
)

// SetLocale changes the locale used for digit grouping
func SetLocale(tag string) error {
	lang, err := language.Parse(tag)
	if err != nil {
		return err
	}
	mu.Lock()
	printer = message.NewPrinter(lang)
	mu.Unlock()
	return nil
}

func group(n int64) string {
	mu.RLock()
	p := printer
	mu.RUnlock()
	return p.Sprintf("%d", n)
}

// Number renders x rounded to four decimals with trailing zeros dropped
// and the integer part grouped, e.g. 1234.50 -> "1,234.5".
func Number(x float64) string {
	return NumberPrecision(x, DefaultPrecision)
}

// NumberPrecision is Number with an explicit number of decimal places
func NumberPrecision(x float64, places int) string {
	if x == 0 {
		return "0"
	}
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}

	d := decimal.NewFromFloat(x).Round(int32(places))
	if d.IsZero() {
		return "0"
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	whole, frac, _ := strings.Cut(d.StringFixed(int32(places)), ".")
	frac = strings.TrimRight(frac, "0")

	intPart := whole
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		intPart = group(n)
	}

	if frac == "" {
		return sign + intPart
	}
	return sign + intPart + "." + frac
}

var zeroFraction = regexp.MustCompile(`[.]0+$`)

// Factor renders a conversion multiplier for the help matrix: six places
// below 0.0001, three from 1 upward, four otherwise; an all-zero
// fraction is dropped.
func Factor(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	d := decimal.NewFromFloat(f)
	var s string
	switch {
	case f < 0.0001:
		s = d.StringFixed(6)
	case f >= 1:
		s = d.StringFixed(3)
	default:
		s = d.StringFixed(4)
	}
	return zeroFraction.ReplaceAllString(s, "")
}

var superscripts = map[byte]string{
	'0': "⁰", '1': "¹", '2': "²", '3': "³", '4': "⁴",
	'5': "⁵", '6': "⁶", '7': "⁷", '8': "⁸", '9': "⁹",
}

var caretDigit = regexp.MustCompile(`\^(\d)`)

// Caret replaces the first ^N in a label with a superscript digit
func Caret(label string) string {
	loc := caretDigit.FindStringSubmatchIndex(label)
	if loc == nil {
		return label
	}
	return label[:loc[0]] + superscripts[label[loc[2]]] + label[loc[1]:]
}
