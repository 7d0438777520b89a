package table

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"nlconvert/core/units"
)

// Representations are one-directional conversions from a bare number to
// other notations. They are registered when the table declares a
// "number" unit.
var Representations = []struct {
	To          string
	Description string
	Fn          func(float64) units.Value
}{
	{"hex", "hexadecimal of the integer part", Hex},
	{"exp", "exponent notation", Exp},
}

// RegisterRepresentations adds number -> hex and number -> exp
func RegisterRepresentations(g *units.Graph) error {
	if g.Lookup("number") == nil {
		return nil
	}
	for _, r := range Representations {
		if err := g.RegisterConversion("number", r.To, units.Func(r.Description, r.Fn)); err != nil {
			return err
		}
	}
	return nil
}

// Hex renders the integer part of x in base 16 with a 0x prefix
func Hex(x float64) units.Value {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return units.Text(strconv.FormatFloat(x, 'g', -1, 64))
	}
	i, _ := big.NewFloat(math.Trunc(x)).Int(nil)
	s := i.Text(16)
	if neg, ok := strings.CutPrefix(s, "-"); ok {
		return units.Text("-0x" + neg)
	}
	return units.Text("0x" + s)
}

// Exp renders x in exponent notation, e.g. 2.55e+02
func Exp(x float64) units.Value {
	return units.Text(strconv.FormatFloat(x, 'e', -1, 64))
}
