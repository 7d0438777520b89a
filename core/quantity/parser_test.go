package quantity

import (
	"math"
	"testing"

	"nlconvert/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value float64
		label string
	}{
		{"mixed fraction", "3 4/5 oz", 3.8, "oz"},
		{"negative fraction", "-2/3", -2.0 / 3.0, "fraction"},
		{"positive sign fraction", "+1/2 cup", 0.5, "cup"},
		{"fraction with unit", "2/3 km", 2.0 / 3.0, "km"},
		{"fraction lower-cased label", "1/2 OZ", 0.5, "oz"},
		{"many spaces before fraction", "1   1/2 in", 1.5, "in"},
		{"integer lower-cased label", "12 F", 12, "f"},
		{"decimal", "2.5 Miles", 2.5, "miles"},
		{"bare decimal point", ".5 l", 0.5, "l"},
		{"trailing point", "3. kg", 3, "kg"},
		{"exponent", "1.5e3 m", 1500, "m"},
		{"negative", "-40 c", -40, "c"},
		{"bare number", "255", 255, "number"},
		{"multi-word label", "2 fluid ounce", 2, "fluid ounce"},
		{"label with no space", "10km", 10, "km"},
		{"denominator needs leading non-zero", "1/01 m", 1, "/01 m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.text, err)
			}
			if math.Abs(q.Value-tt.value) > 1e-12 {
				t.Errorf("Parse(%q).Value = %v, expected %v", tt.text, q.Value, tt.value)
			}
			if q.Label != tt.label {
				t.Errorf("Parse(%q).Label = %q, expected %q", tt.text, q.Label, tt.label)
			}
			if q.Text != tt.text {
				t.Errorf("Parse(%q).Text = %q", tt.text, q.Text)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no number", "meters"},
		{"leading space", " 3 m"},
		{"zero", "0 meters"},
		{"zero decimal", "0.0 m"},
		{"zero fraction", "0/4 cup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.text)
			}
			if !errors.IsType(err, errors.TypeUnparseableQuantity) {
				t.Errorf("Expected UNPARSEABLE_QUANTITY, got %v", err)
			}
		})
	}
}

func TestParseAllowZero(t *testing.T) {
	p := Parser{AllowZero: true}

	q, err := p.Parse("0 meters")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if q.Value != 0 || q.Label != "meters" {
		t.Errorf("Unexpected quantity %+v", q)
	}
}

func TestParseExactFraction(t *testing.T) {
	q, err := Parse("3 4/5")
	if err != nil {
		t.Fatal(err)
	}
	if q.Value != 3.8 {
		t.Errorf("Expected exactly 3.8, got %v", q.Value)
	}
}
