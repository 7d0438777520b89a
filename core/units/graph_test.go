package units

import (
	"math"
	"strings"
	"testing"

	"nlconvert/core/formula"
	"nlconvert/internal/errors"
)

func newAreaGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph(nil, nil)
	g.RegisterUnit("acre", "+s")
	g.RegisterUnit("hectare", "+s", "hect")
	g.RegisterUnit("meter^2", "+s", "m2")

	for _, c := range []struct {
		from, to string
		factor   float64
	}{
		{"acre", "hectare", 0.4047},
		{"acre", "meter^2", 4046.86},
		{"acre", "yard^2", 4840},
	} {
		if err := g.RegisterConversion(c.from, c.to, Linear(c.factor)); err != nil {
			t.Fatalf("RegisterConversion(%s, %s) failed: %v", c.from, c.to, err)
		}
	}
	return g
}

func TestConvertLinear(t *testing.T) {
	g := newAreaGraph(t)

	got, ok := g.Convert(1, "acre")
	if !ok {
		t.Fatal("Expected conversions for acre")
	}
	if got.Unit.Name != "acre" {
		t.Errorf("Expected unit acre, got %s", got.Unit.Name)
	}

	expected := []struct {
		unit  string
		value float64
	}{
		{"hectare", 0.4047},
		{"meter^2", 4046.86},
		{"yard^2", 4840},
	}
	if len(got.Results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(got.Results))
	}
	for i, want := range expected {
		r := got.Results[i]
		if r.Unit.Name != want.unit || r.Value.Number != want.value {
			t.Errorf("result %d: expected %v %s, got %v %s", i, want.value, want.unit, r.Value.Number, r.Unit.Name)
		}
	}
}

func TestConvertDerivedInverse(t *testing.T) {
	g := newAreaGraph(t)

	got, ok := g.Convert(0.4047, "hectare")
	if !ok {
		t.Fatal("Expected derived conversions for hectare")
	}
	if len(got.Results) != 1 || got.Results[0].Unit.Name != "acre" {
		t.Fatalf("Expected single acre result, got %+v", got.Results)
	}
	if math.Abs(got.Results[0].Value.Number-1) > 1e-9 {
		t.Errorf("Expected ~1 acre, got %v", got.Results[0].Value.Number)
	}

	c := g.Conversion("hect", "acre")
	if c == nil || !c.Derived {
		t.Errorf("Expected derived hectare -> acre conversion, got %+v", c)
	}
}

func TestLinearRoundTrip(t *testing.T) {
	g := newAreaGraph(t)

	for _, x := range []float64{1, 2.5, 1000, 0.003} {
		for _, target := range []string{"hectare", "meter^2", "yard^2"} {
			there, err := g.Conversion("acre", target).Convert(x)
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			back, err := g.Conversion(target, "acre").Convert(there.Value.Number)
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if math.Abs(back.Value.Number-x) > 1e-9*math.Max(1, x) {
				t.Errorf("round trip acre -> %s -> acre: %v became %v", target, x, back.Value.Number)
			}
		}
	}
}

func TestPlaceholderTarget(t *testing.T) {
	g := newAreaGraph(t)

	yard2 := g.Lookup("yard^2")
	if yard2 == nil {
		t.Fatal("Expected placeholder unit yard^2")
	}
	if yard2.Plural != "yard^2" {
		t.Errorf("Placeholder plural should equal name, got %q", yard2.Plural)
	}
}

func TestUnknownSourceFails(t *testing.T) {
	g := NewGraph(nil, nil)
	err := g.RegisterConversion("parsec", "mile", Linear(1.917e13))
	if !errors.IsType(err, errors.TypeUnknownUnit) {
		t.Fatalf("Expected UNKNOWN_UNIT, got %v", err)
	}
	if g.Lookup("mile") != nil {
		t.Error("Target should not be created for a failed registration")
	}
}

func TestExplicitReverseIsKept(t *testing.T) {
	g := NewGraph(nil, nil)
	g.RegisterUnit("celsius", "", "c")
	g.RegisterUnit("fahrenheit", "", "f")

	in := formula.NewInterpreter()
	toF, err := in.Compile("value * 9/5 + 32")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	toC, err := in.Compile("(value - 32) * 5/9")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if err := g.RegisterConversion("c", "f", Formula("value * 9/5 + 32", toF)); err != nil {
		t.Fatal(err)
	}
	if err := g.RegisterConversion("f", "c", Formula("(value - 32) * 5/9", toC)); err != nil {
		t.Fatal(err)
	}

	got, ok := g.Convert(212, "f")
	if !ok || len(got.Results) != 1 {
		t.Fatalf("Expected one result, got %+v", got)
	}
	if math.Abs(got.Results[0].Value.Number-100) > 1e-9 {
		t.Errorf("Expected 100 celsius, got %v", got.Results[0].Value.Number)
	}
}

func TestFormulaIsNotInverted(t *testing.T) {
	g := NewGraph(nil, nil)
	g.RegisterUnit("celsius", "")
	run, err := formula.NewInterpreter().Compile("value * 9/5 + 32")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RegisterConversion("celsius", "fahrenheit", Formula("value * 9/5 + 32", run)); err != nil {
		t.Fatal(err)
	}

	if _, ok := g.Convert(50, "fahrenheit"); ok {
		t.Error("Formula conversions must not get an inverse")
	}
}

func TestDeclaredReverseSuppressesInverse(t *testing.T) {
	g := NewGraph(nil, nil)
	g.RegisterUnit("mile", "+s")
	g.RegisterUnit("kilometer", "+s", "km")

	g.Declare("km", "mile")
	if err := g.RegisterConversion("mile", "km", Linear(1.609)); err != nil {
		t.Fatal(err)
	}
	if c := g.Conversion("km", "mile"); c != nil {
		t.Fatalf("Declared reverse should not be synthesised, got %+v", c)
	}

	if err := g.RegisterConversion("km", "mile", Linear(0.6214)); err != nil {
		t.Fatal(err)
	}
	c := g.Conversion("kilometer", "mile")
	if c == nil || c.Derived {
		t.Fatalf("Expected explicit km -> mile, got %+v", c)
	}
	if f, _ := c.Transform.Factor(); f != 0.6214 {
		t.Errorf("Expected factor 0.6214, got %v", f)
	}
}

func TestExplicitReplacesDerivedInPlace(t *testing.T) {
	g := NewGraph(nil, nil)
	g.RegisterUnit("meter", "+s")
	g.RegisterUnit("yard", "+s")
	g.RegisterUnit("foot", "feet")

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.RegisterConversion("meter", "yard", Linear(1.094)))
	must(g.RegisterConversion("yard", "foot", Linear(3)))
	must(g.RegisterConversion("yard", "meter", Linear(0.9144)))

	out := g.Outgoing("yard")
	if len(out) != 2 {
		t.Fatalf("Expected 2 conversions from yard, got %d", len(out))
	}
	if out[0].To.Name != "meter" || out[0].Derived {
		t.Errorf("Expected explicit yard -> meter first, got %+v", out[0])
	}
	if out[1].To.Name != "foot" {
		t.Errorf("Expected yard -> foot second, got %s", out[1].To.Name)
	}

	// The explicit reverse must not replace the meter -> yard edge
	if f, _ := g.Conversion("meter", "yard").Transform.Factor(); f != 1.094 {
		t.Errorf("meter -> yard factor changed to %v", f)
	}
}

func TestConvertMisses(t *testing.T) {
	g := newAreaGraph(t)
	g.RegisterUnit("furlong", "+s")

	if _, ok := g.Convert(1, "parsec"); ok {
		t.Error("Unknown label should not convert")
	}
	if _, ok := g.Convert(1, "furlong"); ok {
		t.Error("Unit without conversions should not convert")
	}
}

func TestConvertFunc(t *testing.T) {
	g := NewGraph(nil, nil)
	g.RegisterUnit("number", "")
	hex := Func("hexadecimal", func(x float64) Value { return Text("0xff") })
	if err := g.RegisterConversion("number", "hex", hex); err != nil {
		t.Fatal(err)
	}

	got, ok := g.Convert(255, "number")
	if !ok || got.Results[0].Value.Text != "0xff" {
		t.Fatalf("Expected 0xff, got %+v", got)
	}
	if _, ok := g.Convert(1, "hex"); ok {
		t.Error("Func conversions must stay one-directional")
	}
	if d := got.Results[0].Format(); d.Label != "hex" || d.Value != "0xff" {
		t.Errorf("Unexpected display %+v", d)
	}
}

func TestSealedGraphPanics(t *testing.T) {
	g := newAreaGraph(t)
	g.Seal()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic when modifying a sealed graph")
		}
		msg, ok := r.(string)
		if !ok || !strings.HasPrefix(msg, "INVARIANT VIOLATED") {
			t.Errorf("Unexpected panic: %v", r)
		}
	}()

	_ = g.RegisterConversion("acre", "hectare", Linear(0.4))
}

func TestHelpMatrix(t *testing.T) {
	g := newAreaGraph(t)
	rows := g.HelpMatrix()

	if len(rows) != 6 {
		t.Fatalf("Expected 6 rows, got %d", len(rows))
	}
	if rows[0].From != "acre" || rows[0].To != "hectare" || rows[0].Factor != "0.4047" {
		t.Errorf("Unexpected first row %+v", rows[0])
	}
	if rows[1].Factor != "4046.860" {
		t.Errorf("Expected factor 4046.860, got %s", rows[1].Factor)
	}

	last := rows[len(rows)-1]
	if last.From != "yard^2" || last.To != "acre" || !last.Derived {
		t.Errorf("Unexpected last row %+v", last)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].From > rows[i].From {
			t.Errorf("Rows not sorted by source: %s before %s", rows[i-1].From, rows[i].From)
		}
	}
}
