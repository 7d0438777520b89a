package table

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"nlconvert/core/formula"
	"nlconvert/core/units"
	"nlconvert/internal/errors"
)

// Builder turns a Table into a sealed conversion graph
type Builder struct {
	// Interpreter compiles formula conversions; nil means a default one
	Interpreter *formula.Interpreter

	// StrictLabels fails the build when two units claim the same label
	StrictLabels bool

	// Logger receives collision warnings and build summaries
	Logger *zap.Logger
}

type compiled struct {
	from      string
	target    Target
	transform units.Transform
}

// Build registers every unit, compiles every formula, adds every
// conversion in declaration order and seals the graph. Any formula that
// fails to compile aborts the build.
func (b Builder) Build(t *Table) (*units.Graph, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interp := b.Interpreter
	if interp == nil {
		interp = formula.NewInterpreter()
	}

	g := units.NewGraph(units.NewRegistry(logger), logger)

	for _, e := range t.Entries {
		u := g.RegisterUnit(e.Name, e.Plural, e.Aliases...)
		if e.Precision > 0 {
			u.Precision = e.Precision
		}
	}

	var pending []compiled
	for _, e := range t.Entries {
		for _, target := range e.Conversions {
			tr := units.Linear(target.Factor)
			if target.IsFormula() {
				run, err := interp.Compile(target.Formula)
				if err != nil {
					return nil, errors.Wrapf(errors.TypeTable, err, "%s: %s -> %s", target.Range, e.Name, target.To).
						WithContext("formula", target.Formula)
				}
				tr = units.Formula(target.Formula, run)
			}
			pending = append(pending, compiled{from: e.Name, target: target, transform: tr})
		}
	}

	for _, p := range pending {
		g.Declare(p.from, p.target.To)
	}
	for _, p := range pending {
		if err := g.RegisterConversion(p.from, p.target.To, p.transform); err != nil {
			return nil, errors.Wrapf(errors.TypeTable, err, "%s: %s -> %s", p.target.Range, p.from, p.target.To)
		}
	}

	if err := RegisterRepresentations(g); err != nil {
		return nil, err
	}

	if collisions := g.Registry().Collisions(); len(collisions) > 0 && b.StrictLabels {
		desc := make([]string, len(collisions))
		for i, c := range collisions {
			desc[i] = fmt.Sprintf("%q (%s, %s)", c.Label, c.Existing, c.Rejected)
		}
		return nil, errors.Newf(errors.TypeLabelCollision, "%s: labels claimed by two units: %s",
			t.Filename, strings.Join(desc, ", "))
	}

	g.Seal()
	logger.Debug("unit table loaded",
		zap.String("table", t.Filename),
		zap.Int("units", len(g.Registry().Units())),
		zap.Int("conversions", len(g.HelpMatrix())),
	)
	return g, nil
}

// BuildDefault builds the graph from the embedded table
func (b Builder) BuildDefault() (*units.Graph, error) {
	t, err := Default()
	if err != nil {
		return nil, err
	}
	return b.Build(t)
}

// BuildFile builds the graph from an HCL file, or from the embedded
// table when path is empty
func (b Builder) BuildFile(path string) (*units.Graph, error) {
	if path == "" {
		return b.BuildDefault()
	}
	t, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return b.Build(t)
}
