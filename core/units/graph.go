package units

import (
	"sort"

	"go.uber.org/zap"

	"nlconvert/internal/errors"
)

// Conversion is a directed one-hop edge between two units
type Conversion struct {
	From      *Unit
	To        *Unit
	Transform Transform

	// Derived marks an inverse synthesised from a linear conversion
	Derived bool
}

// Convert applies the conversion to value
func (c *Conversion) Convert(value float64) (Result, error) {
	v, err := c.Transform.Apply(value)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Unit: c.To}, nil
}

// Result is one converted value with its target unit
type Result struct {
	Value Value
	Unit  *Unit
}

// Format renders the result with the target unit's label
func (r Result) Format() Display {
	return r.Unit.Format(r.Value)
}

// Conversions is the answer to a Convert call
type Conversions struct {
	Unit    *Unit
	Results []Result
}

// edgeList keeps outgoing conversions in insertion order, keyed by target
type edgeList struct {
	order []*Conversion
	index map[string]int
}

func (l *edgeList) put(c *Conversion) {
	if i, ok := l.index[c.To.Name]; ok {
		l.order[i] = c
		return
	}
	l.index[c.To.Name] = len(l.order)
	l.order = append(l.order, c)
}

func (l *edgeList) get(to string) *Conversion {
	if i, ok := l.index[to]; ok {
		return l.order[i]
	}
	return nil
}

type edgeKey struct {
	from, to string
}

// Graph holds units and the conversions between them. It is built once,
// sealed, and then only read; a sealed graph is safe for concurrent use.
type Graph struct {
	registry *Registry
	edges    map[string]*edgeList
	declared map[edgeKey]bool
	sealed   bool
	logger   *zap.Logger
}

// NewGraph creates an empty graph over registry
func NewGraph(registry *Registry, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = NewRegistry(logger)
	}
	return &Graph{
		registry: registry,
		edges:    make(map[string]*edgeList),
		declared: make(map[edgeKey]bool),
		logger:   logger,
	}
}

// Registry returns the unit registry backing the graph
func (g *Graph) Registry() *Registry {
	return g.registry
}

// RegisterUnit adds a unit to the underlying registry
func (g *Graph) RegisterUnit(name, pluralFormat string, aliases ...string) *Unit {
	g.assertMutable()
	return g.registry.Register(name, pluralFormat, aliases...)
}

// Declare marks an explicit from -> to conversion ahead of registering
// it, so that an earlier linear to -> from conversion does not
// synthesise an inverse for it. Labels must resolve to known units.
func (g *Graph) Declare(fromLabel, toLabel string) {
	g.assertMutable()
	from, to := g.registry.Lookup(fromLabel), g.registry.Lookup(toLabel)
	if from == nil || to == nil {
		return
	}
	g.declared[edgeKey{from.Name, to.Name}] = true
}

// RegisterConversion adds an explicit conversion. The source must be a
// known unit; an unknown target becomes a placeholder unit. A linear
// transform also yields the reciprocal target -> source conversion
// unless that direction is declared explicitly.
func (g *Graph) RegisterConversion(fromLabel, toLabel string, t Transform) error {
	g.assertMutable()

	from := g.registry.Lookup(fromLabel)
	if from == nil {
		return errors.NotFound(fromLabel).WithContext("target", toLabel)
	}
	to := g.registry.Lookup(toLabel)
	if to == nil {
		to = g.registry.Register(toLabel, "")
		g.logger.Debug("placeholder unit created", zap.String("unit", toLabel), zap.String("from", from.Name))
	}

	g.declared[edgeKey{from.Name, to.Name}] = true
	g.list(from.Name).put(&Conversion{From: from, To: to, Transform: t})

	inverse, ok := t.Inverse()
	if !ok || g.declared[edgeKey{to.Name, from.Name}] {
		return nil
	}
	g.list(to.Name).put(&Conversion{From: to, To: from, Transform: inverse, Derived: true})
	return nil
}

func (g *Graph) list(name string) *edgeList {
	l, ok := g.edges[name]
	if !ok {
		l = &edgeList{index: make(map[string]int)}
		g.edges[name] = l
	}
	return l
}

// Seal forbids further registration
func (g *Graph) Seal() {
	g.sealed = true
}

// IsSealed reports whether the graph is sealed
func (g *Graph) IsSealed() bool {
	return g.sealed
}

func (g *Graph) assertMutable() {
	if g.sealed {
		panic("INVARIANT VIOLATED: cannot modify sealed conversion graph")
	}
}

// Lookup resolves a label to its unit, or nil
func (g *Graph) Lookup(label string) *Unit {
	return g.registry.Lookup(label)
}

// Conversion returns the edge between two labels, or nil
func (g *Graph) Conversion(fromLabel, toLabel string) *Conversion {
	from, to := g.registry.Lookup(fromLabel), g.registry.Lookup(toLabel)
	if from == nil || to == nil {
		return nil
	}
	l, ok := g.edges[from.Name]
	if !ok {
		return nil
	}
	return l.get(to.Name)
}

// Outgoing returns the conversions leaving a unit in insertion order
func (g *Graph) Outgoing(label string) []*Conversion {
	u := g.registry.Lookup(label)
	if u == nil {
		return nil
	}
	l, ok := g.edges[u.Name]
	if !ok {
		return nil
	}
	out := make([]*Conversion, len(l.order))
	copy(out, l.order)
	return out
}

// Convert applies every conversion leaving the unit labelled label to
// value. It reports false when the label is unknown or has no
// conversions. Results follow conversion registration order.
func (g *Graph) Convert(value float64, label string) (*Conversions, bool) {
	u := g.registry.Lookup(label)
	if u == nil {
		return nil, false
	}
	l, ok := g.edges[u.Name]
	if !ok || len(l.order) == 0 {
		return nil, false
	}

	out := &Conversions{Unit: u, Results: make([]Result, 0, len(l.order))}
	for _, c := range l.order {
		r, err := c.Convert(value)
		if err != nil {
			g.logger.Warn("conversion failed",
				zap.String("from", c.From.Name),
				zap.String("to", c.To.Name),
				zap.Error(err),
			)
			continue
		}
		out.Results = append(out.Results, r)
	}
	return out, true
}

// HelpRow is one line of the conversion reference table
type HelpRow struct {
	From    string   `json:"from" msgpack:"from"`
	Aliases []string `json:"aliases,omitempty" msgpack:"aliases,omitempty"`
	To      string   `json:"to" msgpack:"to"`
	Factor  string   `json:"factor" msgpack:"factor"`
	Kind    string   `json:"kind" msgpack:"kind"`
	Derived bool     `json:"derived,omitempty" msgpack:"derived,omitempty"`
}

// HelpMatrix lists every conversion, sources sorted by name and each
// source's conversions in registration order
func (g *Graph) HelpMatrix() []HelpRow {
	names := make([]string, 0, len(g.edges))
	for name := range g.edges {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []HelpRow
	for _, name := range names {
		for _, c := range g.edges[name].order {
			rows = append(rows, HelpRow{
				From:    c.From.Name,
				Aliases: c.From.Aliases,
				To:      c.To.Name,
				Factor:  c.Transform.Describe(),
				Kind:    c.Transform.Kind().String(),
				Derived: c.Derived,
			})
		}
	}
	return rows
}
