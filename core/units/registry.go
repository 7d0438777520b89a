package units

import (
	"go.uber.org/zap"
)

// Collision records a label claimed by a second unit
type Collision struct {
	Label    string
	Existing string // unit that keeps the label
	Rejected string // unit whose claim was dropped
}

// Registry maps labels to units. The first unit to claim a label keeps
// it; later claims are logged and recorded as collisions.
type Registry struct {
	labels     map[string]*Unit
	units      []*Unit
	collisions []Collision
	logger     *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		labels: make(map[string]*Unit),
		logger: logger,
	}
}

// Register adds a unit under its name, plural and aliases
func (r *Registry) Register(name, pluralFormat string, aliases ...string) *Unit {
	return r.Add(NewUnit(name, pluralFormat, aliases))
}

// Add registers an already-built unit
func (r *Registry) Add(u *Unit) *Unit {
	r.units = append(r.units, u)
	for _, label := range u.Labels() {
		r.claim(label, u)
	}
	return u
}

func (r *Registry) claim(label string, u *Unit) {
	existing, ok := r.labels[label]
	if !ok {
		r.labels[label] = u
		return
	}
	if existing == u {
		return
	}
	r.logger.Warn("unit label already exists",
		zap.String("label", label),
		zap.String("unit", existing.Name),
		zap.String("ignored", u.Name),
	)
	r.collisions = append(r.collisions, Collision{
		Label:    label,
		Existing: existing.Name,
		Rejected: u.Name,
	})
}

// Lookup resolves a label to its unit, or nil
func (r *Registry) Lookup(label string) *Unit {
	return r.labels[label]
}

// Units returns every unit in registration order
func (r *Registry) Units() []*Unit {
	out := make([]*Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Collisions returns the label collisions seen so far
func (r *Registry) Collisions() []Collision {
	out := make([]Collision, len(r.collisions))
	copy(out, r.collisions)
	return out
}
