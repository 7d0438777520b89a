// Package units - Unit registry and conversion graph
// Units are registered once under a name, a plural and any number of
// aliases. Conversions are one-hop directed edges between units.
package units

import (
	"strings"

	"github.com/google/uuid"

	"nlconvert/core/format"
)

// unitNamespace seeds the name-derived unit IDs
var unitNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("nlconvert:unit"))

// Unit is a named measurement with its display labels
type Unit struct {
	ID        string   `json:"id" msgpack:"id"`
	Name      string   `json:"name" msgpack:"name"`
	Plural    string   `json:"plural" msgpack:"plural"`
	Aliases   []string `json:"aliases,omitempty" msgpack:"aliases,omitempty"`
	Precision int      `json:"precision" msgpack:"precision"`
}

// NewUnit builds a unit, deriving the plural from pluralFormat
func NewUnit(name, pluralFormat string, aliases []string) *Unit {
	return &Unit{
		ID:        uuid.NewSHA1(unitNamespace, []byte(name)).String(),
		Name:      name,
		Plural:    Pluralize(name, pluralFormat),
		Aliases:   aliases,
		Precision: format.DefaultPrecision,
	}
}

// Labels returns every label the unit answers to: name, plural (when it
// differs), then aliases.
func (u *Unit) Labels() []string {
	labels := []string{u.Name}
	if u.Plural != u.Name {
		labels = append(labels, u.Plural)
	}
	return append(labels, u.Aliases...)
}

// Label picks the singular label for exactly 1 and the plural otherwise
func (u *Unit) Label(v Value) string {
	if !v.IsText() && v.Number == 1 {
		return u.Name
	}
	return u.Plural
}

// Display is a formatted value ready for rendering
type Display struct {
	Value string `json:"value" msgpack:"value"`
	Label string `json:"label" msgpack:"label"`
}

// Format renders v with this unit's precision and label
func (u *Unit) Format(v Value) Display {
	text := v.Text
	if !v.IsText() {
		text = format.NumberPrecision(v.Number, u.Precision)
	}
	return Display{Value: text, Label: u.Label(v)}
}

// Pluralize derives a plural label from a format. A format starting with
// "+" is a suffix: it is appended to the name, before any "^N" exponent
// ("meter^2", "+s" -> "meters^2"). Any other format is the plural itself
// ("foot", "feet" -> "feet"). An empty format leaves the name unchanged.
func Pluralize(single, pluralFormat string) string {
	if pluralFormat == "" {
		return single
	}
	suffix, ok := strings.CutPrefix(pluralFormat, "+")
	if !ok {
		return pluralFormat
	}
	if i := strings.IndexByte(single, '^'); i >= 0 {
		return single[:i] + suffix + single[i:]
	}
	return single + suffix
}
