// Package table - Declarative unit table
// Units and their conversions are declared in HCL and loaded once at
// startup. Declaration order is preserved: it is the order in which
// conversion results are shown.
package table

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"nlconvert/internal/errors"
)

//go:embed units.hcl
var defaultSource []byte

// DefaultFilename names the embedded table in diagnostics
const DefaultFilename = "units.hcl"

// Table is an ordered list of unit declarations
type Table struct {
	Filename string
	Entries  []Entry
}

// Entry declares one unit
type Entry struct {
	Name        string
	Plural      string
	Aliases     []string
	Precision   int
	Conversions []Target
	Range       hcl.Range
}

// Target is one declared conversion: a factor or a formula
type Target struct {
	To      string
	Factor  float64
	Formula string
	Range   hcl.Range
}

// IsFormula reports whether the target is a formula conversion
func (t Target) IsFormula() bool {
	return t.Formula != ""
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "unit", LabelNames: []string{"name"}},
	},
}

var unitSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "plural"},
		{Name: "aliases"},
		{Name: "precision"},
		{Name: "conversions"},
	},
}

// Default returns the embedded unit table
func Default() (*Table, error) {
	return Parse(defaultSource, DefaultFilename)
}

// LoadFile reads and parses an HCL unit table
func LoadFile(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Table(fmt.Sprintf("read %s", path), err)
	}
	return Parse(src, path)
}

// Parse parses an HCL unit table
func Parse(src []byte, filename string) (*Table, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Table("parse unit table", diags)
	}

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, errors.Table("decode unit table", diags)
	}

	t := &Table{Filename: filename}
	seen := make(map[string]hcl.Range)
	for _, block := range content.Blocks {
		entry, err := decodeUnit(block)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[entry.Name]; dup {
			return nil, errors.Newf(errors.TypeTable, "%s: unit %q already declared at %s", block.DefRange, entry.Name, prev)
		}
		seen[entry.Name] = block.DefRange
		t.Entries = append(t.Entries, entry)
	}
	return t, nil
}

func decodeUnit(block *hcl.Block) (Entry, error) {
	entry := Entry{Name: block.Labels[0], Range: block.DefRange}

	content, diags := block.Body.Content(unitSchema)
	if diags.HasErrors() {
		return entry, errors.Table(fmt.Sprintf("unit %q", entry.Name), diags)
	}

	if attr, ok := content.Attributes["plural"]; ok {
		v, err := attrValue(attr, cty.String)
		if err != nil {
			return entry, err
		}
		if !v.IsNull() {
			entry.Plural = v.AsString()
		}
	}

	if attr, ok := content.Attributes["aliases"]; ok {
		v, err := attrValue(attr, cty.List(cty.String))
		if err != nil {
			return entry, err
		}
		if !v.IsNull() {
			if err := gocty.FromCtyValue(v, &entry.Aliases); err != nil {
				return entry, errors.Table(fmt.Sprintf("%s: aliases", attr.Range), err)
			}
		}
	}

	if attr, ok := content.Attributes["precision"]; ok {
		v, err := attrValue(attr, cty.Number)
		if err != nil {
			return entry, err
		}
		if !v.IsNull() {
			if err := gocty.FromCtyValue(v, &entry.Precision); err != nil {
				return entry, errors.Table(fmt.Sprintf("%s: precision", attr.Range), err)
			}
		}
	}

	if attr, ok := content.Attributes["conversions"]; ok {
		targets, err := decodeConversions(attr)
		if err != nil {
			return entry, err
		}
		entry.Conversions = targets
	}

	return entry, nil
}

// attrValue evaluates a constant attribute and converts it to want
func attrValue(attr *hcl.Attribute, want cty.Type) (cty.Value, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, errors.Table(fmt.Sprintf("attribute %q", attr.Name), diags)
	}
	v, err := convert.Convert(v, want)
	if err != nil {
		return cty.NilVal, errors.Table(fmt.Sprintf("%s: attribute %q must be %s", attr.Range, attr.Name, want.FriendlyName()), err)
	}
	return v, nil
}

// decodeConversions reads an object expression pair by pair; evaluating
// it as a whole would sort the keys.
func decodeConversions(attr *hcl.Attribute) ([]Target, error) {
	pairs, diags := hcl.ExprMap(attr.Expr)
	if diags.HasErrors() {
		return nil, errors.Table(fmt.Sprintf("%s: conversions must be an object", attr.Range), diags)
	}

	targets := make([]Target, 0, len(pairs))
	for _, pair := range pairs {
		key, diags := pair.Key.Value(nil)
		if diags.HasErrors() {
			return nil, errors.Table("conversion key", diags)
		}
		if key.IsNull() || key.Type() != cty.String {
			return nil, errors.Newf(errors.TypeTable, "%s: conversion target must be a string", pair.Key.Range())
		}

		val, diags := pair.Value.Value(nil)
		if diags.HasErrors() {
			return nil, errors.Table("conversion value", diags)
		}

		target := Target{To: key.AsString(), Range: pair.Value.Range()}
		switch {
		case val.IsNull():
			return nil, errors.Newf(errors.TypeTable, "%s: conversion to %q is null", target.Range, target.To)
		case val.Type() == cty.Number:
			f, _ := val.AsBigFloat().Float64()
			if f == 0 {
				return nil, errors.Newf(errors.TypeTable, "%s: conversion to %q has a zero factor", target.Range, target.To)
			}
			target.Factor = f
		case val.Type() == cty.String:
			if val.AsString() == "" {
				return nil, errors.Newf(errors.TypeTable, "%s: conversion to %q has an empty formula", target.Range, target.To)
			}
			target.Formula = val.AsString()
		default:
			return nil, errors.Newf(errors.TypeTable, "%s: conversion to %q must be a number or a formula, got %s",
				target.Range, target.To, val.Type().FriendlyName())
		}
		targets = append(targets, target)
	}
	return targets, nil
}
