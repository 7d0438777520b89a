package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsTypeWalksCauses(t *testing.T) {
	inner := New(TypeUnknownIdentifier, "unknown identifier kelvin")
	outer := Wrapf(TypeTable, inner, "units.hcl:3: celsius -> kelvin")
	wrapped := fmt.Errorf("load: %w", outer)

	for _, typ := range []Type{TypeTable, TypeUnknownIdentifier} {
		if !IsType(wrapped, typ) {
			t.Errorf("Expected %s in chain of %v", typ, wrapped)
		}
	}
	if IsType(wrapped, TypeConfig) {
		t.Error("Did not expect CONFIG_ERROR")
	}
	if IsType(stderrors.New("plain"), TypeTable) || IsType(nil, TypeTable) {
		t.Error("Plain and nil errors carry no type")
	}
}

func TestTypeOf(t *testing.T) {
	typ, ok := TypeOf(fmt.Errorf("x: %w", NotFound("parsec")))
	if !ok || typ != TypeUnknownUnit {
		t.Errorf("Expected UNKNOWN_UNIT, got %s %v", typ, ok)
	}
	if _, ok := TypeOf(stderrors.New("plain")); ok {
		t.Error("Plain error has no type")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Table("parse unit table", stderrors.New("boom"))
	if got := err.Error(); got != "[TABLE_ERROR] parse unit table: boom" {
		t.Errorf("Unexpected message %q", got)
	}
	if !stderrors.Is(err, err.Cause) {
		t.Error("Expected Unwrap to expose the cause")
	}

	in := Input("empty quantity").WithContext("arg", "")
	if in.Error() != "[INPUT_ERROR] empty quantity" || in.Context["arg"] != "" || !in.Is(TypeInput) {
		t.Errorf("Unexpected input error %+v", in)
	}
}
