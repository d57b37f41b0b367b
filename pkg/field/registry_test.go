package field

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry_PreservesOrder(t *testing.T) {
	reg, err := Newsletter(NewInputSet())
	if err != nil {
		t.Fatalf("newsletter registry: %v", err)
	}

	want := []string{
		IDName, IDEmail, IDPassword, IDRepeatPassword, IDAge,
		IDPhone, IDAddress, IDCity, IDPostalCode, IDNationalID,
	}
	if diff := cmp.Diff(want, reg.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if reg.Len() != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), reg.Len())
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	always := func(string, Lookup) bool { return true }

	if err := reg.Register("city", NewTextInput(""), always, "msg"); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := reg.Register("city", NewTextInput(""), always, "msg")
	if !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
}

func TestRegistry_RejectsIncompleteDefinitions(t *testing.T) {
	reg := NewRegistry()
	always := func(string, Lookup) bool { return true }

	if err := reg.Register(" ", NewTextInput(""), always, "msg"); err == nil {
		t.Fatalf("expected error for empty identifier")
	}
	if err := reg.Register("a", nil, always, "msg"); err == nil {
		t.Fatalf("expected error for nil input")
	}
	if err := reg.Register("a", NewTextInput(""), nil, "msg"); err == nil {
		t.Fatalf("expected error for nil predicate")
	}
}

func TestRegistry_ValidateUnknownField(t *testing.T) {
	reg := NewRegistry()
	_, _, err := reg.Validate("missing")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestRegistry_PanickingPredicateIsInvalid(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("boom", NewTextInput("x"), func(string, Lookup) bool { panic("bad rule") }, "msg")

	ok, _, err := reg.Validate("boom")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if ok {
		t.Fatalf("expected panicking predicate to report invalid")
	}
}

func TestRegistry_DefinitionMetadata(t *testing.T) {
	reg, err := Newsletter(NewInputSet())
	if err != nil {
		t.Fatalf("newsletter registry: %v", err)
	}
	def, ok := reg.Get(IDRepeatPassword)
	if !ok {
		t.Fatalf("repeat password not registered")
	}
	if def.ElementID != "repeat-password" || def.Kind != KindPassword {
		t.Fatalf("unexpected metadata: %+v", def)
	}
	if def.Message != "Passwords do not match." {
		t.Fatalf("unexpected message %q", def.Message)
	}
}
