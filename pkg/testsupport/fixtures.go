// Package testsupport holds fixtures shared by the surface and controller
// tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/field"
)

// ValidValues returns a complete, valid set of newsletter values keyed by
// field id.
func ValidValues() map[string]string {
	return map[string]string{
		field.IDName:           "Ana Lopez",
		field.IDEmail:          "ana@example.com",
		field.IDPassword:       "secret123",
		field.IDRepeatPassword: "secret123",
		field.IDAge:            "30",
		field.IDPhone:          "5551234",
		field.IDAddress:        "Main 123",
		field.IDCity:           "Rio",
		field.IDPostalCode:     "1000",
		field.IDNationalID:     "12345678",
	}
}

// ValidPayload returns ValidValues in registry order.
func ValidPayload(t *testing.T) field.Payload {
	t.Helper()
	_, reg := NewNewsletter(t)
	values := ValidValues()
	out := make(field.Payload, 0, reg.Len())
	for _, id := range reg.IDs() {
		out = append(out, field.Pair{Key: id, Value: values[id]})
	}
	return out
}

// NewNewsletter builds the newsletter registry over a fresh input set.
func NewNewsletter(t *testing.T) (*field.InputSet, *field.Registry) {
	t.Helper()
	inputs := field.NewInputSet()
	reg, err := field.Newsletter(inputs)
	if err != nil {
		t.Fatalf("newsletter registry: %v", err)
	}
	return inputs, reg
}

// Fill copies values into the matching inputs.
func Fill(inputs field.InputProvider, values map[string]string) {
	for id, value := range values {
		inputs.Input(id).SetValue(value)
	}
}

// ByLabel rekeys values by the label of each registered field.
func ByLabel(reg *field.Registry, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for _, def := range reg.Fields() {
		if value, ok := values[def.ID]; ok {
			out[def.Label] = value
		}
	}
	return out
}

// ComparePayload returns a diff when got does not carry want's pairs in
// order.
func ComparePayload(want, got field.Payload) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
