package field

import (
	"fmt"
	"strings"
	"sync"
)

// Registry stores field definitions in registration order. Registration is
// expected to finish before any surface starts dispatching events, but reads
// are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	fields map[string]Definition
}

// Ensure the registry can act as the live lookup handed to predicates.
var _ Lookup = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fields: make(map[string]Definition),
	}
}

// Register binds id to an input, predicate and error message. Duplicate or
// empty identifiers return an error.
func (r *Registry) Register(id string, input Input, predicate Predicate, message string, options ...DefinitionOption) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("field: identifier is required")
	}
	if input == nil {
		return fmt.Errorf("field: input for %q is required", id)
	}
	if predicate == nil {
		return fmt.Errorf("field: predicate for %q is required", id)
	}

	def := Definition{
		ID:        id,
		Label:     id,
		ElementID: id,
		Kind:      KindText,
		Input:     input,
		Predicate: predicate,
		Message:   message,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&def)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fields[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateField, id)
	}
	r.fields[id] = def
	r.order = append(r.order, id)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(id string, input Input, predicate Predicate, message string, options ...DefinitionOption) {
	if err := r.Register(id, input, predicate, message, options...); err != nil {
		panic(err)
	}
}

// Get returns the definition registered under id.
func (r *Registry) Get(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.fields[id]
	return def, ok
}

// Fields returns the definitions in registration order.
func (r *Registry) Fields() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.fields[id])
	}
	return out
}

// IDs returns the identifiers in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len reports the number of registered fields.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Value returns the raw, untrimmed live value of id. Unknown identifiers
// resolve to the empty string.
func (r *Registry) Value(id string) string {
	def, ok := r.Get(id)
	if !ok {
		return ""
	}
	return def.Input.Value()
}

// Validate runs the predicate of id against its trimmed live value. The
// trimmed value is returned alongside the verdict.
func (r *Registry) Validate(id string) (bool, string, error) {
	def, ok := r.Get(id)
	if !ok {
		return false, "", fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	value := strings.TrimSpace(def.Input.Value())
	return r.check(def, value), value, nil
}

func (r *Registry) check(def Definition, value string) (valid bool) {
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()
	return def.Predicate(value, r)
}
