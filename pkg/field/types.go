package field

import (
	"errors"
	"sync"
)

var (
	// ErrDuplicateField is returned when an identifier is registered twice.
	ErrDuplicateField = errors.New("field: duplicate identifier")
	// ErrUnknownField is returned when an identifier is not registered.
	ErrUnknownField = errors.New("field: unknown identifier")
)

// Kind hints the input type surfaces should render.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
	KindNumber   Kind = "number"
	KindTel      Kind = "tel"
)

// Input is a live handle to a form input. The registry keeps a reference
// only; the surface owning the input decides where the value lives.
type Input interface {
	Value() string
	SetValue(value string)
}

// Lookup resolves the current raw value of a registered field.
type Lookup interface {
	Value(id string) string
}

// Predicate reports whether a trimmed value is acceptable. It must accept any
// string, including the empty one.
type Predicate func(value string, live Lookup) bool

// Definition describes one registered field.
type Definition struct {
	ID        string
	Label     string
	ElementID string
	Kind      Kind
	Input     Input
	Predicate Predicate
	Message   string
}

// DefinitionOption customises presentation metadata during registration.
type DefinitionOption func(*Definition)

// WithLabel sets the human readable label.
func WithLabel(label string) DefinitionOption {
	return func(d *Definition) {
		d.Label = label
	}
}

// WithElementID sets the DOM element id used by HTML surfaces. Defaults to the
// field identifier.
func WithElementID(id string) DefinitionOption {
	return func(d *Definition) {
		if id != "" {
			d.ElementID = id
		}
	}
}

// WithKind sets the input kind. Defaults to KindText.
func WithKind(kind Kind) DefinitionOption {
	return func(d *Definition) {
		if kind != "" {
			d.Kind = kind
		}
	}
}

// TextInput is an in-memory Input safe for concurrent use.
type TextInput struct {
	mu    sync.RWMutex
	value string
}

// NewTextInput returns an input seeded with value.
func NewTextInput(value string) *TextInput {
	return &TextInput{value: value}
}

func (t *TextInput) Value() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

func (t *TextInput) SetValue(value string) {
	t.mu.Lock()
	t.value = value
	t.mu.Unlock()
}

// InputProvider hands out the input bound to a field identifier.
type InputProvider interface {
	Input(id string) Input
}

// InputSet lazily creates one TextInput per identifier.
type InputSet struct {
	mu     sync.Mutex
	inputs map[string]*TextInput
}

// NewInputSet returns an empty set.
func NewInputSet() *InputSet {
	return &InputSet{inputs: make(map[string]*TextInput)}
}

// Input returns the input for id, creating it on first use.
func (s *InputSet) Input(id string) Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputs == nil {
		s.inputs = make(map[string]*TextInput)
	}
	in, ok := s.inputs[id]
	if !ok {
		in = NewTextInput("")
		s.inputs[id] = in
	}
	return in
}
