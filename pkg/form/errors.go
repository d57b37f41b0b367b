package form

import (
	"errors"
	"sort"
	"sync"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission is still waiting for the endpoint.
var ErrSubmitInFlight = errors.New("form: submission already in flight")

// ErrorSink renders inline, per-field error messages.
type ErrorSink interface {
	Show(id, message string)
	Clear(id string)
}

// ErrorBoard is the in-memory ErrorSink used by the bundled surfaces. Each
// field owns at most one error slot: Show reuses it, Clear removes it.
type ErrorBoard struct {
	mu     sync.RWMutex
	errors map[string]string
}

var _ ErrorSink = (*ErrorBoard)(nil)

// NewErrorBoard returns an empty board.
func NewErrorBoard() *ErrorBoard {
	return &ErrorBoard{errors: make(map[string]string)}
}

func (b *ErrorBoard) Show(id, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.errors == nil {
		b.errors = make(map[string]string)
	}
	b.errors[id] = message
}

func (b *ErrorBoard) Clear(id string) {
	b.mu.Lock()
	delete(b.errors, id)
	b.mu.Unlock()
}

// Message returns the error currently shown for id.
func (b *ErrorBoard) Message(id string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	msg, ok := b.errors[id]
	return msg, ok
}

// Errors returns a copy of every shown error keyed by field id.
func (b *ErrorBoard) Errors() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.errors))
	for id, msg := range b.errors {
		out[id] = msg
	}
	return out
}

// IDs returns the ids with a visible error, sorted.
func (b *ErrorBoard) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.errors))
	for id := range b.errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of visible errors.
func (b *ErrorBoard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.errors)
}
