// Package modal implements the single shared message overlay: one slot of
// HTML content and a hidden/visible flag. Every Show overwrites the previous
// message; only Close hides it.
package modal

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
	textPolicyOnce    sync.Once
	textPolicy        *bluemonday.Policy
)

// State is the modal visibility.
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Modal is safe for concurrent use. The zero value is a hidden, empty modal.
type Modal struct {
	mu      sync.RWMutex
	state   State
	content string
}

// New returns a hidden modal.
func New() *Modal {
	return &Modal{}
}

// Show replaces the content with the sanitized message and makes the modal
// visible.
func (m *Modal) Show(message string) {
	cleaned := sanitizeContent(message)
	m.mu.Lock()
	m.content = cleaned
	m.state = Visible
	m.mu.Unlock()
}

// Close hides the modal. The last content is kept until the next Show.
func (m *Modal) Close() {
	m.mu.Lock()
	m.state = Hidden
	m.mu.Unlock()
}

func (m *Modal) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Modal) Visible() bool {
	return m.State() == Visible
}

// HTML returns the sanitized markup of the current message.
func (m *Modal) HTML() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.content
}

// Text returns the current message with markup removed; <br> tags become
// newlines.
func (m *Modal) Text() string {
	return PlainText(m.HTML())
}

// PlainText strips markup from message for terminal output.
func PlainText(message string) string {
	replacer := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")
	stripped := textSanitizer().Sanitize(replacer.Replace(message))
	return strings.TrimSpace(html.UnescapeString(stripped))
}

func sanitizeContent(raw string) string {
	return strings.TrimSpace(contentSanitizer().Sanitize(raw))
}

func contentSanitizer() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("br", "strong", "em", "p", "code", "pre", "span")
		policy.AllowAttrs("class").OnElements("span", "p")
		contentPolicy = policy
	})
	return contentPolicy
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
