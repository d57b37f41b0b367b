package form

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-signup/pkg/store"
)

// Option configures a Controller.
type Option func(*Controller)

// WithErrorSink overrides the inline error sink. Defaults to an ErrorBoard.
func WithErrorSink(sink ErrorSink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.errors = sink
		}
	}
}

// WithModal overrides the modal. Defaults to a new modal.Modal.
func WithModal(m Modal) Option {
	return func(c *Controller) {
		if m != nil {
			c.modal = m
		}
	}
}

// WithStore sets the record store. Defaults to an in-memory store.
func WithStore(s store.Store) Option {
	return func(c *Controller) {
		if s != nil {
			c.store = s
		}
	}
}

// WithRecordKey overrides store.DefaultRecordKey.
func WithRecordKey(key string) Option {
	return func(c *Controller) {
		if key = strings.TrimSpace(key); key != "" {
			c.recordKey = key
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
