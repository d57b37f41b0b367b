// Package tui drives a form.Controller from the terminal. Each field is
// prompted in registry order with focus and blur semantics, fields showing
// an error are prompted again, and the submission result is printed as the
// modal's plain text.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-signup/internal/ctxlog"
	"github.com/goliatone/go-signup/pkg/field"
	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/modal"
)

const defaultRetries = 3

type errorReader interface {
	Message(id string) (string, bool)
}

type modalReader interface {
	HTML() string
}

// Session is one interactive pass over a controller.
type Session struct {
	controller   *form.Controller
	errors       errorReader
	modal        modalReader
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	retries      int
	logger       *slog.Logger
}

// New constructs a session with defaults (survey driver, JSON summaries).
func New(controller *form.Controller, options ...Option) (*Session, error) {
	if controller == nil {
		return nil, errors.New("tui: controller is required")
	}
	reader, ok := controller.Errors().(errorReader)
	if !ok {
		return nil, fmt.Errorf("tui: error sink %T cannot be read back", controller.Errors())
	}
	view, ok := controller.Modal().(modalReader)
	if !ok {
		return nil, fmt.Errorf("tui: modal %T cannot be read back", controller.Modal())
	}

	s := &Session{
		controller:   controller,
		errors:       reader,
		modal:        view,
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		retries:      defaultRetries,
		logger:       slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run prompts every field, re-prompts the ones left with an error, asks for
// confirmation and submits. The modal text is printed and acknowledged
// before Run returns. An invalid submission starts another round.
func (s *Session) Run(ctx context.Context) (form.Result, error) {
	if ctx == nil {
		return form.Result{}, errors.New("tui: context is required")
	}
	logger := ctxlog.FromContext(ctx, s.logger)
	defs := s.controller.Registry().Fields()

	for _, def := range defs {
		if err := s.promptField(ctx, def); err != nil {
			return form.Result{}, err
		}
	}

	for {
		if err := s.repromptInvalid(ctx, defs); err != nil {
			return form.Result{}, err
		}

		submit, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: s.theme.PromptPrefix + "Submit?",
			Default: true,
		})
		if err != nil {
			return form.Result{}, err
		}
		if !submit {
			return form.Result{}, ErrDeclined
		}

		result, err := s.controller.Submit(ctx)
		if err != nil {
			return result, err
		}
		logger.Debug("tui: submission finished", "outcome", result.Outcome.String())

		if err := s.acknowledge(ctx); err != nil {
			return result, err
		}
		if result.Outcome != form.OutcomeInvalid {
			return result, nil
		}
	}
}

// promptField focuses id, reads a value and blurs it. Blur failures are
// printed under the prompt.
func (s *Session) promptField(ctx context.Context, def field.Definition) error {
	if err := s.controller.Focus(def.ID); err != nil {
		return err
	}

	cfg := InputConfig{
		Message: s.theme.PromptPrefix + def.Label,
		Default: def.Input.Value(),
	}

	var (
		value string
		err   error
	)
	if def.Kind == field.KindPassword {
		if cfg.Default != "" {
			cfg.Help = "Leave empty to keep the current value."
		}
		cfg.Default = ""
		value, err = s.driver.Password(ctx, cfg)
		if err == nil && value == "" {
			value = def.Input.Value()
		}
	} else {
		value, err = s.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}
	def.Input.SetValue(value)

	valid, err := s.controller.Blur(def.ID)
	if err != nil {
		return err
	}
	if !valid {
		if msg, ok := s.errors.Message(def.ID); ok {
			return s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
		}
	}
	return nil
}

func (s *Session) repromptInvalid(ctx context.Context, defs []field.Definition) error {
	for attempt := 0; attempt < s.retries; attempt++ {
		pending := s.pending(defs)
		if len(pending) == 0 {
			return nil
		}
		for _, def := range pending {
			if err := s.promptField(ctx, def); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) pending(defs []field.Definition) []field.Definition {
	var out []field.Definition
	for _, def := range defs {
		if _, ok := s.errors.Message(def.ID); ok {
			out = append(out, def)
		}
	}
	return out
}

func (s *Session) acknowledge(ctx context.Context) error {
	if err := s.driver.Info(ctx, s.theme.InfoPrefix+modal.PlainText(s.modal.HTML())); err != nil {
		return err
	}
	if _, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Close", Default: true}); err != nil {
		return err
	}
	s.controller.CloseModal()
	return nil
}

// Summary serializes a submitted payload in the configured format.
func (s *Session) Summary(payload field.Payload) ([]byte, error) {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(payload.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, pair := range payload {
			b.WriteString(pair.Key)
			b.WriteString(": ")
			b.WriteString(pair.Value)
			b.WriteByte('\n')
		}
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		return json.MarshalIndent(payload, "", "  ")
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", s.outputFormat)
	}
}
