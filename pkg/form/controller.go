package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/goliatone/go-signup/internal/ctxlog"
	"github.com/goliatone/go-signup/pkg/field"
	"github.com/goliatone/go-signup/pkg/modal"
	"github.com/goliatone/go-signup/pkg/store"
	"github.com/goliatone/go-signup/pkg/submit"
)

// Modal is the overlay the controller reports submission results on.
type Modal interface {
	Show(message string)
	Close()
}

// Dispatcher sends a validated payload. A non-nil error of type
// *submit.RejectedError means the endpoint answered with a failure status;
// any other error is treated as a connection failure.
type Dispatcher interface {
	Send(ctx context.Context, payload field.Payload) (submit.Response, error)
}

// Outcome classifies a submission attempt.
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeNetworkFailure
	OutcomeRejected
	OutcomeSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeNetworkFailure:
		return "network_failure"
	case OutcomeRejected:
		return "rejected"
	case OutcomeSuccess:
		return "success"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a finished submission attempt.
type Result struct {
	Outcome Outcome
	// Invalid lists failing field ids in registry order.
	Invalid []string
	// Payload is set once every field passed.
	Payload  field.Payload
	Response submit.Response
	// Err is the dispatch error behind a network failure or rejection.
	Err error
	// Persisted reports whether the payload reached the record store.
	Persisted bool
}

// Controller wires validation, submission and persistence for one form.
type Controller struct {
	registry   *field.Registry
	dispatcher Dispatcher
	errors     ErrorSink
	modal      Modal
	store      store.Store
	recordKey  string
	logger     *slog.Logger

	inFlight atomic.Bool
}

// New constructs a controller over a completed registry.
func New(registry *field.Registry, dispatcher Dispatcher, options ...Option) (*Controller, error) {
	if registry == nil {
		return nil, errors.New("form: registry is required")
	}
	if dispatcher == nil {
		return nil, errors.New("form: dispatcher is required")
	}

	c := &Controller{
		registry:   registry,
		dispatcher: dispatcher,
		errors:     NewErrorBoard(),
		modal:      modal.New(),
		store:      store.NewMemoryStore(),
		recordKey:  store.DefaultRecordKey,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

func (c *Controller) Registry() *field.Registry { return c.registry }

func (c *Controller) Errors() ErrorSink { return c.errors }

func (c *Controller) Modal() Modal { return c.modal }

// InFlight reports whether a submission is waiting for the endpoint.
// Surfaces use it to disable their submit control.
func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

// Blur validates id and shows its inline error when the value fails. A
// passing value leaves the error slot untouched.
func (c *Controller) Blur(id string) (bool, error) {
	def, ok := c.registry.Get(id)
	if !ok {
		return false, fmt.Errorf("%w: %q", field.ErrUnknownField, id)
	}
	valid, _, err := c.registry.Validate(id)
	if err != nil {
		return false, err
	}
	if !valid {
		c.errors.Show(id, def.Message)
	}
	return valid, nil
}

// Focus clears the inline error of id without validating it.
func (c *Controller) Focus(id string) error {
	if _, ok := c.registry.Get(id); !ok {
		return fmt.Errorf("%w: %q", field.ErrUnknownField, id)
	}
	c.errors.Clear(id)
	return nil
}

// CloseModal hides the modal.
func (c *Controller) CloseModal() {
	c.modal.Close()
}

// Submit validates every field in registry order, showing an inline error
// for each failure, and dispatches the payload only when all of them pass.
// The outcome is reported on the modal and returned; the returned error is
// reserved for ErrSubmitInFlight.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrSubmitInFlight
	}
	defer c.inFlight.Store(false)

	logger := ctxlog.FromContext(ctx, c.logger)

	payload, invalid := c.validateAll()
	if len(invalid) > 0 {
		logger.Info("form: submission blocked", "invalid", invalid)
		c.modal.Show(MessageFormInvalid)
		return Result{Outcome: OutcomeInvalid, Invalid: invalid}, nil
	}

	result := Result{Payload: payload}
	resp, err := c.dispatcher.Send(ctx, payload)
	result.Response = resp

	var rejected *submit.RejectedError
	switch {
	case err == nil:
		result.Outcome = OutcomeSuccess
	case errors.As(err, &rejected):
		result.Outcome = OutcomeRejected
		result.Err = err
		logger.Info("form: submission rejected", "status", rejected.StatusCode, "detail", rejected.Detail)
		c.modal.Show(failureMessage(rejected.Detail))
		return result, nil
	default:
		result.Outcome = OutcomeNetworkFailure
		result.Err = err
		logger.Warn("form: submission failed", "error", err)
		c.modal.Show(MessageConnection)
		return result, nil
	}

	c.modal.Show(successMessage(resp.Raw))
	if err := store.SaveRecord(ctx, c.store, c.recordKey, payload); err != nil {
		logger.Error("form: persist submission", "key", c.recordKey, "error", err)
		return result, nil
	}
	result.Persisted = true
	logger.Info("form: submission accepted", "request_id", resp.RequestID)
	return result, nil
}

func (c *Controller) validateAll() (field.Payload, []string) {
	defs := c.registry.Fields()
	payload := make(field.Payload, 0, len(defs))
	var invalid []string

	for _, def := range defs {
		valid, value, err := c.registry.Validate(def.ID)
		if err != nil || !valid {
			c.errors.Show(def.ID, def.Message)
			invalid = append(invalid, def.ID)
			continue
		}
		payload = append(payload, field.Pair{Key: def.ID, Value: value})
	}
	if len(invalid) > 0 {
		return nil, invalid
	}
	return payload, nil
}

// Restore copies the last successful submission into the matching inputs.
// Missing, unreadable or malformed records are logged and treated as absent.
// No validation runs and no inline error is shown. The ids that received a
// value are returned in registry order.
func (c *Controller) Restore(ctx context.Context) []string {
	logger := ctxlog.FromContext(ctx, c.logger)

	rec, err := store.LoadRecord(ctx, c.store, c.recordKey)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			logger.Debug("form: no previous submission", "key", c.recordKey)
		case errors.Is(err, store.ErrMalformedRecord):
			logger.Warn("form: ignoring malformed record", "key", c.recordKey, "error", err)
		default:
			logger.Warn("form: load record", "key", c.recordKey, "error", err)
		}
		return nil
	}

	var restored []string
	for _, def := range c.registry.Fields() {
		value, ok := rec[def.ID]
		if !ok || value == "" {
			continue
		}
		def.Input.SetValue(value)
		restored = append(restored, def.ID)
	}
	logger.Debug("form: restored previous submission", "fields", restored)
	return restored
}
