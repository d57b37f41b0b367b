package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/field"
	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/modal"
	"github.com/goliatone/go-signup/pkg/submit"
	"github.com/goliatone/go-signup/pkg/testsupport"
)

type stubDriver struct {
	answers      map[string][]string
	confirm      []bool
	infoMessages []string
	asked        []string
	confirmPos   int
	failWith     error
}

func (s *stubDriver) next(cfg InputConfig) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	s.asked = append(s.asked, cfg.Message)
	queue := s.answers[cfg.Message]
	if len(queue) == 0 {
		return "", fmt.Errorf("no answer scripted for %q", cfg.Message)
	}
	s.answers[cfg.Message] = queue[1:]
	return queue[0], nil
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	return s.next(cfg)
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	return s.next(cfg)
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type stubDispatcher struct {
	calls []field.Payload
	err   error
}

func (d *stubDispatcher) Send(_ context.Context, payload field.Payload) (submit.Response, error) {
	d.calls = append(d.calls, payload)
	if d.err != nil {
		return submit.Response{}, d.err
	}
	return submit.Response{StatusCode: 200, Raw: []byte(`{"ok":true}`)}, nil
}

func validAnswers(t *testing.T) map[string][]string {
	t.Helper()
	_, reg := testsupport.NewNewsletter(t)
	out := make(map[string][]string)
	for label, value := range testsupport.ByLabel(reg, testsupport.ValidValues()) {
		out[label] = []string{value}
	}
	return out
}

type sessionFixture struct {
	inputs     *field.InputSet
	modal      *modal.Modal
	dispatcher *stubDispatcher
	controller *form.Controller
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	inputs, reg := testsupport.NewNewsletter(t)
	f := &sessionFixture{
		inputs:     inputs,
		modal:      modal.New(),
		dispatcher: &stubDispatcher{},
	}
	controller, err := form.New(reg, f.dispatcher, form.WithModal(f.modal))
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	f.controller = controller
	return f
}

func TestSession_SubmitsValidAnswers(t *testing.T) {
	f := newSessionFixture(t)
	driver := &stubDriver{answers: validAnswers(t), confirm: []bool{true, true}}

	s, err := New(f.controller, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Outcome != form.OutcomeSuccess {
		t.Fatalf("expected success, got %s", result.Outcome)
	}
	if len(f.dispatcher.calls) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(f.dispatcher.calls))
	}
	if diff := testsupport.ComparePayload(testsupport.ValidPayload(t), f.dispatcher.calls[0]); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	wantOrder := []string{
		"Full name", "Email", "Password", "Repeat password", "Age",
		"Phone", "Address", "City", "Postal code", "National ID",
	}
	if diff := cmp.Diff(wantOrder, driver.asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}

	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "Subscription successful.") {
		t.Fatalf("expected success text, got %q", driver.infoMessages)
	}
	if strings.Contains(driver.infoMessages[0], "<br>") {
		t.Fatalf("expected markup to be stripped: %q", driver.infoMessages[0])
	}
	if f.modal.Visible() {
		t.Fatalf("expected modal to be closed after acknowledgment")
	}
}

func TestSession_RepromptsInvalidFields(t *testing.T) {
	f := newSessionFixture(t)
	answers := validAnswers(t)
	answers["Email"] = []string{"bad", "ana@example.com"}
	driver := &stubDriver{answers: answers, confirm: []bool{true, true}}

	s, err := New(f.controller, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Outcome != form.OutcomeSuccess {
		t.Fatalf("expected success, got %s", result.Outcome)
	}
	if got, _ := result.Payload.Get(field.IDEmail); got != "ana@example.com" {
		t.Fatalf("expected corrected email in payload, got %q", got)
	}
	if driver.infoMessages[0] != DefaultTheme.ErrorPrefix+"Invalid email format." {
		t.Fatalf("expected inline error to be printed, got %q", driver.infoMessages[0])
	}
	if len(driver.asked) != 11 {
		t.Fatalf("expected email to be prompted twice, got %d prompts", len(driver.asked))
	}
}

func TestSession_DeclineSkipsSubmission(t *testing.T) {
	f := newSessionFixture(t)
	driver := &stubDriver{answers: validAnswers(t), confirm: []bool{false}}

	s, err := New(f.controller, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if len(f.dispatcher.calls) != 0 {
		t.Fatalf("expected no dispatch")
	}
}

func TestSession_NetworkFailureIsReported(t *testing.T) {
	f := newSessionFixture(t)
	f.dispatcher.err = &submit.NetworkError{URL: "stub", Err: errors.New("refused")}
	driver := &stubDriver{answers: validAnswers(t), confirm: []bool{true, true}}

	s, err := New(f.controller, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Outcome != form.OutcomeNetworkFailure {
		t.Fatalf("expected network failure, got %s", result.Outcome)
	}
	if !strings.Contains(driver.infoMessages[len(driver.infoMessages)-1], "Could not connect to the server.") {
		t.Fatalf("expected connection message, got %q", driver.infoMessages)
	}
}

func TestSession_EmptyPasswordKeepsCurrentValue(t *testing.T) {
	f := newSessionFixture(t)
	f.inputs.Input(field.IDPassword).SetValue("restored1")
	f.inputs.Input(field.IDRepeatPassword).SetValue("restored1")

	answers := validAnswers(t)
	answers["Password"] = []string{""}
	answers["Repeat password"] = []string{""}
	driver := &stubDriver{answers: answers, confirm: []bool{true, true}}

	s, err := New(f.controller, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, _ := result.Payload.Get(field.IDPassword); got != "restored1" {
		t.Fatalf("expected restored password to be kept, got %q", got)
	}
}

func TestSession_AbortStopsRun(t *testing.T) {
	f := newSessionFixture(t)
	driver := &stubDriver{failWith: ErrAborted}

	s, err := New(f.controller, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestSession_Summary(t *testing.T) {
	f := newSessionFixture(t)
	payload := field.Payload{{Key: "name", Value: "Ana Lopez"}, {Key: "city", Value: "Rio"}}

	tests := []struct {
		format OutputFormat
		want   string
	}{
		{OutputFormatFormURLEncoded, "name=Ana+Lopez&city=Rio"},
		{OutputFormatPrettyText, "name: Ana Lopez\ncity: Rio\n"},
		{OutputFormatJSON, "{\n  \"name\": \"Ana Lopez\",\n  \"city\": \"Rio\"\n}"},
	}
	for _, tc := range tests {
		s, err := New(f.controller, WithPromptDriver(&stubDriver{}), WithOutputFormat(tc.format))
		if err != nil {
			t.Fatalf("new session: %v", err)
		}
		out, err := s.Summary(payload)
		if err != nil {
			t.Fatalf("summary %s: %v", tc.format, err)
		}
		if string(out) != tc.want {
			t.Errorf("summary %s mismatch:\nwant %q\ngot  %q", tc.format, tc.want, out)
		}
	}
}
