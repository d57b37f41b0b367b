package form

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/field"
	"github.com/goliatone/go-signup/pkg/modal"
	"github.com/goliatone/go-signup/pkg/store"
	"github.com/goliatone/go-signup/pkg/submit"
	"github.com/goliatone/go-signup/pkg/testsupport"
)

type stubDispatcher struct {
	mu       sync.Mutex
	calls    []field.Payload
	response submit.Response
	err      error
	block    chan struct{}
	started  chan struct{}
}

func (d *stubDispatcher) Send(ctx context.Context, payload field.Payload) (submit.Response, error) {
	d.mu.Lock()
	d.calls = append(d.calls, payload)
	d.mu.Unlock()
	if d.started != nil {
		close(d.started)
	}
	if d.block != nil {
		select {
		case <-d.block:
		case <-ctx.Done():
			return submit.Response{}, &submit.NetworkError{URL: "stub", Err: ctx.Err()}
		}
	}
	return d.response, d.err
}

func (d *stubDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type fixture struct {
	inputs     *field.InputSet
	registry   *field.Registry
	board      *ErrorBoard
	modal      *modal.Modal
	store      *store.MemoryStore
	dispatcher *stubDispatcher
	controller *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	inputs, reg := testsupport.NewNewsletter(t)
	f := &fixture{
		inputs:     inputs,
		registry:   reg,
		board:      NewErrorBoard(),
		modal:      modal.New(),
		store:      store.NewMemoryStore(),
		dispatcher: &stubDispatcher{},
	}
	controller, err := New(reg, f.dispatcher,
		WithErrorSink(f.board),
		WithModal(f.modal),
		WithStore(f.store),
	)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	f.controller = controller
	return f
}

func TestBlur_ShowsErrorOnlyForInvalidValue(t *testing.T) {
	f := newFixture(t)

	f.inputs.Input(field.IDCity).SetValue("Ri")
	valid, err := f.controller.Blur(field.IDCity)
	if err != nil {
		t.Fatalf("blur: %v", err)
	}
	if valid {
		t.Fatalf("expected city to be invalid")
	}
	if msg, ok := f.board.Message(field.IDCity); !ok || msg != "Must be at least 3 characters long." {
		t.Fatalf("unexpected inline error %q %v", msg, ok)
	}

	f.inputs.Input(field.IDEmail).SetValue("ana@example.com")
	if valid, _ := f.controller.Blur(field.IDEmail); !valid {
		t.Fatalf("expected email to be valid")
	}
	if _, ok := f.board.Message(field.IDEmail); ok {
		t.Fatalf("expected no inline error for valid email")
	}
}

func TestBlur_ReusesErrorSlot(t *testing.T) {
	f := newFixture(t)
	f.inputs.Input(field.IDAge).SetValue("12")

	_, _ = f.controller.Blur(field.IDAge)
	_, _ = f.controller.Blur(field.IDAge)
	if f.board.Len() != 1 {
		t.Fatalf("expected a single error slot, got %d", f.board.Len())
	}
}

func TestFocus_ClearsErrorRegardlessOfValidity(t *testing.T) {
	f := newFixture(t)
	f.inputs.Input(field.IDPhone).SetValue("12")
	_, _ = f.controller.Blur(field.IDPhone)

	if err := f.controller.Focus(field.IDPhone); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if _, ok := f.board.Message(field.IDPhone); ok {
		t.Fatalf("expected error cleared on focus")
	}
}

func TestBlurFocus_UnknownField(t *testing.T) {
	f := newFixture(t)
	if _, err := f.controller.Blur("nope"); !errors.Is(err, field.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField from blur, got %v", err)
	}
	if err := f.controller.Focus("nope"); !errors.Is(err, field.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField from focus, got %v", err)
	}
}

func TestSubmit_InvalidFormBlocksDispatch(t *testing.T) {
	f := newFixture(t)
	values := testsupport.ValidValues()
	values[field.IDEmail] = "not-an-email"
	values[field.IDNationalID] = "12"
	testsupport.Fill(f.inputs, values)

	result, err := f.controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Outcome != OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %s", result.Outcome)
	}
	if diff := cmp.Diff([]string{field.IDEmail, field.IDNationalID}, result.Invalid); diff != "" {
		t.Fatalf("invalid ids mismatch (-want +got):\n%s", diff)
	}
	if f.dispatcher.callCount() != 0 {
		t.Fatalf("expected no request for invalid form")
	}
	if !f.modal.Visible() || f.modal.HTML() != MessageFormInvalid {
		t.Fatalf("expected form invalid modal, got %q", f.modal.HTML())
	}
	wantErrors := map[string]string{
		field.IDEmail:      "Invalid email format.",
		field.IDNationalID: "Must have 7 or 8 digits.",
	}
	if diff := cmp.Diff(wantErrors, f.board.Errors()); diff != "" {
		t.Fatalf("inline errors mismatch (-want +got):\n%s", diff)
	}
	if _, err := f.store.Get(context.Background(), store.DefaultRecordKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store untouched, got %v", err)
	}
}

func TestSubmit_EmptyFormFlagsEveryField(t *testing.T) {
	f := newFixture(t)

	result, err := f.controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// repeatPassword matches the empty password, so it is the only passing field.
	if len(result.Invalid) != f.registry.Len()-1 {
		t.Fatalf("expected %d invalid fields, got %v", f.registry.Len()-1, result.Invalid)
	}
}

func TestSubmit_RepeatPasswordUsesCurrentPassword(t *testing.T) {
	f := newFixture(t)
	testsupport.Fill(f.inputs, testsupport.ValidValues())
	f.inputs.Input(field.IDPassword).SetValue("changed999")

	result, _ := f.controller.Submit(context.Background())
	if diff := cmp.Diff([]string{field.IDRepeatPassword}, result.Invalid); diff != "" {
		t.Fatalf("invalid ids mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.response = submit.Response{StatusCode: 200, Raw: []byte(`{"ok":true}`)}
	values := testsupport.ValidValues()
	values[field.IDName] = "  Ana Lopez  "
	testsupport.Fill(f.inputs, values)

	result, err := f.controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Outcome != OutcomeSuccess || !result.Persisted {
		t.Fatalf("expected persisted success, got %+v", result)
	}
	if f.dispatcher.callCount() != 1 {
		t.Fatalf("expected exactly one request, got %d", f.dispatcher.callCount())
	}

	sent := f.dispatcher.calls[0]
	gotKeys := make([]string, 0, len(sent))
	for _, pair := range sent {
		gotKeys = append(gotKeys, pair.Key)
	}
	if diff := cmp.Diff(f.registry.IDs(), gotKeys); diff != "" {
		t.Fatalf("payload order mismatch (-want +got):\n%s", diff)
	}
	if name, _ := sent.Get(field.IDName); name != "Ana Lopez" {
		t.Fatalf("expected trimmed name, got %q", name)
	}

	if !f.modal.Visible() || !strings.Contains(f.modal.Text(), `{"ok":true}`) {
		t.Fatalf("expected success modal with response, got %q", f.modal.HTML())
	}
	if !strings.Contains(f.modal.HTML(), "Subscription successful") {
		t.Fatalf("expected success message, got %q", f.modal.HTML())
	}

	rec, err := store.LoadRecord(context.Background(), f.store, store.DefaultRecordKey)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	want := store.Record(testsupport.ValidValues())
	want[field.IDName] = "Ana Lopez"
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_RejectedShowsServerDetail(t *testing.T) {
	f := newFixture(t)
	testsupport.Fill(f.inputs, testsupport.ValidValues())
	resp := submit.Response{StatusCode: 400, Body: map[string]any{"error": "X"}, Raw: []byte(`{"error":"X"}`)}
	f.dispatcher.response = resp
	f.dispatcher.err = &submit.RejectedError{StatusCode: 400, Detail: "X", Response: resp}

	result, err := f.controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected outcome, got %s", result.Outcome)
	}
	if !strings.HasSuffix(f.modal.HTML(), "X") || !strings.Contains(f.modal.HTML(), "Subscription failed") {
		t.Fatalf("expected failure modal with detail, got %q", f.modal.HTML())
	}
	if _, err := f.store.Get(context.Background(), store.DefaultRecordKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store untouched, got %v", err)
	}
}

func TestSubmit_RejectedWithoutDetail(t *testing.T) {
	f := newFixture(t)
	testsupport.Fill(f.inputs, testsupport.ValidValues())
	f.dispatcher.err = &submit.RejectedError{StatusCode: 500}

	_, _ = f.controller.Submit(context.Background())
	if !strings.Contains(f.modal.HTML(), MessageUnknownError) {
		t.Fatalf("expected unknown error detail, got %q", f.modal.HTML())
	}
}

func TestSubmit_NetworkFailure(t *testing.T) {
	f := newFixture(t)
	testsupport.Fill(f.inputs, testsupport.ValidValues())
	f.dispatcher.err = &submit.NetworkError{URL: "http://x", Err: errors.New("connection refused")}

	result, err := f.controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Outcome != OutcomeNetworkFailure {
		t.Fatalf("expected network failure, got %s", result.Outcome)
	}
	if f.modal.HTML() != MessageConnection {
		t.Fatalf("expected connection modal, got %q", f.modal.HTML())
	}
	if _, err := f.store.Get(context.Background(), store.DefaultRecordKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store untouched, got %v", err)
	}
}

func TestSubmit_SecondSubmissionWhileInFlight(t *testing.T) {
	f := newFixture(t)
	testsupport.Fill(f.inputs, testsupport.ValidValues())
	f.dispatcher.block = make(chan struct{})
	f.dispatcher.started = make(chan struct{})
	f.dispatcher.response = submit.Response{StatusCode: 200, Raw: []byte(`{}`)}

	done := make(chan Result, 1)
	go func() {
		result, _ := f.controller.Submit(context.Background())
		done <- result
	}()

	select {
	case <-f.dispatcher.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first submission never dispatched")
	}
	if !f.controller.InFlight() {
		t.Fatalf("expected in-flight state")
	}

	if _, err := f.controller.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(f.dispatcher.block)
	result := <-done
	if result.Outcome != OutcomeSuccess {
		t.Fatalf("expected first submission to succeed, got %s", result.Outcome)
	}
	if f.dispatcher.callCount() != 1 {
		t.Fatalf("expected a single request, got %d", f.dispatcher.callCount())
	}
	if f.controller.InFlight() {
		t.Fatalf("expected in-flight cleared")
	}
}

func TestRestore_FillsSubsetWithoutErrors(t *testing.T) {
	f := newFixture(t)
	payload := field.Payload{
		{Key: field.IDName, Value: "Ana Lopez"},
		{Key: field.IDCity, Value: "Rio"},
		{Key: "unknown", Value: "ignored"},
		{Key: field.IDPhone, Value: ""},
	}
	if err := store.SaveRecord(context.Background(), f.store, store.DefaultRecordKey, payload); err != nil {
		t.Fatalf("save record: %v", err)
	}

	restored := f.controller.Restore(context.Background())
	if diff := cmp.Diff([]string{field.IDName, field.IDCity}, restored); diff != "" {
		t.Fatalf("restored ids mismatch (-want +got):\n%s", diff)
	}
	if got := f.registry.Value(field.IDName); got != "Ana Lopez" {
		t.Fatalf("expected name restored, got %q", got)
	}
	if got := f.registry.Value(field.IDEmail); got != "" {
		t.Fatalf("expected email left empty, got %q", got)
	}
	if f.board.Len() != 0 || f.modal.Visible() {
		t.Fatalf("restore must not show errors or modal")
	}
}

func TestRestore_IgnoresMalformedRecord(t *testing.T) {
	f := newFixture(t)
	if err := f.store.Put(context.Background(), store.DefaultRecordKey, []byte("{oops")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if restored := f.controller.Restore(context.Background()); len(restored) != 0 {
		t.Fatalf("expected nothing restored, got %v", restored)
	}
	if got := f.registry.Value(field.IDName); got != "" {
		t.Fatalf("expected inputs untouched, got %q", got)
	}
}

func TestCloseModal(t *testing.T) {
	f := newFixture(t)
	_, _ = f.controller.Submit(context.Background())
	if !f.modal.Visible() {
		t.Fatalf("expected modal visible")
	}
	f.controller.CloseModal()
	if f.modal.Visible() {
		t.Fatalf("expected modal hidden")
	}
}
