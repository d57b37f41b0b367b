package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-signup/internal/ctxlog"
	"github.com/goliatone/go-signup/pkg/field"
	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/render/template"
	"github.com/goliatone/go-signup/pkg/render/template/pongo"
)

const (
	stylesheetAsset = "signup.stylesheet"
	maxFieldBody    = 16 << 10
)

// ErrorReader exposes the inline errors a page renders. form.ErrorBoard
// satisfies it.
type ErrorReader interface {
	Message(id string) (string, bool)
}

// ModalReader exposes the modal state a page renders. modal.Modal satisfies
// it.
type ModalReader interface {
	Visible() bool
	HTML() string
}

// Surface serves the form over HTTP. Every browser gets its own controller,
// keyed by a session cookie, so values, errors and the modal of one visitor
// are never rendered for another.
type Surface struct {
	sessions *sessionStore
	renderer template.TemplateRenderer
	theme    *Theme
	opts     Options
	logger   *slog.Logger
	routes   routeSet
}

// New builds a surface that asks factory for one controller per browser
// session. Controllers must keep the readable error sink and modal that
// form.New installs by default.
func New(factory ControllerFactory, fns ...OptionFn) (*Surface, error) {
	if factory == nil {
		return nil, errors.New("web: controller factory is required")
	}
	opts := NewOptions(fns...)

	renderer := opts.Renderer
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(opts.Templates))
		if err != nil {
			return nil, fmt.Errorf("web: template engine: %w", err)
		}
		renderer = engine
	}

	selected := opts.Theme
	if selected == nil {
		var err error
		selected, err = NewTheme(DefaultThemeName, "", nil)
		if err != nil {
			return nil, err
		}
	}

	return &Surface{
		sessions: newSessionStore(factory, opts.MaxSessions),
		renderer: renderer,
		theme:    selected,
		opts:     opts,
		logger:   opts.Logger,
		routes:   newRouteSet(opts.BasePath),
	}, nil
}

// sessionHandler adapts a handler that needs the request's session.
func (s *Surface) sessionHandler(next func(http.ResponseWriter, *http.Request, *session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.session(w, r)
		if err != nil {
			ctxlog.FromContext(r.Context(), s.logger).Error("web: resolve session", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next(w, r, sess)
	}
}

func (s *Surface) handlePage(w http.ResponseWriter, r *http.Request, sess *session) {
	s.render(w, r, sess, http.StatusOK, "")
}

func (s *Surface) handleSubmit(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	for _, def := range sess.controller.Registry().Fields() {
		if values, ok := r.PostForm[def.ID]; ok && len(values) > 0 {
			def.Input.SetValue(values[0])
		}
	}

	result, err := sess.controller.Submit(r.Context())
	if errors.Is(err, form.ErrSubmitInFlight) {
		s.render(w, r, sess, http.StatusConflict, "A submission is already in progress.")
		return
	}
	if err != nil {
		s.logger.Error("web: submit", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if result.Outcome == form.OutcomeInvalid {
		status = http.StatusUnprocessableEntity
	}
	s.render(w, r, sess, status, "")
}

func (s *Surface) handleCloseModal(w http.ResponseWriter, r *http.Request, sess *session) {
	sess.controller.CloseModal()
	http.Redirect(w, r, s.routes.page, http.StatusSeeOther)
}

type fieldRequest struct {
	Value *string `json:"value"`
}

type fieldState struct {
	Field   string `json:"field"`
	Valid   *bool  `json:"valid,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Surface) handleBlur(w http.ResponseWriter, r *http.Request, sess *session) {
	def, ok := s.fieldFromRequest(w, r, sess)
	if !ok {
		return
	}
	valid, err := sess.controller.Blur(def.ID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	state := fieldState{Field: def.ID, Valid: &valid}
	if msg, shown := sess.errors.Message(def.ID); shown {
		state.Message = msg
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Surface) handleFocus(w http.ResponseWriter, r *http.Request, sess *session) {
	def, ok := s.fieldFromRequest(w, r, sess)
	if !ok {
		return
	}
	if err := sess.controller.Focus(def.ID); err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, fieldState{Field: def.ID})
}

// fieldFromRequest resolves the {id} path value and applies the optional
// JSON value to the field's input.
func (s *Surface) fieldFromRequest(w http.ResponseWriter, r *http.Request, sess *session) (field.Definition, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	def, ok := sess.controller.Registry().Get(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Errorf("%w: %q", field.ErrUnknownField, id))
		return field.Definition{}, false
	}

	var body fieldRequest
	if r.Body != nil {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxFieldBody))
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("web: decode field body: %w", err))
			return field.Definition{}, false
		}
	}
	if body.Value != nil {
		def.Input.SetValue(*body.Value)
	}
	return def, true
}

func (s *Surface) render(w http.ResponseWriter, r *http.Request, sess *session, status int, notice string) {
	logger := ctxlog.FromContext(r.Context(), s.logger)

	html, err := s.renderer.RenderTemplate(PageTemplate, s.pageData(sess, notice))
	if err != nil {
		logger.Error("web: render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(w, html)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
