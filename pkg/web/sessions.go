package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-signup/pkg/form"
)

// ControllerFactory builds the controller for one browser session. The
// factory owns restoring that session's previous submission, which is how
// each browser gets back only its own record.
type ControllerFactory func(ctx context.Context, sessionID string) (*form.Controller, error)

// session is the per-browser form state: inputs, inline errors and modal
// all hang off its controller.
type session struct {
	id         string
	controller *form.Controller
	errors     ErrorReader
	modal      ModalReader
	lastSeen   time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	factory  ControllerFactory
	max      int
	sessions map[string]*session
	now      func() time.Time
}

func newSessionStore(factory ControllerFactory, max int) *sessionStore {
	return &sessionStore{
		factory:  factory,
		max:      max,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// lookup returns the session for id, building it when missing. An id that
// is not a UUID is replaced by a fresh one; created reports whether the
// caller must (re)issue the cookie.
func (st *sessionStore) lookup(ctx context.Context, id string) (sess *session, created bool, err error) {
	if _, perr := uuid.Parse(id); perr != nil {
		id = uuid.NewString()
		created = true
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if existing, ok := st.sessions[id]; ok {
		existing.lastSeen = st.now()
		return existing, created, nil
	}

	controller, err := st.factory(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("web: build session controller: %w", err)
	}
	if controller == nil {
		return nil, false, fmt.Errorf("web: controller factory returned nil")
	}
	reader, ok := controller.Errors().(ErrorReader)
	if !ok {
		return nil, false, fmt.Errorf("web: error sink %T cannot be read back", controller.Errors())
	}
	modalReader, ok := controller.Modal().(ModalReader)
	if !ok {
		return nil, false, fmt.Errorf("web: modal %T cannot be read back", controller.Modal())
	}

	sess = &session{
		id:         id,
		controller: controller,
		errors:     reader,
		modal:      modalReader,
		lastSeen:   st.now(),
	}
	st.evictLocked()
	st.sessions[id] = sess
	return sess, created, nil
}

// evictLocked drops the least recently seen sessions until one more fits.
func (st *sessionStore) evictLocked() {
	for st.max > 0 && len(st.sessions) >= st.max {
		var (
			oldestID string
			oldest   time.Time
		)
		for id, sess := range st.sessions {
			if oldestID == "" || sess.lastSeen.Before(oldest) {
				oldestID, oldest = id, sess.lastSeen
			}
		}
		delete(st.sessions, oldestID)
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// session resolves the request's session and sets the cookie when a new id
// was minted.
func (s *Surface) session(w http.ResponseWriter, r *http.Request) (*session, error) {
	var id string
	if cookie, err := r.Cookie(s.opts.SessionCookie); err == nil {
		id = cookie.Value
	}

	sess, created, err := s.sessions.lookup(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     s.opts.SessionCookie,
			Value:    sess.id,
			Path:     s.routes.page,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, nil
}
