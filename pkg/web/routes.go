package web

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register net/http handlers.
// It is satisfied by *http.ServeMux. Patterns use the method and wildcard
// syntax of Go 1.22 ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

type routeSet struct {
	prefix     string
	page       string
	closeModal string
	fieldsAPI  string
	static     string
}

func newRouteSet(basePath string) routeSet {
	prefix := mountPrefix(basePath)
	return routeSet{
		prefix:     prefix,
		page:       prefix + "/",
		closeModal: prefix + "/modal/close",
		fieldsAPI:  prefix + "/api/fields/",
		static:     prefix + "/static/",
	}
}

// MountPath returns the page path for a surface mounted under basePath.
func MountPath(basePath string) string {
	return newRouteSet(basePath).page
}

// RegisterRoutes registers every surface route on mux and returns the page
// path.
func (s *Surface) RegisterRoutes(mux Mux) (string, error) {
	if s == nil {
		return "", fmt.Errorf("web: surface is nil")
	}
	if mux == nil {
		return "", fmt.Errorf("web: missing mux")
	}
	rt := s.routes

	mux.Handle("GET "+rt.prefix+"/{$}", s.sessionHandler(s.handlePage))
	mux.Handle("POST "+rt.prefix+"/{$}", s.sessionHandler(s.handleSubmit))
	mux.Handle("POST "+rt.closeModal, s.sessionHandler(s.handleCloseModal))
	mux.Handle("POST "+rt.fieldsAPI+"{id}/blur", s.sessionHandler(s.handleBlur))
	mux.Handle("POST "+rt.fieldsAPI+"{id}/focus", s.sessionHandler(s.handleFocus))
	mux.Handle("GET "+rt.static, http.StripPrefix(rt.static, http.FileServerFS(StaticFS())))
	return rt.page, nil
}

// Handler returns a ServeMux with every surface route registered.
func (s *Surface) Handler() http.Handler {
	mux := http.NewServeMux()
	if _, err := s.RegisterRoutes(mux); err != nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		})
	}
	return mux
}

// mountPrefix normalizes basePath to "" or "/segment" without a trailing
// slash.
func mountPrefix(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return ""
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}
