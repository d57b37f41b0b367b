package web

import (
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-signup/pkg/render/template"
)

type Options struct {
	BasePath      string
	SessionCookie string
	Title         string
	SubmitLabel   string
	Theme         *Theme
	Templates     fs.FS
	Renderer      template.TemplateRenderer
	Logger        *slog.Logger

	// MaxSessions bounds the browser sessions kept in memory. The least
	// recently seen one is dropped first.
	MaxSessions int
}

type OptionFn func(*Options)

const (
	DefaultSessionCookie = "signup_session"
	DefaultMaxSessions   = 1024
)

func DefaultOptions() Options {
	return Options{
		BasePath:      "/",
		SessionCookie: DefaultSessionCookie,
		MaxSessions:   DefaultMaxSessions,
		Title:         "Newsletter signup",
		SubmitLabel:   "Subscribe",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.BasePath == "" {
		opts.BasePath = "/"
	}
	if opts.SessionCookie == "" {
		opts.SessionCookie = DefaultSessionCookie
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Title == "" {
		opts.Title = "Newsletter signup"
	}
	if opts.SubmitLabel == "" {
		opts.SubmitLabel = "Subscribe"
	}
	if opts.Templates == nil {
		opts.Templates = TemplatesFS()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

func WithBasePath(path string) OptionFn {
	return func(o *Options) {
		o.BasePath = path
	}
}

func WithSessionCookie(name string) OptionFn {
	return func(o *Options) {
		o.SessionCookie = name
	}
}

func WithMaxSessions(n int) OptionFn {
	return func(o *Options) {
		o.MaxSessions = n
	}
}

func WithTitle(title string) OptionFn {
	return func(o *Options) {
		o.Title = title
	}
}

func WithSubmitLabel(label string) OptionFn {
	return func(o *Options) {
		o.SubmitLabel = label
	}
}

func WithTheme(theme *Theme) OptionFn {
	return func(o *Options) {
		o.Theme = theme
	}
}

// WithTemplatesFS replaces the embedded template bundle. The bundle must
// provide templates/page.tmpl.
func WithTemplatesFS(files fs.FS) OptionFn {
	return func(o *Options) {
		o.Templates = files
	}
}

// WithRenderer injects a template renderer, bypassing WithTemplatesFS.
func WithRenderer(renderer template.TemplateRenderer) OptionFn {
	return func(o *Options) {
		o.Renderer = renderer
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = logger
	}
}
