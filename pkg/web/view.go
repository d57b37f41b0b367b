package web

import (
	"github.com/goliatone/go-signup/pkg/field"
)

type pageView struct {
	Title       string
	SubmitLabel string
	Action      string
	CloseAction string
	FieldsAPI   string
	InFlight    bool
	Notice      string
}

type fieldView struct {
	ID        string
	ElementID string
	Label     string
	Kind      string
	Value     string
	Error     string
}

type modalView struct {
	Visible bool
	HTML    string
}

type themeView struct {
	Name         string
	Variant      string
	CSSVariables string
	Stylesheet   string
}

func (s *Surface) pageData(sess *session, notice string) map[string]any {
	defs := sess.controller.Registry().Fields()
	fields := make([]fieldView, 0, len(defs))
	for _, def := range defs {
		fields = append(fields, fieldViewFor(sess, def))
	}

	return map[string]any{
		"page": pageView{
			Title:       s.opts.Title,
			SubmitLabel: s.opts.SubmitLabel,
			Action:      s.routes.page,
			CloseAction: s.routes.closeModal,
			FieldsAPI:   s.routes.fieldsAPI,
			InFlight:    sess.controller.InFlight(),
			Notice:      notice,
		},
		"fields": fields,
		"modal": modalView{
			Visible: sess.modal.Visible(),
			HTML:    sess.modal.HTML(),
		},
		"theme": themeView{
			Name:         s.theme.Name(),
			Variant:      s.theme.Variant(),
			CSSVariables: s.theme.CSSVariables(),
			Stylesheet:   s.stylesheetURL(),
		},
	}
}

// fieldViewFor never echoes password values into the page.
func fieldViewFor(sess *session, def field.Definition) fieldView {
	view := fieldView{
		ID:        def.ID,
		ElementID: def.ElementID,
		Label:     def.Label,
		Kind:      string(def.Kind),
	}
	if def.Kind != field.KindPassword {
		view.Value = def.Input.Value()
	}
	if msg, ok := sess.errors.Message(def.ID); ok {
		view.Error = msg
	}
	return view
}

func (s *Surface) stylesheetURL() string {
	asset := s.theme.AssetURL(stylesheetAsset)
	if asset == "" {
		return ""
	}
	return s.routes.prefix + asset
}
