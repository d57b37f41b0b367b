package web

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the manifest registered when no tokens are configured.
const DefaultThemeName = "signup"

var defaultTokens = map[string]string{
	"color-brand":   "#2563eb",
	"color-surface": "#ffffff",
	"color-text":    "#111827",
	"color-muted":   "#6b7280",
	"color-error":   "#b91c1c",
	"color-overlay": "rgba(17, 24, 39, 0.55)",
	"radius":        "6px",
	"font-family":   "system-ui, sans-serif",
}

var lightTokens = map[string]string{
	"color-surface": "#ffffff",
	"color-text":    "#111827",
}

var darkTokens = map[string]string{
	"color-surface": "#111827",
	"color-text":    "#f9fafb",
	"color-muted":   "#9ca3af",
	"color-error":   "#f87171",
}

// Theme is a resolved theme selection ready for rendering.
type Theme struct {
	config *theme.RendererConfig
}

// NewTheme registers a manifest built from the default tokens, with
// overrides applied, and resolves variant against it. An empty variant uses
// the base tokens; "light" and "dark" are bundled.
func NewTheme(name, variant string, overrides map[string]string) (*Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultThemeName
	}

	tokens := make(map[string]string, len(defaultTokens)+len(overrides))
	for key, value := range defaultTokens {
		tokens[key] = value
	}
	for key, value := range overrides {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		tokens[key] = value
	}

	manifest := &theme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens:  tokens,
		Templates: map[string]string{
			"signup.page": PageTemplate,
		},
		Assets: theme.Assets{
			Prefix: "/static",
			Files: map[string]string{
				"signup.stylesheet": "signup.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {Tokens: lightTokens},
			"dark":  {Tokens: darkTokens},
		},
	}

	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("web: register theme %q: %w", name, err)
	}

	return resolveTheme(manifest, strings.TrimSpace(variant))
}

func resolveTheme(manifest *theme.Manifest, variant string) (*Theme, error) {
	if manifest == nil {
		return nil, errors.New("web: theme manifest is nil")
	}

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("web: theme %q has no variant %q", manifest.Name, variant)
		}
		for key, value := range v.Tokens {
			tokens[key] = value
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if !safeCSSValue(value) {
			continue
		}
		cssVars["--"+key] = value
	}

	prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
	return &Theme{config: &theme.RendererConfig{
		Theme:   manifest.Name,
		Variant: variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		AssetURL: func(key string) string {
			if file, ok := manifest.Assets.Files[key]; ok {
				return prefix + "/" + strings.TrimLeft(file, "/")
			}
			return ""
		},
	}}, nil
}

// Name returns the theme name.
func (t *Theme) Name() string {
	if t == nil || t.config == nil {
		return ""
	}
	return t.config.Theme
}

// Variant returns the selected variant, empty for the base tokens.
func (t *Theme) Variant() string {
	if t == nil || t.config == nil {
		return ""
	}
	return t.config.Variant
}

// AssetURL resolves an asset key from the manifest.
func (t *Theme) AssetURL(key string) string {
	if t == nil || t.config == nil || t.config.AssetURL == nil {
		return ""
	}
	return t.config.AssetURL(key)
}

// Token returns the resolved value of a design token.
func (t *Theme) Token(key string) string {
	if t == nil || t.config == nil {
		return ""
	}
	return t.config.Tokens[key]
}

// CSSVariables renders the resolved tokens as CSS custom property
// declarations, sorted by name.
func (t *Theme) CSSVariables() string {
	if t == nil || t.config == nil || len(t.config.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(t.config.CSSVars))
	for name := range t.config.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(t.config.CSSVars[name])
		b.WriteByte(';')
	}
	return b.String()
}

// Values inside a <style> block must not close the rule or the element.
func safeCSSValue(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	return !strings.ContainsAny(value, "<>{};\\")
}
