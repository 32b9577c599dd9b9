package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var files = []string{"locales/active.id.json", "locales/active.en.json"}

// Bundle holds the translated API messages.
type Bundle struct {
	bundle   *goi18n.Bundle
	fallback string
}

// New loads the embedded message files. defaultLang is used when a request
// names no language the bundle knows.
func New(defaultLang string) (*Bundle, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parsing default language %q: %w", defaultLang, err)
	}

	b := goi18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, f := range files {
		if _, err := b.LoadMessageFileFS(locales, f); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return &Bundle{bundle: b, fallback: defaultLang}, nil
}

// Localizer picks a language from an Accept-Language header value.
func (b *Bundle) Localizer(acceptLanguage string) *Localizer {
	return &Localizer{l: goi18n.NewLocalizer(b.bundle, acceptLanguage, b.fallback)}
}

type Localizer struct {
	l *goi18n.Localizer
}

// T translates id. Missing translations fall back to the id itself so a
// response always carries a message.
func (l *Localizer) T(id string, data ...map[string]any) string {
	if l == nil {
		return id
	}

	cfg := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}

	msg, err := l.l.Localize(cfg)
	if err != nil {
		slog.Warn("Missing translation", "id", id, "error", err)
		return id
	}

	return msg
}

type ctxKey struct{}

func WithLocalizer(ctx context.Context, l *Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request's localizer, or nil when none was set.
func FromContext(ctx context.Context) *Localizer {
	l, _ := ctx.Value(ctxKey{}).(*Localizer)
	return l
}
