package intl

import (
	"context"
	"errors"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/iota-uz/ipr/pkg/constants"
)

var ErrNoLocalizer = errors.New("localizer not found in context")

func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, constants.LocalizerKey, l)
}

// UseLocalizer returns the localizer from the context.
// If the localizer is not found, the second return value will be false.
func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(constants.LocalizerKey).(*i18n.Localizer)
	return l, ok && l != nil
}

func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, constants.LocaleKey, tag)
}

// UseLocale returns the negotiated locale or English when none is set.
func UseLocale(ctx context.Context) language.Tag {
	tag, ok := ctx.Value(constants.LocaleKey).(language.Tag)
	if !ok {
		return language.English
	}
	return tag
}

// T translates messageID and falls back to the ID itself when there is no
// localizer or no message.
func T(ctx context.Context, messageID string, data ...map[string]interface{}) string {
	l, ok := UseLocalizer(ctx)
	if !ok {
		return messageID
	}
	return Translate(l, messageID, data...)
}

func Translate(l *i18n.Localizer, messageID string, data ...map[string]interface{}) string {
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}

// Plural translates a plural message, passing n both as PluralCount and as {{.Count}}.
func Plural(l *i18n.Localizer, messageID string, n int) string {
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		PluralCount:  n,
		TemplateData: map[string]interface{}{"Count": n},
	})
	if err != nil {
		return messageID
	}
	return msg
}

// Translator binds l into a message-id lookup. A nil localizer returns ids unchanged.
func Translator(l *i18n.Localizer) func(string) string {
	return func(messageID string) string {
		if l == nil {
			return messageID
		}
		return Translate(l, messageID)
	}
}

// PluralFormatter binds l and a plural message id into a count formatter.
func PluralFormatter(l *i18n.Localizer, messageID string) func(int) string {
	return func(n int) string {
		if l == nil {
			return messageID
		}
		return Plural(l, messageID, n)
	}
}
