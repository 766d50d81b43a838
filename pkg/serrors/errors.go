package serrors

import (
	"github.com/iota-uz/go-i18n/v2/i18n"
)

// Base is an error that can render itself through a localizer.
type Base interface {
	error
	Localize(l *i18n.Localizer) string
}

type BaseError struct {
	Code         string
	Message      string
	LocaleKey    string
	TemplateData map[string]interface{}
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) Localize(l *i18n.Localizer) string {
	if e.LocaleKey == "" || l == nil {
		return e.Message
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    e.LocaleKey,
		TemplateData: e.TemplateData,
	})
	if err != nil {
		return e.Message
	}
	return msg
}
