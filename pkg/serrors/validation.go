package serrors

import (
	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/go-i18n/v2/i18n"
)

type ValidationErrors map[string]Base

// ValidationError describes a single failed struct field rule.
type ValidationError struct {
	BaseError
	Field          string
	FieldLocaleKey string
	Tag            string
	Param          string
}

func NewValidationError(field, fieldLocaleKey, tag, param, fallback string) *ValidationError {
	return &ValidationError{
		BaseError: BaseError{
			Code:      "VALIDATION_" + tag,
			Message:   fallback,
			LocaleKey: "ValidationErrors." + tag,
		},
		Field:          field,
		FieldLocaleKey: fieldLocaleKey,
		Tag:            tag,
		Param:          param,
	}
}

func (e *ValidationError) Localize(l *i18n.Localizer) string {
	if l == nil {
		return e.Message
	}
	fieldName := e.Field
	if e.FieldLocaleKey != "" {
		if name, err := l.Localize(&i18n.LocalizeConfig{MessageID: e.FieldLocaleKey}); err == nil {
			fieldName = name
		}
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID: e.LocaleKey,
		TemplateData: map[string]interface{}{
			"Field": fieldName,
			"Param": e.Param,
		},
	})
	if err != nil {
		return e.Message
	}
	return msg
}

// ProcessValidatorErrors maps validator field errors to ValidationErrors keyed
// by struct field name. fieldLocaleKey resolves the label key for a field.
func ProcessValidatorErrors(errs validator.ValidationErrors, fieldLocaleKey func(field string) string, trans ...FieldTranslator) ValidationErrors {
	result := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		fallback := fe.Error()
		if len(trans) > 0 && trans[0] != nil {
			fallback = trans[0](fe)
		}
		result[fe.Field()] = NewValidationError(
			fe.Field(),
			fieldLocaleKey(fe.Field()),
			fe.Tag(),
			fe.Param(),
			fallback,
		)
	}
	return result
}

// FieldTranslator renders a fallback message for a validator field error.
type FieldTranslator func(fe validator.FieldError) string

func LocalizeValidationErrors(errs ValidationErrors, l *i18n.Localizer) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		out[field] = err.Localize(l)
	}
	return out
}
