package constants

import (
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	rutranslations "github.com/go-playground/validator/v10/translations/ru"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())

var universal = sync.OnceValue(func() *ut.UniversalTranslator {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, ru.New())

	enTrans, _ := uni.GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(Validate, enTrans); err != nil {
		panic(err)
	}
	ruTrans, _ := uni.GetTranslator("ru")
	if err := rutranslations.RegisterDefaultTranslations(Validate, ruTrans); err != nil {
		panic(err)
	}
	return uni
})

// ValidationTranslator returns the validator message translator for the
// given language code, falling back to English.
func ValidationTranslator(lang string) ut.Translator {
	trans, _ := universal().FindTranslator(lang, "en")
	return trans
}
