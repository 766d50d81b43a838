package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/iota-uz/ipr/pkg/intl"
)

// Application interface for accessing app config needed by localizer
type Application interface {
	Bundle() *i18n.Bundle
	GetSupportedLanguages() []string
	DefaultLanguage() string
}

// ProvideLocalizer negotiates the request language and stores the localizer
// and the locale in the context. A language chosen via ?lang= is remembered
// in a cookie.
func ProvideLocalizer(app Application) mux.MiddlewareFunc {
	bundle := app.Bundle()
	negotiator := intl.NewNegotiator(app.GetSupportedLanguages(), app.DefaultLanguage())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				locale, explicit := negotiator.Negotiate(r)
				if explicit {
					intl.RememberLanguage(w, locale)
				}
				ctx := intl.WithLocalizer(
					r.Context(),
					i18n.NewLocalizer(bundle, locale.String()),
				)
				ctx = intl.WithLocale(ctx, locale)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}
