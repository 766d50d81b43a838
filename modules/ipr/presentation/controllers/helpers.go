package controllers

import (
	"context"
	"mime"
	"net/http"
	"net/url"

	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/modules/ipr/presentation/assets"
	"github.com/iota-uz/ipr/modules/ipr/presentation/templates/pages/ipr"
	"github.com/iota-uz/ipr/modules/ipr/presentation/viewmodels"
	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/intl"
)

func translator(ctx context.Context) plan.Translator {
	l, _ := intl.UseLocalizer(ctx)
	return intl.Translator(l)
}

// periodFormatter renders tenure months with the plural forms of the request language.
func periodFormatter(ctx context.Context) plan.PeriodFormatter {
	l, ok := intl.UseLocalizer(ctx)
	if !ok {
		return plan.DefaultPeriodFormatter
	}
	return intl.PluralFormatter(l, plan.KeyPeriodMonths)
}

func languages(app application.Application, basePath string, active string) []viewmodels.Language {
	supported := intl.Languages(app.GetSupportedLanguages())
	out := make([]viewmodels.Language, 0, len(supported))
	for _, lang := range supported {
		q := url.Values{intl.LanguageQueryParam: {lang.Code}}
		out = append(out, viewmodels.Language{
			Code:   lang.Code,
			Label:  lang.Label,
			URL:    basePath + "?" + q.Encode(),
			Active: lang.Code == active,
		})
	}
	return out
}

func baseProps(app application.Application, basePath string, r *http.Request) ipr.Base {
	l, _ := intl.UseLocalizer(r.Context())
	lang := intl.UseLocale(r.Context()).String()
	return ipr.Base{
		Localizer: l,
		Lang:      lang,
		Languages: languages(app, basePath, lang),
		Assets: ipr.Assets{
			Stylesheet: assets.URL(assets.StylesheetPath),
			Script:     assets.URL(assets.ScriptPath),
		},
	}
}

// attachment sets the download headers for a generated file.
func attachment(w http.ResponseWriter, contentType, fileName string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("Cache-Control", "no-store")
}
