package intl

import (
	"net/http"

	"golang.org/x/text/language"
)

const (
	LanguageQueryParam = "lang"
	LanguageCookie     = "ipr_lang"
)

// Language is a language the form can be rendered in. Label is written in the
// language itself so the switcher reads the same in every locale.
type Language struct {
	Code  string
	Label string
	Tag   language.Tag
}

var languages = []Language{
	{Code: "en", Label: "EN", Tag: language.English},
	{Code: "ru", Label: "RU", Tag: language.Russian},
}

// Languages returns the known languages listed in codes, in catalogue order.
// An empty list means all of them.
func Languages(codes []string) []Language {
	if len(codes) == 0 {
		return languages
	}
	enabled := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		enabled[code] = struct{}{}
	}
	out := make([]Language, 0, len(codes))
	for _, lang := range languages {
		if _, ok := enabled[lang.Code]; ok {
			out = append(out, lang)
		}
	}
	return out
}

// Negotiator picks the request language. An explicit choice (?lang=, then the
// language cookie) beats Accept-Language; anything unsupported falls back to
// the default.
type Negotiator struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
}

func NewNegotiator(codes []string, fallback string) *Negotiator {
	langs := Languages(codes)
	tags := make([]language.Tag, len(langs))
	for i, lang := range langs {
		tags[i] = lang.Tag
	}
	n := &Negotiator{fallback: language.Make(fallback), supported: tags}
	if len(tags) > 0 {
		n.matcher = language.NewMatcher(tags)
	}
	return n
}

// Negotiate returns the language for r and whether it came from ?lang=, in
// which case the caller should remember it.
func (n *Negotiator) Negotiate(r *http.Request) (language.Tag, bool) {
	if code := r.URL.Query().Get(LanguageQueryParam); code != "" {
		if tag, err := language.Parse(code); err == nil {
			return n.match(tag), true
		}
	}
	if cookie, err := r.Cookie(LanguageCookie); err == nil {
		if tag, err := language.Parse(cookie.Value); err == nil {
			return n.match(tag), false
		}
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil {
		return n.fallback, false
	}
	return n.match(tags...), false
}

func (n *Negotiator) match(candidates ...language.Tag) language.Tag {
	if n.matcher == nil || len(candidates) == 0 {
		return n.fallback
	}
	_, idx, confidence := n.matcher.Match(candidates...)
	if confidence == language.No {
		return n.fallback
	}
	return n.supported[idx]
}

// RememberLanguage stores an explicitly chosen language for a year.
func RememberLanguage(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookie,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
