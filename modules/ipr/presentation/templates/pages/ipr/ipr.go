package ipr

import (
	"context"
	"embed"
	"html/template"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/iota-uz/ipr/modules/ipr/presentation/viewmodels"
	"github.com/iota-uz/ipr/pkg/intl"
)

//go:embed *.html
var files embed.FS

const (
	inputClass   = "mt-1 block w-full rounded-md border border-gray-300 px-3 py-2 text-sm focus:border-blue-500 focus:outline-none"
	invalidClass = "border-red-500 focus:border-red-600"
	buttonBase   = "rounded-md border border-gray-300 bg-white px-4 py-2 text-sm font-medium text-gray-800 hover:bg-gray-100"
	buttonMain   = "border-blue-700 bg-blue-700 text-white hover:bg-blue-800"
	langBase     = "rounded px-2 py-1 text-xs font-medium text-gray-600 hover:bg-gray-200"
	langActive   = "bg-gray-900 text-white hover:bg-gray-900"
)

var pages = template.Must(template.New("ipr").Funcs(template.FuncMap{
	"fieldClass": func(errMsg string) string {
		if errMsg == "" {
			return inputClass
		}
		return twmerge.Merge(inputClass, invalidClass)
	},
	"buttonClass": func(primary bool) string {
		if !primary {
			return buttonBase
		}
		return twmerge.Merge(buttonBase, buttonMain)
	},
	"langClass": func(active bool) string {
		if !active {
			return langBase
		}
		return twmerge.Merge(langBase, langActive)
	},
}).ParseFS(files, "*.html"))

type Assets struct {
	Stylesheet string
	Script     string
}

type Paths struct {
	Level   string
	Preview string
	Export  string
	Matrix  string
}

// Base carries what every IPR template needs regardless of the page.
type Base struct {
	Localizer *i18n.Localizer
	Lang      string
	Languages []viewmodels.Language
	Assets    Assets
}

func (b Base) T(messageID string) string {
	return intl.Translator(b.Localizer)(messageID)
}

type IndexPageProps struct {
	Base
	Paths           Paths
	Plan            *viewmodels.Plan
	Errors          map[string]string
	LevelOptions    []viewmodels.Option
	PositionOptions []viewmodels.Option
}

type PreviewProps struct {
	Base
	FileName string
	HTML     template.HTML
}

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

func Index(props *IndexPageProps) templ.Component {
	return component("index", props)
}

// Form renders the plan form alone, for swapping after a failed submit.
func Form(props *IndexPageProps) templ.Component {
	return component("form", props)
}

func Derived(props *IndexPageProps) templ.Component {
	return component("derived", props)
}

func Preview(props *PreviewProps) templ.Component {
	return component("preview", props)
}

func PreviewError(props *PreviewProps) templ.Component {
	return component("preview-error", props)
}
