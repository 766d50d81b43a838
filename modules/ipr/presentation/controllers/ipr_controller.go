package controllers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/modules/ipr/infrastructure/matrix"
	"github.com/iota-uz/ipr/modules/ipr/presentation/mappers"
	"github.com/iota-uz/ipr/modules/ipr/presentation/templates/pages/ipr"
	"github.com/iota-uz/ipr/modules/ipr/services"
	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/composables"
	"github.com/iota-uz/ipr/pkg/docx"
	"github.com/iota-uz/ipr/pkg/intl"
	"github.com/iota-uz/ipr/pkg/middleware"
	"github.com/iota-uz/ipr/pkg/shared"
)

const matrixFileName = "competency-matrix.xlsx"

// IPRController serves the plan form and its htmx partials.
type IPRController struct {
	app             application.Application
	planService     *services.PlanService
	documentService *services.DocumentService
	basePath        string
}

func NewIPRController(app application.Application) application.Controller {
	return &IPRController{
		app:             app,
		planService:     app.Service(services.PlanService{}).(*services.PlanService),
		documentService: app.Service(services.DocumentService{}).(*services.DocumentService),
		basePath:        "/ipr",
	}
}

func (c *IPRController) Key() string {
	return c.basePath
}

func (c *IPRController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ProvideLocalizer(c.app))
	router.HandleFunc("", c.Index).Methods(http.MethodGet)
	router.HandleFunc("/level", c.Level).Methods(http.MethodPost)
	router.HandleFunc("/preview", c.Preview).Methods(http.MethodPost)
	router.HandleFunc("/export", c.Export).Methods(http.MethodPost)
	router.HandleFunc("/matrix.xlsx", c.Matrix).Methods(http.MethodGet)
}

func (c *IPRController) paths() ipr.Paths {
	return ipr.Paths{
		Level:   c.basePath + "/level",
		Preview: c.basePath + "/preview",
		Export:  c.basePath + "/export",
		Matrix:  c.basePath + "/matrix.xlsx",
	}
}

func (c *IPRController) pageProps(r *http.Request, state plan.State, errs map[string]string) *ipr.IndexPageProps {
	t := translator(r.Context())
	if errs == nil {
		errs = map[string]string{}
	}
	return &ipr.IndexPageProps{
		Base:            baseProps(c.app, c.basePath, r),
		Paths:           c.paths(),
		Plan:            mappers.PlanToViewModel(state, t),
		Errors:          errs,
		LevelOptions:    mappers.LevelOptions(c.planService.Table(), state.CurrentLevel().String(), t),
		PositionOptions: mappers.PositionOptions(string(state.Position()), t),
	}
}

// submittedState decodes the form and runs the level cascade over it.
func (c *IPRController) submittedState(r *http.Request) (*plan.CreateDTO, plan.State, error) {
	dto, err := composables.UseForm(&plan.CreateDTO{}, r)
	if err != nil {
		return nil, plan.State{}, err
	}
	dto.Normalize()
	return dto, dto.ToState(c.planService.Cascade(periodFormatter(r.Context()))), nil
}

// indexQuery preselects a level, e.g. /ipr?level=middle%2B.
type indexQuery struct {
	Level string `form:"level"`
}

func (c *IPRController) Index(w http.ResponseWriter, r *http.Request) {
	state := plan.New()
	if query, err := composables.UseQuery(&indexQuery{}, r); err == nil && query.Level != "" {
		if level, ok := c.planService.Lookup(query.Level); ok && c.planService.Selectable(level) {
			state = c.planService.ApplyLevel(state, level, periodFormatter(r.Context()))
		}
	}
	templ.Handler(ipr.Index(c.pageProps(r, state, nil)), templ.WithStreaming()).ServeHTTP(w, r)
}

// Level re-renders the derived block after the current level changes.
func (c *IPRController) Level(w http.ResponseWriter, r *http.Request) {
	_, state, err := c.submittedState(r)
	if err != nil {
		http.Error(w, intl.T(r.Context(), "IPR.Errors.InvalidRequest"), http.StatusBadRequest)
		return
	}
	templ.Handler(ipr.Derived(c.pageProps(r, state, nil)), templ.WithStreaming()).ServeHTTP(w, r)
}

func (c *IPRController) Preview(w http.ResponseWriter, r *http.Request) {
	dto, state, err := c.submittedState(r)
	if err != nil {
		http.Error(w, intl.T(r.Context(), "IPR.Errors.InvalidRequest"), http.StatusBadRequest)
		return
	}
	if errs, ok := c.planService.Validate(r.Context(), dto); !ok {
		shared.Retarget(w, "#ipr-form")
		shared.Reswap(w, "outerHTML")
		templ.Handler(ipr.Form(c.pageProps(r, state, errs)), templ.WithStreaming()).ServeHTTP(w, r)
		return
	}

	props := &ipr.PreviewProps{
		Base:     baseProps(c.app, c.basePath, r),
		FileName: c.documentService.FileName(state),
	}
	html, err := c.documentService.Preview(r.Context(), state, translator(r.Context()))
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to render plan preview")
		templ.Handler(ipr.PreviewError(props), templ.WithStreaming()).ServeHTTP(w, r)
		return
	}
	props.HTML = template.HTML(html) //nolint:gosec // produced by docx.ToHTML, which escapes all text
	templ.Handler(ipr.Preview(props), templ.WithStreaming()).ServeHTTP(w, r)
}

func (c *IPRController) Export(w http.ResponseWriter, r *http.Request) {
	dto, state, err := c.submittedState(r)
	if err != nil {
		http.Error(w, intl.T(r.Context(), "IPR.Errors.InvalidRequest"), http.StatusBadRequest)
		return
	}
	if errs, ok := c.planService.Validate(r.Context(), dto); !ok {
		props := c.pageProps(r, state, errs)
		if shared.IsHxRequest(r) {
			templ.Handler(ipr.Form(props), templ.WithStatus(http.StatusUnprocessableEntity)).ServeHTTP(w, r)
			return
		}
		templ.Handler(ipr.Index(props), templ.WithStatus(http.StatusUnprocessableEntity)).ServeHTTP(w, r)
		return
	}

	blob, fileName, err := c.documentService.Export(r.Context(), state, translator(r.Context()))
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to assemble plan document")
		http.Error(w, intl.T(r.Context(), "IPR.Errors.ExportFailed"), http.StatusInternalServerError)
		return
	}
	attachment(w, docx.MimeType, fileName)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write plan document")
	}
}

func (c *IPRController) Matrix(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := c.planService.ExportMatrix(&buf, translator(r.Context())); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to export competency matrix")
		http.Error(w, intl.T(r.Context(), "IPR.Errors.ExportFailed"), http.StatusInternalServerError)
		return
	}
	attachment(w, matrix.XLSXContentType, matrixFileName)
	if _, err := buf.WriteTo(w); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write competency matrix")
	}
}
