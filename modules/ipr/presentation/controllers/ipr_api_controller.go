package controllers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/modules/ipr/presentation/mappers"
	"github.com/iota-uz/ipr/modules/ipr/presentation/viewmodels"
	"github.com/iota-uz/ipr/modules/ipr/services"
	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/composables"
	"github.com/iota-uz/ipr/pkg/docx"
	"github.com/iota-uz/ipr/pkg/httpapi"
	"github.com/iota-uz/ipr/pkg/intl"
	"github.com/iota-uz/ipr/pkg/middleware"
)

const uploadField = "file"

type cascadeRequest struct {
	CurrentLevel string `json:"currentLevel"`
}

// IPRAPIController exposes the competency table and document assembly as JSON.
type IPRAPIController struct {
	app             application.Application
	planService     *services.PlanService
	documentService *services.DocumentService
	maxUploadSize   int64
	basePath        string
}

func NewIPRAPIController(app application.Application, maxUploadSize int64) application.Controller {
	return &IPRAPIController{
		app:             app,
		planService:     app.Service(services.PlanService{}).(*services.PlanService),
		documentService: app.Service(services.DocumentService{}).(*services.DocumentService),
		maxUploadSize:   maxUploadSize,
		basePath:        "/api/ipr",
	}
}

func (c *IPRAPIController) Key() string {
	return c.basePath
}

func (c *IPRAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ProvideLocalizer(c.app))
	router.HandleFunc("/levels", instrumentAPI("levels.list", c.ListLevels)).Methods(http.MethodGet)
	router.HandleFunc("/levels/{level}", instrumentAPI("levels.get", c.GetLevel)).Methods(http.MethodGet)
	router.HandleFunc("/cascade", instrumentAPI("cascade", c.Cascade)).Methods(http.MethodPost)
	router.HandleFunc("/documents", instrumentAPI("documents.create", c.CreateDocument)).Methods(http.MethodPost)
	router.HandleFunc("/documents/preview", instrumentAPI("documents.preview", c.PreviewDocument)).Methods(http.MethodPost)
	router.HandleFunc("/preview", instrumentAPI("preview.upload", c.PreviewUpload)).Methods(http.MethodPost)
}

func (c *IPRAPIController) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to encode response")
	}
}

func (c *IPRAPIController) writeError(w http.ResponseWriter, r *http.Request, status int, code, messageID string, meta map[string]string) {
	if err := httpapi.WriteError(w, status, code, intl.T(r.Context(), messageID), meta); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to encode error response")
	}
}

// decodeJSON reads a JSON body no larger than the upload limit and writes the
// error response itself when it fails.
func (c *IPRAPIController) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.writeError(w, r, http.StatusRequestEntityTooLarge, httpapi.CodeInvalidRequest, "IPR.Errors.TooLarge", nil)
		return false
	}
	c.writeError(w, r, http.StatusBadRequest, httpapi.CodeInvalidRequest, "IPR.Errors.InvalidRequest", nil)
	return false
}

func (c *IPRAPIController) ListLevels(w http.ResponseWriter, r *http.Request) {
	t := translator(r.Context())
	table := c.planService.Table()
	levels := c.planService.Levels()
	out := make([]viewmodels.Level, 0, len(levels))
	for _, level := range levels {
		out = append(out, mappers.LevelToViewModel(table, level, t))
	}
	c.writeJSON(w, r, http.StatusOK, out)
}

// GetLevel accepts level ids as well as labels such as "middle+".
func (c *IPRAPIController) GetLevel(w http.ResponseWriter, r *http.Request) {
	level, ok := c.planService.Lookup(mux.Vars(r)["level"])
	if !ok {
		c.writeError(w, r, http.StatusNotFound, httpapi.CodeUnknownLevel, plan.KeyUnknownLevel, nil)
		return
	}
	table := c.planService.Table()
	entry, ok := table.Entry(level)
	if !ok {
		c.writeError(w, r, http.StatusNotFound, httpapi.CodeUnknownLevel, plan.KeyUnknownLevel, nil)
		return
	}
	c.writeJSON(w, r, http.StatusOK, mappers.LevelToDetails(table, entry, translator(r.Context())))
}

// Cascade returns the derived part of a plan for a level. Unknown levels give empty fields.
func (c *IPRAPIController) Cascade(w http.ResponseWriter, r *http.Request) {
	var req cascadeRequest
	if !c.decodeJSON(w, r, &req) {
		return
	}
	level := competency.Level(strings.TrimSpace(req.CurrentLevel))
	state := c.planService.ApplyLevel(plan.New(), level, periodFormatter(r.Context()))
	c.writeJSON(w, r, http.StatusOK, mappers.StateToCascade(state))
}

func (c *IPRAPIController) decodePlan(w http.ResponseWriter, r *http.Request) (plan.State, bool) {
	var dto plan.CreateDTO
	if !c.decodeJSON(w, r, &dto) {
		return plan.State{}, false
	}
	if errs, ok := c.planService.Validate(r.Context(), &dto); !ok {
		c.writeError(w, r, http.StatusUnprocessableEntity, httpapi.CodeValidationFailed, "IPR.Errors.ValidationFailed", errs)
		return plan.State{}, false
	}
	return dto.ToState(c.planService.Cascade(periodFormatter(r.Context()))), true
}

func (c *IPRAPIController) CreateDocument(w http.ResponseWriter, r *http.Request) {
	state, ok := c.decodePlan(w, r)
	if !ok {
		return
	}
	blob, fileName, err := c.documentService.Export(r.Context(), state, translator(r.Context()))
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to assemble plan document")
		c.writeError(w, r, http.StatusInternalServerError, httpapi.CodeInternal, "IPR.Errors.ExportFailed", nil)
		return
	}
	attachment(w, docx.MimeType, fileName)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write plan document")
	}
}

func (c *IPRAPIController) PreviewDocument(w http.ResponseWriter, r *http.Request) {
	state, ok := c.decodePlan(w, r)
	if !ok {
		return
	}
	html, err := c.documentService.Preview(r.Context(), state, translator(r.Context()))
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to render plan preview")
		c.writeError(w, r, http.StatusInternalServerError, httpapi.CodeInternal, "IPR.Preview.Failed", nil)
		return
	}
	c.writeJSON(w, r, http.StatusOK, viewmodels.DocumentPreview{
		FileName: c.documentService.FileName(state),
		HTML:     html,
	})
}

// readUpload returns the uploaded document, either as the "file" part of a
// multipart form or as the raw request body.
func (c *IPRAPIController) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}
	file, _, err := r.FormFile(uploadField)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (c *IPRAPIController) PreviewUpload(w http.ResponseWriter, r *http.Request) {
	blob, err := c.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.writeError(w, r, http.StatusRequestEntityTooLarge, httpapi.CodeInvalidRequest, "IPR.Errors.TooLarge", nil)
			return
		}
		c.writeError(w, r, http.StatusBadRequest, httpapi.CodeInvalidRequest, "IPR.Errors.InvalidRequest", nil)
		return
	}
	html, err := c.documentService.RenderPreviewHTML(r.Context(), blob)
	switch {
	case errors.Is(err, services.ErrNotDocument), errors.Is(err, docx.ErrNotDocx):
		c.writeError(w, r, http.StatusUnprocessableEntity, httpapi.CodeNotDocx, "IPR.Errors.NotDocx", nil)
		return
	case err != nil:
		composables.UseLogger(r.Context()).WithError(err).Error("failed to render uploaded document")
		c.writeError(w, r, http.StatusInternalServerError, httpapi.CodeInternal, "IPR.Preview.Failed", nil)
		return
	}
	c.writeJSON(w, r, http.StatusOK, viewmodels.DocumentPreview{HTML: html})
}
