package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/configuration"
	"github.com/iota-uz/ipr/pkg/httpapi"
	"github.com/iota-uz/ipr/pkg/logging"
)

type pingController struct{}

func (pingController) Key() string { return "/ping" }

func (pingController) Register(r *mux.Router) {
	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}).Methods(http.MethodGet)
}

func newTestServer(t *testing.T, rps int) http.Handler {
	t.Helper()
	logger := logging.ConsoleLogger(logrus.PanicLevel)
	app := application.New(&application.ApplicationOptions{Logger: logger})
	app.RegisterControllers(pingController{})
	conf := &configuration.Configuration{
		GoAppEnvironment:   "test",
		CorsAllowedOrigins: []string{"https://hr.example.com"},
		RequestIDHeader:    "X-Request-ID",
		RealIPHeader:       "X-Real-IP",
		RateLimit: configuration.RateLimitOptions{
			Enabled:   rps > 0,
			GlobalRPS: rps,
			Storage:   "memory",
		},
	}
	srv, err := Default(&DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Entrypoint:    "/ipr",
	})
	require.NoError(t, err)
	return srv.Handler()
}

func TestDefault_ErrorHandlers(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/ipr", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Hx-Request", "true")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/ipr", rec.Header().Get("Hx-Redirect"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ipr/unknown", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Equal(t, httpapi.CodeNotFound, envelope.Code)
	require.Equal(t, "/api/ipr/unknown", envelope.Meta["path"])
	require.NotEmpty(t, envelope.Meta["request_id"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotEqual(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDefault_Cors(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://hr.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://hr.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDefault_RateLimit(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, 2)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Real-IP", "10.0.0.7")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
