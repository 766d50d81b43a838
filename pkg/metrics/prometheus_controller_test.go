package metrics

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type failingCollector struct {
	desc *prometheus.Desc
}

func (c failingCollector) Describe(ch chan<- *prometheus.Desc) { ch <- c.desc }

func (c failingCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.NewInvalidMetric(c.desc, errors.New("matrix unavailable"))
}

func serve(t *testing.T, c *PrometheusController) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	c.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, c.Key(), nil))
	return rec
}

func TestPrometheusController_DefaultRegistry(t *testing.T) {
	t.Parallel()

	c := NewPrometheusController("").(*PrometheusController)
	require.Equal(t, DefaultPath, c.Key())

	rec := serve(t, c)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPrometheusController_CustomRegistry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	exports := prometheus.NewCounter(prometheus.CounterOpts{Name: "ipr_test_exports_total", Help: "test"})
	reg.MustRegister(exports)
	exports.Add(2)

	c := NewPrometheusController("/metrics", WithRegistry(reg)).(*PrometheusController)
	rec := serve(t, c)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "ipr_test_exports_total 2")
	require.NotContains(t, body, "go_goroutines")

	rec = serve(t, c)
	require.Contains(t, rec.Body.String(), `promhttp_metric_handler_requests_total{code="200"} 1`)
}

func TestPrometheusController_ContinuesOnCollectorError(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	ok := prometheus.NewGauge(prometheus.GaugeOpts{Name: "ipr_test_up", Help: "test"})
	ok.Set(1)
	reg.MustRegister(ok, failingCollector{
		desc: prometheus.NewDesc("ipr_test_broken", "test", nil, nil),
	})

	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)

	rec := serve(t, NewPrometheusController("", WithRegistry(reg), WithLogger(logger)).(*PrometheusController))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ipr_test_up 1")
	require.Contains(t, logs.String(), "matrix unavailable")
}
