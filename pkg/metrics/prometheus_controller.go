package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/ipr/pkg/application"
)

const DefaultPath = "/debug/prometheus"

type Option func(*PrometheusController)

// WithRegistry serves reg instead of the default registry, e.g. in tests.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *PrometheusController) {
		c.registerer = reg
		c.gatherer = reg
	}
}

// WithLogger reports collection errors through logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *PrometheusController) {
		c.logger = logger
	}
}

type PrometheusController struct {
	path       string
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	logger     *logrus.Logger
}

func NewPrometheusController(path string, opts ...Option) application.Controller {
	if path == "" {
		path = DefaultPath
	}
	c := &PrometheusController{
		path:       path,
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, c.handler()).Methods(http.MethodGet)
}

// handler keeps serving the metrics that could be collected when one
// collector fails.
func (c *PrometheusController) handler() http.Handler {
	opts := promhttp.HandlerOpts{
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	}
	if c.logger != nil {
		opts.ErrorLog = c.logger.WithField("component", "metrics")
	}
	return promhttp.InstrumentMetricHandler(c.registerer, promhttp.HandlerFor(c.gatherer, opts))
}
