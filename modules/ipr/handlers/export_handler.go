package handlers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/composables"
)

const noTarget = "none"

var exportedDocuments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ipr",
	Subsystem: "documents",
	Name:      "exported_total",
	Help:      "Number of exported plan documents broken down by target level.",
}, []string{"target_level"})

// ExportEventsHandler keeps an audit trail of exported plans.
type ExportEventsHandler struct{}

func RegisterExportEventHandlers(app application.Application) *ExportEventsHandler {
	handler := &ExportEventsHandler{}
	app.EventPublisher().Subscribe(handler.onPlanExported)
	return handler
}

func (h *ExportEventsHandler) onPlanExported(ctx context.Context, event plan.ExportedEvent) {
	target := event.TargetLevel.String()
	if target == "" {
		target = noTarget
	}
	exportedDocuments.WithLabelValues(target).Inc()

	fields := logrus.Fields{
		"file":          event.FileName,
		"current_level": event.CurrentLevel.String(),
		"target_level":  target,
		"bytes":         event.Bytes,
		"exported_at":   event.At,
	}
	if ip, ok := composables.UseIP(ctx); ok {
		fields["ip"] = ip
	}
	composables.UseLogger(ctx).WithFields(fields).Info("plan document exported")
}
