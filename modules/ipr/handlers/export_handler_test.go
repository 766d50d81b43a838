package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/composables"
)

func TestExportEventsHandler_LogsExports(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	app := application.New(&application.ApplicationOptions{Logger: logger})
	RegisterExportEventHandlers(app)
	require.Equal(t, 1, app.EventPublisher().SubscribersCount())

	ctx := composables.WithLogger(context.Background(), logrus.NewEntry(logger))
	ctx = composables.WithParams(ctx, &composables.Params{IP: "10.0.0.7"})
	state := plan.New().WithName("Ann")
	event := plan.NewExportedEvent(state, "IPR_Ann_unknown.docx", 2048, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	before := testutil.ToFloat64(exportedDocuments.WithLabelValues(noTarget))
	app.EventPublisher().Publish(ctx, event)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "plan document exported", entry["msg"])
	require.Equal(t, "IPR_Ann_unknown.docx", entry["file"])
	require.Equal(t, "none", entry["target_level"])
	require.Equal(t, "10.0.0.7", entry["ip"])
	require.InDelta(t, 2048, entry["bytes"], 0)
	require.InDelta(t, before+1, testutil.ToFloat64(exportedDocuments.WithLabelValues(noTarget)), 0)
}

func TestExportEventsHandler_CountsByTargetLevel(t *testing.T) {
	app := application.New(&application.ApplicationOptions{Logger: logrus.New()})
	RegisterExportEventHandlers(app)

	before := testutil.ToFloat64(exportedDocuments.WithLabelValues(string(competency.LevelMiddleEqual)))
	app.EventPublisher().Publish(context.Background(), plan.ExportedEvent{
		FileName:    "IPR_Bob_middleEqual.docx",
		TargetLevel: competency.LevelMiddleEqual,
	})
	require.InDelta(t, before+1, testutil.ToFloat64(exportedDocuments.WithLabelValues(string(competency.LevelMiddleEqual))), 0)
}
