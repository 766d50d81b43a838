package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/iota-uz/ipr/internal/server"
	"github.com/iota-uz/ipr/modules"
	"github.com/iota-uz/ipr/modules/ipr"
	"github.com/iota-uz/ipr/modules/ipr/presentation/controllers"
	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/configuration"
	"github.com/iota-uz/ipr/pkg/logging"
	"github.com/iota-uz/ipr/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	app := application.New(&application.ApplicationOptions{
		Bundle:             application.LoadBundle(),
		Logger:             logger,
		SupportedLanguages: conf.IPR.SupportedLanguages,
		DefaultLanguage:    conf.IPR.DefaultLanguage,
	})
	iprModule := ipr.NewModule(&ipr.ModuleOptions{
		MatrixPath:    conf.IPR.MatrixPath,
		MaxUploadSize: conf.MaxUploadSize,
	})
	if err := modules.Load(app, iprModule); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	app.RegisterControllers(
		controllers.NewStaticFilesController(app.HashFsAssets(), conf.GoAppEnvironment == configuration.Production),
	)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path, metrics.WithLogger(logger)))
	}
	options := &server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Entrypoint:    "/ipr",
	}
	serverInstance, err := server.Default(options)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(ctx, conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
