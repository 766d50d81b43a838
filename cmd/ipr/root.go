package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/go-faster/errors"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/iota-uz/ipr/modules"
	"github.com/iota-uz/ipr/modules/ipr"
	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/modules/ipr/services"
	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/composables"
	"github.com/iota-uz/ipr/pkg/configuration"
	"github.com/iota-uz/ipr/pkg/intl"
	"github.com/iota-uz/ipr/pkg/logging"
)

var supportedLanguages = []string{"en", "ru"}

type globalOptions struct {
	lang       string
	matrixPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "ipr",
		Short:         "Individual development plan documents from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "en", "Document language (en|ru)")
	cmd.PersistentFlags().StringVar(&opts.matrixPath, "matrix", "", "Competency table YAML file (defaults to the built-in table)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Log level (silent|error|warn|info|debug)")

	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newPreviewCmd(opts))
	cmd.AddCommand(newLevelsCmd(opts))
	cmd.AddCommand(newMatrixCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

// runtime is the application wired for a single command invocation.
type runtime struct {
	ctx       context.Context
	plans     *services.PlanService
	documents *services.DocumentService
	localizer *i18n.Localizer
}

func (o *globalOptions) load(ctx context.Context) (*runtime, error) {
	tag, err := language.Parse(o.lang)
	if err != nil || !slices.Contains(supportedLanguages, tag.String()) {
		return nil, withCode(exitUsage, errors.Errorf("invalid --lang %q (expected en|ru)", o.lang))
	}

	logger := logging.ConsoleLogger(configuration.ParseLogLevel(o.logLevel))
	app := application.New(&application.ApplicationOptions{
		Logger:             logger,
		Bundle:             application.LoadBundle(),
		SupportedLanguages: supportedLanguages,
		DefaultLanguage:    tag.String(),
	})
	if err := modules.Load(app, ipr.NewModule(&ipr.ModuleOptions{MatrixPath: o.matrixPath})); err != nil {
		return nil, withCode(exitUsage, errors.Wrap(err, "load competency table"))
	}

	localizer := i18n.NewLocalizer(app.Bundle(), tag.String())
	ctx = composables.WithLogger(ctx, logrus.NewEntry(logger))
	ctx = intl.WithLocalizer(ctx, localizer)
	ctx = intl.WithLocale(ctx, tag)

	return &runtime{
		ctx:       ctx,
		plans:     app.Service(services.PlanService{}).(*services.PlanService),
		documents: app.Service(services.DocumentService{}).(*services.DocumentService),
		localizer: localizer,
	}, nil
}

func (r *runtime) translate() plan.Translator {
	return intl.Translator(r.localizer)
}

func (r *runtime) period() plan.PeriodFormatter {
	return intl.PluralFormatter(r.localizer, plan.KeyPeriodMonths)
}
