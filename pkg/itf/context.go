package itf

import (
	"context"
	"testing"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/composables"
	"github.com/iota-uz/ipr/pkg/intl"
	"github.com/iota-uz/ipr/pkg/logging"
)

// TestContext provides a fluent API for building test contexts
type TestContext struct {
	ctx                context.Context
	modules            []application.Module
	language           string
	supportedLanguages []string
	logLevel           logrus.Level
}

// NewTestContext creates a new TestContext builder
func NewTestContext() *TestContext {
	return &TestContext{
		ctx:      context.Background(),
		modules:  []application.Module{},
		language: "en",
		logLevel: logrus.WarnLevel,
	}
}

// WithModules adds modules to the test context
func (tc *TestContext) WithModules(modules ...application.Module) *TestContext {
	tc.modules = append(tc.modules, modules...)
	return tc
}

// WithLanguage sets the language of the context localizer.
func (tc *TestContext) WithLanguage(code string) *TestContext {
	tc.language = code
	return tc
}

// WithSupportedLanguages restricts the languages the application negotiates.
func (tc *TestContext) WithSupportedLanguages(codes ...string) *TestContext {
	tc.supportedLanguages = codes
	return tc
}

func (tc *TestContext) WithLogLevel(level logrus.Level) *TestContext {
	tc.logLevel = level
	return tc
}

// Build creates the application, registers the modules and returns the test environment.
func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()

	logger := logging.ConsoleLogger(tc.logLevel)
	app := application.New(&application.ApplicationOptions{
		Logger:             logger,
		Bundle:             application.LoadBundle(),
		SupportedLanguages: tc.supportedLanguages,
	})
	for _, module := range tc.modules {
		if err := module.Register(app); err != nil {
			tb.Fatalf("register module %s: %v", module.Name(), err)
		}
	}

	tag, err := language.Parse(tc.language)
	if err != nil {
		tb.Fatalf("parse language %q: %v", tc.language, err)
	}
	localizer := i18n.NewLocalizer(app.Bundle(), tag.String())

	ctx := tc.ctx
	ctx = composables.WithParams(ctx, DefaultParams())
	ctx = composables.WithLogger(ctx, logrus.NewEntry(logger))
	ctx = intl.WithLocalizer(ctx, localizer)
	ctx = intl.WithLocale(ctx, tag)

	return &TestEnvironment{
		Ctx:       ctx,
		App:       app,
		Localizer: localizer,
		Logger:    logger,
	}
}

// TestEnvironment contains all test dependencies
type TestEnvironment struct {
	Ctx       context.Context
	App       application.Application
	Localizer *i18n.Localizer
	Logger    *logrus.Logger
}

// Service retrieves a service from the application
func (te *TestEnvironment) Service(service interface{}) interface{} {
	return te.App.Service(service)
}

// GetService is a generic helper that retrieves and casts a service
func GetService[T any](te *TestEnvironment) *T {
	var zero T
	service := te.App.Service(zero)
	if service == nil {
		return nil
	}
	return service.(*T)
}

// T translates messageID with the environment localizer.
func (te *TestEnvironment) T(messageID string) string {
	return intl.Translate(te.Localizer, messageID)
}

// AssertNoError fails the test if err is not nil
func (te *TestEnvironment) AssertNoError(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatal(err)
	}
}

func DefaultParams() *composables.Params {
	return &composables.Params{
		IP:        "127.0.0.1",
		UserAgent: "itf",
	}
}
