package ipr

import (
	"embed"

	"github.com/iota-uz/ipr/modules/ipr/handlers"
	"github.com/iota-uz/ipr/modules/ipr/infrastructure/matrix"
	"github.com/iota-uz/ipr/modules/ipr/presentation/assets"
	"github.com/iota-uz/ipr/modules/ipr/presentation/controllers"
	"github.com/iota-uz/ipr/modules/ipr/services"
	"github.com/iota-uz/ipr/pkg/application"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

const defaultMaxUploadSize = 10 << 20

type ModuleOptions struct {
	// MatrixPath points to a competency table YAML file. Empty uses the embedded table.
	MatrixPath    string
	MaxUploadSize int64
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{
		options: opts,
	}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	table, err := matrix.Load(m.options.MatrixPath)
	if err != nil {
		return err
	}
	maxUpload := m.options.MaxUploadSize
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadSize
	}

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterHashFsAssets(assets.HashFS)
	app.RegisterServices(
		services.NewPlanService(table),
		services.NewDocumentService(app.EventPublisher()),
	)
	handlers.RegisterExportEventHandlers(app)
	app.RegisterControllers(
		controllers.NewIPRController(app),
		controllers.NewIPRAPIController(app, maxUpload),
	)
	return nil
}

func (m *Module) Name() string {
	return "ipr"
}
