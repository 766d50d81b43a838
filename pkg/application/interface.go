package application

import (
	"embed"
	"reflect"

	"github.com/benbjohnson/hashfs"
	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/ipr/pkg/eventbus"
)

// Application with a dynamically extendable service registry
type Application interface {
	Logger() *logrus.Logger
	Bundle() *i18n.Bundle
	GetSupportedLanguages() []string
	DefaultLanguage() string
	EventPublisher() eventbus.EventBus

	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	HashFsAssets() []*hashfs.FS
	Assets() []*embed.FS
	Services() map[reflect.Type]interface{}
	Service(service interface{}) interface{}

	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterHashFsAssets(fs ...*hashfs.FS)
	RegisterAssets(fs ...*embed.FS)
	RegisterLocaleFiles(fs ...*embed.FS)
	RegisterServices(services ...interface{})
}

type Controller interface {
	Register(r *mux.Router)
	Key() string
}

type Module interface {
	Name() string
	Register(app Application) error
}
