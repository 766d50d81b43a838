package application

import (
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type stubController struct {
	key string
}

func (c *stubController) Key() string          { return c.key }
func (c *stubController) Register(*mux.Router) {}

type stubService struct {
	name string
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	require.Equal(t, []string{"en", "ru"}, app.GetSupportedLanguages())
	require.Equal(t, "en", app.DefaultLanguage())
	require.NotNil(t, app.Bundle())
	require.NotNil(t, app.Logger())
	require.NotNil(t, app.EventPublisher())
}

func TestRegisterControllers_KeepsOrderAndReplacesByKey(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	first := &stubController{key: "/b"}
	app.RegisterControllers(first, &stubController{key: "/a"})
	replacement := &stubController{key: "/b"}
	app.RegisterControllers(replacement)

	got := app.Controllers()
	require.Len(t, got, 2)
	require.Same(t, replacement, got[0])
	require.Equal(t, "/a", got[1].Key())
}

func TestService_LooksUpByType(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	svc := &stubService{name: "plans"}
	app.RegisterServices(svc)

	got, ok := app.Service(stubService{}).(*stubService)
	require.True(t, ok)
	require.Equal(t, "plans", got.name)
	require.Panics(t, func() { app.Service(stubController{}) })
}
