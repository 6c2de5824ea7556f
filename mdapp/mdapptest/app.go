// Package mdapptest provides test helpers for mdapp applications.
//
// It constructs the identical DI graph as [mdapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	mdapptest.SetEnv(t, 18081).DocumentRoot(dir)
//	app := mdapptest.New(t)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package mdapptest

import (
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/advdv/mdserve/mdapp"
)

// App embeds *fxtest.App for testing mdapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [mdapp.NewApp].
func New(t testing.TB, opts ...mdapp.Option) *App {
	return &App{App: fxtest.New(t, mdapp.FxOptions(opts...)...)}
}
