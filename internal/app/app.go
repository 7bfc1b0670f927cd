package app

import (
	"context"
	"net/http"
	"time"

	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgconfig"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgrouter"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgroutine"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

// New builds the application from the configuration file at configPath.
func New(configPath string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig(configPath)
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}

// ShutdownTimeout is how long Stop may take, from server.shutdown_timeout.
func (a *App) ShutdownTimeout() time.Duration {
	return a.config.GetDuration("server.shutdown_timeout")
}
