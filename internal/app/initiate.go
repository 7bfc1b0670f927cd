package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkglog"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgrouter"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgroutine"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkguid"
)

const httpServerCloser = "HTTP Server"

func (a *App) initConfig(path string) {
	pkglog.InitLogging(ServiceName, slog.LevelInfo)

	cfg, err := LoadConfig(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	pkglog.InitLogging(ServiceName, pkglog.ParseLevel(cfg.GetString("log.level")))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid, ServiceName)
	a.router.Use(pkgrouter.Timeout(a.config.GetDuration("server.request_timeout")))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn[httpServerCloser] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
