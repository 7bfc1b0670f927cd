package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/thomasXwang/covid-visualizer/internal/covid"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.covid.enabled") {
		closer, err := covid.New(covid.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
		})
		if err != nil {
			slog.Error("failed to init module covid", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Covid"] = closer
		}
	}
}
