package covid

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/covid/event"
	"github.com/thomasXwang/covid-visualizer/internal/covid/inbound"
	"github.com/thomasXwang/covid-visualizer/internal/covid/outbound"
	"github.com/thomasXwang/covid-visualizer/internal/covid/store"
	"github.com/thomasXwang/covid-visualizer/internal/covid/usecase"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgconfig"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgrouter"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgroutine"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID

	// Fetcher overrides the configured HTTP fetcher.
	Fetcher usecase.Fetcher
}

// New wires the covid module into the router and returns its closer.
func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Router == nil {
		return nil, errors.New("covid: router is required")
	}

	cfg := dep.Config
	bus := event.NewBus(int(cfg.GetInt("modules.covid.refresh.buffer")))

	uc, err := newUsecase(dep, bus)
	if err != nil {
		return nil, err
	}

	consumer := event.NewRefreshConsumer(bus, uc, event.ConsumerConfig{
		Workers:     int(cfg.GetInt("modules.covid.refresh.workers")),
		MaxRetries:  int(cfg.GetInt("modules.covid.refresh.max_retries")),
		BaseBackoff: cfg.GetDuration("modules.covid.refresh.base_backoff"),
	})
	consumer.Start()

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	cfg.OnChange(func() {
		ctx := context.WithoutCancel(dep.Context)
		if err := uc.InvalidateAll(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to invalidate datasets", "error", err)
			return
		}
		if err := uc.Warmup(ctx); err != nil {
			slog.WarnContext(ctx, "failed to schedule dataset reload", "error", err)
		}
	})

	if cfg.GetBool("modules.covid.warmup") {
		if err := uc.Warmup(dep.Context); err != nil {
			slog.WarnContext(dep.Context, "failed to schedule warmup", "error", err)
		}
	}

	return consumer.Stop, nil
}

// NewUsecase builds the query use cases without HTTP or event wiring. Refreshes
// run on dep.Goroutine.
func NewUsecase(dep Dependency) (*usecase.Usecase, error) {
	return newUsecase(dep, nil)
}

func newUsecase(dep Dependency, events usecase.EventPublisher) (*usecase.Usecase, error) {
	cfg := dep.Config
	if cfg == nil {
		return nil, errors.New("covid: config is required")
	}
	if dep.Context == nil {
		dep.Context = context.Background()
	}
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	sources := Sources(cfg)
	if len(sources) == 0 {
		return nil, errors.New("covid: no dataset source configured")
	}

	eventID, err := pkguid.NewSnowflake(cfg.GetInt("modules.covid.snowflake.node"))
	if err != nil {
		return nil, err
	}

	fetcher := dep.Fetcher
	if fetcher == nil {
		fetcher = outbound.NewHTTPFetcher(outbound.FetcherConfig{
			Timeout:   cfg.GetDuration("modules.covid.fetch.timeout"),
			UserAgent: cfg.GetString("modules.covid.fetch.user_agent"),
		})
	}

	ucDep := usecase.Dependency{
		Store:   store.NewInMemoryStore(),
		Fetcher: fetcher,
		ID:      dep.ID,
		EventID: eventID,
		RootCtx: dep.Context,
		Sources: sources,
		Schema:  Schema(cfg),
		Aliases: cfg.GetMap("modules.covid.aliases"),
	}
	if events != nil {
		ucDep.Events = events
	}
	if dep.Goroutine != nil {
		ucDep.Runner = dep.Goroutine
	}

	return usecase.New(ucDep), nil
}

// Sources reads the configured URL of every metric, skipping blank ones.
func Sources(cfg pkgconfig.Config) map[entity.Metric]string {
	out := make(map[entity.Metric]string)
	for _, metric := range entity.Metrics() {
		if url := strings.TrimSpace(cfg.GetString("modules.covid.sources." + string(metric))); url != "" {
			out[metric] = url
		}
	}
	return out
}

// Schema reads the identifying column names, falling back to the JHU headers.
func Schema(cfg pkgconfig.Config) entity.Schema {
	schema := entity.DefaultSchema()
	if v := cfg.GetString("modules.covid.schema.province"); v != "" {
		schema.Province = v
	}
	if v := cfg.GetString("modules.covid.schema.country"); v != "" {
		schema.Country = v
	}
	if v := cfg.GetString("modules.covid.schema.lat"); v != "" {
		schema.Lat = v
	}
	if v := cfg.GetString("modules.covid.schema.long"); v != "" {
		schema.Long = v
	}
	return schema
}
