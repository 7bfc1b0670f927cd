package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/covid/reshape"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgerror"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkguid"
)

// MaxCompareCountries bounds a single comparison request.
const MaxCompareCountries = 50

// Store caches loaded tables per URL. Writes carry the generation their load
// began at and fail with pkgerror.ErrStale after an invalidation.
type Store interface {
	Generation(ctx context.Context, url string) (uint64, error)
	Begin(ctx context.Context, meta entity.DatasetMeta) error
	Save(ctx context.Context, url string, generation uint64, table entity.Table, fn func(meta *entity.DatasetMeta)) error
	UpdateMeta(ctx context.Context, url string, generation uint64, fn func(meta *entity.DatasetMeta)) error
	Get(ctx context.Context, url string) (entity.Table, entity.DatasetMeta, error)
	List(ctx context.Context) ([]entity.DatasetMeta, error)
	Invalidate(ctx context.Context, url string) error
	InvalidateAll(ctx context.Context) error
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.RefreshEvent) error
}

type Runner interface {
	Go(ctx context.Context, name string, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store   Store
	Fetcher Fetcher
	Events  EventPublisher
	Runner  Runner
	Clock   Clock
	ID      pkguid.StringID
	EventID pkguid.NumberID
	RootCtx context.Context

	// Sources maps each metric to the URL of its time series CSV.
	Sources map[entity.Metric]string
	Schema  entity.Schema
	// Aliases renames countries at load time ("Mainland China" -> "China").
	Aliases map[string]string
}

type Usecase struct {
	store   Store
	fetcher Fetcher
	events  EventPublisher
	runner  Runner
	clock   Clock
	id      pkguid.StringID
	eventID pkguid.NumberID
	rootCtx context.Context

	sources map[entity.Metric]string
	schema  entity.Schema
	aliases map[string]string

	group singleflight.Group
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	schema := dep.Schema
	if schema.Country == "" {
		schema = entity.DefaultSchema()
	}

	id := dep.ID
	if id == nil {
		id = pkguid.NewUUID()
	}

	return &Usecase{
		store:   dep.Store,
		fetcher: dep.Fetcher,
		events:  dep.Events,
		runner:  dep.Runner,
		clock:   clock,
		id:      id,
		eventID: dep.EventID,
		rootCtx: root,
		sources: dep.Sources,
		schema:  schema,
		aliases: dep.Aliases,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Load returns the table behind url, fetching and parsing it on first use.
//
// Results are memoized per URL until invalidated. Concurrent loads of the same
// URL and generation share one fetch; a caller whose ctx ends stops waiting
// without cancelling the shared fetch. A load that starts after an
// invalidation never joins a fetch from before it. Failed loads are not
// cached, so the next call fetches again. There is no retry inside Load.
func (u *Usecase) Load(ctx context.Context, url string) (entity.Table, error) {
	if u.store == nil || u.fetcher == nil {
		return entity.Table{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	table, _, err := u.store.Get(ctx, url)
	if err == nil {
		return table, nil
	}
	if !errors.Is(err, pkgerror.ErrNotFound) {
		return entity.Table{}, normalizeErr(err)
	}

	gen, err := u.store.Generation(ctx, url)
	if err != nil {
		return entity.Table{}, normalizeErr(err)
	}

	key := url + "@" + strconv.FormatUint(gen, 10)
	ch := u.group.DoChan(key, func() (any, error) {
		// a flight that finished between Get and DoChan already stored it
		if table, _, err := u.store.Get(ctx, url); err == nil {
			return table, nil
		}
		return u.fetchAndStore(context.WithoutCancel(ctx), url, gen)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return entity.Table{}, normalizeErr(res.Err)
		}
		return res.Val.(entity.Table), nil
	case <-ctx.Done():
		return entity.Table{}, pkgerror.NewBusiness("dataset load timed out", pkgerror.CodeTimeout)
	}
}

// fetchAndStore loads url for generation gen. When the URL is invalidated
// meanwhile the table is still returned to the callers of this flight but
// is not cached.
func (u *Usecase) fetchAndStore(ctx context.Context, url string, gen uint64) (entity.Table, error) {
	meta := entity.DatasetMeta{
		ID:         u.id.Generate(),
		Metric:     u.metricOf(url),
		URL:        url,
		Status:     entity.DatasetStatusLoading,
		StartedAt:  u.clock.Now().Unix(),
		Generation: gen,
	}
	if err := u.store.Begin(ctx, meta); err != nil && !errors.Is(err, pkgerror.ErrStale) {
		return entity.Table{}, err
	}

	table, err := u.fetchTable(ctx, url)
	endedAt := u.clock.Now().Unix()
	if err != nil {
		slog.ErrorContext(ctx, "dataset load failed", "dataset_id", meta.ID, "url", url, "error", err)
		metaErr := u.store.UpdateMeta(ctx, url, gen, func(m *entity.DatasetMeta) {
			m.Status = entity.DatasetStatusFailed
			m.Err = err.Error()
			m.EndedAt = endedAt
		})
		if metaErr != nil && !errors.Is(metaErr, pkgerror.ErrStale) {
			slog.WarnContext(ctx, "failed to record dataset failure", "dataset_id", meta.ID, "error", metaErr)
		}
		return entity.Table{}, err
	}

	err = u.store.Save(ctx, url, gen, table, func(m *entity.DatasetMeta) {
		m.Status = entity.DatasetStatusReady
		m.Err = ""
		m.EndedAt = endedAt
		m.Rows = len(table.Rows)
		m.Dates = len(table.Dates)
	})
	switch {
	case errors.Is(err, pkgerror.ErrStale):
		slog.InfoContext(ctx, "dataset invalidated during load, result not cached", "dataset_id", meta.ID, "url", url)
		return table, nil
	case err != nil:
		return entity.Table{}, err
	}

	slog.InfoContext(ctx, "dataset loaded",
		"dataset_id", meta.ID,
		"metric", meta.Metric,
		"rows", len(table.Rows),
		"dates", len(table.Dates),
	)

	return table, nil
}

func (u *Usecase) fetchTable(ctx context.Context, url string) (entity.Table, error) {
	body, err := u.fetcher.Fetch(ctx, url)
	if err != nil {
		var perr *pkgerror.Error
		if errors.As(err, &perr) {
			return entity.Table{}, err
		}
		return entity.Table{}, pkgerror.NewFetch(err)
	}
	defer func() {
		_ = body.Close()
	}()

	return parseTable(ctx, body, u.schema, u.aliases)
}

func (u *Usecase) metricOf(url string) entity.Metric {
	for metric, src := range u.sources {
		if src == url {
			return metric
		}
	}
	return ""
}

func (u *Usecase) configuredMetrics() []entity.Metric {
	metrics := make([]entity.Metric, 0, len(u.sources))
	for _, metric := range entity.Metrics() {
		if _, ok := u.sources[metric]; ok {
			metrics = append(metrics, metric)
		}
	}
	return metrics
}

func (u *Usecase) sourceOf(metric entity.Metric) (string, error) {
	url, ok := u.sources[metric]
	if !ok || url == "" {
		return "", pkgerror.NewBusiness(fmt.Sprintf("no source configured for metric %s", metric), pkgerror.CodeNotFound)
	}
	return url, nil
}

func (u *Usecase) loadMetric(ctx context.Context, metric entity.Metric) (entity.Table, error) {
	url, err := u.sourceOf(metric)
	if err != nil {
		return entity.Table{}, err
	}
	return u.Load(ctx, url)
}

// Countries lists the sorted country labels present in metric's dataset.
func (u *Usecase) Countries(ctx context.Context, metric entity.Metric) ([]string, error) {
	table, err := u.loadMetric(ctx, metric)
	if err != nil {
		return nil, err
	}
	return reshape.Countries(table), nil
}

func (u *Usecase) TopCountries(ctx context.Context, metric entity.Metric, n int) (TopResult, error) {
	table, err := u.loadMetric(ctx, metric)
	if err != nil {
		return TopResult{}, err
	}

	return TopResult{
		Metric:    metric,
		Date:      lastDate(table),
		Countries: reshape.TopRanking(table, n),
	}, nil
}

func (u *Usecase) Series(ctx context.Context, metric entity.Metric, country string) (SeriesResult, error) {
	if country == "" {
		return SeriesResult{}, pkgerror.NewInvalidInput(errors.New("country is required"))
	}

	table, err := u.loadMetric(ctx, metric)
	if err != nil {
		return SeriesResult{}, err
	}

	return SeriesResult{
		Metric:  metric,
		Country: country,
		Series:  reshape.SeriesFor(table, country),
	}, nil
}

func (u *Usecase) Compare(ctx context.Context, metric entity.Metric, countries []string) (CompareResult, error) {
	if len(countries) == 0 {
		return CompareResult{}, pkgerror.NewInvalidInput(errors.New("at least one country is required"))
	}
	if len(countries) > MaxCompareCountries {
		return CompareResult{}, pkgerror.NewInvalidInput(fmt.Errorf("at most %d countries can be compared", MaxCompareCountries))
	}

	table, err := u.loadMetric(ctx, metric)
	if err != nil {
		return CompareResult{}, err
	}

	return CompareResult{
		Metric: metric,
		Series: reshape.Assemble(table, countries),
	}, nil
}

// Overview returns every configured metric's series for one country, the
// confirmed/deaths/recovered chart of a single country.
func (u *Usecase) Overview(ctx context.Context, country string) (CompareResult, error) {
	if country == "" {
		return CompareResult{}, pkgerror.NewInvalidInput(errors.New("country is required"))
	}

	metrics := u.configuredMetrics()
	tables, err := u.loadMetrics(ctx, metrics...)
	if err != nil {
		return CompareResult{}, err
	}

	out := entity.NewSeriesCollection()
	for i, metric := range metrics {
		out.Set(string(metric), reshape.SeriesFor(tables[i], country))
	}

	return CompareResult{Country: country, Series: out}, nil
}

func (u *Usecase) Mortality(ctx context.Context) ([]entity.MortalityRow, error) {
	confirmed, deaths, err := u.confirmedAndDeaths(ctx)
	if err != nil {
		return nil, err
	}
	return reshape.Mortality(confirmed, deaths)
}

func (u *Usecase) MortalityAt(ctx context.Context, country string) (entity.CountryMortality, error) {
	if country == "" {
		return entity.CountryMortality{}, pkgerror.NewInvalidInput(errors.New("country is required"))
	}

	confirmed, deaths, err := u.confirmedAndDeaths(ctx)
	if err != nil {
		return entity.CountryMortality{}, err
	}
	return reshape.MortalityAt(country, confirmed, deaths)
}

func (u *Usecase) confirmedAndDeaths(ctx context.Context) (entity.Table, entity.Table, error) {
	tables, err := u.loadMetrics(ctx, entity.MetricConfirmed, entity.MetricDeaths)
	if err != nil {
		return entity.Table{}, entity.Table{}, err
	}
	return tables[0], tables[1], nil
}

// loadMetrics loads the tables of metrics concurrently, in argument order.
func (u *Usecase) loadMetrics(ctx context.Context, metrics ...entity.Metric) ([]entity.Table, error) {
	urls := make([]string, len(metrics))
	for i, metric := range metrics {
		url, err := u.sourceOf(metric)
		if err != nil {
			return nil, err
		}
		urls[i] = url
	}

	tables := make([]entity.Table, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			table, err := u.Load(gctx, url)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (u *Usecase) Datasets(ctx context.Context) ([]entity.DatasetMeta, error) {
	metas, err := u.store.List(ctx)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return metas, nil
}

// Refresh drops the cached tables of metrics and schedules their reload.
// Without metrics every configured source is refreshed. All sources are
// resolved before anything is invalidated. When an event bus is configured
// the reload goes through it; otherwise it runs on the runner.
func (u *Usecase) Refresh(ctx context.Context, metrics []entity.Metric) (RefreshResult, error) {
	if len(metrics) == 0 {
		metrics = u.configuredMetrics()
	}

	urls := make([]string, len(metrics))
	for i, metric := range metrics {
		url, err := u.sourceOf(metric)
		if err != nil {
			return RefreshResult{}, err
		}
		urls[i] = url
	}

	result := RefreshResult{Scheduled: make([]entity.RefreshEvent, 0, len(metrics))}
	for i, metric := range metrics {
		url := urls[i]
		if err := u.store.Invalidate(ctx, url); err != nil {
			return RefreshResult{}, normalizeErr(err)
		}

		event := entity.RefreshEvent{Metric: metric, URL: url}
		if u.eventID != nil {
			event.EventID = strconv.FormatInt(u.eventID.Generate(), 10)
		} else {
			event.EventID = u.id.Generate()
		}

		if u.events != nil {
			if err := u.events.Publish(ctx, event); err != nil {
				return RefreshResult{}, pkgerror.NewServer(err)
			}
		} else if u.runner != nil {
			u.runner.Go(u.rootCtx, "refresh "+string(metric), func(ctx context.Context) error {
				return u.Handle(ctx, event)
			})
		}

		result.Scheduled = append(result.Scheduled, event)
	}

	return result, nil
}

// Handle reloads the dataset named by a refresh event.
func (u *Usecase) Handle(ctx context.Context, event entity.RefreshEvent) error {
	if event.URL == "" {
		return errors.New("refresh event without url")
	}

	_, err := u.Load(ctx, event.URL)
	return err
}

// Warmup schedules a load of every configured source so the first request
// does not pay for the fetch.
func (u *Usecase) Warmup(ctx context.Context) error {
	metrics := u.configuredMetrics()
	if len(metrics) == 0 {
		return nil
	}

	_, err := u.Refresh(ctx, metrics)
	return err
}

// InvalidateAll drops every cached table.
func (u *Usecase) InvalidateAll(ctx context.Context) error {
	return u.store.InvalidateAll(ctx)
}

func lastDate(t entity.Table) string {
	if len(t.Dates) == 0 {
		return ""
	}
	return t.Dates[len(t.Dates)-1]
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return pkgerror.NewBusiness("dataset load timed out", pkgerror.CodeTimeout)
	}
	return pkgerror.NewServer(err)
}
