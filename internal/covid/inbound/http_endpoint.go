package inbound

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/covid/usecase"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgerror"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgrouter"
)

const (
	defaultTopN = 10
	maxTopN     = 200
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Countries(ctx context.Context, r *http.Request) (any, error) {
	metric, err := parseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		return nil, err
	}

	countries, err := h.uc.Countries(ctx, metric)
	if err != nil {
		return nil, err
	}

	return CountriesResponse{Metric: metric, Countries: countries}, nil
}

func (h *HTTPEndpoint) TopCountries(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()
	metric, err := parseMetric(query.Get("metric"))
	if err != nil {
		return nil, err
	}

	n, err := parseTopN(query.Get("n"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.TopCountries(ctx, metric, n)
	if err != nil {
		return nil, err
	}

	countries := make([]RankedCountry, 0, len(result.Countries))
	for _, c := range result.Countries {
		countries = append(countries, RankedCountry{Country: c.Country, Latest: c.Latest})
	}

	return TopCountriesResponse{
		Metric:    result.Metric,
		Date:      result.Date,
		Countries: countries,
	}, nil
}

func (h *HTTPEndpoint) Series(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()
	metric, err := parseMetric(query.Get("metric"))
	if err != nil {
		return nil, err
	}

	country := strings.TrimSpace(query.Get("country"))
	if country == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("country is required"))
	}

	result, err := h.uc.Series(ctx, metric, country)
	if err != nil {
		return nil, err
	}

	return SeriesResponse{
		Metric:  result.Metric,
		Country: result.Country,
		Series:  toHTTPSeries(result.Series),
	}, nil
}

func (h *HTTPEndpoint) Compare(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()
	metric, err := parseMetric(query.Get("metric"))
	if err != nil {
		return nil, err
	}

	countries := countryList(query["country"], query.Get("countries"))
	if len(countries) == 0 {
		return nil, pkgerror.NewInvalidInput(errors.New("countries is required"))
	}

	result, err := h.uc.Compare(ctx, metric, countries)
	if err != nil {
		return nil, err
	}

	return toCompareResponse(result), nil
}

func (h *HTTPEndpoint) Overview(ctx context.Context, r *http.Request) (any, error) {
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	if country == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("country is required"))
	}

	result, err := h.uc.Overview(ctx, country)
	if err != nil {
		return nil, err
	}

	return toCompareResponse(result), nil
}

func (h *HTTPEndpoint) Mortality(ctx context.Context, _ *http.Request) (any, error) {
	rows, err := h.uc.Mortality(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MortalityRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, MortalityRow{
			Province:  row.Province,
			Country:   row.Country,
			Lat:       row.Lat,
			Long:      row.Long,
			Confirmed: row.Confirmed,
			Deaths:    row.Deaths,
			Ratio:     row.Ratio,
		})
	}

	return MortalityResponse{Rows: out}, nil
}

func (h *HTTPEndpoint) MortalityAt(ctx context.Context, _ *http.Request) (any, error) {
	country := strings.TrimSpace(pkgrouter.GetParam(ctx, "country"))
	if country == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("country is required"))
	}

	result, err := h.uc.MortalityAt(ctx, country)
	if err != nil {
		return nil, err
	}

	return CountryMortalityResponse{
		Country:   result.Country,
		Ratio:     result.Ratio,
		Confirmed: toHTTPSeries(result.Confirmed),
		Deaths:    toHTTPSeries(result.Deaths),
	}, nil
}

func (h *HTTPEndpoint) Datasets(ctx context.Context, _ *http.Request) (any, error) {
	metas, err := h.uc.Datasets(ctx)
	if err != nil {
		return nil, err
	}

	datasets := make([]Dataset, 0, len(metas))
	for _, m := range metas {
		datasets = append(datasets, Dataset{
			ID:        m.ID,
			Metric:    m.Metric,
			URL:       m.URL,
			Status:    m.Status,
			Error:     m.Err,
			StartedAt: m.StartedAt,
			EndedAt:   m.EndedAt,
			Rows:      m.Rows,
			Dates:     m.Dates,
		})
	}

	return DatasetsResponse{Datasets: datasets}, nil
}

func (h *HTTPEndpoint) Refresh(ctx context.Context, r *http.Request) (any, error) {
	var metrics []entity.Metric
	for _, raw := range splitList(r.URL.Query().Get("metric")) {
		metric, err := parseMetric(raw)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, metric)
	}

	result, err := h.uc.Refresh(ctx, metrics)
	if err != nil {
		return nil, err
	}

	scheduled := make([]RefreshEvent, 0, len(result.Scheduled))
	for _, e := range result.Scheduled {
		scheduled = append(scheduled, RefreshEvent{EventID: e.EventID, Metric: e.Metric})
	}

	return RefreshResponse{Scheduled: scheduled}, nil
}

func parseMetric(raw string) (entity.Metric, error) {
	if strings.TrimSpace(raw) == "" {
		return entity.MetricConfirmed, nil
	}

	metric, err := entity.ParseMetric(raw)
	if err != nil {
		return "", pkgerror.NewInvalidInput(err)
	}
	return metric, nil
}

func parseTopN(raw string) (int, error) {
	if raw == "" {
		return defaultTopN, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, pkgerror.NewInvalidInput(errors.New("invalid n"))
	}
	return min(n, maxTopN), nil
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// countryList prefers repeated ?country= values, which may contain commas
// ("Korea, South"), over the comma separated ?countries= list.
func countryList(repeated []string, list string) []string {
	var out []string
	for _, v := range repeated {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) > 0 {
		return out
	}
	return splitList(list)
}

func toHTTPSeries(s entity.TimeSeries) Series {
	return Series{Dates: s.Dates, Values: s.Values}
}

func toCompareResponse(result usecase.CompareResult) CompareResponse {
	labels := result.Series.Labels()
	series := make([]LabeledSeries, 0, len(labels))
	for _, label := range labels {
		s, _ := result.Series.Get(label)
		series = append(series, LabeledSeries{Label: label, Dates: s.Dates, Values: s.Values})
	}

	return CompareResponse{
		Metric:  result.Metric,
		Country: result.Country,
		Series:  series,
	}
}
