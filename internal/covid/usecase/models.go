package usecase

import (
	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
)

type TopResult struct {
	Metric    entity.Metric
	Date      string
	Countries []entity.CountryTotal
}

type SeriesResult struct {
	Metric  entity.Metric
	Country string
	Series  entity.TimeSeries
}

// CompareResult carries several series over one date index. Metric is set
// for country comparisons, Country for a single-country overview.
type CompareResult struct {
	Metric  entity.Metric
	Country string
	Series  *entity.SeriesCollection
}

type RefreshResult struct {
	Scheduled []entity.RefreshEvent
}
