package entity

import (
	"fmt"
	"strings"
)

// Metric names one of the cumulative time series published per country.
type Metric string

const (
	MetricConfirmed Metric = "confirmed"
	MetricDeaths    Metric = "deaths"
	MetricRecovered Metric = "recovered"
)

// Metrics lists every known metric in display order.
func Metrics() []Metric {
	return []Metric{MetricConfirmed, MetricDeaths, MetricRecovered}
}

// ParseMetric accepts a metric name case-insensitively.
func ParseMetric(value string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(value))); m {
	case MetricConfirmed, MetricDeaths, MetricRecovered:
		return m, nil
	default:
		return "", fmt.Errorf("invalid metric: %q", value)
	}
}

// DatasetStatus is the lifecycle state of a cached dataset load.
type DatasetStatus string

const (
	DatasetStatusLoading DatasetStatus = "LOADING"
	DatasetStatusReady   DatasetStatus = "READY"
	DatasetStatusFailed  DatasetStatus = "FAILED"
)
