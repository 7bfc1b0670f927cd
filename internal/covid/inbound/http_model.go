package inbound

import (
	"net/http"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
)

type Series struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

type LabeledSeries struct {
	Label  string    `json:"label"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

type CountriesResponse struct {
	Metric    entity.Metric `json:"metric"`
	Countries []string      `json:"countries"`
}

func (r CountriesResponse) Meta() map[string]any {
	return map[string]any{"count": len(r.Countries)}
}

type RankedCountry struct {
	Country string  `json:"country"`
	Latest  float64 `json:"latest"`
}

type TopCountriesResponse struct {
	Metric    entity.Metric   `json:"metric"`
	Date      string          `json:"date"`
	Countries []RankedCountry `json:"countries"`
}

type SeriesResponse struct {
	Metric  entity.Metric `json:"metric"`
	Country string        `json:"country"`
	Series  Series        `json:"series"`
}

type CompareResponse struct {
	Metric  entity.Metric   `json:"metric,omitempty"`
	Country string          `json:"country,omitempty"`
	Series  []LabeledSeries `json:"series"`
}

type MortalityRow struct {
	Province  string  `json:"province"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Long      float64 `json:"long"`
	Confirmed float64 `json:"confirmed"`
	Deaths    float64 `json:"deaths"`
	Ratio     float64 `json:"ratio"`
}

type MortalityResponse struct {
	Rows []MortalityRow `json:"rows"`
}

func (r MortalityResponse) Meta() map[string]any {
	return map[string]any{"count": len(r.Rows)}
}

type CountryMortalityResponse struct {
	Country   string  `json:"country"`
	Ratio     float64 `json:"ratio"`
	Confirmed Series  `json:"confirmed"`
	Deaths    Series  `json:"deaths"`
}

type Dataset struct {
	ID        string               `json:"id"`
	Metric    entity.Metric        `json:"metric"`
	URL       string               `json:"url"`
	Status    entity.DatasetStatus `json:"status"`
	Error     string               `json:"error,omitempty"`
	StartedAt int64                `json:"started_at"`
	EndedAt   int64                `json:"ended_at,omitempty"`
	Rows      int                  `json:"rows"`
	Dates     int                  `json:"dates"`
}

type DatasetsResponse struct {
	Datasets []Dataset `json:"datasets"`
}

type RefreshEvent struct {
	EventID string        `json:"event_id"`
	Metric  entity.Metric `json:"metric"`
}

type RefreshResponse struct {
	Scheduled []RefreshEvent `json:"scheduled"`
}

func (RefreshResponse) StatusCode() int {
	return http.StatusAccepted
}

func (RefreshResponse) Message() string {
	return "refresh scheduled"
}
