package app

import (
	"os"
	"time"

	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgconfig"
)

// ServiceName tags every log record and the root endpoint.
const ServiceName = "covid-visualizer"

const jhuBaseURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_time_series/"

func defaults() map[string]any {
	return map[string]any{
		"tz":        "UTC",
		"log.level": "info",

		"server.address.http":     ":8080",
		"server.request_timeout":  30 * time.Second,
		"server.shutdown_timeout": 10 * time.Second,

		"modules.covid.enabled":              true,
		"modules.covid.warmup":               true,
		"modules.covid.fetch.timeout":        20 * time.Second,
		"modules.covid.fetch.user_agent":     ServiceName,
		"modules.covid.sources.confirmed":    jhuBaseURL + "time_series_covid19_confirmed_global.csv",
		"modules.covid.sources.deaths":       jhuBaseURL + "time_series_covid19_deaths_global.csv",
		"modules.covid.sources.recovered":    jhuBaseURL + "time_series_covid19_recovered_global.csv",
		"modules.covid.aliases":              "Mainland China:China",
		"modules.covid.snowflake.node":       -1,
		"modules.covid.refresh.buffer":       64,
		"modules.covid.refresh.workers":      2,
		"modules.covid.refresh.max_retries":  3,
		"modules.covid.refresh.base_backoff": 500 * time.Millisecond,
	}
}

// ConfigPath is /config/config.yaml, or ./config/config.yaml when LOCAL=true.
func ConfigPath() string {
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

// LoadConfig reads path on top of the built-in defaults.
func LoadConfig(path string) (pkgconfig.Config, error) {
	cfg, err := pkgconfig.NewViper(path, defaults())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
