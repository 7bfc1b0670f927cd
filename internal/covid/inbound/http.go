package inbound

import (
	"context"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/covid/usecase"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgrouter"
)

type uc interface {
	Countries(ctx context.Context, metric entity.Metric) ([]string, error)
	TopCountries(ctx context.Context, metric entity.Metric, n int) (usecase.TopResult, error)
	Series(ctx context.Context, metric entity.Metric, country string) (usecase.SeriesResult, error)
	Compare(ctx context.Context, metric entity.Metric, countries []string) (usecase.CompareResult, error)
	Overview(ctx context.Context, country string) (usecase.CompareResult, error)
	Mortality(ctx context.Context) ([]entity.MortalityRow, error)
	MortalityAt(ctx context.Context, country string) (entity.CountryMortality, error)
	Datasets(ctx context.Context) ([]entity.DatasetMeta, error)
	Refresh(ctx context.Context, metrics []entity.Metric) (usecase.RefreshResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/countries", end.Countries)        // ?metric=
	r.GET("/countries/top", end.TopCountries) // ?metric=&n=

	r.GET("/series", end.Series)          // ?metric=&country=
	r.GET("/series/compare", end.Compare) // ?metric=&countries=a,b or &country=a&country=b
	r.GET("/overview", end.Overview)      // ?country=

	r.GET("/mortality", end.Mortality)
	r.GET("/mortality/:country", end.MortalityAt)

	r.GET("/datasets", end.Datasets)
	r.POST("/datasets/refresh", end.Refresh) // ?metric=a,b
}
