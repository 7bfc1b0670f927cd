package reshape

import (
	"fmt"
	"slices"
	"sort"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgerror"
)

// Countries returns the distinct country labels of t in lexicographic order.
func Countries(t entity.Table) []string {
	seen := make(map[string]struct{}, len(t.Rows))
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if _, ok := seen[row.Country]; ok {
			continue
		}
		seen[row.Country] = struct{}{}
		out = append(out, row.Country)
	}
	sort.Strings(out)
	return out
}

// Ranking sums every country's rows elementwise and orders countries by their
// value on the last date column, highest first.
//
// Countries enter the sort in label order and the sort is stable, so equal
// values keep label order. A table without date columns ranks every country
// at zero.
func Ranking(t entity.Table) []entity.CountryTotal {
	last := len(t.Dates) - 1
	latest := make(map[string]float64)
	for _, row := range t.Rows {
		v := 0.0
		if last >= 0 && last < len(row.Values) {
			v = row.Values[last]
		}
		latest[row.Country] += v
	}

	ranked := make([]entity.CountryTotal, 0, len(latest))
	for _, country := range Countries(t) {
		ranked = append(ranked, entity.CountryTotal{Country: country, Latest: latest[country]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Latest > ranked[j].Latest
	})

	return ranked
}

// TopRanking returns the first n entries of Ranking. n <= 0 yields an empty
// result; n beyond the number of countries yields all of them.
func TopRanking(t entity.Table, n int) []entity.CountryTotal {
	if n <= 0 {
		return []entity.CountryTotal{}
	}

	ranked := Ranking(t)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// TopN returns the labels of TopRanking(t, n).
func TopN(t entity.Table, n int) []string {
	ranked := TopRanking(t, n)
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Country
	}
	return out
}

// SeriesFor collapses every row of country into one national series over the
// table's date index.
//
// An unknown country is not an error: the result is an all-zero series with
// the same dates, so charts for a stale selection render flat instead of
// failing the whole request.
func SeriesFor(t entity.Table, country string) entity.TimeSeries {
	out := entity.ZeroSeries(t.Dates)
	for _, row := range t.Rows {
		if row.Country != country {
			continue
		}
		addInto(out.Values, row.Values)
	}
	return out
}

// Totals sums every row of t into one series; it equals the sum of SeriesFor
// over all countries.
func Totals(t entity.Table) entity.TimeSeries {
	out := entity.ZeroSeries(t.Dates)
	for _, row := range t.Rows {
		addInto(out.Values, row.Values)
	}
	return out
}

// Assemble extracts one series per requested country, in request order. A
// repeated label keeps its first position and its series is recomputed.
func Assemble(t entity.Table, countries []string) *entity.SeriesCollection {
	out := entity.NewSeriesCollection()
	for _, country := range countries {
		out.Set(country, SeriesFor(t, country))
	}
	return out
}

// Mortality computes, row by row, lifetime deaths over lifetime confirmed
// cases. The tables must list the same entities in the same order.
//
// The denominator is clamped to 1, so a row with no confirmed cases and no
// deaths has ratio 0 and a row with deaths but no cases has ratio = deaths.
// Ratios above 1 are kept as reported.
func Mortality(confirmed, deaths entity.Table) ([]entity.MortalityRow, error) {
	if len(confirmed.Rows) != len(deaths.Rows) {
		return nil, pkgerror.NewSchema(fmt.Errorf(
			"confirmed has %d rows, deaths has %d", len(confirmed.Rows), len(deaths.Rows)))
	}

	out := make([]entity.MortalityRow, len(confirmed.Rows))
	for i, c := range confirmed.Rows {
		d := deaths.Rows[i]
		if !c.SameEntity(d) {
			return nil, pkgerror.NewSchema(fmt.Errorf(
				"row %d: confirmed is %s, deaths is %s", i, entityName(c), entityName(d)))
		}

		confirmedTotal := sum(c.Values)
		deathsTotal := sum(d.Values)
		out[i] = entity.MortalityRow{
			Province:  c.Province,
			Country:   c.Country,
			Lat:       c.Lat,
			Long:      c.Long,
			Confirmed: confirmedTotal,
			Deaths:    deathsTotal,
			Ratio:     deathsTotal / max(confirmedTotal, 1),
		}
	}

	return out, nil
}

// MortalityAt returns the latest cumulative deaths over latest cumulative
// confirmed cases for country, with both national series.
//
// It fails with pkgerror.ErrDivisionUndefined when the country has no
// confirmed cases on the last date, including unknown countries and tables
// without date columns.
func MortalityAt(country string, confirmed, deaths entity.Table) (entity.CountryMortality, error) {
	c := SeriesFor(confirmed, country)
	d := SeriesFor(deaths, country)

	lastConfirmed, ok := c.Last()
	if !ok || lastConfirmed == 0 {
		return entity.CountryMortality{}, pkgerror.NewDivisionUndefined(country)
	}
	lastDeaths, _ := d.Last()

	return entity.CountryMortality{
		Country:   country,
		Ratio:     lastDeaths / lastConfirmed,
		Confirmed: c,
		Deaths:    d,
	}, nil
}

func addInto(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] += src[i]
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func entityName(r entity.Row) string {
	parts := slices.DeleteFunc([]string{r.Province, r.Country}, func(s string) bool { return s == "" })
	return fmt.Sprintf("%v (%g, %g)", parts, r.Lat, r.Long)
}
