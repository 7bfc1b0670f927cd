package reshape

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgerror"
)

var dates = []string{"1/22/20", "1/23/20", "1/24/20"}

func fixture() entity.Table {
	return entity.Table{
		Dates: dates,
		Rows: []entity.Row{
			{Province: "A", Country: "France", Lat: 1, Long: 1, Values: []float64{10, 20, 30}},
			{Country: "Italy", Lat: 2, Long: 2, Values: []float64{1, 50, 100}},
			{Province: "B", Country: "France", Lat: 3, Long: 3, Values: []float64{5, 15, 25}},
			{Country: "Chad", Lat: 4, Long: 4, Values: []float64{0, 0, 1}},
			{Country: "Benin", Lat: 5, Long: 5, Values: []float64{0, 0, 1}},
		},
	}
}

func TestCountriesSortedAndUnique(t *testing.T) {
	got := Countries(fixture())
	want := []string{"Benin", "Chad", "France", "Italy"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Countries mismatch (-want +got):\n%s", diff)
	}
}

func TestCountriesEmptyTable(t *testing.T) {
	got := Countries(entity.Table{})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestTopN(t *testing.T) {
	tbl := fixture()

	cases := []struct {
		name string
		n    int
		want []string
	}{
		{"zero", 0, []string{}},
		{"negative", -3, []string{}},
		{"one", 1, []string{"Italy"}},
		{"sums provinces", 2, []string{"Italy", "France"}},
		{"ties keep label order", 4, []string{"Italy", "France", "Benin", "Chad"}},
		{"more than available", 10, []string{"Italy", "France", "Benin", "Chad"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, TopN(tbl, tc.n)); diff != "" {
				t.Fatalf("TopN(%d) mismatch (-want +got):\n%s", tc.n, diff)
			}
		})
	}
}

func TestTopNWithoutDates(t *testing.T) {
	tbl := entity.Table{Rows: []entity.Row{{Country: "B"}, {Country: "A"}}}
	if diff := cmp.Diff([]string{"A", "B"}, TopN(tbl, 5)); diff != "" {
		t.Fatalf("TopN mismatch (-want +got):\n%s", diff)
	}
}

func TestRankingLatestValues(t *testing.T) {
	got := Ranking(fixture())
	want := []entity.CountryTotal{
		{Country: "Italy", Latest: 100},
		{Country: "France", Latest: 55},
		{Country: "Benin", Latest: 1},
		{Country: "Chad", Latest: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestSeriesForCollapsesProvinces(t *testing.T) {
	tbl := entity.Table{
		Dates: []string{"d1", "d2"},
		Rows: []entity.Row{
			{Province: "A", Country: "France", Values: []float64{10, 20}},
			{Province: "B", Country: "France", Values: []float64{5, 15}},
		},
	}

	got := SeriesFor(tbl, "France")
	want := entity.TimeSeries{Dates: []string{"d1", "d2"}, Values: []float64{15, 35}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("SeriesFor mismatch (-want +got):\n%s", diff)
	}
}

func TestSeriesForUnknownCountryIsZero(t *testing.T) {
	tbl := fixture()

	got := SeriesFor(tbl, "UnknownCountryXYZ")
	if got.Len() != SeriesFor(tbl, "Italy").Len() {
		t.Fatalf("expected same date index length, got %d", got.Len())
	}
	for i, v := range got.Values {
		if v != 0 {
			t.Fatalf("expected zero at %d, got %v", i, v)
		}
	}
}

func TestSeriesForDoesNotMutateTable(t *testing.T) {
	tbl := fixture()
	before := tbl.Clone()

	_ = SeriesFor(tbl, "France")
	_ = Totals(tbl)
	_ = TopN(tbl, 2)

	if diff := cmp.Diff(before, tbl); diff != "" {
		t.Fatalf("table mutated (-before +after):\n%s", diff)
	}
}

func TestPerCountrySeriesSumToTotals(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	labels := []string{"A", "B", "C", "D"}

	for iter := 0; iter < 20; iter++ {
		tbl := entity.Table{Dates: []string{"d1", "d2", "d3", "d4"}}
		for r := 0; r < 12; r++ {
			values := make([]float64, len(tbl.Dates))
			for i := range values {
				values[i] = float64(rng.IntN(1000))
			}
			tbl.Rows = append(tbl.Rows, entity.Row{Country: labels[rng.IntN(len(labels))], Values: values})
		}

		sumOf := make([]float64, len(tbl.Dates))
		for _, country := range Countries(tbl) {
			for i, v := range SeriesFor(tbl, country).Values {
				sumOf[i] += v
			}
		}

		if diff := cmp.Diff(Totals(tbl).Values, sumOf); diff != "" {
			t.Fatalf("iteration %d: per-country sum differs from totals (-totals +sum):\n%s", iter, diff)
		}
	}
}

func TestAssembleDeduplicates(t *testing.T) {
	got := Assemble(fixture(), []string{"France", "Italy", "France"})

	if got.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", got.Len())
	}
	if diff := cmp.Diff([]string{"France", "Italy"}, got.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	france, ok := got.Get("France")
	if !ok {
		t.Fatal("expected France entry")
	}
	if diff := cmp.Diff([]float64{15, 35, 55}, france.Values); diff != "" {
		t.Fatalf("France series mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleEmptySelection(t *testing.T) {
	if got := Assemble(fixture(), nil); got.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", got.Len())
	}
}

func TestMortality(t *testing.T) {
	confirmed := entity.Table{
		Dates: []string{"d1", "d2"},
		Rows: []entity.Row{
			{Country: "Anomaly", Values: []float64{40, 60}},
			{Country: "Empty", Values: []float64{0, 0}},
			{Country: "NoCases", Values: []float64{0, 0}},
			{Country: "Normal", Values: []float64{100, 100}},
		},
	}
	deaths := entity.Table{
		Dates: []string{"d1", "d2"},
		Rows: []entity.Row{
			{Country: "Anomaly", Values: []float64{50, 100}},
			{Country: "Empty", Values: []float64{0, 0}},
			{Country: "NoCases", Values: []float64{2, 3}},
			{Country: "Normal", Values: []float64{1, 9}},
		},
	}

	got, err := Mortality(confirmed, deaths)
	if err != nil {
		t.Fatalf("Mortality: %v", err)
	}

	want := []entity.MortalityRow{
		{Country: "Anomaly", Confirmed: 100, Deaths: 150, Ratio: 1.5},
		{Country: "Empty", Confirmed: 0, Deaths: 0, Ratio: 0},
		{Country: "NoCases", Confirmed: 0, Deaths: 5, Ratio: 5},
		{Country: "Normal", Confirmed: 200, Deaths: 10, Ratio: 0.05},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Mortality mismatch (-want +got):\n%s", diff)
	}
}

func TestMortalityMisaligned(t *testing.T) {
	confirmed := entity.Table{Rows: []entity.Row{{Country: "France"}}}

	cases := map[string]entity.Table{
		"row count": {Rows: []entity.Row{{Country: "France"}, {Country: "Italy"}}},
		"entity":    {Rows: []entity.Row{{Country: "Italy"}}},
		"province":  {Rows: []entity.Row{{Province: "Corsica", Country: "France"}}},
	}

	for name, deaths := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Mortality(confirmed, deaths)
			if !errors.Is(err, pkgerror.ErrSchema) {
				t.Fatalf("expected ErrSchema, got %v", err)
			}
		})
	}
}

func TestMortalityAt(t *testing.T) {
	confirmed := fixture()
	deaths := entity.Table{
		Dates: dates,
		Rows: []entity.Row{
			{Province: "A", Country: "France", Values: []float64{0, 1, 3}},
			{Country: "Italy", Values: []float64{0, 5, 10}},
			{Province: "B", Country: "France", Values: []float64{0, 1, 2}},
		},
	}

	got, err := MortalityAt("France", confirmed, deaths)
	if err != nil {
		t.Fatalf("MortalityAt: %v", err)
	}
	if got.Ratio != 5.0/55.0 {
		t.Fatalf("unexpected ratio: %v", got.Ratio)
	}
	if diff := cmp.Diff([]float64{15, 35, 55}, got.Confirmed.Values); diff != "" {
		t.Fatalf("confirmed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 2, 5}, got.Deaths.Values); diff != "" {
		t.Fatalf("deaths mismatch (-want +got):\n%s", diff)
	}
}

func TestMortalityAtUndefined(t *testing.T) {
	confirmed := entity.Table{
		Dates: []string{"d1", "d2"},
		Rows:  []entity.Row{{Country: "Zeroland", Values: []float64{0, 0}}},
	}
	deaths := confirmed.Clone()

	for _, country := range []string{"Zeroland", "UnknownCountryXYZ"} {
		_, err := MortalityAt(country, confirmed, deaths)
		if !errors.Is(err, pkgerror.ErrDivisionUndefined) {
			t.Fatalf("%s: expected ErrDivisionUndefined, got %v", country, err)
		}
	}

	_, err := MortalityAt("Zeroland", entity.Table{}, entity.Table{})
	if !errors.Is(err, pkgerror.ErrDivisionUndefined) {
		t.Fatalf("empty tables: expected ErrDivisionUndefined, got %v", err)
	}
}
