package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgerror"
)

func TestParseTable(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"\ufeffProvince/State,Country/Region,Lat,Long,1/22/20,1/23/20",
		",Italy,41.9,12.6,1,2",
		"Hubei,Mainland China,30.9,112.2,444,",
		`"Bonaire, Sint Eustatius and Saba",Netherlands,12.1,-68.2,0,1`,
	}, "\n")

	got, err := parseTable(context.Background(), strings.NewReader(csv), entity.DefaultSchema(), map[string]string{
		"Mainland China": "China",
	})
	if err != nil {
		t.Fatalf("parseTable() err = %v", err)
	}

	want := entity.Table{
		Dates: []string{"1/22/20", "1/23/20"},
		Rows: []entity.Row{
			{Country: "Italy", Lat: 41.9, Long: 12.6, Values: []float64{1, 2}},
			{Province: "Hubei", Country: "China", Lat: 30.9, Long: 112.2, Values: []float64{444, 0}},
			{Province: "Bonaire, Sint Eustatius and Saba", Country: "Netherlands", Lat: 12.1, Long: -68.2, Values: []float64{0, 1}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parseTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTable_ColumnOrderAndCustomSchema(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"2020-01-22,country,2020-01-23",
		"3,Chad,4",
	}, "\n")

	got, err := parseTable(context.Background(), strings.NewReader(csv), entity.Schema{Country: "country"}, nil)
	if err != nil {
		t.Fatalf("parseTable() err = %v", err)
	}

	want := entity.Table{
		Dates: []string{"2020-01-22", "2020-01-23"},
		Rows:  []entity.Row{{Country: "Chad", Values: []float64{3, 4}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parseTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTable_BackfillsCoordinates(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"Province/State,Country/Region,Lat,Long,1/22/20",
		"Diamond Princess,Canada,,,1",
		"Diamond Princess,Canada,0.5,1.5,2",
		",Kosovo,,,3",
	}, "\n")

	got, err := parseTable(context.Background(), strings.NewReader(csv), entity.DefaultSchema(), nil)
	if err != nil {
		t.Fatalf("parseTable() err = %v", err)
	}

	coords := make([][2]float64, len(got.Rows))
	for i, row := range got.Rows {
		coords[i] = [2]float64{row.Lat, row.Long}
	}
	want := [][2]float64{{0.5, 1.5}, {0.5, 1.5}, {0, 0}}
	if diff := cmp.Diff(want, coords); diff != "" {
		t.Fatalf("coordinates mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTable_HeaderOnly(t *testing.T) {
	t.Parallel()

	got, err := parseTable(context.Background(), strings.NewReader("Province/State,Country/Region,Lat,Long\n"), entity.DefaultSchema(), nil)
	if err != nil {
		t.Fatalf("parseTable() err = %v", err)
	}
	if len(got.Dates) != 0 || len(got.Rows) != 0 {
		t.Fatalf("parseTable() = %+v, want empty table", got)
	}
}

func TestParseTable_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: pkgerror.ErrFetch},
		{name: "missing country column", input: "Province/State,Lat,Long,1/22/20\nHubei,1,2,3\n", wantErr: pkgerror.ErrSchema},
		{name: "empty header cell", input: "Country/Region,,1/22/20\nItaly,x,1\n", wantErr: pkgerror.ErrFetch},
		{name: "non numeric value", input: "Country/Region,1/22/20\nItaly,many\n", wantErr: pkgerror.ErrFetch},
		{name: "non finite value", input: "Country/Region,1/22/20\nItaly,NaN\n", wantErr: pkgerror.ErrFetch},
		{name: "bad latitude", input: "Country/Region,Lat,1/22/20\nItaly,north,1\n", wantErr: pkgerror.ErrFetch},
		{name: "ragged row", input: "Country/Region,1/22/20\nItaly,1,2\n", wantErr: pkgerror.ErrFetch},
		{name: "not csv", input: "<html>\"oops</html>\n", wantErr: pkgerror.ErrFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTable(context.Background(), strings.NewReader(tt.input), entity.DefaultSchema(), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseTable() err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
