package export

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
)

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	c := entity.NewSeriesCollection()
	c.Set("Italy", entity.TimeSeries{Dates: []string{"1/22/20", "1/23/20"}, Values: []float64{10, 100}})
	c.Set("China", entity.TimeSeries{Dates: []string{"1/22/20", "1/23/20", "1/24/20"}, Values: []float64{55, 65, 70.5}})

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, "confirmed", c); err != nil {
		t.Fatalf("WriteXLSX() err = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() err = %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{"confirmed"}, f.GetSheetList()); diff != "" {
		t.Fatalf("sheets mismatch (-want +got):\n%s", diff)
	}

	rows, err := f.GetRows("confirmed")
	if err != nil {
		t.Fatalf("GetRows() err = %v", err)
	}

	want := [][]string{
		{"Date", "Italy", "China"},
		{"1/22/20", "10", "55"},
		{"1/23/20", "100", "65"},
		{"1/24/20", "", "70.5"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, "x", entity.NewSeriesCollection()); err == nil {
		t.Fatal("WriteXLSX() expected error for empty collection")
	}
}

func TestSheetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "confirmed", want: "confirmed"},
		{in: "  ", want: "Sheet1"},
		{in: "a/b:c", want: "a_b_c"},
		{in: "confirmed-France-Italy-Germany-Spain", want: "confirmed-France-Italy-Germany-"},
	}

	for _, tt := range tests {
		if got := SheetName(tt.in); got != tt.want {
			t.Fatalf("SheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
