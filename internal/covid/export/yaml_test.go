package export

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
)

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	c := entity.NewSeriesCollection()
	c.Set("Italy", entity.TimeSeries{Dates: []string{"1/22/20", "1/23/20"}, Values: []float64{10, 100}})
	c.Set("Benin", entity.TimeSeries{Dates: []string{"1/22/20", "1/23/20"}, Values: []float64{0, 0}})

	var buf bytes.Buffer
	if err := WriteYAML(&buf, "confirmed", c); err != nil {
		t.Fatalf("WriteYAML() err = %v", err)
	}

	var got yamlDocument
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal() err = %v\n%s", err, buf.String())
	}

	want := yamlDocument{
		Title: "confirmed",
		Series: []yamlSeries{
			{Label: "Italy", Dates: []string{"1/22/20", "1/23/20"}, Values: []float64{10, 100}},
			{Label: "Benin", Dates: []string{"1/22/20", "1/23/20"}, Values: []float64{0, 0}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}

	if !bytes.Contains(buf.Bytes(), []byte("values: [10, 100]")) {
		t.Fatalf("expected flow style values, got:\n%s", buf.String())
	}
}
