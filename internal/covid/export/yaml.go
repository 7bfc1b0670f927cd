package export

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
)

type yamlDocument struct {
	Title  string       `yaml:"title"`
	Series []yamlSeries `yaml:"series"`
}

type yamlSeries struct {
	Label  string    `yaml:"label"`
	Dates  []string  `yaml:"dates,flow"`
	Values []float64 `yaml:"values,flow"`
}

// WriteYAML writes c as one YAML document titled title, series in collection
// order.
func WriteYAML(w io.Writer, title string, c *entity.SeriesCollection) error {
	if c == nil || c.Len() == 0 {
		return errors.New("nothing to export")
	}

	doc := yamlDocument{Title: title}
	for _, label := range c.Labels() {
		s, _ := c.Get(label)
		doc.Series = append(doc.Series, yamlSeries{Label: label, Dates: s.Dates, Values: s.Values})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
