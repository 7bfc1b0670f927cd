package entity

// TimeSeries is an ordered date -> value mapping. Dates keep the source
// column order, which is chronological.
type TimeSeries struct {
	Dates  []string
	Values []float64
}

// ZeroSeries returns a series of zeros over dates.
func ZeroSeries(dates []string) TimeSeries {
	return TimeSeries{
		Dates:  append([]string(nil), dates...),
		Values: make([]float64, len(dates)),
	}
}

func (s TimeSeries) Len() int {
	return len(s.Dates)
}

// Last returns the most recent value, or false for an empty series.
func (s TimeSeries) Last() (float64, bool) {
	if len(s.Values) == 0 {
		return 0, false
	}
	return s.Values[len(s.Values)-1], true
}

// Sum returns the total of all values.
func (s TimeSeries) Sum() float64 {
	var total float64
	for _, v := range s.Values {
		total += v
	}
	return total
}

// SeriesCollection maps country labels to series while remembering the order
// labels were first set. Setting a label again replaces its series but keeps
// its original position.
type SeriesCollection struct {
	labels []string
	series map[string]TimeSeries
}

// NewSeriesCollection returns an empty collection.
func NewSeriesCollection() *SeriesCollection {
	return &SeriesCollection{series: make(map[string]TimeSeries)}
}

// Set stores s under label, appending label if it is new.
func (c *SeriesCollection) Set(label string, s TimeSeries) {
	if _, ok := c.series[label]; !ok {
		c.labels = append(c.labels, label)
	}
	c.series[label] = s
}

// Get returns the series of label.
func (c *SeriesCollection) Get(label string) (TimeSeries, bool) {
	s, ok := c.series[label]
	return s, ok
}

// Labels returns the labels in first-insertion order.
func (c *SeriesCollection) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Len is the number of distinct labels.
func (c *SeriesCollection) Len() int {
	return len(c.labels)
}

// CountryTotal is one entry of a country ranking: the country and its summed
// value on the most recent date.
type CountryTotal struct {
	Country string
	Latest  float64
}
