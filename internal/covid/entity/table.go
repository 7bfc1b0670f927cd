package entity

// Schema names the identifying columns of a time-series CSV. Every other
// column is treated as a date column.
type Schema struct {
	Province string
	Country  string
	Lat      string
	Long     string
}

// DefaultSchema matches the JHU CSSE global time series headers.
func DefaultSchema() Schema {
	return Schema{
		Province: "Province/State",
		Country:  "Country/Region",
		Lat:      "Lat",
		Long:     "Long",
	}
}

// IsIdentifying reports whether column is one of the schema's identifying columns.
func (s Schema) IsIdentifying(column string) bool {
	switch column {
	case s.Province, s.Country, s.Lat, s.Long:
		return column != ""
	}
	return false
}

// Row is one geographic entity: a province of a country, or a whole country
// when Province is empty. Values is co-indexed with Table.Dates.
type Row struct {
	Province string
	Country  string
	Lat      float64
	Long     float64
	Values   []float64
}

// SameEntity reports whether two rows carry identical identifying columns.
func (r Row) SameEntity(o Row) bool {
	return r.Province == o.Province && r.Country == o.Country && r.Lat == o.Lat && r.Long == o.Long
}

// Table is a parsed time-series dataset. It is never mutated after loading;
// operations that need a different shape build a new value.
type Table struct {
	Dates []string
	Rows  []Row
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := Table{
		Dates: append([]string(nil), t.Dates...),
		Rows:  make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		row.Values = append([]float64(nil), row.Values...)
		out.Rows[i] = row
	}
	return out
}
