package entity

// MortalityRow is the lifetime deaths-to-confirmed ratio of one table row.
// Ratio may exceed 1 when reported deaths outrun reported cases.
type MortalityRow struct {
	Province  string
	Country   string
	Lat       float64
	Long      float64
	Confirmed float64
	Deaths    float64
	Ratio     float64
}

// CountryMortality is the latest-date ratio of one country together with the
// raw series it was computed from.
type CountryMortality struct {
	Country   string
	Ratio     float64
	Confirmed TimeSeries
	Deaths    TimeSeries
}
