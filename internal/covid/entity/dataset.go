package entity

// DatasetMeta describes one cached load of a source URL.
type DatasetMeta struct {
	ID        string
	Metric    Metric
	URL       string
	Status    DatasetStatus
	Err       string
	StartedAt int64
	EndedAt   int64

	// Generation is the invalidation count of URL when the load began.
	Generation uint64

	Rows  int
	Dates int
}

// RefreshEvent asks a consumer to reload the dataset behind Metric.
type RefreshEvent struct {
	EventID string
	Metric  Metric
	URL     string
}
