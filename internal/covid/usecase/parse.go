package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgerror"
)

const ctxCheckEvery = 256

// columns records where the identifying columns sit in the header; -1 marks
// an absent optional column.
type columns struct {
	province int
	country  int
	lat      int
	long     int
	dates    []int
}

func parseTable(ctx context.Context, r io.Reader, schema entity.Schema, aliases map[string]string) (entity.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return entity.Table{}, pkgerror.NewFetch(errors.New("dataset is empty"))
	}
	if err != nil {
		return entity.Table{}, pkgerror.NewFetch(fmt.Errorf("read header: %w", err))
	}

	cols, dates, err := locateColumns(header, schema)
	if err != nil {
		return entity.Table{}, err
	}

	table := entity.Table{Dates: dates}
	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return entity.Table{}, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.WarnContext(ctx, "failed to read csv line", "line", line, "error", err)
			return entity.Table{}, pkgerror.NewFetch(fmt.Errorf("line %d: %w", line, err))
		}

		row, err := parseRow(record, cols)
		if err != nil {
			slog.WarnContext(ctx, "failed to parse csv record", "line", line, "error", err)
			return entity.Table{}, pkgerror.NewFetch(fmt.Errorf("line %d: %w", line, err))
		}

		if alias, ok := aliases[row.Country]; ok {
			row.Country = alias
		}
		table.Rows = append(table.Rows, row)
	}

	backfillCoordinates(table.Rows)

	return table, nil
}

func locateColumns(header []string, schema entity.Schema) (columns, []string, error) {
	cols := columns{province: -1, country: -1, lat: -1, long: -1}
	var dates []string

	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}

		switch {
		case name == "":
			return columns{}, nil, pkgerror.NewFetch(fmt.Errorf("column %d has an empty header", i+1))
		case name == schema.Country:
			cols.country = i
		case name == schema.Province:
			cols.province = i
		case name == schema.Lat:
			cols.lat = i
		case name == schema.Long:
			cols.long = i
		default:
			cols.dates = append(cols.dates, i)
			dates = append(dates, name)
		}
	}

	if cols.country == -1 {
		return columns{}, nil, pkgerror.NewSchema(fmt.Errorf("missing column %q", schema.Country))
	}

	return cols, dates, nil
}

func parseRow(record []string, cols columns) (entity.Row, error) {
	row := entity.Row{
		Country: strings.TrimSpace(record[cols.country]),
		Lat:     math.NaN(),
		Long:    math.NaN(),
		Values:  make([]float64, len(cols.dates)),
	}

	if cols.province >= 0 {
		row.Province = strings.TrimSpace(record[cols.province])
	}

	var err error
	if cols.lat >= 0 {
		if row.Lat, err = parseCoordinate(record[cols.lat]); err != nil {
			return entity.Row{}, fmt.Errorf("invalid latitude: %w", err)
		}
	}
	if cols.long >= 0 {
		if row.Long, err = parseCoordinate(record[cols.long]); err != nil {
			return entity.Row{}, fmt.Errorf("invalid longitude: %w", err)
		}
	}

	for i, idx := range cols.dates {
		raw := strings.TrimSpace(record[idx])
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return entity.Row{}, fmt.Errorf("invalid value %q in column %d", raw, idx+1)
		}
		row.Values[i] = value
	}

	return row, nil
}

// parseCoordinate returns NaN for an empty cell so backfillCoordinates can
// tell "missing" from a genuine zero.
func parseCoordinate(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(raw, 64)
}

// backfillCoordinates fills a missing latitude or longitude from the next row
// of the same (province, country) that has one. Whatever is still missing
// becomes 0.
func backfillCoordinates(rows []entity.Row) {
	type key struct{ province, country string }
	nextLat := make(map[key]float64)
	nextLong := make(map[key]float64)

	for i := len(rows) - 1; i >= 0; i-- {
		k := key{rows[i].Province, rows[i].Country}

		if math.IsNaN(rows[i].Lat) {
			if v, ok := nextLat[k]; ok {
				rows[i].Lat = v
			}
		} else {
			nextLat[k] = rows[i].Lat
		}

		if math.IsNaN(rows[i].Long) {
			if v, ok := nextLong[k]; ok {
				rows[i].Long = v
			}
		} else {
			nextLong[k] = rows[i].Long
		}
	}

	for i := range rows {
		if math.IsNaN(rows[i].Lat) {
			rows[i].Lat = 0
		}
		if math.IsNaN(rows[i].Long) {
			rows[i].Long = 0
		}
	}
}
