package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
)

const (
	defaultSheet = "Sheet1"
	dateHeader   = "Date"
	maxSheetName = 31
)

// WriteXLSX writes c as a single sheet workbook: a Date column followed by one
// column per label in collection order. Dates missing from a series are left
// blank.
func WriteXLSX(w io.Writer, sheet string, c *entity.SeriesCollection) (err error) {
	if c == nil || c.Len() == 0 {
		return errors.New("nothing to export")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sheet = SheetName(sheet)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	labels := c.Labels()
	header := make([]any, 0, len(labels)+1)
	header = append(header, dateHeader)
	for _, label := range labels {
		header = append(header, label)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	dates, lookup := align(c, labels)
	for i, date := range dates {
		row := make([]any, 0, len(labels)+1)
		row = append(row, date)
		for _, values := range lookup {
			if v, ok := values[date]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	return f.Write(w)
}

// align returns the union of dates in first-seen order and, per label, a
// date -> value lookup.
func align(c *entity.SeriesCollection, labels []string) ([]string, []map[string]float64) {
	var dates []string
	seen := make(map[string]struct{})
	lookup := make([]map[string]float64, len(labels))

	for i, label := range labels {
		s, _ := c.Get(label)
		values := make(map[string]float64, s.Len())
		for j, date := range s.Dates {
			if j < len(s.Values) {
				values[date] = s.Values[j]
			}
			if _, ok := seen[date]; !ok {
				seen[date] = struct{}{}
				dates = append(dates, date)
			}
		}
		lookup[i] = values
	}

	return dates, lookup
}

// SheetName makes name usable as a worksheet name.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))

	if name == "" {
		return defaultSheet
	}
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}
