package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"superstore-dashboard/internal/dates"
	"superstore-dashboard/internal/models"
)

// Column names the dataset must carry. Header matching is
// case-insensitive after trimming.
var requiredColumns = []string{
	"order date",
	"ship mode",
	"segment",
	"state",
	"region",
	"category",
	"sub-category",
	"sales",
	"quantity",
	"profit",
}

// Result carries the loaded record set plus row-level bookkeeping.
type Result struct {
	Records []models.Record
	Skipped int // rows dropped for unparseable dates
}

// LoadFile reads and parses the CSV dataset at path. A missing file is
// a fatal error surfaced before anything else runs.
func LoadFile(path string, formats []string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	res, err := Parse(f, formats)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return res, nil
}

// Parse reads delimited rows from r and converts them to records.
// Structural problems (empty input, missing required column, zero
// surviving rows) are fatal; a row whose date cannot be parsed is
// dropped and counted.
func Parse(r io.Reader, formats []string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		orderDate, ok := dates.Parse(field(row, columns["order date"]), formats)
		if !ok {
			res.Skipped++
			continue
		}

		res.Records = append(res.Records, models.Record{
			OrderDate:   orderDate,
			Year:        orderDate.Year(),
			Month:       dates.MonthKey(orderDate),
			ShipMode:    field(row, columns["ship mode"]),
			Segment:     field(row, columns["segment"]),
			State:       field(row, columns["state"]),
			Region:      field(row, columns["region"]),
			Category:    field(row, columns["category"]),
			SubCategory: field(row, columns["sub-category"]),
			Sales:       looseFloat(field(row, columns["sales"])),
			Profit:      looseFloat(field(row, columns["profit"])),
			Quantity:    looseFloat(field(row, columns["quantity"])),
		})
	}

	if len(res.Records) == 0 {
		return nil, fmt.Errorf("no data: zero rows survived parsing")
	}
	return res, nil
}

// mapHeader builds the case-insensitive name to index mapping and
// verifies every required column is present.
func mapHeader(header []string) (map[string]int, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("empty input: no header row")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return columns, nil
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// looseFloat coerces numeric text to a float, matching the dataset's
// permissive semantics: anything non-numeric counts as zero.
func looseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return v
}
