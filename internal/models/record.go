package models

import "time"

// Record is one sales transaction line. Records are built once by the
// loader and never mutated afterwards.
type Record struct {
	OrderDate   time.Time
	Year        int
	Month       string // "YYYY-MM" bucket derived from OrderDate
	ShipMode    string
	Segment     string
	State       string
	Region      string
	Category    string
	SubCategory string
	Sales       float64
	Profit      float64
	Quantity    float64
}

// Entry is one row of a sorted breakdown. Breakdowns are slices rather
// than maps so the sort order survives JSON marshalling.
type Entry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type MonthlyPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// MeasureReport bundles every aggregate computed for a single measure.
type MeasureReport struct {
	Total         float64        `json:"total"`
	Monthly       []MonthlyPoint `json:"monthly"`
	ByCategory    []Entry        `json:"by_category"`
	BySubCategory []Entry        `json:"by_sub_category"`
	BySegment     []Entry        `json:"by_segment"`
	ByShipMode    []Entry        `json:"by_ship_mode"`
	ByState       []Entry        `json:"by_state"`
}

// Dashboard is the full payload handed to the presentation layer.
type Dashboard struct {
	Selection   string                   `json:"selection"`
	Measures    map[string]MeasureReport `json:"measures"`
	Years       []int                    `json:"years"`
	RecordCount int64                    `json:"record_count"`
}
