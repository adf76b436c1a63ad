package services

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"superstore-dashboard/internal/loader"
	"superstore-dashboard/internal/models"
)

const (
	cacheVersion = "v1"
	cacheDir     = ".cache"
)

// Measure names, also the keys of the dashboard payload.
const (
	MeasureSales    = "sales"
	MeasureProfit   = "profit"
	MeasureQuantity = "quantity"
)

var Measures = []string{MeasureSales, MeasureProfit, MeasureQuantity}

// Categorical dimensions a measure is broken down by.
const (
	DimCategory    = "category"
	DimSubCategory = "sub-category"
	DimSegment     = "segment"
	DimShipMode    = "ship-mode"
	DimState       = "state"
)

// UnknownLabel replaces empty categorical values before grouping so no
// record is dropped from a breakdown.
const UnknownLabel = "Unknown"

// SelectionAll requests the unfiltered dashboard.
const SelectionAll = "all"

type Analytics struct {
	mu         sync.RWMutex
	records    []models.Record
	years      []int
	dashboards map[string]models.Dashboard
	skipped    int
	csvPath    string
	topStates  int
	logger     *slog.Logger
}

func NewAnalytics(topStates int) *Analytics {
	if topStates <= 0 {
		topStates = 15
	}
	return &Analytics{
		dashboards: make(map[string]models.Dashboard),
		topStates:  topStates,
		logger:     slog.Default(),
	}
}

// SetData replaces the record set directly, bypassing the loader.
func (a *Analytics) SetData(records []models.Record) {
	a.setData(records, 0)
}

func (a *Analytics) setData(records []models.Record, skipped int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = records
	a.years = Years(records)
	a.skipped = skipped
	a.dashboards = make(map[string]models.Dashboard)
}

// LoadFromCSV loads the dataset, preferring a gob snapshot of a prior
// parse when the source file has not changed since it was written.
func (a *Analytics) LoadFromCSV(ctx context.Context, filename string, formats []string) error {
	a.csvPath = filename

	if cached, err := a.loadFromCache(filename); err == nil {
		if info, err := os.Stat(filename); err == nil && info.ModTime().Before(cached.SavedAt) {
			a.setData(cached.Records, cached.Skipped)
			a.logger.Info("loaded from cache", "records", len(cached.Records))
			return nil
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	a.logger.Info("processing dataset", "filename", filename)

	res, err := loader.LoadFile(filename, formats)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	a.setData(res.Records, res.Skipped)

	if err := a.saveToCache(filename); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	if res.Skipped > 0 {
		a.logger.Warn("rows skipped for unparseable dates", "skipped", res.Skipped)
	}
	a.logger.Info("dataset load complete",
		"records", len(res.Records),
		"skipped", res.Skipped,
		"duration", time.Since(start))

	return nil
}

// Dashboard returns the assembled payload for a selection: "all" (or
// empty) for the full dataset, otherwise an integer year. A year not
// present in the data yields an empty report, not an error. Computed
// dashboards are cached; the source data is immutable per process so
// the cache is unobservable from outside.
func (a *Analytics) Dashboard(selection string) (models.Dashboard, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		selection = SelectionAll
	}

	year := 0
	if selection != SelectionAll {
		y, err := strconv.Atoi(selection)
		if err != nil {
			return models.Dashboard{}, fmt.Errorf("invalid year selection %q", selection)
		}
		year = y
	}

	a.mu.RLock()
	if d, ok := a.dashboards[selection]; ok {
		a.mu.RUnlock()
		return d, nil
	}
	records := a.records
	years := a.years
	a.mu.RUnlock()

	filtered := records
	if selection != SelectionAll {
		filtered = FilterYear(records, year)
	}

	d := models.Dashboard{
		Selection:   selection,
		Measures:    a.buildMeasures(filtered),
		Years:       years,
		RecordCount: int64(len(filtered)),
	}

	a.mu.Lock()
	a.dashboards[selection] = d
	a.mu.Unlock()

	return d, nil
}

// buildMeasures computes the three measure reports concurrently; each
// (measure, dimension) pass owns its accumulators, so no coordination
// beyond the join is needed.
func (a *Analytics) buildMeasures(records []models.Record) map[string]models.MeasureReport {
	reports := make([]models.MeasureReport, len(Measures))

	var g errgroup.Group
	for i, measure := range Measures {
		g.Go(func() error {
			reports[i] = a.buildReport(records, measure)
			return nil
		})
	}
	g.Wait()

	measures := make(map[string]models.MeasureReport, len(Measures))
	for i, measure := range Measures {
		measures[measure] = reports[i]
	}
	return measures
}

func (a *Analytics) buildReport(records []models.Record, measure string) models.MeasureReport {
	return models.MeasureReport{
		Total:         Total(records, measure),
		Monthly:       MonthlySeries(records, measure),
		ByCategory:    GroupBreakdown(records, DimCategory, measure),
		BySubCategory: GroupBreakdown(records, DimSubCategory, measure),
		BySegment:     GroupBreakdown(records, DimSegment, measure),
		ByShipMode:    GroupBreakdown(records, DimShipMode, measure),
		ByState:       TopN(GroupBreakdown(records, DimState, measure), a.topStates),
	}
}

// Years returns the distinct years of the loaded dataset, ascending.
func (a *Analytics) Years() []int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.years
}

func (a *Analytics) RecordCount() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return int64(len(a.records))
}

// Stats reports load and cache state for monitoring.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":      len(a.records),
		"skipped_rows":      a.skipped,
		"years":             a.years,
		"cached_selections": len(a.dashboards),
		"top_states":        a.topStates,
	}
}

// FilterYear returns a new slice holding the records whose derived year
// equals year. The input is never mutated.
func FilterYear(records []models.Record, year int) []models.Record {
	filtered := make([]models.Record, 0)
	for _, r := range records {
		if r.Year == year {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Years derives the distinct years present in records, sorted ascending.
func Years(records []models.Record) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range records {
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			years = append(years, r.Year)
		}
	}
	slices.Sort(years)
	return years
}

// Total sums the measure across all records; 0.0 for an empty slice.
func Total(records []models.Record, measure string) float64 {
	total := 0.0
	for _, r := range records {
		total += measureValue(r, measure)
	}
	return total
}

// MonthlySeries groups records by month bucket and sums the measure per
// group, ordered ascending by key.
func MonthlySeries(records []models.Record, measure string) []models.MonthlyPoint {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, r := range records {
		if _, seen := sums[r.Month]; !seen {
			order = append(order, r.Month)
		}
		sums[r.Month] += measureValue(r, measure)
	}

	series := make([]models.MonthlyPoint, 0, len(order))
	for _, month := range order {
		series = append(series, models.MonthlyPoint{Month: month, Value: sums[month]})
	}
	slices.SortFunc(series, func(a, b models.MonthlyPoint) int {
		return strings.Compare(a.Month, b.Month)
	})
	return series
}

// GroupBreakdown groups records by a categorical dimension and sums the
// measure per group. Empty values coalesce to UnknownLabel. The result
// is ordered by descending sum; the sort is stable, so equal sums keep
// their first-encounter order.
func GroupBreakdown(records []models.Record, dimension, measure string) []models.Entry {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, r := range records {
		key := dimensionValue(r, dimension)
		if key == "" {
			key = UnknownLabel
		}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += measureValue(r, measure)
	}

	breakdown := make([]models.Entry, 0, len(order))
	for _, key := range order {
		breakdown = append(breakdown, models.Entry{Key: key, Value: sums[key]})
	}
	slices.SortStableFunc(breakdown, func(a, b models.Entry) int {
		if a.Value > b.Value {
			return -1
		}
		if a.Value < b.Value {
			return 1
		}
		return 0
	})
	return breakdown
}

// TopN truncates an already-sorted breakdown to its first n entries,
// preserving order.
func TopN(breakdown []models.Entry, n int) []models.Entry {
	if n < 0 || len(breakdown) <= n {
		return breakdown
	}
	return breakdown[:n]
}

func measureValue(r models.Record, measure string) float64 {
	switch measure {
	case MeasureSales:
		return r.Sales
	case MeasureProfit:
		return r.Profit
	case MeasureQuantity:
		return r.Quantity
	}
	return 0
}

func dimensionValue(r models.Record, dimension string) string {
	switch dimension {
	case DimCategory:
		return r.Category
	case DimSubCategory:
		return r.SubCategory
	case DimSegment:
		return r.Segment
	case DimShipMode:
		return r.ShipMode
	case DimState:
		return r.State
	}
	return ""
}

// Cache management

type snapshot struct {
	Records []models.Record
	Skipped int
	SavedAt time.Time
}

func (a *Analytics) cacheFilename(csvPath string) string {
	return fmt.Sprintf("%s/%s_%s.gob", cacheDir, strings.ReplaceAll(csvPath, "/", "_"), cacheVersion)
}

func (a *Analytics) saveToCache(csvPath string) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(a.cacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	a.mu.RLock()
	defer a.mu.RUnlock()

	return gob.NewEncoder(file).Encode(snapshot{
		Records: a.records,
		Skipped: a.skipped,
		SavedAt: time.Now(),
	})
}

func (a *Analytics) loadFromCache(csvPath string) (*snapshot, error) {
	file, err := os.Open(a.cacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
