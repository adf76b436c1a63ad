package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

var kpiTemplate = template.Must(template.New("kpiCards").Parse(`
<div id="kpi-cards">
<div class="kpi-card"><span class="kpi-label">Total Sales</span><strong>${{printf "%.2f" .Sales}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total Profit</span><strong>${{printf "%.2f" .Profit}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Items Sold</span><strong>{{printf "%.0f" .Quantity}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Records</span><strong>{{.Records}}</strong></div>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type kpiData struct {
	Sales    float64
	Profit   float64
	Quantity float64
	Records  int64
}

func (h *SSEHandlers) renderKPICards(d models.Dashboard) (string, error) {
	var buf strings.Builder
	err := kpiTemplate.Execute(&buf, kpiData{
		Sales:    d.Measures[services.MeasureSales].Total,
		Profit:   d.Measures[services.MeasureProfit].Total,
		Quantity: d.Measures[services.MeasureQuantity].Total,
		Records:  d.RecordCount,
	})
	return buf.String(), err
}

// HandleDashboard streams the aggregates for the selected year: chart
// data goes out as datastar signals, the KPI cards as an HTML patch.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	selection := yearSelection(r)
	data, err := h.analytics.Dashboard(selection)
	if err != nil {
		h.logger.Warn("dashboard selection rejected", "selection", selection, "error", err)
		sse.PatchElements(`<div id="kpi-cards">Invalid year selection</div>`)
		return
	}

	jsonData, err := json.Marshal(map[string]any{
		"dashboard": data,
		"selection": data.Selection,
	})
	if err != nil {
		h.logger.Error("marshal dashboard data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	html, err := h.renderKPICards(data)
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll re-sends everything for the current selection,
// including the years list for the selector.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	selection := yearSelection(r)
	data, err := h.analytics.Dashboard(selection)
	if err != nil {
		h.logger.Warn("dashboard selection rejected", "selection", selection, "error", err)
		return
	}

	allSignals, err := json.Marshal(map[string]any{
		"dashboard": data,
		"selection": data.Selection,
		"years":     data.Years,
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	html, err := h.renderKPICards(data)
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
