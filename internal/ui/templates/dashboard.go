package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Superstore Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f4f5f7; color: #1f2430; }
header { background: #1f2430; color: #fff; padding: 1rem 2rem; }
header h1 { margin: 0; font-size: 1.4rem; }
header p { margin: 0.25rem 0 0; color: #9aa3b2; font-size: 0.9rem; }
.controls { display: flex; gap: 1rem; padding: 1rem 2rem; align-items: center; }
.controls select { padding: 0.4rem 0.6rem; border-radius: 6px; border: 1px solid #cbd2dc; }
#kpi-cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 1rem; padding: 0 2rem; }
.kpi-card { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.kpi-card .kpi-label { display: block; color: #6b7280; font-size: 0.8rem; margin-bottom: 0.35rem; }
.kpi-card strong { font-size: 1.3rem; }
.charts { display: grid; grid-template-columns: repeat(auto-fit, minmax(380px, 1fr)); gap: 1rem; padding: 1rem 2rem 2rem; }
.chart-panel { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.chart-panel h2 { margin: 0 0 0.75rem; font-size: 1rem; color: #374151; }
</style>
</head>`

const pageScript = `<script>
const charts = {};
function drawChart(id, type, labels, values, label) {
	const el = document.getElementById(id);
	if (!el) return;
	if (charts[id]) charts[id].destroy();
	charts[id] = new Chart(el, {
		type: type,
		data: { labels: labels, datasets: [{ label: label, data: values }] },
		options: { responsive: true, plugins: { legend: { display: false } } },
	});
}
window.renderCharts = function (dashboard, measure) {
	if (!dashboard || !dashboard.measures) return;
	const report = dashboard.measures[measure];
	if (!report) return;
	drawChart('monthly-chart', 'line',
		report.monthly.map(p => p.month), report.monthly.map(p => p.value), measure);
	const panels = [
		['category-chart', report.by_category],
		['subcategory-chart', report.by_sub_category],
		['segment-chart', report.by_segment],
		['shipmode-chart', report.by_ship_mode],
		['state-chart', report.by_state],
	];
	for (const [id, breakdown] of panels) {
		drawChart(id, 'bar', breakdown.map(e => e.key), breakdown.map(e => e.value), measure);
	}
};
</script>`

// Dashboard renders the full dashboard page. Years populates the
// filter selector; aggregates arrive over SSE after load.
func Dashboard(years []int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(pageHead)
		b.WriteString(`<body data-signals='{"dashboard": null, "selection": "all", "measure": "sales"}' data-on-load="@get('/sse/dashboard')">`)
		b.WriteString(`<header><h1>Superstore Sales Dashboard</h1><p>Sales, profit and quantity breakdowns by category, segment, ship mode and state</p></header>`)

		b.WriteString(`<div class="controls">`)
		b.WriteString(`<label for="year-select">Year</label>`)
		b.WriteString(`<select id="year-select" data-on-change="@get('/sse/dashboard?year=' + evt.target.value)">`)
		b.WriteString(`<option value="all">All years</option>`)
		for _, year := range years {
			fmt.Fprintf(&b, `<option value="%d">%d</option>`, year, year)
		}
		b.WriteString(`</select>`)
		b.WriteString(`<label for="measure-select">Measure</label>`)
		b.WriteString(`<select id="measure-select" data-bind-measure>`)
		b.WriteString(`<option value="sales">Sales</option><option value="profit">Profit</option><option value="quantity">Quantity</option>`)
		b.WriteString(`</select>`)
		b.WriteString(`<button data-on-click="@get('/sse/refresh-all')">Refresh</button>`)
		b.WriteString(`</div>`)

		b.WriteString(`<div id="kpi-cards"></div>`)

		b.WriteString(`<div class="charts" data-effect="window.renderCharts($dashboard, $measure)">`)
		b.WriteString(`<div class="chart-panel"><h2>Monthly Trend</h2><canvas id="monthly-chart"></canvas></div>`)
		b.WriteString(`<div class="chart-panel"><h2>By Category</h2><canvas id="category-chart"></canvas></div>`)
		b.WriteString(`<div class="chart-panel"><h2>By Sub-Category</h2><canvas id="subcategory-chart"></canvas></div>`)
		b.WriteString(`<div class="chart-panel"><h2>By Segment</h2><canvas id="segment-chart"></canvas></div>`)
		b.WriteString(`<div class="chart-panel"><h2>By Ship Mode</h2><canvas id="shipmode-chart"></canvas></div>`)
		b.WriteString(`<div class="chart-panel"><h2>Top States</h2><canvas id="state-chart"></canvas></div>`)
		b.WriteString(`</div>`)

		b.WriteString(pageScript)
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
