// Package dashboard renders the processed tables into one self-contained
// HTML page: KPI cards, a preventable-events bar by diagnosis, a risk-tier
// donut, and the intervention simulation as a bar plus a table. Charts use
// plotly.js from its CDN; everything else is inline, so the file opens
// offline.
package dashboard

import (
	"fmt"
	"html/template"
	"io"
	"sort"

	"readmitstats/model"
)

const pageTitle = "Value-Based Care Analytics — Preventable Readmissions & Cost Leakage (Synthetic Data)"

// topDiagnoses caps the diagnosis bar at the groups with the most
// preventable readmission events.
const topDiagnoses = 8

// Data is everything the page shows.
type Data struct {
	KPI       model.KPIRow
	Diagnosis []model.DiagnosisSummaryRow
	Risk      []model.RiskScoreRow
	ROI       []model.ROIRow
}

type roiTableRow struct {
	Intervention string
	Reduction    string
	Savings      string
	Cost         string
	Net          string
	ROI          string
}

type view struct {
	Title            string
	AsOfDate         string
	RatePct          string
	PreventableSpend string
	DxLabels         []string
	DxValues         []int32
	TierLabels       []string
	TierValues       []int
	ROILabels        []string
	ROIValues        []float64
	ROIRows          []roiTableRow
}

// Render writes the dashboard for d to w. Diagnosis rows are re-ranked by
// preventable events and ROI rows by net savings, so the page is stable no
// matter how the input tables were sorted on disk.
func Render(w io.Writer, d Data) error {
	v := view{
		Title:            pageTitle,
		AsOfDate:         d.KPI.AsOfDate,
		RatePct:          fmt.Sprintf("%.2f%%", d.KPI.ReadmissionRate30d*100),
		PreventableSpend: fmt.Sprintf("$%.2f", d.KPI.PreventableReadmitPaid),
		TierLabels:       []string{model.TierHigh, model.TierMedium, model.TierLow},
	}

	dx := append([]model.DiagnosisSummaryRow(nil), d.Diagnosis...)
	sort.SliceStable(dx, func(i, j int) bool {
		return dx[i].PreventableReadmEvents > dx[j].PreventableReadmEvents
	})
	if len(dx) > topDiagnoses {
		dx = dx[:topDiagnoses]
	}
	for _, row := range dx {
		v.DxLabels = append(v.DxLabels, row.ConditionGroup)
		v.DxValues = append(v.DxValues, row.PreventableReadmEvents)
	}

	tiers := make(map[string]int, 3)
	for _, r := range d.Risk {
		tiers[r.Tier]++
	}
	v.TierValues = []int{tiers[model.TierHigh], tiers[model.TierMedium], tiers[model.TierLow]}

	roi := append([]model.ROIRow(nil), d.ROI...)
	sort.SliceStable(roi, func(i, j int) bool {
		return roi[i].EstimatedNetSavings > roi[j].EstimatedNetSavings
	})
	for _, r := range roi {
		v.ROILabels = append(v.ROILabels, r.Intervention)
		v.ROIValues = append(v.ROIValues, r.EstimatedNetSavings)
		v.ROIRows = append(v.ROIRows, roiTableRow{
			Intervention: r.Intervention,
			Reduction:    fmt.Sprintf("%.1f%%", r.ReductionPct*100),
			Savings:      fmt.Sprintf("$%.2f", r.EstimatedSavings),
			Cost:         fmt.Sprintf("$%.2f", r.EstimatedProgramCost),
			Net:          fmt.Sprintf("$%.2f", r.EstimatedNetSavings),
			ROI:          fmt.Sprintf("%.2f", r.ROI),
		})
	}

	return page.Execute(w, v)
}

var page = template.Must(template.New("dashboard").Parse(pageHTML))

const pageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 24px; color: #1f2430; }
  h1 { font-size: 22px; margin-bottom: 18px; }
  .cards { display: flex; gap: 16px; margin-bottom: 24px; }
  .card { flex: 1; border: 1px solid #d9dde3; border-radius: 8px; padding: 16px 20px; }
  .card .label { color: #5a6372; margin-bottom: 6px; }
  .card .value { font-size: 34px; font-weight: 600; }
  .card .sub { color: #8a93a3; font-size: 13px; margin-top: 4px; }
  .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 24px; }
  .panel h2 { font-size: 15px; color: #39404d; }
  table.roi { border-collapse: collapse; width: 100%; font-size: 13px; }
  table.roi th, table.roi td { border: 1px solid #d9dde3; padding: 6px 10px; text-align: right; }
  table.roi th { background: #f2f4f7; }
  table.roi th:first-child, table.roi td:first-child { text-align: left; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<div class="cards">
  <div class="card" id="kpi-readmission-rate">
    <div class="label">30-Day Readmission Rate</div>
    <div class="value">{{.RatePct}}</div>
    {{if .AsOfDate}}<div class="sub">As of {{.AsOfDate}}</div>{{end}}
  </div>
  <div class="card" id="kpi-preventable-spend">
    <div class="label">Preventable Readmission Spend</div>
    <div class="value">{{.PreventableSpend}}</div>
  </div>
</div>

<div class="grid">
  <div class="panel">
    <h2>Top Diagnoses: Preventable Readmission Events</h2>
    <div id="diagnosis-chart"></div>
  </div>
  <div class="panel">
    <h2>Risk Tier Distribution</h2>
    <div id="tier-chart"></div>
  </div>
  <div class="panel">
    <h2>Intervention: Net Savings (Simulation)</h2>
    <div id="roi-chart"></div>
  </div>
  <div class="panel">
    <h2>Top ROI Interventions</h2>
    <table class="roi">
      <thead>
        <tr><th>Intervention</th><th>Reduction</th><th>Savings</th><th>Program Cost</th><th>Net Savings</th><th>ROI</th></tr>
      </thead>
      <tbody>
        {{range .ROIRows}}<tr>
          <td>{{.Intervention}}</td>
          <td>{{.Reduction}}</td>
          <td>{{.Savings}}</td>
          <td>{{.Cost}}</td>
          <td>{{.Net}}</td>
          <td>{{.ROI}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </div>
</div>

<script>
Plotly.newPlot("diagnosis-chart",
  [{type: "bar", x: {{.DxLabels}}, y: {{.DxValues}}}],
  {margin: {t: 10, l: 40, r: 10, b: 80}, height: 320});
Plotly.newPlot("tier-chart",
  [{type: "pie", labels: {{.TierLabels}}, values: {{.TierValues}}, hole: 0.45}],
  {margin: {t: 10, l: 10, r: 10, b: 10}, height: 320});
Plotly.newPlot("roi-chart",
  [{type: "bar", x: {{.ROILabels}}, y: {{.ROIValues}}}],
  {margin: {t: 10, l: 60, r: 10, b: 80}, height: 320});
</script>
</body>
</html>
`
