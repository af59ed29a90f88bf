package handler

import "html/template"

// reportHTML renders the clause risk dashboard for a completed analysis.
const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Risk Report - {{.Filename}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f6f8; color: #1f2430; }
  .container { max-width: 960px; margin: 0 auto; padding: 24px; }
  h1 { font-size: 22px; margin-bottom: 4px; }
  .meta { color: #6b7280; font-size: 13px; margin-bottom: 24px; }
  .summary { display: flex; gap: 16px; margin-bottom: 28px; flex-wrap: wrap; }
  .card { background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 16px 20px; flex: 1; min-width: 180px; }
  .card .label { font-size: 12px; text-transform: uppercase; color: #6b7280; letter-spacing: .05em; }
  .card .value { font-size: 28px; font-weight: 600; margin-top: 4px; }
  .badge { display: inline-block; padding: 2px 10px; border-radius: 999px; font-size: 12px; font-weight: 600; }
  .badge.low { background: #dcfce7; color: #166534; }
  .badge.medium { background: #fef9c3; color: #854d0e; }
  .badge.high { background: #fee2e2; color: #991b1b; }
  .clause { background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 18px 20px; margin-bottom: 14px; }
  .clause .head { display: flex; justify-content: space-between; align-items: center; margin-bottom: 10px; }
  .clause .type { font-weight: 600; }
  .clause .score { font-size: 14px; color: #6b7280; }
  .clause blockquote { margin: 0 0 10px; padding: 10px 14px; background: #f9fafb; border-left: 3px solid #d1d5db; font-size: 14px; }
  .clause .section { font-size: 13px; margin-top: 8px; }
  .clause .section b { color: #374151; }
  .dist { font-size: 13px; color: #374151; }
  .dist span { margin-right: 14px; }
</style>
</head>
<body>
<div class="container">
  <h1>Contract Risk Report</h1>
  <div class="meta">{{.Filename}} &middot; analyzed {{.AnalyzedAt}}</div>

  <div class="summary">
    <div class="card">
      <div class="label">Overall Risk</div>
      <div class="value">{{printf "%.2f" .OverallRiskScore}} / 10</div>
      <span class="badge {{.OverallLevel}}">{{.OverallLevel}}</span>
    </div>
    <div class="card">
      <div class="label">Clauses Flagged</div>
      <div class="value">{{len .Clauses}}</div>
    </div>
    <div class="card">
      <div class="label">Risk Levels</div>
      <div class="dist">
        <span class="badge high">high: {{.Levels.high}}</span>
        <span class="badge medium">medium: {{.Levels.medium}}</span>
        <span class="badge low">low: {{.Levels.low}}</span>
      </div>
    </div>
  </div>

  {{if .Clauses}}
  {{range .Clauses}}
  <div class="clause">
    <div class="head">
      <span class="type">{{.RiskType}} <span class="badge {{.Level}}">{{.Level}}</span></span>
      <span class="score">score {{.RiskScore}}/10 &middot; confidence {{.ConfidencePct}}</span>
    </div>
    <blockquote>{{.Text}}</blockquote>
    <div class="section"><b>Why this is risky:</b> {{.Reasoning}}</div>
    {{if .SuggestedRevision}}<div class="section"><b>Suggested revision:</b> {{.SuggestedRevision}}</div>{{end}}
  </div>
  {{end}}
  {{else}}
  <div class="clause">No risky clauses were identified in this contract.</div>
  {{end}}
</div>
</body>
</html>`

// ReportTemplate parses the report template for gin's HTML renderer.
func ReportTemplate() *template.Template {
	return template.Must(template.New("report.html").Parse(reportHTML))
}
