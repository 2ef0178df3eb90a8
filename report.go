package perfolio

import (
	"strings"
	"text/template"
)

// reportTemplate renders CurrentPositions as a markdown summary. Terminal
// styling of the markdown is the CLI's concern.
const reportTemplate = `# Portfolio on {{.Date}}

Strategy: {{.Strategy}}{{if .Approximate}} (approximate, fell back to time-weighted){{end}}

| Instrument | Quantity | Invested | Value | Net Perf. | TWR |
|---|---:|---:|---:|---:|---:|
{{- range .Positions}}
| {{.Instrument}} | {{.Quantity}} | {{display .InvestedCapital}} | {{display .MarketValue}} | {{display .NetPerformance}} | {{signed .TimeWeightedReturn}} |
{{- end}}

**Total invested** {{display .TotalInvestedCapital}}, **value** {{display .TotalCurrentValue}}, **net** {{display .NetPerformance}} ({{signed .NetPerformancePercentage}})

Time-weighted return: {{signed .TimeWeightedReturn}}
{{- if .MoneyWeightedReturn}}
Money-weighted return: {{signed .MoneyWeightedReturn}}
{{- end}}
{{- if .Warnings}}

> Warnings:
{{- range .Warnings}}
> - {{.}}
{{- end}}
{{- end}}
`

// RenderReport renders the positions result as a markdown document.
func RenderReport(cp *CurrentPositions) (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"display": Money.Display,
		"signed":  Percent.SignedString,
	}).Parse(reportTemplate)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, cp); err != nil {
		return "", err
	}
	return sb.String(), nil
}
