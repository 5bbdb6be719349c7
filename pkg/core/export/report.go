package export

import (
	"fmt"
	"html"
	"strings"

	"pnl_projection/pkg/core/pipeline"
	"pnl_projection/pkg/core/utils"
)

// Markdown renders the headline view of a run: KPIs, the annual P&L and its
// common-size view, module breakdown, carry-over, monthly P&L and fixed costs.
func Markdown(res *pipeline.Result) string {
	rep := res.Report
	k := rep.KPIs
	var b strings.Builder

	fmt.Fprintf(&b, "# %d Revenue Projection\n\n", res.Year)
	fmt.Fprintf(&b, "Run `%s`. %d deals generated from %d history rows (%d kept).\n\n",
		res.RunID, len(res.Deals), res.Preprocess.Read, res.Preprocess.Kept)

	b.WriteString("## KPIs\n\n| KPI | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Total revenue | %.1f |\n", k.TotalRevenue)
	fmt.Fprintf(&b, "| Online revenue | %.1f |\n", k.OnlineRevenue)
	fmt.Fprintf(&b, "| Offline revenue | %.1f |\n", k.OfflineRevenue)
	fmt.Fprintf(&b, "| OP | %.1f |\n", k.OP)
	fmt.Fprintf(&b, "| OP margin | %.1f%% |\n", k.OPMargin*100)
	fmt.Fprintf(&b, "| Growth | %.1f%% |\n", k.Growth*100)
	fmt.Fprintf(&b, "| Rule of 50 | %.1f |\n", k.Rule50)
	fmt.Fprintf(&b, "| Payroll ratio | %.1f%% |\n\n", k.PayrollRatio*100)

	writeSection(&b, "Annual P&L", SummaryTable(rep))
	writeSection(&b, "Share of Revenue", CommonSizeTable(rep))
	writeSection(&b, "Revenue by Module", ModuleTable(rep))
	writeSection(&b, "Carry-over", CarryOverTable(rep))
	writeSection(&b, "Monthly P&L", MonthlyPnLTable(rep))
	writeSection(&b, "Fixed Costs", FixedCostTable(rep))
	return b.String()
}

func writeSection(b *strings.Builder, title string, t Table) {
	fmt.Fprintf(b, "## %s\n\n", title)
	writeTable(b, t)
	b.WriteString("\n")
}

func writeTable(b *strings.Builder, t Table) {
	b.WriteString("|")
	for _, h := range t.Header {
		b.WriteString(" " + utils.EscapeCell(h) + " |")
	}
	b.WriteString("\n|")
	for i := range t.Header {
		if i == 0 {
			b.WriteString("---|")
		} else {
			b.WriteString("---:|")
		}
	}
	b.WriteString("\n")
	for _, row := range t.Strings() {
		b.WriteString("|")
		for _, c := range row {
			b.WriteString(" " + utils.EscapeCell(c) + " |")
		}
		b.WriteString("\n")
	}
}

// HTML renders the Markdown report as a standalone page.
func HTML(res *pipeline.Result) (string, error) {
	body, err := utils.RenderMarkdown(Markdown(res))
	if err != nil {
		return "", err
	}
	title := html.EscapeString(fmt.Sprintf("%d Revenue Projection", res.Year))
	return "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>" + title +
		"</title>\n<style>table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:2px 6px}</style>\n</head>\n<body>\n" +
		body + "</body>\n</html>\n", nil
}
