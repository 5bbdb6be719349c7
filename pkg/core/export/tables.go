package export

import (
	"time"

	"github.com/shopspring/decimal"

	"pnl_projection/pkg/core/calc"
	"pnl_projection/pkg/core/pipeline"
)

// Table is one named grid of a projection result. Cells hold string, int or
// float64 values; text formats render floats with Places decimals.
type Table struct {
	Name   string
	Header []string
	Rows   [][]interface{}
	Places int32
}

// Strings renders every row as text.
func (t Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = formatCell(v, t.Places)
		}
	}
	return out
}

func formatCell(v interface{}, places int32) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return decimal.NewFromFloat(x).StringFixed(places)
	case int:
		return decimal.NewFromInt(int64(x)).String()
	case time.Time:
		return formatDate(x)
	}
	return ""
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ===== RESULT TABLES =====

// DealTable lists every generated deal with its recognized revenue.
func DealTable(res *pipeline.Result) Table {
	t := Table{
		Name: "Deals",
		Header: []string{"module", "company", "size", "channel", "format", "category", "tier",
			"closed", "start", "end", "amount", "recognized", "carry_over"},
		Places: 4,
	}
	for _, d := range res.Deals {
		t.Rows = append(t.Rows, []interface{}{
			string(d.Module), d.Company, string(d.Size), string(d.Channel), d.Format, d.Category, string(d.Tier),
			formatDate(d.Closed), formatDate(d.Start), formatDate(d.End),
			d.Amount, d.Recognized, d.CarryOver,
		})
	}
	return t
}

// MonthlyPnLTable is the 19-line monthly P&L.
func MonthlyPnLTable(rep *calc.Report) Table {
	header := []string{"metric"}
	for m := 1; m <= 12; m++ {
		header = append(header, time.Month(m).String()[:3])
	}
	header = append(header, "total")

	t := Table{Name: "Monthly P&L", Header: header, Places: 2}
	for _, r := range rep.MonthlyPnL {
		row := []interface{}{r.Metric}
		for _, v := range r.Months {
			row = append(row, v)
		}
		t.Rows = append(t.Rows, append(row, r.Total))
	}
	return t
}

// SummaryTable is the annual P&L by channel.
func SummaryTable(rep *calc.Report) Table {
	t := Table{Name: "P&L Summary", Header: []string{"line", "online", "offline", "total"}, Places: 2}
	for _, r := range rep.Summary {
		t.Rows = append(t.Rows, []interface{}{r.Label, optional(r.Online), optional(r.Offline), r.Total})
	}
	return t
}

// CommonSizeTable is the annual P&L as shares of revenue.
func CommonSizeTable(rep *calc.Report) Table {
	t := Table{Name: "Common Size", Header: []string{"line", "online", "offline", "total"}, Places: 3}
	for _, r := range rep.CommonSize {
		t.Rows = append(t.Rows, []interface{}{r.Label, optional(r.Online), optional(r.Offline), r.Total})
	}
	return t
}

func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// FixedCostTable lists annual fixed-cost items.
func FixedCostTable(rep *calc.Report) Table {
	t := Table{Name: "Fixed Costs", Header: []string{"item", "annual"}, Places: 2}
	for _, f := range rep.FixedCosts {
		t.Rows = append(t.Rows, []interface{}{f.Item, f.Annual})
	}
	return t
}

// ModuleTable is recognized revenue per generator.
func ModuleTable(rep *calc.Report) Table {
	t := Table{Name: "Modules", Header: []string{"module", "online", "offline", "total"}, Places: 2}
	for _, m := range rep.Modules {
		t.Rows = append(t.Rows, []interface{}{string(m.Module), m.Online, m.Offline, m.Total})
	}
	return t
}

// CarryOverTable is revenue recognized after the target year.
func CarryOverTable(rep *calc.Report) Table {
	c := rep.CarryOver
	return Table{
		Name:   "Carry-over",
		Header: []string{"label", "online", "offline", "total", "deals"},
		Rows:   [][]interface{}{{c.Label, c.Online, c.Offline, c.Total, c.Deals}},
		Places: 2,
	}
}

// MedianTable lists lead/duration medians by channel, size and tier.
func MedianTable(res *pipeline.Result) Table {
	t := Table{
		Name:   "Lead-Duration Medians",
		Header: []string{"channel", "size", "tier", "median_lead", "median_duration", "count"},
		Places: 1,
	}
	for _, r := range res.MedianTable {
		t.Rows = append(t.Rows, []interface{}{string(r.Channel), string(r.Size), string(r.Tier), r.MedianLead, r.MedianDuration, r.Count})
	}
	return t
}

// FormatTable lists lead/duration medians by format and category.
func FormatTable(res *pipeline.Result) Table {
	t := Table{
		Name:   "Format-Category Medians",
		Header: []string{"format", "category", "median_lead", "median_duration", "count"},
		Places: 1,
	}
	for _, r := range res.FormatTable {
		t.Rows = append(t.Rows, []interface{}{r.Format, r.Category, r.MedianLead, r.MedianDuration, r.Count})
	}
	return t
}

// SizePivotTable is prior-year revenue by size and channel.
func SizePivotTable(res *pipeline.Result) Table {
	t := Table{Name: "Size-Channel", Header: []string{"size", "online", "offline", "total"}, Places: 2}
	for _, r := range res.SizePivot {
		t.Rows = append(t.Rows, []interface{}{string(r.Size), r.Online, r.Offline, r.Total})
	}
	return t
}

// AllTables returns every table of a result in workbook order.
func AllTables(res *pipeline.Result) []Table {
	return []Table{
		DealTable(res),
		MonthlyPnLTable(res.Report),
		SummaryTable(res.Report),
		CommonSizeTable(res.Report),
		FixedCostTable(res.Report),
		ModuleTable(res.Report),
		CarryOverTable(res.Report),
		MedianTable(res),
		FormatTable(res),
		SizePivotTable(res),
	}
}
