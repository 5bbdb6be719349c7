package calc

import "pnl_projection/pkg/models"

// MonthlyRevenue is recognized revenue per month, split by channel.
type MonthlyRevenue struct {
	Online  [12]float64 `json:"online"`
	Offline [12]float64 `json:"offline"`
	Total   [12]float64 `json:"total"`
}

// KPIs are the headline scalars of a projection.
type KPIs struct {
	TotalRevenue   float64 `json:"total_revenue"`
	OnlineRevenue  float64 `json:"online_revenue"`
	OfflineRevenue float64 `json:"offline_revenue"`
	OP             float64 `json:"op"`
	OPMargin       float64 `json:"op_margin"`     // op / revenue
	Growth         float64 `json:"growth"`        // vs prior-year reference revenue
	Rule50         float64 `json:"rule50"`        // growth% + op margin%
	PayrollRatio   float64 `json:"payroll_ratio"` // annual payroll / revenue
}

// Annual P&L line labels.
const (
	LineBookings     = "체결액"
	LineRevenue      = "매출"
	LineVariableCost = "공헌 비용"
	LineContribution = "공헌 이익"
	LineFixedCost    = "고정비"
	LineOP           = "OP"
)

// SummaryRow is one line of the annual P&L. Online/Offline are nil for lines
// that are only meaningful in total (fixed costs, OP).
type SummaryRow struct {
	Label   string   `json:"label"`
	Online  *float64 `json:"online"`
	Offline *float64 `json:"offline"`
	Total   float64  `json:"total"`
}

// MetricRow is one line of the monthly P&L.
type MetricRow struct {
	Metric string      `json:"metric"`
	Months [12]float64 `json:"months"`
	Total  float64     `json:"total"`
}

// FixedCostItem is one annual fixed-cost line.
type FixedCostItem struct {
	Item   string  `json:"item"`
	Annual float64 `json:"annual"`
}

// ModuleRow is one generator's recognized revenue by channel.
type ModuleRow struct {
	Module  models.Module `json:"module"`
	Online  float64       `json:"online"`
	Offline float64       `json:"offline"`
	Total   float64       `json:"total"`
}

// CarryOver is revenue recognized after the target year ends.
type CarryOver struct {
	Label   string  `json:"label"`
	Online  float64 `json:"online"`
	Offline float64 `json:"offline"`
	Total   float64 `json:"total"`
	Deals   int     `json:"deals"`
}

// Report is everything the aggregator derives from one set of generated deals.
type Report struct {
	Year       int             `json:"year"`
	KPIs       KPIs            `json:"kpis"`
	Monthly    MonthlyRevenue  `json:"monthly_revenue"`
	Summary    []SummaryRow    `json:"pnl_summary"`
	CommonSize []SummaryRow    `json:"common_size"` // Summary as shares of revenue
	MonthlyPnL []MetricRow     `json:"monthly_pnl"`
	FixedCosts []FixedCostItem `json:"fixed_costs"`
	Modules    []ModuleRow     `json:"modules"`
	CarryOver  CarryOver       `json:"carry_over"`
}
