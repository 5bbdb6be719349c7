package calc

import (
	"fmt"

	"pnl_projection/pkg/models"
)

// =============================================================================
// P&L AGGREGATION
// =============================================================================

// Aggregator turns generated deals into a P&L for one target year.
type Aggregator struct {
	Year         int
	Costs        models.CostModel
	PriorRevenue float64 // reference revenue for growth
}

// NewAggregator uses the default cost model.
func NewAggregator(year int, priorRevenue float64) *Aggregator {
	return &Aggregator{Year: year, Costs: models.DefaultCostModel(), PriorRevenue: priorRevenue}
}

// fixedCosts are the monthly fixed-cost vectors.
type fixedCosts struct {
	production, marketing, payroll, rent, other, total [12]float64
}

func (a *Aggregator) fixed(in models.SimulationInputs, offline [12]float64) fixedCosts {
	var fc fixedCosts
	for m := 0; m < 12; m++ {
		fc.production[m] = a.Costs.MonthlyProduction
		fc.marketing[m] = in.MonthlyMarketing
		fc.payroll[m] = in.MonthlyPayroll
		fc.rent[m] = in.MonthlyPayroll * a.Costs.RentRatio
		fc.other[m] = a.Costs.MonthlyOtherBase + offline[m]*a.Costs.OtherOfflineRatio
		fc.total[m] = fc.production[m] + fc.marketing[m] + fc.payroll[m] + fc.rent[m] + fc.other[m]
	}
	return fc
}

// Aggregate builds the full report. An empty deal set yields a zero-valued
// report with every table populated.
func (a *Aggregator) Aggregate(deals []models.GeneratedDeal, in models.SimulationInputs) *Report {
	rep := &Report{Year: a.Year}

	var bookOnline, bookOffline [12]float64
	for _, d := range deals {
		for m, v := range d.Monthly {
			if d.Channel == models.ChannelOnline {
				rep.Monthly.Online[m] += v
			} else {
				rep.Monthly.Offline[m] += v
			}
		}
		if d.Amount > 0 && !d.Closed.IsZero() && d.Closed.Year() == a.Year {
			if d.Channel == models.ChannelOnline {
				bookOnline[d.Closed.Month()-1] += d.Amount
			} else {
				bookOffline[d.Closed.Month()-1] += d.Amount
			}
		}
	}
	rep.Monthly.Total = addVec(rep.Monthly.Online, rep.Monthly.Offline)

	online, offline := sum(rep.Monthly.Online), sum(rep.Monthly.Offline)
	total := online + offline

	onlineContrib := scaleVec(rep.Monthly.Online, in.OnlineMargin)
	offlineContrib := scaleVec(rep.Monthly.Offline, in.OfflineMargin)
	onlineVar := subVec(rep.Monthly.Online, onlineContrib)
	offlineVar := subVec(rep.Monthly.Offline, offlineContrib)
	contrib := addVec(onlineContrib, offlineContrib)
	variable := addVec(onlineVar, offlineVar)
	fc := a.fixed(in, rep.Monthly.Offline)
	op := subVec(contrib, fc.total)

	fixedTotal := sum(fc.total)
	opTotal := sum(contrib) - fixedTotal
	annualPayroll := sum(fc.payroll)

	rep.KPIs = KPIs{
		TotalRevenue:   total,
		OnlineRevenue:  online,
		OfflineRevenue: offline,
		OP:             opTotal,
		OPMargin:       safeDiv(opTotal, total),
		PayrollRatio:   safeDiv(annualPayroll, total),
	}
	if a.PriorRevenue != 0 {
		rep.KPIs.Growth = total/a.PriorRevenue - 1
	}
	rep.KPIs.Rule50 = rep.KPIs.Growth*100 + rep.KPIs.OPMargin*100

	bookings := addVec(bookOnline, bookOffline)
	rep.Summary = []SummaryRow{
		{Label: LineBookings, Online: ptr(sum(bookOnline)), Offline: ptr(sum(bookOffline)), Total: sum(bookings)},
		{Label: LineRevenue, Online: ptr(online), Offline: ptr(offline), Total: total},
		{Label: LineVariableCost, Online: ptr(sum(onlineVar)), Offline: ptr(sum(offlineVar)), Total: sum(variable)},
		{Label: LineContribution, Online: ptr(sum(onlineContrib)), Offline: ptr(sum(offlineContrib)), Total: sum(contrib)},
		{Label: LineFixedCost, Total: fixedTotal},
		{Label: LineOP, Total: opTotal},
	}
	rep.CommonSize = CommonSize(rep.Summary)

	rep.MonthlyPnL = []MetricRow{
		metric("체결액(억)", bookings),
		metric("└ 온라인 체결액(억)", bookOnline),
		metric("└ 출강 체결액(억)", bookOffline),
		metric("총매출(억)", rep.Monthly.Total),
		metric("└ 온라인 매출(억)", rep.Monthly.Online),
		metric("└ 출강 매출(억)", rep.Monthly.Offline),
		metric("공헌비용 합계(억)", variable),
		metric("└ 온라인 공헌비용(억)", onlineVar),
		metric("└ 출강 공헌비용(억)", offlineVar),
		metric("공헌이익 합계(억)", contrib),
		metric("└ 온라인 공헌이익(억)", onlineContrib),
		metric("└ 출강 공헌이익(억)", offlineContrib),
		metric("고정비 합계(억)", fc.total),
		metric("└ 제작비(억)", fc.production),
		metric("└ 마케팅비(억)", fc.marketing),
		metric("└ 인건비(억)", fc.payroll),
		metric("└ 임대료(억)", fc.rent),
		metric("└ 기타비용(억)", fc.other),
		metric("OP(억)", op),
	}

	rep.FixedCosts = []FixedCostItem{
		{Item: "제작비", Annual: sum(fc.production)},
		{Item: "마케팅비", Annual: sum(fc.marketing)},
		{Item: "인건비", Annual: annualPayroll},
		{Item: "임대료", Annual: sum(fc.rent)},
		{Item: "기타비용", Annual: sum(fc.other)},
	}

	rep.Modules = ModuleBreakdown(deals)
	rep.CarryOver = CarryOverTable(deals, a.Year)

	fmt.Printf("[AGGREGATE] year=%d deals=%d revenue=%.2f op=%.2f op_margin=%.3f carry_over=%.2f\n",
		a.Year, len(deals), total, opTotal, rep.KPIs.OPMargin, rep.CarryOver.Total)
	return rep
}

// ModuleBreakdown sums recognized revenue per generator, in pipeline order.
// Modules that produced nothing are omitted.
func ModuleBreakdown(deals []models.GeneratedDeal) []ModuleRow {
	byModule := make(map[models.Module]*ModuleRow)
	for _, d := range deals {
		row, ok := byModule[d.Module]
		if !ok {
			row = &ModuleRow{Module: d.Module}
			byModule[d.Module] = row
		}
		if d.Channel == models.ChannelOnline {
			row.Online += d.Recognized
		} else {
			row.Offline += d.Recognized
		}
		row.Total += d.Recognized
	}
	rows := make([]ModuleRow, 0, len(byModule))
	for _, m := range models.Modules {
		if row, ok := byModule[m]; ok {
			rows = append(rows, *row)
		}
	}
	return rows
}

// CarryOverTable totals revenue whose recognition falls after Dec 31 of year.
func CarryOverTable(deals []models.GeneratedDeal, year int) CarryOver {
	co := CarryOver{Label: fmt.Sprintf("%d→%d 이월", year, year+1)}
	for _, d := range deals {
		if d.CarryOver <= 0 {
			continue
		}
		co.Deals++
		if d.Channel == models.ChannelOnline {
			co.Online += d.CarryOver
		} else {
			co.Offline += d.CarryOver
		}
	}
	co.Total = co.Online + co.Offline
	return co
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func ptr(v float64) *float64 { return &v }

func metric(name string, months [12]float64) MetricRow {
	return MetricRow{Metric: name, Months: months, Total: sum(months)}
}

func sum(v [12]float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func addVec(a, b [12]float64) [12]float64 {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

func subVec(a, b [12]float64) [12]float64 {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

func scaleVec(a [12]float64, k float64) [12]float64 {
	for i := range a {
		a[i] *= k
	}
	return a
}
