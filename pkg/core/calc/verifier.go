package calc

import (
	"fmt"
	"math"
)

// verifyTolerance absorbs float drift from month-by-month accumulation (eok).
const verifyTolerance = 1e-6

// VerificationResult holds the status of integrity checks
type VerificationResult struct {
	IsBalanced bool
	BalanceGap float64 // largest gap found
	Warnings   []string
}

func (v *VerificationResult) check(name string, got, want float64) {
	gap := got - want
	if math.Abs(gap) > math.Abs(v.BalanceGap) {
		v.BalanceGap = gap
	}
	if math.Abs(gap) >= verifyTolerance {
		v.IsBalanced = false
		v.Warnings = append(v.Warnings, fmt.Sprintf("%s out of balance by %.6f", name, gap))
	}
}

// CheckReport verifies that the tables of a report tie out:
// monthly revenue = KPI revenue, modules = revenue,
// revenue - variable cost = contribution, contribution - fixed = OP.
func CheckReport(rep *Report) VerificationResult {
	res := VerificationResult{IsBalanced: true}

	res.check("monthly revenue", sum(rep.Monthly.Total), rep.KPIs.TotalRevenue)

	var modules float64
	for _, m := range rep.Modules {
		modules += m.Total
	}
	res.check("module breakdown", modules, rep.KPIs.TotalRevenue)

	lines := make(map[string]float64, len(rep.Summary))
	for _, r := range rep.Summary {
		lines[r.Label] = r.Total
	}
	res.check("contribution", lines[LineRevenue]-lines[LineVariableCost], lines[LineContribution])
	res.check("operating profit", lines[LineContribution]-lines[LineFixedCost], lines[LineOP])
	res.check("KPI operating profit", lines[LineOP], rep.KPIs.OP)
	return res
}
