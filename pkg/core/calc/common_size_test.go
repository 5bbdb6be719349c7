package calc

import (
	"math"
	"testing"

	"pnl_projection/pkg/models"
)

func TestCommonSize(t *testing.T) {
	rep := NewAggregator(2026, 150).Aggregate([]models.GeneratedDeal{
		generated(models.ModuleBacklog, models.ChannelOnline, 1, 100),
		generated(models.ModuleNewDeals, models.ChannelOffline, 6, 100),
	}, models.DefaultInputs())

	rows := map[string]SummaryRow{}
	for _, r := range rep.CommonSize {
		rows[r.Label] = r
	}
	if _, ok := rows[LineBookings]; ok {
		t.Errorf("bookings should not appear in the common-size view")
	}
	if rows[LineRevenue].Total != 1 {
		t.Errorf("revenue share = %f, want 1", rows[LineRevenue].Total)
	}
	contrib := rows[LineContribution]
	if math.Abs(*contrib.Online-0.85) > tol || math.Abs(*contrib.Offline-0.55) > tol {
		t.Errorf("contribution shares = %f/%f, want margins", *contrib.Online, *contrib.Offline)
	}
	if math.Abs(contrib.Total-0.7) > tol {
		t.Errorf("blended contribution share = %f, want 0.7", contrib.Total)
	}
	if rows[LineFixedCost].Online != nil {
		t.Errorf("fixed cost has no channel split")
	}
	if math.Abs(rows[LineOP].Total-rep.KPIs.OPMargin) > tol {
		t.Errorf("OP share %f should equal OP margin %f", rows[LineOP].Total, rep.KPIs.OPMargin)
	}
}

func TestCommonSize_ZeroRevenue(t *testing.T) {
	rep := NewAggregator(2026, 150).Aggregate(nil, models.DefaultInputs())
	for _, r := range rep.CommonSize {
		if r.Total != 0 {
			t.Errorf("%s share = %f, want 0", r.Label, r.Total)
		}
	}
}
