package calc

import (
	"testing"

	"pnl_projection/pkg/models"
)

func TestCheckReport_Balanced(t *testing.T) {
	rep := NewAggregator(2026, 150).Aggregate([]models.GeneratedDeal{
		generated(models.ModuleBacklog, models.ChannelOnline, 1, 12.5),
		generated(models.ModuleUpsell, models.ChannelOffline, 3, 7.25),
		generated(models.ModuleNewDeals, models.ChannelOffline, 11, 30),
	}, models.DefaultInputs())

	res := CheckReport(rep)
	if !res.IsBalanced {
		t.Errorf("expected balanced report, warnings: %v", res.Warnings)
	}
}

func TestCheckReport_DetectsGap(t *testing.T) {
	rep := NewAggregator(2026, 150).Aggregate([]models.GeneratedDeal{
		generated(models.ModuleBacklog, models.ChannelOnline, 1, 10),
	}, models.DefaultInputs())
	rep.Modules[0].Total += 1

	res := CheckReport(rep)
	if res.IsBalanced {
		t.Fatalf("expected an imbalance")
	}
	if len(res.Warnings) != 1 || res.BalanceGap != 1 {
		t.Errorf("warnings = %v, gap = %f", res.Warnings, res.BalanceGap)
	}
}
