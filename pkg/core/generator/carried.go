package generator

import (
	"time"

	"pnl_projection/pkg/core/projection"
	"pnl_projection/pkg/models"
)

// retentionShiftDays moves a prior-year deal onto the same calendar slot a year later.
const retentionShiftDays = 365

// Backlog carries prior-year deals whose service window reaches into the
// target year.
func Backlog(history []models.Deal, cfg Config) []models.GeneratedDeal {
	var out []models.GeneratedDeal
	for _, d := range history {
		if !projection.Overlaps(d.Start, d.End, cfg.Year) {
			continue
		}
		out = append(out, Place(d, models.ModuleBacklog, cfg.Year))
	}
	return out
}

// FixedPlan books one deal per month and channel for the standing plan
// account, each spanning its calendar month.
func FixedPlan(in models.SimulationInputs, cfg Config) []models.GeneratedDeal {
	var out []models.GeneratedDeal
	for m := time.January; m <= time.December; m++ {
		monthStart := models.Date(cfg.Year, m, 1)
		monthEnd := models.MonthEnd(monthStart)
		for _, ch := range models.Channels {
			amount := in.FixedPlan(ch)
			if amount <= 0 {
				continue
			}
			d := models.Deal{
				Company:  cfg.FixedPlanAccount,
				Size:     cfg.FixedPlanSize,
				Channel:  ch,
				Format:   models.DefaultFormat(ch),
				Category: cfg.FixedPlanCategory,
				Closed:   monthStart,
				Start:    monthStart,
				End:      monthEnd,
				Amount:   amount,
				Tier:     models.TierFor(amount),
				DurDays:  models.DaysBetween(monthStart, monthEnd) + 1,
			}
			out = append(out, Place(d, models.ModuleFixedPlan, cfg.Year))
		}
	}
	return out
}

// Retention assumes every prior-year online customer other than the plan
// account renews on the same schedule one year later.
func Retention(history []models.Deal, cfg Config) []models.GeneratedDeal {
	var out []models.GeneratedDeal
	for _, d := range history {
		if d.Channel != models.ChannelOnline || d.Company == cfg.FixedPlanAccount {
			continue
		}
		d.Closed = models.AddDays(d.Closed, retentionShiftDays)
		d.Start = models.AddDays(d.Start, retentionShiftDays)
		d.End = models.AddDays(d.End, retentionShiftDays)
		if !d.Created.IsZero() {
			d.Created = models.AddDays(d.Created, retentionShiftDays)
		}
		if !projection.Overlaps(d.Start, d.End, cfg.Year) {
			continue
		}
		out = append(out, Place(d, models.ModuleRetention, cfg.Year))
	}
	return out
}
