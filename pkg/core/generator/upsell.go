package generator

import (
	"math"
	"sort"
	"time"

	"pnl_projection/pkg/models"
)

// upsellCloseDay is the day of month every projected upsell closes on.
const upsellCloseDay = 15

// UpsellMultiplier grows small accounts faster than large ones.
func UpsellMultiplier(total float64) float64 {
	switch {
	case total >= 1.0:
		return 1.1
	case total >= 0.5:
		return 1.25
	case total >= 0.25:
		return 1.5
	}
	return 2.0
}

type account struct {
	total      float64
	months     []int
	sizes      []string
	formats    []string
	categories []string
}

// Upsell projects one expanded offline deal per prior-year offline account,
// excluding the plan account.
func Upsell(history []models.Deal, sched Scheduler, cfg Config) []models.GeneratedDeal {
	accounts := make(map[string]*account)
	for _, d := range history {
		if d.Channel != models.ChannelOffline || d.Company == cfg.FixedPlanAccount {
			continue
		}
		a, ok := accounts[d.Company]
		if !ok {
			a = &account{}
			accounts[d.Company] = a
		}
		a.total += d.Amount
		a.months = append(a.months, int(d.Closed.Month()))
		a.sizes = append(a.sizes, string(d.Size))
		a.formats = append(a.formats, d.Format)
		a.categories = append(a.categories, d.Category)
	}

	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []models.GeneratedDeal
	for _, name := range names {
		a := accounts[name]
		if a.total <= 0 || len(a.months) == 0 {
			continue
		}
		amount := a.total * UpsellMultiplier(a.total)
		size := models.ParseSize(mode(a.sizes, string(models.SizeLarge)))
		tier := models.TierFor(amount)

		closed := models.Date(cfg.Year, time.Month(representativeMonth(a.months)), upsellCloseDay)
		lead, duration := sched.Fetch(models.ChannelOffline, size, tier)
		start, end := schedule(closed, lead, duration)

		d := models.Deal{
			Company:  name,
			Size:     size,
			Channel:  models.ChannelOffline,
			Format:   mode(a.formats, "출강"),
			Category: mode(a.categories, "Upsell"),
			Closed:   closed,
			Start:    start,
			End:      end,
			Amount:   amount,
			Tier:     tier,
			LeadDays: models.DaysBetween(closed, start),
			DurDays:  models.DaysBetween(start, end) + 1,
		}
		out = append(out, Place(d, models.ModuleUpsell, cfg.Year))
	}
	return out
}

// representativeMonth is the arithmetic mean of close months, rounded half to
// even and clamped to [1,12]. It is not circular: December and January
// average to mid-year.
func representativeMonth(months []int) int {
	var sum float64
	for _, m := range months {
		sum += float64(m)
	}
	avg := int(math.RoundToEven(sum / float64(len(months))))
	return min(max(avg, 1), 12)
}
