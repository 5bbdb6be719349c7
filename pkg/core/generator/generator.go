package generator

import (
	"sort"
	"time"

	"pnl_projection/pkg/core/lookup"
	"pnl_projection/pkg/core/projection"
	"pnl_projection/pkg/models"
)

// Scheduler supplies (lead, duration) days for a segment.
type Scheduler interface {
	Fetch(ch models.Channel, size models.Size, tier models.Tier) (lead, duration float64)
}

// Config carries the per-run constants shared by every generator.
type Config struct {
	Year              int         `json:"year" yaml:"target_year"`
	FixedPlanAccount  string      `json:"fixed_plan_account" yaml:"fixed_plan_account"`
	FixedPlanSize     models.Size `json:"fixed_plan_size" yaml:"fixed_plan_size"`
	FixedPlanCategory string      `json:"fixed_plan_category" yaml:"fixed_plan_category"`
}

// DefaultConfig projects 2026 with the standing enterprise plan account.
func DefaultConfig() Config {
	return Config{
		Year:              2026,
		FixedPlanAccount:  "삼성전자",
		FixedPlanSize:     models.SizeLarge,
		FixedPlanCategory: "삼성 플랜",
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Year == 0 {
		c.Year = def.Year
	}
	if c.FixedPlanAccount == "" {
		c.FixedPlanAccount = def.FixedPlanAccount
	}
	if c.FixedPlanSize == "" {
		c.FixedPlanSize = def.FixedPlanSize
	}
	if c.FixedPlanCategory == "" {
		c.FixedPlanCategory = def.FixedPlanCategory
	}
	return c
}

// Place attaches module tag and revenue recognition to a deal.
func Place(d models.Deal, module models.Module, year int) models.GeneratedDeal {
	monthly := projection.Allocate(d.Start, d.End, d.Amount, year)
	return models.GeneratedDeal{
		Deal:       d,
		Module:     module,
		Monthly:    monthly,
		Recognized: projection.Sum(monthly),
		CarryOver:  projection.AllocateAfter(d.Start, d.End, d.Amount, year),
	}
}

// RecognizedByChannel sums in-year revenue per channel.
func RecognizedByChannel(deals []models.GeneratedDeal) map[models.Channel]float64 {
	out := make(map[models.Channel]float64, len(models.Channels))
	for _, d := range deals {
		out[d.Channel] += d.Recognized
	}
	return out
}

// schedule places a service window after a close date.
func schedule(closed time.Time, lead, duration float64) (time.Time, time.Time) {
	start := models.AddDays(closed, lookup.SanitizeLead(lead))
	end := models.AddDays(start, lookup.SanitizeDuration(duration)-1)
	return start, end
}

// mode returns the most frequent non-empty value, smallest first on ties.
func mode(values []string, def string) string {
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return def
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}
