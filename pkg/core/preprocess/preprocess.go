package preprocess

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pnl_projection/pkg/models"
)

// Stats counts what happened to each raw row.
type Stats struct {
	Read           int `json:"read"`
	Kept           int `json:"kept"`
	NonRevenue     int `json:"non_revenue"`
	OutOfYear      int `json:"out_of_year"`
	NoServiceDates int `json:"no_service_dates"`
	NonPositive    int `json:"non_positive"`
}

// Result is the canonical historical dataset for one reference year.
type Result struct {
	Year  int           `json:"year"`
	Deals []models.Deal `json:"deals"`
	Stats Stats         `json:"stats"`
}

// ParseAmount converts a raw KRW amount string into eok. Unparseable input
// yields 0.
func ParseAmount(raw string) float64 {
	s := strings.NewReplacer(",", "", " ", "", "−", "-", "–", "-").Replace(strings.TrimSpace(raw))
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / models.WonPerEok
}

// Run normalizes a raw registry table into canonical deals closed in year.
// The only error is ErrMissingRequiredColumn.
func Run(t *models.RawTable, year int) (*Result, error) {
	schema, err := BuildSchema(t)
	if err != nil {
		return nil, err
	}

	res := &Result{Year: year, Deals: make([]models.Deal, 0, t.Len())}
	for row := 0; row < t.Len(); row++ {
		res.Stats.Read++

		if strings.Contains(schema.dealName.value(t, row), nonRevenueMarker) {
			res.Stats.NonRevenue++
			continue
		}

		created, hasCreated := models.ParseDate(schema.created.value(t, row))
		closed, ok := resolveClose(t, row, schema)
		if !ok || closed.Year() != year {
			res.Stats.OutOfYear++
			continue
		}

		start, okStart := models.ParseDate(schema.serviceStart.value(t, row))
		end, okEnd := models.ParseDate(schema.serviceEnd.value(t, row))
		if !okStart || !okEnd {
			res.Stats.NoServiceDates++
			continue
		}

		amount := ParseAmount(schema.amount.value(t, row))
		if amount <= 0 {
			res.Stats.NonPositive++
			continue
		}

		format := orDefault(schema.format.value(t, row), DefaultFormat)
		d := models.Deal{
			Company:  orDefault(schema.company.value(t, row), DefaultCompany),
			Size:     models.ParseSize(schema.size.value(t, row)),
			Channel:  models.ChannelForFormat(format),
			Format:   format,
			Category: orDefault(schema.category.value(t, row), DefaultCategory),
			Closed:   closed,
			Start:    start,
			End:      end,
			Amount:   amount,
			Tier:     models.TierFor(amount),
			DurDays:  max(models.DaysBetween(start, end)+1, 1),
		}
		if hasCreated {
			d.Created = created
			d.LeadDays = max(models.DaysBetween(created, closed), 0)
		}
		res.Deals = append(res.Deals, d)
	}
	res.Stats.Kept = len(res.Deals)

	fmt.Printf("[PREPROCESS] year=%d read=%d kept=%d non_revenue=%d out_of_year=%d no_service_dates=%d non_positive=%d\n",
		year, res.Stats.Read, res.Stats.Kept, res.Stats.NonRevenue, res.Stats.OutOfYear,
		res.Stats.NoServiceDates, res.Stats.NonPositive)
	return res, nil
}

// resolveClose picks the close date: contract date, then expected close,
// then creation date.
func resolveClose(t *models.RawTable, row int, s *Schema) (time.Time, bool) {
	for _, f := range []field{s.contract, s.expected, s.created} {
		if d, ok := models.ParseDate(f.value(t, row)); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func orDefault(v, def string) string {
	if v == "" || strings.EqualFold(v, "nan") {
		return def
	}
	return v
}

// SizeChannelRevenue pivots booked amounts by size and channel.
func SizeChannelRevenue(deals []models.Deal) map[models.Size]map[models.Channel]float64 {
	out := make(map[models.Size]map[models.Channel]float64)
	for _, d := range deals {
		row, ok := out[d.Size]
		if !ok {
			row = make(map[models.Channel]float64, len(models.Channels))
			out[d.Size] = row
		}
		row[d.Channel] += d.Amount
	}
	return out
}
