package projection

import (
	"time"

	"pnl_projection/pkg/models"
)

// Allocate prorates a booking evenly per service day and returns the portion
// recognized in each month of year. Days outside the year are dropped, so the
// sum equals amount only when the whole window lies inside the year.
func Allocate(start, end time.Time, amount float64, year int) [12]float64 {
	var monthly [12]float64
	if start.IsZero() || end.IsZero() || amount <= 0 {
		return monthly
	}
	totalDays := models.DaysBetween(start, end) + 1
	if totalDays <= 0 {
		return monthly
	}
	from, to, ok := clip(start, end, models.YearStart(year), models.YearEnd(year))
	if !ok {
		return monthly
	}

	daily := amount / float64(totalDays)
	for m := from.Month(); m <= to.Month(); m++ {
		monthStart := models.Date(year, m, 1)
		segStart, segEnd, ok := clip(from, to, monthStart, models.MonthEnd(monthStart))
		if !ok {
			continue
		}
		monthly[m-1] = daily * float64(models.DaysBetween(segStart, segEnd)+1)
	}
	return monthly
}

// AllocateAfter returns the part of a booking recognized after Dec 31 of year.
func AllocateAfter(start, end time.Time, amount float64, year int) float64 {
	if start.IsZero() || end.IsZero() || amount <= 0 {
		return 0
	}
	totalDays := models.DaysBetween(start, end) + 1
	if totalDays <= 0 {
		return 0
	}
	boundary := models.YearStart(year + 1)
	if end.Before(boundary) {
		return 0
	}
	from := start
	if from.Before(boundary) {
		from = boundary
	}
	return amount * float64(models.DaysBetween(from, end)+1) / float64(totalDays)
}

// Sum adds up a monthly vector.
func Sum(monthly [12]float64) float64 {
	var total float64
	for _, v := range monthly {
		total += v
	}
	return total
}

// Overlaps reports whether [start,end] touches year.
func Overlaps(start, end time.Time, year int) bool {
	_, _, ok := clip(start, end, models.YearStart(year), models.YearEnd(year))
	return ok
}

func clip(start, end, lo, hi time.Time) (time.Time, time.Time, bool) {
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	return start, end, !start.After(end)
}
