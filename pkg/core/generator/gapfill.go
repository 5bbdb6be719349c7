package generator

import (
	"fmt"
	"time"

	"pnl_projection/pkg/core/projection"
	"pnl_projection/pkg/models"
)

// gapFillCloseDay is the day of month synthetic new deals close on.
const gapFillCloseDay = 15

// quarterPattern holds the relative booking intensity per quarter.
var quarterPattern = map[models.Channel][4]float64{
	models.ChannelOnline:  {4, 2, 2, 4},
	models.ChannelOffline: {5, 3, 2, 2},
}

// MonthWeights spreads each quarter's share evenly over its months and
// normalizes to 1. The floating-point residual left by normalization is
// assigned to the largest weight (earliest month on ties).
func MonthWeights(ch models.Channel) [12]float64 {
	var w [12]float64
	q := quarterPattern[ch]
	var qTotal float64
	for _, v := range q {
		qTotal += v
	}
	if qTotal <= 0 {
		for m := range w {
			w[m] = 1.0 / 12
		}
		return normalize(w)
	}
	for m := range w {
		w[m] = q[m/3] / qTotal / 3
	}
	return normalize(w)
}

func normalize(w [12]float64) [12]float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	if s <= 0 {
		return w
	}
	largest := 0
	for m := range w {
		w[m] /= s
		if w[m] > w[largest] {
			largest = m
		}
	}
	var total float64
	for _, v := range w {
		total += v
	}
	w[largest] += 1 - total
	return w
}

// SizeShares splits a channel's gap by each size's prior-year booked share.
// Sizes without positive history are excluded; a channel with no history
// splits evenly over every size.
func SizeShares(history []models.Deal, ch models.Channel) map[models.Size]float64 {
	bySize := make(map[models.Size]float64)
	for _, d := range history {
		if d.Channel == ch {
			bySize[d.Size] += d.Amount
		}
	}
	var total float64
	for _, s := range models.Sizes {
		if bySize[s] > 0 {
			total += bySize[s]
		}
	}
	shares := make(map[models.Size]float64, len(models.Sizes))
	if total <= 0 {
		for _, s := range models.Sizes {
			shares[s] = 1.0 / float64(len(models.Sizes))
		}
		return shares
	}
	for _, s := range models.Sizes {
		if bySize[s] > 0 {
			shares[s] = bySize[s] / total
		}
	}
	return shares
}

// cell is one (size, month) slot of the gap-fill grid.
type cell struct {
	month      time.Month
	weight     float64
	start, end time.Time
	recog      float64
}

// GapFill synthesizes new deals so each channel's recognized revenue reaches
// its target. existing holds the recognized revenue already produced by the
// other generators.
func GapFill(history []models.Deal, sched Scheduler, in models.SimulationInputs, existing map[models.Channel]float64, cfg Config) []models.GeneratedDeal {
	var out []models.GeneratedDeal
	for _, ch := range models.Channels {
		gap := max(in.Target(ch)-existing[ch], 0)
		if gap <= 0 {
			fmt.Printf("[GAPFILL] %s: target met (existing=%.2f target=%.2f)\n", ch, existing[ch], in.Target(ch))
			continue
		}
		fmt.Printf("[GAPFILL] %s: gap=%.2f (existing=%.2f target=%.2f)\n", ch, gap, existing[ch], in.Target(ch))

		weights := MonthWeights(ch)
		shares := SizeShares(history, ch)
		for _, size := range models.Sizes {
			sizeGap := gap * shares[size]
			if sizeGap <= 0 {
				continue
			}
			out = append(out, fillSegment(ch, size, sizeGap, weights, sched, cfg)...)
		}
	}
	return out
}

// fillSegment backsolves one size segment: a single booking total B is chosen
// so that Σ_m B·w_m·r_m equals the segment gap, then split by month weight.
func fillSegment(ch models.Channel, size models.Size, sizeGap float64, weights [12]float64, sched Scheduler, cfg Config) []models.GeneratedDeal {
	cells := make([]cell, 0, 12)
	var denom float64
	for i, w := range weights {
		m := time.Month(i + 1)
		closed := models.Date(cfg.Year, m, gapFillCloseDay)
		lead, duration := sched.Fetch(ch, size, models.TierFor(sizeGap*w))
		start, end := schedule(closed, lead, duration)
		c := cell{month: m, weight: w, start: start, end: end, recog: projection.RecognitionFactor(start, end, cfg.Year)}
		denom += c.weight * c.recog
		cells = append(cells, c)
	}
	bookingTotal := projection.SolveBooking(sizeGap, denom)
	if bookingTotal <= 0 {
		fmt.Printf("[GAPFILL] %s/%s: skipped, no schedule recognizes revenue in %d\n", ch, size, cfg.Year)
		return nil
	}

	out := make([]models.GeneratedDeal, 0, len(cells))
	for _, c := range cells {
		amount := bookingTotal * c.weight
		if amount <= 0 {
			continue
		}
		closed := models.Date(cfg.Year, c.month, gapFillCloseDay)
		d := models.Deal{
			Company:  fmt.Sprintf("신규-%s-%s", ch, size),
			Size:     size,
			Channel:  ch,
			Format:   models.DefaultFormat(ch),
			Category: "신규",
			Closed:   closed,
			Start:    c.start,
			End:      c.end,
			Amount:   amount,
			Tier:     models.TierFor(amount),
			LeadDays: models.DaysBetween(closed, c.start),
			DurDays:  models.DaysBetween(c.start, c.end) + 1,
		}
		out = append(out, Place(d, models.ModuleNewDeals, cfg.Year))
	}
	return out
}
