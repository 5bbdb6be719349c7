package lookup

import (
	"fmt"
	"math"
	"sort"

	"pnl_projection/pkg/models"
)

// DefaultMinSample is the sample count a level needs before it is trusted.
const DefaultMinSample = 5

// FallbackDays is used for both lead and duration when no valid history exists.
const FallbackDays = 30.0

// Key identifies one bucket of the hierarchy.
type Key interface {
	level() int
	String() string
}

type Level3Key struct {
	Channel models.Channel
	Size    models.Size
	Tier    models.Tier
}

type Level2Key struct {
	Channel models.Channel
	Size    models.Size
}

type Level1Key struct {
	Channel models.Channel
}

func (Level3Key) level() int { return 3 }
func (Level2Key) level() int { return 2 }
func (Level1Key) level() int { return 1 }

func (k Level3Key) String() string { return fmt.Sprintf("%s/%s/%s", k.Channel, k.Size, k.Tier) }
func (k Level2Key) String() string { return fmt.Sprintf("%s/%s", k.Channel, k.Size) }
func (k Level1Key) String() string { return string(k.Channel) }

// Stats are the medians of one bucket.
type Stats struct {
	MedianLead     float64 `json:"median_lead"`
	MedianDuration float64 `json:"median_duration"`
	Count          int     `json:"count"`
}

// Lookup is the hierarchical median table built from historical deals.
type Lookup struct {
	stats          map[Key]Stats
	channelDefault map[models.Channel]Stats
	global         Stats
	minSample      int
}

type sample struct {
	lead, dur []float64
}

func (s *sample) add(lead, dur float64) {
	s.lead = append(s.lead, lead)
	s.dur = append(s.dur, dur)
}

func (s *sample) stats() Stats {
	return Stats{MedianLead: Median(s.lead), MedianDuration: Median(s.dur), Count: len(s.lead)}
}

// Build groups deals with positive lead and duration at three levels.
// minSample <= 0 selects DefaultMinSample.
func Build(deals []models.Deal, minSample int) *Lookup {
	if minSample <= 0 {
		minSample = DefaultMinSample
	}
	groups := make(map[Key]*sample)
	all := &sample{}
	bucket := func(k Key) *sample {
		s, ok := groups[k]
		if !ok {
			s = &sample{}
			groups[k] = s
		}
		return s
	}

	for _, d := range deals {
		if d.LeadDays <= 0 || d.DurDays <= 0 {
			continue
		}
		lead, dur := float64(d.LeadDays), float64(d.DurDays)
		bucket(Level3Key{d.Channel, d.Size, d.Tier}).add(lead, dur)
		bucket(Level2Key{d.Channel, d.Size}).add(lead, dur)
		bucket(Level1Key{d.Channel}).add(lead, dur)
		all.add(lead, dur)
	}

	l := &Lookup{
		stats:          make(map[Key]Stats, len(groups)),
		channelDefault: make(map[models.Channel]Stats),
		minSample:      minSample,
		global:         Stats{MedianLead: FallbackDays, MedianDuration: FallbackDays},
	}
	for k, s := range groups {
		st := s.stats()
		l.stats[k] = st
		if k1, ok := k.(Level1Key); ok {
			l.channelDefault[k1.Channel] = st
		}
	}
	if len(all.lead) > 0 {
		l.global = all.stats()
	}
	fmt.Printf("[LOOKUP] buckets=%d valid_samples=%d global_lead=%.1f global_duration=%.1f\n",
		len(l.stats), len(all.lead), l.global.MedianLead, l.global.MedianDuration)
	return l
}

// chainFor is the fixed fallback order for a query.
func chainFor(ch models.Channel, size models.Size, tier models.Tier) []Key {
	return []Key{
		Level3Key{ch, size, tier},
		Level2Key{ch, size},
		Level1Key{ch},
	}
}

// Fetch returns (lead, duration) days for a segment. It walks level 3 → 2 → 1,
// accepting the first bucket with at least MinSample rows, then falls back to
// the channel median and finally the global median.
func (l *Lookup) Fetch(ch models.Channel, size models.Size, tier models.Tier) (lead, duration float64) {
	for _, k := range chainFor(ch, size, tier) {
		if st, ok := l.stats[k]; ok && st.Count >= l.minSample {
			return st.MedianLead, st.MedianDuration
		}
	}
	if st, ok := l.channelDefault[ch]; ok {
		return st.MedianLead, st.MedianDuration
	}
	return l.global.MedianLead, l.global.MedianDuration
}

// Stats returns the raw bucket for a key.
func (l *Lookup) Stats(k Key) (Stats, bool) {
	st, ok := l.stats[k]
	return st, ok
}

// Global returns the global fallback medians.
func (l *Lookup) Global() Stats { return l.global }

// MinSample returns the trust threshold in effect.
func (l *Lookup) MinSample() int { return l.minSample }

// Row is one line of a median display table.
type Row struct {
	Channel        models.Channel `json:"channel"`
	Size           models.Size    `json:"size,omitempty"`
	Tier           models.Tier    `json:"tier,omitempty"`
	Format         string         `json:"format,omitempty"`
	Category       string         `json:"category,omitempty"`
	MedianLead     float64        `json:"median_lead"`
	MedianDuration float64        `json:"median_duration"`
	Count          int            `json:"count"`
}

// Level3Table lists every (channel, size, tier) bucket, sorted.
func (l *Lookup) Level3Table() []Row {
	var rows []Row
	for k, st := range l.stats {
		k3, ok := k.(Level3Key)
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Channel: k3.Channel, Size: k3.Size, Tier: k3.Tier,
			MedianLead: st.MedianLead, MedianDuration: st.MedianDuration, Count: st.Count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Channel != rows[j].Channel {
			return rows[i].Channel < rows[j].Channel
		}
		if rows[i].Size != rows[j].Size {
			return rows[i].Size < rows[j].Size
		}
		return rows[i].Tier < rows[j].Tier
	})
	return rows
}

// FormatCategoryTable lists lead/duration medians by (format, category)
// over the same valid rows the lookup uses.
func FormatCategoryTable(deals []models.Deal) []Row {
	type fc struct{ format, category string }
	groups := make(map[fc]*sample)
	for _, d := range deals {
		if d.LeadDays <= 0 || d.DurDays <= 0 {
			continue
		}
		k := fc{d.Format, d.Category}
		s, ok := groups[k]
		if !ok {
			s = &sample{}
			groups[k] = s
		}
		s.add(float64(d.LeadDays), float64(d.DurDays))
	}
	rows := make([]Row, 0, len(groups))
	for k, s := range groups {
		st := s.stats()
		rows = append(rows, Row{
			Channel: models.ChannelForFormat(k.format), Format: k.format, Category: k.category,
			MedianLead: st.MedianLead, MedianDuration: st.MedianDuration, Count: st.Count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Format != rows[j].Format {
			return rows[i].Format < rows[j].Format
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// Median returns the median of values, or 0 for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// SanitizeLead rounds a lead time half-to-even, floored at 0.
func SanitizeLead(v float64) int {
	return max(int(math.RoundToEven(v)), 0)
}

// SanitizeDuration rounds a duration half-to-even, floored at 1.
func SanitizeDuration(v float64) int {
	return max(int(math.RoundToEven(v)), 1)
}
