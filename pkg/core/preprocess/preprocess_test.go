package preprocess

import (
	"errors"
	"math"
	"testing"

	"pnl_projection/pkg/models"
)

func table(header []string, rows ...[]string) *models.RawTable {
	return &models.RawTable{Header: header, Records: rows}
}

var fullHeader = []string{
	ColCompany, ColSize, ColFormat, ColCategory, ColCreated, ColContract,
	ColExpected, ColServiceStart, ColServiceEnd, ColAmount, ColDealName,
}

func TestRun_CanonicalRow(t *testing.T) {
	tbl := table(fullHeader,
		[]string{"A사", "중견기업", "구독제(온라인)", "AI", "2025-01-10", "2025-02-01", "", "2025-03-01", "2025-03-31", "60,000,000", "A사 딜"},
	)
	res, err := Run(tbl, 2025)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Deals) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(res.Deals))
	}
	d := res.Deals[0]
	if math.Abs(d.Amount-0.6) > 1e-9 {
		t.Errorf("Amount: expected 0.6, got %f", d.Amount)
	}
	if d.Channel != models.ChannelOnline {
		t.Errorf("Channel: expected online, got %s", d.Channel)
	}
	if d.Size != models.SizeMid {
		t.Errorf("Size: expected 중견기업, got %s", d.Size)
	}
	if d.Tier != models.TierS2 {
		t.Errorf("Tier: expected S2, got %s", d.Tier)
	}
	if d.DurDays != 31 {
		t.Errorf("DurDays: expected 31, got %d", d.DurDays)
	}
	// close (2025-02-01) - creation (2025-01-10)
	if d.LeadDays != 22 {
		t.Errorf("LeadDays: expected 22, got %d", d.LeadDays)
	}
}

func TestRun_MissingAmountColumn(t *testing.T) {
	tbl := table([]string{ColCompany, ColServiceStart}, []string{"A사", "2025-01-01"})
	_, err := Run(tbl, 2025)
	if !errors.Is(err, ErrMissingRequiredColumn) {
		t.Fatalf("expected ErrMissingRequiredColumn, got %v", err)
	}
}

func TestRun_AliasesAndDefaults(t *testing.T) {
	tbl := table(
		[]string{"과정포맷", "계약일", "Won등록일", ColServiceStart, ColServiceEnd, ColAmount},
		[]string{"포팅", "2025-05-05", "2025-05-01", "2025-06-01", "2025-06-10", "30000000"},
		[]string{"", "2025-05-05", "", "2025-06-01", "2025-06-10", "30000000"},
	)
	res, err := Run(tbl, 2025)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Deals) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(res.Deals))
	}
	if res.Deals[0].Channel != models.ChannelOnline || res.Deals[0].Format != "포팅" {
		t.Errorf("alias 과정포맷 not applied: %+v", res.Deals[0])
	}
	if res.Deals[0].LeadDays != 4 {
		t.Errorf("alias Won등록일: expected lead 4, got %d", res.Deals[0].LeadDays)
	}
	second := res.Deals[1]
	if second.Format != DefaultFormat || second.Channel != models.ChannelOffline {
		t.Errorf("expected default format 기타/offline, got %s/%s", second.Format, second.Channel)
	}
	if second.Category != DefaultCategory {
		t.Errorf("expected default category, got %s", second.Category)
	}
	if second.Size != models.SizeOther {
		t.Errorf("expected missing size to map to 기타, got %s", second.Size)
	}
	if second.LeadDays != 0 {
		t.Errorf("expected lead 0 without creation date, got %d", second.LeadDays)
	}
}

func TestRun_CloseDateFallbackAndFilters(t *testing.T) {
	tbl := table(fullHeader,
		// contract missing -> expected close used (2025)
		[]string{"B", "대기업", "출강", "", "2024-12-01", "", "2025-01-20", "2025-02-01", "2025-02-02", "100000000", ""},
		// contract missing, expected missing -> creation (2024) -> out of year
		[]string{"C", "대기업", "출강", "", "2024-12-01", "", "", "2025-02-01", "2025-02-02", "100000000", ""},
		// missing service end
		[]string{"D", "대기업", "출강", "", "", "2025-03-01", "", "2025-02-01", "", "100000000", ""},
		// zero amount
		[]string{"E", "대기업", "출강", "", "", "2025-03-01", "", "2025-02-01", "2025-02-02", "abc", ""},
		// non-revenue marker
		[]string{"F", "대기업", "출강", "", "", "2025-03-01", "", "2025-02-01", "2025-02-02", "100000000", "[비매출입과] 교육"},
	)
	res, err := Run(tbl, 2025)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Deals) != 1 || res.Deals[0].Company != "B" {
		t.Fatalf("expected only deal B, got %+v", res.Deals)
	}
	if res.Deals[0].Closed != models.Date(2025, 1, 20) {
		t.Errorf("expected close 2025-01-20, got %s", res.Deals[0].Closed)
	}
	want := Stats{Read: 5, Kept: 1, NonRevenue: 1, OutOfYear: 1, NoServiceDates: 1, NonPositive: 1}
	if res.Stats != want {
		t.Errorf("stats: expected %+v, got %+v", want, res.Stats)
	}
}

func TestRun_DurationFloor(t *testing.T) {
	tbl := table(fullHeader,
		[]string{"G", "대기업", "출강", "", "", "2025-03-01", "", "2025-02-05", "2025-02-01", "100000000", ""},
	)
	res, err := Run(tbl, 2025)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Deals) != 1 || res.Deals[0].DurDays != 1 {
		t.Errorf("expected duration floored to 1, got %+v", res.Deals)
	}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		amount float64
		want   models.Tier
	}{
		{1.0, models.TierS3},
		{0.9999, models.TierS2},
		{0.5, models.TierS2},
		{0.4999, models.TierS1},
		{0.25, models.TierS1},
		{0.2499, models.TierS0},
		{0, models.TierS0},
	}
	for _, c := range cases {
		if got := models.TierFor(c.amount); got != c.want {
			t.Errorf("TierFor(%v): expected %s, got %s", c.amount, c.want, got)
		}
	}
}

func TestParseAmount(t *testing.T) {
	if got := ParseAmount("1,234,000,000"); math.Abs(got-12.34) > 1e-9 {
		t.Errorf("expected 12.34, got %f", got)
	}
	if got := ParseAmount("not a number"); got != 0 {
		t.Errorf("expected 0 for garbage, got %f", got)
	}
	if got := ParseAmount("−50000000"); math.Abs(got+0.5) > 1e-9 {
		t.Errorf("expected -0.5, got %f", got)
	}
}
