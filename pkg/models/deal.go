package models

import (
	"strings"
	"time"
)

// WonPerEok converts raw KRW amounts into eok (억) units.
const WonPerEok = 100_000_000

type Channel string

const (
	ChannelOnline  Channel = "온라인"
	ChannelOffline Channel = "출강"
)

// Channels lists every channel in reporting order.
var Channels = []Channel{ChannelOnline, ChannelOffline}

// onlineFormats are the course formats delivered online. Everything else is offline.
var onlineFormats = map[string]bool{
	"선택구매(온라인)": true,
	"구독제(온라인)":  true,
	"포팅":        true,
}

// ChannelForFormat classifies a course format label.
func ChannelForFormat(format string) Channel {
	if onlineFormats[strings.TrimSpace(format)] {
		return ChannelOnline
	}
	return ChannelOffline
}

// DefaultFormat returns the format label used for synthetic deals in a channel.
func DefaultFormat(ch Channel) string {
	if ch == ChannelOnline {
		return "구독제(온라인)"
	}
	return "출강"
}

type Size string

const (
	SizeLarge      Size = "대기업"
	SizeMid        Size = "중견기업"
	SizeSmall      Size = "중소기업"
	SizePublic     Size = "공공기관"
	SizeUniversity Size = "대학교"
	SizeOther      Size = "기타"
)

// Sizes lists every size segment. It doubles as the equal-share domain when
// a channel has no history.
var Sizes = []Size{SizeLarge, SizeMid, SizeSmall, SizePublic, SizeUniversity, SizeOther}

// ParseSize maps a registry label onto a size segment. Missing and unknown
// labels (e.g. "미기재") collapse into SizeOther.
func ParseSize(label string) Size {
	label = strings.TrimSpace(label)
	for _, s := range Sizes {
		if string(s) == label {
			return s
		}
	}
	return SizeOther
}

// Code returns the ASCII identifier used in exports and API payloads.
func (s Size) Code() string {
	switch s {
	case SizeLarge:
		return "large"
	case SizeMid:
		return "mid"
	case SizeSmall:
		return "small"
	case SizePublic:
		return "public"
	case SizeUniversity:
		return "university"
	}
	return "other"
}

type Tier string

const (
	TierS0 Tier = "S0"
	TierS1 Tier = "S1"
	TierS2 Tier = "S2"
	TierS3 Tier = "S3"
)

// TierFor buckets a booking amount (eok).
func TierFor(amount float64) Tier {
	switch {
	case amount >= 1.0:
		return TierS3
	case amount >= 0.5:
		return TierS2
	case amount >= 0.25:
		return TierS1
	}
	return TierS0
}

// Deal is one historical or synthetic booking in canonical form.
type Deal struct {
	Company  string    `json:"company"`
	Size     Size      `json:"size"`
	Channel  Channel   `json:"channel"`
	Format   string    `json:"format"`
	Category string    `json:"category"`
	Created  time.Time `json:"created,omitempty"` // zero when unknown
	Closed   time.Time `json:"closed"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Amount   float64   `json:"amount"` // eok
	Tier     Tier      `json:"tier"`
	LeadDays int       `json:"lead_days"`
	DurDays  int       `json:"duration_days"`
}

// Module tags identify which generator produced a deal.
type Module string

const (
	ModuleBacklog   Module = "A. Backlog"
	ModuleFixedPlan Module = "B. Fixed Plan"
	ModuleRetention Module = "C1. Online Retention"
	ModuleUpsell    Module = "C2. Upsell"
	ModuleNewDeals  Module = "D. New Deals"
)

// Modules lists the generator tags in pipeline order.
var Modules = []Module{ModuleBacklog, ModuleFixedPlan, ModuleRetention, ModuleUpsell, ModuleNewDeals}

// GeneratedDeal is a deal placed into the projected year together with its
// recognized revenue.
type GeneratedDeal struct {
	Deal
	Module     Module      `json:"module"`
	Monthly    [12]float64 `json:"monthly_revenue"`
	Recognized float64     `json:"recognized"`
	CarryOver  float64     `json:"carry_over"`
}
