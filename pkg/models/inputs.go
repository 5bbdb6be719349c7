package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInputs is returned when simulation inputs fail validation.
var ErrInvalidInputs = errors.New("invalid simulation inputs")

// SimulationInputs are the user-supplied levers of one projection run.
// Amounts are eok, margins are rates in [0,1].
type SimulationInputs struct {
	OnlineTarget     float64 `json:"online_target" yaml:"online_target"`
	OfflineTarget    float64 `json:"offline_target" yaml:"offline_target"`
	MonthlyMarketing float64 `json:"monthly_marketing" yaml:"monthly_marketing"`
	MonthlyPayroll   float64 `json:"monthly_payroll" yaml:"monthly_payroll"`
	OnlineMargin     float64 `json:"online_margin" yaml:"online_margin"`
	OfflineMargin    float64 `json:"offline_margin" yaml:"offline_margin"`
	FixedPlanOnline  float64 `json:"fixed_plan_online_amount" yaml:"fixed_plan_online_amount"`
	FixedPlanOffline float64 `json:"fixed_plan_offline_amount" yaml:"fixed_plan_offline_amount"`
}

// DefaultInputs mirrors the dashboard's initial slider positions.
func DefaultInputs() SimulationInputs {
	return SimulationInputs{
		OnlineTarget:     65,
		OfflineTarget:    150,
		MonthlyMarketing: 0.3,
		MonthlyPayroll:   5.6,
		OnlineMargin:     0.85,
		OfflineMargin:    0.55,
		FixedPlanOnline:  1.0,
		FixedPlanOffline: 2.5,
	}
}

// Validate rejects non-finite values, negative amounts and margins outside [0,1].
func (in SimulationInputs) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"online_target", in.OnlineTarget},
		{"offline_target", in.OfflineTarget},
		{"monthly_marketing", in.MonthlyMarketing},
		{"monthly_payroll", in.MonthlyPayroll},
		{"online_margin", in.OnlineMargin},
		{"offline_margin", in.OfflineMargin},
		{"fixed_plan_online_amount", in.FixedPlanOnline},
		{"fixed_plan_offline_amount", in.FixedPlanOffline},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidInputs, f.name, f.value)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %g", ErrInvalidInputs, f.name, f.value)
		}
	}
	if in.OnlineMargin > 1 || in.OfflineMargin > 1 {
		return fmt.Errorf("%w: margins must be within [0,1]", ErrInvalidInputs)
	}
	return nil
}

// Margin returns the contribution margin rate for a channel.
func (in SimulationInputs) Margin(ch Channel) float64 {
	if ch == ChannelOnline {
		return in.OnlineMargin
	}
	return in.OfflineMargin
}

// Target returns the revenue target for a channel.
func (in SimulationInputs) Target(ch Channel) float64 {
	if ch == ChannelOnline {
		return in.OnlineTarget
	}
	return in.OfflineTarget
}

// FixedPlan returns the monthly fixed-plan amount for a channel.
func (in SimulationInputs) FixedPlan(ch Channel) float64 {
	if ch == ChannelOnline {
		return in.FixedPlanOnline
	}
	return in.FixedPlanOffline
}

// CostModel holds the fixed-cost coefficients of the P&L.
type CostModel struct {
	MonthlyProduction float64 `json:"monthly_production" yaml:"monthly_production"`
	RentRatio         float64 `json:"rent_ratio" yaml:"rent_ratio"`                   // of payroll
	MonthlyOtherBase  float64 `json:"monthly_other_base" yaml:"monthly_other_base"`
	OtherOfflineRatio float64 `json:"other_offline_ratio" yaml:"other_offline_ratio"` // of offline revenue
}

func DefaultCostModel() CostModel {
	return CostModel{
		MonthlyProduction: 0.2,
		RentRatio:         0.15,
		MonthlyOtherBase:  1.0,
		OtherOfflineRatio: 0.05,
	}
}
