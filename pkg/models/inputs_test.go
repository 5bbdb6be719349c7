package models

import (
	"errors"
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SimulationInputs)
		wantErr bool
	}{
		{"defaults", func(*SimulationInputs) {}, false},
		{"zero targets", func(in *SimulationInputs) { in.OnlineTarget, in.OfflineTarget = 0, 0 }, false},
		{"negative payroll", func(in *SimulationInputs) { in.MonthlyPayroll = -1 }, true},
		{"margin above one", func(in *SimulationInputs) { in.OnlineMargin = 1.2 }, true},
		{"NaN target", func(in *SimulationInputs) { in.OnlineTarget = math.NaN() }, true},
		{"+Inf target", func(in *SimulationInputs) { in.OfflineTarget = math.Inf(1) }, true},
		{"NaN margin", func(in *SimulationInputs) { in.OfflineMargin = math.NaN() }, true},
		{"+Inf fixed plan", func(in *SimulationInputs) { in.FixedPlanOnline = math.Inf(1) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := DefaultInputs()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidInputs) {
				t.Errorf("expected ErrInvalidInputs, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
