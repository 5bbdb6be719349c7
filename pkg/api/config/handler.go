package config

import (
	"encoding/json"
	"net/http"

	"pnl_projection/pkg/core/pipeline"
	"pnl_projection/pkg/core/utils"
	"pnl_projection/pkg/models"
)

type Response struct {
	Year         int                     `json:"year"`
	MinSample    int                     `json:"min_sample"`
	PriorRevenue float64                 `json:"prior_revenue"`
	Costs        models.CostModel        `json:"costs"`
	Defaults     models.SimulationInputs `json:"defaults"`
	Scenarios    []utils.Scenario        `json:"scenarios"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Config *pipeline.FileConfig
}

// NewHandler creates a new config handler
func NewHandler(cfg *pipeline.FileConfig) *Handler {
	if cfg == nil {
		cfg = pipeline.DefaultFileConfig()
	}
	return &Handler{Config: cfg}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	eng := h.Config.Engine
	scenarios := h.Config.Scenarios
	if scenarios == nil {
		scenarios = []utils.Scenario{}
	}
	resp := Response{
		Year:         eng.Generator.Year,
		MinSample:    eng.MinSample,
		PriorRevenue: eng.PriorRevenue,
		Costs:        eng.Costs,
		Defaults:     h.Config.Defaults,
		Scenarios:    scenarios,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
