package projection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"pnl_projection/pkg/core/export"
	"pnl_projection/pkg/core/pipeline"
	"pnl_projection/pkg/core/preprocess"
	"pnl_projection/pkg/models"
)

// RunRequest selects the inputs of one simulation. Inputs fields override the
// named scenario (or the configured defaults when no scenario is named).
type RunRequest struct {
	Scenario string          `json:"scenario"`
	Inputs   json.RawMessage `json:"inputs"`
}

// Handler serves projection runs over a registry that is loaded and
// preprocessed once per process.
type Handler struct {
	orch *pipeline.Orchestrator
	cfg  *pipeline.FileConfig

	mu       sync.Mutex
	prepared *pipeline.Prepared
}

// NewHandler creates a projection handler.
func NewHandler(orch *pipeline.Orchestrator, cfg *pipeline.FileConfig) *Handler {
	if cfg == nil {
		cfg = pipeline.DefaultFileConfig()
	}
	return &Handler{orch: orch, cfg: cfg}
}

// Reload drops the cached history so the next request re-reads the registry.
func (h *Handler) Reload() {
	h.mu.Lock()
	h.prepared = nil
	h.mu.Unlock()
}

func (h *Handler) prepare(ctx context.Context) (*pipeline.Prepared, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.prepared != nil {
		return h.prepared, nil
	}
	table, err := h.orch.Load(ctx)
	if err != nil {
		return nil, err
	}
	prep, err := h.orch.Prepare(table, h.cfg.Engine)
	if err != nil {
		return nil, err
	}
	h.prepared = prep
	return prep, nil
}

func (h *Handler) resolveInputs(req RunRequest) (models.SimulationInputs, error) {
	in := h.cfg.Defaults
	if req.Scenario != "" {
		sc, ok := h.cfg.Scenario(req.Scenario)
		if !ok {
			return in, fmt.Errorf("%w: unknown scenario %q", models.ErrInvalidInputs, req.Scenario)
		}
		in = sc
	}
	if len(req.Inputs) > 0 && string(req.Inputs) != "null" {
		if err := json.Unmarshal(req.Inputs, &in); err != nil {
			return in, fmt.Errorf("%w: %v", models.ErrInvalidInputs, err)
		}
	}
	return in, nil
}

// simulate decodes the request and runs it, writing any error response.
func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	var req RunRequest
	// an empty body runs the configured defaults
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	in, err := h.resolveInputs(req)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	prep, err := h.prepare(r.Context())
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	res, err := h.orch.Simulate(r.Context(), prep, in)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	fmt.Printf("[API] run %s: revenue %.2f op %.2f\n", res.RunID, res.Report.KPIs.TotalRevenue, res.Report.KPIs.OP)
	return res, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, preprocess.ErrMissingRequiredColumn):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidInputs):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		status = http.StatusRequestTimeout
	}
	fmt.Printf("[API] error (%d): %v\n", status, err)
	http.Error(w, err.Error(), status)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleRun returns the full result as JSON.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, ok := h.simulate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// HandleDealsCSV returns the generated deal table as CSV.
func (h *Handler) HandleDealsCSV(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, ok := h.simulate(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, export.DealTable(res)); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=deals_%d.csv", res.Year))
	w.Write(buf.Bytes())
}

// HandleReport returns the HTML report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, ok := h.simulate(w, r)
	if !ok {
		return
	}
	page, err := export.HTML(res)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
}
