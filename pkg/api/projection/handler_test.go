package projection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"pnl_projection/pkg/core/pipeline"
	"pnl_projection/pkg/core/preprocess"
	"pnl_projection/pkg/models"
)

type MockSource struct {
	LoadFunc func(ctx context.Context) (*models.RawTable, error)
	calls    int32
}

func (m *MockSource) LoadDeals(ctx context.Context) (*models.RawTable, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.LoadFunc(ctx)
}

func registry() *models.RawTable {
	return &models.RawTable{
		Header: []string{
			preprocess.ColCompany, preprocess.ColSize, preprocess.ColFormat, preprocess.ColCategory,
			preprocess.ColCreated, preprocess.ColContract, preprocess.ColServiceStart, preprocess.ColServiceEnd,
			preprocess.ColAmount,
		},
		Records: [][]string{
			{"가나", "대기업", "출강", "AI", "2025-09-01", "2025-10-01", "2025-11-01", "2026-02-28", "120,000,000"},
			{"다라", "중견기업", "구독제(온라인)", "DX", "2025-02-01", "2025-03-01", "2025-03-01", "2025-08-31", "40,000,000"},
		},
	}
}

func newTestHandler(t *testing.T, table *models.RawTable) (*Handler, *MockSource) {
	t.Helper()
	src := &MockSource{LoadFunc: func(ctx context.Context) (*models.RawTable, error) { return table, nil }}
	cfg, err := pipeline.ParseConfig([]byte("scenarios:\n  - name: stretch\n    inputs:\n      online_target: 80\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return NewHandler(pipeline.NewOrchestrator(src), cfg), src
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/projection/run", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleRun(t *testing.T) {
	h, src := newTestHandler(t, registry())

	rec := post(h.HandleRun, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res pipeline.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.RunID == "" || res.Year != 2026 {
		t.Errorf("unexpected result header: %s %d", res.RunID, res.Year)
	}
	if res.Inputs != models.DefaultInputs() {
		t.Errorf("empty body should run defaults, got %+v", res.Inputs)
	}

	rec = post(h.HandleRun, `{"scenario":"stretch","inputs":{"monthly_marketing":0.4}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	res = pipeline.Result{}
	json.NewDecoder(rec.Body).Decode(&res)
	if res.Inputs.OnlineTarget != 80 || res.Inputs.MonthlyMarketing != 0.4 || res.Inputs.OfflineTarget != 150 {
		t.Errorf("scenario + override not applied: %+v", res.Inputs)
	}

	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("registry loaded %d times, want 1", n)
	}
	h.Reload()
	post(h.HandleRun, "")
	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("registry loaded %d times after reload, want 2", n)
	}
}

func TestHandleRunErrors(t *testing.T) {
	h, _ := newTestHandler(t, registry())

	cases := []struct {
		name string
		body string
		want int
	}{
		{"negative input", `{"inputs":{"online_target":-5}}`, http.StatusBadRequest},
		{"unknown scenario", `{"scenario":"nope"}`, http.StatusBadRequest},
		{"bad json", `{"inputs":`, http.StatusBadRequest},
	}
	for _, c := range cases {
		if rec := post(h.HandleRun, c.body); rec.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, c.want)
		}
	}

	missing, _ := newTestHandler(t, &models.RawTable{Header: []string{preprocess.ColCompany}})
	if rec := post(missing.HandleRun, ""); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing amount column: status = %d, want 422", rec.Code)
	}

	rec := httptest.NewRecorder()
	h.HandleRun(rec, httptest.NewRequest(http.MethodGet, "/api/projection/run", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET: status = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleRun(rec, httptest.NewRequest(http.MethodOptions, "/api/projection/run", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("OPTIONS preflight failed: %d", rec.Code)
	}
}

func TestHandleDealsCSV(t *testing.T) {
	h, _ := newTestHandler(t, registry())
	rec := post(h.HandleDealsCSV, `{"scenario":"stretch"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\ufeffmodule,company") {
		t.Errorf("unexpected csv head: %.40q", body)
	}
	if !strings.Contains(body, string(models.ModuleNewDeals)) {
		t.Errorf("csv should list gap-fill deals")
	}
}

func TestHandleReport(t *testing.T) {
	h, _ := newTestHandler(t, registry())
	rec := post(h.HandleReport, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<table>") {
		t.Errorf("report should contain tables")
	}
}
