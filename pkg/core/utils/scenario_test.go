package utils

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pnl_projection/pkg/models"
)

func TestDecodeScenarioYAML(t *testing.T) {
	data := []byte("name: aggressive\ninputs:\n  online_target: 80\n  offline_margin: 0.5\n")
	sc, err := DecodeScenario(data, ".yaml", models.DefaultInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Name != "aggressive" {
		t.Errorf("name = %q, want aggressive", sc.Name)
	}
	if sc.Inputs.OnlineTarget != 80 || sc.Inputs.OfflineMargin != 0.5 {
		t.Errorf("overrides not applied: %+v", sc.Inputs)
	}
	// untouched fields keep their defaults
	if sc.Inputs.OfflineTarget != 150 || sc.Inputs.MonthlyPayroll != 5.6 {
		t.Errorf("defaults lost: %+v", sc.Inputs)
	}
}

func TestDecodeScenarioJSON(t *testing.T) {
	sc, err := DecodeScenario([]byte(`{"name":"base","inputs":{"offline_target":170}}`), ".json", models.DefaultInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Inputs.OfflineTarget != 170 {
		t.Errorf("offline_target = %v, want 170", sc.Inputs.OfflineTarget)
	}
}

func TestDecodeScenarioRepairedJSON(t *testing.T) {
	// single quotes and a trailing comma
	raw := `{'name': 'hand-edited', 'inputs': {'online_target': 70, 'monthly_marketing': 0.4,},}`
	sc, err := DecodeScenario([]byte(raw), ".json", models.DefaultInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Name != "hand-edited" {
		t.Errorf("name = %q", sc.Name)
	}
	if math.Abs(sc.Inputs.MonthlyMarketing-0.4) > 1e-12 {
		t.Errorf("monthly_marketing = %v, want 0.4", sc.Inputs.MonthlyMarketing)
	}
}

func TestDecodeScenarioLenientKeepsPrecision(t *testing.T) {
	raw := `{name:'x', inputs:{online_target:70.3, monthly_marketing:0.4,}}`
	sc, err := DecodeScenario([]byte(raw), ".json", models.DefaultInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Inputs.OnlineTarget != 70.3 {
		t.Errorf("online_target = %v, want 70.3", sc.Inputs.OnlineTarget)
	}
	if sc.Inputs.MonthlyMarketing != 0.4 {
		t.Errorf("monthly_marketing = %v, want 0.4", sc.Inputs.MonthlyMarketing)
	}
}

func TestRestorePrecision(t *testing.T) {
	got, err := restorePrecision(`{"a":0.4000000059604645,"b":[70.30000305175781,2],"c":"0.4000000059604645","d":0.1234567890123}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var v struct {
		A float64   `json:"a"`
		B []float64 `json:"b"`
		C string    `json:"c"`
		D float64   `json:"d"`
	}
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatalf("decode %s: %v", got, err)
	}
	if v.A != 0.4 || v.B[0] != 70.3 || v.B[1] != 2 {
		t.Errorf("numbers not restored: %s", got)
	}
	if v.C != "0.4000000059604645" {
		t.Errorf("strings must be left alone, got %q", v.C)
	}
	// full float64 precision is not a float32 artifact
	if v.D != 0.1234567890123 {
		t.Errorf("d = %v, want 0.1234567890123", v.D)
	}
}

func TestDecodeScenarioHJSON(t *testing.T) {
	raw := `{
  # stretch case
  name: stretch
  inputs: {
    online_target: 90
    offline_target: 200
  }
}`
	sc, err := DecodeScenario([]byte(raw), ".hjson", models.DefaultInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Name != "stretch" || sc.Inputs.OnlineTarget != 90 || sc.Inputs.OfflineTarget != 200 {
		t.Errorf("got %+v", sc)
	}
}

func TestDecodeScenarioRejectsInvalidInputs(t *testing.T) {
	_, err := DecodeScenario([]byte("inputs:\n  online_target: -1\n"), ".yml", models.DefaultInputs())
	if !errors.Is(err, models.ErrInvalidInputs) {
		t.Errorf("expected ErrInvalidInputs, got %v", err)
	}
}

func TestDecodeScenarioRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{
		"inputs:\n  online_target: .nan\n",
		"inputs:\n  offline_target: .inf\n",
		"inputs:\n  monthly_payroll: -.inf\n",
	} {
		if _, err := DecodeScenario([]byte(raw), ".yaml", models.DefaultInputs()); !errors.Is(err, models.ErrInvalidInputs) {
			t.Errorf("%q: expected ErrInvalidInputs, got %v", raw, err)
		}
	}
}

func TestLoadScenarioNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conservative.yaml")
	if err := os.WriteFile(path, []byte("inputs:\n  online_target: 60\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path, models.DefaultInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Name != "conservative" {
		t.Errorf("name = %q, want conservative", sc.Name)
	}

	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"), models.DefaultInputs()); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestRenderMarkdownTable(t *testing.T) {
	html, err := RenderMarkdown("# Title\n\n| a | b |\n|---|---|\n| 1 | " + EscapeCell("x|y") + " |\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("unexpected html: %s", html)
	}
	if !strings.Contains(html, "x|y") {
		t.Errorf("escaped pipe should render literally: %s", html)
	}
	if !ValidateMarkdown("text") || ValidateMarkdown("") {
		t.Errorf("ValidateMarkdown wrong")
	}
}
