package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"pnl_projection/pkg/models"
)

// Scenario is a named set of simulation inputs.
type Scenario struct {
	Name   string                  `json:"name" yaml:"name"`
	Inputs models.SimulationInputs `json:"inputs" yaml:"inputs"`
}

// LoadScenario reads a scenario file. The format follows the extension:
// .yaml/.yml use YAML, .hjson uses Hjson, anything else goes through
// SmartParse. Fields missing from the file keep their value in base, and the
// file name (without extension) is used when no name is given.
func LoadScenario(path string, base models.SimulationInputs) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := DecodeScenario(data, filepath.Ext(path), base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// DecodeScenario decodes scenario bytes in the format named by ext over base
// and validates the resulting inputs.
func DecodeScenario(data []byte, ext string, base models.SimulationInputs) (*Scenario, error) {
	sc := &Scenario{Inputs: base}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, sc); err != nil {
			return nil, fmt.Errorf("YAML_PARSE_ERROR: %v", err)
		}
	case ".hjson":
		js, err := ParseHJSON(string(data))
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(js), sc); err != nil {
			return nil, fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
		}
	default:
		if _, err := SmartParse(string(data), sc); err != nil {
			return nil, err
		}
	}

	if err := sc.Inputs.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// RepairJSON fixes common hand-editing mistakes: missing quotes, single
// quotes, trailing commas, comments and unclosed brackets.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Hjson and returns standard JSON.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(jsonBytes), nil
}

// SmartParse decodes input into v, trying in order:
// 1. Standard JSON
// 2. Hjson (unquoted keys, single quotes, trailing commas)
// 3. Repaired JSON, with numbers snapped back from float32 precision
//
// It returns the JSON text that finally decoded.
func SmartParse(input string, v interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), v); err == nil {
		return input, nil
	}

	if js, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(js), v); err == nil {
			return js, nil
		}
	}

	if repaired, err := RepairJSON(input); err == nil {
		if fixed, err := restorePrecision(repaired); err == nil {
			repaired = fixed
		}
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return repaired, nil
		}
	}

	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}

// restorePrecision rewrites every number of repaired JSON to the shortest
// decimal that round-trips through float32. The repair library emits numbers
// at float32 precision (0.4 comes back as 0.4000000059604645).
func restorePrecision(repaired string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(repaired))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return "", fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}
	out, err := json.Marshal(snapNumbers(tree))
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(out), nil
}

func snapNumbers(node interface{}) interface{} {
	switch x := node.(type) {
	case map[string]interface{}:
		for k, v := range x {
			x[k] = snapNumbers(v)
		}
	case []interface{}:
		for i, v := range x {
			x[i] = snapNumbers(v)
		}
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x
		}
		if f32 := float32(f); float64(f32) == f {
			return json.Number(strconv.FormatFloat(float64(f32), 'g', -1, 32))
		}
	}
	return node
}
