package pipeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"pnl_projection/pkg/core/utils"
	"pnl_projection/pkg/models"
)

// DefaultConfigPath is read when PROJECTION_CONFIG is unset.
const DefaultConfigPath = "config/projection.yaml"

// FileConfig is the engine configuration file: engine constants, the
// default simulation inputs and named scenarios layered over them.
type FileConfig struct {
	Engine       Config                  `yaml:"engine"`
	Defaults     models.SimulationInputs `yaml:"defaults"`
	RawScenarios []yaml.MapSlice         `yaml:"scenarios"`
	Scenarios    []utils.Scenario        `yaml:"-"`
}

// DefaultFileConfig is used when no config file exists.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{Engine: DefaultConfig(), Defaults: models.DefaultInputs()}
}

// LoadConfig reads a config file. A missing file yields DefaultFileConfig.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Printf("[CONFIG] %s not found, using built-in defaults\n", path)
		return DefaultFileConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config bytes. Fields left out keep their defaults,
// and each scenario only overrides the inputs it names.
func ParseConfig(data []byte) (*FileConfig, error) {
	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Engine = cfg.Engine.WithDefaults()
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	for i, raw := range cfg.RawScenarios {
		data, err := yaml.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
		sc, err := utils.DecodeScenario(data, ".yaml", cfg.Defaults)
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		cfg.Scenarios = append(cfg.Scenarios, *sc)
	}
	cfg.RawScenarios = nil
	return cfg, nil
}

// Scenario looks up a named scenario.
func (c *FileConfig) Scenario(name string) (models.SimulationInputs, bool) {
	for _, sc := range c.Scenarios {
		if sc.Name == name {
			return sc.Inputs, true
		}
	}
	return models.SimulationInputs{}, false
}

// ScenarioNames lists scenario names in file order.
func (c *FileConfig) ScenarioNames() []string {
	names := make([]string, len(c.Scenarios))
	for i, sc := range c.Scenarios {
		names[i] = sc.Name
	}
	return names
}
