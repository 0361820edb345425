package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gosuda.org/zisk-timing/analyzer"
)

type WeightsConfig struct {
	Default    *float64           `yaml:"default,omitempty"`
	Operations map[string]float64 `yaml:"operations,omitempty"`
}

type Config struct {
	Policy string `yaml:"policy"`
	// SidecarPaths replaces the built-in search list when present; an empty
	// list disables sidecar lookup.
	SidecarPaths []string      `yaml:"sidecar_paths"`
	Weights      WeightsConfig `yaml:"weights"`
	TopOpcodes   int           `yaml:"top_opcodes"`
	ExportPath   string        `yaml:"export_path"`
}

func DefaultConfig() *Config {
	return &Config{
		Policy:       string(analyzer.PolicyMeasured),
		SidecarPaths: append([]string(nil), analyzer.DefaultSidecarPaths...),
		TopOpcodes:   analyzer.DefaultTopOpcodes,
		ExportPath:   analyzer.DefaultExportPath,
	}
}

// LoadConfig reads a YAML config. Fields left out keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	def := DefaultConfig()
	if cfg.Policy == "" {
		cfg.Policy = def.Policy
	}
	if cfg.SidecarPaths == nil {
		cfg.SidecarPaths = def.SidecarPaths
	}
	if cfg.TopOpcodes == 0 {
		cfg.TopOpcodes = def.TopOpcodes
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = def.ExportPath
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	var errs []string

	if _, err := analyzer.ParsePolicy(cfg.Policy); err != nil {
		errs = append(errs, err.Error())
	}
	for i, p := range cfg.SidecarPaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("sidecar_paths[%d]: path cannot be empty", i))
		}
	}
	if d := cfg.Weights.Default; d != nil && (*d < 0 || *d > 1) {
		errs = append(errs, fmt.Sprintf("weights.default: %v is outside [0, 1]", *d))
	}
	for name, w := range cfg.Weights.Operations {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, "weights.operations: operation name cannot be empty")
		}
		if w < 0 || w > 1 {
			errs = append(errs, fmt.Sprintf("weights.operations[%s]: %v is outside [0, 1]", name, w))
		}
	}
	if cfg.TopOpcodes < 0 {
		errs = append(errs, "top_opcodes: must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n - %s", strings.Join(errs, "\n - "))
	}
	return nil
}

// WeightTable merges configured weights over the built-in table.
func (cfg *Config) WeightTable() analyzer.WeightTable {
	table := analyzer.WeightTable{Weights: analyzer.DefaultWeights(), Default: analyzer.DefaultWeight}
	for name, w := range cfg.Weights.Operations {
		table.Weights[name] = w
	}
	if cfg.Weights.Default != nil {
		table.Default = *cfg.Weights.Default
	}
	return table
}
