package neat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/baldhumanity/neat-core/neat/nn"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Representative election policies.
const (
	// ElectPerGeneration elects a random member once per generation, right
	// before the population is cleared.
	ElectPerGeneration = "per_generation"
	// ElectPerAdd re-elects a random member on every AddOrganism.
	ElectPerAdd = "per_add"
	// ElectFittest elects the fittest member once per generation.
	ElectFittest = "fittest"
)

// Config stores the training parameters shared by genomes, organisms and species.
type Config struct {
	Neat       NeatConfig       `yaml:"neat"`
	Genome     GenomeConfig     `yaml:"genome"`
	SpeciesSet SpeciesSetConfig `yaml:"species_set"`
	Stagnation StagnationConfig `yaml:"stagnation"`
}

// NeatConfig holds parameters owned by the generation driver.
type NeatConfig struct {
	PopSize          int     `ini:"pop_size" yaml:"pop_size"`
	FitnessThreshold float64 `ini:"fitness_threshold" yaml:"fitness_threshold"`
}

// GenomeConfig holds parameters for the gene encoding and its phenotype.
type GenomeConfig struct {
	NumInputs          int    `ini:"num_inputs" yaml:"num_inputs"`
	NumOutputs         int    `ini:"num_outputs" yaml:"num_outputs"`
	FeedForward        bool   `ini:"feed_forward" yaml:"feed_forward"` // If true, recurrent networks are rejected
	ActivationDefault  string `ini:"activation_default" yaml:"activation_default"`
	AggregationDefault string `ini:"aggregation_default" yaml:"aggregation_default"`

	CompatibilityDisjointCoefficient float64 `ini:"compatibility_disjoint_coefficient" yaml:"compatibility_disjoint_coefficient"`
	CompatibilityWeightCoefficient   float64 `ini:"compatibility_weight_coefficient" yaml:"compatibility_weight_coefficient"`

	WeightInitMean    float64 `ini:"weight_init_mean" yaml:"weight_init_mean"`
	WeightInitStdev   float64 `ini:"weight_init_stdev" yaml:"weight_init_stdev"`
	WeightMinValue    float64 `ini:"weight_min_value" yaml:"weight_min_value"`
	WeightMaxValue    float64 `ini:"weight_max_value" yaml:"weight_max_value"`
	WeightMutateRate  float64 `ini:"weight_mutate_rate" yaml:"weight_mutate_rate"`
	WeightMutatePower float64 `ini:"weight_mutate_power" yaml:"weight_mutate_power"`
}

// SpeciesSetConfig holds parameters related to speciation.
type SpeciesSetConfig struct {
	CompatibilityThreshold float64 `ini:"compatibility_threshold" yaml:"compatibility_threshold"`
	RepresentativeElection string  `ini:"representative_election" yaml:"representative_election"`
}

// StagnationConfig holds parameters related to species stagnation.
type StagnationConfig struct {
	MaxStagnation  int `ini:"max_stagnation" yaml:"max_stagnation"`
	SpeciesElitism int `ini:"species_elitism" yaml:"species_elitism"`
}

// DefaultConfig returns a configuration with every parameter at its default.
func DefaultConfig() *Config {
	config := &Config{
		Neat: NeatConfig{PopSize: 150},
		Genome: GenomeConfig{
			NumInputs:                        1,
			NumOutputs:                       1,
			CompatibilityDisjointCoefficient: 1.0,
			CompatibilityWeightCoefficient:   0.5,
			WeightInitStdev:                  1.0,
			WeightMinValue:                   -30,
			WeightMaxValue:                   30,
			WeightMutateRate:                 0.8,
			WeightMutatePower:                0.5,
		},
		SpeciesSet: SpeciesSetConfig{CompatibilityThreshold: 3.0},
	}
	config.applyDefaults()
	return config
}

// LoadConfig loads training parameters from a file. Files ending in .yaml
// or .yml are read as YAML, everything else as INI.
func LoadConfig(filePath string) (*Config, error) {
	var (
		config *Config
		err    error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		config, err = loadYAML(filePath)
	default:
		config, err = loadINI(filePath)
	}
	if err != nil {
		return nil, err
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadINI(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := &Config{}
	if err := cfg.Section("NEAT").MapTo(&config.Neat); err != nil {
		return nil, fmt.Errorf("failed to map [NEAT] section: %w", err)
	}
	if err := cfg.Section("DefaultGenome").MapTo(&config.Genome); err != nil {
		return nil, fmt.Errorf("failed to map [DefaultGenome] section: %w", err)
	}
	if err := cfg.Section("DefaultSpeciesSet").MapTo(&config.SpeciesSet); err != nil {
		return nil, fmt.Errorf("failed to map [DefaultSpeciesSet] section: %w", err)
	}
	if err := cfg.Section("DefaultStagnation").MapTo(&config.Stagnation); err != nil {
		return nil, fmt.Errorf("failed to map [DefaultStagnation] section: %w", err)
	}

	config.Genome.ActivationDefault = cleanIniString(config.Genome.ActivationDefault)
	config.Genome.AggregationDefault = cleanIniString(config.Genome.AggregationDefault)
	config.SpeciesSet.RepresentativeElection = cleanIniString(config.SpeciesSet.RepresentativeElection)
	return config, nil
}

func loadYAML(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Genome.ActivationDefault == "" {
		c.Genome.ActivationDefault = "sigmoid"
	}
	if c.Genome.AggregationDefault == "" {
		c.Genome.AggregationDefault = "sum"
	}
	if c.SpeciesSet.RepresentativeElection == "" {
		c.SpeciesSet.RepresentativeElection = ElectPerGeneration
	}
	if c.Stagnation.MaxStagnation == 0 {
		c.Stagnation.MaxStagnation = 15
	}
}

// Validate checks parameter ranges and names.
func (c *Config) Validate() error {
	if c.Neat.PopSize < 0 {
		return fmt.Errorf("config error: pop_size cannot be negative")
	}
	if c.Genome.NumInputs <= 0 {
		return fmt.Errorf("config error: num_inputs must be positive")
	}
	if c.Genome.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	if _, err := nn.GetActivation(c.Genome.ActivationDefault); err != nil {
		return fmt.Errorf("config error: activation_default: %w", err)
	}
	if _, err := nn.GetAggregation(c.Genome.AggregationDefault); err != nil {
		return fmt.Errorf("config error: aggregation_default: %w", err)
	}
	if c.Genome.CompatibilityDisjointCoefficient < 0 {
		return fmt.Errorf("config error: compatibility_disjoint_coefficient cannot be negative")
	}
	if c.Genome.CompatibilityWeightCoefficient < 0 {
		return fmt.Errorf("config error: compatibility_weight_coefficient cannot be negative")
	}
	if c.Genome.WeightInitStdev < 0 {
		return fmt.Errorf("config error: weight_init_stdev cannot be negative")
	}
	if c.Genome.WeightMaxValue < c.Genome.WeightMinValue {
		return fmt.Errorf("config error: weight_max_value cannot be less than weight_min_value")
	}
	if c.Genome.WeightMutateRate < 0 || c.Genome.WeightMutateRate > 1 {
		return fmt.Errorf("config error: weight_mutate_rate must be between 0 and 1")
	}
	if c.SpeciesSet.CompatibilityThreshold < 0 {
		return fmt.Errorf("config error: compatibility_threshold cannot be negative")
	}
	switch c.SpeciesSet.RepresentativeElection {
	case ElectPerGeneration, ElectPerAdd, ElectFittest:
	default:
		return fmt.Errorf("config error: invalid representative_election '%s', must be one of '%s', '%s', '%s'",
			c.SpeciesSet.RepresentativeElection, ElectPerGeneration, ElectPerAdd, ElectFittest)
	}
	if c.Stagnation.MaxStagnation <= 0 {
		return fmt.Errorf("config error: max_stagnation must be positive")
	}
	if c.Stagnation.SpeciesElitism < 0 {
		return fmt.Errorf("config error: species_elitism cannot be negative")
	}
	return nil
}

// NetworkOptions returns the phenotype options implied by the genome parameters.
func (gc *GenomeConfig) NetworkOptions() []nn.Option {
	opts := []nn.Option{
		nn.WithActivation(gc.ActivationDefault),
		nn.WithAggregation(gc.AggregationDefault),
	}
	if gc.FeedForward {
		opts = append(opts, nn.RequireAcyclic())
	}
	return opts
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
