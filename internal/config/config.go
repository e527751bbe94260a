package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/survlab/internal/datasets"
	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/workflow"
)

const (
	DefaultDataDir        = ".survlab"
	DefaultTimelinePoints = workflow.DefaultTimelinePoints
	DefaultPlotWidth      = 72
	DefaultPlotHeight     = 16
	DefaultPNGWidth       = 1000
	DefaultPNGHeight      = 560

	// EnvPrefix namespaces environment overrides, e.g. SURVLAB_DATASET.
	EnvPrefix = "survlab"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Dataset        string          `yaml:"dataset"`
	Strategies     []string        `yaml:"strategies"`
	FitPolicy      string          `yaml:"fit_policy"`
	TimelinePoints int             `yaml:"timeline_points"`
	ParallelFits   bool            `yaml:"parallel_fits"`
	Plot           PlotConfig      `yaml:"plot"`
	DataDir        string          `yaml:"data_dir"`
	Datasets       []DatasetConfig `yaml:"datasets,omitempty"`
	Theme          string          `yaml:"theme"`
}

type PlotConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	PNGWidth  int `yaml:"png_width"`
	PNGHeight int `yaml:"png_height"`
}

// DatasetConfig declares a CSV file as an extra catalog entry.
type DatasetConfig struct {
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	Description string `yaml:"description,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Dataset:        datasets.CircuitBreaker,
		Strategies:     []string{"KaplanMeier", "Weibull", "Gompertz"},
		FitPolicy:      string(workflow.PolicyAbort),
		TimelinePoints: DefaultTimelinePoints,
		Plot: PlotConfig{
			Width:     DefaultPlotWidth,
			Height:    DefaultPlotHeight,
			PNGWidth:  DefaultPNGWidth,
			PNGHeight: DefaultPNGHeight,
		},
		DataDir: DefaultDataDir,
		Theme:   "default",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type envOverrides struct {
	Dataset        string   `split_words:"true"`
	Strategies     []string `split_words:"true"`
	FitPolicy      string   `split_words:"true"`
	TimelinePoints int      `split_words:"true"`
	ParallelFits   *bool    `split_words:"true"`
	DataDir        string   `split_words:"true"`
	Theme          string   `split_words:"true"`
}

// ApplyEnv overlays SURVLAB_* environment variables onto c. Unset variables
// leave the current values alone.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if env.Dataset != "" {
		c.Dataset = env.Dataset
	}
	if env.Strategies != nil {
		c.Strategies = env.Strategies
	}
	if env.FitPolicy != "" {
		c.FitPolicy = env.FitPolicy
	}
	if env.TimelinePoints != 0 {
		c.TimelinePoints = env.TimelinePoints
	}
	if env.ParallelFits != nil {
		c.ParallelFits = *env.ParallelFits
	}
	if env.DataDir != "" {
		c.DataDir = env.DataDir
	}
	if env.Theme != "" {
		c.Theme = env.Theme
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := workflow.ParseFitPolicy(c.FitPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for _, s := range c.Strategies {
		if _, err := estimators.ParseStrategy(s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if c.TimelinePoints < 2 {
		return fmt.Errorf("%w: timeline_points must be at least 2, got %d", ErrInvalidConfig, c.TimelinePoints)
	}
	for i, d := range c.Datasets {
		if d.Name == "" || d.Path == "" {
			return fmt.Errorf("%w: datasets[%d] needs a name and a path", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Catalog returns the bundled datasets followed by the configured files.
func (c *Config) Catalog() *datasets.Catalog {
	cat := datasets.Default()
	for _, d := range c.Datasets {
		ds := datasets.FileDataset(d.Name, d.Path)
		if d.Description != "" {
			ds.Description = d.Description
		}
		cat = cat.With(ds)
	}
	return cat
}

func (c *Config) Workflow() workflow.Config {
	policy, err := workflow.ParseFitPolicy(c.FitPolicy)
	if err != nil {
		policy = workflow.PolicyAbort
	}
	return workflow.Config{
		TimelinePoints: c.TimelinePoints,
		Policy:         policy,
		Parallel:       c.ParallelFits,
	}
}
