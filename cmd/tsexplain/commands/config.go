// Package commands implements the tsexplain subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aouyang1/go-tsexplain/ad"
	"github.com/aouyang1/go-tsexplain/explain"
	"github.com/aouyang1/go-tsexplain/models"
	"github.com/aouyang1/go-tsexplain/regression"
)

const (
	EstimatorOLS   = "ols"
	EstimatorLasso = "lasso"
)

var ErrUnknownEstimator = errors.New("unknown estimator, expected ols or lasso")

// Config is the yaml configuration shared by the subcommands
type Config struct {
	Regression *regression.Options  `yaml:"regression"`
	Estimator  string               `yaml:"estimator"`
	OLS        *models.OLSOptions   `yaml:"ols"`
	Lasso      *models.LassoOptions `yaml:"lasso"`
	Explain    *explain.Options     `yaml:"explain"`
	Detector   *ad.QuantileDetector `yaml:"detector"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Regression: regression.NewDefaultOptions(),
		Estimator:  EstimatorOLS,
		OLS:        models.NewDefaultOLSOptions(),
		Lasso:      models.NewDefaultLassoOptions(),
		Explain:    explain.NewDefaultOptions(),
		Detector:   ad.NewQuantileDetector(),
	}
}

// Validate fills unset sections with their defaults and validates every section
func (c *Config) Validate() (*Config, error) {
	if c == nil {
		return NewDefaultConfig(), nil
	}
	res := *c

	var err error
	if res.Regression, err = c.Regression.Validate(); err != nil {
		return nil, fmt.Errorf("regression: %w", err)
	}
	res.Estimator = strings.ToLower(strings.TrimSpace(c.Estimator))
	switch res.Estimator {
	case "":
		res.Estimator = EstimatorOLS
	case EstimatorOLS, EstimatorLasso:
	default:
		return nil, fmt.Errorf("%q: %w", c.Estimator, ErrUnknownEstimator)
	}
	if res.OLS, err = c.OLS.Validate(); err != nil {
		return nil, fmt.Errorf("ols: %w", err)
	}
	if res.Lasso, err = c.Lasso.Validate(); err != nil {
		return nil, fmt.Errorf("lasso: %w", err)
	}
	if res.Explain, err = c.Explain.Validate(); err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}
	if res.Detector == nil {
		res.Detector = ad.NewQuantileDetector()
	}
	return &res, nil
}

// DecodeConfig reads a yaml config, rejecting unknown fields
func DecodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg.Validate()
}

// LoadConfig reads the config at path. An empty path returns the default config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return NewDefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// NewModel returns an untrained estimator of the configured kind
func (c *Config) NewModel() (models.Model, error) {
	switch c.Estimator {
	case EstimatorLasso:
		return models.NewLassoRegression(c.Lasso)
	default:
		return models.NewOLSRegression(c.OLS)
	}
}
