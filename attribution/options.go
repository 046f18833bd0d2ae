package attribution

import (
	"errors"
)

const (
	DefaultNumPermutations  = 10
	DefaultNumSamples       = 1024
	DefaultMaxExactFeatures = 10

	// MaxExactFeaturesLimit bounds exhaustive coalition enumeration to 2^20 coalitions
	MaxExactFeaturesLimit = 20
)

var (
	ErrNonPositivePermutations = errors.New("number of permutations must be positive")
	ErrNonPositiveSamples      = errors.New("number of samples must be positive")
	ErrInvalidMaxExactFeatures = errors.New("max exact features must be between 0 and 20")
)

// Options configures the sampled attribution engines
type Options struct {
	// NumPermutations is the number of forward permutations of the permutation engine. Each is
	// paired with its reverse.
	NumPermutations int `json:"num_permutations" yaml:"num_permutations"`

	// NumSamples is the number of samples per feature of the sampling engine and the number of
	// sampled coalitions of the kernel engine.
	NumSamples int `json:"num_samples" yaml:"num_samples"`

	// MaxExactFeatures is the largest feature count for which the kernel engine enumerates every
	// coalition instead of sampling them.
	MaxExactFeatures int `json:"max_exact_features" yaml:"max_exact_features"`

	// Seed makes sampled attributions reproducible
	Seed uint64 `json:"seed" yaml:"seed"`
}

// NewDefaultOptions returns the default attribution options
func NewDefaultOptions() *Options {
	return &Options{
		NumPermutations:  DefaultNumPermutations,
		NumSamples:       DefaultNumSamples,
		MaxExactFeatures: DefaultMaxExactFeatures,
	}
}

// Validate returns the default options if none are set
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.NumPermutations < 1 {
		return nil, ErrNonPositivePermutations
	}
	if o.NumSamples < 1 {
		return nil, ErrNonPositiveSamples
	}
	if o.MaxExactFeatures < 0 || o.MaxExactFeatures > MaxExactFeaturesLimit {
		return nil, ErrInvalidMaxExactFeatures
	}
	return o, nil
}
