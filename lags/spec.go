// Package lags turns target and covariate time series into a flat, lagged feature matrix that
// regression estimators and attribution engines can consume.
package lags

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-tsexplain/feature"
)

var (
	ErrNoLags       = errors.New("no lags configured")
	ErrInvalidLag   = errors.New("target and past covariate lags must be negative")
	ErrDuplicateLag = errors.New("duplicate lag")
)

// Spec holds the ordered lag offsets used for each feature class. A negative lag looks back in
// time. An empty slice means the feature class is not used.
type Spec struct {
	Target []int `json:"target,omitempty" yaml:"target,omitempty"`
	Past   []int `json:"past,omitempty" yaml:"past,omitempty"`
	Future []int `json:"future,omitempty" yaml:"future,omitempty"`
}

// Validate checks that at least one lag is configured, that target and past covariate lags
// only look back and that no class repeats a lag.
func (s Spec) Validate() error {
	if len(s.Target) == 0 && len(s.Past) == 0 && len(s.Future) == 0 {
		return ErrNoLags
	}
	for _, class := range feature.Classes {
		seen := make(map[int]struct{})
		for _, lag := range s.Get(class) {
			if class != feature.ClassFutureCovariate && lag >= 0 {
				return fmt.Errorf("%s lag of %d, %w", class, lag, ErrInvalidLag)
			}
			if _, exists := seen[lag]; exists {
				return fmt.Errorf("%s lag of %d, %w", class, lag, ErrDuplicateLag)
			}
			seen[lag] = struct{}{}
		}
	}
	return nil
}

// Get returns the lags of a feature class
func (s Spec) Get(class feature.Class) []int {
	switch class {
	case feature.ClassTarget:
		return s.Target
	case feature.ClassPastCovariate:
		return s.Past
	case feature.ClassFutureCovariate:
		return s.Future
	}
	return nil
}

// Has is true when the feature class has at least one lag
func (s Spec) Has(class feature.Class) bool {
	return len(s.Get(class)) > 0
}

// MaxLookback is the largest number of steps any lag reaches into the past
func (s Spec) MaxLookback() int {
	var res int
	for _, class := range feature.Classes {
		for _, lag := range s.Get(class) {
			if -lag > res {
				res = -lag
			}
		}
	}
	return res
}

// MaxLookahead is the largest number of steps any future covariate lag reaches ahead
func (s Spec) MaxLookahead() int {
	var res int
	for _, lag := range s.Future {
		if lag > res {
			res = lag
		}
	}
	return res
}

// NumColumns is the number of feature matrix columns produced for the given component count of
// each feature class.
func (s Spec) NumColumns(targetWidth, pastWidth, futureWidth int) int {
	return len(s.Target)*targetWidth + len(s.Past)*pastWidth + len(s.Future)*futureWidth
}
