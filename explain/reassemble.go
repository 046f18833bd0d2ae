package explain

import (
	"fmt"
	"slices"
	"time"

	"github.com/aouyang1/go-tsexplain/attribution"
	"gonum.org/v1/gonum/mat"
)

// Layout describes how raw attributions of a multi horizon, multi target model are organized
type Layout int

const (
	// LayoutCombined is a single explanation whose output axis indexes
	// horizon*targetDim + component
	LayoutCombined Layout = iota

	// LayoutPerOutput holds one single output explanation per horizon and component
	LayoutPerOutput
)

func (l Layout) String() string {
	switch l {
	case LayoutCombined:
		return "combined"
	case LayoutPerOutput:
		return "per_output"
	}
	return "unknown"
}

// Raw is the output of the attribution engines before reassembly. Only the field matching
// Layout is read. PerOutput is indexed by horizon then component.
type Raw struct {
	Layout    Layout
	Combined  *attribution.Explanation
	PerOutput [][]*attribution.Explanation
}

// Reassemble restructures raw attributions into horizon -> component -> attribution, attaching
// the feature names and time index of the explained rows
func Reassemble(raw Raw, horizons, targetDim int, featureNames []string, t []time.Time) (Attributions, error) {
	if horizons < 1 || targetDim < 1 {
		return nil, fmt.Errorf("%d horizons and %d target components, %w", horizons, targetDim, ErrInvalidDimensions)
	}

	res := make(Attributions, horizons)
	switch raw.Layout {
	case LayoutPerOutput:
		if len(raw.PerOutput) != horizons {
			return nil, fmt.Errorf("%d horizons of explanations for %d horizons, %w", len(raw.PerOutput), horizons, ErrShapeMismatch)
		}
		for i := 0; i < horizons; i++ {
			if len(raw.PerOutput[i]) != targetDim {
				return nil, fmt.Errorf(
					"horizon %d has %d explanations for %d components, %w",
					i, len(raw.PerOutput[i]), targetDim, ErrShapeMismatch,
				)
			}
			res[i] = make(map[int]*Attribution, targetDim)
			for j := 0; j < targetDim; j++ {
				exp := raw.PerOutput[i][j]
				if exp == nil {
					return nil, fmt.Errorf("horizon %d component %d, %w", i, j, ErrMissingExplanation)
				}
				if err := checkExplanation(exp, 1, featureNames, t); err != nil {
					return nil, fmt.Errorf("horizon %d component %d, %w", i, j, err)
				}
				attr, err := slice(exp, 0, featureNames, t)
				if err != nil {
					return nil, err
				}
				res[i][j] = attr
			}
		}
	case LayoutCombined:
		exp := raw.Combined
		if exp == nil {
			return nil, ErrMissingExplanation
		}
		if err := checkExplanation(exp, horizons*targetDim, featureNames, t); err != nil {
			return nil, err
		}
		for i := 0; i < horizons; i++ {
			res[i] = make(map[int]*Attribution, targetDim)
			for j := 0; j < targetDim; j++ {
				attr, err := slice(exp, targetDim*i+j, featureNames, t)
				if err != nil {
					return nil, err
				}
				res[i][j] = attr
			}
		}
	default:
		return nil, fmt.Errorf("%d, %w", raw.Layout, ErrInvalidLayout)
	}
	return res, nil
}

func checkExplanation(exp *attribution.Explanation, outputs int, featureNames []string, t []time.Time) error {
	if err := exp.Validate(); err != nil {
		return fmt.Errorf("%w, %w", ErrShapeMismatch, err)
	}
	s, f, o := exp.Dims()
	if o != outputs {
		return fmt.Errorf("got %d outputs, expected %d, %w", o, outputs, ErrShapeMismatch)
	}
	if f != len(featureNames) {
		return fmt.Errorf("got %d features for %d feature names, %w", f, len(featureNames), ErrShapeMismatch)
	}
	if s != len(t) {
		return fmt.Errorf("got %d samples for %d timestamps, %w", s, len(t), ErrShapeMismatch)
	}
	return nil
}

// slice copies output k of exp into an owned attribution
func slice(exp *attribution.Explanation, k int, featureNames []string, t []time.Time) (*Attribution, error) {
	values, err := exp.Values.Slice(k)
	if err != nil {
		return nil, err
	}
	return &Attribution{
		Values:       values,
		BaseValues:   mat.Col(nil, k, exp.BaseValues),
		FeatureNames: slices.Clone(featureNames),
		Time:         slices.Clone(t),
	}, nil
}
