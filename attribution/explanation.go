package attribution

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Explanation is the raw output of an engine for a set of rows. BaseValues is samples x outputs.
type Explanation struct {
	Values       *Tensor
	BaseValues   *mat.Dense
	FeatureNames []string
}

// Dims returns the number of samples, features and outputs
func (e *Explanation) Dims() (int, int, int) {
	if e == nil {
		return 0, 0, 0
	}
	return e.Values.Dims()
}

// Validate checks that the base values and feature names agree with the attribution tensor
func (e *Explanation) Validate() error {
	s, f, o := e.Dims()
	if s == 0 {
		return fmt.Errorf("empty explanation, %w", ErrShapeMismatch)
	}
	if e.BaseValues == nil {
		return fmt.Errorf("no base values, %w", ErrShapeMismatch)
	}
	if bs, bo := e.BaseValues.Dims(); bs != s || bo != o {
		return fmt.Errorf(
			"base values are (%d, %d) for %d samples and %d outputs, %w",
			bs, bo, s, o, ErrShapeMismatch,
		)
	}
	if len(e.FeatureNames) != f {
		return fmt.Errorf("%d feature names for %d features, %w", len(e.FeatureNames), f, ErrShapeMismatch)
	}
	return nil
}

func newExplanation(samples, features, outputs int, names []string) (*Explanation, error) {
	values, err := NewTensor(samples, features, outputs, nil)
	if err != nil {
		return nil, err
	}
	fn := make([]string, len(names))
	copy(fn, names)
	return &Explanation{
		Values:       values,
		BaseValues:   mat.NewDense(samples, outputs, nil),
		FeatureNames: fn,
	}, nil
}
