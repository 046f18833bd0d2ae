package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MultiOutput holds one independent single output estimator per output column. Output i of the
// combined prediction is the prediction of estimator i.
type MultiOutput struct {
	estimators []Estimator
}

// NewMultiOutput wraps already fitted single output estimators sharing the same features
func NewMultiOutput(estimators ...Estimator) (*MultiOutput, error) {
	if len(estimators) == 0 {
		return nil, ErrNoEstimators
	}
	n := estimators[0].NumFeatures()
	for i, e := range estimators {
		if e.NumOutputs() != 1 {
			return nil, fmt.Errorf("estimator %d has %d outputs, %w", i, e.NumOutputs(), ErrNotSingleOutput)
		}
		if e.NumFeatures() != n {
			return nil, fmt.Errorf("estimator %d has %d features instead of %d, %w", i, e.NumFeatures(), n, ErrFeatureLenMismatch)
		}
	}
	est := make([]Estimator, len(estimators))
	copy(est, estimators)
	return &MultiOutput{estimators: est}, nil
}

// FitMultiOutput fits a fresh model from newModel for every column of y
func FitMultiOutput(newModel func() (Model, error), x, y mat.Matrix) (*MultiOutput, error) {
	if err := validateTraining(x, y); err != nil {
		return nil, err
	}
	m, k := y.Dims()
	estimators := make([]Estimator, 0, k)
	for j := 0; j < k; j++ {
		model, err := newModel()
		if err != nil {
			return nil, err
		}
		yj := mat.NewDense(m, 1, mat.Col(nil, j, y))
		if err := model.Fit(x, yj); err != nil {
			return nil, fmt.Errorf("unable to fit output %d, %w", j, err)
		}
		estimators = append(estimators, model)
	}
	return NewMultiOutput(estimators...)
}

func (mo *MultiOutput) Predict(x mat.Matrix) (*mat.Dense, error) {
	if mo == nil || len(mo.estimators) == 0 {
		return nil, ErrNoEstimators
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, _ := x.Dims()
	res := mat.NewDense(m, len(mo.estimators), nil)
	for j, e := range mo.estimators {
		pred, err := e.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("estimator %d, %w", j, err)
		}
		res.SetCol(j, mat.Col(nil, 0, pred))
	}
	return res, nil
}

// Score returns the coefficient of determination averaged across outputs
func (mo *MultiOutput) Score(x, y mat.Matrix) (float64, error) {
	return score(mo, x, y)
}

func (mo *MultiOutput) NumFeatures() int {
	if mo == nil || len(mo.estimators) == 0 {
		return 0
	}
	return mo.estimators[0].NumFeatures()
}

func (mo *MultiOutput) NumOutputs() int {
	if mo == nil {
		return 0
	}
	return len(mo.estimators)
}

func (mo *MultiOutput) Kind() Kind {
	return KindMultiOutput
}

// Estimator returns the estimator producing output i
func (mo *MultiOutput) Estimator(i int) (Estimator, error) {
	if mo == nil || i < 0 || i >= len(mo.estimators) {
		return nil, fmt.Errorf("estimator %d of %d, %w", i, mo.NumOutputs(), ErrNoEstimators)
	}
	return mo.estimators[i], nil
}
