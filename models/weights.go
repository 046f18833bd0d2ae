package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Weights is a serializeable representation of a fitted estimator. Linear estimators store their
// intercepts and an n x k coefficient table, multi output estimators store one Weights per output.
type Weights struct {
	Kind       Kind        `json:"kind" yaml:"kind"`
	Intercept  []float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Coef       [][]float64 `json:"coef,omitempty" yaml:"coef,omitempty"`
	Estimators []Weights   `json:"estimators,omitempty" yaml:"estimators,omitempty"`
}

// WeightsOf extracts the serializeable weights of a fitted estimator
func WeightsOf(e Estimator) (Weights, error) {
	switch est := e.(type) {
	case *MultiOutput:
		w := Weights{Kind: KindMultiOutput}
		for i, sub := range est.estimators {
			subW, err := WeightsOf(sub)
			if err != nil {
				return Weights{}, fmt.Errorf("estimator %d, %w", i, err)
			}
			w.Estimators = append(w.Estimators, subW)
		}
		return w, nil
	case Linear:
		coef := est.Coef()
		if coef == nil {
			return Weights{}, ErrUntrained
		}
		n, _ := coef.Dims()
		rows := make([][]float64, n)
		for i := 0; i < n; i++ {
			rows[i] = mat.Row(nil, i, coef)
		}
		return Weights{
			Kind:      est.Kind(),
			Intercept: est.Intercept(),
			Coef:      rows,
		}, nil
	}
	return Weights{}, fmt.Errorf("%s, %w", e.Kind(), ErrUnknownKind)
}

// NewFromWeights creates a fitted estimator that can be used for inference immediately
func NewFromWeights(w Weights) (Estimator, error) {
	switch w.Kind {
	case KindMultiOutput:
		estimators := make([]Estimator, 0, len(w.Estimators))
		for i, subW := range w.Estimators {
			sub, err := NewFromWeights(subW)
			if err != nil {
				return nil, fmt.Errorf("estimator %d, %w", i, err)
			}
			estimators = append(estimators, sub)
		}
		return NewMultiOutput(estimators...)
	case KindOLS, KindLasso:
		lw, err := newLinearWeights(w)
		if err != nil {
			return nil, err
		}
		if w.Kind == KindLasso {
			return &LassoRegression{linearWeights: lw, opt: NewDefaultLassoOptions()}, nil
		}
		return &OLSRegression{linearWeights: lw, opt: NewDefaultOLSOptions()}, nil
	}
	return nil, fmt.Errorf("%q, %w", w.Kind, ErrUnknownKind)
}

func newLinearWeights(w Weights) (linearWeights, error) {
	n := len(w.Coef)
	k := len(w.Intercept)
	if n == 0 || k == 0 {
		return linearWeights{}, ErrUntrained
	}
	coef := mat.NewDense(n, k, nil)
	for i, row := range w.Coef {
		if len(row) != k {
			return linearWeights{}, fmt.Errorf(
				"coefficient row %d has %d outputs, but there are %d intercepts, %w",
				i, len(row), k, ErrFeatureLenMismatch,
			)
		}
		coef.SetRow(i, row)
	}
	intercept := make([]float64, k)
	copy(intercept, w.Intercept)
	return linearWeights{intercept: intercept, coef: coef}, nil
}
