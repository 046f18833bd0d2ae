// Package models is a collection of regression estimators operating on lagged feature matrices.
// Estimators may produce several outputs per row, one per (horizon, target component) pair.
package models

import (
	"gonum.org/v1/gonum/mat"
)

// Kind tags the family an estimator belongs to. It is used to pick a default attribution method
// without inspecting concrete types.
type Kind string

const (
	KindOLS         Kind = "ols"
	KindLasso       Kind = "lasso"
	KindMultiOutput Kind = "multi_output"
	KindCustom      Kind = "custom"
)

// Estimator is a fitted regressor mapping an m x n design matrix to m x k predictions
type Estimator interface {
	Predict(x mat.Matrix) (*mat.Dense, error)
	NumFeatures() int
	NumOutputs() int
	Kind() Kind
}

// Linear is an Estimator whose predictions are x * Coef() + Intercept(). Coef is n x k.
type Linear interface {
	Estimator
	Intercept() []float64
	Coef() *mat.Dense
}

// Model is a trainable Estimator
type Model interface {
	Estimator
	Fit(x, y mat.Matrix) error
	Score(x, y mat.Matrix) (float64, error)
}
