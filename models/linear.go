package models

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// linearWeights holds the fitted weights of a linear estimator with k outputs
type linearWeights struct {
	intercept []float64
	coef      *mat.Dense
}

func (w *linearWeights) fitted() bool {
	return w.coef != nil
}

func (w *linearWeights) predict(x mat.Matrix) (*mat.Dense, error) {
	if !w.fitted() {
		return nil, ErrUntrained
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, xn := x.Dims()
	n, k := w.coef.Dims()
	if xn != n {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn, n, ErrFeatureLenMismatch)
	}

	res := mat.NewDense(m, k, nil)
	res.Mul(x, w.coef)
	for i := 0; i < m; i++ {
		floats.Add(res.RawRowView(i), w.intercept)
	}
	return res, nil
}

// NumFeatures returns the number of input features, or 0 if untrained
func (w *linearWeights) NumFeatures() int {
	if !w.fitted() {
		return 0
	}
	n, _ := w.coef.Dims()
	return n
}

// NumOutputs returns the number of outputs, or 0 if untrained
func (w *linearWeights) NumOutputs() int {
	if !w.fitted() {
		return 0
	}
	_, k := w.coef.Dims()
	return k
}

// Intercept returns a copy of the per output intercepts
func (w *linearWeights) Intercept() []float64 {
	c := make([]float64, len(w.intercept))
	copy(c, w.intercept)
	return c
}

// Coef returns a copy of the n x k coefficient matrix
func (w *linearWeights) Coef() *mat.Dense {
	if !w.fitted() {
		return nil
	}
	return mat.DenseCopyOf(w.coef)
}

func validateTraining(x, y mat.Matrix) error {
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, _ := x.Dims()
	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}
	return nil
}

// withOnes prepends a constant 1.0 column to x
func withOnes(x mat.Matrix) *mat.Dense {
	m, n := x.Dims()
	res := mat.NewDense(m, n+1, nil)
	for i := 0; i < m; i++ {
		res.Set(i, 0, 1.0)
	}
	res.Slice(0, m, 1, n+1).(*mat.Dense).Copy(x)
	return res
}

// score computes the coefficient of determination averaged over every output
func score(e Estimator, x, y mat.Matrix) (float64, error) {
	if err := validateTraining(x, y); err != nil {
		return 0.0, err
	}
	res, err := e.Predict(x)
	if err != nil {
		return 0.0, err
	}
	_, k := res.Dims()
	_, yk := y.Dims()
	if k != yk {
		return 0.0, fmt.Errorf("model has %d outputs and target has %d columns, %w", k, yk, ErrTargetLenMismatch)
	}

	var r2 float64
	for j := 0; j < k; j++ {
		r2 += stat.RSquaredFrom(mat.Col(nil, j, res), mat.Col(nil, j, y), nil)
	}
	return r2 / float64(k), nil
}
