package models

import (
	"errors"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultLambda     = 1.0
	DefaultIterations = 1000
	DefaultTolerance  = 1e-4
)

var (
	ErrNegativeLambda     = errors.New("negative lambda")
	ErrNegativeIterations = errors.New("negative iterations")
	ErrNegativeTolerance  = errors.New("negative tolerance")
)

// LassoOptions represents input options to run the Lasso Regression
type LassoOptions struct {
	// Lambda represents the L1 multiplier, controlling the regularization. Must be a non-negative. 0.0 results in converging
	// to Ordinary Least Squares (OLS).
	Lambda float64 `json:"lambda" yaml:"lambda"`

	// Iterations is the maximum number of times the fit loops through training all coefficients.
	Iterations int `json:"iterations" yaml:"iterations"`

	// Tolerance is the smallest coefficient channge on each iteration to determine when to stop iterating.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// FitIntercept adds an unpenalized constant 1.0 feature if set to true
	FitIntercept bool `json:"fit_intercept" yaml:"fit_intercept"`
}

// Validate runs basic validation on Lasso options
func (l *LassoOptions) Validate() (*LassoOptions, error) {
	if l == nil {
		l = NewDefaultLassoOptions()
	}

	if l.Lambda < 0 {
		return nil, ErrNegativeLambda
	}
	if l.Iterations < 0 {
		return nil, ErrNegativeIterations
	}
	if l.Tolerance < 0 {
		return nil, ErrNegativeTolerance
	}
	return l, nil
}

// NewDefaultLassoOptions returns a default set of Lasso Regression options
func NewDefaultLassoOptions() *LassoOptions {
	return &LassoOptions{
		Lambda:       DefaultLambda,
		Iterations:   DefaultIterations,
		Tolerance:    DefaultTolerance,
		FitIntercept: true,
	}
}

// LassoRegression computes the lasso regression using coordinate descent. lambda = 0 converges to OLS.
// Each target column is fit independently.
type LassoRegression struct {
	linearWeights
	opt *LassoOptions
}

// NewLassoRegression initializes a Lasso model ready for fitting
func NewLassoRegression(opt *LassoOptions) (*LassoRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &LassoRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data
func (l *LassoRegression) Fit(x, y mat.Matrix) error {
	if l.opt == nil {
		return ErrNoOptions
	}
	if err := validateTraining(x, y); err != nil {
		return err
	}

	design := mat.DenseCopyOf(x)
	if l.opt.FitIntercept {
		design = withOnes(x)
	}
	m, n := design.Dims()
	_, k := y.Dims()

	xcols := make([][]float64, n)
	xdot := make([]float64, n)
	gamma := make([]float64, n)
	for j := 0; j < n; j++ {
		xcols[j] = mat.Col(nil, j, design)
		xdot[j] = floats.Dot(xcols[j], xcols[j])
		if xdot[j] > 0 {
			gamma[j] = l.opt.Lambda / xdot[j]
		}
	}
	if l.opt.FitIntercept {
		gamma[0] = 0
	}

	coef := mat.NewDense(n, k, nil)
	for out := 0; out < k; out++ {
		beta, converged := l.coordinateDescent(xcols, xdot, gamma, mat.Col(nil, out, y), m)
		if !converged {
			slog.Warn("lasso regression did not converge", "output", out, "iterations", l.opt.Iterations)
		}
		coef.SetCol(out, beta)
	}

	if l.opt.FitIntercept {
		l.intercept = mat.Row(nil, 0, coef)
		l.coef = mat.DenseCopyOf(coef.Slice(1, n, 0, k))
		return nil
	}
	l.intercept = make([]float64, k)
	l.coef = coef
	return nil
}

func (l *LassoRegression) coordinateDescent(xcols [][]float64, xdot, gamma, y []float64, m int) ([]float64, bool) {
	n := len(xcols)
	beta := make([]float64, n)

	// residual tracks y - x*beta and is updated incrementally on every coordinate step
	residual := make([]float64, m)
	copy(residual, y)

	for i := 0; i < l.opt.Iterations; i++ {
		maxCoef := 0.0
		maxUpdate := 0.0
		for j := 0; j < n; j++ {
			if xdot[j] == 0 {
				continue
			}
			betaCurr := beta[j]
			betaNext := floats.Dot(xcols[j], residual)/xdot[j] + betaCurr
			betaNext = SoftThreshold(betaNext, gamma[j])

			if diff := betaNext - betaCurr; diff != 0 {
				floats.AddScaled(residual, -diff, xcols[j])
			}
			maxCoef = math.Max(maxCoef, math.Abs(betaNext))
			maxUpdate = math.Max(maxUpdate, math.Abs(betaNext-betaCurr))
			beta[j] = betaNext
		}

		// break early if we've achieved the desired tolerance
		if maxUpdate <= l.opt.Tolerance*maxCoef {
			return beta, true
		}
	}
	return beta, false
}

// Predict using the Lasso model
func (l *LassoRegression) Predict(x mat.Matrix) (*mat.Dense, error) {
	if l.opt == nil {
		return nil, ErrNoOptions
	}
	return l.predict(x)
}

// Score computes the coefficient of determination of the prediction
func (l *LassoRegression) Score(x, y mat.Matrix) (float64, error) {
	if l.opt == nil {
		return 0.0, ErrNoOptions
	}
	return score(l, x, y)
}

func (l *LassoRegression) Kind() Kind {
	return KindLasso
}

// SoftThreshold shrinks x towards zero by gamma
func SoftThreshold(x, gamma float64) float64 {
	res := math.Max(0, math.Abs(x)-gamma)
	if math.Signbit(x) {
		return -res
	}
	return res
}
