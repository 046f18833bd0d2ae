package models

import (
	"testing"

	mat_ "github.com/aouyang1/go-tsexplain/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLassoOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *LassoOptions
		err      error
		expected *LassoOptions
	}{
		"nil": {nil, nil, NewDefaultLassoOptions()},
		"valid": {
			&LassoOptions{
				Lambda:     1.0,
				Iterations: 100,
				Tolerance:  1e-5,
			}, nil,
			&LassoOptions{
				Lambda:     1.0,
				Iterations: 100,
				Tolerance:  1e-5,
			},
		},
		"invalid lambda": {
			&LassoOptions{Lambda: -1.0},
			ErrNegativeLambda, nil,
		},
		"invalid iterations": {
			&LassoOptions{Iterations: -1},
			ErrNegativeIterations, nil,
		},
		"invalid tolerance": {
			&LassoOptions{Tolerance: -1.0},
			ErrNegativeTolerance, nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestLassoRegression(t *testing.T) {
	// y = 2 + 3*x0 + 4*x1
	tol := 1e-4
	desTol := 1e-10
	lambda := 0.0
	testData := map[string]struct {
		x         [][]float64
		y         []float64
		opt       *LassoOptions
		intercept []float64
		coef      [][]float64
	}{
		"model intercept": {
			x: [][]float64{
				{0, 0},
				{3, 5},
				{9, 20},
				{12, 6},
				{15, 10},
			},
			y: []float64{2, 31, 109, 62, 87},
			opt: func() *LassoOptions {
				opt := NewDefaultLassoOptions()
				opt.Lambda = lambda
				opt.Tolerance = desTol
				opt.Iterations = 100000
				return opt
			}(),
			intercept: []float64{2.0},
			coef:      [][]float64{{3.0}, {4.0}},
		},
		"model no intercept": {
			x: [][]float64{
				{1, 0, 0},
				{1, 3, 5},
				{1, 9, 20},
				{1, 12, 6},
				{1, 15, 10},
			},
			y: []float64{2, 31, 109, 62, 87},
			opt: func() *LassoOptions {
				opt := NewDefaultLassoOptions()
				opt.Lambda = lambda
				opt.Tolerance = desTol
				opt.Iterations = 100000
				opt.FitIntercept = false
				return opt
			}(),
			intercept: []float64{0.0},
			coef:      [][]float64{{2.0}, {3.0}, {4.0}},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := mat_.NewDenseFromArray(td.x)
			require.Nil(t, err)

			y := mat.NewDense(len(td.y), 1, td.y)

			model, err := NewLassoRegression(td.opt)
			require.Nil(t, err)

			testModel(t, model, x, y, td.intercept, td.coef, tol)
		})
	}
}

func TestLassoRegressionShrinkage(t *testing.T) {
	x, err := mat_.NewDenseFromArray([][]float64{
		{0, 0},
		{3, 5},
		{9, 20},
		{12, 6},
		{15, 10},
	})
	require.NoError(t, err)
	y := mat.NewDense(5, 1, []float64{2, 31, 109, 62, 87})

	opt := NewDefaultLassoOptions()
	opt.Lambda = 1e9
	model, err := NewLassoRegression(opt)
	require.NoError(t, err)
	require.NoError(t, model.Fit(x, y))

	// the intercept is unpenalized and absorbs the target mean
	assert.InDeltaSlice(t, []float64{58.2}, model.Intercept(), 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0}, mat.Col(nil, 0, model.Coef()), 1e-12)
	assert.Equal(t, KindLasso, model.Kind())
}

func TestLassoRegressionMultiOutput(t *testing.T) {
	intercept := []float64{1, -2}
	coef := [][]float64{
		{3, 0},
		{-1, 2},
	}
	x, y := generateLinearData(t, 50, intercept, coef)

	opt := NewDefaultLassoOptions()
	opt.Lambda = 0
	opt.Tolerance = 1e-10
	opt.Iterations = 100000
	model, err := NewLassoRegression(opt)
	require.NoError(t, err)
	testModel(t, model, x, y, intercept, coef, 1e-4)
	assert.Equal(t, 2, model.NumOutputs())
}

func TestSoftThreshold(t *testing.T) {
	testData := map[string]struct {
		x        float64
		gamma    float64
		expected float64
	}{
		"positive above":  {3.0, 1.0, 2.0},
		"positive within": {0.5, 1.0, 0.0},
		"negative above":  {-3.0, 1.0, -2.0},
		"negative within": {-0.5, 1.0, 0.0},
		"zero gamma":      {-1.5, 0.0, -1.5},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, SoftThreshold(td.x, td.gamma), 1e-12)
		})
	}
}

func BenchmarkLassoRegression(b *testing.B) {
	x, y, err := generateBenchData(1000, 100)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		model, err := NewLassoRegression(
			&LassoOptions{
				Lambda:       1.0,
				Iterations:   100,
				Tolerance:    1e-4,
				FitIntercept: false,
			},
		)
		if err != nil {
			b.Error(err)
			continue
		}
		if err := model.Fit(x, y); err != nil {
			b.Error(err)
			continue
		}
	}
}
