package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOutlierBounds(t *testing.T) {
	y := []float64{5, 1, 4, 2, 3, 0, 6, 8, 7, 9, 10}

	testData := map[string]struct {
		lower       float64
		upper       float64
		tukeyFactor float64
		expLower    float64
		expUpper    float64
	}{
		"full range":        {0.0, 1.0, 0.0, 0, 10},
		"clamped":           {-1.0, 2.0, -3.0, 0, 10},
		"inner":             {0.1, 0.9, 0.0, 1, 9},
		"widened":           {0.1, 0.9, 0.5, -3, 13},
		"single percentile": {0.5, 0.5, 1.0, 5, 5},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			lower, upper, err := OutlierBounds(y, td.lower, td.upper, td.tukeyFactor)
			require.NoError(t, err)
			assert.Equal(t, td.expLower, lower)
			assert.Equal(t, td.expUpper, upper)
		})
	}

	withNaN := []float64{math.NaN(), 5, 1, 4, math.NaN(), 2, 3, 0, 6, 8, 7, 9, 10, math.NaN()}
	lower, upper, err := OutlierBounds(withNaN, 0.1, 0.9, 0.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lower)
	assert.Equal(t, 9.0, upper)

	_, _, err = OutlierBounds(nil, 0, 1, 0)
	assert.ErrorIs(t, err, ErrNoData)

	_, _, err = OutlierBounds([]float64{math.NaN(), math.NaN()}, 0, 1, 0)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDetectOutliers(t *testing.T) {
	y := []float64{1, 1.1, 0.9, 1, 25, 1.05, 0.95, -30, 1}

	testData := map[string]struct {
		lower       float64
		upper       float64
		tukeyFactor float64
		expected    []int
	}{
		"tukey fences":  {0.25, 0.75, 1.5, []int{4, 7}},
		"full range":    {0.0, 1.0, 0.0, nil},
		"narrow fences": {0.5, 0.5, 0.0, []int{1, 2, 4, 5, 6, 7}},
		"empty":         {0, 1, 0, nil},
		"missing":       {0.25, 0.75, 1.5, []int{6}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			data := y
			switch name {
			case "empty":
				data = nil
			case "missing":
				data = []float64{math.NaN(), math.NaN(), 1, 1, 1, 1, 100}
			}
			assert.Equal(t, td.expected, DetectOutliers(data, td.lower, td.upper, td.tukeyFactor))
		})
	}
}

func TestVarianceInflationFactor(t *testing.T) {
	n := 200
	rng := rand.New(rand.NewPCG(3, 4))
	x := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		a := rng.NormFloat64()
		b := rng.NormFloat64()
		x.Set(i, 0, a)
		x.Set(i, 1, b)
		x.Set(i, 2, a+0.01*rng.NormFloat64())
	}

	vif, err := VarianceInflationFactor(x, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vif, 3)

	assert.Less(t, vif["b"], 1.5)
	assert.Greater(t, vif["a"], 100.0)
	assert.Greater(t, vif["c"], 100.0)

	collinear := mat.NewDense(4, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
		4, 8,
	})
	vif, err = VarianceInflationFactor(collinear, []string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, vif["a"] > 1e10 || math.IsInf(vif["a"], 1))
}

func TestVarianceInflationFactorErrors(t *testing.T) {
	testData := map[string]struct {
		x     mat.Matrix
		names []string
		err   error
	}{
		"single feature": {mat.NewDense(3, 1, nil), []string{"a"}, ErrMinimumFeatures},
		"name mismatch":  {mat.NewDense(3, 2, nil), []string{"a"}, ErrFeatureLenMismatch},
		"single point":   {mat.NewDense(1, 2, nil), []string{"a", "b"}, ErrFeatureLen},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := VarianceInflationFactor(td.x, td.names)
			assert.ErrorIs(t, err, td.err)
		})
	}
}
