package models

import (
	"math/rand/v2"
	"testing"

	mat_ "github.com/aouyang1/go-tsexplain/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testModel(t *testing.T, model Model, x, y mat.Matrix, intercept []float64, coef [][]float64, tol float64) {
	err := model.Fit(x, y)
	require.Nil(t, err)

	lin, ok := model.(Linear)
	require.True(t, ok, "not a linear model")
	assert.InDeltaSlice(t, intercept, lin.Intercept(), tol, "intercept")

	c := lin.Coef()
	for i, row := range coef {
		assert.InDeltaSlice(t, row, mat.Row(nil, i, c), tol, "coefficients")
	}

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, tol, "score")
}

// generateLinearData builds random features with targets y[:, j] = intercept[j] + x * coef[:, j]
func generateLinearData(t *testing.T, nObs int, intercept []float64, coef [][]float64) (mat.Matrix, mat.Matrix) {
	rng := rand.New(rand.NewPCG(1, 2))
	nFeat := len(coef)
	data := make([][]float64, nObs)
	for i := 0; i < nObs; i++ {
		data[i] = make([]float64, nFeat)
		for j := 0; j < nFeat; j++ {
			data[i][j] = rng.NormFloat64() * 10
		}
	}
	x, err := mat_.NewDenseFromArray(data)
	require.NoError(t, err)

	c, err := mat_.NewDenseFromArray(coef)
	require.NoError(t, err)

	var y mat.Dense
	y.Mul(x, c)
	for i := 0; i < nObs; i++ {
		for j := range intercept {
			y.Set(i, j, y.At(i, j)+intercept[j])
		}
	}
	return x, &y
}

func generateBenchData(nObs, nFeat int) (mat.Matrix, mat.Matrix, error) {
	rng := rand.New(rand.NewPCG(3, 4))
	data := make([][]float64, nObs)
	for i := 0; i < nObs; i++ {
		data[i] = make([]float64, nFeat)
		for j := 0; j < nFeat; j++ {
			data[i][j] = rng.Float64()
		}
	}

	data2 := make([]float64, 0, nObs)
	for i := 0; i < cap(data2); i++ {
		data2 = append(data2, float64(i))
	}

	x, err := mat_.NewDenseFromArray(data)
	if err != nil {
		return nil, nil, err
	}

	y := mat.NewDense(nObs, 1, data2)
	return x, y, nil
}
