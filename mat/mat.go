package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrColMismatch = errors.New("column size mismatch")
	ErrRowMismatch = errors.New("row size mismatch")
)

// NewDenseFromArray creates a dense matrix where each inner slice of x is a row
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)
	if m == 0 || len(x[0]) == 0 {
		return nil, mat.ErrZeroLength
	}

	n := len(x[0])
	// flatten to row order
	data := make([]float64, 0, m*n)
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewDenseFromColumns creates a dense matrix where each inner slice of x is a column
func NewDenseFromColumns(x [][]float64) (*mat.Dense, error) {
	n := len(x)
	if n == 0 || len(x[0]) == 0 {
		return nil, mat.ErrZeroLength
	}

	m := len(x[0])
	res := mat.NewDense(m, n, nil)
	for j, col := range x {
		if len(col) != m {
			return nil, fmt.Errorf("at column %d, %w", j, ErrRowMismatch)
		}
		res.SetCol(j, col)
	}
	return res, nil
}

// ColMeans returns the mean of every column of x
func ColMeans(x mat.Matrix) []float64 {
	_, n := x.Dims()
	means := make([]float64, n)
	for j := 0; j < n; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	return means
}
