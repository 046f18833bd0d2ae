// Package stats holds small diagnostics over score series and lagged feature matrices.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aouyang1/go-tsexplain/models"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMinimumFeatures    = errors.New("need at least 2 features to compute VIF")
	ErrFeatureLenMismatch = errors.New("number of feature names does not match number of columns")
	ErrFeatureLen         = errors.New("must have at least 2 points per feature")
	ErrNoData             = errors.New("no data to compute bounds")
)

// OutlierBounds returns the lowerPerc and upperPerc percentiles of y widened on both sides by
// tukeyFactor times the distance between them. Percentiles are clamped to [0, 1] and NaN values
// are skipped.
func OutlierBounds(y []float64, lowerPerc, upperPerc, tukeyFactor float64) (float64, float64, error) {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) {
			yCopy = append(yCopy, v)
		}
	}
	if len(yCopy) == 0 {
		return 0, 0, ErrNoData
	}
	sort.Float64s(yCopy)

	last := len(yCopy) - 1
	lowerIdx := min(int(math.Floor(float64(last)*lowerPerc)), last)
	upperIdx := min(int(math.Ceil(float64(last)*upperPerc)), last)

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor
	return lower, upper, nil
}

// DetectOutliers returns the indices of y strictly outside the bounds computed by OutlierBounds
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lower, upper, err := OutlierBounds(y, lowerPerc, upperPerc, tukeyFactor)
	if err != nil {
		return nil
	}

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// VarianceInflationFactor regresses every column of x on the remaining columns and returns
// 1 / (1 - R^2) keyed by column name. Perfectly collinear columns report +Inf.
func VarianceInflationFactor(x mat.Matrix, names []string) (map[string]float64, error) {
	m, n := x.Dims()
	if n < 2 {
		return nil, ErrMinimumFeatures
	}
	if len(names) != n {
		return nil, fmt.Errorf("%d names for %d columns, %w", len(names), n, ErrFeatureLenMismatch)
	}
	if m < 2 {
		return nil, ErrFeatureLen
	}

	vif := make(map[string]float64, n)
	others := mat.NewDense(m, n-1, nil)
	y := mat.NewDense(m, 1, nil)
	col := make([]float64, m)
	for label := 0; label < n; label++ {
		y.SetCol(0, mat.Col(col, label, x))
		c := 0
		for other := 0; other < n; other++ {
			if other == label {
				continue
			}
			others.SetCol(c, mat.Col(col, other, x))
			c++
		}

		ols, err := models.NewOLSRegression(nil)
		if err != nil {
			return nil, err
		}
		if err := ols.Fit(others, y); err != nil {
			return nil, fmt.Errorf("unable to regress %s, %w", names[label], err)
		}
		r2, err := ols.Score(others, y)
		if err != nil {
			return nil, fmt.Errorf("unable to score %s, %w", names[label], err)
		}

		if r2 >= 1.0 {
			vif[names[label]] = math.Inf(1)
			continue
		}
		vif[names[label]] = 1.0 / (1.0 - r2)
	}
	return vif, nil
}
