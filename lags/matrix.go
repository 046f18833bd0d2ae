package lags

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/aouyang1/go-tsexplain/feature"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a lagged feature matrix. Row i was observed at Index[i] in input series Series[i],
// and column j holds the feature Labels.Labels()[j].
type Matrix struct {
	Index  []time.Time
	Series []int
	Labels *feature.Labels
	X      *mat.Dense
}

// Dims returns the number of rows and columns
func (m *Matrix) Dims() (int, int) {
	if m == nil || m.X == nil {
		return 0, 0
	}
	return m.X.Dims()
}

// Columns returns the column names in order
func (m *Matrix) Columns() []string {
	if m == nil {
		return nil
	}
	return m.Labels.Names()
}

// NumSeries returns the number of input series that contributed rows
func (m *Matrix) NumSeries() int {
	if m == nil || len(m.Series) == 0 {
		return 0
	}
	return m.Series[len(m.Series)-1] + 1
}

// Rows returns a new matrix holding the requested rows in the given order
func (m *Matrix) Rows(idxs []int) *Matrix {
	_, n := m.Dims()
	index := make([]time.Time, len(idxs))
	series := make([]int, len(idxs))
	if len(idxs) == 0 || n == 0 {
		return &Matrix{Index: index, Series: series, Labels: m.Labels}
	}

	x := mat.NewDense(len(idxs), n, nil)
	for i, idx := range idxs {
		x.SetRow(i, m.X.RawRowView(idx))
		index[i] = m.Index[idx]
		series[i] = m.Series[idx]
	}
	return &Matrix{
		Index:  index,
		Series: series,
		Labels: m.Labels,
		X:      x,
	}
}

// SeriesRows returns the rows contributed by input series s. The result has no rows if the
// series contributed none.
func (m *Matrix) SeriesRows(s int) []int {
	var idxs []int
	for i, si := range m.Series {
		if si == s {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// Sample draws n rows uniformly at random without replacement, keeping their original order.
// If n is not positive or at least the number of rows, a copy of every row is returned.
func (m *Matrix) Sample(n int, seed uint64) *Matrix {
	r, _ := m.Dims()
	if n <= 0 || n >= r {
		idxs := make([]int, r)
		for i := range idxs {
			idxs[i] = i
		}
		return m.Rows(idxs)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	idxs := rng.Perm(r)[:n]
	sort.Ints(idxs)
	return m.Rows(idxs)
}
