package explain

import (
	"slices"
	"time"

	"github.com/aouyang1/go-tsexplain/timeseries"
	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"
)

// Attribution holds the attributions of a single horizon and target component. Values is
// samples x features and row i was observed at Time[i].
type Attribution struct {
	Values       *mat.Dense
	BaseValues   []float64
	FeatureNames []string
	Time         []time.Time
}

// Attributions maps horizon -> target component index -> attribution
type Attributions map[int]map[int]*Attribution

// Get returns the attribution of a horizon and target component
func (a Attributions) Get(horizon, component int) (*Attribution, bool) {
	byComp, exists := a[horizon]
	if !exists {
		return nil, false
	}
	attr, exists := byComp[component]
	return attr, exists
}

// Feature returns the attribution series of a single feature
func (a *Attribution) Feature(name string) ([]float64, bool) {
	idx := slices.Index(a.FeatureNames, name)
	if idx < 0 {
		return nil, false
	}
	return mat.Col(nil, idx, a.Values), true
}

// TimeSeries converts the attributions into a series with one component per feature
func (a *Attribution) TimeSeries() (*timeseries.TimeSeries, error) {
	_, n := a.Values.Dims()
	cols := make([][]float64, n)
	for f := 0; f < n; f++ {
		cols[f] = mat.Col(nil, f, a.Values)
	}
	return timeseries.New(a.Time, a.FeatureNames, cols)
}

// BaseValueSeries converts the base values into a univariate series
func (a *Attribution) BaseValueSeries() (*timeseries.TimeSeries, error) {
	return timeseries.NewUnivariate(a.Time, a.BaseValues)
}

type attributionJSON struct {
	Time         []time.Time `json:"time"`
	FeatureNames []string    `json:"feature_names"`
	Values       [][]float64 `json:"values"`
	BaseValues   []float64   `json:"base_values"`
}

func (a *Attribution) MarshalJSON() ([]byte, error) {
	m, _ := a.Values.Dims()
	rows := make([][]float64, m)
	for i := 0; i < m; i++ {
		rows[i] = mat.Row(nil, i, a.Values)
	}
	return json.Marshal(attributionJSON{
		Time:         a.Time,
		FeatureNames: a.FeatureNames,
		Values:       rows,
		BaseValues:   a.BaseValues,
	})
}
