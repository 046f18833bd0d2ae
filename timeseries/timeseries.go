package timeseries

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultComponentName is the component name assigned to a univariate series
const DefaultComponentName = "0"

var (
	ErrNoData             = errors.New("no time series data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrComponentMismatch  = errors.New("number of component names does not match number of components")
	ErrDuplicateComponent = errors.New("duplicate component name")
	ErrEmptyComponentName = errors.New("empty component name")
	ErrSampleMismatch     = errors.New("samples do not have the same number of components")
	ErrNonDeterministic   = errors.New("series is not deterministic")
	ErrTimeIndexMismatch  = errors.New("series do not share the same time index")
	ErrWidthMismatch      = errors.New("series do not have the same number of components")
	ErrOutOfBounds        = errors.New("index is out of bounds")
)

// TimeSeries represents an ordered set of timestamped observations with one or more named
// components. Each (time, component) pair holds one value per sample. A series with a single
// sample is deterministic, otherwise it is stochastic.
type TimeSeries struct {
	t     []time.Time
	names []string

	// samples[s][c][i] is the value of component c at time t[i] for sample s
	samples [][][]float64
}

// NewUnivariate returns a deterministic single component series named DefaultComponentName.
func NewUnivariate(t []time.Time, y []float64) (*TimeSeries, error) {
	return New(t, []string{DefaultComponentName}, [][]float64{y})
}

// New returns a deterministic series where values[c] holds the observations of the component
// named names[c].
func New(t []time.Time, names []string, values [][]float64) (*TimeSeries, error) {
	return NewStochastic(t, names, [][][]float64{values})
}

// NewStochastic returns a series with multiple samples per observation. samples[s][c] holds the
// observations of sample s for component names[c]. All inputs are copied.
func NewStochastic(t []time.Time, names []string, samples [][][]float64) (*TimeSeries, error) {
	if len(samples) == 0 || len(samples[0]) == 0 || len(samples[0][0]) == 0 {
		return nil, ErrNoData
	}
	if err := validateTime(t); err != nil {
		return nil, err
	}
	if err := validateNames(names, len(samples[0])); err != nil {
		return nil, err
	}

	width := len(names)
	sCopy := make([][][]float64, len(samples))
	for s, comps := range samples {
		if len(comps) != width {
			return nil, fmt.Errorf("sample %d has %d components, expected %d, %w", s, len(comps), width, ErrSampleMismatch)
		}
		sCopy[s] = make([][]float64, width)
		for c, vals := range comps {
			if len(vals) != len(t) {
				return nil, fmt.Errorf(
					"time feature has length of %d, but component %q has a length of %d, %w",
					len(t), names[c], len(vals), ErrDatasetLenMismatch,
				)
			}
			v := make([]float64, len(vals))
			copy(v, vals)
			sCopy[s][c] = v
		}
	}

	tSeries := make([]time.Time, len(t))
	copy(tSeries, t)
	nCopy := make([]string, len(names))
	copy(nCopy, names)

	return &TimeSeries{
		t:       tSeries,
		names:   nCopy,
		samples: sCopy,
	}, nil
}

func validateTime(t []time.Time) error {
	if len(t) == 0 {
		return ErrNoData
	}
	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
	}
	return nil
}

func validateNames(names []string, width int) error {
	if len(names) != width {
		return fmt.Errorf("got %d names for %d components, %w", len(names), width, ErrComponentMismatch)
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return ErrEmptyComponentName
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%q, %w", name, ErrDuplicateComponent)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Len returns the number of time points
func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.t)
}

// Width returns the number of components
func (ts *TimeSeries) Width() int {
	if ts == nil {
		return 0
	}
	return len(ts.names)
}

// NumSamples returns the number of samples per observation
func (ts *TimeSeries) NumSamples() int {
	if ts == nil {
		return 0
	}
	return len(ts.samples)
}

// IsDeterministic is true when the series holds exactly one sample per observation
func (ts *TimeSeries) IsDeterministic() bool {
	return ts.NumSamples() == 1
}

// Time returns a copy of the time index
func (ts *TimeSeries) Time() TimeSlice {
	if ts == nil {
		return nil
	}
	t := make([]time.Time, len(ts.t))
	copy(t, ts.t)
	return t
}

// Components returns a copy of the component names
func (ts *TimeSeries) Components() []string {
	if ts == nil {
		return nil
	}
	names := make([]string, len(ts.names))
	copy(names, ts.names)
	return names
}

// ComponentIndex returns the position of the named component
func (ts *TimeSeries) ComponentIndex(name string) (int, bool) {
	if ts == nil {
		return -1, false
	}
	for i, n := range ts.names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// At returns the first sample's value of component c at position i
func (ts *TimeSeries) At(i, c int) float64 {
	return ts.samples[0][c][i]
}

// TimeAt returns the timestamp at position i
func (ts *TimeSeries) TimeAt(i int) time.Time {
	return ts.t[i]
}

// Values returns a copy of the first sample of component c
func (ts *TimeSeries) Values(c int) ([]float64, error) {
	return ts.SampleValues(0, c)
}

// SampleValues returns a copy of sample s for component c
func (ts *TimeSeries) SampleValues(s, c int) ([]float64, error) {
	if ts == nil {
		return nil, ErrNoData
	}
	if s < 0 || s >= len(ts.samples) {
		return nil, fmt.Errorf("sample %d of %d, %w", s, len(ts.samples), ErrOutOfBounds)
	}
	if c < 0 || c >= len(ts.names) {
		return nil, fmt.Errorf("component %d of %d, %w", c, len(ts.names), ErrOutOfBounds)
	}
	v := make([]float64, len(ts.t))
	copy(v, ts.samples[s][c])
	return v, nil
}

// Matrix returns the first sample as a matrix with a row per time point and a column per
// component.
func (ts *TimeSeries) Matrix() *mat.Dense {
	if ts == nil {
		return nil
	}
	m, n := len(ts.t), len(ts.names)
	x := mat.NewDense(m, n, nil)
	for c := 0; c < n; c++ {
		x.SetCol(c, ts.samples[0][c])
	}
	return x
}

// SameIndex is true when both series share exactly the same timestamps
func (ts *TimeSeries) SameIndex(other *TimeSeries) bool {
	if ts.Len() != other.Len() {
		return false
	}
	for i := range ts.t {
		if !ts.t[i].Equal(other.t[i]) {
			return false
		}
	}
	return true
}

// Sub returns a new deterministic series of ts - other. Both series must be deterministic,
// share the same time index and have the same number of components. Component names are taken
// from ts.
func (ts *TimeSeries) Sub(other *TimeSeries) (*TimeSeries, error) {
	if ts == nil || other == nil {
		return nil, ErrNoData
	}
	if !ts.IsDeterministic() {
		return nil, fmt.Errorf("left operand has %d samples, %w", ts.NumSamples(), ErrNonDeterministic)
	}
	if !other.IsDeterministic() {
		return nil, fmt.Errorf("right operand has %d samples, %w", other.NumSamples(), ErrNonDeterministic)
	}
	if ts.Width() != other.Width() {
		return nil, fmt.Errorf("%d components vs %d components, %w", ts.Width(), other.Width(), ErrWidthMismatch)
	}
	if !ts.SameIndex(other) {
		return nil, ErrTimeIndexMismatch
	}

	res := ts.Copy()
	for c := range res.samples[0] {
		floats.Sub(res.samples[0][c], other.samples[0][c])
	}
	return res, nil
}

// Copy returns a deep copy of the series
func (ts *TimeSeries) Copy() *TimeSeries {
	if ts == nil {
		return nil
	}
	tSeries := make([]time.Time, len(ts.t))
	copy(tSeries, ts.t)
	names := make([]string, len(ts.names))
	copy(names, ts.names)

	samples := make([][][]float64, len(ts.samples))
	for s, comps := range ts.samples {
		samples[s] = make([][]float64, len(comps))
		for c, vals := range comps {
			v := make([]float64, len(vals))
			copy(v, vals)
			samples[s][c] = v
		}
	}
	return &TimeSeries{
		t:       tSeries,
		names:   names,
		samples: samples,
	}
}
