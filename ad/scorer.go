// Package ad scores forecasts against observed series and flags anomalous scores.
package ad

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-tsexplain/timeseries"
)

var (
	ErrNoSeries          = errors.New("no series to score")
	ErrSequenceMismatch  = errors.New("actual and predicted sequences have different lengths")
	ErrInvalidNormOrder  = errors.New("norm order must be 1 or 2")
	ErrNotFitted         = errors.New("detector has not been fitted")
	ErrInvalidQuantiles  = errors.New("quantiles must satisfy 0 <= low <= high <= 1")
	ErrNegativeTukey     = errors.New("tukey factor must be non-negative")
	ErrComponentMismatch = errors.New("series has a different number of components than the fitted detector")
)

// Scorer compares an observed series with a prediction of it and returns a score series
type Scorer interface {
	Score(actual, pred *timeseries.TimeSeries) (*timeseries.TimeSeries, error)
	String() string
}

// DifferenceScorer scores a prediction by the raw difference actual - pred
type DifferenceScorer struct{}

func (DifferenceScorer) String() string {
	return "difference"
}

// Score returns actual - pred. Both series must be deterministic and share the same time index
// and number of components. The result keeps the component names of actual.
func (DifferenceScorer) Score(actual, pred *timeseries.TimeSeries) (*timeseries.TimeSeries, error) {
	if actual == nil || pred == nil {
		return nil, ErrNoSeries
	}
	if err := checkDeterministic(actual, pred); err != nil {
		return nil, err
	}
	return actual.Sub(pred)
}

func checkDeterministic(actual, pred *timeseries.TimeSeries) error {
	if !actual.IsDeterministic() {
		return fmt.Errorf("actual series has %d samples, %w", actual.NumSamples(), timeseries.ErrNonDeterministic)
	}
	if !pred.IsDeterministic() {
		return fmt.Errorf("predicted series has %d samples, %w", pred.NumSamples(), timeseries.ErrNonDeterministic)
	}
	return nil
}

// NormScorer scores a prediction by the norm of the difference. When ComponentWise is set every
// component is scored on its own by its absolute difference, otherwise the components at each
// time point are reduced to a single L1 or L2 norm.
type NormScorer struct {
	Ord           int
	ComponentWise bool
}

// NewNormScorer returns an L2 scorer across components
func NewNormScorer() *NormScorer {
	return &NormScorer{Ord: 2}
}

func (n *NormScorer) String() string {
	if n.ComponentWise {
		return "norm_component_wise"
	}
	return fmt.Sprintf("norm_l%d", n.Ord)
}

func (n *NormScorer) Score(actual, pred *timeseries.TimeSeries) (*timeseries.TimeSeries, error) {
	if !n.ComponentWise && n.Ord != 1 && n.Ord != 2 {
		return nil, fmt.Errorf("got order %d, %w", n.Ord, ErrInvalidNormOrder)
	}
	diff, err := DifferenceScorer{}.Score(actual, pred)
	if err != nil {
		return nil, err
	}

	width := diff.Width()
	cols := make([][]float64, width)
	for c := range cols {
		if cols[c], err = diff.Values(c); err != nil {
			return nil, err
		}
	}

	if n.ComponentWise {
		for _, col := range cols {
			for i, v := range col {
				col[i] = math.Abs(v)
			}
		}
		return timeseries.New(diff.Time(), diff.Components(), cols)
	}

	norm := make([]float64, diff.Len())
	for i := range norm {
		var acc float64
		for _, col := range cols {
			if n.Ord == 1 {
				acc += math.Abs(col[i])
				continue
			}
			acc += col[i] * col[i]
		}
		if n.Ord == 2 {
			acc = math.Sqrt(acc)
		}
		norm[i] = acc
	}
	return timeseries.NewUnivariate(diff.Time(), norm)
}

// ScoreSequence scores every pair of series in order
func ScoreSequence(s Scorer, actual, pred []*timeseries.TimeSeries) ([]*timeseries.TimeSeries, error) {
	if len(actual) != len(pred) {
		return nil, fmt.Errorf("%d actual and %d predicted series, %w", len(actual), len(pred), ErrSequenceMismatch)
	}
	res := make([]*timeseries.TimeSeries, len(actual))
	for i := range actual {
		score, err := s.Score(actual[i], pred[i])
		if err != nil {
			return nil, fmt.Errorf("series %d, %w", i, err)
		}
		res[i] = score
	}
	return res, nil
}
