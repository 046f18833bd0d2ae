package ad

import (
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-tsexplain/stats"
	"github.com/aouyang1/go-tsexplain/timeseries"
)

// QuantileDetector flags score values outside per-component bounds learned from a training
// score series. Bounds are the Low and High quantiles widened by TukeyFactor times their
// distance.
type QuantileDetector struct {
	Low         float64 `json:"low" yaml:"low"`
	High        float64 `json:"high" yaml:"high"`
	TukeyFactor float64 `json:"tukey_factor" yaml:"tukey_factor"`

	lower []float64
	upper []float64
}

// NewQuantileDetector returns a detector using Tukey's fences over the interquartile range
func NewQuantileDetector() *QuantileDetector {
	return &QuantileDetector{
		Low:         0.25,
		High:        0.75,
		TukeyFactor: 1.5,
	}
}

func (q *QuantileDetector) validate() error {
	if q.Low < 0 || q.High > 1 || q.Low > q.High {
		return fmt.Errorf("low %.3f high %.3f, %w", q.Low, q.High, ErrInvalidQuantiles)
	}
	if q.TukeyFactor < 0 {
		return ErrNegativeTukey
	}
	return nil
}

// Fit learns the bounds of every component of a deterministic score series
func (q *QuantileDetector) Fit(scores *timeseries.TimeSeries) error {
	if err := q.validate(); err != nil {
		return err
	}
	if scores == nil {
		return ErrNoSeries
	}
	if !scores.IsDeterministic() {
		return fmt.Errorf("score series has %d samples, %w", scores.NumSamples(), timeseries.ErrNonDeterministic)
	}

	width := scores.Width()
	lower := make([]float64, width)
	upper := make([]float64, width)
	for c := 0; c < width; c++ {
		vals, err := scores.Values(c)
		if err != nil {
			return err
		}
		lower[c], upper[c], err = stats.OutlierBounds(vals, q.Low, q.High, q.TukeyFactor)
		if err != nil {
			return err
		}
		slog.Debug("fitted quantile bounds", "component", scores.Components()[c], "lower", lower[c], "upper", upper[c])
	}
	q.lower, q.upper = lower, upper
	return nil
}

// Bounds returns the fitted lower and upper bounds per component
func (q *QuantileDetector) Bounds() ([]float64, []float64, error) {
	if q.lower == nil {
		return nil, nil, ErrNotFitted
	}
	return append([]float64(nil), q.lower...), append([]float64(nil), q.upper...), nil
}

// Detect returns a binary series with the components of scores set to 1 where the score falls
// strictly outside the fitted bounds and 0 otherwise
func (q *QuantileDetector) Detect(scores *timeseries.TimeSeries) (*timeseries.TimeSeries, error) {
	if q.lower == nil {
		return nil, ErrNotFitted
	}
	if scores == nil {
		return nil, ErrNoSeries
	}
	if !scores.IsDeterministic() {
		return nil, fmt.Errorf("score series has %d samples, %w", scores.NumSamples(), timeseries.ErrNonDeterministic)
	}
	if scores.Width() != len(q.lower) {
		return nil, fmt.Errorf("got %d components, fitted on %d, %w", scores.Width(), len(q.lower), ErrComponentMismatch)
	}

	flags := make([][]float64, scores.Width())
	for c := range flags {
		vals, err := scores.Values(c)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			vals[i] = 0
			if v > q.upper[c] || v < q.lower[c] {
				vals[i] = 1
			}
		}
		flags[c] = vals
	}
	return timeseries.New(scores.Time(), scores.Components(), flags)
}

// FitDetect fits the detector on scores and flags the same series
func (q *QuantileDetector) FitDetect(scores *timeseries.TimeSeries) (*timeseries.TimeSeries, error) {
	if err := q.Fit(scores); err != nil {
		return nil, err
	}
	return q.Detect(scores)
}
