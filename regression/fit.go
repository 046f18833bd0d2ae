package regression

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-tsexplain/lags"
	"github.com/aouyang1/go-tsexplain/models"
	"gonum.org/v1/gonum/mat"
)

var ErrNoTrainingRows = errors.New("no rows with a complete forecast horizon")

// Options configures how a regression model is fit
type Options struct {
	Lags              lags.Spec `json:"lags" yaml:"lags"`
	OutputChunkLength int       `json:"output_chunk_length" yaml:"output_chunk_length"`

	// MultiOutput fits an independent single output estimator per output instead of one
	// estimator for every output
	MultiOutput bool `json:"multi_output" yaml:"multi_output"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Lags:              lags.Spec{Target: []int{-1}},
		OutputChunkLength: 1,
	}
}

// Validate returns the default options if none are set
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if err := o.Lags.Validate(); err != nil {
		return nil, err
	}
	if o.OutputChunkLength < 1 {
		return nil, fmt.Errorf("%d horizons, %w", o.OutputChunkLength, ErrInvalidHorizons)
	}
	return o, nil
}

// TrainingData builds the lagged feature matrix of data alongside its targets. Target column
// h*dim+c of row t holds component c observed h steps after t. Rows whose horizon runs past the
// end of their series are dropped.
func TrainingData(spec lags.Spec, horizons int, data lags.Data) (*lags.Matrix, *mat.Dense, error) {
	if horizons < 1 {
		return nil, nil, fmt.Errorf("%d horizons, %w", horizons, ErrInvalidHorizons)
	}
	x, err := data.Build(spec)
	if err != nil {
		return nil, nil, err
	}

	dim := data.Targets[0].Width()
	positions := make([]map[int64]int, len(data.Targets))
	for i, ts := range data.Targets {
		positions[i] = ts.Time().Positions()
	}

	var keep []int
	var ydata []float64
	row := make([]float64, horizons*dim)
	for i, t := range x.Index {
		s := x.Series[i]
		ts := data.Targets[s]
		p, exists := positions[s][t.UnixNano()]
		if !exists || p+horizons > ts.Len() {
			continue
		}

		complete := true
		for h := 0; h < horizons && complete; h++ {
			for c := 0; c < dim; c++ {
				v := ts.At(p+h, c)
				if math.IsNaN(v) {
					complete = false
					break
				}
				row[h*dim+c] = v
			}
		}
		if !complete {
			continue
		}
		keep = append(keep, i)
		ydata = append(ydata, row...)
	}
	if len(keep) == 0 {
		return nil, nil, ErrNoTrainingRows
	}
	return x.Rows(keep), mat.NewDense(len(keep), horizons*dim, ydata), nil
}

// Fit trains an estimator created by newModel on the lagged features of data
func Fit(opt *Options, newModel func() (models.Model, error), data lags.Data) (*Model, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if data.Empty() {
		return nil, lags.ErrNoSeries
	}

	x, y, err := TrainingData(opt.Lags, opt.OutputChunkLength, data)
	if err != nil {
		return nil, err
	}

	var est models.Estimator
	if opt.MultiOutput {
		est, err = models.FitMultiOutput(newModel, x.X, y)
		if err != nil {
			return nil, err
		}
	} else {
		model, err := newModel()
		if err != nil {
			return nil, err
		}
		if err := model.Fit(x.X, y); err != nil {
			return nil, err
		}
		est = model
	}

	rows, cols := x.Dims()
	slog.Debug("fitted regression model",
		"kind", est.Kind(),
		"rows", rows,
		"features", cols,
		"outputs", est.NumOutputs(),
	)
	return New(opt.Lags, opt.OutputChunkLength, data.Targets[0].Components(), est)
}
