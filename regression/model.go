// Package regression describes a forecasting model built from a regression estimator over lagged
// features. A model predicts OutputChunkLength horizons for every target component at once and
// lays its outputs out horizon-major: output h*TargetDim()+c forecasts component c at horizon h.
package regression

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/aouyang1/go-tsexplain/lags"
	"github.com/aouyang1/go-tsexplain/models"
	"github.com/goccy/go-json"
)

var (
	ErrNoEstimator     = errors.New("no estimator")
	ErrInvalidHorizons = errors.New("output chunk length must be positive")
	ErrNoTargetNames   = errors.New("no target component names")
	ErrOutputMismatch  = errors.New("estimator outputs do not match horizons times target dimension")
)

// Model is a fitted regression forecasting model
type Model struct {
	spec        lags.Spec
	horizons    int
	targetNames []string
	estimator   models.Estimator
}

// New wraps a fitted estimator. The estimator must produce horizons * len(targetNames) outputs.
func New(spec lags.Spec, horizons int, targetNames []string, est models.Estimator) (*Model, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if horizons < 1 {
		return nil, fmt.Errorf("%d horizons, %w", horizons, ErrInvalidHorizons)
	}
	if len(targetNames) == 0 {
		return nil, ErrNoTargetNames
	}
	if est == nil {
		return nil, ErrNoEstimator
	}
	if k := est.NumOutputs(); k != horizons*len(targetNames) {
		return nil, fmt.Errorf(
			"%d outputs for %d horizons and %d target components, %w",
			k, horizons, len(targetNames), ErrOutputMismatch,
		)
	}
	return &Model{
		spec:        spec,
		horizons:    horizons,
		targetNames: slices.Clone(targetNames),
		estimator:   est,
	}, nil
}

// Lags returns the lag specification the model was trained with
func (m *Model) Lags() lags.Spec {
	return m.spec
}

// Horizons returns the number of forecast steps per prediction
func (m *Model) Horizons() int {
	return m.horizons
}

// TargetDim returns the number of target components
func (m *Model) TargetDim() int {
	return len(m.targetNames)
}

func (m *Model) TargetNames() []string {
	return slices.Clone(m.targetNames)
}

func (m *Model) Estimator() models.Estimator {
	return m.estimator
}

// OutputIndex returns the estimator output forecasting component c at horizon h
func (m *Model) OutputIndex(h, c int) int {
	return m.TargetDim()*h + c
}

type modelJSON struct {
	Lags              lags.Spec      `json:"lags"`
	OutputChunkLength int            `json:"output_chunk_length"`
	TargetNames       []string       `json:"target_names"`
	Weights           models.Weights `json:"weights"`
}

func (m *Model) MarshalJSON() ([]byte, error) {
	w, err := models.WeightsOf(m.estimator)
	if err != nil {
		return nil, err
	}
	return json.Marshal(modelJSON{
		Lags:              m.spec,
		OutputChunkLength: m.horizons,
		TargetNames:       m.targetNames,
		Weights:           w,
	})
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var mj modelJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	est, err := models.NewFromWeights(mj.Weights)
	if err != nil {
		return err
	}
	res, err := New(mj.Lags, mj.OutputChunkLength, mj.TargetNames, est)
	if err != nil {
		return err
	}
	*m = *res
	return nil
}

// Encode writes the model as indented JSON
func (m *Model) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// Decode reads a model written by Encode
func Decode(r io.Reader) (*Model, error) {
	m := new(Model)
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("unable to decode model, %w", err)
	}
	return m, nil
}
