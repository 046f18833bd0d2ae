package attribution

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoModel            = errors.New("no model to explain")
	ErrNoBackground       = errors.New("no background matrix")
	ErrNoForeground       = errors.New("no rows to explain")
	ErrFeatureLenMismatch = errors.New("number of features does not match the background")
	ErrNotLinear          = errors.New("linear attribution requires a linear estimator")
	ErrPredictionShape    = errors.New("prediction shape does not match the number of outputs")
)

// Predictor maps an m x n matrix to m x k predictions
type Predictor interface {
	Predict(x mat.Matrix) (*mat.Dense, error)
	NumOutputs() int
}

// Engine computes attributions for the rows of x
type Engine interface {
	Method() Method
	Explain(x mat.Matrix) (*Explanation, error)
}

// New creates the engine implementing method for model, calibrated against the background rows
func New(method Method, model Predictor, background mat.Matrix, featureNames []string, opt *Options) (Engine, error) {
	if !method.Supported() {
		if _, err := ParseMethod(string(method)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s, %w", method, ErrUnsupportedMethod)
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	b, err := newBase(model, background, featureNames, opt)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodLinear:
		return newLinearEngine(b)
	case MethodPermutation:
		return &permutationEngine{b}, nil
	case MethodSampling:
		return &samplingEngine{b}, nil
	case MethodKernel:
		return &kernelEngine{b}, nil
	}
	return nil, fmt.Errorf("%s, %w", method, ErrUnsupportedMethod)
}

// base holds the state shared by every engine: the model, background rows and the mean
// background prediction used as the base value.
type base struct {
	model      Predictor
	background *mat.Dense
	names      []string
	expected   []float64
	opt        *Options
}

func newBase(model Predictor, background mat.Matrix, featureNames []string, opt *Options) (*base, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	if background == nil {
		return nil, ErrNoBackground
	}
	m, n := background.Dims()
	if m == 0 || n == 0 {
		return nil, ErrNoBackground
	}
	if len(featureNames) != n {
		return nil, fmt.Errorf("%d feature names for %d columns, %w", len(featureNames), n, ErrFeatureLenMismatch)
	}

	b := &base{
		model:      model,
		background: mat.DenseCopyOf(background),
		names:      featureNames,
		opt:        opt,
	}
	pred, err := b.predict(b.background)
	if err != nil {
		return nil, fmt.Errorf("unable to predict background, %w", err)
	}
	b.expected = meanRows(pred)
	return b, nil
}

func (b *base) numFeatures() int {
	_, n := b.background.Dims()
	return n
}

func (b *base) numOutputs() int {
	return b.model.NumOutputs()
}

func (b *base) predict(x mat.Matrix) (*mat.Dense, error) {
	pred, err := b.model.Predict(x)
	if err != nil {
		return nil, err
	}
	m, _ := x.Dims()
	pm, pk := pred.Dims()
	if pm != m || pk != b.numOutputs() {
		return nil, fmt.Errorf(
			"got (%d, %d) predictions for %d rows and %d outputs, %w",
			pm, pk, m, b.numOutputs(), ErrPredictionShape,
		)
	}
	return pred, nil
}

// foreground validates x and allocates an explanation whose base values are the expected
// background prediction
func (b *base) foreground(x mat.Matrix) (*mat.Dense, *Explanation, error) {
	if x == nil {
		return nil, nil, ErrNoForeground
	}
	m, n := x.Dims()
	if m == 0 {
		return nil, nil, ErrNoForeground
	}
	if n != b.numFeatures() {
		return nil, nil, fmt.Errorf("got %d features, expected %d, %w", n, b.numFeatures(), ErrFeatureLenMismatch)
	}
	exp, err := newExplanation(m, n, b.numOutputs(), b.names)
	if err != nil {
		return nil, nil, err
	}
	for s := 0; s < m; s++ {
		exp.BaseValues.SetRow(s, b.expected)
	}
	return mat.DenseCopyOf(x), exp, nil
}

func (b *base) rng() *rand.Rand {
	return rand.New(rand.NewPCG(b.opt.Seed, b.opt.Seed^0x9e3779b97f4a7c15))
}

// coalitionValues returns the mean prediction over the background for each mask, where
// features set in a mask take the value in x and the rest take the background value.
func (b *base) coalitionValues(x []float64, masks [][]bool) (*mat.Dense, error) {
	nb, n := b.background.Dims()
	batch := mat.NewDense(len(masks)*nb, n, nil)
	for r, mask := range masks {
		for i := 0; i < nb; i++ {
			row := batch.RawRowView(r*nb + i)
			copy(row, b.background.RawRowView(i))
			for f, on := range mask {
				if on {
					row[f] = x[f]
				}
			}
		}
	}
	pred, err := b.predict(batch)
	if err != nil {
		return nil, err
	}

	res := mat.NewDense(len(masks), b.numOutputs(), nil)
	scale := 1.0 / float64(nb)
	for r := range masks {
		dst := res.RawRowView(r)
		for i := 0; i < nb; i++ {
			floats.Add(dst, pred.RawRowView(r*nb+i))
		}
		floats.Scale(scale, dst)
	}
	return res, nil
}

func meanRows(x *mat.Dense) []float64 {
	m, k := x.Dims()
	res := make([]float64, k)
	for i := 0; i < m; i++ {
		floats.Add(res, x.RawRowView(i))
	}
	floats.Scale(1.0/float64(m), res)
	return res
}
