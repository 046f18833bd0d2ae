package attribution

import (
	"github.com/aouyang1/go-tsexplain/floatsunrolled"
	mat_ "github.com/aouyang1/go-tsexplain/mat"
	"github.com/aouyang1/go-tsexplain/models"
	"gonum.org/v1/gonum/mat"
)

// linearEngine computes exact attributions of a linear estimator assuming independent features:
// phi[f][o] = coef[f][o] * (x[f] - mean[f]) with the prediction at the background mean as base.
type linearEngine struct {
	*base
	mean []float64
	coef [][]float64 // coef[o] holds the weights of output o
}

func newLinearEngine(b *base) (*linearEngine, error) {
	lin, ok := b.model.(models.Linear)
	if !ok {
		return nil, ErrNotLinear
	}
	c := lin.Coef()
	if c == nil {
		return nil, models.ErrUntrained
	}
	n, k := c.Dims()
	if n != b.numFeatures() {
		return nil, ErrFeatureLenMismatch
	}

	e := &linearEngine{
		base: b,
		mean: mat_.ColMeans(b.background),
		coef: make([][]float64, k),
	}
	intercept := lin.Intercept()
	e.expected = make([]float64, k)
	for o := 0; o < k; o++ {
		e.coef[o] = mat.Col(nil, o, c)
		e.expected[o] = intercept[o] + floatsunrolled.Dot(e.coef[o], e.mean)
	}
	return e, nil
}

func (e *linearEngine) Method() Method {
	return MethodLinear
}

func (e *linearEngine) Explain(x mat.Matrix) (*Explanation, error) {
	xd, exp, err := e.foreground(x)
	if err != nil {
		return nil, err
	}
	m, n := xd.Dims()
	diff := make([]float64, n)
	phi := make([]float64, n)
	for s := 0; s < m; s++ {
		floatsunrolled.SubTo(diff, xd.RawRowView(s), e.mean)
		for o, coef := range e.coef {
			floatsunrolled.MulTo(phi, coef, diff)
			for f, v := range phi {
				exp.Values.Set(s, f, o, v)
			}
		}
	}
	return exp, nil
}
