package attribution

import (
	"gonum.org/v1/gonum/mat"
)

// samplingEngine estimates each feature's attribution independently by Monte Carlo. A sample
// draws a feature ordering and a background row, then compares the prediction with the features
// up to and including f taken from x against the same input with f taken from the background row.
type samplingEngine struct {
	*base
}

func (e *samplingEngine) Method() Method {
	return MethodSampling
}

func (e *samplingEngine) Explain(x mat.Matrix) (*Explanation, error) {
	xd, exp, err := e.foreground(x)
	if err != nil {
		return nil, err
	}
	m, n := xd.Dims()
	nb, _ := e.background.Dims()
	k := e.numOutputs()
	ns := e.opt.NumSamples
	rng := e.rng()

	batch := mat.NewDense(2*ns, n, nil)
	for s := 0; s < m; s++ {
		row := xd.RawRowView(s)
		for f := 0; f < n; f++ {
			for i := 0; i < ns; i++ {
				with := batch.RawRowView(2 * i)
				without := batch.RawRowView(2*i + 1)
				copy(with, e.background.RawRowView(rng.IntN(nb)))

				for _, g := range rng.Perm(n) {
					if g == f {
						break
					}
					with[g] = row[g]
				}
				copy(without, with)
				with[f] = row[f]
			}

			pred, err := e.predict(batch)
			if err != nil {
				return nil, err
			}
			for o := 0; o < k; o++ {
				var sum float64
				for i := 0; i < ns; i++ {
					sum += pred.At(2*i, o) - pred.At(2*i+1, o)
				}
				exp.Values.Set(s, f, o, sum/float64(ns))
			}
		}
	}
	return exp, nil
}
