package attribution

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"
)

// kernelEngine fits attributions as a weighted linear regression of coalition values on
// coalition membership, weighting coalitions with the Shapley kernel. The last feature is
// eliminated through the constraint that attributions sum to the prediction minus the base value.
type kernelEngine struct {
	*base
}

func (e *kernelEngine) Method() Method {
	return MethodKernel
}

// shapleyKernel is the weight of a single coalition of size s out of n features
func shapleyKernel(n, s int) float64 {
	return float64(n-1) / (float64(combin.Binomial(n, s)) * float64(s) * float64(n-s))
}

// coalitions returns every proper non-empty coalition with its kernel weight when n is small
// enough, and otherwise samples coalitions proportionally to their kernel weight with unit weights.
func (e *kernelEngine) coalitions(n int, rng *rand.Rand) ([][]bool, []float64) {
	var masks [][]bool
	var weights []float64

	if n <= e.opt.MaxExactFeatures {
		for c := uint64(1); c < (uint64(1)<<n)-1; c++ {
			mask := make([]bool, n)
			for f := 0; f < n; f++ {
				mask[f] = c&(uint64(1)<<f) != 0
			}
			masks = append(masks, mask)
			weights = append(weights, shapleyKernel(n, bits.OnesCount64(c)))
		}
		return masks, weights
	}

	// total kernel mass of each coalition size
	sizeWeights := make([]float64, n-1)
	for s := 1; s < n; s++ {
		sizeWeights[s-1] = float64(n-1) / float64(s*(n-s))
	}
	cum := make([]float64, len(sizeWeights))
	floats.CumSum(cum, sizeWeights)
	total := cum[len(cum)-1]

	for i := 0; i < e.opt.NumSamples; i++ {
		u := rng.Float64() * total
		size := 1
		for size < n-1 && cum[size-1] < u {
			size++
		}
		mask := make([]bool, n)
		for _, f := range rng.Perm(n)[:size] {
			mask[f] = true
		}
		masks = append(masks, mask)
		weights = append(weights, 1.0)
	}
	return masks, weights
}

func (e *kernelEngine) Explain(x mat.Matrix) (*Explanation, error) {
	xd, exp, err := e.foreground(x)
	if err != nil {
		return nil, err
	}
	m, n := xd.Dims()
	k := e.numOutputs()
	rng := e.rng()

	fx, err := e.predict(xd)
	if err != nil {
		return nil, err
	}

	delta := make([]float64, k)
	for s := 0; s < m; s++ {
		floats.SubTo(delta, fx.RawRowView(s), e.expected)
		if n == 1 {
			for o, d := range delta {
				exp.Values.Set(s, 0, o, d)
			}
			continue
		}

		masks, weights := e.coalitions(n, rng)
		values, err := e.coalitionValues(xd.RawRowView(s), masks)
		if err != nil {
			return nil, err
		}
		phi, err := solveKernel(masks, weights, values, e.expected, delta)
		if err != nil {
			return nil, fmt.Errorf("sample %d, %w", s, err)
		}
		for f := 0; f < n; f++ {
			for o, v := range phi.RawRowView(f) {
				exp.Values.Set(s, f, o, v)
			}
		}
	}
	return exp, nil
}

// solveKernel solves the constrained weighted least squares problem for every output at once
// and returns the n x k attributions
func solveKernel(masks [][]bool, weights []float64, values *mat.Dense, expected, delta []float64) (*mat.Dense, error) {
	q := len(masks)
	n := len(masks[0])
	k := len(expected)
	last := n - 1

	a := mat.NewDense(q, last, nil)
	y := mat.NewDense(q, k, nil)
	for r, mask := range masks {
		w := math.Sqrt(weights[r])
		zl := 0.0
		if mask[last] {
			zl = 1.0
		}
		arow := a.RawRowView(r)
		for f := 0; f < last; f++ {
			z := 0.0
			if mask[f] {
				z = 1.0
			}
			arow[f] = w * (z - zl)
		}
		yrow := y.RawRowView(r)
		vrow := values.RawRowView(r)
		for o := 0; o < k; o++ {
			yrow[o] = w * (vrow[o] - expected[o] - zl*delta[o])
		}
	}

	var head mat.Dense
	if err := head.Solve(a, y); err != nil {
		return nil, fmt.Errorf("unable to solve kernel regression, %w", err)
	}

	phi := mat.NewDense(n, k, nil)
	phi.Slice(0, last, 0, k).(*mat.Dense).Copy(&head)
	rem := phi.RawRowView(last)
	copy(rem, delta)
	for f := 0; f < last; f++ {
		floats.Sub(rem, head.RawRowView(f))
	}
	return phi, nil
}
