package attribution

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// permutationEngine averages marginal contributions along random feature orderings. Every
// ordering is evaluated forwards and reversed, and since the contributions along an ordering
// telescope, attributions sum to the prediction minus the base value.
type permutationEngine struct {
	*base
}

func (e *permutationEngine) Method() Method {
	return MethodPermutation
}

func (e *permutationEngine) Explain(x mat.Matrix) (*Explanation, error) {
	xd, exp, err := e.foreground(x)
	if err != nil {
		return nil, err
	}
	m, n := xd.Dims()
	k := e.numOutputs()
	rng := e.rng()

	masks := make([][]bool, n+1)
	for i := range masks {
		masks[i] = make([]bool, n)
	}
	delta := make([]float64, k)

	for s := 0; s < m; s++ {
		row := xd.RawRowView(s)
		phi := mat.NewDense(n, k, nil)
		for p := 0; p < e.opt.NumPermutations; p++ {
			forward := rng.Perm(n)
			reverse := slices.Clone(forward)
			slices.Reverse(reverse)
			for _, perm := range [][]int{forward, reverse} {
				// masks[t] turns on the first t features of the ordering
				for t := 0; t <= n; t++ {
					clear(masks[t])
					for _, f := range perm[:t] {
						masks[t][f] = true
					}
				}
				values, err := e.coalitionValues(row, masks)
				if err != nil {
					return nil, err
				}
				for t, f := range perm {
					floats.SubTo(delta, values.RawRowView(t+1), values.RawRowView(t))
					floats.Add(phi.RawRowView(f), delta)
				}
			}
		}

		phi.Scale(1.0/float64(2*e.opt.NumPermutations), phi)
		for f := 0; f < n; f++ {
			for o, v := range phi.RawRowView(f) {
				exp.Values.Set(s, f, o, v)
			}
		}
	}
	return exp, nil
}
