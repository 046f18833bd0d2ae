package explain

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Importance is the mean absolute attribution of every feature for a horizon and target
type Importance struct {
	Horizon      int       `json:"horizon"`
	Target       string    `json:"target"`
	FeatureNames []string  `json:"feature_names"`
	MeanAbs      []float64 `json:"mean_abs"`
}

// Ranked returns the feature names ordered from most to least important
func (imp Importance) Ranked() []string {
	idxs := make([]int, len(imp.FeatureNames))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return imp.MeanAbs[idxs[a]] > imp.MeanAbs[idxs[b]]
	})
	res := make([]string, len(idxs))
	for i, idx := range idxs {
		res[i] = imp.FeatureNames[idx]
	}
	return res
}

// Summary computes feature importances over the background rows, subsampled to nSamples rows
// when positive. Empty targetNames or horizons select every target or horizon.
func (e *Explainer) Summary(targetNames []string, horizons []int, nSamples int) ([]Importance, error) {
	if nSamples < 0 {
		return nil, ErrNegativeSamples
	}

	names := e.model.TargetNames()
	if len(targetNames) == 0 {
		targetNames = names
	}
	comps := make([]int, len(targetNames))
	for i, name := range targetNames {
		c := slices.Index(names, name)
		if c < 0 {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownTarget)
		}
		comps[i] = c
	}

	if len(horizons) == 0 {
		horizons = make([]int, e.model.Horizons())
		for h := range horizons {
			horizons[h] = h
		}
	}
	for _, h := range horizons {
		if h < 0 || h >= e.model.Horizons() {
			return nil, fmt.Errorf("horizon %d of %d, %w", h, e.model.Horizons(), ErrHorizonOutOfRange)
		}
	}

	x := e.backgroundX
	if nSamples > 0 {
		x = x.Sample(nSamples, e.opt.Seed)
	}
	attrs, err := e.explainMatrix(x)
	if err != nil {
		return nil, err
	}

	var res []Importance
	for _, h := range horizons {
		for i, c := range comps {
			attr, _ := attrs.Get(h, c)
			res = append(res, Importance{
				Horizon:      h,
				Target:       targetNames[i],
				FeatureNames: slices.Clone(attr.FeatureNames),
				MeanAbs:      meanAbs(attr.Values),
			})
		}
	}
	return res, nil
}

func meanAbs(values *mat.Dense) []float64 {
	m, n := values.Dims()
	res := make([]float64, n)
	col := make([]float64, m)
	for f := 0; f < n; f++ {
		mat.Col(col, f, values)
		for i, v := range col {
			col[i] = math.Abs(v)
		}
		res[f] = stat.Mean(col, nil)
	}
	return res
}
