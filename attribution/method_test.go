package attribution

import (
	"testing"

	"github.com/aouyang1/go-tsexplain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	testData := map[string]struct {
		name     string
		expected Method
		err      error
	}{
		"lower":   {"kernel", MethodKernel, nil},
		"upper":   {"PERMUTATION", MethodPermutation, nil},
		"padded":  {" linear ", MethodLinear, nil},
		"known":   {"tree", MethodTree, nil},
		"unknown": {"lime", "", ErrUnknownMethod},
		"empty":   {"", "", ErrUnknownMethod},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m, err := ParseMethod(td.name)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, m)
		})
	}
}

func TestSupported(t *testing.T) {
	supported := map[Method]bool{
		MethodKernel:      true,
		MethodSampling:    true,
		MethodLinear:      true,
		MethodPermutation: true,
	}
	for _, m := range Methods {
		assert.Equal(t, supported[m], m.Supported(), m.String())
	}
}

func TestDefaultMethod(t *testing.T) {
	testData := map[string]struct {
		kind     models.Kind
		expected Method
	}{
		"ols":          {models.KindOLS, MethodLinear},
		"lasso":        {models.KindLasso, MethodLinear},
		"multi output": {models.KindMultiOutput, MethodKernel},
		"custom":       {models.KindCustom, MethodKernel},
		"unknown":      {models.Kind("forest"), MethodKernel},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, DefaultMethod(td.kind))
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *Options
		err      error
		expected *Options
	}{
		"nil": {nil, nil, NewDefaultOptions()},
		"valid": {
			&Options{NumPermutations: 1, NumSamples: 1, MaxExactFeatures: 0, Seed: 9}, nil,
			&Options{NumPermutations: 1, NumSamples: 1, MaxExactFeatures: 0, Seed: 9},
		},
		"no permutations": {
			&Options{NumSamples: 1}, ErrNonPositivePermutations, nil,
		},
		"no samples": {
			&Options{NumPermutations: 1}, ErrNonPositiveSamples, nil,
		},
		"too many exact features": {
			&Options{NumPermutations: 1, NumSamples: 1, MaxExactFeatures: 21}, ErrInvalidMaxExactFeatures, nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}
