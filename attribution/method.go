// Package attribution computes additive feature attributions of an estimator's predictions
// relative to a background matrix. Attributions of a row sum, per output, to the prediction
// minus the base value for the exact engines and approximately for the sampled ones.
package attribution

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aouyang1/go-tsexplain/models"
)

var (
	ErrUnknownMethod     = errors.New("unknown attribution method")
	ErrUnsupportedMethod = errors.New("attribution method is not supported")
)

// Method names an attribution algorithm
type Method string

const (
	MethodTree        Method = "tree"
	MethodGradient    Method = "gradient"
	MethodDeep        Method = "deep"
	MethodKernel      Method = "kernel"
	MethodSampling    Method = "sampling"
	MethodPartition   Method = "partition"
	MethodLinear      Method = "linear"
	MethodPermutation Method = "permutation"
	MethodAdditive    Method = "additive"
)

// Methods lists every known attribution method
var Methods = []Method{
	MethodTree,
	MethodGradient,
	MethodDeep,
	MethodKernel,
	MethodSampling,
	MethodPartition,
	MethodLinear,
	MethodPermutation,
	MethodAdditive,
}

var implemented = map[Method]bool{
	MethodKernel:      true,
	MethodSampling:    true,
	MethodLinear:      true,
	MethodPermutation: true,
}

// defaultMethods maps estimator families to the method used when none is requested
var defaultMethods = map[models.Kind]Method{
	models.KindOLS:   MethodLinear,
	models.KindLasso: MethodLinear,
}

// ParseMethod resolves a case insensitive method name
func ParseMethod(name string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%q, %w", name, ErrUnknownMethod)
}

// Supported reports whether an engine exists for the method
func (m Method) Supported() bool {
	return implemented[m]
}

func (m Method) String() string {
	return string(m)
}

// DefaultMethod returns the method used for an estimator family. Families without a dedicated
// method fall back to the model agnostic kernel method.
func DefaultMethod(kind models.Kind) Method {
	if m, exists := defaultMethods[kind]; exists {
		return m
	}
	return MethodKernel
}
