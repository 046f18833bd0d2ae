package attribution

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrShapeMismatch     = errors.New("tensor shape mismatch")
	ErrOutputOutOfRange  = errors.New("output index out of range")
	ErrInvalidDimensions = errors.New("tensor dimensions must be positive")
)

// Tensor is a dense samples x features x outputs array with the output axis varying fastest
type Tensor struct {
	samples  int
	features int
	outputs  int
	data     []float64
}

// NewTensor creates a tensor backed by data. A nil data slice allocates a zeroed tensor.
func NewTensor(samples, features, outputs int, data []float64) (*Tensor, error) {
	if samples <= 0 || features <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("(%d, %d, %d), %w", samples, features, outputs, ErrInvalidDimensions)
	}
	size := samples * features * outputs
	if data == nil {
		data = make([]float64, size)
	}
	if len(data) != size {
		return nil, fmt.Errorf(
			"%d values for shape (%d, %d, %d), %w",
			len(data), samples, features, outputs, ErrShapeMismatch,
		)
	}
	return &Tensor{
		samples:  samples,
		features: features,
		outputs:  outputs,
		data:     data,
	}, nil
}

// Dims returns the number of samples, features and outputs
func (t *Tensor) Dims() (int, int, int) {
	if t == nil {
		return 0, 0, 0
	}
	return t.samples, t.features, t.outputs
}

func (t *Tensor) offset(s, f, o int) int {
	if s < 0 || s >= t.samples || f < 0 || f >= t.features || o < 0 || o >= t.outputs {
		panic(fmt.Sprintf("tensor index (%d, %d, %d) out of range (%d, %d, %d)", s, f, o, t.samples, t.features, t.outputs))
	}
	return (s*t.features+f)*t.outputs + o
}

func (t *Tensor) At(s, f, o int) float64 {
	return t.data[t.offset(s, f, o)]
}

func (t *Tensor) Set(s, f, o int, v float64) {
	t.data[t.offset(s, f, o)] = v
}

// Slice copies the samples x features attributions of output k
func (t *Tensor) Slice(k int) (*mat.Dense, error) {
	if k < 0 || k >= t.outputs {
		return nil, fmt.Errorf("output %d of %d, %w", k, t.outputs, ErrOutputOutOfRange)
	}
	res := mat.NewDense(t.samples, t.features, nil)
	for s := 0; s < t.samples; s++ {
		row := res.RawRowView(s)
		for f := range row {
			row[f] = t.data[(s*t.features+f)*t.outputs+k]
		}
	}
	return res, nil
}

// RowSums returns the samples x outputs sums of attributions over the feature axis
func (t *Tensor) RowSums() *mat.Dense {
	res := mat.NewDense(t.samples, t.outputs, nil)
	for s := 0; s < t.samples; s++ {
		row := res.RawRowView(s)
		for f := 0; f < t.features; f++ {
			base := (s*t.features + f) * t.outputs
			for o := range row {
				row[o] += t.data[base+o]
			}
		}
	}
	return res
}
