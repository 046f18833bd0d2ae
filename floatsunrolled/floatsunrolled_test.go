package floatsunrolled

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func checkPanic(t *testing.T, err error) {
	r := recover()
	if r == nil {
		return
	}
	if err != nil {
		rErr, ok := r.(error)
		assert.True(t, ok)
		assert.EqualError(t, rErr, err.Error())
		return
	}

	assert.Nil(t, r)
}

func TestDot(t *testing.T) {
	testData := map[string]struct {
		a        []float64
		b        []float64
		err      error
		expected float64
	}{
		"dot length mismatch": {
			a:   []float64{1, 2, 3},
			b:   []float64{1, 2},
			err: ErrSliceLengthMismatch,
		},
		"dot remainder": {
			a:        []float64{1, 2, 3, 4, 5, 6},
			b:        []float64{1, 1, 1, 1, 2, 2},
			expected: 32,
		},
		"dot short": {
			a:        []float64{1, 2, 3},
			b:        []float64{1, 2, 3},
			expected: 14,
		},
		"dot valid": {
			a:        []float64{1, 2, 3, 4},
			b:        []float64{4, 3, 2, 1},
			expected: 20,
		},
		"dot empty": {},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			defer checkPanic(t, td.err)
			res := Dot(td.a, td.b)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestAdd(t *testing.T) {
	testData := map[string]struct {
		dst      []float64
		s        []float64
		err      error
		expected []float64
	}{
		"add length mismatch": {
			dst: []float64{1, 2, 3},
			s:   []float64{1, 2},
			err: ErrSliceLengthMismatch,
		},
		"add remainder": {
			dst:      []float64{1, 2, 3, 4, 5},
			s:        []float64{4, 3, 2, 1, 0},
			expected: []float64{5, 5, 5, 5, 5},
		},
		"add valid": {
			dst:      []float64{1, 2, 3, 4},
			s:        []float64{4, 3, 2, 1},
			expected: []float64{5, 5, 5, 5},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			defer checkPanic(t, td.err)
			res := Add(td.dst, td.s)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestSubTo(t *testing.T) {
	testData := map[string]struct {
		dst      []float64
		s        []float64
		t        []float64
		err      error
		expected []float64
	}{
		"sub length mismatch": {
			s:   []float64{1, 2, 3},
			t:   []float64{1, 2},
			err: ErrSliceLengthMismatch,
		},
		"sub output mismatch": {
			dst: []float64{0},
			s:   []float64{1, 2},
			t:   []float64{1, 2},
			err: ErrOutputSliceLengthMismatch,
		},
		"sub nil dst": {
			s:        []float64{5, 5, 5, 5, 5, 5},
			t:        []float64{1, 2, 3, 4, 5, 6},
			expected: []float64{4, 3, 2, 1, 0, -1},
		},
		"sub dst": {
			dst:      make([]float64, 3),
			s:        []float64{1, 1, 1},
			t:        []float64{1, 2, 3},
			expected: []float64{0, -1, -2},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			defer checkPanic(t, td.err)
			res := SubTo(td.dst, td.s, td.t)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestMulTo(t *testing.T) {
	testData := map[string]struct {
		dst      []float64
		s        []float64
		t        []float64
		err      error
		expected []float64
	}{
		"mul length mismatch": {
			s:   []float64{1, 2, 3},
			t:   []float64{1, 2},
			err: ErrSliceLengthMismatch,
		},
		"mul remainder": {
			s:        []float64{1, 2, 3, 4, 5},
			t:        []float64{2, 2, 2, 2, -1},
			expected: []float64{2, 4, 6, 8, -5},
		},
		"mul in place": {
			dst:      []float64{1, 2},
			s:        []float64{1, 2},
			t:        []float64{3, 4},
			expected: []float64{3, 8},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			defer checkPanic(t, td.err)
			res := MulTo(td.dst, td.s, td.t)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestScaleTo(t *testing.T) {
	testData := map[string]struct {
		dst      []float64
		c        float64
		s        []float64
		err      error
		expected []float64
	}{
		"scale output mismatch": {
			dst: []float64{1},
			c:   2,
			s:   []float64{1, 2},
			err: ErrOutputSliceLengthMismatch,
		},
		"scale remainder": {
			c:        3,
			s:        []float64{1, 2, 3, 4, 5, 6, 7},
			expected: []float64{3, 6, 9, 12, 15, 18, 21},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			defer checkPanic(t, td.err)
			res := ScaleTo(td.dst, td.c, td.s)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestMatchesFloats(t *testing.T) {
	a := generateRandomSlice(1003)
	b := generateRandomSlice(1003)
	assert.InDelta(t, floats.Dot(a, b), Dot(a, b), 1e-9)

	expected := make([]float64, len(a))
	floats.SubTo(expected, a, b)
	assert.Equal(t, expected, SubTo(nil, a, b))
}

func generateRandomSlice(n int) []float64 {
	rng := rand.New(rand.NewPCG(uint64(n), 7))
	res := make([]float64, n)
	for i := 0; i < n; i++ {
		res[i] = rng.Float64()
	}
	return res
}

func BenchmarkDot(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Dot(a, a)
	}
}

func BenchmarkNaiveDot(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		floats.Dot(a, a)
	}
}

func BenchmarkMulTo(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MulTo(a, a, a)
	}
}

func BenchmarkNaiveMulTo(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		floats.MulTo(a, a, a)
	}
}

func BenchmarkSubTo(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SubTo(a, a, a)
	}
}

func BenchmarkNaiveSubTo(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		floats.SubTo(a, a, a)
	}
}
