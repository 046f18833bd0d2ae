package timeseries

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n evenly spaced timestamps ending one interval before the minute-truncated
// time reported by nowFunc.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).UTC().Add(-time.Duration(n) * interval)
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// Series is a chainable slice of simulated values
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) Scale(c float64) Series {
	floats.Scale(c, s)
	return s
}

// Shift delays the series by lag points, filling the leading values with fill
func (s Series) Shift(lag int, fill float64) Series {
	res := make(Series, len(s))
	for i := range res {
		j := i - lag
		if j < 0 || j >= len(s) {
			res[i] = fill
			continue
		}
		res[i] = s[j]
	}
	return res
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateRampY returns start, start+step, start+2*step, ...
func GenerateRampY(n int, start, step float64) Series {
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = start + step*float64(i)
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

// GenerateNoise returns gaussian noise with the given standard deviation drawn from rng
func GenerateNoise(n int, scale float64, rng *rand.Rand) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*scale)
	}
	return Series(y)
}
