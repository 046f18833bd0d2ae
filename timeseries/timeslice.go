package timeseries

import (
	"time"
)

// TimeSlice is a strictly increasing slice of timestamps
type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

// Union merges two strictly increasing time slices into a strictly increasing slice holding
// every timestamp present in either input.
func (t TimeSlice) Union(other TimeSlice) TimeSlice {
	res := make(TimeSlice, 0, len(t)+len(other))
	var i, j int
	for i < len(t) && j < len(other) {
		switch {
		case t[i].Equal(other[j]):
			res = append(res, t[i])
			i++
			j++
		case t[i].Before(other[j]):
			res = append(res, t[i])
			i++
		default:
			res = append(res, other[j])
			j++
		}
	}
	res = append(res, t[i:]...)
	res = append(res, other[j:]...)
	return res
}

// Positions maps each timestamp, keyed by unix nanoseconds, to its index in the slice
func (t TimeSlice) Positions() map[int64]int {
	pos := make(map[int64]int, len(t))
	for i, ts := range t {
		pos[ts.UnixNano()] = i
	}
	return pos
}
