package timeseries

import (
	"time"

	"github.com/goccy/go-json"
)

type seriesJSON struct {
	Time       []time.Time   `json:"time"`
	Components []string      `json:"components"`
	Samples    [][][]float64 `json:"samples"`
}

// MarshalJSON encodes the time index, the component names and every sample
func (ts *TimeSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(seriesJSON{
		Time:       ts.t,
		Components: ts.names,
		Samples:    ts.samples,
	})
}

// UnmarshalJSON decodes a series written by MarshalJSON, applying the same validation as
// NewStochastic
func (ts *TimeSeries) UnmarshalJSON(data []byte) error {
	var s seriesJSON
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	res, err := NewStochastic(s.Time, s.Components, s.Samples)
	if err != nil {
		return err
	}
	*ts = *res
	return nil
}
