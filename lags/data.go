package lags

import (
	"github.com/aouyang1/go-tsexplain/timeseries"
)

// Data groups target series with their optional past and future covariates. Covariate slices,
// when set, hold one series per target series.
type Data struct {
	Targets []*timeseries.TimeSeries
	Past    []*timeseries.TimeSeries
	Future  []*timeseries.TimeSeries
}

// NewData creates data from a single target series and its optional covariates
func NewData(target, past, future *timeseries.TimeSeries) Data {
	d := Data{Targets: []*timeseries.TimeSeries{target}}
	if past != nil {
		d.Past = []*timeseries.TimeSeries{past}
	}
	if future != nil {
		d.Future = []*timeseries.TimeSeries{future}
	}
	return d
}

// Empty is true when there are no target series
func (d Data) Empty() bool {
	return len(d.Targets) == 0
}

// Build creates the lagged feature matrix of the data
func (d Data) Build(spec Spec) (*Matrix, error) {
	return Build(spec, d.Targets, d.Past, d.Future)
}
