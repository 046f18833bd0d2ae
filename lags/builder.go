package lags

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/aouyang1/go-tsexplain/feature"
	"github.com/aouyang1/go-tsexplain/timeseries"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoSeries            = errors.New("no target series")
	ErrMissingCovariates   = errors.New("lags configured for a covariate class without covariate series")
	ErrSeriesCountMismatch = errors.New("number of covariate series does not match number of target series")
	ErrComponentMismatch   = errors.New("series components differ from the first series")
	ErrEmptyMatrix         = errors.New("no complete rows left after applying lags")
)

// Build creates the lagged feature matrix for each target series and its optional past and
// future covariates, then stacks the rows of every series.
//
// For a lag L, the row at timestamp t of series position p holds the value observed at
// position p+L of the same series. Blocks of a series are joined on timestamp and any row with
// an undefined or NaN value is dropped. Columns are ordered target lags, past covariate lags,
// then future covariate lags, each looping over lags then components.
func Build(spec Spec, targets, pastCovs, futureCovs []*timeseries.TimeSeries) (*Matrix, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, ErrNoSeries
	}
	names := targets[0].Components()
	for i, ts := range targets[1:] {
		if !slices.Equal(names, ts.Components()) {
			return nil, fmt.Errorf("target series %d has components %v, expected %v, %w", i+1, ts.Components(), names, ErrComponentMismatch)
		}
	}

	sources := map[feature.Class][]*timeseries.TimeSeries{
		feature.ClassTarget:          targets,
		feature.ClassPastCovariate:   pastCovs,
		feature.ClassFutureCovariate: futureCovs,
	}
	for _, class := range []feature.Class{feature.ClassPastCovariate, feature.ClassFutureCovariate} {
		covs := sources[class]
		if !spec.Has(class) {
			if len(covs) > 0 {
				slog.Debug("ignoring covariates without configured lags", "class", class.String(), "num_series", len(covs))
			}
			delete(sources, class)
			continue
		}
		if len(covs) == 0 {
			return nil, fmt.Errorf("%s, %w", class, ErrMissingCovariates)
		}
		if len(covs) != len(targets) {
			return nil, fmt.Errorf(
				"%d %s series for %d target series, %w",
				len(covs), class, len(targets), ErrSeriesCountMismatch,
			)
		}
	}
	if !spec.Has(feature.ClassTarget) {
		delete(sources, feature.ClassTarget)
	}

	var labels *feature.Labels
	var index []time.Time
	var series []int
	var data []float64

	for i := range targets {
		block, err := newSeriesBlock(spec, sources, i)
		if err != nil {
			return nil, fmt.Errorf("series %d, %w", i, err)
		}
		if labels == nil {
			labels = block.labels
		} else if !slices.Equal(labels.Names(), block.labels.Names()) {
			return nil, fmt.Errorf("series %d, %w", i, ErrComponentMismatch)
		}

		rows := block.completeRows()
		if len(rows) == 0 {
			slog.Warn("series has no complete rows after applying lags",
				"series", i,
				"start", block.index.StartTime(),
				"end", block.index.EndTime(),
				"max_lookback", spec.MaxLookback(),
				"max_lookahead", spec.MaxLookahead(),
			)
		}
		for _, r := range rows {
			index = append(index, block.index[r])
			series = append(series, i)
			for _, col := range block.cols {
				data = append(data, col[r])
			}
		}
	}

	if len(index) == 0 {
		return nil, ErrEmptyMatrix
	}
	return &Matrix{
		Index:  index,
		Series: series,
		Labels: labels,
		X:      mat.NewDense(len(index), labels.Len(), data),
	}, nil
}

// seriesBlock holds the shifted columns of a single input series aligned on the union of the
// timestamps of every contributing series.
type seriesBlock struct {
	index  timeseries.TimeSlice
	labels *feature.Labels
	cols   [][]float64
}

func newSeriesBlock(spec Spec, sources map[feature.Class][]*timeseries.TimeSeries, i int) (*seriesBlock, error) {
	var index timeseries.TimeSlice
	for _, class := range feature.Classes {
		if covs, exists := sources[class]; exists {
			if covs[i] == nil {
				return nil, fmt.Errorf("%s, %w", class, ErrMissingCovariates)
			}
			index = index.Union(covs[i].Time())
		}
	}
	pos := index.Positions()

	var feats []feature.Feature
	var cols [][]float64
	for _, class := range feature.Classes {
		covs, exists := sources[class]
		if !exists {
			continue
		}
		ts := covs[i]
		names := ts.Components()
		for _, lag := range spec.Get(class) {
			for c, name := range names {
				feats = append(feats, feature.NewLag(name, class, lag))
				cols = append(cols, shiftColumn(ts, c, lag, pos, len(index)))
			}
		}
	}

	return &seriesBlock{
		index:  index,
		labels: feature.NewLabels(feats),
		cols:   cols,
	}, nil
}

// shiftColumn places component c of ts, shifted by lag positions, on the joined index. Positions
// without a source value are NaN.
func shiftColumn(ts *timeseries.TimeSeries, c, lag int, pos map[int64]int, n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	for p := 0; p < ts.Len(); p++ {
		src := p + lag
		if src < 0 || src >= ts.Len() {
			continue
		}
		col[pos[ts.TimeAt(p).UnixNano()]] = ts.At(src, c)
	}
	return col
}

func (b *seriesBlock) completeRows() []int {
	var rows []int
	for r := range b.index {
		complete := true
		for _, col := range b.cols {
			if math.IsNaN(col[r]) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, r)
		}
	}
	return rows
}
