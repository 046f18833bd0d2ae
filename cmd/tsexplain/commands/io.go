package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/aouyang1/go-tsexplain/lags"
	"github.com/aouyang1/go-tsexplain/timeseries"
)

const timeColumn = "time"

var (
	ErrMissingHeader  = errors.New("csv needs a header with a time column and at least one component")
	ErrNoRows         = errors.New("csv has no rows")
	ErrMissingTarget  = errors.New("at least one target csv is required")
	ErrCovariateCount = errors.New("number of covariate files does not match number of target files")
)

// ReadSeriesCSV reads a deterministic series. The first column holds RFC3339 timestamps and the
// header names the remaining columns. Empty cells are read as NaN.
func ReadSeriesCSV(r io.Reader) (*timeseries.TimeSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, ErrMissingHeader
	}

	names := header[1:]
	var t []time.Time
	cols := make([][]float64, len(names))
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t = append(t, ts)
		for c, cell := range rec[1:] {
			v := math.NaN()
			if cell = strings.TrimSpace(cell); cell != "" {
				v, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d column %q: %w", line, names[c], err)
				}
			}
			cols[c] = append(cols[c], v)
		}
	}
	if len(t) == 0 {
		return nil, ErrNoRows
	}
	return timeseries.New(t, names, cols)
}

// ReadSeriesFile reads a series csv from path
func ReadSeriesFile(path string) (*timeseries.TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := ReadSeriesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// WriteSeriesCSV writes the first sample of ts in the layout read by ReadSeriesCSV
func WriteSeriesCSV(w io.Writer, ts *timeseries.TimeSeries) error {
	cols := make([][]float64, ts.Width())
	for c := range cols {
		vals, err := ts.Values(c)
		if err != nil {
			return err
		}
		cols[c] = vals
	}
	return writeCSV(w, ts.Time(), ts.Components(), func(i, c int) float64 {
		return cols[c][i]
	})
}

// WriteMatrixCSV writes one row per matrix row with its timestamp and a column per feature
func WriteMatrixCSV(w io.Writer, m *lags.Matrix) error {
	return writeCSV(w, m.Index, m.Columns(), m.X.At)
}

func writeCSV(w io.Writer, t []time.Time, names []string, at func(i, c int) float64) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{timeColumn}, names...)); err != nil {
		return err
	}

	rec := make([]string, len(names)+1)
	for i, ts := range t {
		rec[0] = ts.Format(time.RFC3339)
		for c := range names {
			rec[c+1] = strconv.FormatFloat(at(i, c), 'g', -1, 64)
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// dataFlags registers a target series list with optional past and future covariates. The
// i-th covariate file belongs to the i-th target file.
type dataFlags struct {
	prefix string
	usage  string

	targets []string
	past    []string
	future  []string
}

func (d *dataFlags) flagName(name string) string {
	if d.prefix == "" {
		return name
	}
	if name == "target" {
		return d.prefix
	}
	return d.prefix + "-" + name
}

func (d *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&d.targets, d.flagName("target"), nil, d.usage+" target series csv files")
	cmd.Flags().StringSliceVar(&d.past, d.flagName("past"), nil, d.usage+" past covariate csv files")
	cmd.Flags().StringSliceVar(&d.future, d.flagName("future"), nil, d.usage+" future covariate csv files")
}

func (d *dataFlags) set() bool {
	return len(d.targets) > 0
}

func (d *dataFlags) load() (lags.Data, error) {
	if len(d.targets) == 0 {
		return lags.Data{}, fmt.Errorf("--%s: %w", d.flagName("target"), ErrMissingTarget)
	}
	targets, err := readSeriesFiles(d.targets)
	if err != nil {
		return lags.Data{}, err
	}
	past, err := d.covariates(d.past, "past")
	if err != nil {
		return lags.Data{}, err
	}
	future, err := d.covariates(d.future, "future")
	if err != nil {
		return lags.Data{}, err
	}
	return lags.Data{Targets: targets, Past: past, Future: future}, nil
}

func (d *dataFlags) covariates(paths []string, name string) ([]*timeseries.TimeSeries, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if len(paths) != len(d.targets) {
		return nil, fmt.Errorf("--%s has %d files for %d targets: %w",
			d.flagName(name), len(paths), len(d.targets), ErrCovariateCount)
	}
	return readSeriesFiles(paths)
}

func readSeriesFiles(paths []string) ([]*timeseries.TimeSeries, error) {
	res := make([]*timeseries.TimeSeries, len(paths))
	for i, path := range paths {
		ts, err := ReadSeriesFile(path)
		if err != nil {
			return nil, err
		}
		res[i] = ts
	}
	return res, nil
}

// createOutput opens path for writing, falling back to stdout when path is empty or "-"
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
