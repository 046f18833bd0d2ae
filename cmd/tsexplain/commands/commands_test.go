package commands

import (
	"bytes"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/aouyang1/go-tsexplain/ad"
	"github.com/aouyang1/go-tsexplain/explain"
	"github.com/aouyang1/go-tsexplain/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime(n int) []time.Time {
	t := make([]time.Time, n)
	for i := range t {
		t[i] = time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC)
	}
	return t
}

func testSeries(t *testing.T, n int) *timeseries.TimeSeries {
	ts, err := timeseries.NewUnivariate(testTime(n), timeseries.GenerateRampY(n, 0, 1))
	require.NoError(t, err)
	return ts
}

func writeSeries(t *testing.T, dir, name string, ts *timeseries.TimeSeries) string {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, WriteSeriesCSV(f, ts))
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// covariateFiles writes y_t = 1 + 2*x_{t-1} - x_{t-2} and x as csv files
func covariateFiles(t *testing.T, dir string, n int, seed uint64) (string, string) {
	rng := rand.New(rand.NewPCG(seed, 5))
	x := timeseries.GenerateNoise(n, 1.0, rng)
	y := timeseries.GenerateConstY(n, 1.0).
		Add(x.Shift(1, 0).Scale(2)).
		Add(x.Shift(2, 0).Scale(-1))

	target, err := timeseries.New(testTime(n), []string{"y"}, [][]float64{y})
	require.NoError(t, err)
	past, err := timeseries.New(testTime(n), []string{"x"}, [][]float64{x})
	require.NoError(t, err)

	suffix := string(rune('a' + seed))
	return writeSeries(t, dir, "target_"+suffix+".csv", target), writeSeries(t, dir, "past_"+suffix+".csv", past)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const covariateConfig = `
regression:
  lags:
    past: [-2, -1]
  output_chunk_length: 2
`

func TestLagsCommand(t *testing.T) {
	dir := t.TempDir()
	target, past := covariateFiles(t, dir, 6, 1)
	config := writeFile(t, dir, "config.yaml", covariateConfig)
	output := filepath.Join(dir, "lags.csv")

	_, err := execute(t, NewLagsCommand(),
		"--config", config, "--target", target, "--past", past, "--output", output, "--vif")
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	res, err := ReadSeriesCSV(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"x_past_cov_lag-2", "x_past_cov_lag-1"}, res.Components())
	assert.Equal(t, 4, res.Len())
	assert.Equal(t, testTime(6)[2:], []time.Time(res.Time()))

	pastTS, err := ReadSeriesFile(past)
	require.NoError(t, err)
	x, err := pastTS.Values(0)
	require.NoError(t, err)
	lag1, err := res.Values(1)
	require.NoError(t, err)
	assert.Equal(t, x[1:5], lag1)
}

func TestLagsCommandErrors(t *testing.T) {
	dir := t.TempDir()
	target, _ := covariateFiles(t, dir, 6, 2)
	config := writeFile(t, dir, "config.yaml", covariateConfig)

	_, err := execute(t, NewLagsCommand(), "--config", config)
	assert.ErrorIs(t, err, ErrMissingTarget)

	_, err = execute(t, NewLagsCommand(), "--config", config, "--target", target)
	assert.Error(t, err)

	_, err = execute(t, NewLagsCommand(), "--config", filepath.Join(dir, "missing.yaml"), "--target", target)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFitExplain(t *testing.T) {
	dir := t.TempDir()
	target, past := covariateFiles(t, dir, 40, 3)
	config := writeFile(t, dir, "config.yaml", covariateConfig)
	modelPath := filepath.Join(dir, "model.json")

	_, err := execute(t, NewFitCommand(),
		"--config", config, "--target", target, "--past", past, "-o", modelPath)
	require.NoError(t, err)

	model, err := readModel(modelPath)
	require.NoError(t, err)
	assert.Equal(t, 2, model.Horizons())
	assert.Equal(t, []string{"y"}, model.TargetNames())

	out, err := execute(t, NewExplainCommand(),
		"--model", modelPath, "--background", target, "--background-past", past)
	require.NoError(t, err)

	var res map[string]map[string]*timeseries.TimeSeries
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	for _, h := range []string{"0", "1"} {
		ts, exists := res[h]["y"]
		require.True(t, exists, "horizon %s", h)
		assert.Equal(t, []string{"x_past_cov_lag-2", "x_past_cov_lag-1"}, ts.Components())
		assert.Equal(t, 38, ts.Len())
	}

	out, err = execute(t, NewExplainCommand(),
		"--model", modelPath, "--background", target, "--background-past", past,
		"--summary", "--method", "permutation")
	require.NoError(t, err)

	var summary []explain.Importance
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary, 2)
	assert.Equal(t, 0, summary[0].Horizon)
	assert.Equal(t, "y", summary[0].Target)
	assert.Equal(t, []string{"x_past_cov_lag-1", "x_past_cov_lag-2"}, summary[0].Ranked())
}

func TestExplainSequenceOutput(t *testing.T) {
	dir := t.TempDir()
	targetA, pastA := covariateFiles(t, dir, 20, 4)
	targetB, pastB := covariateFiles(t, dir, 12, 5)
	config := writeFile(t, dir, "config.yaml", covariateConfig)
	modelPath := filepath.Join(dir, "model.json")

	_, err := execute(t, NewFitCommand(),
		"--config", config,
		"--target", targetA+","+targetB,
		"--past", pastA+","+pastB,
		"--output", modelPath,
	)
	require.NoError(t, err)

	out, err := execute(t, NewExplainCommand(),
		"--model", modelPath,
		"--background", targetA,
		"--background-past", pastA,
		"--foreground", strings.Join([]string{targetA, targetB}, ","),
		"--foreground-past", strings.Join([]string{pastA, pastB}, ","),
	)
	require.NoError(t, err)

	var res []map[string]map[string]*timeseries.TimeSeries
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	assert.Equal(t, 18, res[0]["0"]["y"].Len())
	assert.Equal(t, 10, res[1]["0"]["y"].Len())
}

func TestExplainCommandErrors(t *testing.T) {
	dir := t.TempDir()
	target, past := covariateFiles(t, dir, 10, 6)

	_, err := execute(t, NewExplainCommand(), "--background", target)
	assert.ErrorIs(t, err, ErrMissingModel)

	bad := writeFile(t, dir, "model.json", "{")
	_, err = execute(t, NewExplainCommand(), "--model", bad, "--background", target, "--background-past", past)
	assert.Error(t, err)
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	actual, err := timeseries.New(testTime(4), []string{"a", "b"}, [][]float64{
		{1, 2, 3, 4},
		{0, 0, 0, 0},
	})
	require.NoError(t, err)
	pred, err := timeseries.New(testTime(4), []string{"a", "b"}, [][]float64{
		{1, 1, 1, 1},
		{3, 0, 0, 0},
	})
	require.NoError(t, err)
	actualPath := writeSeries(t, dir, "actual.csv", actual)
	predPath := writeSeries(t, dir, "pred.csv", pred)

	testData := map[string]struct {
		args     []string
		expected string
	}{
		"difference": {
			nil,
			"time,a,b\n" +
				"2024-01-01T00:00:00Z,0,-3\n" +
				"2024-01-01T01:00:00Z,1,0\n" +
				"2024-01-01T02:00:00Z,2,0\n" +
				"2024-01-01T03:00:00Z,3,0\n",
		},
		"l1 norm": {
			[]string{"--norm", "--ord", "1"},
			"time,0\n" +
				"2024-01-01T00:00:00Z,3\n" +
				"2024-01-01T01:00:00Z,1\n" +
				"2024-01-01T02:00:00Z,2\n" +
				"2024-01-01T03:00:00Z,3\n",
		},
		"component wise": {
			[]string{"--component-wise"},
			"time,a,b\n" +
				"2024-01-01T00:00:00Z,0,3\n" +
				"2024-01-01T01:00:00Z,1,0\n" +
				"2024-01-01T02:00:00Z,2,0\n" +
				"2024-01-01T03:00:00Z,3,0\n",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"--actual", actualPath, "--pred", predPath}, td.args...)
			out, err := execute(t, NewScoreCommand(), args...)
			require.NoError(t, err)
			assert.Equal(t, td.expected, out)
		})
	}
}

func TestScoreCommandDetect(t *testing.T) {
	dir := t.TempDir()
	n := 9
	actual, err := timeseries.NewUnivariate(testTime(n), []float64{1, 1.1, 0.9, 1, 25, 1.05, 0.95, -30, 1})
	require.NoError(t, err)
	pred, err := timeseries.NewUnivariate(testTime(n), make([]float64, n))
	require.NoError(t, err)
	config := writeFile(t, dir, "config.yaml", "detector:\n  low: 0.25\n  high: 0.75\n  tukey_factor: 1.5\n")

	out, err := execute(t, NewScoreCommand(),
		"--config", config,
		"--actual", writeSeries(t, dir, "actual.csv", actual),
		"--pred", writeSeries(t, dir, "pred.csv", pred),
		"--detect",
	)
	require.NoError(t, err)

	flags, err := ReadSeriesCSV(strings.NewReader(out))
	require.NoError(t, err)
	vals, err := flags.Values(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 0, 0, 1, 0}, vals)
}

func TestScoreCommandErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeSeries(t, dir, "a.csv", testSeries(t, 4))
	b := writeSeries(t, dir, "b.csv", testSeries(t, 5))

	_, err := execute(t, NewScoreCommand(), "--actual", a)
	assert.ErrorIs(t, err, ErrMissingScoreInput)

	_, err = execute(t, NewScoreCommand(), "--actual", a, "--pred", b)
	assert.ErrorIs(t, err, timeseries.ErrTimeIndexMismatch)

	_, err = execute(t, NewScoreCommand(), "--actual", a, "--pred", a, "--norm", "--ord", "3")
	assert.ErrorIs(t, err, ad.ErrInvalidNormOrder)
}
