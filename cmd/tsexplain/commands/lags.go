package commands

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/aouyang1/go-tsexplain/stats"
)

// LagsCommand writes the lagged feature matrix of the configured lag spec
type LagsCommand struct {
	configPath string
	output     string
	vif        bool
	data       dataFlags
}

// NewLagsCommand creates the lags subcommand
func NewLagsCommand() *cobra.Command {
	lc := &LagsCommand{data: dataFlags{usage: "comma separated"}}

	cmd := &cobra.Command{
		Use:   "lags",
		Short: "Build the lagged feature matrix",
		Long:  "Build the lagged feature matrix of the target and covariate series and write it as csv.",
		Args:  cobra.NoArgs,
		RunE:  lc.run,
	}

	cmd.Flags().StringVarP(&lc.configPath, "config", "c", "", "yaml config holding the lag spec")
	cmd.Flags().StringVarP(&lc.output, "output", "o", "", "output csv, stdout when empty")
	cmd.Flags().BoolVar(&lc.vif, "vif", false, "log the variance inflation factor of every column")
	lc.data.register(cmd)
	return cmd
}

func (lc *LagsCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(lc.configPath)
	if err != nil {
		return err
	}
	data, err := lc.data.load()
	if err != nil {
		return err
	}
	m, err := data.Build(cfg.Regression.Lags)
	if err != nil {
		return fmt.Errorf("build lag matrix: %w", err)
	}
	rows, cols := m.Dims()
	slog.Info("built lag matrix", "rows", rows, "columns", cols, "series", m.NumSeries())

	if lc.vif {
		if err := logVIF(m.X, m.Columns()); err != nil {
			return err
		}
	}

	w, closeFn, err := createOutput(cmd, lc.output)
	if err != nil {
		return err
	}
	if err := WriteMatrixCSV(w, m); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func logVIF(x mat.Matrix, names []string) error {
	vif, err := stats.VarianceInflationFactor(x, names)
	if err != nil {
		return fmt.Errorf("variance inflation factor: %w", err)
	}
	sorted := make([]string, 0, len(vif))
	for name := range vif {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	for _, name := range sorted {
		slog.Info("variance inflation factor", "column", name, "vif", vif[name])
	}
	return nil
}
