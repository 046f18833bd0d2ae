package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aouyang1/go-tsexplain/regression"
)

// FitCommand fits a regression model on lagged series and writes it as json
type FitCommand struct {
	configPath string
	output     string
	data       dataFlags
}

// NewFitCommand creates the fit subcommand
func NewFitCommand() *cobra.Command {
	fc := &FitCommand{data: dataFlags{usage: "comma separated"}}

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a regression model and write its weights",
		Long: `Fit an OLS or Lasso estimator predicting the next output_chunk_length steps of every target
component from the configured lags. The model is written as json for the explain command.`,
		Args: cobra.NoArgs,
		RunE: fc.run,
	}

	cmd.Flags().StringVarP(&fc.configPath, "config", "c", "", "yaml config holding the lag spec and estimator")
	cmd.Flags().StringVarP(&fc.output, "output", "o", "", "output model json, stdout when empty")
	fc.data.register(cmd)
	return cmd
}

func (fc *FitCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(fc.configPath)
	if err != nil {
		return err
	}
	data, err := fc.data.load()
	if err != nil {
		return err
	}

	model, err := regression.Fit(cfg.Regression, cfg.NewModel, data)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	slog.Info("fitted model",
		"estimator", model.Estimator().Kind(),
		"features", model.Estimator().NumFeatures(),
		"outputs", model.Estimator().NumOutputs(),
	)

	w, closeFn, err := createOutput(cmd, fc.output)
	if err != nil {
		return err
	}
	if err := model.Encode(w); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
