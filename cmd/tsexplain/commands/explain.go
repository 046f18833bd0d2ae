package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aouyang1/go-tsexplain/explain"
	"github.com/aouyang1/go-tsexplain/lags"
	"github.com/aouyang1/go-tsexplain/regression"
)

var ErrMissingModel = errors.New("model json is required (use --model)")

// ExplainCommand attributes the forecasts of a fitted model to its lagged features
type ExplainCommand struct {
	configPath string
	modelPath  string
	output     string
	method     string
	summary    bool
	samples    int

	background dataFlags
	foreground dataFlags
}

// NewExplainCommand creates the explain subcommand
func NewExplainCommand() *cobra.Command {
	ec := &ExplainCommand{
		background: dataFlags{prefix: "background", usage: "comma separated background"},
		foreground: dataFlags{prefix: "foreground", usage: "comma separated foreground"},
	}

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Attribute model forecasts to lagged features",
		Long: `Explain the forecasts of a model written by the fit command against a background dataset.
Without foreground series the background series are explained. The output maps every horizon and
target component to a series with one column per lagged feature. Several foreground series
produce a list with one entry per series.`,
		Args: cobra.NoArgs,
		RunE: ec.run,
	}

	cmd.Flags().StringVarP(&ec.configPath, "config", "c", "", "yaml config holding the explain options")
	cmd.Flags().StringVarP(&ec.modelPath, "model", "m", "", "model json written by fit")
	cmd.Flags().StringVarP(&ec.output, "output", "o", "", "output json, stdout when empty")
	cmd.Flags().StringVar(&ec.method, "method", "", "attribution method overriding the config")
	cmd.Flags().BoolVar(&ec.summary, "summary", false, "write mean absolute attributions per feature instead")
	cmd.Flags().IntVar(&ec.samples, "summary-samples", 0, "background rows sampled for the summary (0 = all)")
	ec.background.register(cmd)
	ec.foreground.register(cmd)
	return cmd
}

func (ec *ExplainCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(ec.configPath)
	if err != nil {
		return err
	}
	if ec.method != "" {
		cfg.Explain.Method = ec.method
	}

	model, err := readModel(ec.modelPath)
	if err != nil {
		return err
	}
	background, err := ec.background.load()
	if err != nil {
		return err
	}

	explainer, err := explain.New(model, background, cfg.Explain)
	if err != nil {
		return fmt.Errorf("create explainer: %w", err)
	}
	slog.Debug("created explainer", "layout", explainer.Layout().String())

	res, err := ec.explain(explainer)
	if err != nil {
		return err
	}

	w, closeFn, err := createOutput(cmd, ec.output)
	if err != nil {
		return err
	}
	if err := writeJSON(w, res); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func (ec *ExplainCommand) explain(explainer *explain.Explainer) (any, error) {
	if ec.summary {
		return explainer.Summary(nil, nil, ec.samples)
	}

	var foreground lags.Data
	series := len(ec.background.targets)
	if ec.foreground.set() {
		var err error
		if foreground, err = ec.foreground.load(); err != nil {
			return nil, err
		}
		series = len(foreground.Targets)
	}
	if series > 1 {
		return explainer.ExplainSequence(foreground)
	}
	return explainer.Explain(foreground)
}

func readModel(path string) (*regression.Model, error) {
	if path == "" {
		return nil, ErrMissingModel
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	model, err := regression.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return model, nil
}
