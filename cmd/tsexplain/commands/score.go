package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aouyang1/go-tsexplain/ad"
	"github.com/aouyang1/go-tsexplain/timeseries"
)

var ErrMissingScoreInput = errors.New("both --actual and --pred are required")

// ScoreCommand scores a forecast against the observed series and optionally flags anomalies
type ScoreCommand struct {
	configPath    string
	actual        string
	pred          string
	output        string
	norm          bool
	ord           int
	componentWise bool
	detect        bool
}

// NewScoreCommand creates the score subcommand
func NewScoreCommand() *cobra.Command {
	sc := &ScoreCommand{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score forecasts against observations",
		Long: `Score a predicted series against the observed series. The default score is actual - pred,
--norm reduces the difference to an L1 or L2 norm. With --detect the scores are converted to a
0/1 anomaly series using the quantile detector of the config.`,
		Args: cobra.NoArgs,
		RunE: sc.run,
	}

	cmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "yaml config holding the detector options")
	cmd.Flags().StringVar(&sc.actual, "actual", "", "observed series csv")
	cmd.Flags().StringVar(&sc.pred, "pred", "", "predicted series csv")
	cmd.Flags().StringVarP(&sc.output, "output", "o", "", "output csv, stdout when empty")
	cmd.Flags().BoolVar(&sc.norm, "norm", false, "score by the norm of the difference")
	cmd.Flags().IntVar(&sc.ord, "ord", 2, "norm order, 1 or 2")
	cmd.Flags().BoolVar(&sc.componentWise, "component-wise", false, "score every component by its absolute difference")
	cmd.Flags().BoolVar(&sc.detect, "detect", false, "write 0/1 anomaly flags instead of scores")
	return cmd
}

func (sc *ScoreCommand) scorer() ad.Scorer {
	if sc.norm || sc.componentWise {
		return &ad.NormScorer{Ord: sc.ord, ComponentWise: sc.componentWise}
	}
	return ad.DifferenceScorer{}
}

func (sc *ScoreCommand) run(cmd *cobra.Command, _ []string) error {
	if sc.actual == "" || sc.pred == "" {
		return ErrMissingScoreInput
	}
	cfg, err := LoadConfig(sc.configPath)
	if err != nil {
		return err
	}
	actual, err := ReadSeriesFile(sc.actual)
	if err != nil {
		return err
	}
	pred, err := ReadSeriesFile(sc.pred)
	if err != nil {
		return err
	}

	scorer := sc.scorer()
	res, err := scorer.Score(actual, pred)
	if err != nil {
		return fmt.Errorf("score %s: %w", scorer, err)
	}
	slog.Debug("scored series", "scorer", scorer.String(), "points", res.Len())

	if sc.detect {
		if res, err = sc.flag(cfg.Detector, res); err != nil {
			return err
		}
	}

	w, closeFn, err := createOutput(cmd, sc.output)
	if err != nil {
		return err
	}
	if err := WriteSeriesCSV(w, res); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func (sc *ScoreCommand) flag(detector *ad.QuantileDetector, scores *timeseries.TimeSeries) (*timeseries.TimeSeries, error) {
	flags, err := detector.FitDetect(scores)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	lower, upper, err := detector.Bounds()
	if err != nil {
		return nil, err
	}
	slog.Info("quantile bounds", "lower", lower, "upper", upper)
	return flags, nil
}
