// Package main provides the tsexplain CLI: lag matrices, regression fits, forecast scoring and
// feature attributions from CSV time series.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/aouyang1/go-tsexplain/cmd/tsexplain/commands"
)

type rootCommand struct {
	verbose    bool
	cpuprofile string

	prof interface{ Stop() }
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rc := &rootCommand{}
	rootCmd := rc.command()
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	rc.stopProfile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (rc *rootCommand) command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tsexplain",
		Short: "Explain lag based time series regression models",
		Long: `tsexplain builds lagged feature matrices from CSV time series, fits regression models on
them, scores forecasts against observations and attributes forecasts to lagged features.

Commands:
  lags      Build the lagged feature matrix
  fit       Fit a regression model and write its weights
  explain   Attribute model forecasts to lagged features
  score     Score forecasts against observations`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: rc.setup,
	}

	rootCmd.PersistentFlags().BoolVarP(&rc.verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&rc.cpuprofile, "cpuprofile", "", "write a CPU profile into this directory")

	rootCmd.AddCommand(commands.NewLagsCommand())
	rootCmd.AddCommand(commands.NewFitCommand())
	rootCmd.AddCommand(commands.NewExplainCommand())
	rootCmd.AddCommand(commands.NewScoreCommand())
	return rootCmd
}

func (rc *rootCommand) setup(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if rc.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if rc.cpuprofile != "" {
		rc.prof = profile.Start(profile.CPUProfile, profile.ProfilePath(rc.cpuprofile), profile.Quiet, profile.NoShutdownHook)
	}
	return nil
}

func (rc *rootCommand) stopProfile() {
	if rc.prof != nil {
		rc.prof.Stop()
		rc.prof = nil
	}
}
