package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/forecast-history/internal/config"
	"github.com/i474232898/forecast-history/internal/football"
	"github.com/i474232898/forecast-history/internal/plot"
)

var footballCmd = &cobra.Command{
	Use:   "football",
	Short: "Compare two players' season statistics and plot them",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateFootball(); err != nil {
			return err
		}
		return runFootball(cfg)
	},
}

func runFootball(cfg *config.Config) error {
	seasons, err := football.Load(football.Dir(cfg.Storage.DataDir, cfg.Football.Country))
	if err != nil {
		return err
	}

	rows := football.Flatten(seasons)
	left := football.FilterPlayer(rows, cfg.Football.Players[0])
	right := football.FilterPlayer(rows, cfg.Football.Players[1])
	pairs := football.JoinBySeason(left, right)
	zap.L().Info("joined player seasons",
		zap.Int("left", len(left)),
		zap.Int("right", len(right)),
		zap.Int("common", len(pairs)),
	)

	x, metrics := football.Metrics(pairs)
	renderer := plot.NewRenderer(plot.Options{
		Dir:    filepath.Join(cfg.Plot.OutputDir, "football", cfg.Football.Country),
		Width:  cfg.Plot.Width,
		Height: cfg.Plot.Height,
	})
	chart, err := plot.MetricsChart("Metric curves", x, metrics)
	if err != nil {
		return eris.Wrap(err, "football: build metric chart")
	}
	_, err = renderer.WriteChart("metric_curves.png", chart)
	return err
}
