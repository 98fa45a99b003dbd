package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/forecast-history/internal/config"
	"github.com/i474232898/forecast-history/internal/forecast"
	"github.com/i474232898/forecast-history/internal/notify"
	"github.com/i474232898/forecast-history/internal/plot"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Fetch today's forecast, then plot charts and animations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateWeather(); err != nil {
			return err
		}
		return runWeather(cmd.Context(), cfg)
	},
}

func runWeather(ctx context.Context, cfg *config.Config) error {
	svc, err := newWeatherService(cfg)
	if err != nil {
		return err
	}

	zap.L().Info("checking for forecast updates")
	if _, err := svc.EnsureToday(ctx); err != nil {
		return err
	}
	res, err := svc.Aggregate()
	if err != nil {
		return err
	}

	renderer := weatherRenderer(cfg)
	zap.L().Info("creating charts")
	if _, err := renderer.Charts(res); err != nil {
		return err
	}

	zap.L().Info("creating animations")
	paths, err := renderAnimations(renderer, res)
	if err != nil {
		return err
	}

	if cfg.Telegram.Enabled {
		client, err := notify.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err == nil {
			err = client.SendSummary(svc.Location().Key(), res, time.Now(), paths[plot.Relative])
		}
		if err != nil {
			zap.L().Error("failed to send notification", zap.Error(err))
		}
	}

	zap.L().Info("completed", zap.String("run_id", res.RunID))
	return nil
}

// renderAnimations renders the absolute and the relative animation
// concurrently. A failing task does not cancel the other one.
func renderAnimations(r *plot.Renderer, res *forecast.Result) (map[plot.AnimationKind]string, error) {
	kinds := []plot.AnimationKind{plot.Absolute, plot.Relative}
	paths := make([]string, len(kinds))

	var g errgroup.Group
	for i, kind := range kinds {
		g.Go(func() error {
			path, err := r.Animation(kind, res)
			if err != nil {
				zap.L().Error("animation failed", zap.Stringer("kind", kind), zap.Error(err))
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "render animations")
	}

	out := make(map[plot.AnimationKind]string, len(kinds))
	for i, kind := range kinds {
		out[kind] = paths[i]
	}
	return out, nil
}
