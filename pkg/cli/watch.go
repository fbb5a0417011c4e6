package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/internal/watch"
	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

func cmdWatch() *cli.Command {
	var project config.Project
	var debounce time.Duration

	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Regenerate whenever a descriptor file changes",
		Flags: projectFlags(&project,
			&cli.DurationFlag{
				Name:        "debounce",
				Usage:       "Quiet period before a change triggers generation",
				Value:       watch.DefaultDebounce,
				Destination: &debounce,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			settings, set, err := loadProject(&project)
			if err != nil {
				return err
			}
			if len(settings.Descriptors) == 0 {
				return goerr.Wrap(ErrNothingToWatch, "set --descriptors or descriptors in compgen.toml")
			}

			if _, err := generate(ctx, settings, pipeline.Request{Descriptors: set, OutputDir: settings.Output}); err != nil {
				return err
			}

			logger := logging.Default()
			handler := func(ctx context.Context, changed []string) error {
				logger.Info("Descriptors changed", "files", changed)
				set, err := settings.DescriptorSet()
				if err != nil {
					return err
				}
				_, err = generate(ctx, settings, pipeline.Request{Descriptors: set, OutputDir: settings.Output})
				return err
			}

			watcher, err := watch.New(settings.Descriptors, handler, watch.WithDebounce(debounce))
			if err != nil {
				return goerr.Wrap(err, "failed to create watcher")
			}

			ctx, stop := withSignals(ctx)
			defer stop()
			if err := watcher.Run(ctx); err != nil {
				return goerr.Wrap(err, "watcher failed")
			}
			stats := watcher.Stats()
			logger.Info("Watcher stopped", "runs", stats.Runs, "errors", stats.Errors)
			return nil
		},
	}
}
