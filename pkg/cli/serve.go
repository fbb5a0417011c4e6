package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/internal/server"
	"github.com/goliatone/go-compgen/internal/watch"
	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var project config.Project
	var addr string
	var cacheSize int
	var watchDescriptors bool

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve layout schemas and validate layouts over HTTP",
		Flags: projectFlags(&project,
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Listen address",
				Value:       "127.0.0.1:8080",
				Sources:     cli.EnvVars("COMPGEN_ADDR"),
				Destination: &addr,
			},
			&cli.IntFlag{
				Name:        "cache-size",
				Usage:       "Compiled schemas kept in memory",
				Value:       server.DefaultCacheSize,
				Destination: &cacheSize,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "Drop cached schemas when descriptor files change",
				Destination: &watchDescriptors,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			settings, _, err := loadProject(&project)
			if err != nil {
				return err
			}
			loader := func(context.Context) (*descriptor.Set, error) {
				return settings.DescriptorSet()
			}

			srv, err := server.New(
				server.WithLoader(loader),
				server.WithPipeline(pipeline.New(settings.PipelineOptions()...)),
				server.WithCacheSize(cacheSize),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create server")
			}

			ctx, stop := withSignals(ctx)
			defer stop()

			if watchDescriptors {
				if len(settings.Descriptors) == 0 {
					return goerr.Wrap(ErrNothingToWatch, "--watch needs descriptor directories")
				}
				watcher, err := watch.New(settings.Descriptors, func(ctx context.Context, changed []string) error {
					logging.Default().Info("Descriptors changed, dropping cached schemas", "files", changed)
					srv.Reload()
					return nil
				}, watch.WithDebounce(100*time.Millisecond))
				if err != nil {
					return goerr.Wrap(err, "failed to create watcher")
				}
				if err := watcher.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start watcher")
				}
				defer func() {
					if err := watcher.Stop(); err != nil {
						logging.Default().Error("failed to stop watcher", "error", err)
					}
				}()
			}

			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return goerr.Wrap(err, "server failed", goerr.V("addr", addr))
			}
			return nil
		},
	}
}
