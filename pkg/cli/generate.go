package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

func cmdGenerate() *cli.Command {
	var project config.Project
	var types []string
	var dryRun bool

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen", "g"},
		Usage:   "Generate TypeScript modules and the layout schema",
		Flags: projectFlags(&project,
			&cli.StringSliceFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "Component type to generate (repeatable, default all)",
				Destination: &types,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Report what would change without writing",
				Destination: &dryRun,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			settings, set, err := loadProject(&project)
			if err != nil {
				return err
			}
			result, err := generate(ctx, settings, pipeline.Request{
				Descriptors: set,
				Types:       types,
				OutputDir:   settings.Output,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			logger := logging.Default()
			for _, file := range result.Files {
				if file.Changed {
					logger.Info("Changed", "path", file.Path, "written", file.Written)
				}
			}
			return nil
		},
	}
}

func generate(ctx context.Context, settings *config.Settings, req pipeline.Request) (*pipeline.Result, error) {
	result, err := pipeline.New(settings.PipelineOptions()...).Generate(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "generation failed", goerr.V("output", req.OutputDir))
	}
	return result, nil
}
