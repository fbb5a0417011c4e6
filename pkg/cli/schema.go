package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/render"
	"github.com/goliatone/go-compgen/pkg/renderers/schema"
)

func cmdSchema() *cli.Command {
	var project config.Project
	var types []string
	var componentType string
	var out string

	return &cli.Command{
		Name:  "schema",
		Usage: "Print the aggregated layout schema or one component's schema fragment",
		Flags: projectFlags(&project,
			&cli.StringSliceFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "Restrict the layout schema to these component types (repeatable)",
				Destination: &types,
			},
			&cli.StringFlag{
				Name:        "component",
				Usage:       "Print the schema fragment of a single component type",
				Destination: &componentType,
			},
			&cli.StringFlag{
				Name:        "out",
				Usage:       "Write to this file instead of stdout",
				Destination: &out,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			settings, set, err := loadProject(&project)
			if err != nil {
				return err
			}

			if componentType != "" {
				if _, ok := set.Lookup(componentType); !ok {
					return goerr.Wrap(ErrUnknownType, "cannot print schema", goerr.V("type", componentType))
				}
				cfg, err := set.Build(componentType)
				if err != nil {
					return goerr.Wrap(err, "failed to build component", goerr.V("type", componentType))
				}
				data, err := schema.New().Render(ctx, cfg, render.RenderOptions{})
				if err != nil {
					return goerr.Wrap(err, "failed to render component schema", goerr.V("type", componentType))
				}
				return writeOutput(c, out, data)
			}

			doc, err := pipeline.New(settings.PipelineOptions()...).Document(ctx, pipeline.Request{Descriptors: set, Types: types})
			if err != nil {
				return goerr.Wrap(err, "failed to assemble layout schema")
			}
			data, err := json.MarshalIndent(doc.Schema(), "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to encode layout schema")
			}
			return writeOutput(c, out, append(data, '\n'))
		},
	}
}
