package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/openapi"
	"github.com/goliatone/go-compgen/pkg/pipeline"
)

func cmdOpenAPI() *cli.Command {
	var project config.Project
	var types []string
	var format string
	var out string
	var title string
	var apiVersion string
	var validatePath string

	return &cli.Command{
		Name:  "openapi",
		Usage: "Export the layout schema as an OpenAPI 3.0 document",
		Flags: projectFlags(&project,
			&cli.StringSliceFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "Restrict the export to these component types (repeatable)",
				Destination: &types,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format (json, yaml)",
				Value:       openapi.FormatJSON,
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "out",
				Usage:       "Write to this file instead of stdout",
				Destination: &out,
			},
			&cli.StringFlag{
				Name:        "title",
				Usage:       "Document title",
				Destination: &title,
			},
			&cli.StringFlag{
				Name:        "api-version",
				Usage:       "Document version",
				Destination: &apiVersion,
			},
			&cli.StringFlag{
				Name:        "validate-path",
				Usage:       "Describe a POST endpoint validating layouts at this path",
				Destination: &validatePath,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			switch format {
			case openapi.FormatJSON, openapi.FormatYAML, "yml":
			default:
				return goerr.Wrap(ErrInvalidFormat, "cannot export", goerr.V("format", format))
			}

			settings, set, err := loadProject(&project)
			if err != nil {
				return err
			}
			doc, err := pipeline.New(settings.PipelineOptions()...).Document(ctx, pipeline.Request{Descriptors: set, Types: types})
			if err != nil {
				return goerr.Wrap(err, "failed to assemble layout schema")
			}

			var opts []openapi.Option
			if title != "" {
				opts = append(opts, openapi.WithTitle(title))
			}
			if apiVersion != "" {
				opts = append(opts, openapi.WithVersion(apiVersion))
			}
			if validatePath != "" {
				opts = append(opts, openapi.WithValidatePath(validatePath))
			}
			spec, err := openapi.Export(ctx, doc, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to export OpenAPI document")
			}
			data, err := openapi.Marshal(spec, format)
			if err != nil {
				return goerr.Wrap(err, "failed to encode OpenAPI document", goerr.V("format", format))
			}
			return writeOutput(c, out, data)
		},
	}
}
