package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
	"github.com/goliatone/go-compgen/pkg/validation"
)

func cmdValidate() *cli.Command {
	var project config.Project
	var types []string

	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate layout files against the generated layout schema",
		ArgsUsage: "LAYOUT.json...",
		Flags: projectFlags(&project,
			&cli.StringSliceFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "Only allow these component types (repeatable)",
				Destination: &types,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return goerr.New("at least one layout file is required")
			}

			settings, set, err := loadProject(&project)
			if err != nil {
				return err
			}
			doc, err := pipeline.New(settings.PipelineOptions()...).Document(ctx, pipeline.Request{Descriptors: set, Types: types})
			if err != nil {
				return goerr.Wrap(err, "failed to assemble layout schema")
			}
			validator, err := validation.CompileDocument(doc)
			if err != nil {
				return goerr.Wrap(err, "failed to compile layout schema")
			}

			logger := logging.Default()
			w := c.Root().Writer
			invalid := 0
			for _, file := range files {
				// #nosec G304 - path is provided by CLI argument
				data, err := os.ReadFile(file)
				if err != nil {
					return goerr.Wrap(err, "failed to read layout", goerr.V("path", file))
				}
				result := validator.Validate(data)
				if result.Valid {
					logger.Info("Layout is valid", "path", file)
					continue
				}
				invalid++
				for _, issue := range result.Issues {
					fmt.Fprintf(w, "%s: %s: %s\n", file, issue.Field, issue.Message)
				}
			}

			if invalid > 0 {
				return goerr.Wrap(ErrInvalidLayout, "validation failed", goerr.V("invalid", invalid), goerr.V("checked", len(files)))
			}
			return nil
		},
	}
}
