package cli

import (
	"context"
	"errors"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/scaffold"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

func cmdScaffold() *cli.Command {
	var project config.Project
	var dir string
	var printOnly bool

	return &cli.Command{
		Name:  "scaffold",
		Usage: "Create a component descriptor interactively",
		Flags: projectFlags(&project,
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "Directory the descriptor is written to (default: first descriptor directory)",
				Destination: &dir,
			},
			&cli.BoolFlag{
				Name:        "print",
				Usage:       "Print the descriptor instead of writing it",
				Destination: &printOnly,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			settings, set, err := loadProject(&project)
			if err != nil {
				return err
			}

			wizard := scaffold.New(
				scaffold.WithPromptDriver(scaffold.NewSurveyDriver(os.Stderr)),
				scaffold.WithExisting(set),
			)
			desc, err := wizard.Run(ctx)
			if err != nil {
				if errors.Is(err, scaffold.ErrAborted) {
					logging.Default().Info("Scaffold aborted")
					return nil
				}
				return goerr.Wrap(err, "scaffold failed")
			}

			if printOnly {
				data, err := scaffold.Marshal(desc)
				if err != nil {
					return goerr.Wrap(err, "failed to encode descriptor")
				}
				return writeOutput(c, "", data)
			}

			target := dir
			if target == "" && len(settings.Descriptors) > 0 {
				target = settings.Descriptors[0]
			}
			if target == "" {
				target = "."
			}
			path, err := scaffold.WriteFile(target, desc)
			if err != nil {
				return goerr.Wrap(err, "failed to write descriptor", goerr.V("dir", target))
			}
			logging.Default().Info("Descriptor created", "type", desc.Type, "path", path)
			return nil
		},
	}
}
