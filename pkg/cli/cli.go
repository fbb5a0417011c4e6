package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	app := &cli.Command{
		Name:    "compgen",
		Usage:   "Generate component configuration, definition classes and layout schemas from descriptors",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Debug("Starting compgen", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdGenerate(),
			cmdSchema(),
			cmdValidate(),
			cmdOpenAPI(),
			cmdWatch(),
			cmdServe(),
			cmdScaffold(),
			cmdList(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
