package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

// Logger holds the global logging flags.
type Logger struct {
	level  string
	format string
	output string
}

func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Destination: &x.level,
			Sources:     cli.EnvVars("COMPGEN_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Category:    "Logging",
			Value:       logging.FormatConsole,
			Destination: &x.format,
			Sources:     cli.EnvVars("COMPGEN_LOG_FORMAT"),
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output (stderr, stdout, or a file path)",
			Category:    "Logging",
			Value:       "stderr",
			Destination: &x.output,
			Sources:     cli.EnvVars("COMPGEN_LOG_OUTPUT"),
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
	)
}

// Configure installs the process wide logger and returns a closer for the
// output file, if any.
func (x *Logger) Configure() (func(), error) {
	level, err := logging.ParseLevel(x.level)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidLogger, err.Error(), goerr.V(FieldKey, "log-level"), goerr.V(ValueKey, x.level))
	}

	var w io.Writer
	closer := func() {}
	switch x.output {
	case "", "stderr", "-":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		// #nosec G304 - path is provided by CLI flag
		f, err := os.OpenFile(x.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log output", goerr.V(FieldKey, "log-output"), goerr.V(ValueKey, x.output))
		}
		w = f
		closer = func() {
			if err := f.Close(); err != nil {
				logging.Default().Error("failed to close log output", "error", err)
			}
		}
	}

	logger, err := logging.New(w, level, x.format)
	if err != nil {
		closer()
		return nil, goerr.Wrap(ErrInvalidLogger, err.Error(), goerr.V(FieldKey, "log-format"), goerr.V(ValueKey, x.format))
	}
	logging.SetDefault(logger)
	return closer, nil
}
