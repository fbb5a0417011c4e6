package cli

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/cli/config"
	"github.com/goliatone/go-compgen/pkg/descriptor"
)

// loadProject resolves the project settings and loads its descriptors.
func loadProject(project *config.Project) (*config.Settings, *descriptor.Set, error) {
	settings, err := project.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure project")
	}
	set, err := settings.DescriptorSet()
	if err != nil {
		return nil, nil, err
	}
	return settings, set, nil
}

// writeOutput writes data to path, or to the command's writer for "" and "-".
func writeOutput(c *cli.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		w := c.Root().Writer
		if w == nil {
			w = os.Stdout
		}
		if _, err := w.Write(data); err != nil {
			return goerr.Wrap(err, "failed to write output")
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("path", path))
	}
	// #nosec G306 - generated artifacts are meant to be shared
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write output", goerr.V("path", path))
	}
	return nil
}

func projectFlags(project *config.Project, extra ...cli.Flag) []cli.Flag {
	return append(project.Flags(), extra...)
}
