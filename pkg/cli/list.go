package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/cli/config"
)

type listEntry struct {
	Type     string `json:"type"`
	Symbol   string `json:"symbol"`
	Category string `json:"category"`
	Source   string `json:"source,omitempty"`
}

func cmdList() *cli.Command {
	var project config.Project
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the known component types",
		Flags: projectFlags(&project,
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print JSON instead of a table",
				Destination: &asJSON,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			_, set, err := loadProject(&project)
			if err != nil {
				return err
			}
			entries := make([]listEntry, 0, set.Len())
			for _, desc := range set.Descriptors() {
				entries = append(entries, listEntry{
					Type:     desc.Type,
					Symbol:   desc.DisplayName(),
					Category: desc.Category,
					Source:   desc.Source,
				})
			}

			if asJSON {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return goerr.Wrap(err, "failed to encode component list")
				}
				return writeOutput(c, "", append(data, '\n'))
			}

			tw := tabwriter.NewWriter(c.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tSYMBOL\tCATEGORY\tSOURCE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Type, e.Symbol, e.Category, e.Source)
			}
			if err := tw.Flush(); err != nil {
				return goerr.Wrap(err, "failed to write component list")
			}
			return nil
		},
	}
}
