package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/cli/config"
	"github.com/netneurolab/nntdata/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdList() *cli.Command {
	var (
		datasetsCfg config.Datasets
		describe    bool
	)

	flags := append(datasetsCfg.Flags(),
		&cli.BoolFlag{
			Name:        "describe",
			Usage:       "Show annotation descriptions",
			Destination: &describe,
		},
	)

	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List datasets, connectomes or annotations",
		ArgsUsage: "[datasets|connectomes|annotations]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, storage, err := datasetsCfg.Configure(ctxlog.From(ctx))
			if err != nil {
				return err
			}
			defer storage.Close()

			return runList(os.Stdout, uc, c.Args().First(), describe)
		},
	}
}

func runList(w io.Writer, uc *usecase.Datasets, what string, describe bool) error {
	switch what {
	case "", "datasets":
		for _, e := range uc.Catalog() {
			line := e.Dataset
			if len(e.Selectors) > 0 {
				line += " [" + strings.Join(e.Selectors, ", ") + "]"
			}
			if e.Default != "" {
				line += " (default: " + e.Default + ")"
			}
			fmt.Fprintln(w, line)
		}

	case "connectomes":
		for _, name := range uc.AvailableConnectomes() {
			fmt.Fprintln(w, name)
		}

	case "annotations":
		if !describe {
			for _, name := range uc.AvailableAnnotations() {
				fmt.Fprintln(w, name)
			}
			return nil
		}
		desc := uc.DescribeAnnotations()
		names := make([]string, 0, len(desc))
		for name := range desc {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", name, desc[name])
		}

	default:
		return goerr.New("unknown list target", goerr.V("target", what))
	}
	return nil
}
