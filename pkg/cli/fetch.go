package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/cli/config"
	"github.com/netneurolab/nntdata/pkg/domain/interfaces"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdFetch() *cli.Command {
	var (
		datasetsCfg config.Datasets
		url         string
		noResume    bool
		verbose     int
	)

	flags := append(datasetsCfg.Flags(),
		&cli.StringFlag{
			Name:        "url",
			Usage:       "Download from this URL instead of the registry source",
			Destination: &url,
		},
		&cli.BoolFlag{
			Name:        "no-resume",
			Usage:       "Restart partial downloads from the beginning",
			Destination: &noResume,
		},
		&cli.IntFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "Download verbosity (0 silent, 1 progress, 2 debug)",
			Value:       1,
			Destination: &verbose,
			Sources:     cli.EnvVars("NNT_VERBOSE"),
		},
	)

	return &cli.Command{
		Name:      "fetch",
		Aliases:   []string{"f"},
		Usage:     "Fetch a dataset into the data directory and print its bundle as JSON",
		ArgsUsage: "<dataset> [selector...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() < 1 {
				return goerr.New("dataset name is required")
			}

			uc, storage, err := datasetsCfg.Configure(ctxlog.From(ctx))
			if err != nil {
				return err
			}
			defer storage.Close()

			opts := []model.FetchOption{
				model.WithResume(!noResume),
				model.WithVerbose(verbose),
			}
			if url != "" {
				opts = append(opts, model.WithURL(url))
			}

			selector := strings.Join(c.Args().Slice()[1:], ",")
			return runFetch(ctx, os.Stdout, uc, c.Args().First(), selector, opts...)
		},
	}
}

func runFetch(ctx context.Context, w io.Writer, uc interfaces.DatasetUseCase, dataset, selector string, opts ...model.FetchOption) error {
	bundle, err := uc.Fetch(ctx, dataset, selector, opts...)
	if err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Fetched dataset",
		"dataset", dataset,
		"selector", selector,
		"keys", bundle.Keys(),
	)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return goerr.Wrap(err, "failed to encode bundle", goerr.V("dataset", dataset))
	}
	return nil
}
