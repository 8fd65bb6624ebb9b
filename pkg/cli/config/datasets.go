package config

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"github.com/netneurolab/nntdata/pkg/infra/fetch"
	"github.com/netneurolab/nntdata/pkg/infra/gcs"
	"github.com/netneurolab/nntdata/pkg/infra/registry"
	"github.com/netneurolab/nntdata/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Datasets holds the cache, registry and download configuration shared by every command
type Datasets struct {
	DataDir      string
	Registry     string
	AuthToken    string `masq:"secret"`
	GCSAnonymous bool
	Timeout      time.Duration
}

// Flags returns CLI flags for dataset configuration
func (c *Datasets) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data-dir",
			Aliases:     []string{"d"},
			Usage:       "Directory datasets are cached in",
			Value:       types.DefaultDataDir,
			Destination: &c.DataDir,
			Sources:     cli.EnvVars("NNT_DATA"),
		},
		&cli.StringFlag{
			Name:        "registry",
			Usage:       "TOML file whose entries override the built-in dataset registry",
			Destination: &c.Registry,
			Sources:     cli.EnvVars("NNT_REGISTRY"),
		},
		&cli.StringFlag{
			Name:        "auth-token",
			Usage:       "Bearer token sent with HTTP downloads",
			Destination: &c.AuthToken,
			Sources:     cli.EnvVars("NNT_AUTH_TOKEN"),
		},
		&cli.BoolFlag{
			Name:        "gcs-anonymous",
			Usage:       "Read gs:// sources without Google Cloud credentials",
			Destination: &c.GCSAnonymous,
			Sources:     cli.EnvVars("NNT_GCS_ANONYMOUS"),
		},
		&cli.DurationFlag{
			Name:        "download-timeout",
			Usage:       "Timeout of a single HTTP download",
			Value:       30 * time.Minute,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("NNT_DOWNLOAD_TIMEOUT"),
		},
	}
}

// LoadRegistry returns the built-in registry, merged with the override file when one is set
func (c *Datasets) LoadRegistry() (*registry.Registry, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	if c.Registry == "" {
		return reg, nil
	}

	path, err := homedir.Expand(c.Registry)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to expand registry path", goerr.V("path", c.Registry))
	}
	override, err := registry.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return reg.Merge(override), nil
}

// Configure builds the dataset use case. The returned storage client must be closed by the caller.
func (c *Datasets) Configure(logger *slog.Logger) (*usecase.Datasets, *gcs.Client, error) {
	reg, err := c.LoadRegistry()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load dataset registry")
	}

	var gcsOpts []gcs.Option
	if c.GCSAnonymous {
		gcsOpts = append(gcsOpts, gcs.WithAnonymous())
	}
	storage := gcs.New(gcsOpts...)

	fetchOpts := []fetch.Option{
		fetch.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
		fetch.WithObjectStorage(storage),
	}
	if c.AuthToken != "" {
		fetchOpts = append(fetchOpts, fetch.WithAuthToken(c.AuthToken))
	}

	logger.Debug("Dataset configuration", "config", c)

	return usecase.NewDatasets(reg, fetch.New(fetchOpts...), c.DataDir), storage, nil
}
