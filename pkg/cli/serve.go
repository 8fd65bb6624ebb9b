package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/cli/config"
	controller "github.com/netneurolab/nntdata/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		datasetsCfg config.Datasets
	)

	flags := append(serverCfg.Flags(), datasetsCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve the dataset catalog and fetches over HTTP",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting nntdata server",
				slog.String("addr", serverCfg.Addr),
				slog.String("data_dir", datasetsCfg.DataDir),
			)

			datasetUC, storage, err := datasetsCfg.Configure(logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := storage.Close(); err != nil {
					logger.Warn("Failed to close object storage client", slog.Any("error", err))
				}
			}()

			server, err := controller.NewServer(
				ctx,
				datasetUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithFetchTimeout(serverCfg.FetchTimeout),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			serveErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serveErr <- err
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			if err := waitForShutdown(ctx, sigChan, serveErr); err != nil {
				return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", serverCfg.Addr))
			}

			// Graceful shutdown; running prefetches get the same deadline
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverCfg.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// waitForShutdown blocks until ctx is done or a signal arrives, returning the server error instead
// when the listener fails first.
func waitForShutdown(ctx context.Context, sigChan <-chan os.Signal, serveErr <-chan error) error {
	logger := ctxlog.From(ctx)

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	case sig := <-sigChan:
		logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
	}
	return nil
}
