package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/interfaces"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"golang.org/x/sync/singleflight"
)

// config holds internal fetch client configuration
type config struct {
	httpClient *http.Client
	storage    interfaces.ObjectStorage
	authToken  string
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithHTTPClient sets the client used for http(s) sources
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = c
	}
}

// WithObjectStorage enables gs:// sources
func WithObjectStorage(s interfaces.ObjectStorage) Option {
	return func(cfg *config) {
		cfg.storage = s
	}
}

// WithAuthToken sends a bearer token with http(s) requests, e.g. for private OSF projects
func WithAuthToken(token string) Option {
	return func(cfg *config) {
		cfg.authToken = token
	}
}

// Client retrieves dataset sources into a data directory. It implements interfaces.Fetcher.
type Client struct {
	cfg   *config
	group singleflight.Group
}

var _ interfaces.Fetcher = (*Client)(nil)

// New creates a new fetch client
func New(opts ...Option) *Client {
	cfg := &config{
		httpClient: &http.Client{Timeout: 30 * time.Minute},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{cfg: cfg}
}

// FetchFiles returns the absolute local path of every requested file, retrieving the sources of
// files that are not cached yet. Each distinct source is retrieved at most once per call, and
// concurrent calls for the same source in the same data directory share a single retrieval.
func (c *Client) FetchFiles(ctx context.Context, req *model.FetchRequest) (*model.FetchResult, error) {
	logger := ctxlog.From(ctx).With("fetch_id", uuid.NewString())

	dataDir, err := filepath.Abs(req.DataDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve data directory", goerr.V("data_dir", req.DataDir))
	}

	result := &model.FetchResult{Paths: make([]string, len(req.Files))}
	retrieved := make(map[string]bool)

	for i, f := range req.Files {
		target := filepath.Join(dataDir, filepath.FromSlash(f.Path))
		if fileExists(target) {
			if req.Verbose > 1 {
				logger.Debug("Using cached file", "path", target)
			}
			result.Paths[i] = target
			continue
		}

		key := sourceKey(dataDir, f)
		if !retrieved[key] {
			if f.URL == "" {
				return nil, goerr.Wrap(types.ErrFetchFailure, "no source URL configured for missing file",
					goerr.V("path", f.Path),
					goerr.V("data_dir", dataDir),
				)
			}

			n, leader, err := c.shared(ctx, logger, key, dataDir, target, f, req)
			if err != nil {
				return nil, goerr.Wrap(types.NewFetchError(err), "failed to retrieve source",
					goerr.V("url", f.URL),
					goerr.V("path", f.Path),
				)
			}
			if leader {
				result.Downloaded++
				result.Bytes += n
			}
			retrieved[key] = true
		}

		if !fileExists(target) {
			return nil, goerr.Wrap(types.ErrFetchFailure, "file not found in retrieved source",
				goerr.V("url", f.URL),
				goerr.V("path", f.Path),
			)
		}
		result.Paths[i] = target
	}

	if result.Downloaded > 0 && req.Verbose > 0 {
		logger.Info("Retrieved dataset sources",
			"sources", result.Downloaded,
			"size", humanize.Bytes(uint64(result.Bytes)),
			"data_dir", dataDir,
		)
	}
	return result, nil
}

// shared joins the in-flight retrieval of key or starts one. The retrieval ignores the
// cancellation of the caller that started it and each caller stops waiting when its own ctx is
// done. leader reports whether this call started the retrieval.
func (c *Client) shared(ctx context.Context, logger *slog.Logger, key, dataDir, target string, f model.FileRequest, req *model.FetchRequest) (int64, bool, error) {
	var leader bool
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		leader = true
		return c.retrieve(detached, logger, dataDir, target, f, req)
	})

	select {
	case <-ctx.Done():
		return 0, false, goerr.Wrap(ctx.Err(), "stopped waiting for source", goerr.V("url", f.URL))
	case r := <-ch:
		if r.Err != nil {
			return 0, false, r.Err
		}
		return r.Val.(int64), leader, nil
	}
}

// sourceKey identifies one retrieval. Archives are keyed by URL so every member shares a single
// download; plain files are keyed by their destination.
func sourceKey(dataDir string, f model.FileRequest) string {
	if f.Options.Uncompress {
		return dataDir + "\x00" + f.URL
	}
	return dataDir + "\x00" + f.URL + "\x00" + f.Path
}

func (c *Client) retrieve(ctx context.Context, logger *slog.Logger, dataDir, target string, f model.FileRequest, req *model.FetchRequest) (int64, error) {
	if req.Verbose > 0 {
		logger.Info("Downloading dataset source", "url", f.URL, "path", f.Path)
	}

	if !f.Options.Uncompress {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return 0, goerr.Wrap(err, "failed to create directory", goerr.V("dir", filepath.Dir(target)))
		}
		return c.download(ctx, f.URL, target, f.Options.MD5, req.Resume)
	}

	staging := filepath.Join(dataDir, ".staging-"+shortHash(f.URL))
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return 0, goerr.Wrap(err, "failed to create staging directory", goerr.V("dir", staging))
	}

	name := f.Options.Move
	if name == "" {
		name = archiveName(f.URL)
	}
	archive := filepath.Join(staging, name)

	n, err := c.download(ctx, f.URL, archive, f.Options.MD5, req.Resume)
	if err != nil {
		return 0, err
	}

	extracted := filepath.Join(staging, "extracted")
	if err := os.RemoveAll(extracted); err != nil {
		return 0, goerr.Wrap(err, "failed to reset extraction directory", goerr.V("dir", extracted))
	}
	files, err := Extract(archive, extracted)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to extract archive", goerr.V("archive", archive))
	}
	logger.Debug("Extracted archive", "archive", archive, "file_count", files)

	if err := mergeTree(extracted, dataDir); err != nil {
		return 0, err
	}
	if err := os.RemoveAll(staging); err != nil {
		return 0, goerr.Wrap(err, "failed to remove staging directory", goerr.V("dir", staging))
	}
	return n, nil
}

func shortHash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
