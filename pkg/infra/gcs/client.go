package gcs

import (
	"context"
	"errors"
	"io"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

// Option configures the Cloud Storage client
type Option func(*Client)

// WithAnonymous reads public buckets without credentials
func WithAnonymous() Option {
	return func(c *Client) {
		c.clientOpts = append(c.clientOpts, option.WithoutAuthentication())
	}
}

// WithClientOptions passes raw options to the underlying storage client, e.g. an endpoint for an emulator
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// Client opens objects in Google Cloud Storage. The storage client is created on first use so that
// configurations without gs:// mirrors never need credentials.
type Client struct {
	clientOpts []option.ClientOption

	once   sync.Once
	client *storage.Client
	err    error
}

var _ interfaces.ObjectStorage = (*Client)(nil)

// New creates a new Cloud Storage client
func New(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) init(ctx context.Context) (*storage.Client, error) {
	c.once.Do(func() {
		client, err := storage.NewClient(ctx, c.clientOpts...)
		if err != nil {
			c.err = goerr.Wrap(err, "failed to create storage client")
			return
		}
		c.client = client
	})
	return c.client, c.err
}

// Open returns a reader for bucket/object starting at offset
func (c *Client) Open(ctx context.Context, bucket, object string, offset int64) (io.ReadCloser, error) {
	client, err := c.init(ctx)
	if err != nil {
		return nil, err
	}

	r, err := client.Bucket(bucket).Object(object).NewRangeReader(ctx, offset, -1)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, goerr.Wrap(err, "object not found", goerr.V("bucket", bucket), goerr.V("object", object))
		}
		return nil, goerr.Wrap(err, "failed to open object",
			goerr.V("bucket", bucket),
			goerr.V("object", object),
			goerr.V("offset", offset),
		)
	}
	return r, nil
}

// Close releases the underlying storage client if it was created
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close storage client")
	}
	return nil
}
