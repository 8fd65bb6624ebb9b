package interfaces

import (
	"context"
	"io"

	"github.com/netneurolab/nntdata/pkg/domain/model"
)

// Fetcher materialises requested files under a data directory. The returned paths must have the
// same length and order as req.Files; any file that cannot be retrieved or verified fails the call.
type Fetcher interface {
	FetchFiles(ctx context.Context, req *model.FetchRequest) (*model.FetchResult, error)
}

// ObjectStorage opens objects of a bucket-backed mirror, starting at offset.
type ObjectStorage interface {
	Open(ctx context.Context, bucket, object string, offset int64) (io.ReadCloser, error)
}

// Registry resolves dataset names and versions to their descriptors.
type Registry interface {
	// Lookup returns the descriptor for name and version, or a *types.SelectorError listing valid versions
	Lookup(name, version string) (*model.DatasetDescriptor, error)

	// Versions returns the sorted versions registered for name
	Versions(name string) []string

	// Describe maps each version of name to its description
	Describe(name string) map[string]string
}
