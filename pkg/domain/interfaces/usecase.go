package interfaces

import (
	"context"

	"github.com/netneurolab/nntdata/pkg/domain/model"
)

// DatasetUseCase is the surface the HTTP controller and CLI depend on
type DatasetUseCase interface {
	// Fetch retrieves dataset, narrowed by selector when the dataset has versions or members
	Fetch(ctx context.Context, dataset, selector string, opts ...model.FetchOption) (*model.Bundle, error)

	// Catalog lists every fetchable dataset with the selectors it accepts
	Catalog() []model.CatalogEntry

	// DescribeAnnotations maps annotation names to their descriptions
	DescribeAnnotations() map[string]string

	// DataDir is the default cache root
	DataDir() string
}
