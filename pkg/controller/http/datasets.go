package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/interfaces"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"github.com/netneurolab/nntdata/pkg/utils/async"
)

// DatasetHandler serves the dataset catalog and fetches datasets on request
type DatasetHandler struct {
	datasetUC interfaces.DatasetUseCase
	jobs      *async.Group
	timeout   time.Duration
}

// NewDatasetHandler creates a new DatasetHandler
func NewDatasetHandler(datasetUC interfaces.DatasetUseCase, jobs *async.Group, timeout time.Duration) *DatasetHandler {
	return &DatasetHandler{
		datasetUC: datasetUC,
		jobs:      jobs,
		timeout:   timeout,
	}
}

type datasetDetail struct {
	model.CatalogEntry
	Descriptions map[string]string `json:"descriptions,omitempty"`
}

// List returns the catalog
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.datasetUC.Catalog())
}

// Get returns one catalog entry
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, err := h.lookup(chi.URLParam(r, "dataset"))
	if err != nil {
		writeError(ctx, w, err, statusOf(err))
		return
	}

	detail := datasetDetail{CatalogEntry: *entry}
	if entry.Dataset == "annotation" {
		detail.Descriptions = h.datasetUC.DescribeAnnotations()
	}
	writeJSON(ctx, w, http.StatusOK, detail)
}

func (h *DatasetHandler) lookup(dataset string) (*model.CatalogEntry, error) {
	catalog := h.datasetUC.Catalog()
	names := make([]string, len(catalog))
	for i := range catalog {
		if catalog[i].Dataset == dataset {
			return &catalog[i], nil
		}
		names[i] = catalog[i].Dataset
	}
	return nil, types.NewSelectorError("dataset", dataset, names)
}

func fetchOptions(r *http.Request) []model.FetchOption {
	var opts []model.FetchOption
	q := r.URL.Query()
	if url := q.Get("url"); url != "" {
		opts = append(opts, model.WithURL(url))
	}
	if q.Get("resume") == "false" {
		opts = append(opts, model.WithResume(false))
	}
	return opts
}

// Fetch retrieves the dataset and responds with its bundle
func (h *DatasetHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	dataset := chi.URLParam(r, "dataset")
	selector := r.URL.Query().Get("selector")
	logger := ctxlog.From(ctx)

	bundle, err := h.datasetUC.Fetch(ctx, dataset, selector, fetchOptions(r)...)
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to fetch dataset", "error", err, "dataset", dataset, "selector", selector)
		}
		writeError(ctx, w, err, status)
		return
	}

	writeJSON(ctx, w, http.StatusOK, bundle)
}

type prefetchResponse struct {
	Status   string `json:"status"`
	Dataset  string `json:"dataset"`
	Selector string `json:"selector,omitempty"`
}

// Prefetch validates the dataset name and warms the cache in the background
func (h *DatasetHandler) Prefetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dataset := chi.URLParam(r, "dataset")
	selector := r.URL.Query().Get("selector")

	if _, err := h.lookup(dataset); err != nil {
		writeError(ctx, w, err, statusOf(err))
		return
	}

	opts := fetchOptions(r)
	h.jobs.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := h.datasetUC.Fetch(ctx, dataset, selector, opts...); err != nil {
			return goerr.Wrap(err, "failed to prefetch dataset",
				goerr.V("dataset", dataset),
				goerr.V("selector", selector),
			)
		}
		ctxlog.From(ctx).Info("Prefetched dataset", "dataset", dataset, "selector", selector)
		return nil
	})

	writeJSON(ctx, w, http.StatusAccepted, prefetchResponse{
		Status:   "accepted",
		Dataset:  dataset,
		Selector: selector,
	})
}
