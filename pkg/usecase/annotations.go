package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"github.com/netneurolab/nntdata/pkg/infra/loader"
)

const (
	annotationsName = "ds-annotations"
	annotationsAll  = "all"
)

// AvailableAnnotations returns the sorted annotation names.
func (uc *Datasets) AvailableAnnotations() []string {
	return uc.registry.Versions(annotationsName)
}

// DescribeAnnotations maps every annotation name to its description.
func (uc *Datasets) DescribeAnnotations() map[string]string {
	return uc.registry.Describe(annotationsName)
}

// FetchAnnotation retrieves one fsaverage annotation. "data" holds the values of both
// hemispheres, left first, and "ref" the reference text.
func (uc *Datasets) FetchAnnotation(ctx context.Context, name string, opts ...model.FetchOption) (*model.Bundle, error) {
	if err := checkSelector("annotation", name, uc.AvailableAnnotations()); err != nil {
		return nil, err
	}

	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(annotationsName, name)
	if err != nil {
		return nil, err
	}

	src := archive{
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: name + ".tar.gz",
	}
	dataDir := filepath.Join(p.DataDir, annotationsName)
	paths, err := uc.fetch(ctx, annotationsName, dataDir, src.requests(AnnotationFilenames(name, desc.Density)), p)
	if err != nil {
		return nil, err
	}
	return AssembleAnnotation(name, paths)
}

// AssembleAnnotation aggregates the hemisphere GIFTI files and reads the trailing reference.
func AssembleAnnotation(name string, paths []string) (*model.Bundle, error) {
	if len(paths) < 2 {
		return nil, goerr.Wrap(types.ErrResultMismatch, "unexpected number of annotation files",
			goerr.V("annotation", name),
			goerr.V("count", len(paths)),
		)
	}

	last := len(paths) - 1
	data, err := loader.AggregateGIFTI(paths[:last])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load annotation", goerr.V("annotation", name))
	}
	ref, err := loader.LoadText(paths[last])
	if err != nil {
		return nil, err
	}

	b := model.NewBundle(name)
	b.Set("data", model.ValuesEntry(data))
	b.Set("ref", model.TextEntry(ref))
	return b, nil
}

// FetchAnnotations retrieves several annotations into a bundle keyed by annotation name. A single
// "all" selects every available annotation. Names are validated before anything is fetched.
func (uc *Datasets) FetchAnnotations(ctx context.Context, names []string, opts ...model.FetchOption) (*model.Bundle, error) {
	available := uc.AvailableAnnotations()
	if len(names) == 1 && names[0] == annotationsAll {
		names = available
	}

	selected := make([]string, len(names))
	for i, name := range names {
		selected[i] = strings.TrimSpace(name)
		if err := checkSelector("annotation", selected[i], available); err != nil {
			return nil, err
		}
	}

	ctxlog.From(ctx).Debug("Fetching annotations", "annotations", selected)

	out := model.NewBundle(annotationsName)
	for _, name := range selected {
		b, err := uc.FetchAnnotation(ctx, name, opts...)
		if err != nil {
			return nil, err
		}
		out.Set(name, model.BundleEntry(b))
	}
	return out, nil
}
