package usecase

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/netneurolab/nntdata/pkg/domain/interfaces"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
)

// Datasets fetches every dataset of the catalog. It holds no state besides its collaborators, so
// one instance may serve concurrent callers.
type Datasets struct {
	registry interfaces.Registry
	fetcher  interfaces.Fetcher
	dataDir  string
}

var _ interfaces.DatasetUseCase = (*Datasets)(nil)

// NewDatasets creates the dataset use case. dataDir is used when a call does not pass WithDataDir.
func NewDatasets(registry interfaces.Registry, fetcher interfaces.Fetcher, dataDir string) *Datasets {
	if dataDir == "" {
		dataDir = types.DefaultDataDir
	}
	return &Datasets{
		registry: registry,
		fetcher:  fetcher,
		dataDir:  dataDir,
	}
}

// DataDir returns the default cache root with ~ expanded
func (uc *Datasets) DataDir() string {
	dir, err := homedir.Expand(uc.dataDir)
	if err != nil {
		return uc.dataDir
	}
	return dir
}

func (uc *Datasets) params(opts []model.FetchOption) (model.FetchParams, error) {
	p := model.DefaultFetchParams()
	for _, opt := range opts {
		opt(&p)
	}
	if p.DataDir == "" {
		p.DataDir = uc.dataDir
	}

	dir, err := homedir.Expand(p.DataDir)
	if err != nil {
		return p, goerr.Wrap(err, "failed to expand data directory", goerr.V("data_dir", p.DataDir))
	}
	p.DataDir = dir
	return p, nil
}

// archive describes the files of a dataset distributed as one compressed archive.
type archive struct {
	root string // prefix joined to every file name
	url  string
	md5  string
	move string
}

func (a archive) requests(names []string) []model.FileRequest {
	files := make([]model.FileRequest, len(names))
	for i, name := range names {
		files[i] = model.FileRequest{
			Path: path.Join(a.root, name),
			URL:  a.url,
			Options: model.FetchOptions{
				Uncompress: true,
				MD5:        a.md5,
				Move:       a.move,
			},
		}
	}
	return files
}

// fetch hands the request to the fetch delegate and checks that every requested file came back.
// Results are positional, so a short or long result is never regrouped.
func (uc *Datasets) fetch(ctx context.Context, dataset string, dataDir string, files []model.FileRequest, p model.FetchParams) ([]string, error) {
	logger := ctxlog.From(ctx)
	logger.Debug("Fetching dataset files",
		"dataset", dataset,
		"data_dir", dataDir,
		"file_count", len(files),
	)

	req := &model.FetchRequest{
		DataDir: dataDir,
		Files:   files,
		Resume:  p.Resume,
		Verbose: p.Verbose,
	}
	result, err := uc.fetcher.FetchFiles(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch dataset", goerr.V("dataset", dataset))
	}
	if len(result.Paths) != len(files) {
		return nil, goerr.Wrap(types.ErrResultMismatch, "fetcher returned unexpected number of paths",
			goerr.V("dataset", dataset),
			goerr.V("requested", len(files)),
			goerr.V("returned", len(result.Paths)),
		)
	}
	return result.Paths, nil
}

func checkSelector(label, selector string, choices []string) error {
	for _, c := range choices {
		if c == selector {
			return nil
		}
	}
	return types.NewSelectorError(label, selector, choices)
}

// Dataset identifiers accepted by Fetch.
const (
	DatasetCammoun2012          = "cammoun2012"
	DatasetConte69              = "conte69"
	DatasetPauli2018            = "pauli2018"
	DatasetFsaverage            = "fsaverage"
	DatasetConnectome           = "connectome"
	DatasetVazquezRodriguez2019 = "vazquez_rodriguez2019"
	DatasetSchaefer2018         = "schaefer2018"
	DatasetHCPStandards         = "hcp_standards"
	DatasetVonEconomo           = "voneconomo"
	DatasetAnnotation           = "annotation"
)

// Catalog lists every dataset Fetch accepts, in a stable order.
func (uc *Datasets) Catalog() []model.CatalogEntry {
	return []model.CatalogEntry{
		{Dataset: DatasetCammoun2012, Registry: cammoun2012Name, Selectors: Cammoun2012Versions, Default: cammoun2012Default},
		{Dataset: DatasetConte69, Registry: conte69Name},
		{Dataset: DatasetPauli2018, Registry: pauli2018Name},
		{Dataset: DatasetFsaverage, Registry: fsaverageName, Selectors: FsaverageVersions, Default: fsaverageDefault},
		{Dataset: DatasetConnectome, Registry: connectomesName, Selectors: uc.AvailableConnectomes()},
		{Dataset: DatasetVazquezRodriguez2019, Registry: vazquezRodriguez2019Name},
		{Dataset: DatasetSchaefer2018, Registry: schaefer2018Name, Selectors: SchaeferVersions, Default: schaefer2018Default},
		{Dataset: DatasetHCPStandards, Registry: hcpStandardsName},
		{Dataset: DatasetVonEconomo, Registry: vonEconomoName},
		{Dataset: DatasetAnnotation, Registry: annotationsName, Selectors: append(uc.AvailableAnnotations(), annotationsAll)},
	}
}

func (uc *Datasets) catalogNames() []string {
	entries := uc.Catalog()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Dataset
	}
	return names
}

// Fetch retrieves dataset by its catalog identifier. selector is the version, connectome or
// annotation name; it is ignored when empty for datasets that have a default. Annotations accept
// a comma separated list or "all".
func (uc *Datasets) Fetch(ctx context.Context, dataset, selector string, opts ...model.FetchOption) (*model.Bundle, error) {
	noSelector := func() error {
		if selector != "" {
			return types.NewSelectorError(dataset, selector, nil)
		}
		return nil
	}

	switch dataset {
	case DatasetCammoun2012:
		return uc.FetchCammoun2012(ctx, selector, opts...)
	case DatasetFsaverage:
		return uc.FetchFsaverage(ctx, selector, opts...)
	case DatasetSchaefer2018:
		return uc.FetchSchaefer2018(ctx, selector, opts...)
	case DatasetConnectome:
		return uc.FetchConnectome(ctx, selector, opts...)

	case DatasetAnnotation:
		if selector == annotationsAll || strings.Contains(selector, ",") {
			return uc.FetchAnnotations(ctx, strings.Split(selector, ","), opts...)
		}
		return uc.FetchAnnotation(ctx, selector, opts...)

	case DatasetConte69:
		if err := noSelector(); err != nil {
			return nil, err
		}
		return uc.FetchConte69(ctx, opts...)
	case DatasetPauli2018:
		if err := noSelector(); err != nil {
			return nil, err
		}
		return uc.FetchPauli2018(ctx, opts...)
	case DatasetVazquezRodriguez2019:
		if err := noSelector(); err != nil {
			return nil, err
		}
		return uc.FetchVazquezRodriguez2019(ctx, opts...)
	case DatasetVonEconomo:
		if err := noSelector(); err != nil {
			return nil, err
		}
		return uc.FetchVonEconomo(ctx, opts...)

	case DatasetHCPStandards:
		if err := noSelector(); err != nil {
			return nil, err
		}
		dir, err := uc.FetchHCPStandards(ctx, opts...)
		if err != nil {
			return nil, err
		}
		b := model.NewBundle(hcpStandardsName)
		b.Set("standards", model.PathEntry(dir))
		return b, nil
	}

	return nil, types.NewSelectorError("dataset", dataset, uc.catalogNames())
}

// dirOf returns the directory holding the first file of paths.
func dirOf(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	return filepath.Dir(paths[0])
}
