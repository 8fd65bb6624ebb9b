package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"github.com/netneurolab/nntdata/pkg/infra/loader"
)

const (
	conte69Name      = "tpl-conte69"
	fsaverageName    = "tpl-fsaverage"
	fsaverageDefault = "fsaverage"
	hcpStandardsName = "standard_mesh_atlases"
)

// FetchConte69 retrieves the Conte69 surface template. The surfaces are paired by hemisphere and
// "info" holds the parsed template description.
func (uc *Datasets) FetchConte69(ctx context.Context, opts ...model.FetchOption) (*model.Bundle, error) {
	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(conte69Name, "")
	if err != nil {
		return nil, err
	}

	src := archive{
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: conte69Name + ".tar.gz",
	}
	paths, err := uc.fetch(ctx, conte69Name, p.DataDir, src.requests(Conte69Filenames()), p)
	if err != nil {
		return nil, err
	}
	return AssembleConte69(paths)
}

// AssembleConte69 pairs the surface files and loads the trailing JSON description.
func AssembleConte69(paths []string) (*model.Bundle, error) {
	if len(paths) != 2*len(Conte69Keys)+1 {
		return nil, goerr.Wrap(types.ErrResultMismatch, "unexpected number of Conte69 files",
			goerr.V("count", len(paths)))
	}

	last := len(paths) - 1
	pairs, err := PairHemispheres(paths[:last])
	if err != nil {
		return nil, err
	}
	info, err := loader.LoadJSON(paths[last])
	if err != nil {
		return nil, err
	}

	keys := append(append([]string{}, Conte69Keys...), "info")
	return Zip(conte69Name, keys, append(surfaceEntries(pairs), model.JSONEntry(info)))
}

// FetchFsaverage retrieves the FreeSurfer surfaces of an fsaverage resolution, one hemisphere
// pair per surface.
func (uc *Datasets) FetchFsaverage(ctx context.Context, version string, opts ...model.FetchOption) (*model.Bundle, error) {
	if version == "" {
		version = fsaverageDefault
	}
	if err := checkSelector("fsaverage version", version, FsaverageVersions); err != nil {
		return nil, err
	}

	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(fsaverageName, version)
	if err != nil {
		return nil, err
	}

	src := archive{
		root: fsaverageName,
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: fsaverageName + ".tar.gz",
	}
	paths, err := uc.fetch(ctx, fsaverageName, p.DataDir, src.requests(FsaverageFilenames(version)), p)
	if err != nil {
		return nil, err
	}

	pairs, err := PairHemispheres(paths)
	if err != nil {
		return nil, err
	}
	return Zip(fsaverageName, FsaverageKeys, surfaceEntries(pairs))
}

// FetchHCPStandards retrieves the HCP standard mesh atlases and returns the directory they were
// extracted to.
func (uc *Datasets) FetchHCPStandards(ctx context.Context, opts ...model.FetchOption) (string, error) {
	p, err := uc.params(opts)
	if err != nil {
		return "", err
	}
	desc, err := uc.registry.Lookup(hcpStandardsName, "")
	if err != nil {
		return "", err
	}

	src := archive{
		root: hcpStandardsName,
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: hcpStandardsName + ".zip",
	}
	paths, err := uc.fetch(ctx, hcpStandardsName, p.DataDir, src.requests(HCPStandardsFilenames()), p)
	if err != nil {
		return "", err
	}
	return dirOf(paths), nil
}
