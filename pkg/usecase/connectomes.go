package usecase

import (
	"context"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"github.com/netneurolab/nntdata/pkg/infra/loader"
)

const (
	connectomesName          = "ds-connectomes"
	vazquezRodriguez2019Name = "ds-vazquez_rodriguez2019"
)

// AvailableConnectomes returns the sorted names accepted by FetchConnectome.
func (uc *Datasets) AvailableConnectomes() []string {
	return uc.registry.Versions(connectomesName)
}

// FetchConnectome retrieves one connectome and loads its matrices. Keys are the registry keys of
// the connectome (e.g. conn, labels, dist) plus "ref".
func (uc *Datasets) FetchConnectome(ctx context.Context, name string, opts ...model.FetchOption) (*model.Bundle, error) {
	if err := checkSelector("connectome dataset", name, uc.AvailableConnectomes()); err != nil {
		return nil, err
	}

	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(connectomesName, name)
	if err != nil {
		return nil, err
	}

	src := archive{
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: name + ".tar.gz",
	}
	dataDir := filepath.Join(p.DataDir, connectomesName)
	paths, err := uc.fetch(ctx, connectomesName, dataDir, src.requests(ConnectomeFilenames(name, desc.Keys)), p)
	if err != nil {
		return nil, err
	}
	return AssembleConnectome(name, desc.Keys, paths)
}

// AssembleConnectome loads one table per key followed by the reference text.
func AssembleConnectome(name string, keys, paths []string) (*model.Bundle, error) {
	if len(paths) != len(keys)+1 {
		return nil, goerr.Wrap(types.ErrResultMismatch, "unexpected number of connectome files",
			goerr.V("connectome", name),
			goerr.V("count", len(paths)),
		)
	}

	b := model.NewBundle(name)
	for i, key := range keys {
		table, err := loader.LoadTable(paths[i])
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load connectome table", goerr.V("key", key))
		}
		b.Set(key, model.TableEntry(table))
	}

	ref, err := loader.LoadText(paths[len(keys)])
	if err != nil {
		return nil, err
	}
	b.Set("ref", model.TextEntry(ref))
	return b, nil
}

// FetchVazquezRodriguez2019 retrieves the structure-function coupling values with keys rsquared
// and gradient.
func (uc *Datasets) FetchVazquezRodriguez2019(ctx context.Context, opts ...model.FetchOption) (*model.Bundle, error) {
	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(vazquezRodriguez2019Name, "")
	if err != nil {
		return nil, err
	}

	src := archive{
		root: vazquezRodriguez2019Name,
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: vazquezRodriguez2019Name + ".tar.gz",
	}
	paths, err := uc.fetch(ctx, vazquezRodriguez2019Name, p.DataDir, src.requests([]string{"rsquared_gradient.csv"}), p)
	if err != nil {
		return nil, err
	}

	cols, err := loader.LoadColumns(paths[0], 1)
	if err != nil {
		return nil, err
	}
	if len(cols) != 2 {
		return nil, goerr.Wrap(types.ErrParseFailure, "expected rsquared and gradient columns",
			goerr.V("path", paths[0]),
			goerr.V("columns", len(cols)),
		)
	}

	b := model.NewBundle(vazquezRodriguez2019Name)
	b.Set("rsquared", model.ValuesEntry(cols[0]))
	b.Set("gradient", model.ValuesEntry(cols[1]))
	return b, nil
}
