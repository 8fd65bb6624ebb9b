package usecase

import (
	"context"
	"path"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
)

const (
	cammoun2012Name     = "atl-cammoun2012"
	cammoun2012Default  = "MNI152NLin2009aSym"
	schaefer2018Name    = "atl-schaefer2018"
	schaefer2018Default = "fsaverage"
	vonEconomoName      = "atl-voneconomo_koskinas"
	pauli2018Name       = "atl-pauli2018"
)

var cammoun2012Aliases = map[string]string{
	"surface": "fsaverage",
	"volume":  "MNI152NLin2009aSym",
}

// FetchCammoun2012 retrieves the Cammoun 2012 multi-scale parcellation. Keys are the five scales,
// plus "info" for the volumetric version.
func (uc *Datasets) FetchCammoun2012(ctx context.Context, version string, opts ...model.FetchOption) (*model.Bundle, error) {
	if version == "" {
		version = cammoun2012Default
	}
	if alias, ok := cammoun2012Aliases[version]; ok {
		ctxlog.From(ctx).Warn("Deprecated Cammoun 2012 version, use the replacement instead",
			"version", version,
			"replacement", alias,
		)
		version = alias
	}
	if err := checkSelector("Cammoun et al., 2012 parcellation version", version, Cammoun2012Versions); err != nil {
		return nil, err
	}

	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(cammoun2012Name, version)
	if err != nil {
		return nil, err
	}

	src := archive{
		root: path.Join(cammoun2012Name, version),
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: cammoun2012Name + ".tar.gz",
	}
	paths, err := uc.fetch(ctx, cammoun2012Name, p.DataDir, src.requests(Cammoun2012Filenames(version)), p)
	if err != nil {
		return nil, err
	}
	return AssembleCammoun2012(version, paths)
}

// AssembleCammoun2012 groups fetched Cammoun 2012 paths. The gcs version ships .gcs and .ctab
// files interleaved; only the .gcs files are kept, paired by hemisphere, and the three files of
// the finest scale are merged into one entry.
func AssembleCammoun2012(version string, paths []string) (*model.Bundle, error) {
	keys := append([]string{}, Cammoun2012Keys...)

	switch version {
	case "MNI152NLin2009aSym":
		return Zip(cammoun2012Name, append(keys, "info"), pathEntries(paths))

	case "gcs":
		groups, err := Chunk(EveryOther(paths, 0), 2)
		if err != nil {
			return nil, err
		}
		groups, err = MergeTail(groups, 3)
		if err != nil {
			return nil, err
		}
		return Zip(cammoun2012Name, keys, groupEntries(groups))

	case "fslr32k", "fsaverage", "fsaverage5", "fsaverage6":
		pairs, err := PairHemispheres(paths)
		if err != nil {
			return nil, err
		}
		return Zip(cammoun2012Name, keys, surfaceEntries(pairs))
	}

	return nil, types.NewSelectorError("Cammoun et al., 2012 parcellation version", version, Cammoun2012Versions)
}

// FetchSchaefer2018 retrieves the Schaefer 2018 parcellations keyed by "<N>Parcels<M>Networks".
func (uc *Datasets) FetchSchaefer2018(ctx context.Context, version string, opts ...model.FetchOption) (*model.Bundle, error) {
	if version == "" {
		version = schaefer2018Default
	}
	if err := checkSelector("Schaefer et al., 2018 parcellation version", version, SchaeferVersions); err != nil {
		return nil, err
	}

	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(schaefer2018Name, version)
	if err != nil {
		return nil, err
	}

	src := archive{
		root: path.Join(schaefer2018Name, version),
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: schaefer2018Name + ".tar.gz",
	}
	paths, err := uc.fetch(ctx, schaefer2018Name, p.DataDir, src.requests(Schaefer2018Filenames(version)), p)
	if err != nil {
		return nil, err
	}
	return AssembleSchaefer2018(version, paths)
}

// AssembleSchaefer2018 pairs annotation files by hemisphere; the bilateral fslr32k files map one to one.
func AssembleSchaefer2018(version string, paths []string) (*model.Bundle, error) {
	keys := Schaefer2018Keys()
	if version == "fslr32k" {
		return Zip(schaefer2018Name, keys, pathEntries(paths))
	}

	pairs, err := PairHemispheres(paths)
	if err != nil {
		return nil, err
	}
	return Zip(schaefer2018Name, keys, surfaceEntries(pairs))
}

// FetchVonEconomo retrieves the von Economo-Koskinas probabilistic atlas with keys gcs, ctab and info.
func (uc *Datasets) FetchVonEconomo(ctx context.Context, opts ...model.FetchOption) (*model.Bundle, error) {
	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(vonEconomoName, "")
	if err != nil {
		return nil, err
	}

	src := archive{
		root: vonEconomoName,
		url:  desc.SourceURL(p.URL),
		md5:  desc.MD5,
		move: vonEconomoName + ".tar.gz",
	}
	paths, err := uc.fetch(ctx, vonEconomoName, p.DataDir, src.requests(VonEconomoFilenames()), p)
	if err != nil {
		return nil, err
	}
	return AssembleVonEconomo(paths)
}

// AssembleVonEconomo splits the hemisphere-major gcs/ctab files into a gcs and a ctab surface.
func AssembleVonEconomo(paths []string) (*model.Bundle, error) {
	if len(paths) != 5 {
		return nil, goerr.Wrap(types.ErrResultMismatch, "unexpected number of von Economo files",
			goerr.V("count", len(paths)))
	}

	pairs, err := PairHemispheres(append(EveryOther(paths[:4], 0), EveryOther(paths[:4], 1)...))
	if err != nil {
		return nil, err
	}

	entries := append(surfaceEntries(pairs), model.PathEntry(paths[4]))
	return Zip(vonEconomoName, []string{"gcs", "ctab", "info"}, entries)
}

var pauli2018Keys = []string{"probabilistic", "deterministic", "info"}

// FetchPauli2018 retrieves the Pauli 2018 subcortical atlas. Its files are published separately,
// each with its own URL and checksum, so WithURL has no effect.
func (uc *Datasets) FetchPauli2018(ctx context.Context, opts ...model.FetchOption) (*model.Bundle, error) {
	p, err := uc.params(opts)
	if err != nil {
		return nil, err
	}
	desc, err := uc.registry.Lookup(pauli2018Name, "")
	if err != nil {
		return nil, err
	}
	if len(desc.Files) != len(pauli2018Keys) {
		return nil, goerr.Wrap(types.ErrResultMismatch, "registry lists unexpected number of Pauli 2018 files",
			goerr.V("count", len(desc.Files)))
	}

	files := make([]model.FileRequest, len(desc.Files))
	for i, f := range desc.Files {
		files[i] = model.FileRequest{
			Path: f.Name,
			URL:  f.URL,
			Options: model.FetchOptions{
				MD5:  f.MD5,
				Move: f.Name,
			},
		}
	}

	paths, err := uc.fetch(ctx, pauli2018Name, p.DataDir, files, p)
	if err != nil {
		return nil, err
	}
	return Zip(pauli2018Name, pauli2018Keys, pathEntries(paths))
}
