package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
)

// The helpers below regroup the flat, ordered output of the fetch delegate. They are positional:
// the meaning of a path is decided only by its index, so callers must pass the paths exactly in
// the order they were requested.

// PairHemispheres groups consecutive paths into left/right pairs.
func PairHemispheres(paths []string) ([]model.Surface, error) {
	if len(paths)%2 != 0 {
		return nil, goerr.Wrap(types.ErrResultMismatch, "odd number of hemisphere files",
			goerr.V("count", len(paths)))
	}

	pairs := make([]model.Surface, 0, len(paths)/2)
	for i := 0; i < len(paths); i += 2 {
		pairs = append(pairs, model.Surface{LH: paths[i], RH: paths[i+1]})
	}
	return pairs, nil
}

// EveryOther returns paths[offset], paths[offset+2], ...
func EveryOther(paths []string, offset int) []string {
	var out []string
	for i := offset; i < len(paths); i += 2 {
		out = append(out, paths[i])
	}
	return out
}

// Chunk splits paths into consecutive groups of size.
func Chunk(paths []string, size int) ([][]string, error) {
	if size <= 0 || len(paths)%size != 0 {
		return nil, goerr.Wrap(types.ErrResultMismatch, "paths do not divide into groups",
			goerr.V("count", len(paths)),
			goerr.V("size", size),
		)
	}

	groups := make([][]string, 0, len(paths)/size)
	for i := 0; i < len(paths); i += size {
		group := make([]string, size)
		copy(group, paths[i:i+size])
		groups = append(groups, group)
	}
	return groups, nil
}

// MergeTail flattens the last n groups into a single group.
func MergeTail(groups [][]string, n int) ([][]string, error) {
	if n <= 0 || n > len(groups) {
		return nil, goerr.Wrap(types.ErrResultMismatch, "cannot merge trailing groups",
			goerr.V("groups", len(groups)),
			goerr.V("n", n),
		)
	}

	head := len(groups) - n
	out := make([][]string, 0, head+1)
	out = append(out, groups[:head]...)

	var tail []string
	for _, g := range groups[head:] {
		tail = append(tail, g...)
	}
	return append(out, tail), nil
}

// Zip pairs keys with entries into a bundle.
func Zip(name string, keys []string, entries []*model.Entry) (*model.Bundle, error) {
	if len(keys) != len(entries) {
		return nil, goerr.Wrap(types.ErrResultMismatch, "bundle keys and entries differ in length",
			goerr.V("dataset", name),
			goerr.V("keys", len(keys)),
			goerr.V("entries", len(entries)),
		)
	}

	b := model.NewBundle(name)
	for i, key := range keys {
		b.Set(key, entries[i])
	}
	return b, nil
}

func pathEntries(paths []string) []*model.Entry {
	entries := make([]*model.Entry, len(paths))
	for i, p := range paths {
		entries[i] = model.PathEntry(p)
	}
	return entries
}

func surfaceEntries(pairs []model.Surface) []*model.Entry {
	entries := make([]*model.Entry, len(pairs))
	for i, s := range pairs {
		entries[i] = model.SurfaceEntry(s)
	}
	return entries
}

func groupEntries(groups [][]string) []*model.Entry {
	entries := make([]*model.Entry, len(groups))
	for i, g := range groups {
		entries[i] = model.PathsEntry(g)
	}
	return entries
}
