package registry

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
)

//go:embed registry.toml
var embedded []byte

type file struct {
	Datasets []model.DatasetDescriptor `toml:"dataset"`
}

// Registry is an immutable lookup table of dataset descriptors keyed by name and version.
type Registry struct {
	entries map[string]map[string]*model.DatasetDescriptor
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	reg, err := Load(bytes.NewReader(embedded))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load embedded registry")
	}
	return reg, nil
}

// Load decodes a TOML registry. Unknown fields are rejected so typos in override files surface early.
func Load(r io.Reader) (*Registry, error) {
	var f file
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&f); err != nil {
		return nil, goerr.Wrap(err, "failed to decode registry")
	}

	reg := &Registry{entries: make(map[string]map[string]*model.DatasetDescriptor)}
	for i := range f.Datasets {
		d := f.Datasets[i]
		if d.Name == "" {
			return nil, goerr.New("registry entry without name", goerr.V("index", i))
		}
		versions, ok := reg.entries[d.Name]
		if !ok {
			versions = make(map[string]*model.DatasetDescriptor)
			reg.entries[d.Name] = versions
		}
		if _, dup := versions[d.Version]; dup {
			return nil, goerr.New("duplicate registry entry",
				goerr.V("name", d.Name),
				goerr.V("version", d.Version),
			)
		}
		versions[d.Version] = &d
	}

	return reg, nil
}

// LoadFile reads a registry from path.
func LoadFile(path string) (*Registry, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open registry file", goerr.V("path", path))
	}
	defer fd.Close()

	reg, err := Load(fd)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load registry file", goerr.V("path", path))
	}
	return reg, nil
}

// Merge returns a new registry where entries of override are layered on top of r.
// Non-empty override fields win; entries only present in override are added.
func (r *Registry) Merge(override *Registry) *Registry {
	merged := &Registry{entries: make(map[string]map[string]*model.DatasetDescriptor)}
	for _, src := range []*Registry{r, override} {
		if src == nil {
			continue
		}
		for name, versions := range src.entries {
			dst, ok := merged.entries[name]
			if !ok {
				dst = make(map[string]*model.DatasetDescriptor)
				merged.entries[name] = dst
			}
			for version, d := range versions {
				dst[version] = mergeDescriptor(dst[version], d)
			}
		}
	}
	return merged
}

func mergeDescriptor(base, over *model.DatasetDescriptor) *model.DatasetDescriptor {
	if base == nil {
		d := *over
		return &d
	}
	d := *base
	if over.URL != "" {
		d.URL = over.URL
	}
	if over.MD5 != "" {
		d.MD5 = over.MD5
	}
	if len(over.Keys) > 0 {
		d.Keys = over.Keys
	}
	if over.Density != "" {
		d.Density = over.Density
	}
	if over.Description != "" {
		d.Description = over.Description
	}
	if len(over.Files) > 0 {
		d.Files = mergeFiles(d.Files, over.Files)
	}
	return &d
}

// mergeFiles overlays files by name, keeping the base ordering.
func mergeFiles(base, over []model.RemoteFile) []model.RemoteFile {
	byName := make(map[string]model.RemoteFile, len(over))
	for _, f := range over {
		byName[f.Name] = f
	}

	out := make([]model.RemoteFile, 0, len(base)+len(over))
	seen := make(map[string]bool, len(base))
	for _, f := range base {
		if o, ok := byName[f.Name]; ok {
			if o.URL != "" {
				f.URL = o.URL
			}
			if o.MD5 != "" {
				f.MD5 = o.MD5
			}
		}
		seen[f.Name] = true
		out = append(out, f)
	}
	for _, f := range over {
		if !seen[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns a copy of the descriptor for name and version.
func (r *Registry) Lookup(name, version string) (*model.DatasetDescriptor, error) {
	versions, ok := r.entries[name]
	if !ok {
		return nil, types.NewSelectorError("dataset", name, r.Names())
	}
	d, ok := versions[version]
	if !ok {
		return nil, types.NewSelectorError(name+" version", version, r.Versions(name))
	}
	out := *d
	return &out, nil
}

// Versions returns the sorted versions of name. Versionless datasets yield nil.
func (r *Registry) Versions(name string) []string {
	var versions []string
	for v := range r.entries[name] {
		if v != "" {
			versions = append(versions, v)
		}
	}
	sort.Strings(versions)
	return versions
}

// Names returns every dataset name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe maps each version of name to its description.
func (r *Registry) Describe(name string) map[string]string {
	out := make(map[string]string)
	for v, d := range r.entries[name] {
		if v != "" {
			out[v] = d.Description
		}
	}
	return out
}
