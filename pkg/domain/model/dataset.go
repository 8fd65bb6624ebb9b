package model

// DatasetDescriptor is one registry entry, keyed by dataset name and optional version.
type DatasetDescriptor struct {
	Name        string       `toml:"name" json:"name"`
	Version     string       `toml:"version,omitempty" json:"version,omitempty"`
	URL         string       `toml:"url,omitempty" json:"url,omitempty"`
	MD5         string       `toml:"md5,omitempty" json:"md5,omitempty"`
	Keys        []string     `toml:"keys,omitempty" json:"keys,omitempty"`
	Density     string       `toml:"density,omitempty" json:"density,omitempty"`
	Description string       `toml:"description,omitempty" json:"description,omitempty"`
	Files       []RemoteFile `toml:"files,omitempty" json:"files,omitempty"`
}

// RemoteFile describes a dataset that is published as individual files rather than one archive.
type RemoteFile struct {
	Name string `toml:"name" json:"name"`
	URL  string `toml:"url" json:"url"`
	MD5  string `toml:"md5,omitempty" json:"md5,omitempty"`
}

// SourceURL returns override when set, the registry URL otherwise.
func (d *DatasetDescriptor) SourceURL(override string) string {
	if override != "" {
		return override
	}
	return d.URL
}

// CatalogEntry summarises a fetchable dataset and the selectors it accepts.
type CatalogEntry struct {
	Dataset   string   `json:"dataset"`
	Registry  string   `json:"registry"`
	Selectors []string `json:"selectors,omitempty"`
	Default   string   `json:"default,omitempty"`
}
