package model

import (
	"bytes"
	"encoding/json"
)

// Surface pairs left and right hemisphere files.
type Surface struct {
	LH string `json:"lh"`
	RH string `json:"rh"`
}

// Table is a delimited file loaded either as numbers or, when any cell is not numeric, as strings.
type Table struct {
	Numeric [][]float64 `json:"numeric,omitempty"`
	Strings [][]string  `json:"strings,omitempty"`
}

// IsNumeric reports whether every cell of the source parsed as a float.
func (t *Table) IsNumeric() bool {
	return t.Strings == nil
}

// Shape returns rows and columns of the loaded table.
func (t *Table) Shape() (int, int) {
	if t.IsNumeric() {
		if len(t.Numeric) == 0 {
			return 0, 0
		}
		return len(t.Numeric), len(t.Numeric[0])
	}
	if len(t.Strings) == 0 {
		return 0, 0
	}
	return len(t.Strings), len(t.Strings[0])
}

// EntryKind names which field of an Entry holds the value.
type EntryKind string

const (
	KindPath    EntryKind = "path"
	KindSurface EntryKind = "surface"
	KindPaths   EntryKind = "paths"
	KindTable   EntryKind = "table"
	KindJSON    EntryKind = "json"
	KindText    EntryKind = "text"
	KindValues  EntryKind = "values"
	KindBundle  EntryKind = "bundle"
)

// Entry is a single bundle value. Kind tells which field is set, so an empty text or vector
// still round-trips.
type Entry struct {
	Kind    EntryKind      `json:"kind"`
	Path    string         `json:"path,omitempty"`
	Surface *Surface       `json:"surface,omitempty"`
	Paths   []string       `json:"paths,omitempty"`
	Table   *Table         `json:"table,omitempty"`
	JSON    map[string]any `json:"json,omitempty"`
	Text    string         `json:"text,omitempty"`
	Values  []float64      `json:"values,omitempty"`
	Bundle  *Bundle        `json:"bundle,omitempty"`
}

// Entry constructors.
func PathEntry(p string) *Entry { return &Entry{Kind: KindPath, Path: p} }
func SurfaceEntry(s Surface) *Entry { return &Entry{Kind: KindSurface, Surface: &s} }
func PathsEntry(p []string) *Entry { return &Entry{Kind: KindPaths, Paths: p} }
func TableEntry(t *Table) *Entry { return &Entry{Kind: KindTable, Table: t} }
func JSONEntry(v map[string]any) *Entry { return &Entry{Kind: KindJSON, JSON: v} }
func TextEntry(s string) *Entry { return &Entry{Kind: KindText, Text: s} }
func ValuesEntry(v []float64) *Entry { return &Entry{Kind: KindValues, Values: v} }
func BundleEntry(b *Bundle) *Entry { return &Entry{Kind: KindBundle, Bundle: b} }

// Bundle maps semantic keys to entries and remembers the order keys were added in.
type Bundle struct {
	Name    string
	keys    []string
	entries map[string]*Entry
}

// NewBundle creates an empty bundle for the named dataset.
func NewBundle(name string) *Bundle {
	return &Bundle{
		Name:    name,
		entries: make(map[string]*Entry),
	}
}

// Set adds or replaces key. Replacing keeps the existing position.
func (b *Bundle) Set(key string, e *Entry) {
	if _, ok := b.entries[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.entries[key] = e
}

// Get returns the entry stored under key.
func (b *Bundle) Get(key string) (*Entry, bool) {
	e, ok := b.entries[key]
	return e, ok
}

// Keys returns keys in insertion order.
func (b *Bundle) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Len is the number of keys.
func (b *Bundle) Len() int {
	return len(b.keys)
}

// MarshalJSON writes entries as an object whose members follow insertion order.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(b.entries[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
