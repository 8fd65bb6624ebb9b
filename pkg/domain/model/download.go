package model

// FetchOptions controls how a single requested file is produced from its source.
type FetchOptions struct {
	Uncompress bool   // Extract the downloaded archive into the data directory
	MD5        string // Expected md5 of the downloaded source, empty to skip verification
	Move       string // File name the downloaded source is stored under before extraction
}

// FileRequest is one relative path to materialise under the data directory.
type FileRequest struct {
	Path    string // Path relative to the data directory
	URL     string // Source the file (or the archive containing it) is fetched from
	Options FetchOptions
}

// FetchRequest is handed to the fetch delegate; it is built per call and discarded afterwards.
type FetchRequest struct {
	DataDir string
	Files   []FileRequest
	Resume  bool
	Verbose int
}

// Paths returns the relative paths in request order.
func (r *FetchRequest) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

// FetchResult holds local absolute paths in the order the files were requested.
type FetchResult struct {
	Paths      []string
	Downloaded int   // Number of sources actually retrieved over the network
	Bytes      int64 // Bytes transferred for those sources
}
