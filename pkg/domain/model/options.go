package model

// FetchParams are the per-call knobs every dataset fetcher accepts.
type FetchParams struct {
	DataDir string // Cache root; empty means the use case default
	URL     string // Overrides the registry source URL
	Resume  bool   // Resume partial downloads
	Verbose int    // 0 silent, 1 progress, 2+ debug
}

// FetchOption mutates FetchParams
type FetchOption func(*FetchParams)

// DefaultFetchParams matches the documented defaults: resume on, verbosity 1.
func DefaultFetchParams() FetchParams {
	return FetchParams{
		Resume:  true,
		Verbose: 1,
	}
}

// WithDataDir sets the cache root
func WithDataDir(dir string) FetchOption {
	return func(p *FetchParams) {
		p.DataDir = dir
	}
}

// WithURL overrides the registry source URL
func WithURL(url string) FetchOption {
	return func(p *FetchParams) {
		p.URL = url
	}
}

// WithResume toggles resuming partial downloads
func WithResume(resume bool) FetchOption {
	return func(p *FetchParams) {
		p.Resume = resume
	}
}

// WithVerbose sets download verbosity
func WithVerbose(level int) FetchOption {
	return func(p *FetchParams) {
		p.Verbose = level
	}
}
