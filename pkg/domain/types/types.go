package types

// Version is the nntdata version, overwritten at build time via -ldflags.
var Version = "dev"

// DefaultDataDir is used when neither a flag nor NNT_DATA provides a data directory.
const DefaultDataDir = "~/nnt-data"
