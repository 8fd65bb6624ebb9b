package loader

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/types"
)

// LoadText returns the trimmed content of a plain-text file.
func LoadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read text file", goerr.V("path", path))
	}
	return strings.TrimSpace(string(raw)), nil
}

// LoadJSON decodes a JSON object sidecar.
func LoadJSON(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read JSON file", goerr.V("path", path))
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, goerr.Wrap(types.ErrParseFailure, "malformed JSON file",
			goerr.V("path", path),
			goerr.V("cause", err.Error()),
		)
	}
	return out, nil
}
