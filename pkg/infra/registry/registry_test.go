package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"github.com/netneurolab/nntdata/pkg/infra/registry"
)

func TestDefault(t *testing.T) {
	reg, err := registry.Default()
	gt.NoError(t, err)

	t.Run("versioned dataset", func(t *testing.T) {
		gt.V(t, reg.Versions("atl-cammoun2012")).Equal([]string{
			"MNI152NLin2009aSym", "fsaverage", "fsaverage5", "fsaverage6", "fslr32k", "gcs",
		})
	})

	t.Run("versionless dataset", func(t *testing.T) {
		d, err := reg.Lookup("tpl-conte69", "")
		gt.NoError(t, err)
		gt.V(t, d.Name).Equal("tpl-conte69")
		gt.V(t, len(reg.Versions("tpl-conte69"))).Equal(0)
	})

	t.Run("pauli file list", func(t *testing.T) {
		d, err := reg.Lookup("atl-pauli2018", "")
		gt.NoError(t, err)
		gt.V(t, len(d.Files)).Equal(3)
	})

	t.Run("hcp standards carries its source", func(t *testing.T) {
		d, err := reg.Lookup("standard_mesh_atlases", "")
		gt.NoError(t, err)
		gt.True(t, strings.HasSuffix(d.URL, "standard_mesh_atlases.zip"))
	})

	t.Run("connectomes declare keys", func(t *testing.T) {
		for _, name := range reg.Versions("ds-connectomes") {
			d, err := reg.Lookup("ds-connectomes", name)
			gt.NoError(t, err)
			gt.True(t, len(d.Keys) > 0)
		}
	})
}

func TestLookup_InvalidSelector(t *testing.T) {
	reg, err := registry.Default()
	gt.NoError(t, err)

	t.Run("unknown version lists exactly the valid versions", func(t *testing.T) {
		_, err := reg.Lookup("atl-schaefer2018", "fsaverage7")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidSelector))

		var selErr *types.SelectorError
		gt.True(t, errors.As(err, &selErr))
		gt.V(t, selErr.Choices).Equal(reg.Versions("atl-schaefer2018"))
		for _, c := range selErr.Choices {
			gt.True(t, strings.Contains(err.Error(), c))
		}
	})

	t.Run("unknown dataset lists dataset names", func(t *testing.T) {
		_, err := reg.Lookup("atl-nope", "")
		var selErr *types.SelectorError
		gt.True(t, errors.As(err, &selErr))
		gt.V(t, selErr.Choices).Equal(reg.Names())
	})
}

func TestLoad(t *testing.T) {
	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := registry.Load(strings.NewReader("[[dataset]]\nname = \"x\"\nsha = \"y\"\n"))
		gt.Error(t, err)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		src := "[[dataset]]\nname = \"x\"\n\n[[dataset]]\nname = \"x\"\n"
		_, err := registry.Load(strings.NewReader(src))
		gt.Error(t, err)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		_, err := registry.Load(strings.NewReader("[[dataset]]\nversion = \"a\"\n"))
		gt.Error(t, err)
	})
}

func TestMerge(t *testing.T) {
	base, err := registry.Default()
	gt.NoError(t, err)

	path := filepath.Join(t.TempDir(), "override.toml")
	override := `
[[dataset]]
name = "atl-cammoun2012"
version = "fsaverage"
url = "https://mirror.example.org/cammoun.tar.gz"
md5 = "0123456789abcdef0123456789abcdef"

[[dataset]]
name = "atl-pauli2018"

[[dataset.files]]
name = "atl-pauli2018/atl-pauli2018_space-MNI152NLin2009cAsym_hemi-both_deterministic.csv"
url = "https://mirror.example.org/pauli.csv"

[[dataset]]
name = "ds-annotations"
version = "new_map"
density = "41k"
description = "Added by override"
`
	gt.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	over, err := registry.LoadFile(path)
	gt.NoError(t, err)
	merged := base.Merge(over)

	d, err := merged.Lookup("atl-cammoun2012", "fsaverage")
	gt.NoError(t, err)
	gt.V(t, d.URL).Equal("https://mirror.example.org/cammoun.tar.gz")
	gt.V(t, d.MD5).Equal("0123456789abcdef0123456789abcdef")

	pauli, err := merged.Lookup("atl-pauli2018", "")
	gt.NoError(t, err)
	gt.V(t, len(pauli.Files)).Equal(3)
	gt.V(t, pauli.Files[2].URL).Equal("https://mirror.example.org/pauli.csv")
	gt.V(t, pauli.Files[0].URL).Equal("")

	ann, err := merged.Lookup("ds-annotations", "new_map")
	gt.NoError(t, err)
	gt.V(t, ann.Density).Equal("41k")

	// base is untouched
	orig, err := base.Lookup("atl-cammoun2012", "fsaverage")
	gt.NoError(t, err)
	gt.V(t, orig.URL).Equal("")
}

func TestDescribe(t *testing.T) {
	reg, err := registry.Default()
	gt.NoError(t, err)

	desc := reg.Describe("ds-annotations")
	gt.V(t, len(desc)).Equal(len(reg.Versions("ds-annotations")))
	for _, v := range reg.Versions("ds-annotations") {
		gt.True(t, desc[v] != "")
	}
}
