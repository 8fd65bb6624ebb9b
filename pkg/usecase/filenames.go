package usecase

import (
	"fmt"
	"path"
	"strings"
)

// Every dataset has its own naming convention. The enumerations below fix the request order that
// the assemblers rely on.

var hemiLR = []string{"L", "R"}

// Cammoun2012Keys are the resolution scales shared by every Cammoun 2012 version.
var Cammoun2012Keys = []string{"scale033", "scale060", "scale125", "scale250", "scale500"}

// Cammoun2012Versions lists the accepted versions in the order they are reported.
var Cammoun2012Versions = []string{
	"gcs", "fsaverage", "fsaverage5", "fsaverage6", "fslr32k", "MNI152NLin2009aSym",
}

// Cammoun2012Filenames enumerates the files of one Cammoun 2012 version, relative to
// atl-cammoun2012/<version>.
func Cammoun2012Filenames(version string) []string {
	var out []string
	switch version {
	case "MNI152NLin2009aSym":
		for _, key := range Cammoun2012Keys {
			out = append(out, fmt.Sprintf(
				"atl-Cammoun2012_space-MNI152NLin2009aSym_res-%s_deterministic.nii.gz", key[len(key)-3:]))
		}
		out = append(out, "atl-Cammoun2012_space-MNI152NLin2009aSym_info.csv")

	case "fslr32k":
		for _, key := range Cammoun2012Keys {
			for _, hemi := range hemiLR {
				out = append(out, fmt.Sprintf(
					"atl-Cammoun2012_space-fslr32k_res-%s_hemi-%s_deterministic.label.gii", key[len(key)-3:], hemi))
			}
		}

	case "fsaverage", "fsaverage5", "fsaverage6":
		for _, key := range Cammoun2012Keys {
			for _, hemi := range hemiLR {
				out = append(out, fmt.Sprintf(
					"atl-Cammoun2012_space-%s_res-%s_hemi-%s_deterministic.annot", version, key[len(key)-3:], hemi))
			}
		}

	case "gcs":
		// the finest scale is published as three separate probabilistic atlases
		resolutions := append([]string{}, Cammoun2012Keys[:len(Cammoun2012Keys)-1]...)
		resolutions = append(resolutions, "scale500v1", "scale500v2", "scale500v3")
		for _, res := range resolutions {
			for _, hemi := range hemiLR {
				for _, suffix := range []string{".gcs", ".ctab"} {
					out = append(out, fmt.Sprintf(
						"atl-Cammoun2012_res-%s_hemi-%s_probabilistic%s", strings.TrimPrefix(res, "scale"), hemi, suffix))
				}
			}
		}
	}
	return out
}

// Conte69Keys are the surfaces of the Conte69 template.
var Conte69Keys = []string{"midthickness", "inflated", "vinflated"}

// Conte69Filenames enumerates the Conte69 files relative to the data directory.
func Conte69Filenames() []string {
	var out []string
	for _, key := range Conte69Keys {
		for _, hemi := range hemiLR {
			out = append(out, fmt.Sprintf(
				"tpl-conte69/tpl-conte69_space-MNI305_variant-fsLR32k_%s.%s.surf.gii", key, hemi))
		}
	}
	return append(out, "tpl-conte69/template_description.json")
}

// FsaverageKeys are the FreeSurfer surfaces retrieved for each fsaverage version.
var FsaverageKeys = []string{"orig", "white", "smoothwm", "pial", "inflated", "sphere"}

// FsaverageVersions lists the accepted fsaverage resolutions.
var FsaverageVersions = []string{"fsaverage", "fsaverage3", "fsaverage4", "fsaverage5", "fsaverage6"}

// FsaverageFilenames enumerates <version>/surf/<hemi>.<surface> relative to tpl-fsaverage.
func FsaverageFilenames(version string) []string {
	var out []string
	for _, surf := range FsaverageKeys {
		for _, hemi := range []string{"lh", "rh"} {
			out = append(out, path.Join(version, "surf", hemi+"."+surf))
		}
	}
	return out
}

// ConnectomeFilenames enumerates <dataset>/<key>.csv for each key and the reference text.
func ConnectomeFilenames(dataset string, keys []string) []string {
	out := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		out = append(out, path.Join(dataset, key+".csv"))
	}
	return append(out, path.Join(dataset, "ref.txt"))
}

// SchaeferVersions lists the surfaces the Schaefer 2018 parcellation is available on.
var SchaeferVersions = []string{"fsaverage", "fsaverage5", "fsaverage6", "fslr32k"}

// Schaefer2018Keys are {100..1000}Parcels{7,17}Networks, parcels outermost.
func Schaefer2018Keys() []string {
	var keys []string
	for p := 100; p <= 1000; p += 100 {
		for _, n := range []int{7, 17} {
			keys = append(keys, fmt.Sprintf("%dParcels%dNetworks", p, n))
		}
	}
	return keys
}

// Schaefer2018Filenames enumerates one file per key and hemisphere. fslr32k ships a single
// bilateral CIFTI label file per key instead of two annotations.
func Schaefer2018Filenames(version string) []string {
	hemis, suffix := hemiLR, "annot"
	if version == "fslr32k" {
		hemis, suffix = []string{"LR"}, "dlabel.nii"
	}

	var out []string
	for _, desc := range Schaefer2018Keys() {
		for _, hemi := range hemis {
			out = append(out, fmt.Sprintf(
				"atl-Schaefer2018_space-%s_hemi-%s_desc-%s_deterministic.%s", version, hemi, desc, suffix))
		}
	}
	return out
}

// HCPStandardsFilenames are the sentinel files checked inside standard_mesh_atlases.
func HCPStandardsFilenames() []string {
	return []string{"L.sphere.32k_fs_LR.surf.gii", "R.sphere.32k_fs_LR.surf.gii"}
}

// VonEconomoFilenames enumerates hemisphere-major gcs/ctab pairs followed by the info table.
func VonEconomoFilenames() []string {
	var out []string
	for _, hemi := range hemiLR {
		for _, suffix := range []string{"gcs", "ctab"} {
			out = append(out, fmt.Sprintf("atl-vonEconomoKoskinas_hemi-%s_probabilistic.%s", hemi, suffix))
		}
	}
	return append(out, "atl-vonEconomoKoskinas_info.csv")
}

// AnnotationFilenames enumerates the two hemisphere shape files and the reference text of an
// annotation, relative to ds-annotations.
func AnnotationFilenames(annotation, density string) []string {
	desc := strings.ReplaceAll(strings.ToLower(annotation), "_", "")
	out := make([]string, 0, 3)
	for _, hemi := range hemiLR {
		out = append(out, path.Join(annotation, fmt.Sprintf(
			"space-fsaverage_hemi-%s_den-%s_desc-%s.shape.gii", hemi, density, desc)))
	}
	return append(out, path.Join(annotation, "refs.txt"))
}
