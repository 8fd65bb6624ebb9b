package usecase_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/netneurolab/nntdata/pkg/usecase"
)

func TestFilenameCounts(t *testing.T) {
	testCases := []struct {
		name  string
		files []string
		want  int
	}{
		{"cammoun2012 MNI152NLin2009aSym", usecase.Cammoun2012Filenames("MNI152NLin2009aSym"), 6},
		{"cammoun2012 fslr32k", usecase.Cammoun2012Filenames("fslr32k"), 10},
		{"cammoun2012 fsaverage", usecase.Cammoun2012Filenames("fsaverage"), 10},
		{"cammoun2012 fsaverage5", usecase.Cammoun2012Filenames("fsaverage5"), 10},
		{"cammoun2012 fsaverage6", usecase.Cammoun2012Filenames("fsaverage6"), 10},
		{"cammoun2012 gcs", usecase.Cammoun2012Filenames("gcs"), 28},
		{"conte69", usecase.Conte69Filenames(), 7},
		{"fsaverage", usecase.FsaverageFilenames("fsaverage4"), 12},
		{"connectome", usecase.ConnectomeFilenames("celegans", []string{"conn", "dist", "labels", "pos"}), 5},
		{"schaefer2018 fsaverage", usecase.Schaefer2018Filenames("fsaverage"), 40},
		{"schaefer2018 fslr32k", usecase.Schaefer2018Filenames("fslr32k"), 20},
		{"hcp standards", usecase.HCPStandardsFilenames(), 2},
		{"voneconomo", usecase.VonEconomoFilenames(), 5},
		{"annotation", usecase.AnnotationFilenames("gene_pc1", "10k"), 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.V(t, len(tc.files)).Equal(tc.want)
		})
	}
}

func TestCammoun2012Filenames(t *testing.T) {
	files := usecase.Cammoun2012Filenames("fsaverage6")
	gt.V(t, files[0]).Equal("atl-Cammoun2012_space-fsaverage6_res-033_hemi-L_deterministic.annot")
	gt.V(t, files[9]).Equal("atl-Cammoun2012_space-fsaverage6_res-500_hemi-R_deterministic.annot")

	files = usecase.Cammoun2012Filenames("MNI152NLin2009aSym")
	gt.V(t, files[2]).Equal("atl-Cammoun2012_space-MNI152NLin2009aSym_res-125_deterministic.nii.gz")
	gt.V(t, files[5]).Equal("atl-Cammoun2012_space-MNI152NLin2009aSym_info.csv")

	gt.V(t, len(usecase.Cammoun2012Filenames("unknown"))).Equal(0)
}

func TestSchaefer2018Keys(t *testing.T) {
	keys := usecase.Schaefer2018Keys()
	gt.V(t, keys[:3]).Equal([]string{"100Parcels7Networks", "100Parcels17Networks", "200Parcels7Networks"})
	gt.V(t, keys[len(keys)-1]).Equal("1000Parcels17Networks")

	files := usecase.Schaefer2018Filenames("fslr32k")
	gt.V(t, files[0]).Equal("atl-Schaefer2018_space-fslr32k_hemi-LR_desc-100Parcels7Networks_deterministic.dlabel.nii")
}

func TestFsaverageFilenames(t *testing.T) {
	files := usecase.FsaverageFilenames("fsaverage5")
	gt.V(t, files[:3]).Equal([]string{"fsaverage5/surf/lh.orig", "fsaverage5/surf/rh.orig", "fsaverage5/surf/lh.white"})
}

func TestAnnotationFilenames(t *testing.T) {
	files := usecase.AnnotationFilenames("fc_gradient01", "10k")
	gt.V(t, files).Equal([]string{
		"fc_gradient01/space-fsaverage_hemi-L_den-10k_desc-fcgradient01.shape.gii",
		"fc_gradient01/space-fsaverage_hemi-R_den-10k_desc-fcgradient01.shape.gii",
		"fc_gradient01/refs.txt",
	})

	for _, f := range usecase.Conte69Filenames() {
		gt.True(t, strings.HasPrefix(f, "tpl-conte69/"))
	}
}
