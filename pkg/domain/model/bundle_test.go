package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/netneurolab/nntdata/pkg/domain/model"
)

func TestBundle(t *testing.T) {
	b := model.NewBundle("atl-cammoun2012")
	b.Set("scale125", model.PathEntry("/d/125.nii.gz"))
	b.Set("scale033", model.PathEntry("/d/033.nii.gz"))
	b.Set("info", model.PathEntry("/d/info.csv"))

	t.Run("keys keep insertion order", func(t *testing.T) {
		gt.V(t, b.Keys()).Equal([]string{"scale125", "scale033", "info"})
		gt.V(t, b.Len()).Equal(3)
	})

	t.Run("replacing keeps position", func(t *testing.T) {
		b.Set("scale125", model.PathEntry("/e/125.nii.gz"))
		gt.V(t, b.Keys()).Equal([]string{"scale125", "scale033", "info"})

		e, ok := b.Get("scale125")
		gt.True(t, ok)
		gt.V(t, e.Path).Equal("/e/125.nii.gz")
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := b.Get("scale500")
		gt.False(t, ok)
	})

	t.Run("keys are a copy", func(t *testing.T) {
		keys := b.Keys()
		keys[0] = "mutated"
		gt.V(t, b.Keys()[0]).Equal("scale125")
	})
}

func TestBundle_MarshalJSON(t *testing.T) {
	inner := model.NewBundle("gene_pc1")
	inner.Set("data", model.ValuesEntry([]float64{1.5, -2}))

	b := model.NewBundle("tpl-conte69")
	b.Set("midthickness", model.SurfaceEntry(model.Surface{LH: "L.gii", RH: "R.gii"}))
	b.Set("annotation", model.BundleEntry(inner))
	b.Set("ref", model.TextEntry("Markello 2022"))

	raw, err := json.Marshal(b)
	gt.NoError(t, err)
	gt.V(t, string(raw)).Equal(
		`{"midthickness":{"kind":"surface","surface":{"lh":"L.gii","rh":"R.gii"}},` +
			`"annotation":{"kind":"bundle","bundle":{"data":{"kind":"values","values":[1.5,-2]}}},` +
			`"ref":{"kind":"text","text":"Markello 2022"}}`)

	t.Run("empty values keep their kind", func(t *testing.T) {
		b := model.NewBundle("ds-annotations")
		b.Set("ref", model.TextEntry(""))
		b.Set("data", model.ValuesEntry(nil))
		b.Set("path", model.PathEntry(""))

		raw, err := json.Marshal(b)
		gt.NoError(t, err)
		gt.V(t, string(raw)).Equal(`{"ref":{"kind":"text"},"data":{"kind":"values"},"path":{"kind":"path"}}`)

		var decoded map[string]model.Entry
		gt.NoError(t, json.Unmarshal(raw, &decoded))
		gt.V(t, decoded["ref"].Kind).Equal(model.KindText)
		gt.V(t, decoded["ref"].Text).Equal("")
	})

	t.Run("empty bundle", func(t *testing.T) {
		raw, err := json.Marshal(model.NewBundle("empty"))
		gt.NoError(t, err)
		gt.V(t, string(raw)).Equal("{}")
	})
}

func TestTable_Shape(t *testing.T) {
	numeric := &model.Table{Numeric: [][]float64{{1, 2, 3}, {4, 5, 6}}}
	gt.True(t, numeric.IsNumeric())
	rows, cols := numeric.Shape()
	gt.V(t, rows).Equal(2)
	gt.V(t, cols).Equal(3)

	labels := &model.Table{Strings: [][]string{{"ctx-lh-bankssts"}}}
	gt.False(t, labels.IsNumeric())
	rows, cols = labels.Shape()
	gt.V(t, rows).Equal(1)
	gt.V(t, cols).Equal(1)
}
