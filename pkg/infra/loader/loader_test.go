package loader_test

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/m-mizutani/gt"
	"github.com/netneurolab/nntdata/pkg/domain/types"
	"github.com/netneurolab/nntdata/pkg/infra/loader"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTable(t *testing.T) {
	t.Run("numeric matrix", func(t *testing.T) {
		path := writeFile(t, "conn.csv", "0,1.5,2\n1.5,0,3e-1\n2,0.3,0\n")
		table, err := loader.LoadTable(path)
		gt.NoError(t, err)
		gt.True(t, table.IsNumeric())
		rows, cols := table.Shape()
		gt.V(t, rows).Equal(3)
		gt.V(t, cols).Equal(3)
		gt.V(t, table.Numeric[1][2]).Equal(0.3)
	})

	t.Run("falls back to strings", func(t *testing.T) {
		path := writeFile(t, "labels.csv", "ctx-lh-bankssts\nctx-lh-caudalanteriorcingulate\n")
		table, err := loader.LoadTable(path)
		gt.NoError(t, err)
		gt.False(t, table.IsNumeric())
		gt.V(t, table.Strings).Equal([][]string{
			{"ctx-lh-bankssts"},
			{"ctx-lh-caudalanteriorcingulate"},
		})
	})

	t.Run("one string cell turns the whole table into strings", func(t *testing.T) {
		path := writeFile(t, "mixed.csv", "1,2\n3,x\n")
		table, err := loader.LoadTable(path)
		gt.NoError(t, err)
		gt.False(t, table.IsNumeric())
		gt.V(t, table.Strings[0][0]).Equal("1")
	})

	t.Run("ragged rows are a parse failure", func(t *testing.T) {
		path := writeFile(t, "ragged.csv", "1,2\n3\n")
		_, err := loader.LoadTable(path)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrParseFailure))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadTable(filepath.Join(t.TempDir(), "nope.csv"))
		gt.Error(t, err)
	})
}

func TestLoadColumns(t *testing.T) {
	path := writeFile(t, "rsquared_gradient.csv", "rsquared,gradient\n0.1,-1\n0.2,0\n0.3,1\n")

	cols, err := loader.LoadColumns(path, 1)
	gt.NoError(t, err)
	gt.V(t, len(cols)).Equal(2)
	gt.V(t, cols[0]).Equal([]float64{0.1, 0.2, 0.3})
	gt.V(t, cols[1]).Equal([]float64{-1, 0, 1})

	_, err = loader.LoadColumns(path, 0)
	gt.True(t, errors.Is(err, types.ErrParseFailure))
}

func TestLoadText(t *testing.T) {
	path := writeFile(t, "ref.txt", "\n  Smith et al. (2020)\n\n")
	ref, err := loader.LoadText(path)
	gt.NoError(t, err)
	gt.V(t, ref).Equal("Smith et al. (2020)")
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "template_description.json", `{"Name": "Conte69", "Authors": ["Van Essen"]}`)
	v, err := loader.LoadJSON(path)
	gt.NoError(t, err)
	gt.V(t, v["Name"]).Equal(any("Conte69"))

	bad := writeFile(t, "bad.json", `{"Name":`)
	_, err = loader.LoadJSON(bad)
	gt.True(t, errors.Is(err, types.ErrParseFailure))
}

func float32Payload(order binary.ByteOrder, values []float32) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		b := make([]byte, 4)
		order.PutUint32(b, math.Float32bits(v))
		buf.Write(b)
	}
	return buf.Bytes()
}

func gifti(arrays ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + `<GIFTI Version="1.0" NumberOfDataArrays="1">`
	for _, a := range arrays {
		out += a
	}
	return out + "</GIFTI>"
}

func dataArray(encoding, dataType, endian string, n int, data string) string {
	return fmt.Sprintf(`<DataArray Intent="NIFTI_INTENT_SHAPE" DataType="%s" ArrayIndexingOrder="RowMajorOrder" Dimensionality="1" Dim0="%d" Encoding="%s" Endian="%s" ExternalFileName="" ExternalFileOffset=""><Data>%s</Data></DataArray>`,
		dataType, n, encoding, endian, data)
}

func TestLoadGIFTI(t *testing.T) {
	values := []float32{1.5, -2, 0.25}

	t.Run("ASCII", func(t *testing.T) {
		path := writeFile(t, "a.shape.gii", gifti(dataArray("ASCII", "NIFTI_TYPE_FLOAT32", "LittleEndian", 3, "1.5 -2\n0.25")))
		got, err := loader.LoadGIFTI(path)
		gt.NoError(t, err)
		gt.V(t, got).Equal([]float64{1.5, -2, 0.25})
	})

	t.Run("Base64Binary big endian", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString(float32Payload(binary.BigEndian, values))
		path := writeFile(t, "b.shape.gii", gifti(dataArray("Base64Binary", "NIFTI_TYPE_FLOAT32", "BigEndian", 3, payload)))
		got, err := loader.LoadGIFTI(path)
		gt.NoError(t, err)
		gt.V(t, got).Equal([]float64{1.5, -2, 0.25})
	})

	t.Run("GZipBase64Binary", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, err := zw.Write(float32Payload(binary.LittleEndian, values))
		gt.NoError(t, err)
		gt.NoError(t, zw.Close())

		payload := base64.StdEncoding.EncodeToString(buf.Bytes())
		path := writeFile(t, "c.shape.gii", gifti(dataArray("GZipBase64Binary", "NIFTI_TYPE_FLOAT32", "LittleEndian", 3, payload)))
		got, err := loader.LoadGIFTI(path)
		gt.NoError(t, err)
		gt.V(t, got).Equal([]float64{1.5, -2, 0.25})
	})

	t.Run("int32 labels", func(t *testing.T) {
		raw := make([]byte, 8)
		binary.LittleEndian.PutUint32(raw[0:], 7)
		binary.LittleEndian.PutUint32(raw[4:], uint32(0xFFFFFFFF))
		payload := base64.StdEncoding.EncodeToString(raw)
		path := writeFile(t, "d.label.gii", gifti(dataArray("Base64Binary", "NIFTI_TYPE_INT32", "LittleEndian", 2, payload)))
		got, err := loader.LoadGIFTI(path)
		gt.NoError(t, err)
		gt.V(t, got).Equal([]float64{7, -1})
	})

	t.Run("declared size mismatch", func(t *testing.T) {
		path := writeFile(t, "e.shape.gii", gifti(dataArray("ASCII", "NIFTI_TYPE_FLOAT32", "LittleEndian", 4, "1 2 3")))
		_, err := loader.LoadGIFTI(path)
		gt.True(t, errors.Is(err, types.ErrParseFailure))
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		path := writeFile(t, "f.shape.gii", gifti(dataArray("ExternalFileBinary", "NIFTI_TYPE_FLOAT32", "LittleEndian", 3, "")))
		_, err := loader.LoadGIFTI(path)
		gt.True(t, errors.Is(err, types.ErrParseFailure))
	})

	t.Run("aggregate hemispheres", func(t *testing.T) {
		lh := writeFile(t, "lh.shape.gii", gifti(dataArray("ASCII", "NIFTI_TYPE_FLOAT32", "LittleEndian", 2, "1 2")))
		rh := writeFile(t, "rh.shape.gii", gifti(dataArray("ASCII", "NIFTI_TYPE_FLOAT32", "LittleEndian", 3, "3 4 5")))
		got, err := loader.AggregateGIFTI([]string{lh, rh})
		gt.NoError(t, err)
		gt.V(t, got).Equal([]float64{1, 2, 3, 4, 5})
	})
}
