package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/types"
)

type giftiDocument struct {
	XMLName    xml.Name         `xml:"GIFTI"`
	DataArrays []giftiDataArray `xml:"DataArray"`
}

type giftiDataArray struct {
	Intent         string `xml:"Intent,attr"`
	DataType       string `xml:"DataType,attr"`
	Dimensionality int    `xml:"Dimensionality,attr"`
	Dim0           int    `xml:"Dim0,attr"`
	Dim1           int    `xml:"Dim1,attr"`
	Dim2           int    `xml:"Dim2,attr"`
	Encoding       string `xml:"Encoding,attr"`
	Endian         string `xml:"Endian,attr"`
	Data           string `xml:"Data"`
}

// LoadGIFTI decodes every data array of a GIFTI file and returns them flattened, in file order.
func LoadGIFTI(path string) ([]float64, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open GIFTI file", goerr.V("path", path))
	}
	defer fd.Close()

	values, err := decodeGIFTI(fd)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode GIFTI file", goerr.V("path", path))
	}
	return values, nil
}

// AggregateGIFTI concatenates the data of several GIFTI files, e.g. left then right hemisphere.
func AggregateGIFTI(paths []string) ([]float64, error) {
	var out []float64
	for _, p := range paths {
		values, err := LoadGIFTI(p)
		if err != nil {
			return nil, err
		}
		out = append(out, values...)
	}
	return out, nil
}

func decodeGIFTI(r io.Reader) ([]float64, error) {
	var doc giftiDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, goerr.Wrap(types.ErrParseFailure, "malformed GIFTI XML", goerr.V("cause", err.Error()))
	}
	if len(doc.DataArrays) == 0 {
		return nil, goerr.Wrap(types.ErrParseFailure, "GIFTI file has no data arrays")
	}

	var out []float64
	for i, da := range doc.DataArrays {
		values, err := da.decode()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode data array", goerr.V("index", i))
		}
		out = append(out, values...)
	}
	return out, nil
}

// count is the declared number of elements, 0 when the header does not declare dimensions.
func (da *giftiDataArray) count() int {
	if da.Dimensionality == 0 {
		return 0
	}
	dims := []int{da.Dim0, da.Dim1, da.Dim2}
	n := 1
	for i := 0; i < da.Dimensionality && i < len(dims); i++ {
		n *= dims[i]
	}
	return n
}

func (da *giftiDataArray) decode() ([]float64, error) {
	switch da.Encoding {
	case "ASCII":
		return parseASCII(da.Data, da.count())
	case "Base64Binary", "GZipBase64Binary":
	default:
		return nil, goerr.Wrap(types.ErrParseFailure, "unsupported GIFTI encoding", goerr.V("encoding", da.Encoding))
	}

	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(da.Data), ""))
	if err != nil {
		return nil, goerr.Wrap(types.ErrParseFailure, "invalid base64 payload", goerr.V("cause", err.Error()))
	}

	if da.Encoding == "GZipBase64Binary" {
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, goerr.Wrap(types.ErrParseFailure, "invalid compressed payload", goerr.V("cause", err.Error()))
		}
		raw, err = io.ReadAll(zr)
		_ = zr.Close()
		if err != nil {
			return nil, goerr.Wrap(types.ErrParseFailure, "failed to inflate payload", goerr.V("cause", err.Error()))
		}
	}

	var order binary.ByteOrder = binary.LittleEndian
	if da.Endian == "BigEndian" {
		order = binary.BigEndian
	}
	return parseBinary(raw, da.DataType, order, da.count())
}

func parseASCII(data string, want int) ([]float64, error) {
	fields := strings.Fields(data)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, goerr.Wrap(types.ErrParseFailure, "invalid ASCII value", goerr.V("value", f))
		}
		out[i] = v
	}
	if want > 0 && len(out) != want {
		return nil, goerr.Wrap(types.ErrParseFailure, "unexpected number of values",
			goerr.V("want", want),
			goerr.V("got", len(out)),
		)
	}
	return out, nil
}

func elementSize(dataType string) int {
	switch dataType {
	case "NIFTI_TYPE_UINT8", "NIFTI_TYPE_INT8":
		return 1
	case "NIFTI_TYPE_INT16", "NIFTI_TYPE_UINT16":
		return 2
	case "NIFTI_TYPE_INT32", "NIFTI_TYPE_UINT32", "NIFTI_TYPE_FLOAT32":
		return 4
	case "NIFTI_TYPE_FLOAT64":
		return 8
	}
	return 0
}

func parseBinary(raw []byte, dataType string, order binary.ByteOrder, want int) ([]float64, error) {
	size := elementSize(dataType)
	if size == 0 {
		return nil, goerr.Wrap(types.ErrParseFailure, "unsupported GIFTI data type", goerr.V("data_type", dataType))
	}
	if len(raw)%size != 0 {
		return nil, goerr.Wrap(types.ErrParseFailure, "payload is not a whole number of elements",
			goerr.V("bytes", len(raw)),
			goerr.V("element_size", size),
		)
	}

	n := len(raw) / size
	if want > 0 && n != want {
		return nil, goerr.Wrap(types.ErrParseFailure, "unexpected number of values",
			goerr.V("want", want),
			goerr.V("got", n),
		)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		b := raw[i*size : (i+1)*size]
		switch dataType {
		case "NIFTI_TYPE_UINT8":
			out[i] = float64(b[0])
		case "NIFTI_TYPE_INT8":
			out[i] = float64(int8(b[0]))
		case "NIFTI_TYPE_INT16":
			out[i] = float64(int16(order.Uint16(b)))
		case "NIFTI_TYPE_UINT16":
			out[i] = float64(order.Uint16(b))
		case "NIFTI_TYPE_INT32":
			out[i] = float64(int32(order.Uint32(b)))
		case "NIFTI_TYPE_UINT32":
			out[i] = float64(order.Uint32(b))
		case "NIFTI_TYPE_FLOAT32":
			out[i] = float64(math.Float32frombits(order.Uint32(b)))
		case "NIFTI_TYPE_FLOAT64":
			out[i] = math.Float64frombits(order.Uint64(b))
		}
	}
	return out, nil
}
