package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
)

// LoadTable reads a comma-delimited file. The table is numeric when every cell parses as a
// float; otherwise every cell is kept as a string.
func LoadTable(path string) (*model.Table, error) {
	rows, err := readRows(path, 0)
	if err != nil {
		return nil, err
	}

	if numeric, ok := parseNumeric(rows); ok {
		return &model.Table{Numeric: numeric}, nil
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &model.Table{Strings: rows}, nil
}

// LoadColumns reads a numeric comma-delimited file after skipping skipRows header lines and
// returns it column by column.
func LoadColumns(path string, skipRows int) ([][]float64, error) {
	rows, err := readRows(path, skipRows)
	if err != nil {
		return nil, err
	}

	numeric, ok := parseNumeric(rows)
	if !ok {
		return nil, goerr.Wrap(types.ErrParseFailure, "table contains non-numeric cells", goerr.V("path", path))
	}
	if len(numeric) == 0 {
		return nil, nil
	}

	cols := make([][]float64, len(numeric[0]))
	for j := range cols {
		cols[j] = make([]float64, len(numeric))
		for i, row := range numeric {
			cols[j][i] = row[j]
		}
	}
	return cols, nil
}

func readRows(path string, skipRows int) ([][]string, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open table", goerr.V("path", path))
	}
	defer fd.Close()

	r := csv.NewReader(fd)
	r.Comment = '#'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for line := 0; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(types.ErrParseFailure, "malformed delimited file",
				goerr.V("path", path),
				goerr.V("cause", err.Error()),
			)
		}
		if line < skipRows {
			continue
		}
		if len(rows) > 0 && len(record) != len(rows[0]) {
			return nil, goerr.Wrap(types.ErrParseFailure, "inconsistent number of columns",
				goerr.V("path", path),
				goerr.V("record", line+1),
				goerr.V("want", len(rows[0])),
				goerr.V("got", len(record)),
			)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func parseNumeric(rows [][]string) ([][]float64, bool) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, false
			}
			out[i][j] = v
		}
	}
	return out, true
}
