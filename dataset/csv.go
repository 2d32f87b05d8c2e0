package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// anyRow decodes no fields; every column ends up in Decoder.Unused and the
// raw cells are read back through Decoder.Record.
type anyRow struct{}

// LoadCSV reads a header line followed by data rows. Cells are trimmed. A
// row whose cell count differs from the header fails the whole load.
func LoadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(reader)
	if err == io.EOF {
		return nil, errors.NewModelError("LoadCSV", "missing header line", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}

	headers := trimAll(dec.Header())
	var rows [][]string
	for {
		var v anyRow
		if err := dec.Decode(&v); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "read csv row %d", len(rows)+1)
		}
		rows = append(rows, trimAll(dec.Record()))
	}

	return NewTable(headers, rows)
}

// LoadCSVFile opens path and calls LoadCSV.
func LoadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	t, err := LoadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return t, nil
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
