package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// OneHotEncoder turns string rows into a numeric matrix. Categorical columns
// become indicator blocks over their sorted train-time vocabulary; numeric
// columns are parsed and passed through. Output columns keep the source
// column order.
type OneHotEncoder struct {
	model.BaseEstimator

	headers     []string
	categorical map[int]bool

	vocab  map[int][]string
	lookup map[int]map[string]int
	width  int

	warnings []error
}

// NewOneHotEncoder creates an encoder for rows shaped like headers.
// categorical holds the indices of the columns to one-hot encode.
func NewOneHotEncoder(headers []string, categorical []int) *OneHotEncoder {
	cat := make(map[int]bool, len(categorical))
	for _, c := range categorical {
		cat[c] = true
	}
	return &OneHotEncoder{
		headers:     headers,
		categorical: cat,
	}
}

// Fit builds the sorted vocabulary of every categorical column. The
// vocabulary is frozen until the next Fit.
func (e *OneHotEncoder) Fit(rows [][]string) error {
	e.Reset()
	e.warnings = nil

	if len(rows) == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	for c := range e.categorical {
		if c < 0 || c >= len(e.headers) {
			return errors.NewValidationError("categorical", "column index out of range", c)
		}
	}
	if err := e.checkRows("OneHotEncoder.Fit", rows); err != nil {
		return err
	}

	vocab := make(map[int][]string, len(e.categorical))
	lookup := make(map[int]map[string]int, len(e.categorical))
	width := 0
	for c := range e.headers {
		if !e.categorical[c] {
			width++
			continue
		}
		seen := make(map[string]bool)
		var values []string
		for _, row := range rows {
			if !seen[row[c]] {
				seen[row[c]] = true
				values = append(values, row[c])
			}
		}
		sort.Strings(values)

		idx := make(map[string]int, len(values))
		for i, v := range values {
			idx[v] = i
		}
		vocab[c] = values
		lookup[c] = idx
		width += len(values)
	}

	e.vocab = vocab
	e.lookup = lookup
	e.width = width
	e.SetFitted()
	return nil
}

// Transform encodes rows with the fitted vocabulary. A category never seen
// during Fit leaves its block all zero. Numeric cells that fail to parse
// become 0.0 and are recorded as warnings.
func (e *OneHotEncoder) Transform(rows [][]string) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if len(rows) == 0 || e.width == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "empty data", errors.ErrEmptyData)
	}
	if err := e.checkRows("OneHotEncoder.Transform", rows); err != nil {
		return nil, err
	}

	out := mat.NewDense(len(rows), e.width, nil)
	for i, row := range rows {
		pos := 0
		for c, cell := range row {
			if e.categorical[c] {
				if k, ok := e.lookup[c][cell]; ok {
					out.Set(i, pos+k, 1)
				}
				pos += len(e.vocab[c])
				continue
			}

			v, err := dataset.ParseFloat(cell)
			if err != nil {
				w := errors.NewDataConversionWarning(e.headers[c], cell, "not a number")
				errors.Warn(w)
				e.warnings = append(e.warnings, w)
				v = 0
			}
			out.Set(i, pos, v)
			pos++
		}
	}
	return out, nil
}

// FitTransform fits on rows and encodes them.
func (e *OneHotEncoder) FitTransform(rows [][]string) (*mat.Dense, error) {
	if err := e.Fit(rows); err != nil {
		return nil, err
	}
	return e.Transform(rows)
}

// Categories returns the sorted vocabulary of column c, or nil for numeric
// columns.
func (e *OneHotEncoder) Categories(c int) []string {
	return append([]string(nil), e.vocab[c]...)
}

// NumFeatures returns the width of the encoded matrix.
func (e *OneHotEncoder) NumFeatures() int {
	return e.width
}

// EncodedHeaders names every output column: numeric columns keep their
// name, indicator columns are "<column>_<value>".
func (e *OneHotEncoder) EncodedHeaders() []string {
	names := make([]string, 0, e.width)
	for c, h := range e.headers {
		if !e.categorical[c] {
			names = append(names, h)
			continue
		}
		for _, v := range e.vocab[c] {
			names = append(names, h+"_"+v)
		}
	}
	return names
}

// Warnings returns the conversion warnings raised since the last Fit.
func (e *OneHotEncoder) Warnings() []error {
	return append([]error(nil), e.warnings...)
}

func (e *OneHotEncoder) checkRows(op string, rows [][]string) error {
	for _, row := range rows {
		if len(row) != len(e.headers) {
			return errors.NewDimensionError(op, len(e.headers), len(row), 1)
		}
	}
	return nil
}
