package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

func TestNewTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tbl, err := NewTable([]string{"age", "workclass"}, [][]string{{"39", "State-gov"}})
		require.NoError(t, err)
		assert.Equal(t, 1, tbl.Len())
		assert.Equal(t, 2, tbl.NumColumns())
		assert.Equal(t, []string{"age", "workclass"}, tbl.Headers())
	})

	t.Run("ragged row", func(t *testing.T) {
		_, err := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
		require.Error(t, err)
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
		assert.Contains(t, err.Error(), "row 1")
	})

	t.Run("duplicate header ignoring case", func(t *testing.T) {
		_, err := NewTable([]string{"Income", "income"}, nil)
		var valErr *errors.ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "headers", valErr.ParamName)
	})
}

func TestTable_ColumnIndex(t *testing.T) {
	tbl, err := NewTable([]string{"age", "Hours.Per.Week"}, nil)
	require.NoError(t, err)

	i, ok := tbl.ColumnIndex("hours.per.week")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = tbl.ColumnIndex("income")
	assert.False(t, ok)
}

func TestTable_IsNumericColumn(t *testing.T) {
	rows := make([][]string, 0, 12)
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{"1.5", "x", "2", ""})
	}
	// Past the sampled prefix, so it does not affect detection.
	rows = append(rows, []string{"oops", "x", "7", ""})

	tbl, err := NewTable([]string{"num", "cat", "int", "blank"}, rows)
	require.NoError(t, err)

	assert.True(t, tbl.IsNumericColumn(0))
	assert.False(t, tbl.IsNumericColumn(1))
	assert.True(t, tbl.IsNumericColumn(2))
	assert.False(t, tbl.IsNumericColumn(3))
	assert.Equal(t, []string{"num", "int"}, tbl.NumericColumns())
	assert.Equal(t, []string{"cat", "blank"}, tbl.CategoricalColumns())
}

func TestIsNumeric_EmptyColumnIsNotNumeric(t *testing.T) {
	assert.False(t, IsNumeric(nil, 0))
}

func TestParseFloat(t *testing.T) {
	v, err := ParseFloat(" 40 ")
	require.NoError(t, err)
	assert.Equal(t, 40.0, v)

	_, err = ParseFloat("?")
	assert.Error(t, err)
}

func TestTable_Column(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)

	col := tbl.Column(1)
	assert.Equal(t, []string{"x", "y"}, col)

	col[0] = "changed"
	assert.Equal(t, "x", tbl.Rows()[0][1], "Column must return a copy")
}

func TestLoadCSV(t *testing.T) {
	input := strings.Join([]string{
		"age, workclass ,income",
		"39, State-gov, <=50K",
		"50,Self-emp,>50K",
	}, "\n")

	tbl, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "workclass", "income"}, tbl.Headers())
	assert.Equal(t, [][]string{
		{"39", "State-gov", "<=50K"},
		{"50", "Self-emp", ">50K"},
	}, tbl.Rows())
}

func TestLoadCSV_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader(""))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("ragged row", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader("a,b\n1,2\n3\n"))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		tbl, err := LoadCSV(strings.NewReader("a,b\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
	})
}
