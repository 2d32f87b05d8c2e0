package preprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
)

func incomeTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	workclass := []string{"Private", "State-gov", "Self-emp"}
	rows := make([][]string, n)
	for i := range rows {
		income := "<=50K"
		if i%3 == 0 {
			income = ">50K"
		}
		rows[i] = []string{
			fmt.Sprint(20 + i),
			workclass[i%len(workclass)],
			fmt.Sprint(30 + i%10),
			income,
		}
	}
	tbl, err := dataset.NewTable([]string{"age", "workclass", "hours.per.week", "income"}, rows)
	require.NoError(t, err)
	return tbl
}

func quietLogger() log.Logger {
	l, _ := log.NewTestLogger(log.LevelError)
	return l
}

func TestPreprocess_Classification(t *testing.T) {
	tbl := incomeTable(t, 20)
	p := NewPreprocessor(tbl, WithPreprocessorLogger(quietLogger()))

	res, err := p.Preprocess("INCOME", 0.8, 42, false)
	require.NoError(t, err)

	rTrain, cTrain := res.XTrain.Dims()
	rTest, cTest := res.XTest.Dims()
	assert.Equal(t, 16, rTrain)
	assert.Equal(t, 4, rTest)
	assert.Equal(t, 5, cTrain, "age + 3 workclass indicators + hours")
	assert.Equal(t, cTrain, cTest)
	assert.Equal(t, 16, res.YTrain.Len())
	assert.Equal(t, 4, res.YTest.Len())
	assert.Equal(t,
		[]string{"age", "workclass_Private", "workclass_Self-emp", "workclass_State-gov", "hours.per.week"},
		res.FeatureNames)

	ones := 0.0
	for _, y := range []*mat.VecDense{res.YTrain, res.YTest} {
		for i := 0; i < y.Len(); i++ {
			v := y.AtVec(i)
			assert.Contains(t, []float64{0, 1}, v)
			ones += v
		}
	}
	assert.Equal(t, 7.0, ones, "rows 0,3,...,18 are >50K")
	assert.Empty(t, res.Warnings)
}

func TestPreprocess_RegressionTargetAndNormalization(t *testing.T) {
	tbl := incomeTable(t, 40)
	p := NewPreprocessor(tbl, WithPreprocessorLogger(quietLogger()))

	res, err := p.Preprocess("hours.per.week", 0.75, 7, true)
	require.NoError(t, err)

	for i := 0; i < res.YTrain.Len(); i++ {
		v := res.YTrain.AtVec(i)
		assert.True(t, v >= 30 && v <= 39, "numeric target passes through, got %v", v)
	}

	r, c := res.XTrain.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, res.XTrain)
		sum := 0.0
		for _, v := range col {
			sum += v
		}
		assert.InDelta(t, 0, sum/float64(r), 1e-9, "column %d", j)
	}
}

func TestPreprocess_Deterministic(t *testing.T) {
	tbl := incomeTable(t, 25)
	p := NewPreprocessor(tbl, WithPreprocessorLogger(quietLogger()))

	a, err := p.Preprocess("income", 0.6, 3, true)
	require.NoError(t, err)
	b, err := p.Preprocess("income", 0.6, 3, true)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.XTrain, b.XTrain))
	assert.True(t, mat.Equal(a.XTest, b.XTest))
	assert.True(t, mat.Equal(a.YTrain, b.YTrain))
	assert.True(t, mat.Equal(a.YTest, b.YTest))
}

func TestPreprocess_LenientNumericTarget(t *testing.T) {
	errors.SetWarningHandler(func(error) {})
	defer errors.SetWarningHandler(func(error) {})
	rows := make([][]string, 0, 12)
	for i := 0; i < 11; i++ {
		rows = append(rows, []string{fmt.Sprint(i), fmt.Sprint(i * 2)})
	}
	rows = append(rows, []string{"11", "n/a"})
	tbl, err := dataset.NewTable([]string{"x", "y"}, rows)
	require.NoError(t, err)

	res, err := NewPreprocessor(tbl, WithPreprocessorLogger(quietLogger())).Preprocess("y", 0.5, 9, false)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	var w *errors.DataConversionWarning
	require.True(t, errors.As(res.Warnings[0], &w))
	assert.Equal(t, "y", w.Column)
}

func TestPreprocess_Errors(t *testing.T) {
	logger := WithPreprocessorLogger(quietLogger())

	empty, err := dataset.NewTable([]string{"a", "income"}, nil)
	require.NoError(t, err)
	_, err = NewPreprocessor(empty, logger).Preprocess("income", 0.8, 1, true)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = NewPreprocessor(nil, logger).Preprocess("income", 0.8, 1, true)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	tbl := incomeTable(t, 10)
	_, err = NewPreprocessor(tbl, logger).Preprocess("salary", 0.8, 1, true)
	var val *errors.ValidationError
	require.True(t, errors.As(err, &val))
	assert.Equal(t, "target", val.ParamName)

	_, err = NewPreprocessor(tbl, logger).Preprocess("income", 1.0, 1, true)
	require.True(t, errors.As(err, &val))
	assert.Equal(t, "ratio", val.ParamName)

	_, err = NewPreprocessor(tbl, logger).Preprocess("income", 0.05, 1, true)
	assert.True(t, errors.Is(err, errors.ErrEmptyData), "floor(10*0.05) leaves no training rows")

	onlyTarget, err := dataset.NewTable([]string{"income"}, [][]string{{">50K"}})
	require.NoError(t, err)
	_, err = NewPreprocessor(onlyTarget, logger).Preprocess("income", 0.5, 1, true)
	assert.True(t, errors.As(err, &val))
}

func TestPreprocess_LogsSummary(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	_, err := NewPreprocessor(incomeTable(t, 10), WithPreprocessorLogger(logger)).Preprocess("income", 0.8, 1, false)
	require.NoError(t, err)

	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationPreprocess))
	assert.True(t, logger.ContainsField(log.SamplesKey, 10.0))
}
