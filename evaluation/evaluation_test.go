package evaluation

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/linear"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"github.com/YuminosukeSato/tabml/preprocessing"
	"github.com/YuminosukeSato/tabml/sklearn/neighbors"
	"github.com/YuminosukeSato/tabml/sklearn/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func quietLogger() log.Logger {
	l, _ := log.NewTestLogger(log.LevelError)
	return l
}

// censusTable returns 20 rows where income is ">50K" exactly for "blue" and
// hours = 2*age + 1.
func censusTable(t *testing.T) *dataset.Table {
	t.Helper()
	rows := make([][]string, 20)
	for i := range rows {
		color, income := "red", "<=50K"
		if i%2 == 1 {
			color, income = "blue", ">50K"
		}
		age := 20 + i
		rows[i] = []string{fmt.Sprint(age), color, fmt.Sprint(2*age + 1), income}
	}
	table, err := dataset.NewTable([]string{"age", "color", "hours", "income"}, rows)
	require.NoError(t, err)
	return table
}

func preprocess(t *testing.T, target string, normalize bool) *preprocessing.Result {
	t.Helper()
	p := preprocessing.NewPreprocessor(censusTable(t), preprocessing.WithPreprocessorLogger(quietLogger()))
	res, err := p.Preprocess(target, 0.8, 42, normalize)
	require.NoError(t, err)
	return res
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range Algorithms {
		got, err := ParseAlgorithm(" " + string(a) + " ")
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	got, err := ParseAlgorithm("KNN")
	require.NoError(t, err)
	assert.Equal(t, KNN, got)

	_, err = ParseAlgorithm("random_forest")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestAlgorithmTask(t *testing.T) {
	assert.Equal(t, Regression, Linear.Task())
	for _, a := range []Algorithm{Logistic, KNN, Tree, NaiveBayes} {
		assert.Equal(t, Classification, a.Task(), a)
	}
	assert.False(t, NaiveBayes.Normalize())
	assert.True(t, KNN.Normalize())
	assert.Equal(t, [2]string{"RMSE", "R2"}, Regression.MetricNames())
	assert.Equal(t, [2]string{"Accuracy", "Macro-F1"}, Classification.MetricNames())
}

func TestNewModel(t *testing.T) {
	cfg := DefaultModelConfig()
	for _, a := range Algorithms {
		m, err := NewModel(a, cfg)
		require.NoError(t, err, a)
		require.NotNil(t, m, a)
	}

	m, err := NewModel(KNN, cfg)
	require.NoError(t, err)
	knn, ok := m.(*neighbors.KNearestNeighbors)
	require.True(t, ok)
	assert.Equal(t, neighbors.DefaultK, knn.K())

	cfg.K = 0
	_, err = NewModel(KNN, cfg)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = NewModel(Algorithm("svm"), DefaultModelConfig())
	assert.Error(t, err)
}

func TestEvaluate_Regression(t *testing.T) {
	data := preprocess(t, "hours", true)

	m := linear.NewLinearRegression(linear.WithLogger(quietLogger()))
	rec, err := Evaluate(Implementation, Linear, m, data, WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, "Go", rec.Implementation)
	assert.Equal(t, Linear, rec.Algorithm)
	assert.Equal(t, Regression, rec.Task)
	assert.Equal(t, "RMSE", rec.Metric1Name)
	assert.Equal(t, "R2", rec.Metric2Name)
	assert.InDelta(t, 0, rec.Metric1, 1e-4)
	assert.InDelta(t, 1, rec.Metric2, 1e-6)
	assert.GreaterOrEqual(t, rec.TrainTime, time.Duration(0))
	assert.NotEmpty(t, rec.RunID)
}

func TestEvaluate_Classification(t *testing.T) {
	data := preprocess(t, "income", true)

	m := tree.NewDecisionTreeClassifier(tree.WithLogger(quietLogger()))
	rec, err := Evaluate(Implementation, Tree, m, data, WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, Classification, rec.Task)
	assert.Equal(t, "Accuracy", rec.Metric1Name)
	assert.Equal(t, "Macro-F1", rec.Metric2Name)
	assert.GreaterOrEqual(t, rec.Metric1, 0.0)
	assert.LessOrEqual(t, rec.Metric1, 1.0)
	assert.GreaterOrEqual(t, rec.Metric2, 0.0)
	assert.LessOrEqual(t, rec.Metric2, 1.0)
}

func TestEvaluate_AllAlgorithms(t *testing.T) {
	var l Log
	for _, a := range Algorithms {
		target := "income"
		if a.Task() == Regression {
			target = "hours"
		}
		data := preprocess(t, target, a.Normalize())

		m, err := NewModel(a, DefaultModelConfig())
		require.NoError(t, err)
		rec, err := Evaluate(Implementation, a, m, data, WithLogger(quietLogger()))
		require.NoError(t, err, a)
		l.Append(rec)
	}

	records := l.Records()
	require.Len(t, records, len(Algorithms))
	for i, a := range Algorithms {
		assert.Equal(t, a, records[i].Algorithm)
	}
}

// panickingModel panics during Fit
type panickingModel struct{}

func (panickingModel) Fit(mat.Matrix, mat.Vector) error { panic("boom") }
func (panickingModel) Predict(mat.Matrix) (*mat.VecDense, error) {
	return nil, nil
}
func (panickingModel) Score(mat.Matrix, mat.Vector) (float64, error) { return 0, nil }

var _ model.Model = panickingModel{}

func TestEvaluate_RecoversPanic(t *testing.T) {
	data := preprocess(t, "income", true)

	_, err := Evaluate(Implementation, Logistic, panickingModel{}, data, WithLogger(quietLogger()))
	require.Error(t, err)

	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "boom", panicErr.PanicValue)
	assert.Equal(t, "Evaluate", panicErr.Operation)
}

func TestEvaluate_NilData(t *testing.T) {
	_, err := Evaluate(Implementation, Linear, linear.NewLinearRegression(), nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestLog(t *testing.T) {
	var l Log
	assert.Equal(t, 0, l.Len())
	_, ok := l.Best(Classification, 0)
	assert.False(t, ok)

	l.Append(Record{Algorithm: Logistic, Task: Classification, Metric1: 0.8, Metric2: 0.7})
	l.Append(Record{Algorithm: KNN, Task: Classification, Metric1: 0.9, Metric2: 0.6})
	l.Append(Record{Algorithm: Linear, Task: Regression, Metric1: 3.0, Metric2: 0.5})
	l.Append(Record{Algorithm: Linear, Task: Regression, Metric1: 2.0, Metric2: 0.4})

	assert.Equal(t, 4, l.Len())

	best, ok := l.Best(Classification, 0)
	require.True(t, ok)
	assert.Equal(t, KNN, best.Algorithm)

	best, _ = l.Best(Classification, 1)
	assert.Equal(t, Logistic, best.Algorithm)

	// lower RMSE wins
	best, _ = l.Best(Regression, 0)
	assert.Equal(t, 2.0, best.Metric1)
	best, _ = l.Best(Regression, 1)
	assert.Equal(t, 0.5, best.Metric2)

	// Records returns a copy
	records := l.Records()
	records[0].Metric1 = -1
	assert.Equal(t, 0.8, l.Records()[0].Metric1)
}

func TestSaveChart(t *testing.T) {
	var l Log
	l.Append(Record{Algorithm: Logistic, Task: Classification, Metric1Name: "Accuracy", Metric1: 0.8})
	l.Append(Record{Algorithm: KNN, Task: Classification, Metric1Name: "Accuracy", Metric1: 0.9})

	path := filepath.Join(t.TempDir(), "accuracy.png")
	require.NoError(t, SaveChart(&l, Classification, 0, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, SaveChart(&l, Regression, 0, path))
	assert.Error(t, SaveChart(&l, Classification, 2, path))
}
