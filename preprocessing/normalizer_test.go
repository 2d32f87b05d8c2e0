package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

func TestNormalizer_TrainColumnsAreStandardized(t *testing.T) {
	X := mat.NewDense(5, 3, []float64{
		1, 10, 7,
		2, 20, 7,
		3, 35, 7,
		4, 40, 7,
		5, 95, 7,
	})

	n := NewNormalizer()
	Z, err := n.FitTransform(X)
	require.NoError(t, err)

	col := make([]float64, 5)
	for j := 0; j < 2; j++ {
		mat.Col(col, j, Z)
		mean, std := stat.PopMeanStdDev(col, nil)
		assert.InDelta(t, 0, mean, 1e-6, "column %d mean", j)
		assert.InDelta(t, 1, std, 1e-6, "column %d std", j)
	}

	// Constant column: std clamped to 1, values only centred.
	assert.Equal(t, 1.0, n.Scale()[2])
	mat.Col(col, 2, Z)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, col)
}

func TestNormalizer_UsesTrainStatistics(t *testing.T) {
	n := NewNormalizer()
	require.NoError(t, n.Fit(mat.NewDense(2, 1, []float64{0, 2})))

	Z, err := n.Transform(mat.NewDense(1, 1, []float64{5}))
	require.NoError(t, err)
	assert.InDelta(t, 4.0, Z.At(0, 0), 1e-12)
	assert.Equal(t, []float64{1}, n.Mean())
}

func TestNormalizer_Errors(t *testing.T) {
	n := NewNormalizer()

	_, err := n.Transform(mat.NewDense(1, 1, []float64{1}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, n.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = n.Transform(mat.NewDense(1, 3, nil))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	err = n.Fit(mat.NewDense(1, 1, []float64{math.NaN()}))
	var num *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &num))
	assert.False(t, n.IsFitted(), "a failed Fit leaves the normalizer unfitted")
}
