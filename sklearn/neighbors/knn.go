// Package neighbors implements brute-force nearest neighbor classification.
package neighbors

import (
	"time"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/metrics"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultK is the neighbor count used by the command line runner.
const DefaultK = 5

// KNearestNeighbors is a lazy binary classifier: Fit stores the training set
// and Predict votes among the k closest training rows by Euclidean distance.
type KNearestNeighbors struct {
	state  *model.StateManager
	logger log.Logger

	k int

	xTrain *mat.Dense
	yTrain []float64
}

var _ model.Classifier = (*KNearestNeighbors)(nil)

// Option configures a KNearestNeighbors.
type Option func(*KNearestNeighbors)

// WithLogger overrides the component logger.
func WithLogger(l log.Logger) Option {
	return func(m *KNearestNeighbors) {
		m.logger = l
	}
}

// NewKNearestNeighbors creates a classifier voting among k neighbors.
// k must be positive.
func NewKNearestNeighbors(k int, opts ...Option) (*KNearestNeighbors, error) {
	if k <= 0 {
		return nil, errors.NewValidationError("k", "must be positive", k)
	}
	m := &KNearestNeighbors{
		state:  model.NewStateManager(),
		logger: log.GetLoggerWithName("KNearestNeighbors"),
		k:      k,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// K returns the configured neighbor count.
func (m *KNearestNeighbors) K() int {
	return m.k
}

// Fit stores a copy of the training data.
func (m *KNearestNeighbors) Fit(X mat.Matrix, y mat.Vector) error {
	m.state.Reset()

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("KNearestNeighbors.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return errors.NewDimensionError("KNearestNeighbors.Fit", r, y.Len(), 0)
	}

	m.xTrain = mat.DenseCopyOf(X)
	m.yTrain = make([]float64, r)
	for i := range m.yTrain {
		m.yTrain[i] = y.AtVec(i)
	}

	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	m.logger.Debug("Training data stored",
		log.ModelNameKey, "KNearestNeighbors",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.NeighborsKey, m.k,
	)
	return nil
}

// Predict labels each row by majority vote of its min(k, n_train) nearest
// training rows. Equal distances keep training order. A tied vote is class 1.
func (m *KNearestNeighbors) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := m.state.RequireFitted("KNearestNeighbors", "Predict"); err != nil {
		return nil, err
	}
	if err := m.state.RequireFeatures("KNearestNeighbors.Predict", X); err != nil {
		return nil, err
	}
	start := time.Now()

	nTest, nFeatures := X.Dims()
	_, nTrain := m.state.GetDimensions()
	k := min(m.k, nTrain)

	dists := make([]float64, nTrain)
	inds := make([]int, nTrain)
	query := make([]float64, nFeatures)
	out := mat.NewVecDense(nTest, nil)

	for i := 0; i < nTest; i++ {
		mat.Row(query, i, X)
		for j := 0; j < nTrain; j++ {
			dists[j] = floats.Distance(query, m.xTrain.RawRowView(j), 2)
		}
		floats.ArgsortStable(dists, inds)

		var count0, count1 int
		for _, idx := range inds[:k] {
			if m.yTrain[idx] < 0.5 {
				count0++
			} else {
				count1++
			}
		}
		if count1 >= count0 {
			out.SetVec(i, 1)
		}
	}

	m.logger.Debug("Prediction completed",
		log.ModelNameKey, "KNearestNeighbors",
		log.OperationKey, log.OperationPredict,
		log.SamplesKey, nTest,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Score returns the accuracy of Predict(X) against y.
func (m *KNearestNeighbors) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(mat.VecDenseCopyOf(y), pred)
}

// Classes returns the class labels.
func (m *KNearestNeighbors) Classes() []float64 {
	return []float64{0, 1}
}
