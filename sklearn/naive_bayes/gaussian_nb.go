// Package naive_bayes implements Gaussian naive Bayes classification.
package naive_bayes

import (
	"math"
	"slices"
	"time"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/metrics"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultVarFloor is the smallest per-feature variance a class may hold.
const DefaultVarFloor = 1e-3

// GaussianNB models every feature as an independent normal distribution
// per class. It handles any number of classes.
type GaussianNB struct {
	state  *model.StateManager
	logger log.Logger

	varFloor float64

	classes    []float64
	classPrior []float64
	theta      [][]float64 // per-class feature means
	variance   [][]float64 // per-class feature variances
}

var _ model.ProbabilisticClassifier = (*GaussianNB)(nil)

// Option configures a GaussianNB.
type Option func(*GaussianNB)

// WithVarFloor sets the variance floor.
func WithVarFloor(floor float64) Option {
	return func(nb *GaussianNB) {
		nb.varFloor = floor
	}
}

// WithLogger overrides the component logger.
func WithLogger(l log.Logger) Option {
	return func(nb *GaussianNB) {
		nb.logger = l
	}
}

// NewGaussianNB creates a new GaussianNB.
func NewGaussianNB(opts ...Option) *GaussianNB {
	nb := &GaussianNB{
		state:    model.NewStateManager(),
		logger:   log.GetLoggerWithName("GaussianNB"),
		varFloor: DefaultVarFloor,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Fit computes the class priors and the per-class feature means and
// population variances.
func (nb *GaussianNB) Fit(X mat.Matrix, y mat.Vector) error {
	nb.state.Reset()
	start := time.Now()

	if nb.varFloor <= 0 {
		return errors.NewValidationError("var_floor", "must be positive", nb.varFloor)
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("GaussianNB.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != nSamples {
		return errors.NewDimensionError("GaussianNB.Fit", nSamples, y.Len(), 0)
	}

	labels := make([]float64, nSamples)
	for i := range labels {
		labels[i] = y.AtVec(i)
	}
	classes := slices.Clone(labels)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	nClasses := len(classes)
	nb.classes = classes
	nb.classPrior = make([]float64, nClasses)
	nb.theta = make([][]float64, nClasses)
	nb.variance = make([][]float64, nClasses)

	col := make([]float64, 0, nSamples)
	for c, class := range classes {
		var members []int
		for i, l := range labels {
			if l == class {
				members = append(members, i)
			}
		}
		nb.classPrior[c] = float64(len(members)) / float64(nSamples)
		nb.theta[c] = make([]float64, nFeatures)
		nb.variance[c] = make([]float64, nFeatures)

		for j := 0; j < nFeatures; j++ {
			col = col[:0]
			for _, i := range members {
				col = append(col, X.At(i, j))
			}
			mean, variance := stat.PopMeanVariance(col, nil)
			nb.theta[c][j] = mean
			// 1サンプルしかないクラスも分散1.0ではなく varFloor になる
			nb.variance[c][j] = math.Max(variance, nb.varFloor)
		}
		if err := errors.CheckNumericalStability("gaussian_nb_fit", nb.theta[c], 0); err != nil {
			return err
		}
	}

	nb.state.SetDimensions(nFeatures, nSamples)
	nb.state.SetFitted()

	nb.logger.Info("Model fitted",
		log.ModelNameKey, "GaussianNB",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		"classes", classes,
		"class_prior", nb.classPrior,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// jointLogLikelihood returns log P(c) + Σ_j log N(x_j; μ_cj, σ²_cj) for every
// row and class.
func (nb *GaussianNB) jointLogLikelihood(op string, X mat.Matrix) (*mat.Dense, error) {
	if err := nb.state.RequireFitted("GaussianNB", op); err != nil {
		return nil, err
	}
	if err := nb.state.RequireFeatures("GaussianNB."+op, X); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	jll := mat.NewDense(nSamples, len(nb.classes), nil)
	for c := range nb.classes {
		logPrior := math.Log(nb.classPrior[c])
		for i := 0; i < nSamples; i++ {
			sum := logPrior
			for j := 0; j < nFeatures; j++ {
				normal := distuv.Normal{Mu: nb.theta[c][j], Sigma: math.Sqrt(nb.variance[c][j])}
				sum += normal.LogProb(X.At(i, j))
			}
			jll.Set(i, c, sum)
		}
	}
	return jll, nil
}

// Predict returns the class with the highest posterior; the first class wins ties.
func (nb *GaussianNB) Predict(X mat.Matrix) (*mat.VecDense, error) {
	jll, err := nb.jointLogLikelihood("Predict", X)
	if err != nil {
		return nil, err
	}

	nSamples, nClasses := jll.Dims()
	predictions := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		row := jll.RawRowView(i)
		best := 0
		for c := 1; c < nClasses; c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		predictions.SetVec(i, nb.classes[best])
	}
	return predictions, nil
}

// PredictProba returns the posterior probability of each class, columns
// ordered as Classes().
func (nb *GaussianNB) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	jll, err := nb.jointLogLikelihood("PredictProba", X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := jll.Dims()
	for i := 0; i < nSamples; i++ {
		row := jll.RawRowView(i)
		norm := floats.LogSumExp(row)
		for c := range row {
			row[c] = math.Exp(row[c] - norm)
		}
	}
	return jll, nil
}

// Score returns the accuracy on the given test data and labels.
func (nb *GaussianNB) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	predictions, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(mat.VecDenseCopyOf(y), predictions)
}

// Classes returns the sorted class labels.
func (nb *GaussianNB) Classes() []float64 {
	return slices.Clone(nb.classes)
}

// ClassPrior returns the fraction of training samples in each class.
func (nb *GaussianNB) ClassPrior() []float64 {
	return slices.Clone(nb.classPrior)
}

// Theta returns the per-class feature means.
func (nb *GaussianNB) Theta() [][]float64 {
	return cloneRows(nb.theta)
}

// Var returns the per-class feature variances after flooring.
func (nb *GaussianNB) Var() [][]float64 {
	return cloneRows(nb.variance)
}

func cloneRows(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, r := range src {
		out[i] = slices.Clone(r)
	}
	return out
}
