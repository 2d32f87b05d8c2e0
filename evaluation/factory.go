package evaluation

import (
	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/linear"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/sklearn/linear_model"
	"github.com/YuminosukeSato/tabml/sklearn/naive_bayes"
	"github.com/YuminosukeSato/tabml/sklearn/neighbors"
	"github.com/YuminosukeSato/tabml/sklearn/tree"
)

// ModelConfig holds the hyperparameters of every algorithm. Each model
// reads only its own fields.
type ModelConfig struct {
	// LinearL2 is the ridge penalty of LinearRegression.
	LinearL2 float64

	LearningRate float64
	Epochs       int
	LogisticL2   float64
	RandomState  int64

	K int

	MaxDepth        int
	MinSamplesSplit int

	VarFloor float64
}

// DefaultModelConfig returns the default hyperparameters.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		LinearL2:        0,
		LearningRate:    linear_model.DefaultLearningRate,
		Epochs:          linear_model.DefaultEpochs,
		LogisticL2:      linear_model.DefaultL2,
		RandomState:     linear_model.DefaultRandomState,
		K:               neighbors.DefaultK,
		MaxDepth:        tree.DefaultMaxDepth,
		MinSamplesSplit: tree.DefaultMinSamplesSplit,
		VarFloor:        naive_bayes.DefaultVarFloor,
	}
}

// NewModel builds an unfitted model for alg.
func NewModel(alg Algorithm, cfg ModelConfig) (model.Model, error) {
	switch alg {
	case Linear:
		return linear.NewLinearRegression(linear.WithL2(cfg.LinearL2)), nil
	case Logistic:
		return linear_model.NewLogisticRegression(
			linear_model.WithLearningRate(cfg.LearningRate),
			linear_model.WithEpochs(cfg.Epochs),
			linear_model.WithL2(cfg.LogisticL2),
			linear_model.WithRandomState(cfg.RandomState),
		), nil
	case KNN:
		knn, err := neighbors.NewKNearestNeighbors(cfg.K)
		if err != nil {
			return nil, err
		}
		return knn, nil
	case Tree:
		return tree.NewDecisionTreeClassifier(
			tree.WithMaxDepth(cfg.MaxDepth),
			tree.WithMinSamplesSplit(cfg.MinSamplesSplit),
		), nil
	case NaiveBayes:
		return naive_bayes.NewGaussianNB(naive_bayes.WithVarFloor(cfg.VarFloor)), nil
	}
	return nil, errors.NewValidationError("algorithm", "unknown algorithm", string(alg))
}
