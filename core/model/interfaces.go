package model

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is a model whose predictions are class labels.
type Classifier interface {
	Model

	// Classes returns the sorted class labels seen during fitting.
	Classes() []float64
}

// ProbabilisticClassifier is a classifier that can estimate class
// membership probabilities.
type ProbabilisticClassifier interface {
	Classifier

	// PredictProba returns an n_samples x n_classes matrix whose columns
	// follow the order of Classes.
	PredictProba(X mat.Matrix) (*mat.Dense, error)
}
