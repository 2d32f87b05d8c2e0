// Package evaluation trains the five tabml models on preprocessed data,
// scores them on the held-out split and accumulates the results.
package evaluation

import (
	"strings"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// Task is the kind of prediction problem an algorithm solves.
type Task int

const (
	// Regression is scored with RMSE and R².
	Regression Task = iota
	// Classification is scored with accuracy and macro-F1.
	Classification
)

func (t Task) String() string {
	if t == Regression {
		return "regression"
	}
	return "classification"
}

// MetricNames returns the names of the two metrics reported for the task.
func (t Task) MetricNames() [2]string {
	if t == Regression {
		return [2]string{"RMSE", "R2"}
	}
	return [2]string{"Accuracy", "Macro-F1"}
}

// Algorithm identifies one of the supported models.
type Algorithm string

// Supported algorithms.
const (
	Linear     Algorithm = "linear"
	Logistic   Algorithm = "logistic"
	KNN        Algorithm = "knn"
	Tree       Algorithm = "tree"
	NaiveBayes Algorithm = "naive_bayes"
)

// Algorithms lists every supported algorithm in display order.
var Algorithms = []Algorithm{Linear, Logistic, KNN, Tree, NaiveBayes}

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	for _, a := range Algorithms {
		if a == n {
			return a, nil
		}
	}
	return "", errors.NewValidationError("algorithm", "unknown algorithm", name)
}

// Task returns the problem type the algorithm is evaluated on.
func (a Algorithm) Task() Task {
	if a == Linear {
		return Regression
	}
	return Classification
}

// Normalize reports whether features are standardized before training.
// Naive Bayes models raw feature scales.
func (a Algorithm) Normalize() bool {
	return a != NaiveBayes
}

// DisplayName returns the human readable model name.
func (a Algorithm) DisplayName() string {
	switch a {
	case Linear:
		return "Linear Regression"
	case Logistic:
		return "Logistic Regression"
	case KNN:
		return "k-Nearest Neighbors"
	case Tree:
		return "Decision Tree (ID3)"
	case NaiveBayes:
		return "Gaussian Naive Bayes"
	}
	return string(a)
}
