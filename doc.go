// Package tabml is a small classical machine learning toolkit for tabular
// data, built on gonum.
//
// A run loads a CSV file into a dataset.Table, turns it into train/test
// matrices with preprocessing.Preprocessor (seeded split, one-hot encoding
// of categorical columns, z-score normalization fitted on the train split)
// and evaluates one or more models on the held-out rows.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/tabml/dataset"
//	    "github.com/YuminosukeSato/tabml/evaluation"
//	    "github.com/YuminosukeSato/tabml/preprocessing"
//	)
//
//	func main() {
//	    table, err := dataset.LoadCSVFile("adult.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    data, err := preprocessing.NewPreprocessor(table).Preprocess("income", 0.8, 42, true)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    m, _ := evaluation.NewModel(evaluation.KNN, evaluation.DefaultModelConfig())
//	    rec, err := evaluation.Evaluate(evaluation.Implementation, evaluation.KNN, m, data)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%s: %.4f\n", rec.Metric1Name, rec.Metric1)
//	}
//
// # Packages
//
//   - dataset: CSV loading and numeric/categorical column detection
//   - preprocessing: train/test split, one-hot encoder, normalizer, orchestrator
//   - linear: ridge-stabilized linear regression (closed form, Gauss-Jordan)
//   - sklearn/linear_model: logistic regression trained by gradient descent
//   - sklearn/neighbors: brute-force k-nearest neighbors
//   - sklearn/tree: ID3 decision tree over exact feature values
//   - sklearn/naive_bayes: Gaussian naive Bayes
//   - metrics: RMSE, R², accuracy, macro-F1
//   - evaluation: model factory, timed evaluation, record log, bar charts
//   - core/model: estimator interfaces and fitted-state tracking
//   - pkg/errors, pkg/log: structured errors and zerolog-backed logging
//
// Binary classifiers predict 0 or 1. String targets are encoded as 1 when
// the value contains ">" and 0 otherwise.
//
// The tabml command (cmd/tabml) wraps the same flow for the command line.
package tabml
