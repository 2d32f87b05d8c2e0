package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/evaluation"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"github.com/YuminosukeSato/tabml/preprocessing"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	mc := evaluation.DefaultModelConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train and evaluate models on a CSV file",
		Long: `Load the dataset, preprocess it once per target and evaluate every
selected algorithm on a seeded train/test split.

Linear regression predicts the regression target. The classifiers predict
the classification target. Naive Bayes sees raw feature scales, the others
standardized features.`,
		Example: `  tabml run --data adult.csv
  tabml run --data adult.csv --algorithms knn,tree --k 7 --chart scores.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluation(cmd, GetConfig(cmd.Context()))
		},
	}

	f := cmd.Flags()
	f.Float64("ratio", 0.8, "Fraction of rows used for training")
	f.Int64("seed", 42, "Seed of the train/test shuffle")
	f.String("regression-target", "hours.per.week", "Target column for regression")
	f.String("classification-target", "income", "Target column for classification")
	f.StringSlice("algorithms", nil, "Algorithms to evaluate (default: all)")
	f.String("chart", "", "Write a bar chart of the first metric to this file")
	f.Float64("l2", mc.LinearL2, "Ridge penalty of linear regression")
	f.Float64("learning-rate", mc.LearningRate, "Learning rate of logistic regression")
	f.Int("epochs", mc.Epochs, "Epochs of logistic regression")
	f.Int("k", mc.K, "Neighbors of k-NN")
	f.Int("max-depth", mc.MaxDepth, "Maximum depth of the decision tree")

	return cmd
}

type preprocessKey struct {
	target    string
	normalize bool
}

func runEvaluation(cmd *cobra.Command, cfg *Config) error {
	if cfg.Data == "" {
		return errors.NewValidationError("data", "a CSV file is required", cfg.Data)
	}
	algs, err := cfg.ParsedAlgorithms()
	if err != nil {
		return err
	}

	tbl, err := dataset.LoadCSVFile(cfg.Data)
	if err != nil {
		return err
	}
	pre := preprocessing.NewPreprocessor(tbl)
	modelCfg := cfg.ModelConfig()
	logger := log.GetLoggerWithName("run")

	// 同じ目的変数・正規化の組み合わせは一度だけ前処理する
	prepared := make(map[preprocessKey]*preprocessing.Result)
	var results evaluation.Log
	var failed int

	for _, alg := range algs {
		key := preprocessKey{target: cfg.Target(alg.Task()), normalize: alg.Normalize()}
		data, ok := prepared[key]
		if !ok {
			data, err = pre.Preprocess(key.target, cfg.Ratio, cfg.Seed, key.normalize)
			if err != nil {
				slog.Error("preprocessing failed", "algorithm", string(alg), "target", key.target, log.ErrAttr(err))
				failed++
				continue
			}
			prepared[key] = data
		}

		m, err := evaluation.NewModel(alg, modelCfg)
		if err != nil {
			return err
		}
		rec, err := evaluation.Evaluate(evaluation.Implementation, alg, m, data)
		if err != nil {
			slog.Error("evaluation failed", "algorithm", string(alg), log.ErrAttr(err))
			failed++
			continue
		}
		results.Append(rec)
	}

	out := cmd.OutOrStdout()
	renderRecords(out, results.Records())
	if results.Len() == 0 {
		return errors.Newf("all %d evaluations failed", failed)
	}

	for _, task := range []evaluation.Task{evaluation.Regression, evaluation.Classification} {
		if best, ok := results.Best(task, 1); ok {
			_, _ = fmt.Fprintf(out, "best %s model by %s: %s (%s)\n",
				task, best.Metric2Name, best.Algorithm.DisplayName(), formatMetric(best.Metric2))
		}
	}

	if cfg.Chart != "" {
		if err := saveCharts(&results, cfg.Chart); err != nil {
			return err
		}
	}

	logger.Info("Run completed",
		log.SamplesKey, tbl.Len(),
		"evaluated", results.Len(),
		"failed", failed,
	)
	return nil
}

// saveChart is replaced in tests.
var saveChart = evaluation.SaveChart

// saveCharts writes one chart per task present in the log. A panic inside
// the plotting library is returned as *errors.PanicError. With both tasks
// present the task name is appended to the file name.
func saveCharts(results *evaluation.Log, path string) error {
	var tasks []evaluation.Task
	for _, task := range []evaluation.Task{evaluation.Regression, evaluation.Classification} {
		if _, ok := results.Best(task, 0); ok {
			tasks = append(tasks, task)
		}
	}
	for _, task := range tasks {
		target := path
		if len(tasks) > 1 {
			target = chartPath(path, task)
		}
		err := errors.SafeExecute("SaveChart", func() error {
			return saveChart(results, task, 0, target)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func chartPath(path string, task evaluation.Task) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + task.String() + ext
}
