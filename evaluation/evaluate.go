package evaluation

import (
	"time"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/metrics"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"github.com/YuminosukeSato/tabml/preprocessing"
	"github.com/google/uuid"
)

// Implementation is the tag recorded for models built by this module.
const Implementation = "Go"

// Option configures Evaluate.
type Option func(*evaluator)

type evaluator struct {
	logger log.Logger
}

// WithLogger overrides the logger used for evaluation progress.
func WithLogger(l log.Logger) Option {
	return func(e *evaluator) { e.logger = l }
}

// Evaluate fits m on the train split of data, predicts the test split and
// computes the two metrics of alg's task. Only Fit is timed. A panic inside
// the model is returned as an error.
func Evaluate(impl string, alg Algorithm, m model.Model, data *preprocessing.Result, opts ...Option) (rec Record, err error) {
	defer errors.Recover(&err, "Evaluate")

	e := &evaluator{logger: log.GetLoggerWithName("Evaluate")}
	for _, opt := range opts {
		opt(e)
	}
	if data == nil {
		return Record{}, errors.NewModelError("Evaluate", "no preprocessed data", errors.ErrEmptyData)
	}

	runID := uuid.NewString()
	logger := e.logger.With(
		log.EstimatorIDKey, runID,
		log.AlgorithmKey, string(alg),
	)

	start := time.Now()
	if err := m.Fit(data.XTrain, data.YTrain); err != nil {
		return Record{}, errors.Wrapf(err, "fit %s", alg)
	}
	trainTime := time.Since(start)

	pred, err := m.Predict(data.XTest)
	if err != nil {
		return Record{}, errors.Wrapf(err, "predict %s", alg)
	}

	task := alg.Task()
	names := task.MetricNames()
	rec = Record{
		RunID:          runID,
		Implementation: impl,
		Algorithm:      alg,
		Task:           task,
		TrainTime:      trainTime,
		Metric1Name:    names[0],
		Metric2Name:    names[1],
	}

	switch task {
	case Regression:
		if rec.Metric1, err = metrics.RMSE(data.YTest, pred); err != nil {
			return Record{}, err
		}
		if rec.Metric2, err = metrics.R2Score(data.YTest, pred); err != nil {
			return Record{}, err
		}
		logger.Info("Evaluation completed",
			log.OperationKey, log.OperationEvaluate,
			log.PhaseKey, log.PhaseTesting,
			log.RMSEKey, rec.Metric1,
			log.R2ScoreKey, rec.Metric2,
			log.DurationMsKey, trainTime.Milliseconds(),
		)
	default:
		if rec.Metric1, err = metrics.Accuracy(data.YTest, pred); err != nil {
			return Record{}, err
		}
		if rec.Metric2, err = metrics.MacroF1(data.YTest, pred); err != nil {
			return Record{}, err
		}
		logger.Info("Evaluation completed",
			log.OperationKey, log.OperationEvaluate,
			log.PhaseKey, log.PhaseTesting,
			log.AccuracyKey, rec.Metric1,
			log.F1ScoreKey, rec.Metric2,
			log.DurationMsKey, trainTime.Milliseconds(),
		)
	}
	return rec, nil
}
