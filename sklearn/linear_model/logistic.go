// Package linear_model provides gradient-descent linear classifiers.
package linear_model

import (
	"math"
	"math/rand"
	"time"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/metrics"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default hyperparameters.
const (
	DefaultLearningRate = 0.2
	DefaultEpochs       = 400
	DefaultL2           = 0.003
	DefaultRandomState  = 7

	// lossInterval is the number of epochs between loss records.
	lossInterval = 100
	// sigmoidLimit saturates the sigmoid beyond |z| > sigmoidLimit.
	sigmoidLimit = 20.0
)

// LogisticRegression is a binary classifier trained by full-batch gradient
// descent on the L2-regularized cross-entropy loss. Labels are 0 and 1.
type LogisticRegression struct {
	state  *model.StateManager // State management (composition)
	logger log.Logger

	// Hyperparameters
	learningRate float64
	epochs       int
	l2           float64
	randomState  int64

	// Model parameters
	weights     []float64
	intercept   float64
	lossHistory []float64
}

var _ model.ProbabilisticClassifier = (*LogisticRegression)(nil)

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		logger:       log.GetLoggerWithName("LogisticRegression"),
		learningRate: DefaultLearningRate,
		epochs:       DefaultEpochs,
		l2:           DefaultL2,
		randomState:  DefaultRandomState,
	}

	// Apply options
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithLearningRate sets the gradient descent step size
func WithLearningRate(rate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.learningRate = rate
	}
}

// WithEpochs sets the number of full-batch passes
func WithEpochs(epochs int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.epochs = epochs
	}
}

// WithL2 sets the L2 penalty strength
func WithL2(l2 float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.l2 = l2
	}
}

// WithRandomState sets the seed used for weight initialization
func WithRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// WithLogger overrides the component logger
func WithLogger(l log.Logger) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.logger = l
	}
}

func (lr *LogisticRegression) validate() error {
	if lr.learningRate <= 0 {
		return errors.NewValidationError("learning_rate", "must be positive", lr.learningRate)
	}
	if lr.epochs < 0 {
		return errors.NewValidationError("epochs", "must be non-negative", lr.epochs)
	}
	if lr.l2 < 0 {
		return errors.NewValidationError("l2", "must be non-negative", lr.l2)
	}
	return nil
}

// Fit trains the logistic regression model.
//
// Weights start at (u-0.5)*0.01 with u drawn from a generator seeded by the
// random state, so two fits with the same seed produce identical models.
func (lr *LogisticRegression) Fit(X mat.Matrix, y mat.Vector) error {
	lr.state.Reset()
	lr.lossHistory = nil
	start := time.Now()

	if err := lr.validate(); err != nil {
		return err
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, y.Len(), 0)
	}

	rng := rand.New(rand.NewSource(lr.randomState))
	weights := make([]float64, nFeatures)
	for j := range weights {
		weights[j] = (rng.Float64() - 0.5) * 0.01
	}
	intercept := 0.0

	n := float64(nSamples)
	z := mat.NewVecDense(nSamples, nil)
	residual := make([]float64, nSamples)
	grad := mat.NewVecDense(nFeatures, nil)
	residualVec := mat.NewVecDense(nSamples, residual)

	for epoch := 0; epoch < lr.epochs; epoch++ {
		z.MulVec(X, mat.NewVecDense(nFeatures, weights))

		var gradIntercept float64
		for i := 0; i < nSamples; i++ {
			p := sigmoid(z.AtVec(i) + intercept)
			residual[i] = p - y.AtVec(i)
			gradIntercept += residual[i]
		}

		if epoch%lossInterval == 0 {
			loss, err := lr.loss(z, intercept, y, weights)
			if err != nil {
				return err
			}
			lr.lossHistory = append(lr.lossHistory, loss)
			lr.logger.Debug("Training progress",
				log.EpochKey, epoch,
				log.LossKey, loss,
			)
		}

		// dw = Xᵀr / n + (l2/n)·w
		grad.MulVec(X.T(), residualVec)
		gradWeights := grad.RawVector().Data
		floats.Scale(1/n, gradWeights)
		floats.AddScaled(gradWeights, lr.l2/n, weights)

		floats.AddScaled(weights, -lr.learningRate, gradWeights)
		intercept -= lr.learningRate * gradIntercept / n
	}

	if err := errors.CheckNumericalStability("logistic_weights", weights, lr.epochs); err != nil {
		return err
	}

	lr.weights = weights
	lr.intercept = intercept
	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()

	lr.logger.Info("Model fitted",
		log.ModelNameKey, "LogisticRegression",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.LearningRateKey, lr.learningRate,
		log.RegularizationKey, lr.l2,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// loss computes the clipped binary cross-entropy plus (l2/2n)·Σw².
func (lr *LogisticRegression) loss(z *mat.VecDense, intercept float64, y mat.Vector, weights []float64) (float64, error) {
	n := z.Len()
	var sum float64
	for i := 0; i < n; i++ {
		p := sigmoid(z.AtVec(i) + intercept)
		yi := y.AtVec(i)
		sum -= yi*errors.ClippedLog(p) + (1-yi)*errors.ClippedLog(1-p)
	}
	loss := sum/float64(n) + lr.l2/(2*float64(n))*floats.Dot(weights, weights)
	if err := errors.CheckScalar("loss_calculation", loss, len(lr.lossHistory)*lossInterval); err != nil {
		return 0, err
	}
	return loss, nil
}

// decision returns P(y=1|x) for every row of X.
func (lr *LogisticRegression) decision(op string, X mat.Matrix) (*mat.VecDense, error) {
	if err := lr.state.RequireFitted("LogisticRegression", op); err != nil {
		return nil, err
	}
	if err := lr.state.RequireFeatures("LogisticRegression."+op, X); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probs := mat.NewVecDense(nSamples, nil)
	probs.MulVec(X, mat.NewVecDense(len(lr.weights), lr.weights))
	for i := 0; i < nSamples; i++ {
		probs.SetVec(i, sigmoid(probs.AtVec(i)+lr.intercept))
	}
	return probs, nil
}

// Predict returns 1 where P(y=1|x) >= 0.5, otherwise 0
func (lr *LogisticRegression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	probs, err := lr.decision("Predict", X)
	if err != nil {
		return nil, err
	}
	for i := 0; i < probs.Len(); i++ {
		if probs.AtVec(i) >= 0.5 {
			probs.SetVec(i, 1)
		} else {
			probs.SetVec(i, 0)
		}
	}
	return probs, nil
}

// PredictProba returns an n×2 matrix whose columns are P(y=0) and P(y=1)
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	probs, err := lr.decision("PredictProba", X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(probs.Len(), 2, nil)
	for i := 0; i < probs.Len(); i++ {
		p := probs.AtVec(i)
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return out, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(mat.VecDenseCopyOf(y), predictions)
}

// Classes returns the class labels
func (lr *LogisticRegression) Classes() []float64 {
	return []float64{0, 1}
}

// Weights returns a copy of the learned coefficients
func (lr *LogisticRegression) Weights() []float64 {
	return append([]float64(nil), lr.weights...)
}

// Intercept returns the learned bias
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept
}

// LossHistory returns the loss recorded every 100 epochs of the last fit
func (lr *LogisticRegression) LossHistory() []float64 {
	return append([]float64(nil), lr.lossHistory...)
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": lr.learningRate,
		"epochs":        lr.epochs,
		"l2":            lr.l2,
		"random_state":  lr.randomState,
	}
}

// sigmoid computes the sigmoid function, saturating to 0 or 1 for |z| > 20
func sigmoid(z float64) float64 {
	if z > sigmoidLimit {
		return 1
	}
	if z < -sigmoidLimit {
		return 0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}
