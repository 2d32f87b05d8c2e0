package log

// Standard attribute keys. They follow a hierarchical naming convention
// ("model.name", "data.samples") so log output can be filtered by prefix.

// Model and operation context.
const (
	// ModelNameKey identifies the estimator or transformer type.
	ModelNameKey = "model.name"

	// EstimatorIDKey is a unique identifier for one evaluation run of a model.
	EstimatorIDKey = "estimator.id"

	// OperationKey names the operation being performed, see Operation* values.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package or named logger emitting the record.
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase, see Phase* values.
	PhaseKey = "ml.phase"

	// AlgorithmKey is the algorithm name recorded in evaluation records.
	AlgorithmKey = "ml.algorithm"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"

	// ColumnKey names a source table column.
	ColumnKey = "data.column"

	// CategoriesKey is the size of a fitted categorical vocabulary.
	CategoriesKey = "data.categories"

	// WarningsKey counts lenient-parse warnings raised while preprocessing.
	WarningsKey = "data.warnings"
)

// Performance and metrics.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	F1ScoreKey    = "metrics.f1_macro"
	RMSEKey       = "metrics.rmse"
	R2ScoreKey    = "metrics.r2_score"
	LossKey       = "metrics.loss"
	EpochKey      = "training.epoch"

	// NodesKey is the number of nodes in a fitted tree.
	NodesKey = "tree.nodes"

	// DepthKey is the depth reached by a fitted tree.
	DepthKey = "tree.depth"
)

// Hyperparameters and configuration.
const (
	LearningRateKey   = "hyperparams.learning_rate"
	RegularizationKey = "hyperparams.regularization"
	NeighborsKey      = "hyperparams.k"
	MaxDepthKey       = "hyperparams.max_depth"
	RandomSeedKey     = "config.random_seed"
	TrainRatioKey     = "config.train_ratio"
)

// Error context.
const (
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationPreprocess   = "preprocess"
	OperationEvaluate     = "evaluate"

	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhasePreprocessing = "preprocessing"
)
