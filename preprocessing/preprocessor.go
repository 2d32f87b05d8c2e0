// Package preprocessing turns a dataset.Table into train/test feature
// matrices and label vectors: seeded split, target extraction, one-hot
// encoding and optional standardization.
package preprocessing

import (
	"strings"
	"time"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Result holds the matrices produced by Preprocess.
type Result struct {
	XTrain *mat.Dense
	YTrain *mat.VecDense
	XTest  *mat.Dense
	YTest  *mat.VecDense

	// FeatureNames names the columns of XTrain and XTest.
	FeatureNames []string

	// Warnings collects every lenient-parse conversion.
	Warnings []error
}

// Preprocessor sequences split, target extraction, column typing, encoding
// and normalization over a loaded table.
type Preprocessor struct {
	table  *dataset.Table
	logger log.Logger
}

// PreprocessorOption configures a Preprocessor.
type PreprocessorOption func(*Preprocessor)

// WithPreprocessorLogger overrides the component logger.
func WithPreprocessorLogger(l log.Logger) PreprocessorOption {
	return func(p *Preprocessor) { p.logger = l }
}

// NewPreprocessor creates a Preprocessor over table.
func NewPreprocessor(table *dataset.Table, opts ...PreprocessorOption) *Preprocessor {
	p := &Preprocessor{
		table:  table,
		logger: log.GetLoggerWithName("Preprocessor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preprocess builds (XTrain, YTrain, XTest, YTest) for target. ratio must be
// strictly between 0 and 1. Encoder and normalizer are fitted on the train
// split only. Identical inputs give identical output.
func (p *Preprocessor) Preprocess(target string, ratio float64, seed int64, normalize bool) (*Result, error) {
	start := time.Now()

	if p.table == nil || p.table.Len() == 0 {
		return nil, errors.NewModelError("Preprocessor.Preprocess", "no data loaded", errors.ErrEmptyData)
	}
	targetIdx, ok := p.table.ColumnIndex(target)
	if !ok {
		return nil, errors.NewValidationError("target", "column not found", target)
	}
	if p.table.NumColumns() < 2 {
		return nil, errors.NewValidationError("target", "table has no feature columns besides the target", target)
	}

	splitter, err := NewTrainTestSplitter(ratio, seed)
	if err != nil {
		return nil, err
	}
	trainRows, testRows := splitter.Split(p.table.Rows())
	if len(trainRows) == 0 {
		return nil, errors.NewModelError("Preprocessor.Preprocess", "train split is empty", errors.ErrEmptyData)
	}

	var warnings []error
	numericTarget := p.table.IsNumericColumn(targetIdx)
	targetName := p.table.Headers()[targetIdx]
	yTrain := extractTarget(trainRows, targetIdx, targetName, numericTarget, &warnings)
	yTest := extractTarget(testRows, targetIdx, targetName, numericTarget, &warnings)

	headers, categorical := p.featureColumns(targetIdx)
	trainFeatures := dropColumn(trainRows, targetIdx)
	testFeatures := dropColumn(testRows, targetIdx)

	encoder := NewOneHotEncoder(headers, categorical)
	XTrain, err := encoder.FitTransform(trainFeatures)
	if err != nil {
		return nil, errors.Wrap(err, "encode train split")
	}
	XTest, err := encoder.Transform(testFeatures)
	if err != nil {
		return nil, errors.Wrap(err, "encode test split")
	}
	warnings = append(warnings, encoder.Warnings()...)

	if normalize {
		normalizer := NewNormalizer()
		if XTrain, err = normalizer.FitTransform(XTrain); err != nil {
			return nil, errors.Wrap(err, "normalize train split")
		}
		if XTest, err = normalizer.Transform(XTest); err != nil {
			return nil, errors.Wrap(err, "normalize test split")
		}
	}

	_, nFeatures := XTrain.Dims()
	p.logger.Info("Preprocessing completed",
		log.OperationKey, log.OperationPreprocess,
		log.ColumnKey, targetName,
		log.TrainRatioKey, ratio,
		log.RandomSeedKey, seed,
		log.SamplesKey, p.table.Len(),
		log.FeaturesKey, nFeatures,
		log.WarningsKey, len(warnings),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Result{
		XTrain:       XTrain,
		YTrain:       yTrain,
		XTest:        XTest,
		YTest:        yTest,
		FeatureNames: encoder.EncodedHeaders(),
		Warnings:     warnings,
	}, nil
}

// featureColumns returns the headers without the target and the indices,
// relative to those headers, of the categorical columns.
func (p *Preprocessor) featureColumns(targetIdx int) ([]string, []int) {
	var headers []string
	var categorical []int
	for i, h := range p.table.Headers() {
		if i == targetIdx {
			continue
		}
		if !p.table.IsNumericColumn(i) {
			categorical = append(categorical, len(headers))
		}
		headers = append(headers, h)
	}
	return headers, categorical
}

// extractTarget builds the label vector. Numeric targets are parsed, with
// failures becoming 0.0; other targets are 1 when the value contains ">".
func extractTarget(rows [][]string, col int, name string, numeric bool, warnings *[]error) *mat.VecDense {
	if len(rows) == 0 {
		return &mat.VecDense{}
	}
	y := mat.NewVecDense(len(rows), nil)
	for i, row := range rows {
		if !numeric {
			if strings.Contains(row[col], ">") {
				y.SetVec(i, 1)
			}
			continue
		}
		v, err := dataset.ParseFloat(row[col])
		if err != nil {
			w := errors.NewDataConversionWarning(name, row[col], "target is not a number")
			errors.Warn(w)
			*warnings = append(*warnings, w)
			v = 0
		}
		y.SetVec(i, v)
	}
	return y
}

func dropColumn(rows [][]string, col int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, 0, len(row)-1)
		r = append(r, row[:col]...)
		r = append(r, row[col+1:]...)
		out[i] = r
	}
	return out
}
