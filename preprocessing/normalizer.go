package preprocessing

import (
	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinStd はこれ未満の標準偏差を1.0とみなす閾値
const MinStd = 1e-10

// Normalizer は各特徴量を平均0、標準偏差1に変換する標準化器
// 統計量は訓練データのみから計算し、テストデータには同じ値を適用する
type Normalizer struct {
	model.BaseEstimator

	// mean は各特徴量の平均値
	mean []float64

	// scale は各特徴量の母標準偏差（MinStd未満は1.0）
	scale []float64
}

var _ model.Transformer = (*Normalizer)(nil)

// NewNormalizer は新しいNormalizerを作成する
//
//	n := preprocessing.NewNormalizer()
//	XTrainScaled, err := n.FitTransform(XTrain)
//	XTestScaled, err := n.Transform(XTest)
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Fit は訓練データから平均と母標準偏差を計算する
func (n *Normalizer) Fit(X mat.Matrix) error {
	n.Reset()

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("Normalizer.Fit", "empty data", errors.ErrEmptyData)
	}
	if err := errors.CheckMatrix("normalizer_fit", X, 0); err != nil {
		return err
	}

	mean := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean[j], scale[j] = stat.PopMeanStdDev(col, nil)

		// 定数列はゼロ除算を避けるためそのまま中心化のみ行う
		if scale[j] < MinStd {
			scale[j] = 1.0
		}
	}

	n.mean = mean
	n.scale = scale
	n.SetFitted()
	return nil
}

// Transform は学習済みの統計量を使って (x-mean)/std を要素ごとに適用する
func (n *Normalizer) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotFittedError("Normalizer", "Transform")
	}

	r, c := X.Dims()
	if c != len(n.mean) {
		return nil, errors.NewDimensionError("Normalizer.Transform", len(n.mean), c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-n.mean[j])/n.scale[j])
		}
	}
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (n *Normalizer) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := n.Fit(X); err != nil {
		return nil, err
	}
	return n.Transform(X)
}

// Mean は学習した各特徴量の平均のコピーを返す
func (n *Normalizer) Mean() []float64 {
	return append([]float64(nil), n.mean...)
}

// Scale は学習した各特徴量の標準偏差のコピーを返す
func (n *Normalizer) Scale() []float64 {
	return append([]float64(nil), n.scale...)
}
