// Package linear は閉形式で解くリッジ回帰を提供する
package linear

import (
	"math"
	"time"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/metrics"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// MinL2 はリッジ項の下限。L2=0 を指定しても XᵀX の対角に必ずこの値が加わる
const MinL2 = 1e-8

// LinearRegression は正規方程式をリッジ正則化付きで解く線形回帰モデル
type LinearRegression struct {
	state  *model.StateManager
	logger log.Logger

	l2 float64

	weights   *mat.VecDense // 重み（係数）
	intercept float64       // 切片
}

var _ model.LinearModel = (*LinearRegression)(nil)

// NewLinearRegression は新しい線形回帰モデルを作成する
//
//	lr := linear.NewLinearRegression(linear.WithL2(0.1))
//	err := lr.Fit(X, y)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		state:  model.NewStateManager(),
		logger: log.GetLoggerWithName("LinearRegression"),
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
// w = (XᵀX + λI')⁻¹ Xᵀy を解く。I' は切片に対応する (0,0) 成分だけ0の単位行列、
// λ = max(L2, MinL2)
func (lr *LinearRegression) Fit(X mat.Matrix, y mat.Vector) error {
	lr.state.Reset()
	start := time.Now()

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, y.Len(), 0)
	}

	// 切片項のために X に 1 の列を追加: X_b = [1, X]
	Xb := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		row := Xb.RawRowView(i)
		row[0] = 1.0
		for j := 0; j < c; j++ {
			row[j+1] = X.At(i, j)
		}
	}

	var XTX mat.Dense
	XTX.Mul(Xb.T(), Xb)

	lambda := math.Max(lr.l2, MinL2)
	for i := 1; i <= c; i++ {
		XTX.Set(i, i, XTX.At(i, i)+lambda)
	}

	XTXInv, warnings := gaussJordanInverse("LinearRegression.Fit", &XTX)
	for _, w := range warnings {
		errors.Warn(w)
	}

	var XTy mat.VecDense
	XTy.MulVec(Xb.T(), y)

	theta := mat.NewVecDense(c+1, nil)
	theta.MulVec(XTXInv, &XTy)
	if err := errors.CheckNumericalStability("ridge_solve", theta.RawVector().Data, 0); err != nil {
		return err
	}

	// 切片と重みを分離
	lr.intercept = theta.AtVec(0)
	lr.weights = mat.NewVecDense(c, nil)
	lr.weights.CopyVec(theta.SliceVec(1, c+1))

	lr.state.SetDimensions(c, r)
	lr.state.SetFitted()

	lr.logger.Info("Model fitted",
		log.ModelNameKey, "LinearRegression",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.RegularizationKey, lambda,
		"perturbed_pivots", len(warnings),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict は bias + w·x を各行について計算する
func (lr *LinearRegression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	if err := lr.state.RequireFeatures("LinearRegression.Predict", X); err != nil {
		return nil, err
	}

	r, _ := X.Dims()
	predictions := mat.NewVecDense(r, nil)
	predictions.MulVec(X, lr.weights)
	for i := 0; i < r; i++ {
		predictions.SetVec(i, predictions.AtVec(i)+lr.intercept)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(mat.VecDenseCopyOf(y), yPred)
}

// Weights は学習された重み（係数）を返す
func (lr *LinearRegression) Weights() []float64 {
	if lr.weights == nil {
		return nil
	}
	return append([]float64(nil), lr.weights.RawVector().Data...)
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// L2 は設定されたリッジ係数を返す
func (lr *LinearRegression) L2() float64 {
	return lr.l2
}
