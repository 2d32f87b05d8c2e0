// Package metrics は回帰と二値分類の評価指標を提供する
package metrics

import (
	"math"

	"github.com/YuminosukeSato/tabml/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// checkPair は yTrue と yPred が空でなく同じ長さであることを確認する
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// sumSquaredError は Σ(yTrue - yPred)² を返す
func sumSquaredError(yTrue, yPred *mat.VecDense) float64 {
	var residual mat.VecDense
	residual.SubVec(yTrue, yPred)
	return mat.Dot(&residual, &residual)
}

// MSE は平均二乗誤差を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return sumSquaredError(yTrue, yPred) / float64(n), nil
}

// RMSE は平方根平均二乗誤差を計算する。単位は目的変数と同じ
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// R2Score は決定係数 1 - RSS/TSS を計算する
//
// yTrue が定数（TSS = 0）の場合、予測が完全一致なら 1.0、
// そうでなければ警告を出して -Inf を返す。評価ループは止めない
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	truth := make([]float64, n)
	mat.Col(truth, 0, yTrue)
	mean := stat.Mean(truth, nil)
	floats.AddConst(-mean, truth)
	tss := floats.Dot(truth, truth)
	rss := sumSquaredError(yTrue, yPred)

	if tss == 0 {
		if rss == 0 {
			return 1.0, nil
		}
		errors.Warn(&errors.ValueError{Op: "R2Score", Message: "yTrue is constant and predictions differ from it"})
		return math.Inf(-1), nil
	}
	return 1 - rss/tss, nil
}
